package response

import (
	"time"

	"salon-refunds/internal/data/entity"

	"github.com/shopspring/decimal"
)

type AuditEntryResponse struct {
	ID             string                `json:"id"`
	BookingID      string                `json:"booking_id"`
	AdminUserID    string                `json:"admin_user_id"`
	Action         entity.AuditAction    `json:"action"`
	PreviousStatus *entity.BookingStatus `json:"previous_status,omitempty"`
	NewStatus      *entity.BookingStatus `json:"new_status,omitempty"`
	RefundAmount   *decimal.Decimal      `json:"refund_amount,omitempty"`
	Note           string                `json:"note,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// AuditExportRow carries the data for one CSV row of the compliance export.
// File generation itself happens downstream.
type AuditExportRow struct {
	Timestamp      time.Time             `json:"timestamp"`
	AdminName      string                `json:"admin_name"`
	AdminEmail     string                `json:"admin_email"`
	BookingID      string                `json:"booking_id"`
	SalonName      string                `json:"salon_name"`
	ServiceName    string                `json:"service_name"`
	Action         entity.AuditAction    `json:"action"`
	PreviousStatus *entity.BookingStatus `json:"previous_status,omitempty"`
	NewStatus      *entity.BookingStatus `json:"new_status,omitempty"`
	RefundAmount   *decimal.Decimal      `json:"refund_amount,omitempty"`
	Note           string                `json:"note,omitempty"`
}

// Helper converters
func AuditEntryToResponse(e *entity.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:             e.ID.String(),
		BookingID:      e.BookingID.String(),
		AdminUserID:    e.AdminUserID.String(),
		Action:         e.Action,
		PreviousStatus: e.PreviousStatus,
		NewStatus:      e.NewStatus,
		RefundAmount:   e.RefundAmount,
		Note:           e.Note,
		CreatedAt:      e.CreatedAt,
	}
}

func AuditDetailToExportRow(d *entity.AuditLogDetail) AuditExportRow {
	return AuditExportRow{
		Timestamp:      d.CreatedAt,
		AdminName:      d.AdminName,
		AdminEmail:     d.AdminEmail,
		BookingID:      d.BookingID.String(),
		SalonName:      d.SalonName,
		ServiceName:    d.ServiceName,
		Action:         d.Action,
		PreviousStatus: d.PreviousStatus,
		NewStatus:      d.NewStatus,
		RefundAmount:   d.RefundAmount,
		Note:           d.Note,
	}
}
