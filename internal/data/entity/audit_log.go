package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuditAction string

const (
	AuditActionRefundProcessed      AuditAction = "REFUND_PROCESSED"
	AuditActionBatchRefundProcessed AuditAction = "BATCH_REFUND_PROCESSED"
	AuditActionRefundFailed         AuditAction = "REFUND_FAILED"
	AuditActionStatusOverride       AuditAction = "STATUS_OVERRIDE"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionRefundProcessed,
		AuditActionBatchRefundProcessed,
		AuditActionRefundFailed,
		AuditActionStatusOverride:
		return true
	}
	return false
}

// AuditLogEntry is one row of the append-only compliance ledger. Entries are
// created once and never updated or deleted; the ledger, not the booking
// status, is the source of truth for what happened and when.
type AuditLogEntry struct {
	BaseImmutable
	BookingID      uuid.UUID        `db:"booking_id"`
	AdminUserID    uuid.UUID        `db:"admin_user_id"`
	Action         AuditAction      `db:"action"`
	PreviousStatus *BookingStatus   `db:"previous_status"`
	NewStatus      *BookingStatus   `db:"new_status"`
	RefundAmount   *decimal.Decimal `db:"refund_amount"`
	Note           string           `db:"note"`
}

// AuditLogDetail is an AuditLogEntry joined with the operator and booking
// context the compliance export needs. Read-only projection.
type AuditLogDetail struct {
	AuditLogEntry
	AdminName   string `db:"admin_name"`
	AdminEmail  string `db:"admin_email"`
	SalonName   string `db:"salon_name"`
	ServiceName string `db:"service_name"`
}
