package response

import (
	"time"

	"salon-refunds/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID           string               `json:"id"`
	SalonName    string               `json:"salon_name,omitempty"`
	ServiceName  string               `json:"service_name,omitempty"`
	BookingDate  *string              `json:"booking_date,omitempty"`
	BookingTime  *string              `json:"booking_time,omitempty"`
	ServicePrice decimal.Decimal      `json:"service_price"`
	PaymentID    *string              `json:"payment_id,omitempty"`
	Status       entity.BookingStatus `json:"status"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type RefundCaseResponse struct {
	BookingResponse
	Priority string    `json:"priority"`
	Target   time.Time `json:"target"`
}

type BatchRefundResponse struct {
	SuccessCount int `json:"success_count"`
	FailCount    int `json:"fail_count"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID.String(),
		SalonName:    b.SalonName,
		ServiceName:  b.ServiceName,
		BookingDate:  b.BookingDate,
		BookingTime:  b.BookingTime,
		ServicePrice: b.ServicePrice,
		PaymentID:    b.PaymentID,
		Status:       b.Status,
		UpdatedAt:    b.UpdatedAt,
	}
}
