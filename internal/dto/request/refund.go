package request

type ProcessRefundRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	Amount    string `json:"amount" validate:"required"`
}

type BatchRefundRequest struct {
	BookingIDs []string `json:"booking_ids" validate:"required,min=1,dive,uuid4"`
}

type OverrideStatusRequest struct {
	Status  string  `json:"status" validate:"required,oneof=cancelled refund_initiated refund_processed refund_completed refund_failed"`
	Note    string  `json:"note" validate:"required"`
	NewDate *string `json:"new_date,omitempty"`
	NewTime *string `json:"new_time,omitempty"`
}
