// Package gateway adapts the external payment provider's refund API.
//
// The refund core treats the provider as a black box: one call, one amount,
// one booking, success or failure. No retries happen here; retry is an
// operator decision recorded through the state machine.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Result carries the provider's reference for a successful refund.
type Result struct {
	Reference string
}

// RefundGateway submits one refund of amount against the charge identified
// by paymentID. A timeout or transport failure must surface as an error and
// never be treated as success; money is only considered moved on a positive
// confirmation.
type RefundGateway interface {
	Refund(ctx context.Context, bookingID, paymentID string, amount decimal.Decimal) (*Result, error)
}
