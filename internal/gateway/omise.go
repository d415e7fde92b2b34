package gateway

import (
	"context"
	"fmt"

	"salon-refunds/pkg/utils"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
	"github.com/shopspring/decimal"
)

// omiseGateway issues refunds through Omise against the original charge.
type omiseGateway struct {
	client   *omise.Client
	currency string
}

func NewOmiseGateway(cfg utils.GatewayConfig) (RefundGateway, error) {
	client, err := omise.NewClient(cfg.PublicKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("create omise client: %w", err)
	}
	client.SetDebug(false)
	// The omise client embeds *http.Client; the transport timeout bounds the
	// only externally-blocking call in the refund core.
	client.Timeout = cfg.Timeout()

	return &omiseGateway{client: client, currency: cfg.Currency}, nil
}

var subunitFactor = decimal.NewFromInt(100)

func (g *omiseGateway) Refund(ctx context.Context, bookingID, paymentID string, amount decimal.Decimal) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	refund := &omise.Refund{}
	err := g.client.Do(refund, &operations.CreateRefund{
		ChargeID: paymentID,
		Amount:   amount.Mul(subunitFactor).IntPart(),
		Metadata: map[string]interface{}{"booking_id": bookingID},
	})
	if err != nil {
		return nil, fmt.Errorf("refund charge %s: %w", paymentID, err)
	}

	return &Result{Reference: refund.ID}, nil
}
