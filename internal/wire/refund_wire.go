package wire

import (
	"salon-refunds/internal/adaptor"
	"salon-refunds/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRefund(r chi.Router, refundHandler *adaptor.RefundHandler, log *zap.Logger) {
	// All refund actions are operator actions; every one of them lands in
	// the audit ledger under the operator's identity.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Operator(log))

		// POST /api/admin/refunds - Process a single refund
		r.Post("/api/admin/refunds", refundHandler.ProcessRefund)

		// POST /api/admin/refunds/batch - Batch remediation across bookings
		r.Post("/api/admin/refunds/batch", refundHandler.BatchRefund)

		// PUT /api/admin/bookings/{id}/status - Manual status override
		r.Put("/api/admin/bookings/{id}/status", refundHandler.OverrideStatus)

		// GET /api/admin/refunds/cases - Refund cases with SLA priority
		r.Get("/api/admin/refunds/cases", refundHandler.ListCases)

		// GET /api/admin/refunds/unreconciled - Attempts needing manual reconciliation
		r.Get("/api/admin/refunds/unreconciled", refundHandler.Unreconciled)
	})
}
