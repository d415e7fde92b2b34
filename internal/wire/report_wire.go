package wire

import (
	"salon-refunds/internal/adaptor"
	"salon-refunds/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReport(r chi.Router, reportHandler *adaptor.ReportHandler, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Operator(log))

		// GET /api/admin/reports/monthly - Trailing monthly refund summary
		r.Get("/api/admin/reports/monthly", reportHandler.MonthlyReport)

		// GET /api/admin/audit - Filtered audit trail view
		r.Get("/api/admin/audit", reportHandler.FilteredAudit)

		// GET /api/admin/bookings/{id}/audit - One booking's full ledger history
		r.Get("/api/admin/bookings/{id}/audit", reportHandler.BookingAudit)

		// GET /api/admin/audit/export - Compliance export rows
		r.Get("/api/admin/audit/export", reportHandler.AuditExport)
	})
}
