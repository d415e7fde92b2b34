package adaptor

import (
	"errors"
	"net/http"
	"time"

	"salon-refunds/internal/usecase"
	"salon-refunds/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service usecase.ReportService
	log     *zap.Logger
}

func NewReportHandler(service usecase.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log.With(zap.String("handler", "report")),
	}
}

// MonthlyReport handles GET /api/admin/reports/monthly
func (h *ReportHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	months := utils.ParseInt(r.URL.Query().Get("months"), 12)

	report, err := h.service.MonthlyReport(r.Context(), months, time.Now())
	if err != nil {
		h.handleServiceError(w, err, "monthly report")
		return
	}

	utils.ResponseSuccess(w, "success", report)
}

// FilteredAudit handles GET /api/admin/audit
func (h *ReportHandler) FilteredAudit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := utils.ParseDate(query.Get("from"))
	to := utils.EndOfDay(utils.ParseDate(query.Get("to")))
	limit := utils.ParseInt(query.Get("limit"), 0)

	entries, err := h.service.FilteredAudit(r.Context(), from, to, limit)
	if err != nil {
		h.handleServiceError(w, err, "filtered audit")
		return
	}

	utils.ResponseSuccess(w, "success", entries)
}

// BookingAudit handles GET /api/admin/bookings/{id}/audit
func (h *ReportHandler) BookingAudit(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID format", nil)
		return
	}

	entries, err := h.service.BookingAudit(r.Context(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "booking audit trail")
		return
	}

	utils.ResponseSuccess(w, "success", entries)
}

// AuditExport handles GET /api/admin/audit/export
func (h *ReportHandler) AuditExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := utils.ParseDate(query.Get("from"))
	to := utils.EndOfDay(utils.ParseDate(query.Get("to")))

	rows, err := h.service.AuditExportRows(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, err, "audit export")
		return
	}

	utils.ResponseSuccess(w, "success", rows)
}

func (h *ReportHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var persistenceErr *usecase.PersistenceError

	switch {
	case errors.As(err, &persistenceErr):
		h.log.Error(operation+" failed - persistence", zap.Error(err))
		utils.ResponseInternalError(w, err.Error())

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
