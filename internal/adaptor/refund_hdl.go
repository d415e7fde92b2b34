package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"salon-refunds/internal/data/entity"
	"salon-refunds/internal/dto/request"
	"salon-refunds/internal/dto/response"
	"salon-refunds/internal/usecase"
	"salon-refunds/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RefundHandler struct {
	service usecase.RefundService
	log     *zap.Logger
}

func NewRefundHandler(service usecase.RefundService, log *zap.Logger) *RefundHandler {
	return &RefundHandler{
		service: service,
		log:     log.With(zap.String("handler", "refund")),
	}
}

// ProcessRefund handles POST /api/admin/refunds
func (h *RefundHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	admin, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Operator identity required")
		return
	}

	var req request.ProcessRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID format", nil)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid amount format", nil)
		return
	}

	booking, err := h.service.ProcessRefund(r.Context(), admin.ID, bookingID, amount)
	if err != nil {
		h.handleServiceError(w, err, "process refund")
		return
	}

	// Confirm the amount and target booking back to the operator.
	utils.ResponseSuccess(w,
		fmt.Sprintf("Refund of %s initiated for booking %s", amount.String(), booking.ID.String()),
		response.BookingToResponse(booking),
	)
}

// BatchRefund handles POST /api/admin/refunds/batch
func (h *RefundHandler) BatchRefund(w http.ResponseWriter, r *http.Request) {
	admin, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Operator identity required")
		return
	}

	var req request.BatchRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	bookingIDs := make([]uuid.UUID, len(req.BookingIDs))
	for i, idStr := range req.BookingIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			utils.ResponseBadRequest(w, fmt.Sprintf("Invalid booking ID format: %s", idStr), nil)
			return
		}
		bookingIDs[i] = id
	}

	result, err := h.service.BatchRefund(r.Context(), admin.ID, bookingIDs)
	if err != nil {
		h.handleServiceError(w, err, "batch refund")
		return
	}

	utils.ResponseSuccess(w, "success", response.BatchRefundResponse{
		SuccessCount: result.SuccessCount,
		FailCount:    result.FailCount,
	})
}

// OverrideStatus handles PUT /api/admin/bookings/{id}/status
func (h *RefundHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	admin, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Operator identity required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID format", nil)
		return
	}

	var req request.OverrideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.OverrideStatus(r.Context(), admin.ID, bookingID,
		entity.BookingStatus(req.Status), req.Note, req.NewDate, req.NewTime)
	if err != nil {
		h.handleServiceError(w, err, "override status")
		return
	}

	utils.ResponseSuccess(w,
		fmt.Sprintf("Booking %s set to %s", booking.ID.String(), booking.Status),
		response.BookingToResponse(booking),
	)
}

// ListCases handles GET /api/admin/refunds/cases
func (h *RefundHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.service.ListCases(r.Context(), time.Now())
	if err != nil {
		h.handleServiceError(w, err, "list refund cases")
		return
	}

	out := make([]response.RefundCaseResponse, len(cases))
	for i, c := range cases {
		out[i] = response.RefundCaseResponse{
			BookingResponse: response.BookingToResponse(c.Booking),
			Priority:        string(c.Priority),
			Target:          c.Target,
		}
	}

	utils.ResponseSuccess(w, "success", out)
}

// Unreconciled handles GET /api/admin/refunds/unreconciled
func (h *RefundHandler) Unreconciled(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.service.Unreconciled()
	if err != nil {
		h.handleServiceError(w, err, "list unreconciled attempts")
		return
	}

	utils.ResponseSuccess(w, "success", attempts)
}

// handleServiceError maps the refund error taxonomy onto HTTP responses.
// Operators get the underlying detail so they can decide whether to retry.
func (h *RefundHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError
	var gatewayErr *usecase.GatewayError
	var persistenceErr *usecase.PersistenceError

	switch {
	case errors.Is(err, usecase.ErrBookingNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.As(err, &validationErr):
		h.log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.As(err, &gatewayErr):
		h.log.Warn(operation+" failed at gateway", zap.Error(err))
		utils.ResponseBadGateway(w, err.Error())

	case errors.As(err, &persistenceErr):
		h.log.Error(operation+" failed - persistence", zap.Error(err))
		utils.ResponseInternalError(w, err.Error())

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
