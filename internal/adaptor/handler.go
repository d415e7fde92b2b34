package adaptor

import (
	"salon-refunds/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Refund *RefundHandler
	Report *ReportHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Refund: NewRefundHandler(service.Refund, log),
		Report: NewReportHandler(service.Report, log),
	}
}
