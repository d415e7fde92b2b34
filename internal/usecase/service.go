package usecase

import (
	"salon-refunds/internal/data/repository"
	"salon-refunds/internal/gateway"
	"salon-refunds/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Refund RefundService
	Report ReportService
}

func NewService(
	repo *repository.Repository,
	gw gateway.RefundGateway,
	journal AttemptJournal,
	pub EventPublisher,
	config *utils.Config,
	logger *zap.Logger,
) *Service {
	sla := NewSLAEngine(config.SLA)

	return &Service{
		Refund: NewRefundService(repo, gw, journal, pub, sla, config.Batch.Concurrency, logger),
		Report: NewReportService(repo, logger),
	}
}
