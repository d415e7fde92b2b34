package repository

import (
	"salon-refunds/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking  BookingRepository
	AuditLog AuditLogRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Booking:  NewBookingRepository(db, log),
		AuditLog: NewAuditLogRepository(db, log),
	}
}
