package repository

import (
	"context"
	"fmt"
	"time"

	"salon-refunds/internal/data/entity"
	"salon-refunds/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingRepository is the narrow contract against the booking record store.
// The refund core reads bookings and advances their status; it never creates
// or deletes them and never touches service_price.
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, newDate, newTime *string) (*entity.Booking, error)

	// Business queries
	FindRefundCases(ctx context.Context) ([]*entity.Booking, error)
	FindRefundRelatedSince(ctx context.Context, from time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, salon_id, salon_name, service_name, booking_date, booking_time,
	service_price, payment_id, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.SalonID,
		&b.SalonName,
		&b.ServiceName,
		&b.BookingDate,
		&b.BookingTime,
		&b.ServicePrice,
		&b.PaymentID,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, newDate, newTime *string) (*entity.Booking, error) {
	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $2,
		    booking_date = COALESCE($3, booking_date),
		    booking_time = COALESCE($4, booking_time),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, status, newDate, newTime))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("booking %s not found", id.String())
	}
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindRefundCases(ctx context.Context) ([]*entity.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE status IN ('cancelled', 'refund_initiated', 'refund_processed', 'refund_completed', 'refund_failed')
		ORDER BY updated_at ASC
	`, bookingColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find refund cases", zap.Error(err))
		return nil, fmt.Errorf("find refund cases: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan refund case: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) FindRefundRelatedSince(ctx context.Context, from time.Time) ([]*entity.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE status IN ('refund_initiated', 'refund_processed', 'refund_completed', 'refund_failed')
		  AND updated_at >= $1
		ORDER BY updated_at DESC
	`, bookingColumns)

	rows, err := r.db.Query(ctx, query, from)
	if err != nil {
		r.log.Error("Failed to find refund-related bookings",
			zap.Error(err),
			zap.Time("from", from),
		)
		return nil, fmt.Errorf("find refund-related bookings since %s: %w", from.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan refund-related booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
