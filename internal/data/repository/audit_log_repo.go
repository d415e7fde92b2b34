package repository

import (
	"context"
	"fmt"
	"time"

	"salon-refunds/internal/data/entity"
	"salon-refunds/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditLogRepository is the append-only ledger. The interface deliberately
// exposes no update or delete: once a row is written it is immutable, which
// is what makes the ledger a trustworthy compliance record independent of
// current booking state.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLogEntry) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.AuditLogEntry, error)
	FindAll(ctx context.Context, dateFrom, dateTo *time.Time, limit int) ([]*entity.AuditLogEntry, error)
	FindAllDetailed(ctx context.Context, dateFrom, dateTo *time.Time) ([]*entity.AuditLogDetail, error)
}

type auditLogRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuditLogRepository(db database.PgxIface, log *zap.Logger) AuditLogRepository {
	return &auditLogRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit_log")),
	}
}

// Append persists one ledger entry. Required fields are checked here so no
// call site can slip an incomplete row in; created_at is stamped on write.
func (r *auditLogRepository) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	if entry.BookingID == uuid.Nil {
		return fmt.Errorf("audit entry missing booking_id")
	}
	if entry.AdminUserID == uuid.Nil {
		return fmt.Errorf("audit entry missing admin_user_id")
	}
	if !entry.Action.Valid() {
		return fmt.Errorf("audit entry has invalid action %q", string(entry.Action))
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO audit_logs (id, booking_id, admin_user_id, action, previous_status, new_status, refund_amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.BookingID,
		entry.AdminUserID,
		entry.Action,
		entry.PreviousStatus,
		entry.NewStatus,
		entry.RefundAmount,
		entry.Note,
		entry.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to append audit entry",
			zap.Error(err),
			zap.String("booking_id", entry.BookingID.String()),
			zap.String("action", string(entry.Action)),
		)
		return fmt.Errorf("append audit entry for booking %s: %w", entry.BookingID.String(), err)
	}

	return nil
}

const auditColumns = `id, booking_id, admin_user_id, action, previous_status, new_status, refund_amount, note, created_at`

func (r *auditLogRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.AuditLogEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_logs
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`, auditColumns)

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find audit entries by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find audit entries for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var entries []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(
			&e.ID,
			&e.BookingID,
			&e.AdminUserID,
			&e.Action,
			&e.PreviousStatus,
			&e.NewStatus,
			&e.RefundAmount,
			&e.Note,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// FindAll returns entries newest-first within the optional [dateFrom, dateTo]
// interval, inclusive on both ends. limit <= 0 means unbounded.
func (r *auditLogRepository) FindAll(ctx context.Context, dateFrom, dateTo *time.Time, limit int) ([]*entity.AuditLogEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_logs
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at <= $2)
		ORDER BY created_at DESC
	`, auditColumns)

	args := []any{dateFrom, dateTo}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query audit entries", zap.Error(err))
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(
			&e.ID,
			&e.BookingID,
			&e.AdminUserID,
			&e.Action,
			&e.PreviousStatus,
			&e.NewStatus,
			&e.RefundAmount,
			&e.Note,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// FindAllDetailed joins operator and booking context for the export surface.
func (r *auditLogRepository) FindAllDetailed(ctx context.Context, dateFrom, dateTo *time.Time) ([]*entity.AuditLogDetail, error) {
	query := `
		SELECT a.id, a.booking_id, a.admin_user_id, a.action, a.previous_status, a.new_status,
		       a.refund_amount, a.note, a.created_at,
		       COALESCE(u.name, ''), COALESCE(u.email, ''),
		       COALESCE(b.salon_name, ''), COALESCE(b.service_name, '')
		FROM audit_logs a
		LEFT JOIN admin_users u ON u.id = a.admin_user_id
		LEFT JOIN bookings b ON b.id = a.booking_id
		WHERE ($1::timestamptz IS NULL OR a.created_at >= $1)
		  AND ($2::timestamptz IS NULL OR a.created_at <= $2)
		ORDER BY a.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, dateFrom, dateTo)
	if err != nil {
		r.log.Error("Failed to query detailed audit entries", zap.Error(err))
		return nil, fmt.Errorf("query detailed audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditLogDetail
	for rows.Next() {
		var d entity.AuditLogDetail
		if err := rows.Scan(
			&d.ID,
			&d.BookingID,
			&d.AdminUserID,
			&d.Action,
			&d.PreviousStatus,
			&d.NewStatus,
			&d.RefundAmount,
			&d.Note,
			&d.CreatedAt,
			&d.AdminName,
			&d.AdminEmail,
			&d.SalonName,
			&d.ServiceName,
		); err != nil {
			return nil, fmt.Errorf("scan detailed audit entry: %w", err)
		}
		entries = append(entries, &d)
	}

	return entries, rows.Err()
}
