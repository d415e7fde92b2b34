package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"salon-refunds/internal/data/entity"
	"salon-refunds/internal/data/repository"
	"salon-refunds/internal/events"
	"salon-refunds/internal/gateway"
	"salon-refunds/internal/reconcile"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const batchRefundNote = "processed as part of batch refund"

// AttemptJournal is the durable trace of gateway submissions. It blocks
// duplicate in-flight submissions for one booking and preserves confirmed
// refunds whose ledger write failed. *reconcile.Journal implements it.
type AttemptJournal interface {
	Begin(bookingID string, amount decimal.Decimal) error
	Complete(bookingID string, status reconcile.AttemptStatus, gatewayRef, note string) error
	Unreconciled() ([]reconcile.Attempt, error)
}

// EventPublisher emits refund lifecycle events. *events.Publisher implements
// it and is nil-safe, so a disabled event bus costs nothing.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// BatchResult is the first-class outcome of a batch run. Partial completion
// is normal; the caller re-queries to see which bookings advanced.
type BatchResult struct {
	SuccessCount int `json:"success_count"`
	FailCount    int `json:"fail_count"`
}

// RefundCase is one operator-facing case with its computed urgency.
type RefundCase struct {
	Booking  *entity.Booking
	Priority Priority
	Target   time.Time
}

type RefundService interface {
	ProcessRefund(ctx context.Context, adminID, bookingID uuid.UUID, amount decimal.Decimal) (*entity.Booking, error)
	OverrideStatus(ctx context.Context, adminID, bookingID uuid.UUID, newStatus entity.BookingStatus, note string, newDate, newTime *string) (*entity.Booking, error)
	BatchRefund(ctx context.Context, adminID uuid.UUID, bookingIDs []uuid.UUID) (*BatchResult, error)
	ListCases(ctx context.Context, now time.Time) ([]*RefundCase, error)
	Unreconciled() ([]reconcile.Attempt, error)
}

type refundService struct {
	repo             *repository.Repository
	gw               gateway.RefundGateway
	journal          AttemptJournal
	pub              EventPublisher
	sla              *SLAEngine
	batchConcurrency int
	log              *zap.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewRefundService(
	repo *repository.Repository,
	gw gateway.RefundGateway,
	journal AttemptJournal,
	pub EventPublisher,
	sla *SLAEngine,
	batchConcurrency int,
	log *zap.Logger,
) RefundService {
	return &refundService{
		repo:             repo,
		gw:               gw,
		journal:          journal,
		pub:              pub,
		sla:              sla,
		batchConcurrency: batchConcurrency,
		log:              log.With(zap.String("service", "refund")),
		inFlight:         make(map[uuid.UUID]struct{}),
	}
}

// acquire marks the booking as having an in-flight refund. No two operations
// may submit the same booking to the gateway at the same time.
func (s *refundService) acquire(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *refundService) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// ProcessRefund runs the cancelled -> refund_initiated transition for one
// booking: validate, call the gateway, append exactly one ledger entry,
// advance the booking status. On gateway failure the booking status is left
// untouched so the operator can retry; the failure lives in the ledger.
func (s *refundService) ProcessRefund(ctx context.Context, adminID, bookingID uuid.UUID, amount decimal.Decimal) (*entity.Booking, error) {
	return s.process(ctx, adminID, bookingID, &amount, entity.AuditActionRefundProcessed, "")
}

// process is the single-booking state machine shared by ProcessRefund and
// BatchRefund. amount == nil means refund the full service price.
func (s *refundService) process(ctx context.Context, adminID, bookingID uuid.UUID, amount *decimal.Decimal, action entity.AuditAction, note string) (*entity.Booking, error) {
	if !s.acquire(bookingID) {
		return nil, validationErrorf("refund already in progress for booking %s", bookingID.String())
	}
	defer s.release(bookingID)

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, &PersistenceError{Op: "load booking", Err: err}
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	// Preconditions. A rejected attempt writes nothing and calls nobody.
	if !booking.Status.RefundProcessable() {
		return nil, validationErrorf("booking %s has status %s, refund requires cancelled or refund_failed",
			bookingID.String(), booking.Status)
	}
	if booking.PaymentID == nil || *booking.PaymentID == "" {
		return nil, validationErrorf("booking %s has no payment to refund against", bookingID.String())
	}

	refundAmount := booking.ServicePrice
	if amount != nil {
		refundAmount = *amount
	}
	if refundAmount.LessThanOrEqual(decimal.Zero) {
		return nil, validationErrorf("refund amount must be greater than zero")
	}
	if refundAmount.GreaterThan(booking.ServicePrice) {
		return nil, validationErrorf("refund amount %s exceeds service price %s",
			refundAmount.String(), booking.ServicePrice.String())
	}

	// Journal the attempt before anything leaves the process.
	if s.journal != nil {
		if err := s.journal.Begin(bookingID.String(), refundAmount); err != nil {
			if errors.Is(err, reconcile.ErrInFlight) {
				return nil, validationErrorf("refund already in progress for booking %s", bookingID.String())
			}
			return nil, &PersistenceError{Op: "journal attempt", Err: err}
		}
	}

	result, gwErr := s.gw.Refund(ctx, bookingID.String(), *booking.PaymentID, refundAmount)
	if gwErr != nil {
		return nil, s.recordFailure(ctx, adminID, booking, refundAmount, gwErr)
	}

	s.journalComplete(booking, reconcile.AttemptSucceeded, result.Reference, "")

	// One ledger entry per successful attempt. If this write fails the money
	// has already moved: log it, keep the attempt journaled for manual
	// reconciliation, and never roll the refund back.
	prev := booking.Status
	next := entity.BookingStatusRefundInitiated
	entry := &entity.AuditLogEntry{
		BookingID:      booking.ID,
		AdminUserID:    adminID,
		Action:         action,
		PreviousStatus: &prev,
		NewStatus:      &next,
		RefundAmount:   &refundAmount,
		Note:           note,
	}
	if err := s.repo.AuditLog.Append(ctx, entry); err != nil {
		s.log.Error("Ledger append failed after gateway success, attempt kept for reconciliation",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("gateway_ref", result.Reference),
			zap.String("amount", refundAmount.String()),
		)
		s.journalComplete(booking, reconcile.AttemptLedgerFailed, result.Reference, err.Error())
	}

	updated, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, next, nil, nil)
	if err != nil {
		// The refund succeeded and is in the ledger; the status write lost a
		// race or the store blinked. Operators re-query and retry overrides.
		s.log.Error("Failed to advance booking status after refund",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		booking.Status = next
		updated = booking
	}

	s.publish(ctx, events.KeyRefundProcessed, map[string]any{
		"booking_id":  booking.ID.String(),
		"admin_id":    adminID.String(),
		"amount":      refundAmount.String(),
		"gateway_ref": result.Reference,
	})

	s.log.Info("Refund processed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("action", string(action)),
		zap.String("amount", refundAmount.String()),
		zap.String("gateway_ref", result.Reference),
	)

	return updated, nil
}

// recordFailure writes the REFUND_FAILED ledger entry for a gateway failure.
// The booking status is deliberately left unchanged: the failed attempt is
// in the ledger and the case stays actionable for retry.
func (s *refundService) recordFailure(ctx context.Context, adminID uuid.UUID, booking *entity.Booking, amount decimal.Decimal, gwErr error) error {
	s.journalComplete(booking, reconcile.AttemptFailed, "", gwErr.Error())

	prev := booking.Status
	entry := &entity.AuditLogEntry{
		BookingID:      booking.ID,
		AdminUserID:    adminID,
		Action:         entity.AuditActionRefundFailed,
		PreviousStatus: &prev,
		NewStatus:      nil,
		RefundAmount:   &amount,
		Note:           gwErr.Error(),
	}
	if err := s.repo.AuditLog.Append(ctx, entry); err != nil {
		s.log.Error("Failed to record refund failure in ledger",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return &PersistenceError{Op: "append refund_failed audit entry", Err: err}
	}

	s.publish(ctx, events.KeyRefundFailed, map[string]any{
		"booking_id": booking.ID.String(),
		"admin_id":   adminID.String(),
		"amount":     amount.String(),
		"error":      gwErr.Error(),
	})

	s.log.Warn("Refund gateway call failed",
		zap.Error(gwErr),
		zap.String("booking_id", booking.ID.String()),
		zap.String("amount", amount.String()),
	)

	return &GatewayError{Err: gwErr}
}

// publish is best-effort; a dropped event never fails the refund.
func (s *refundService) publish(ctx context.Context, key string, payload map[string]any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishJSON(ctx, key, payload); err != nil {
		s.log.Warn("Failed to publish event", zap.Error(err), zap.String("key", key))
	}
}

func (s *refundService) journalComplete(booking *entity.Booking, status reconcile.AttemptStatus, ref, note string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Complete(booking.ID.String(), status, ref, note); err != nil {
		s.log.Error("Failed to complete journaled attempt",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(status)),
		)
	}
}

// OverrideStatus applies an operator-driven status change without touching
// the gateway. The STATUS_OVERRIDE ledger entry is written before the
// booking is updated so the intent is on record even if the update races.
func (s *refundService) OverrideStatus(ctx context.Context, adminID, bookingID uuid.UUID, newStatus entity.BookingStatus, note string, newDate, newTime *string) (*entity.Booking, error) {
	if !newStatus.Valid() || !newStatus.RefundStatus() {
		return nil, validationErrorf("status %q is not a refund lifecycle status", string(newStatus))
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, &PersistenceError{Op: "load booking", Err: err}
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	prev := booking.Status
	next := newStatus
	entry := &entity.AuditLogEntry{
		BookingID:      booking.ID,
		AdminUserID:    adminID,
		Action:         entity.AuditActionStatusOverride,
		PreviousStatus: &prev,
		NewStatus:      &next,
		RefundAmount:   nil,
		Note:           note,
	}
	if err := s.repo.AuditLog.Append(ctx, entry); err != nil {
		return nil, &PersistenceError{Op: "append override audit entry", Err: err}
	}

	updated, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, newStatus, newDate, newTime)
	if err != nil {
		return nil, &PersistenceError{Op: "update booking status", Err: err}
	}

	s.publish(ctx, events.KeyRefundOverridden, map[string]any{
		"booking_id":      booking.ID.String(),
		"admin_id":        adminID.String(),
		"previous_status": string(prev),
		"new_status":      string(newStatus),
		"note":            note,
	})

	s.log.Info("Status override applied",
		zap.String("booking_id", booking.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("previous_status", string(prev)),
		zap.String("new_status", string(newStatus)),
	)

	return updated, nil
}

// BatchRefund applies a full-price refund to each booking in the set,
// isolating failures per item. One failed booking never aborts the rest;
// partial completion is the expected shape of the result.
func (s *refundService) BatchRefund(ctx context.Context, adminID uuid.UUID, bookingIDs []uuid.UUID) (*BatchResult, error) {
	concurrency := s.batchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var success, fail int64

	runOne := func(id uuid.UUID) {
		_, err := s.process(ctx, adminID, id, nil, entity.AuditActionBatchRefundProcessed, batchRefundNote)
		if err != nil {
			atomic.AddInt64(&fail, 1)
			s.log.Warn("Batch item failed",
				zap.Error(err),
				zap.String("booking_id", id.String()),
			)
			return
		}
		atomic.AddInt64(&success, 1)
	}

	if concurrency == 1 {
		for _, id := range bookingIDs {
			// Cancellation only prevents future items from starting; an item
			// already submitted always has its outcome recorded first.
			if ctx.Err() != nil {
				s.log.Warn("Batch refund stopped early", zap.Error(ctx.Err()))
				break
			}
			runOne(id)
		}
	} else {
		jobs := make(chan uuid.UUID)
		var wg sync.WaitGroup
		for i := 0; i < concurrency; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for id := range jobs {
					runOne(id)
				}
			}()
		}
		for _, id := range bookingIDs {
			if ctx.Err() != nil {
				s.log.Warn("Batch refund stopped early", zap.Error(ctx.Err()))
				break
			}
			jobs <- id
		}
		close(jobs)
		wg.Wait()
	}

	result := &BatchResult{
		SuccessCount: int(atomic.LoadInt64(&success)),
		FailCount:    int(atomic.LoadInt64(&fail)),
	}

	s.log.Info("Batch refund finished",
		zap.String("admin_id", adminID.String()),
		zap.Int("requested", len(bookingIDs)),
		zap.Int("succeeded", result.SuccessCount),
		zap.Int("failed", result.FailCount),
	)

	return result, nil
}

// ListCases returns every refund-related booking with its SLA priority and
// advisory target deadline, recomputed on each call.
func (s *refundService) ListCases(ctx context.Context, now time.Time) ([]*RefundCase, error) {
	bookings, err := s.repo.Booking.FindRefundCases(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list refund cases", Err: err}
	}

	cases := make([]*RefundCase, len(bookings))
	for i, b := range bookings {
		cases[i] = &RefundCase{
			Booking:  b,
			Priority: s.sla.Classify(b, now),
			Target:   s.sla.TargetDeadline(b),
		}
	}

	return cases, nil
}

// Unreconciled surfaces gateway-confirmed attempts whose ledger write failed.
func (s *refundService) Unreconciled() ([]reconcile.Attempt, error) {
	if s.journal == nil {
		return []reconcile.Attempt{}, nil
	}
	return s.journal.Unreconciled()
}
