package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"salon-refunds/internal/data/entity"
	"salon-refunds/internal/data/repository"
	"salon-refunds/internal/gateway"
	"salon-refunds/internal/reconcile"
	"salon-refunds/internal/usecase"
	"salon-refunds/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// =============================================================================
// TEST FAKES - in-memory stand-ins for the store, ledger, gateway, journal
// =============================================================================

type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*entity.Booking
	findErr   error
	updateErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (r *fakeBookingRepo) put(b *entity.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.bookings[b.ID] = &clone
}

func (r *fakeBookingRepo) get(id uuid.UUID) *entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		clone := *b
		return &clone
	}
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.get(id), nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, newDate, newTime *string) (*entity.Booking, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", id.String())
	}
	b.Status = status
	if newDate != nil {
		b.BookingDate = newDate
	}
	if newTime != nil {
		b.BookingTime = newTime
	}
	b.UpdatedAt = time.Now()
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) FindRefundCases(ctx context.Context) ([]*entity.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.Status.RefundStatus() {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeBookingRepo) FindRefundRelatedSince(ctx context.Context, from time.Time) ([]*entity.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		switch b.Status {
		case entity.BookingStatusRefundInitiated,
			entity.BookingStatusRefundProcessed,
			entity.BookingStatusRefundCompleted,
			entity.BookingStatusRefundFailed:
			if !b.UpdatedAt.Before(from) {
				clone := *b
				out = append(out, &clone)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	entries   []*entity.AuditLogEntry
	appendErr error
}

func (r *fakeAuditRepo) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.New()
	// Strictly increasing timestamps keep newest-first ordering deterministic.
	entry.CreatedAt = time.Now().UTC().Add(time.Duration(len(r.entries)) * time.Millisecond)
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeAuditRepo) all() []*entity.AuditLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.AuditLogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *fakeAuditRepo) forBooking(id uuid.UUID) []*entity.AuditLogEntry {
	var out []*entity.AuditLogEntry
	for _, e := range r.all() {
		if e.BookingID == id {
			out = append(out, e)
		}
	}
	return out
}

func (r *fakeAuditRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.AuditLogEntry, error) {
	entries := r.forBooking(bookingID)
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

func (r *fakeAuditRepo) FindAll(ctx context.Context, dateFrom, dateTo *time.Time, limit int) ([]*entity.AuditLogEntry, error) {
	var out []*entity.AuditLogEntry
	for _, e := range r.all() {
		if dateFrom != nil && e.CreatedAt.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && e.CreatedAt.After(*dateTo) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAuditRepo) FindAllDetailed(ctx context.Context, dateFrom, dateTo *time.Time) ([]*entity.AuditLogDetail, error) {
	entries, _ := r.FindAll(ctx, dateFrom, dateTo, 0)
	out := make([]*entity.AuditLogDetail, len(entries))
	for i, e := range entries {
		out[i] = &entity.AuditLogDetail{AuditLogEntry: *e}
	}
	return out, nil
}

type gatewayCall struct {
	bookingID string
	paymentID string
	amount    decimal.Decimal
}

type fakeGateway struct {
	mu      sync.Mutex
	calls   []gatewayCall
	failFor map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failFor: make(map[string]error)}
}

func (g *fakeGateway) Refund(ctx context.Context, bookingID, paymentID string, amount decimal.Decimal) (*gateway.Result, error) {
	g.mu.Lock()
	g.calls = append(g.calls, gatewayCall{bookingID: bookingID, paymentID: paymentID, amount: amount})
	g.mu.Unlock()

	if err, ok := g.failFor[bookingID]; ok {
		return nil, err
	}
	return &gateway.Result{Reference: "rfnd_" + bookingID[:8]}, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type journalRecord struct {
	bookingID string
	status    reconcile.AttemptStatus
	ref       string
	note      string
}

type fakeJournal struct {
	mu      sync.Mutex
	pending map[string]bool
	records []journalRecord
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{pending: make(map[string]bool)}
}

func (j *fakeJournal) Begin(bookingID string, amount decimal.Decimal) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.pending[bookingID] {
		return reconcile.ErrInFlight
	}
	j.pending[bookingID] = true
	return nil
}

func (j *fakeJournal) Complete(bookingID string, status reconcile.AttemptStatus, ref, note string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.pending, bookingID)
	j.records = append(j.records, journalRecord{bookingID: bookingID, status: status, ref: ref, note: note})
	return nil
}

func (j *fakeJournal) Unreconciled() ([]reconcile.Attempt, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []reconcile.Attempt
	for _, r := range j.records {
		if r.status == reconcile.AttemptLedgerFailed {
			out = append(out, reconcile.Attempt{BookingID: r.bookingID, Status: r.status, Note: r.note})
		}
	}
	if out == nil {
		out = []reconcile.Attempt{}
	}
	return out, nil
}

type publishedEvent struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, payload: v})
	return nil
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.key
	}
	return out
}

// =============================================================================
// TEST SETUP
// =============================================================================

type testEnv struct {
	bookings *fakeBookingRepo
	audit    *fakeAuditRepo
	gw       *fakeGateway
	journal  *fakeJournal
	pub      *fakePublisher
	refunds  usecase.RefundService
	reports  usecase.ReportService
}

func defaultSLAConfig() utils.SLAConfig {
	return utils.SLAConfig{WarningHours: 12, CriticalHours: 24, TargetHours: 48}
}

func defaultSLAConfigWith(warning, critical, target float64) utils.SLAConfig {
	return utils.SLAConfig{WarningHours: warning, CriticalHours: critical, TargetHours: target}
}

func newTestEnv(batchConcurrency int) *testEnv {
	env := &testEnv{
		bookings: newFakeBookingRepo(),
		audit:    &fakeAuditRepo{},
		gw:       newFakeGateway(),
		journal:  newFakeJournal(),
		pub:      &fakePublisher{},
	}

	repo := &repository.Repository{
		Booking:  env.bookings,
		AuditLog: env.audit,
	}

	logger := zap.NewNop()
	sla := usecase.NewSLAEngine(defaultSLAConfig())
	env.refunds = usecase.NewRefundService(repo, env.gw, env.journal, env.pub, sla, batchConcurrency, logger)
	env.reports = usecase.NewReportService(repo, logger)

	return env
}

func strPtr(s string) *string {
	return &s
}

// cancelledBooking builds a refund-eligible booking updated at the given time.
func cancelledBooking(price int64, updatedAt time.Time) *entity.Booking {
	b := &entity.Booking{
		SalonName:    "Glow Studio",
		ServiceName:  "Hair Color",
		ServicePrice: decimal.NewFromInt(price),
		PaymentID:    strPtr("pay_" + uuid.NewString()[:8]),
		Status:       entity.BookingStatusCancelled,
	}
	b.ID = uuid.New()
	b.CreatedAt = updatedAt.Add(-time.Hour)
	b.UpdatedAt = updatedAt
	return b
}
