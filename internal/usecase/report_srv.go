package usecase

import (
	"context"
	"time"

	"salon-refunds/internal/data/entity"
	"salon-refunds/internal/data/repository"
	"salon-refunds/internal/dto/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService derives read-only views from the ledger and booking data.
// It never writes; every call reflects a point-in-time snapshot with no
// consistency guarantee stronger than read-committed at invocation.
type ReportService interface {
	MonthlyReport(ctx context.Context, monthsBack int, now time.Time) (*response.MonthlyReportResponse, error)
	FilteredAudit(ctx context.Context, dateFrom, dateTo *time.Time, limit int) ([]response.AuditEntryResponse, error)
	BookingAudit(ctx context.Context, bookingID uuid.UUID) ([]response.AuditEntryResponse, error)
	AuditExportRows(ctx context.Context, dateFrom, dateTo *time.Time) ([]response.AuditExportRow, error)
}

type reportService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReportService(repo *repository.Repository, log *zap.Logger) ReportService {
	return &reportService{
		repo: repo,
		log:  log.With(zap.String("service", "report")),
	}
}

// SuccessRate is completed / (completed + failed), defaulting to 1 when the
// denominator is zero. The default deliberately reports "no cases yet" as
// 100% success, matching what the dashboard has always shown; callers that
// need to tell the two apart must check the counts themselves.
func SuccessRate(completed, failed int) float64 {
	total := completed + failed
	if total == 0 {
		return 1.0
	}
	return float64(completed) / float64(total)
}

const monthKeyFormat = "2006-01"

// MonthlyReport summarizes the trailing monthsBack calendar months,
// including the current partial month, most recent first. Bookings are
// bucketed by the month of their updated_at.
func (s *reportService) MonthlyReport(ctx context.Context, monthsBack int, now time.Time) (*response.MonthlyReportResponse, error) {
	if monthsBack <= 0 {
		monthsBack = 12
	}

	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := currentMonth.AddDate(0, -(monthsBack - 1), 0)

	bookings, err := s.repo.Booking.FindRefundRelatedSince(ctx, from)
	if err != nil {
		return nil, &PersistenceError{Op: "load refund-related bookings", Err: err}
	}

	type bucket struct {
		caseCount int
		total     decimal.Decimal
		paidCount int
		breakdown response.StatusBreakdown
	}
	buckets := make(map[string]*bucket, monthsBack)

	var completed, failed int
	for _, b := range bookings {
		key := b.UpdatedAt.Format(monthKeyFormat)
		mb, ok := buckets[key]
		if !ok {
			mb = &bucket{total: decimal.Zero}
			buckets[key] = mb
		}
		mb.caseCount++

		switch b.Status {
		case entity.BookingStatusRefundInitiated:
			mb.breakdown.Initiated++
		case entity.BookingStatusRefundProcessed:
			mb.breakdown.Processed++
			mb.total = mb.total.Add(b.ServicePrice)
			mb.paidCount++
		case entity.BookingStatusRefundCompleted:
			mb.breakdown.Completed++
			mb.total = mb.total.Add(b.ServicePrice)
			mb.paidCount++
			completed++
		case entity.BookingStatusRefundFailed:
			mb.breakdown.Failed++
			failed++
		default:
			// cancelled/upcoming/completed never come back from the query
		}
	}

	months := make([]response.MonthlySummaryResponse, 0, monthsBack)
	for i := 0; i < monthsBack; i++ {
		m := currentMonth.AddDate(0, -i, 0)
		key := m.Format(monthKeyFormat)

		summary := response.MonthlySummaryResponse{
			Month:         key,
			Label:         m.Format("Jan 2006"),
			TotalAmount:   decimal.Zero,
			AverageAmount: decimal.Zero,
		}
		if mb, ok := buckets[key]; ok {
			summary.CaseCount = mb.caseCount
			summary.TotalAmount = mb.total
			summary.Breakdown = mb.breakdown
			// Average over processed+completed only; zero when none exist.
			if mb.paidCount > 0 {
				summary.AverageAmount = mb.total.DivRound(decimal.NewFromInt(int64(mb.paidCount)), 2)
			}
		}
		months = append(months, summary)
	}

	s.log.Info("Monthly report computed",
		zap.Int("months_back", monthsBack),
		zap.Int("bookings", len(bookings)),
	)

	return &response.MonthlyReportResponse{
		Months:      months,
		SuccessRate: SuccessRate(completed, failed),
	}, nil
}

// FilteredAudit is a pure read projection over the ledger.
func (s *reportService) FilteredAudit(ctx context.Context, dateFrom, dateTo *time.Time, limit int) ([]response.AuditEntryResponse, error) {
	entries, err := s.repo.AuditLog.FindAll(ctx, dateFrom, dateTo, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "query audit entries", Err: err}
	}

	out := make([]response.AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = response.AuditEntryToResponse(e)
	}
	return out, nil
}

// BookingAudit returns one booking's full ledger history, newest first.
func (s *reportService) BookingAudit(ctx context.Context, bookingID uuid.UUID) ([]response.AuditEntryResponse, error) {
	entries, err := s.repo.AuditLog.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, &PersistenceError{Op: "query booking audit entries", Err: err}
	}

	out := make([]response.AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = response.AuditEntryToResponse(e)
	}
	return out, nil
}

// AuditExportRows returns the data for the compliance CSV, one row per
// ledger entry, newest first.
func (s *reportService) AuditExportRows(ctx context.Context, dateFrom, dateTo *time.Time) ([]response.AuditExportRow, error) {
	details, err := s.repo.AuditLog.FindAllDetailed(ctx, dateFrom, dateTo)
	if err != nil {
		return nil, &PersistenceError{Op: "query detailed audit entries", Err: err}
	}

	rows := make([]response.AuditExportRow, len(details))
	for i, d := range details {
		rows[i] = response.AuditDetailToExportRow(d)
	}
	return rows, nil
}
