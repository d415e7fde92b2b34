package usecase_test

import (
	"context"
	"testing"
	"time"

	"salon-refunds/internal/data/entity"
	"salon-refunds/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		failed    int
		want      float64
	}{
		{"no cases defaults to full success", 0, 0, 1.0},
		{"three of four", 3, 1, 0.75},
		{"all failed", 0, 5, 0.0},
		{"all completed", 4, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, usecase.SuccessRate(tt.completed, tt.failed), 1e-9)
		})
	}
}

// refundBooking builds a booking in a refund lifecycle status, updated in the
// given month.
func refundBooking(status entity.BookingStatus, price int64, updatedAt time.Time) *entity.Booking {
	b := cancelledBooking(price, updatedAt)
	b.Status = status
	return b
}

func TestMonthlyReport_Aggregation(t *testing.T) {
	// GIVEN refunds spread over the current and previous month
	env := newTestEnv(1)
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	env.bookings.put(refundBooking(entity.BookingStatusRefundProcessed, 200, thisMonth))
	env.bookings.put(refundBooking(entity.BookingStatusRefundCompleted, 400, thisMonth))
	env.bookings.put(refundBooking(entity.BookingStatusRefundInitiated, 999, thisMonth))
	env.bookings.put(refundBooking(entity.BookingStatusRefundFailed, 100, lastMonth))
	env.bookings.put(refundBooking(entity.BookingStatusRefundCompleted, 300, lastMonth))

	// WHEN the trailing three months are summarized
	report, err := env.reports.MonthlyReport(context.Background(), 3, now)
	require.NoError(t, err)
	require.Len(t, report.Months, 3)

	// THEN months come back most recent first
	assert.Equal(t, "2026-09", report.Months[0].Month)
	assert.Equal(t, "Sep 2026", report.Months[0].Label)
	assert.Equal(t, "2026-08", report.Months[1].Month)
	assert.Equal(t, "2026-07", report.Months[2].Month)

	// AND the current month sums only money that actually moved
	sep := report.Months[0]
	assert.Equal(t, 3, sep.CaseCount)
	assert.True(t, sep.TotalAmount.Equal(decimal.NewFromInt(600)), "got %s", sep.TotalAmount)
	assert.True(t, sep.AverageAmount.Equal(decimal.NewFromInt(300)), "got %s", sep.AverageAmount)
	assert.Equal(t, 1, sep.Breakdown.Initiated)
	assert.Equal(t, 1, sep.Breakdown.Processed)
	assert.Equal(t, 1, sep.Breakdown.Completed)
	assert.Equal(t, 0, sep.Breakdown.Failed)

	aug := report.Months[1]
	assert.Equal(t, 2, aug.CaseCount)
	assert.True(t, aug.TotalAmount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 1, aug.Breakdown.Completed)
	assert.Equal(t, 1, aug.Breakdown.Failed)

	// AND the empty month is zero-valued, never an error
	jul := report.Months[2]
	assert.Equal(t, 0, jul.CaseCount)
	assert.True(t, jul.TotalAmount.IsZero())
	assert.True(t, jul.AverageAmount.IsZero())

	// AND the success rate counts completed vs failed across the window
	assert.InDelta(t, 2.0/3.0, report.SuccessRate, 1e-9)
}

func TestMonthlyReport_Idempotent(t *testing.T) {
	// GIVEN a fixed data set and a fixed clock
	env := newTestEnv(1)
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	env.bookings.put(refundBooking(entity.BookingStatusRefundCompleted, 250, now.Add(-72*time.Hour)))
	env.bookings.put(refundBooking(entity.BookingStatusRefundFailed, 80, now.Add(-48*time.Hour)))

	// WHEN the same report is computed twice
	first, err := env.reports.MonthlyReport(context.Background(), 6, now)
	require.NoError(t, err)
	second, err := env.reports.MonthlyReport(context.Background(), 6, now)
	require.NoError(t, err)

	// THEN the outputs are identical
	assert.Equal(t, first, second)
}

func TestMonthlyReport_EmptyDataSet(t *testing.T) {
	env := newTestEnv(1)
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	report, err := env.reports.MonthlyReport(context.Background(), 2, now)

	require.NoError(t, err)
	require.Len(t, report.Months, 2)
	for _, m := range report.Months {
		assert.Equal(t, 0, m.CaseCount)
		assert.True(t, m.TotalAmount.IsZero())
		assert.True(t, m.AverageAmount.IsZero())
	}
	assert.InDelta(t, 1.0, report.SuccessRate, 1e-9)
}

func TestMonthlyReport_DefaultWindow(t *testing.T) {
	env := newTestEnv(1)
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	report, err := env.reports.MonthlyReport(context.Background(), 0, now)

	require.NoError(t, err)
	assert.Len(t, report.Months, 12)
}

func TestMonthlyReport_AverageRounding(t *testing.T) {
	// GIVEN three paid refunds that do not divide evenly
	env := newTestEnv(1)
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	updated := now.Add(-24 * time.Hour)
	env.bookings.put(refundBooking(entity.BookingStatusRefundProcessed, 100, updated))
	env.bookings.put(refundBooking(entity.BookingStatusRefundProcessed, 100, updated))
	env.bookings.put(refundBooking(entity.BookingStatusRefundProcessed, 101, updated))

	report, err := env.reports.MonthlyReport(context.Background(), 1, now)
	require.NoError(t, err)
	require.Len(t, report.Months, 1)

	// THEN the average rounds to two decimal places
	want, _ := decimal.NewFromString("100.33")
	assert.True(t, report.Months[0].AverageAmount.Equal(want), "got %s", report.Months[0].AverageAmount)
}

func TestFilteredAudit_DateRangeAndLimit(t *testing.T) {
	// GIVEN five ledger entries from successive refunds
	env := newTestEnv(1)
	ctx := context.Background()
	adminID := booking5Entries(t, env)

	all, err := env.reports.FilteredAudit(ctx, nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for _, e := range all {
		assert.Equal(t, adminID.String(), e.AdminUserID)
	}

	// Newest first across the whole view.
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	// WHEN a limit is applied
	limited, err := env.reports.FilteredAudit(ctx, nil, nil, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	// WHEN the from-filter excludes everything
	future := time.Now().Add(time.Hour)
	none, err := env.reports.FilteredAudit(ctx, &future, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingAudit_NewestFirstHistory(t *testing.T) {
	// GIVEN a booking that failed once, succeeded on retry, and was overridden
	env := newTestEnv(1)
	ctx := context.Background()
	adminID := uuid.New()
	booking := cancelledBooking(500, time.Now().Add(-time.Hour))
	env.bookings.put(booking)

	env.gw.failFor[booking.ID.String()] = assert.AnError
	_, err := env.refunds.ProcessRefund(ctx, adminID, booking.ID, decimal.NewFromInt(500))
	require.Error(t, err)

	delete(env.gw.failFor, booking.ID.String())
	_, err = env.refunds.ProcessRefund(ctx, adminID, booking.ID, decimal.NewFromInt(500))
	require.NoError(t, err)

	_, err = env.refunds.OverrideStatus(ctx, adminID, booking.ID,
		entity.BookingStatusRefundCompleted, "confirmed", nil, nil)
	require.NoError(t, err)

	// WHEN the booking's history is read back
	history, err := env.reports.BookingAudit(ctx, booking.ID)

	// THEN all three attempts are there, newest first
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.AuditActionStatusOverride, history[0].Action)
	assert.Equal(t, entity.AuditActionRefundProcessed, history[1].Action)
	assert.Equal(t, entity.AuditActionRefundFailed, history[2].Action)

	// An unknown booking has an empty history, not an error.
	none, err := env.reports.BookingAudit(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAuditExportRows(t *testing.T) {
	// GIVEN ledger entries behind the detailed view
	env := newTestEnv(1)
	ctx := context.Background()
	booking5Entries(t, env)

	rows, err := env.reports.AuditExportRows(ctx, nil, nil)

	require.NoError(t, err)
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.NotEmpty(t, row.BookingID)
		assert.NotZero(t, row.Timestamp)
		assert.True(t, row.Action.Valid())
	}
}

// booking5Entries processes five refunds and returns the acting admin id.
func booking5Entries(t *testing.T, env *testEnv) (adminID uuid.UUID) {
	t.Helper()
	adminID = uuid.New()
	for i := 0; i < 5; i++ {
		b := cancelledBooking(int64(100+i), time.Now().Add(-time.Hour))
		env.bookings.put(b)
		_, err := env.refunds.ProcessRefund(context.Background(), adminID, b.ID, b.ServicePrice)
		require.NoError(t, err)
	}
	return adminID
}
