package usecase

import (
	"time"

	"salon-refunds/internal/data/entity"
	"salon-refunds/pkg/utils"
)

type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityWarning  Priority = "warning"
	PriorityCritical Priority = "critical"
)

// SLAEngine classifies how urgently a refund case needs operator attention
// from the time elapsed since the booking's last status change. It is a pure
// computation: no storage, no caching, same output for same input.
type SLAEngine struct {
	warningAfter  time.Duration
	criticalAfter time.Duration
	target        time.Duration
}

func NewSLAEngine(cfg utils.SLAConfig) *SLAEngine {
	return &SLAEngine{
		warningAfter:  cfg.WarningAfter(),
		criticalAfter: cfg.CriticalAfter(),
		target:        cfg.Target(),
	}
}

// Classify returns the urgency of a refund case at the given instant. Only
// cases still waiting on operator action (cancelled, refund_initiated) can
// escalate; every other status is always normal no matter how old.
func (e *SLAEngine) Classify(booking *entity.Booking, now time.Time) Priority {
	if !booking.Status.SLAEligible() {
		return PriorityNormal
	}

	elapsed := now.Sub(booking.UpdatedAt)
	switch {
	case elapsed >= e.criticalAfter:
		return PriorityCritical
	case elapsed >= e.warningAfter:
		return PriorityWarning
	default:
		return PriorityNormal
	}
}

// TargetDeadline is the advisory completion target for a case. It informs
// operators; it never changes the classification.
func (e *SLAEngine) TargetDeadline(booking *entity.Booking) time.Time {
	return booking.UpdatedAt.Add(e.target)
}
