package domain

import (
	"time"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
)

// Budget is a recurring spending cap for one (treasury, category) pair.
// An allocation of zero means unlimited.
type Budget struct {
	TreasuryID  uint64
	Category    string
	Allocated   int64
	Spent       int64
	Period      time.Duration
	PeriodStart time.Time
}

// NewBudget returns an empty unlimited budget starting its period at now.
func NewBudget(treasuryID uint64, category string, now time.Time) Budget {
	return Budget{
		TreasuryID:  treasuryID,
		Category:    category,
		PeriodStart: now.UTC(),
	}
}

// RolloverIfElapsed starts a fresh period with zero spend once the current
// period has fully elapsed. A non-positive period never rolls over.
func (b *Budget) RolloverIfElapsed(now time.Time) bool {
	if b.Period <= 0 {
		return false
	}
	if now.Before(b.PeriodStart.Add(b.Period)) {
		return false
	}
	b.PeriodStart = now.UTC()
	b.Spent = 0
	return true
}

// Charge records amount against the current period, rolling the period over
// first if it has elapsed. It fails without recording when the allocation
// would be exceeded.
func (b *Budget) Charge(amount int64, now time.Time) error {
	if amount <= 0 {
		return nil
	}
	b.RolloverIfElapsed(now)
	if b.Allocated > 0 && b.Spent+amount > b.Allocated {
		return apperrors.WithMetadata(apperrors.CodeBudgetExceeded, "budget exceeded for category "+b.Category, map[string]string{
			"category": b.Category,
		})
	}
	b.Spent += amount
	return nil
}
