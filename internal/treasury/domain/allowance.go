package domain

import (
	"time"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
)

// Allowance is a recurring delegated spending cap for one
// (treasury, admin, token) tuple. Unlike budgets, rollover refills the
// remaining amount to the per-period grant instead of resetting spend to
// zero.
type Allowance struct {
	TreasuryID      uint64
	Admin           string
	Token           string // empty = native asset
	AmountPerPeriod int64
	Remaining       int64
	Period          time.Duration
	PeriodStart     time.Time
}

// RolloverIfElapsed refills the allowance once the current period has fully
// elapsed. A non-positive period never rolls over.
func (a *Allowance) RolloverIfElapsed(now time.Time) bool {
	if a.Period <= 0 {
		return false
	}
	if now.Before(a.PeriodStart.Add(a.Period)) {
		return false
	}
	a.PeriodStart = now.UTC()
	a.Remaining = a.AmountPerPeriod
	return true
}

// Debit consumes amount from the current period, rolling the period over
// first if it has elapsed. It fails without consuming when the remaining
// grant is too small, keeping the remainder non-negative.
func (a *Allowance) Debit(amount int64, now time.Time) error {
	if amount <= 0 {
		return nil
	}
	a.RolloverIfElapsed(now)
	if a.Remaining < amount {
		return apperrors.WithMetadata(apperrors.CodeAllowanceExceeded, "allowance exceeded for admin "+a.Admin, map[string]string{
			"admin": a.Admin,
		})
	}
	a.Remaining -= amount
	return nil
}
