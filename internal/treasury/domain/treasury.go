// Package domain holds the treasury aggregate rules: multisig thresholds,
// transaction approval state, budget caps and delegated allowances.
package domain

import (
	"strings"
	"time"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
)

// DefaultHighValueThreshold is the amount at or above which a withdrawal
// requires the full approval threshold. Set at treasury creation and
// adjustable afterwards by any signer.
const DefaultHighValueThreshold int64 = 1000

// Treasury is a per-guild custodial account guarded by M-of-N approval.
type Treasury struct {
	ID                 uint64
	GuildID            uint64
	Owner              string
	Signers            []string
	ApprovalThreshold  int
	HighValueThreshold int64
	BalanceNative      int64
	TokenBalances      map[string]int64
	TotalDeposits      int64
	TotalWithdrawals   int64
	Paused             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DedupeSigners returns the signer list with blanks removed and duplicates
// dropped, preserving first-seen order.
func DedupeSigners(signers []string) []string {
	unique := make([]string, 0, len(signers))
	seen := make(map[string]struct{}, len(signers))
	for _, addr := range signers {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		unique = append(unique, addr)
	}
	return unique
}

// ValidateThreshold checks the M-of-N invariant: at least one signer,
// 1 <= threshold <= len(signers), and threshold >= ceil(len(signers)/2).
func ValidateThreshold(signerCount, threshold int) error {
	if signerCount == 0 {
		return apperrors.New(apperrors.CodeTreasuryNoSigners, "at least one signer is required")
	}
	if threshold < 1 || threshold > signerCount {
		return apperrors.New(apperrors.CodeTreasuryInvalidThreshold, "approval threshold must be between 1 and the signer count")
	}
	if threshold < (signerCount+1)/2 {
		return apperrors.New(apperrors.CodeTreasuryInvalidThreshold, "approval threshold must cover at least half of the signers")
	}
	return nil
}

// NewTreasury creates a treasury for a guild. The first signer becomes the
// owner; the signer list is deduplicated before the threshold is validated.
func NewTreasury(guildID uint64, signers []string, approvalThreshold int, now time.Time) (Treasury, error) {
	unique := DedupeSigners(signers)
	if err := ValidateThreshold(len(unique), approvalThreshold); err != nil {
		return Treasury{}, err
	}
	return Treasury{
		GuildID:            guildID,
		Owner:              unique[0],
		Signers:            unique,
		ApprovalThreshold:  approvalThreshold,
		HighValueThreshold: DefaultHighValueThreshold,
		TokenBalances:      map[string]int64{},
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}, nil
}

// IsSigner reports whether addr is one of the treasury signers.
func (t Treasury) IsSigner(addr string) bool {
	for _, signer := range t.Signers {
		if signer == addr {
			return true
		}
	}
	return false
}

// Balance returns the tracked balance for token; the empty token is the
// native asset.
func (t Treasury) Balance(token string) int64 {
	if token == "" {
		return t.BalanceNative
	}
	return t.TokenBalances[token]
}

// Credit adds amount to the balance for token and bumps the deposit counter.
func (t *Treasury) Credit(token string, amount int64) {
	if token == "" {
		t.BalanceNative += amount
	} else {
		if t.TokenBalances == nil {
			t.TokenBalances = map[string]int64{}
		}
		t.TokenBalances[token] += amount
	}
	t.TotalDeposits += amount
}

// Debit removes amount from the balance for token and bumps the withdrawal
// counter. It fails without mutating when the balance is insufficient, which
// keeps every tracked balance non-negative.
func (t *Treasury) Debit(token string, amount int64) error {
	if t.Balance(token) < amount {
		return apperrors.New(apperrors.CodeInsufficientBalance, "insufficient treasury balance")
	}
	if token == "" {
		t.BalanceNative -= amount
	} else {
		t.TokenBalances[token] -= amount
	}
	t.TotalWithdrawals += amount
	return nil
}
