package domain

import (
	"time"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
)

// ExpiryWindow is how long a proposed transaction stays actionable.
const ExpiryWindow = 7 * 24 * time.Hour

// TxType identifies what kind of fund movement a transaction records.
type TxType int

const (
	// TxTypeUnspecified represents an invalid transaction type value.
	TxTypeUnspecified TxType = iota
	// TxTypeDeposit records funds entering the treasury.
	TxTypeDeposit
	// TxTypeWithdrawal records a multisig-approved withdrawal.
	TxTypeWithdrawal
	// TxTypeBountyFunding records funds released to a bounty escrow.
	TxTypeBountyFunding
	// TxTypeMilestonePayment records a milestone settlement.
	TxTypeMilestonePayment
	// TxTypeAllowanceGrant records a state-only allowance grant placeholder.
	TxTypeAllowanceGrant
)

// TxStatus tracks a transaction through the approval state machine.
type TxStatus int

const (
	// TxStatusUnspecified represents an invalid status value.
	TxStatusUnspecified TxStatus = iota
	// TxStatusPending means the transaction is collecting approvals.
	TxStatusPending
	// TxStatusApproved means enough approvals were collected.
	TxStatusApproved
	// TxStatusRejected is terminal; the transaction was declined.
	TxStatusRejected
	// TxStatusExecuted is terminal; funds moved.
	TxStatusExecuted
	// TxStatusExpired is terminal; the deadline passed before execution.
	TxStatusExpired
)

// Transaction is one proposed or settled fund movement.
type Transaction struct {
	ID         uint64
	TreasuryID uint64
	Type       TxType
	Amount     int64
	Token      string // empty = native asset
	Recipient  string
	Proposer   string
	Approvals  []string
	Status     TxStatus
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Reason     string
}

// IsTerminal reports whether the status permits no further transitions.
func (s TxStatus) IsTerminal() bool {
	switch s {
	case TxStatusRejected, TxStatusExecuted, TxStatusExpired:
		return true
	}
	return false
}

// MovesValue reports whether executing this type debits the treasury.
func (k TxType) MovesValue() bool {
	switch k {
	case TxTypeWithdrawal, TxTypeBountyFunding, TxTypeMilestonePayment:
		return true
	}
	return false
}

// BudgetCategory resolves the spending category charged when a transaction
// of this type executes.
func (k TxType) BudgetCategory() string {
	switch k {
	case TxTypeWithdrawal:
		return "withdrawal"
	case TxTypeBountyFunding:
		return "bounty"
	case TxTypeMilestonePayment:
		return "milestone"
	default:
		return "other"
	}
}

// HasApproved reports whether addr already approved this transaction.
func (tx Transaction) HasApproved(addr string) bool {
	for _, a := range tx.Approvals {
		if a == addr {
			return true
		}
	}
	return false
}

// AddApproval appends addr to the approval set. Approving twice fails rather
// than silently no-oping so retries cannot double-count.
func (tx *Transaction) AddApproval(addr string) error {
	if tx.HasApproved(addr) {
		return apperrors.New(apperrors.CodeTxDuplicateApproval, "signer already approved this transaction")
	}
	tx.Approvals = append(tx.Approvals, addr)
	return nil
}

// RequiredApprovals computes how many approvals the transaction needs under
// the treasury's tiering rule: value-moving transactions at or above the
// high-value threshold need the full approval threshold, low-value ones need
// a single signer, and everything else needs exactly one.
func (tx Transaction) RequiredApprovals(t Treasury) int {
	if !tx.Type.MovesValue() {
		return 1
	}
	if tx.Amount >= t.HighValueThreshold {
		return t.ApprovalThreshold
	}
	if t.ApprovalThreshold < 1 {
		return t.ApprovalThreshold
	}
	return 1
}

// IsExpired reports whether the transaction deadline has passed.
func (tx Transaction) IsExpired(now time.Time) bool {
	return !now.Before(tx.ExpiresAt)
}

// ExpireIfNeeded flips an actionable transaction to Expired once its deadline
// passes. Expiry is recomputed on every touching call; there is no scheduler.
func (tx *Transaction) ExpireIfNeeded(now time.Time) bool {
	if (tx.Status == TxStatusPending || tx.Status == TxStatusApproved) && tx.IsExpired(now) {
		tx.Status = TxStatusExpired
		return true
	}
	return false
}
