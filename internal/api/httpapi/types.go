package httpapi

import (
	"time"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
	"github.com/guildforge/treasury/internal/treasury/domain"
)

type treasuryResponse struct {
	ID                 uint64           `json:"id"`
	GuildID            uint64           `json:"guild_id"`
	Owner              string           `json:"owner"`
	Signers            []string         `json:"signers"`
	ApprovalThreshold  int              `json:"approval_threshold"`
	HighValueThreshold int64            `json:"high_value_threshold"`
	BalanceNative      int64            `json:"balance_native"`
	TokenBalances      map[string]int64 `json:"token_balances,omitempty"`
	TotalDeposits      int64            `json:"total_deposits"`
	TotalWithdrawals   int64            `json:"total_withdrawals"`
	Paused             bool             `json:"paused"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func treasuryResponseFrom(t domain.Treasury) treasuryResponse {
	return treasuryResponse{
		ID:                 t.ID,
		GuildID:            t.GuildID,
		Owner:              t.Owner,
		Signers:            t.Signers,
		ApprovalThreshold:  t.ApprovalThreshold,
		HighValueThreshold: t.HighValueThreshold,
		BalanceNative:      t.BalanceNative,
		TokenBalances:      t.TokenBalances,
		TotalDeposits:      t.TotalDeposits,
		TotalWithdrawals:   t.TotalWithdrawals,
		Paused:             t.Paused,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

type transactionResponse struct {
	ID         uint64    `json:"id"`
	TreasuryID uint64    `json:"treasury_id"`
	Type       string    `json:"type"`
	Amount     int64     `json:"amount"`
	Token      string    `json:"token,omitempty"`
	Recipient  string    `json:"recipient,omitempty"`
	Proposer   string    `json:"proposer"`
	Approvals  []string  `json:"approvals"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Reason     string    `json:"reason,omitempty"`
}

func transactionResponseFrom(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		TreasuryID: tx.TreasuryID,
		Type:       txTypeString(tx.Type),
		Amount:     tx.Amount,
		Token:      tx.Token,
		Recipient:  tx.Recipient,
		Proposer:   tx.Proposer,
		Approvals:  tx.Approvals,
		Status:     txStatusString(tx.Status),
		CreatedAt:  tx.CreatedAt,
		ExpiresAt:  tx.ExpiresAt,
		Reason:     tx.Reason,
	}
}

type budgetResponse struct {
	TreasuryID    uint64    `json:"treasury_id"`
	Category      string    `json:"category"`
	Allocated     int64     `json:"allocated"`
	Spent         int64     `json:"spent"`
	PeriodSeconds int64     `json:"period_seconds"`
	PeriodStart   time.Time `json:"period_start"`
}

func budgetResponseFrom(b domain.Budget) budgetResponse {
	return budgetResponse{
		TreasuryID:    b.TreasuryID,
		Category:      b.Category,
		Allocated:     b.Allocated,
		Spent:         b.Spent,
		PeriodSeconds: int64(b.Period / time.Second),
		PeriodStart:   b.PeriodStart,
	}
}

type allowanceResponse struct {
	TreasuryID      uint64    `json:"treasury_id"`
	Admin           string    `json:"admin"`
	Token           string    `json:"token,omitempty"`
	AmountPerPeriod int64     `json:"amount_per_period"`
	Remaining       int64     `json:"remaining"`
	PeriodSeconds   int64     `json:"period_seconds"`
	PeriodStart     time.Time `json:"period_start"`
}

func allowanceResponseFrom(a domain.Allowance) allowanceResponse {
	return allowanceResponse{
		TreasuryID:      a.TreasuryID,
		Admin:           a.Admin,
		Token:           a.Token,
		AmountPerPeriod: a.AmountPerPeriod,
		Remaining:       a.Remaining,
		PeriodSeconds:   int64(a.Period / time.Second),
		PeriodStart:     a.PeriodStart,
	}
}

func txTypeString(k domain.TxType) string {
	switch k {
	case domain.TxTypeDeposit:
		return "deposit"
	case domain.TxTypeWithdrawal:
		return "withdrawal"
	case domain.TxTypeBountyFunding:
		return "bounty_funding"
	case domain.TxTypeMilestonePayment:
		return "milestone_payment"
	case domain.TxTypeAllowanceGrant:
		return "allowance_grant"
	default:
		return "unspecified"
	}
}

func txStatusString(s domain.TxStatus) string {
	switch s {
	case domain.TxStatusPending:
		return "pending"
	case domain.TxStatusApproved:
		return "approved"
	case domain.TxStatusRejected:
		return "rejected"
	case domain.TxStatusExecuted:
		return "executed"
	case domain.TxStatusExpired:
		return "expired"
	default:
		return "unspecified"
	}
}

// parseProposalType maps the optional request type to a transaction type.
// Only outbound proposal types are accepted.
func parseProposalType(value string) (domain.TxType, error) {
	switch value {
	case "", "withdrawal":
		return domain.TxTypeWithdrawal, nil
	case "bounty_funding":
		return domain.TxTypeBountyFunding, nil
	default:
		return domain.TxTypeUnspecified, apperrors.New(apperrors.CodeInvalidRequest, "unsupported proposal type "+value)
	}
}
