// Package service implements the treasury operations: initialization,
// deposits, the multisig approval flow, budgets, allowances and the
// emergency pause.
package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
	"github.com/guildforge/treasury/internal/telemetry"
	"github.com/guildforge/treasury/internal/treasury/domain"
	"github.com/guildforge/treasury/internal/treasury/storage"
)

// Service coordinates treasury state changes against the store.
type Service struct {
	store   storage.Store
	events  telemetry.Store
	emitter *telemetry.Emitter
	clock   func() time.Time
	tracer  trace.Tracer
}

// NewService creates a treasury service. The events store may be nil, in
// which case telemetry is disabled.
func NewService(store storage.Store, events telemetry.Store) *Service {
	return &Service{
		store:   store,
		events:  events,
		emitter: telemetry.NewEmitter(events),
		clock:   time.Now,
		tracer:  otel.Tracer("treasury"),
	}
}

func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func (s *Service) emit(ctx context.Context, evt telemetry.Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.now()
	}
	if err := s.emitter.Emit(ctx, evt); err != nil {
		log.Printf("telemetry emit %q: %v", evt.Name, err)
	}
}

func (s *Service) loadTreasury(ctx context.Context, id uint64) (domain.Treasury, error) {
	treasury, err := s.store.GetTreasury(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Treasury{}, apperrors.New(apperrors.CodeTreasuryNotFound, "treasury not found")
		}
		return domain.Treasury{}, apperrors.Wrap(apperrors.CodeUnknown, "load treasury", err)
	}
	return treasury, nil
}

func (s *Service) loadTransaction(ctx context.Context, id uint64) (domain.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Transaction{}, apperrors.New(apperrors.CodeTransactionNotFound, "transaction not found")
		}
		return domain.Transaction{}, apperrors.Wrap(apperrors.CodeUnknown, "load transaction", err)
	}
	return tx, nil
}

// InitializeTreasury creates the custodial account for a guild. The first
// signer becomes the owner.
func (s *Service) InitializeTreasury(ctx context.Context, guildID uint64, signers []string, approvalThreshold int) (domain.Treasury, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.initialize")
	defer span.End()

	now := s.now()
	treasury, err := domain.NewTreasury(guildID, signers, approvalThreshold, now)
	if err != nil {
		return domain.Treasury{}, err
	}

	id, err := s.store.CreateTreasury(ctx, treasury)
	if err != nil {
		return domain.Treasury{}, apperrors.Wrap(apperrors.CodeUnknown, "create treasury", err)
	}
	treasury.ID = id
	span.SetAttributes(attribute.Int64("treasury.id", int64(id)))

	s.emit(ctx, telemetry.Event{
		TreasuryID: id,
		Name:       telemetry.EventTreasuryInitialized,
		Actor:      treasury.Owner,
		Metadata: map[string]string{
			"guild_id":  strconv.FormatUint(guildID, 10),
			"threshold": strconv.Itoa(approvalThreshold),
			"signers":   strconv.Itoa(len(treasury.Signers)),
		},
	})
	return treasury, nil
}

// Deposit credits funds to the treasury and records an executed deposit
// transaction. Anyone may deposit; a paused treasury refuses new funds.
func (s *Service) Deposit(ctx context.Context, treasuryID uint64, from, token string, amount int64) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.deposit")
	defer span.End()

	if amount <= 0 {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryInvalidAmount, "deposit amount must be positive")
	}

	treasury, err := s.loadTreasury(ctx, treasuryID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if treasury.Paused {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryPaused, "treasury is paused")
	}

	now := s.now()
	treasury.Credit(token, amount)
	treasury.UpdatedAt = now

	tx := domain.Transaction{
		TreasuryID: treasuryID,
		Type:       domain.TxTypeDeposit,
		Amount:     amount,
		Token:      token,
		Proposer:   from,
		Status:     domain.TxStatusExecuted,
		CreatedAt:  now,
		ExpiresAt:  now.Add(domain.ExpiryWindow),
		Reason:     "deposit",
	}
	id, err := s.store.RecordDeposit(ctx, treasury, tx)
	if err != nil {
		return domain.Transaction{}, apperrors.Wrap(apperrors.CodeUnknown, "record deposit", err)
	}
	tx.ID = id

	s.emit(ctx, telemetry.Event{
		TreasuryID: treasuryID,
		Name:       telemetry.EventDeposit,
		Actor:      from,
		Metadata: map[string]string{
			"amount": strconv.FormatInt(amount, 10),
			"token":  token,
			"tx_id":  strconv.FormatUint(id, 10),
		},
	})
	return tx, nil
}

// WithdrawalProposal describes a requested outbound fund movement.
type WithdrawalProposal struct {
	TreasuryID uint64
	Proposer   string
	Recipient  string
	Token      string
	Amount     int64
	Reason     string
	// Type defaults to a plain withdrawal; bounty funding uses
	// TxTypeBountyFunding.
	Type domain.TxType
}

// ProposeWithdrawal records an outbound proposal. The proposer's own
// approval is counted immediately, so a proposal under the high-value
// threshold starts out already approved.
func (s *Service) ProposeWithdrawal(ctx context.Context, proposal WithdrawalProposal) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.propose_withdrawal")
	defer span.End()

	if proposal.Amount <= 0 {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryInvalidAmount, "withdrawal amount must be positive")
	}
	if proposal.Recipient == "" {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTxRecipientRequired, "withdrawal recipient is required")
	}
	txType := proposal.Type
	if txType == domain.TxTypeUnspecified {
		txType = domain.TxTypeWithdrawal
	}
	if !txType.MovesValue() || txType == domain.TxTypeMilestonePayment {
		return domain.Transaction{}, apperrors.New(apperrors.CodeInvalidRequest, "unsupported proposal type")
	}

	treasury, err := s.loadTreasury(ctx, proposal.TreasuryID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if treasury.Paused {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryPaused, "treasury is paused")
	}
	if !treasury.IsSigner(proposal.Proposer) {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryNotSigner, "proposer is not a treasury signer")
	}

	now := s.now()
	tx := domain.Transaction{
		TreasuryID: proposal.TreasuryID,
		Type:       txType,
		Amount:     proposal.Amount,
		Token:      proposal.Token,
		Recipient:  proposal.Recipient,
		Proposer:   proposal.Proposer,
		Approvals:  []string{proposal.Proposer},
		Status:     domain.TxStatusPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(domain.ExpiryWindow),
		Reason:     proposal.Reason,
	}
	if len(tx.Approvals) >= tx.RequiredApprovals(treasury) {
		tx.Status = domain.TxStatusApproved
	}

	id, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return domain.Transaction{}, apperrors.Wrap(apperrors.CodeUnknown, "create transaction", err)
	}
	tx.ID = id
	span.SetAttributes(attribute.Int64("transaction.id", int64(id)))

	s.emit(ctx, telemetry.Event{
		TreasuryID: proposal.TreasuryID,
		Name:       telemetry.EventWithdrawalProposed,
		Actor:      proposal.Proposer,
		Metadata: map[string]string{
			"tx_id":    strconv.FormatUint(id, 10),
			"amount":   strconv.FormatInt(proposal.Amount, 10),
			"token":    proposal.Token,
			"required": strconv.Itoa(tx.RequiredApprovals(treasury)),
		},
	})
	return tx, nil
}

// ApproveTransaction records one signer approval. Approvals keep accruing
// until the transaction reaches a terminal state, and approving works while
// the treasury is paused so a frozen proposal can still gather signatures.
func (s *Service) ApproveTransaction(ctx context.Context, txID uint64, approver string) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.approve_transaction")
	defer span.End()

	tx, err := s.loadTransaction(ctx, txID)
	if err != nil {
		return domain.Transaction{}, err
	}
	treasury, err := s.loadTreasury(ctx, tx.TreasuryID)
	if err != nil {
		return domain.Transaction{}, err
	}

	now := s.now()
	if tx.ExpireIfNeeded(now) {
		if err := s.store.UpdateTransaction(ctx, tx); err != nil {
			return domain.Transaction{}, apperrors.Wrap(apperrors.CodeUnknown, "expire transaction", err)
		}
		return domain.Transaction{}, apperrors.New(apperrors.CodeTxExpired, "transaction has expired")
	}
	if tx.Status.IsTerminal() {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTxNotApprovable, "transaction is in a terminal state")
	}
	if !treasury.IsSigner(approver) {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryNotSigner, "approver is not a treasury signer")
	}
	if err := tx.AddApproval(approver); err != nil {
		return domain.Transaction{}, err
	}
	if len(tx.Approvals) >= tx.RequiredApprovals(treasury) {
		tx.Status = domain.TxStatusApproved
	}

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return domain.Transaction{}, apperrors.Wrap(apperrors.CodeUnknown, "update transaction", err)
	}

	s.emit(ctx, telemetry.Event{
		TreasuryID: tx.TreasuryID,
		Name:       telemetry.EventTxApproved,
		Actor:      approver,
		Metadata: map[string]string{
			"tx_id":     strconv.FormatUint(txID, 10),
			"approvals": strconv.Itoa(len(tx.Approvals)),
			"approved":  strconv.FormatBool(tx.Status == domain.TxStatusApproved),
		},
	})
	return tx, nil
}

// ExecuteTransaction settles an approved transaction: the treasury is
// debited, the category budget is charged, and the executor's allowance is
// consumed, all atomically. A transaction approved before a pause may still
// be executed.
func (s *Service) ExecuteTransaction(ctx context.Context, txID uint64, executor string) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.execute_transaction")
	defer span.End()

	tx, err := s.loadTransaction(ctx, txID)
	if err != nil {
		return domain.Transaction{}, err
	}
	treasury, err := s.loadTreasury(ctx, tx.TreasuryID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !treasury.IsSigner(executor) {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryNotSigner, "executor is not a treasury signer")
	}

	now := s.now()
	if tx.ExpireIfNeeded(now) {
		if err := s.store.UpdateTransaction(ctx, tx); err != nil {
			return domain.Transaction{}, apperrors.Wrap(apperrors.CodeUnknown, "expire transaction", err)
		}
		return domain.Transaction{}, apperrors.New(apperrors.CodeTxExpired, "transaction has expired")
	}
	if tx.Status != domain.TxStatusApproved {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTxNotExecutable, "transaction is not approved for execution")
	}

	var settlement storage.Settlement

	// Non-value-moving transactions (allowance grants) settle as state-only
	// no-ops: nothing is debited and no cap is charged.
	if tx.Type.MovesValue() {
		if err := treasury.Debit(tx.Token, tx.Amount); err != nil {
			return domain.Transaction{}, err
		}

		budget, err := s.chargeBudget(ctx, tx.TreasuryID, tx.Type.BudgetCategory(), tx.Amount, now)
		if err != nil {
			return domain.Transaction{}, err
		}
		settlement.Budget = budget

		allowance, err := s.debitAllowance(ctx, tx.TreasuryID, executor, tx.Token, tx.Amount, now)
		if err != nil {
			return domain.Transaction{}, err
		}
		settlement.Allowance = allowance
	}
	treasury.UpdatedAt = now
	settlement.Treasury = treasury

	tx.Status = domain.TxStatusExecuted
	settlement.Transaction = tx

	if _, err := s.store.Settle(ctx, settlement); err != nil {
		return domain.Transaction{}, apperrors.Wrap(apperrors.CodeUnknown, "settle transaction", err)
	}

	s.emit(ctx, telemetry.Event{
		TreasuryID: tx.TreasuryID,
		Name:       telemetry.EventTxExecuted,
		Actor:      executor,
		Metadata: map[string]string{
			"tx_id":     strconv.FormatUint(txID, 10),
			"amount":    strconv.FormatInt(tx.Amount, 10),
			"token":     tx.Token,
			"recipient": tx.Recipient,
		},
	})
	return tx, nil
}

// ExecuteMilestonePayment settles a platform-initiated milestone payout
// without the approval flow. The milestone budget and the platform actor's
// allowance still apply.
func (s *Service) ExecuteMilestonePayment(ctx context.Context, treasuryID uint64, actor, recipient, token string, amount int64) (domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.execute_milestone_payment")
	defer span.End()

	if amount <= 0 {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryInvalidAmount, "milestone amount must be positive")
	}
	if recipient == "" {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTxRecipientRequired, "milestone recipient is required")
	}

	treasury, err := s.loadTreasury(ctx, treasuryID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if treasury.Paused {
		return domain.Transaction{}, apperrors.New(apperrors.CodeTreasuryPaused, "treasury is paused")
	}

	now := s.now()
	if err := treasury.Debit(token, amount); err != nil {
		return domain.Transaction{}, err
	}
	treasury.UpdatedAt = now

	settlement := storage.Settlement{Treasury: treasury}

	budget, err := s.chargeBudget(ctx, treasuryID, domain.TxTypeMilestonePayment.BudgetCategory(), amount, now)
	if err != nil {
		return domain.Transaction{}, err
	}
	settlement.Budget = budget

	allowance, err := s.debitAllowance(ctx, treasuryID, actor, token, amount, now)
	if err != nil {
		return domain.Transaction{}, err
	}
	settlement.Allowance = allowance

	tx := domain.Transaction{
		TreasuryID: treasuryID,
		Type:       domain.TxTypeMilestonePayment,
		Amount:     amount,
		Token:      token,
		Recipient:  recipient,
		Proposer:   actor,
		Status:     domain.TxStatusExecuted,
		CreatedAt:  now,
		ExpiresAt:  now.Add(domain.ExpiryWindow),
		Reason:     "milestone_payment",
	}
	settlement.Transaction = tx

	id, err := s.store.Settle(ctx, settlement)
	if err != nil {
		return domain.Transaction{}, apperrors.Wrap(apperrors.CodeUnknown, "settle milestone payment", err)
	}
	tx.ID = id

	s.emit(ctx, telemetry.Event{
		TreasuryID: treasuryID,
		Name:       telemetry.EventTxExecuted,
		Actor:      actor,
		Metadata: map[string]string{
			"tx_id":     strconv.FormatUint(id, 10),
			"amount":    strconv.FormatInt(amount, 10),
			"token":     token,
			"recipient": recipient,
			"reason":    "milestone_payment",
		},
	})
	return tx, nil
}

// chargeBudget loads and charges the category budget. A missing budget row
// means the category is unlimited.
func (s *Service) chargeBudget(ctx context.Context, treasuryID uint64, category string, amount int64, now time.Time) (*domain.Budget, error) {
	budget, err := s.store.GetBudget(ctx, treasuryID, category)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "load budget", err)
	}
	if err := budget.Charge(amount, now); err != nil {
		return nil, err
	}
	return &budget, nil
}

// debitAllowance loads and debits the actor's allowance for the token. A
// missing allowance row means the actor is not capped.
func (s *Service) debitAllowance(ctx context.Context, treasuryID uint64, admin, token string, amount int64, now time.Time) (*domain.Allowance, error) {
	allowance, err := s.store.GetAllowance(ctx, treasuryID, admin, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "load allowance", err)
	}
	if err := allowance.Debit(amount, now); err != nil {
		return nil, err
	}
	return &allowance, nil
}

// SetBudget creates or updates the recurring cap for a spending category.
// An allocation of zero lifts the cap.
func (s *Service) SetBudget(ctx context.Context, treasuryID uint64, actor, category string, allocated int64, period time.Duration) (domain.Budget, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.set_budget")
	defer span.End()

	if category == "" {
		return domain.Budget{}, apperrors.New(apperrors.CodeBudgetCategoryEmpty, "budget category is required")
	}
	if allocated < 0 {
		return domain.Budget{}, apperrors.New(apperrors.CodeTreasuryInvalidAmount, "budget allocation must not be negative")
	}
	if period < 0 {
		return domain.Budget{}, apperrors.New(apperrors.CodeBudgetInvalidPeriod, "budget period must not be negative")
	}

	treasury, err := s.loadTreasury(ctx, treasuryID)
	if err != nil {
		return domain.Budget{}, err
	}
	if !treasury.IsSigner(actor) {
		return domain.Budget{}, apperrors.New(apperrors.CodeTreasuryNotSigner, "actor is not a treasury signer")
	}

	now := s.now()
	budget, err := s.store.GetBudget(ctx, treasuryID, category)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return domain.Budget{}, apperrors.Wrap(apperrors.CodeUnknown, "load budget", err)
		}
		budget = domain.NewBudget(treasuryID, category, now)
	}
	budget.Allocated = allocated
	budget.Period = period
	budget.RolloverIfElapsed(now)

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return domain.Budget{}, apperrors.Wrap(apperrors.CodeUnknown, "put budget", err)
	}

	s.emit(ctx, telemetry.Event{
		TreasuryID: treasuryID,
		Name:       telemetry.EventBudgetUpdated,
		Actor:      actor,
		Metadata: map[string]string{
			"category":  category,
			"allocated": strconv.FormatInt(allocated, 10),
			"period_s":  strconv.FormatInt(int64(period/time.Second), 10),
		},
	})
	return budget, nil
}

// GrantAllowance replaces the recurring delegated spending cap for one
// admin and token. Only the owner may grant, and only to current signers.
// The fresh grant starts a new period with the full amount available.
func (s *Service) GrantAllowance(ctx context.Context, treasuryID uint64, actor, admin, token string, amountPerPeriod int64, period time.Duration) (domain.Allowance, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.grant_allowance")
	defer span.End()

	if amountPerPeriod < 0 {
		return domain.Allowance{}, apperrors.New(apperrors.CodeTreasuryInvalidAmount, "allowance amount must not be negative")
	}
	if period < 0 {
		return domain.Allowance{}, apperrors.New(apperrors.CodeAllowanceInvalidPeriod, "allowance period must not be negative")
	}

	treasury, err := s.loadTreasury(ctx, treasuryID)
	if err != nil {
		return domain.Allowance{}, err
	}
	if treasury.Owner != actor {
		return domain.Allowance{}, apperrors.New(apperrors.CodeTreasuryNotOwner, "only the treasury owner may grant allowances")
	}
	if !treasury.IsSigner(admin) {
		return domain.Allowance{}, apperrors.New(apperrors.CodeAllowanceAdminNotSigner, "allowance admin must be a treasury signer")
	}

	now := s.now()
	allowance := domain.Allowance{
		TreasuryID:      treasuryID,
		Admin:           admin,
		Token:           token,
		AmountPerPeriod: amountPerPeriod,
		Remaining:       amountPerPeriod,
		Period:          period,
		PeriodStart:     now,
	}
	if err := s.store.PutAllowance(ctx, allowance); err != nil {
		return domain.Allowance{}, apperrors.Wrap(apperrors.CodeUnknown, "put allowance", err)
	}

	s.emit(ctx, telemetry.Event{
		TreasuryID: treasuryID,
		Name:       telemetry.EventAllowanceGranted,
		Actor:      actor,
		Metadata: map[string]string{
			"admin":    admin,
			"token":    token,
			"amount":   strconv.FormatInt(amountPerPeriod, 10),
			"period_s": strconv.FormatInt(int64(period/time.Second), 10),
		},
	})
	return allowance, nil
}

// EmergencyPause freezes or unfreezes the treasury. Any signer may flip the
// switch. While paused, deposits, proposals and milestone payments are
// refused; approvals and the execution of already-approved transactions
// still go through.
func (s *Service) EmergencyPause(ctx context.Context, treasuryID uint64, actor string, paused bool) (domain.Treasury, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.emergency_pause")
	defer span.End()

	treasury, err := s.loadTreasury(ctx, treasuryID)
	if err != nil {
		return domain.Treasury{}, err
	}
	if !treasury.IsSigner(actor) {
		return domain.Treasury{}, apperrors.New(apperrors.CodeTreasuryNotSigner, "actor is not a treasury signer")
	}

	treasury.Paused = paused
	treasury.UpdatedAt = s.now()
	if err := s.store.UpdateTreasury(ctx, treasury); err != nil {
		return domain.Treasury{}, apperrors.Wrap(apperrors.CodeUnknown, "update treasury", err)
	}

	s.emit(ctx, telemetry.Event{
		TreasuryID: treasuryID,
		Name:       telemetry.EventPause,
		Severity:   telemetry.SeverityWarn,
		Actor:      actor,
		Metadata:   map[string]string{"paused": strconv.FormatBool(paused)},
	})
	return treasury, nil
}

// SetHighValueThreshold adjusts the amount at which withdrawals require the
// full approval threshold. Any signer may adjust it.
func (s *Service) SetHighValueThreshold(ctx context.Context, treasuryID uint64, actor string, threshold int64) (domain.Treasury, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.set_high_value_threshold")
	defer span.End()

	if threshold <= 0 {
		return domain.Treasury{}, apperrors.New(apperrors.CodeTreasuryInvalidAmount, "high-value threshold must be positive")
	}

	treasury, err := s.loadTreasury(ctx, treasuryID)
	if err != nil {
		return domain.Treasury{}, err
	}
	if !treasury.IsSigner(actor) {
		return domain.Treasury{}, apperrors.New(apperrors.CodeTreasuryNotSigner, "actor is not a treasury signer")
	}

	treasury.HighValueThreshold = threshold
	treasury.UpdatedAt = s.now()
	if err := s.store.UpdateTreasury(ctx, treasury); err != nil {
		return domain.Treasury{}, apperrors.Wrap(apperrors.CodeUnknown, "update treasury", err)
	}

	s.emit(ctx, telemetry.Event{
		TreasuryID: treasuryID,
		Name:       telemetry.EventHighValueThreshold,
		Actor:      actor,
		Metadata:   map[string]string{"threshold": strconv.FormatInt(threshold, 10)},
	})
	return treasury, nil
}

// GetTreasury returns the treasury aggregate.
func (s *Service) GetTreasury(ctx context.Context, treasuryID uint64) (domain.Treasury, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.get")
	defer span.End()
	return s.loadTreasury(ctx, treasuryID)
}

// GetBalance returns the tracked balance for token; the empty token is the
// native asset.
func (s *Service) GetBalance(ctx context.Context, treasuryID uint64, token string) (int64, error) {
	treasury, err := s.GetTreasury(ctx, treasuryID)
	if err != nil {
		return 0, err
	}
	return treasury.Balance(token), nil
}

// GetTransactionHistory returns the most recent limit transactions in
// insertion order, oldest first.
func (s *Service) GetTransactionHistory(ctx context.Context, treasuryID uint64, limit int) ([]domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.transaction_history")
	defer span.End()

	if _, err := s.loadTreasury(ctx, treasuryID); err != nil {
		return nil, err
	}
	list, err := s.store.ListTreasuryTransactions(ctx, treasuryID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "list transactions", err)
	}
	return list, nil
}

// ListEvents returns recorded telemetry events, newest first. It returns an
// empty list when telemetry is disabled.
func (s *Service) ListEvents(ctx context.Context, treasuryID uint64, limit int) ([]telemetry.Event, error) {
	if s.events == nil {
		return []telemetry.Event{}, nil
	}
	events, err := s.events.ListTelemetryEvents(ctx, treasuryID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "list events", err)
	}
	return events, nil
}
