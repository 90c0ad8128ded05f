// Package sqlite provides a SQLite-backed treasury storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/guildforge/treasury/internal/platform/storage/sqlitemigrate"
	"github.com/guildforge/treasury/internal/telemetry"
	"github.com/guildforge/treasury/internal/treasury/domain"
	"github.com/guildforge/treasury/internal/treasury/storage"
	"github.com/guildforge/treasury/internal/treasury/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists treasury state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite treasury store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// CreateTreasury inserts a treasury with its signer set and returns the
// assigned id. SQLite AUTOINCREMENT guarantees ids are never reused.
func (s *Store) CreateTreasury(ctx context.Context, treasury domain.Treasury) (uint64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if len(treasury.Signers) == 0 {
		return 0, fmt.Errorf("at least one signer is required")
	}

	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create treasury: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	result, err := sqlTx.ExecContext(
		ctx,
		`INSERT INTO treasuries (
		   guild_id, owner, approval_threshold, high_value_threshold,
		   balance_native, total_deposits, total_withdrawals, paused,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		treasury.GuildID,
		treasury.Owner,
		treasury.ApprovalThreshold,
		treasury.HighValueThreshold,
		treasury.BalanceNative,
		treasury.TotalDeposits,
		treasury.TotalWithdrawals,
		boolToInt(treasury.Paused),
		toMillis(treasury.CreatedAt),
		toMillis(treasury.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("create treasury: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("treasury id: %w", err)
	}

	for position, address := range treasury.Signers {
		if _, err := sqlTx.ExecContext(
			ctx,
			`INSERT INTO treasury_signers (treasury_id, position, address) VALUES (?, ?, ?)`,
			id, position, address,
		); err != nil {
			return 0, fmt.Errorf("create treasury signer: %w", err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create treasury: %w", err)
	}
	return uint64(id), nil
}

// GetTreasury returns one treasury with signers and token balances.
func (s *Store) GetTreasury(ctx context.Context, id uint64) (domain.Treasury, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Treasury{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, guild_id, owner, approval_threshold, high_value_threshold,
		        balance_native, total_deposits, total_withdrawals, paused,
		        created_at, updated_at
		   FROM treasuries
		  WHERE id = ?`,
		id,
	)

	var treasury domain.Treasury
	var paused int
	var createdAt, updatedAt int64
	err := row.Scan(
		&treasury.ID,
		&treasury.GuildID,
		&treasury.Owner,
		&treasury.ApprovalThreshold,
		&treasury.HighValueThreshold,
		&treasury.BalanceNative,
		&treasury.TotalDeposits,
		&treasury.TotalWithdrawals,
		&paused,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Treasury{}, storage.ErrNotFound
		}
		return domain.Treasury{}, fmt.Errorf("get treasury: %w", err)
	}
	treasury.Paused = paused != 0
	treasury.CreatedAt = fromMillis(createdAt)
	treasury.UpdatedAt = fromMillis(updatedAt)

	signers, err := s.treasurySigners(ctx, id)
	if err != nil {
		return domain.Treasury{}, err
	}
	treasury.Signers = signers

	balances, err := s.tokenBalances(ctx, id)
	if err != nil {
		return domain.Treasury{}, err
	}
	treasury.TokenBalances = balances

	return treasury, nil
}

// UpdateTreasury persists the mutable treasury fields and token balances.
func (s *Store) UpdateTreasury(ctx context.Context, treasury domain.Treasury) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update treasury: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := updateTreasuryTx(ctx, sqlTx, treasury); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// CreateTransaction inserts a transaction with its approval set.
func (s *Store) CreateTransaction(ctx context.Context, tx domain.Transaction) (uint64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create transaction: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	id, err := insertTransactionTx(ctx, sqlTx, tx)
	if err != nil {
		return 0, err
	}
	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create transaction: %w", err)
	}
	return id, nil
}

// GetTransaction returns one transaction with its ordered approvals.
func (s *Store) GetTransaction(ctx context.Context, id uint64) (domain.Transaction, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Transaction{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, treasury_id, tx_type, amount, token, recipient, proposer,
		        status, created_at, expires_at, reason
		   FROM transactions
		  WHERE id = ?`,
		id,
	)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, storage.ErrNotFound
		}
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	approvals, err := s.transactionApprovals(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	tx.Approvals = approvals
	return tx, nil
}

// UpdateTransaction persists status and appends new approvals.
func (s *Store) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update transaction: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := updateTransactionTx(ctx, sqlTx, tx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// ListTreasuryTransactions returns the most recent limit transactions in
// insertion order, oldest first. A non-positive limit returns nothing.
func (s *Store) ListTreasuryTransactions(ctx context.Context, treasuryID uint64, limit int) ([]domain.Transaction, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []domain.Transaction{}, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, treasury_id, tx_type, amount, token, recipient, proposer,
		        status, created_at, expires_at, reason
		   FROM transactions
		  WHERE treasury_id = ?
		  ORDER BY id DESC
		  LIMIT ?`,
		treasuryID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var newestFirst []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		newestFirst = append(newestFirst, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	result := make([]domain.Transaction, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		tx := newestFirst[i]
		approvals, err := s.transactionApprovals(ctx, tx.ID)
		if err != nil {
			return nil, err
		}
		tx.Approvals = approvals
		result = append(result, tx)
	}
	return result, nil
}

// GetBudget returns the budget row for one (treasury, category) pair.
func (s *Store) GetBudget(ctx context.Context, treasuryID uint64, category string) (domain.Budget, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Budget{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT treasury_id, category, allocated_amount, spent_amount,
		        period_seconds, period_start
		   FROM budgets
		  WHERE treasury_id = ? AND category = ?`,
		treasuryID,
		category,
	)

	var budget domain.Budget
	var periodSeconds, periodStart int64
	err := row.Scan(
		&budget.TreasuryID,
		&budget.Category,
		&budget.Allocated,
		&budget.Spent,
		&periodSeconds,
		&periodStart,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Budget{}, storage.ErrNotFound
		}
		return domain.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	budget.Period = time.Duration(periodSeconds) * time.Second
	budget.PeriodStart = fromMillis(periodStart)
	return budget, nil
}

// PutBudget inserts or replaces the budget row.
func (s *Store) PutBudget(ctx context.Context, budget domain.Budget) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return upsertBudget(ctx, s.sqlDB, budget)
}

// GetAllowance returns the allowance row for one (treasury, admin, token)
// tuple.
func (s *Store) GetAllowance(ctx context.Context, treasuryID uint64, admin, token string) (domain.Allowance, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Allowance{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT treasury_id, admin, token, amount_per_period, remaining_amount,
		        period_seconds, period_start
		   FROM allowances
		  WHERE treasury_id = ? AND admin = ? AND token = ?`,
		treasuryID,
		admin,
		token,
	)

	var allowance domain.Allowance
	var periodSeconds, periodStart int64
	err := row.Scan(
		&allowance.TreasuryID,
		&allowance.Admin,
		&allowance.Token,
		&allowance.AmountPerPeriod,
		&allowance.Remaining,
		&periodSeconds,
		&periodStart,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Allowance{}, storage.ErrNotFound
		}
		return domain.Allowance{}, fmt.Errorf("get allowance: %w", err)
	}
	allowance.Period = time.Duration(periodSeconds) * time.Second
	allowance.PeriodStart = fromMillis(periodStart)
	return allowance, nil
}

// PutAllowance inserts or replaces the allowance row.
func (s *Store) PutAllowance(ctx context.Context, allowance domain.Allowance) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return upsertAllowance(ctx, s.sqlDB, allowance)
}

// RecordDeposit applies the credited treasury and its synthetic executed
// deposit transaction in one SQL transaction.
func (s *Store) RecordDeposit(ctx context.Context, treasury domain.Treasury, tx domain.Transaction) (uint64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin record deposit: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := updateTreasuryTx(ctx, sqlTx, treasury); err != nil {
		return 0, err
	}
	id, err := insertTransactionTx(ctx, sqlTx, tx)
	if err != nil {
		return 0, err
	}
	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record deposit: %w", err)
	}
	return id, nil
}

// Settle applies an execution atomically: debited treasury, settled
// transaction and any charged budget or debited allowance.
func (s *Store) Settle(ctx context.Context, settlement storage.Settlement) (uint64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin settle: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := updateTreasuryTx(ctx, sqlTx, settlement.Treasury); err != nil {
		return 0, err
	}

	txID := settlement.Transaction.ID
	if txID == 0 {
		txID, err = insertTransactionTx(ctx, sqlTx, settlement.Transaction)
		if err != nil {
			return 0, err
		}
	} else if err := updateTransactionTx(ctx, sqlTx, settlement.Transaction); err != nil {
		return 0, err
	}

	if settlement.Budget != nil {
		if err := upsertBudget(ctx, sqlTx, *settlement.Budget); err != nil {
			return 0, err
		}
	}
	if settlement.Allowance != nil {
		if err := upsertAllowance(ctx, sqlTx, *settlement.Allowance); err != nil {
			return 0, err
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit settle: %w", err)
	}
	return txID, nil
}

// AppendTelemetryEvent records one structured treasury event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt telemetry.Event) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	metadata := "{}"
	if len(evt.Metadata) > 0 {
		encoded, err := json.Marshal(evt.Metadata)
		if err != nil {
			return fmt.Errorf("encode event metadata: %w", err)
		}
		metadata = string(encoded)
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO telemetry_events (id, treasury_id, name, severity, actor, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		evt.ID,
		evt.TreasuryID,
		evt.Name,
		string(evt.Severity),
		evt.Actor,
		metadata,
		toMillis(evt.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

// ListTelemetryEvents returns the most recent limit events, newest first.
func (s *Store) ListTelemetryEvents(ctx context.Context, treasuryID uint64, limit int) ([]telemetry.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []telemetry.Event{}, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, treasury_id, name, severity, actor, metadata, created_at
		   FROM telemetry_events
		  WHERE treasury_id = ?
		  ORDER BY created_at DESC, rowid DESC
		  LIMIT ?`,
		treasuryID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list telemetry events: %w", err)
	}
	defer rows.Close()

	events := make([]telemetry.Event, 0, limit)
	for rows.Next() {
		var evt telemetry.Event
		var severity, metadata string
		var createdAt int64
		if err := rows.Scan(&evt.ID, &evt.TreasuryID, &evt.Name, &severity, &evt.Actor, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("list telemetry events: %w", err)
		}
		evt.Severity = telemetry.Severity(severity)
		evt.Timestamp = fromMillis(createdAt)
		if metadata != "" && metadata != "{}" {
			decoded := map[string]string{}
			if err := json.Unmarshal([]byte(metadata), &decoded); err != nil {
				return nil, fmt.Errorf("decode event metadata: %w", err)
			}
			evt.Metadata = decoded
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list telemetry events: %w", err)
	}
	return events, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateTreasuryTx(ctx context.Context, sqlTx *sql.Tx, treasury domain.Treasury) error {
	result, err := sqlTx.ExecContext(
		ctx,
		`UPDATE treasuries
		    SET high_value_threshold = ?,
		        balance_native = ?,
		        total_deposits = ?,
		        total_withdrawals = ?,
		        paused = ?,
		        updated_at = ?
		  WHERE id = ?`,
		treasury.HighValueThreshold,
		treasury.BalanceNative,
		treasury.TotalDeposits,
		treasury.TotalWithdrawals,
		boolToInt(treasury.Paused),
		toMillis(treasury.UpdatedAt),
		treasury.ID,
	)
	if err != nil {
		return fmt.Errorf("update treasury: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update treasury: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	for token, balance := range treasury.TokenBalances {
		if _, err := sqlTx.ExecContext(
			ctx,
			`INSERT INTO treasury_token_balances (treasury_id, token, balance)
			 VALUES (?, ?, ?)
			 ON CONFLICT (treasury_id, token) DO UPDATE SET balance = excluded.balance`,
			treasury.ID, token, balance,
		); err != nil {
			return fmt.Errorf("update token balance: %w", err)
		}
	}
	return nil
}

func insertTransactionTx(ctx context.Context, sqlTx *sql.Tx, tx domain.Transaction) (uint64, error) {
	result, err := sqlTx.ExecContext(
		ctx,
		`INSERT INTO transactions (
		   treasury_id, tx_type, amount, token, recipient, proposer,
		   status, created_at, expires_at, reason
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.TreasuryID,
		int(tx.Type),
		tx.Amount,
		tx.Token,
		tx.Recipient,
		tx.Proposer,
		int(tx.Status),
		toMillis(tx.CreatedAt),
		toMillis(tx.ExpiresAt),
		tx.Reason,
	)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	if err := insertApprovals(ctx, sqlTx, uint64(id), tx.Approvals); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func updateTransactionTx(ctx context.Context, sqlTx *sql.Tx, tx domain.Transaction) error {
	result, err := sqlTx.ExecContext(
		ctx,
		`UPDATE transactions SET status = ? WHERE id = ?`,
		int(tx.Status),
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return insertApprovals(ctx, sqlTx, tx.ID, tx.Approvals)
}

func insertApprovals(ctx context.Context, sqlTx *sql.Tx, txID uint64, approvals []string) error {
	for position, address := range approvals {
		if _, err := sqlTx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO transaction_approvals (tx_id, position, address) VALUES (?, ?, ?)`,
			txID, position, address,
		); err != nil {
			return fmt.Errorf("record approval: %w", err)
		}
	}
	return nil
}

func upsertBudget(ctx context.Context, db execer, budget domain.Budget) error {
	_, err := db.ExecContext(
		ctx,
		`INSERT INTO budgets (treasury_id, category, allocated_amount, spent_amount, period_seconds, period_start)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (treasury_id, category) DO UPDATE SET
		   allocated_amount = excluded.allocated_amount,
		   spent_amount = excluded.spent_amount,
		   period_seconds = excluded.period_seconds,
		   period_start = excluded.period_start`,
		budget.TreasuryID,
		budget.Category,
		budget.Allocated,
		budget.Spent,
		int64(budget.Period/time.Second),
		toMillis(budget.PeriodStart),
	)
	if err != nil {
		return fmt.Errorf("put budget: %w", err)
	}
	return nil
}

func upsertAllowance(ctx context.Context, db execer, allowance domain.Allowance) error {
	_, err := db.ExecContext(
		ctx,
		`INSERT INTO allowances (treasury_id, admin, token, amount_per_period, remaining_amount, period_seconds, period_start)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (treasury_id, admin, token) DO UPDATE SET
		   amount_per_period = excluded.amount_per_period,
		   remaining_amount = excluded.remaining_amount,
		   period_seconds = excluded.period_seconds,
		   period_start = excluded.period_start`,
		allowance.TreasuryID,
		allowance.Admin,
		allowance.Token,
		allowance.AmountPerPeriod,
		allowance.Remaining,
		int64(allowance.Period/time.Second),
		toMillis(allowance.PeriodStart),
	)
	if err != nil {
		return fmt.Errorf("put allowance: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var tx domain.Transaction
	var txType, status int
	var createdAt, expiresAt int64
	err := row.Scan(
		&tx.ID,
		&tx.TreasuryID,
		&txType,
		&tx.Amount,
		&tx.Token,
		&tx.Recipient,
		&tx.Proposer,
		&status,
		&createdAt,
		&expiresAt,
		&tx.Reason,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	tx.Type = domain.TxType(txType)
	tx.Status = domain.TxStatus(status)
	tx.CreatedAt = fromMillis(createdAt)
	tx.ExpiresAt = fromMillis(expiresAt)
	return tx, nil
}

func (s *Store) treasurySigners(ctx context.Context, treasuryID uint64) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT address FROM treasury_signers WHERE treasury_id = ? ORDER BY position ASC`,
		treasuryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list signers: %w", err)
	}
	defer rows.Close()

	var signers []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("list signers: %w", err)
		}
		signers = append(signers, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list signers: %w", err)
	}
	return signers, nil
}

func (s *Store) tokenBalances(ctx context.Context, treasuryID uint64) (map[string]int64, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT token, balance FROM treasury_token_balances WHERE treasury_id = ?`,
		treasuryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list token balances: %w", err)
	}
	defer rows.Close()

	balances := map[string]int64{}
	for rows.Next() {
		var token string
		var balance int64
		if err := rows.Scan(&token, &balance); err != nil {
			return nil, fmt.Errorf("list token balances: %w", err)
		}
		balances[token] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list token balances: %w", err)
	}
	return balances, nil
}

func (s *Store) transactionApprovals(ctx context.Context, txID uint64) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT address FROM transaction_approvals WHERE tx_id = ? ORDER BY position ASC`,
		txID,
	)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	var approvals []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("list approvals: %w", err)
		}
		approvals = append(approvals, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return approvals, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

var _ storage.Store = (*Store)(nil)
var _ telemetry.Store = (*Store)(nil)
