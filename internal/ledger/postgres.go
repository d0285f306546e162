package ledger

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// sqlStateOutOfRange is numeric_value_out_of_range, raised when a BIGINT
// column would overflow.
const sqlStateOutOfRange = "22003"

// PostgresLedger keeps accounts in PostgreSQL. Row locks taken inside a single
// transaction give transfers the same all-or-nothing behaviour as the
// in-memory ledger.
type PostgresLedger struct {
	db *pgxpool.Pool
}

var _ Ledger = (*PostgresLedger)(nil)

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Migrate creates the ledger tables when they are missing.
func (l *PostgresLedger) Migrate(ctx context.Context) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return tx.Commit(ctx)
}

// CreateAccount inserts a new account row and returns its id.
func (l *PostgresLedger) CreateAccount(ctx context.Context, name string, initialBalance int64) (int64, error) {
	name, err := validateOpening(name, initialBalance)
	if err != nil {
		return 0, err
	}

	var id int64
	err = l.db.QueryRow(ctx, `INSERT INTO ledger_accounts (name, balance) VALUES ($1, $2) RETURNING id`,
		name, initialBalance).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return id, nil
}

// Account fetches a snapshot of one account.
func (l *PostgresLedger) Account(ctx context.Context, id int64) (Account, error) {
	const query = `SELECT id, name, balance, sent, created_at FROM ledger_accounts WHERE id = $1`
	var (
		acct      Account
		createdAt time.Time
	)
	err := l.db.QueryRow(ctx, query, id).Scan(&acct.ID, &acct.Name, &acct.Balance, &acct.Sent, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, notFound("", id)
		}
		return Account{}, err
	}
	acct.CreatedAt = createdAt.UTC()
	return acct, nil
}

// Balance returns the current balance for the account.
func (l *PostgresLedger) Balance(ctx context.Context, id int64) (int64, error) {
	var balance int64
	if err := l.db.QueryRow(ctx, `SELECT balance FROM ledger_accounts WHERE id = $1`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound("", id)
		}
		return 0, err
	}
	return balance, nil
}

// Deposit credits the account in a single statement.
func (l *PostgresLedger) Deposit(ctx context.Context, id, amount int64) (int64, error) {
	if err := validateDeposit(amount); err != nil {
		return 0, err
	}

	var balance int64
	err := l.db.QueryRow(ctx, `UPDATE ledger_accounts SET balance = balance + $2 WHERE id = $1 RETURNING balance`,
		id, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound("", id)
		}
		return 0, mapPgError(err)
	}
	return balance, nil
}

// Transfer moves funds between two accounts and records the movement.
func (l *PostgresLedger) Transfer(ctx context.Context, fromID, toID, amount int64) (TransferResult, error) {
	if err := validateTransferAmount(amount); err != nil {
		return TransferResult{}, err
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	// Lock in id order so opposing transfers cannot deadlock.
	balances, err := lockBalances(ctx, tx, fromID, toID)
	if err != nil {
		return TransferResult{}, err
	}

	fromBalance, ok := balances[fromID]
	if !ok {
		return TransferResult{}, notFound("source", fromID)
	}
	toBalance, ok := balances[toID]
	if !ok {
		return TransferResult{}, notFound("destination", toID)
	}
	if fromID == toID {
		return TransferResult{}, ErrSelfTransfer
	}
	if fromBalance < amount {
		return TransferResult{}, ErrInsufficientFunds
	}
	if err := checkCredit("destination balance", toBalance, amount); err != nil {
		return TransferResult{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE ledger_accounts SET balance = balance - $2, sent = sent + $2 WHERE id = $1`, fromID, amount); err != nil {
		return TransferResult{}, mapPgError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE ledger_accounts SET balance = balance + $2 WHERE id = $1`, toID, amount); err != nil {
		return TransferResult{}, mapPgError(err)
	}

	transferID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO ledger_transfers (id, from_account_id, to_account_id, amount) VALUES ($1, $2, $3, $4)`,
		transferID, fromID, toID, amount); err != nil {
		return TransferResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{
		TransferID:  transferID.String(),
		FromBalance: fromBalance - amount,
		ToBalance:   toBalance + amount,
	}, nil
}

// TopSenders ranks accounts by cumulative amount sent.
func (l *PostgresLedger) TopSenders(ctx context.Context, n int) ([]Sender, error) {
	if err := validateLimit(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []Sender{}, nil
	}

	rows, err := l.db.Query(ctx, `SELECT id, sent FROM ledger_accounts WHERE sent > 0
        ORDER BY sent DESC, id ASC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	senders := make([]Sender, 0, n)
	for rows.Next() {
		var s Sender
		if err := rows.Scan(&s.AccountID, &s.Sent); err != nil {
			return nil, err
		}
		senders = append(senders, s)
	}
	return senders, rows.Err()
}

func lockBalances(ctx context.Context, tx pgx.Tx, ids ...int64) (map[int64]int64, error) {
	rows, err := tx.Query(ctx, `SELECT id, balance FROM ledger_accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make(map[int64]int64, len(ids))
	for rows.Next() {
		var id, balance int64
		if err := rows.Scan(&id, &balance); err != nil {
			return nil, err
		}
		balances[id] = balance
	}
	return balances, rows.Err()
}

// mapPgError reports BIGINT overflow as an invalid argument, matching the
// in-memory ledger.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlStateOutOfRange {
		return invalid("amount would overflow: %s", pgErr.Message)
	}
	return err
}
