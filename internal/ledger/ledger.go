package ledger

import (
	"context"
	"time"
)

// Account is a point-in-time copy of a ledger account.
type Account struct {
	ID        int64
	Name      string
	Balance   int64
	Sent      int64
	CreatedAt time.Time
}

// Sender is one row of the top senders ranking.
type Sender struct {
	AccountID int64
	Sent      int64
}

// TransferResult captures the outcome of a successful transfer.
type TransferResult struct {
	TransferID  string
	FromBalance int64
	ToBalance   int64
}

// Ledger defines the contract implemented by ledger backends. The in-memory
// backend is the reference implementation; Postgres satisfies the same
// contract for deployments that want the ledger outside the process.
type Ledger interface {
	// CreateAccount opens an account and returns its id. Ids start at 1 and
	// are never reused.
	CreateAccount(ctx context.Context, name string, initialBalance int64) (int64, error)
	Account(ctx context.Context, id int64) (Account, error)
	Balance(ctx context.Context, id int64) (int64, error)
	// Deposit credits the account and returns the new balance. A zero amount
	// is accepted and changes nothing.
	Deposit(ctx context.Context, id, amount int64) (int64, error)
	// Transfer moves amount from one account to another. Either every check
	// passes and both balances change, or nothing changes.
	Transfer(ctx context.Context, fromID, toID, amount int64) (TransferResult, error)
	// TopSenders ranks accounts by cumulative amount sent, highest first,
	// lower id first on ties. Accounts that never sent are left out.
	TopSenders(ctx context.Context, n int) ([]Sender, error)
}
