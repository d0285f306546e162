package ledger

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemoryLedger struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]*Account
}

var _ Ledger = (*inMemoryLedger)(nil)

// NewInMemory creates a concurrency-safe in-memory ledger. Every mutation runs
// under a single write lock, so a transfer is observed either fully applied or
// not at all.
func NewInMemory() Ledger {
	return &inMemoryLedger{accounts: make(map[int64]*Account)}
}

func (l *inMemoryLedger) CreateAccount(_ context.Context, name string, initialBalance int64) (int64, error) {
	name, err := validateOpening(name, initialBalance)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.accounts[id] = &Account{
		ID:        id,
		Name:      name,
		Balance:   initialBalance,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

func (l *inMemoryLedger) Account(_ context.Context, id int64) (Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[id]
	if !ok {
		return Account{}, notFound("", id)
	}
	return *acct, nil
}

func (l *inMemoryLedger) Balance(_ context.Context, id int64) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[id]
	if !ok {
		return 0, notFound("", id)
	}
	return acct.Balance, nil
}

func (l *inMemoryLedger) Deposit(_ context.Context, id, amount int64) (int64, error) {
	if err := validateDeposit(amount); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[id]
	if !ok {
		return 0, notFound("", id)
	}
	if err := checkCredit("balance", acct.Balance, amount); err != nil {
		return 0, err
	}
	acct.Balance += amount
	return acct.Balance, nil
}

func (l *inMemoryLedger) Transfer(_ context.Context, fromID, toID, amount int64) (TransferResult, error) {
	if err := validateTransferAmount(amount); err != nil {
		return TransferResult{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.accounts[fromID]
	if !ok {
		return TransferResult{}, notFound("source", fromID)
	}
	to, ok := l.accounts[toID]
	if !ok {
		return TransferResult{}, notFound("destination", toID)
	}
	if fromID == toID {
		return TransferResult{}, ErrSelfTransfer
	}
	if from.Balance < amount {
		return TransferResult{}, ErrInsufficientFunds
	}
	if err := checkCredit("destination balance", to.Balance, amount); err != nil {
		return TransferResult{}, err
	}
	if err := checkCredit("sent total", from.Sent, amount); err != nil {
		return TransferResult{}, err
	}

	from.Balance -= amount
	to.Balance += amount
	from.Sent += amount

	return TransferResult{
		TransferID:  uuid.NewString(),
		FromBalance: from.Balance,
		ToBalance:   to.Balance,
	}, nil
}

func (l *inMemoryLedger) TopSenders(_ context.Context, n int) ([]Sender, error) {
	if err := validateLimit(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []Sender{}, nil
	}

	l.mu.RLock()
	senders := make([]Sender, 0, len(l.accounts))
	for _, acct := range l.accounts {
		if acct.Sent > 0 {
			senders = append(senders, Sender{AccountID: acct.ID, Sent: acct.Sent})
		}
	}
	l.mu.RUnlock()

	slices.SortFunc(senders, compareSenders)
	if len(senders) > n {
		senders = senders[:n]
	}
	return senders, nil
}

func compareSenders(a, b Sender) int {
	if c := cmp.Compare(b.Sent, a.Sent); c != 0 {
		return c
	}
	return cmp.Compare(a.AccountID, b.AccountID)
}
