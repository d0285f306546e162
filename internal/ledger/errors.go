package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidArgument marks input the ledger refuses to apply.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound occurs when an account id does not reference an existing account.
	ErrNotFound = errors.New("account not found")

	// ErrInsufficientFunds occurs when the source account lacks available balance
	// to cover a requested transfer.
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrInvalidArgument)

	// ErrSelfTransfer rejects transfers whose source and destination are the same account.
	ErrSelfTransfer = fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidArgument)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFound(role string, id int64) error {
	if role == "" {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("%s account %d: %w", role, id, ErrNotFound)
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", invalid("account name must not be empty")
	}
	return trimmed, nil
}

func validateOpening(name string, initialBalance int64) (string, error) {
	trimmed, err := normalizeName(name)
	if err != nil {
		return "", err
	}
	if initialBalance < 0 {
		return "", invalid("initial balance must not be negative, got %d", initialBalance)
	}
	return trimmed, nil
}

func validateDeposit(amount int64) error {
	if amount < 0 {
		return invalid("deposit amount must not be negative, got %d", amount)
	}
	return nil
}

func validateTransferAmount(amount int64) error {
	if amount <= 0 {
		return invalid("transfer amount must be positive, got %d", amount)
	}
	return nil
}

func validateLimit(n int) error {
	if n < 0 {
		return invalid("n must not be negative, got %d", n)
	}
	return nil
}

// checkCredit rejects adding amount to current when the sum would not fit in
// an int64. Both values are non-negative.
func checkCredit(what string, current, amount int64) error {
	if amount > math.MaxInt64-current {
		return invalid("%s would overflow: %d + %d", what, current, amount)
	}
	return nil
}
