package accounts

import "time"

// OpenInput captures data required to open an account.
type OpenInput struct {
	Name           string
	InitialBalance int64
}

// Balance encapsulates available funds for an account at a point in time.
type Balance struct {
	AccountID int64
	Amount    int64
	AsOf      time.Time
}
