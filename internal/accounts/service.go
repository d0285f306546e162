package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/congo-pay/minibank/internal/ledger"
	"github.com/congo-pay/minibank/internal/logging"
	"github.com/congo-pay/minibank/internal/notification"
)

// Service exposes account operations backed by the ledger.
type Service struct {
	ledger   ledger.Ledger
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService builds an account service. The notifier may be nil.
func NewService(l ledger.Ledger, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{ledger: l, notifier: notifier, logger: logger}
}

// Open creates a ledger account and returns its initial state.
func (s *Service) Open(ctx context.Context, input OpenInput) (ledger.Account, error) {
	id, err := s.ledger.CreateAccount(ctx, input.Name, input.InitialBalance)
	if err != nil {
		s.logger.WarnContext(ctx, "account open rejected", slog.Any("error", err))
		return ledger.Account{}, err
	}

	acct, err := s.ledger.Account(ctx, id)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("load opened account: %w", err)
	}

	s.logger.InfoContext(ctx, "account opened",
		slog.Int64("account_id", acct.ID),
		slog.Int64("initial_balance", acct.Balance),
	)
	return acct, nil
}

// Get retrieves the current account state.
func (s *Service) Get(ctx context.Context, id int64) (ledger.Account, error) {
	return s.ledger.Account(ctx, id)
}

// Balance returns the ledger balance for the account.
func (s *Service) Balance(ctx context.Context, id int64) (Balance, error) {
	amount, err := s.ledger.Balance(ctx, id)
	if err != nil {
		return Balance{}, err
	}
	return Balance{AccountID: id, Amount: amount, AsOf: time.Now().UTC()}, nil
}

// Deposit credits the account and notifies its holder.
func (s *Service) Deposit(ctx context.Context, id, amount int64) (Balance, error) {
	balance, err := s.ledger.Deposit(ctx, id, amount)
	if err != nil {
		s.logger.WarnContext(ctx, "deposit rejected",
			slog.Int64("account_id", id),
			slog.Int64("amount", amount),
			slog.Any("error", err),
		)
		return Balance{}, err
	}

	s.logger.InfoContext(ctx, "deposit applied",
		slog.Int64("account_id", id),
		slog.Int64("amount", amount),
		slog.Int64("balance", balance),
	)

	if s.notifier != nil && amount > 0 {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:      notification.KindDeposit,
			AccountID: id,
			Amount:    amount,
			Body:      fmt.Sprintf("%d was deposited into account %d", amount, id),
		})
	}

	return Balance{AccountID: id, Amount: balance, AsOf: time.Now().UTC()}, nil
}
