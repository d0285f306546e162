package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/congo-pay/minibank/internal/ledger"
	"github.com/congo-pay/minibank/internal/logging"
	"github.com/congo-pay/minibank/internal/notification"
)

// Service wires ledger transfers and the sender ranking.
type Service struct {
	ledger   ledger.Ledger
	notifier notification.Notifier
	logger   *slog.Logger
	maxTop   int
}

// NewService constructs a payment service. maxTop bounds the size of a
// ranking request; values <= 0 disable the bound.
func NewService(l ledger.Ledger, notifier notification.Notifier, logger *slog.Logger, maxTop int) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{ledger: l, notifier: notifier, logger: logger, maxTop: maxTop}
}

// TransferInput captures the data needed to move funds between accounts.
type TransferInput struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        int64
}

// TransferResult describes the ledger outcome of a transfer.
type TransferResult struct {
	TransferID  string
	FromBalance int64
	ToBalance   int64
	CompletedAt time.Time
}

// Transfer moves funds between two accounts.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	res, err := s.ledger.Transfer(ctx, input.FromAccountID, input.ToAccountID, input.Amount)
	if err != nil {
		s.logger.WarnContext(ctx, "transfer rejected",
			slog.Int64("from_account_id", input.FromAccountID),
			slog.Int64("to_account_id", input.ToAccountID),
			slog.Int64("amount", input.Amount),
			slog.Any("error", err),
		)
		return TransferResult{}, err
	}

	s.logger.InfoContext(ctx, "transfer completed",
		slog.String("transfer_id", res.TransferID),
		slog.Int64("from_account_id", input.FromAccountID),
		slog.Int64("to_account_id", input.ToAccountID),
		slog.Int64("amount", input.Amount),
	)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:      notification.KindTransfer,
			AccountID: input.ToAccountID,
			Amount:    input.Amount,
			Body:      fmt.Sprintf("You received %d from account %d", input.Amount, input.FromAccountID),
		})
	}

	return TransferResult{
		TransferID:  res.TransferID,
		FromBalance: res.FromBalance,
		ToBalance:   res.ToBalance,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// TopSenders returns at most n accounts ranked by cumulative amount sent.
func (s *Service) TopSenders(ctx context.Context, n int) ([]ledger.Sender, error) {
	if s.maxTop > 0 && n > s.maxTop {
		n = s.maxTop
	}
	return s.ledger.TopSenders(ctx, n)
}
