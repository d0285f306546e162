package notification

import (
	"context"
	"log/slog"
)

const (
	// KindDeposit indicates funds were credited to an account.
	KindDeposit = "deposit"
	// KindTransfer indicates an account received a transfer.
	KindTransfer = "transfer"
)

// Message describes a notification payload addressed to a ledger account.
type Message struct {
	Kind      string
	AccountID int64
	Amount    int64
	Body      string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.InfoContext(ctx, "notification",
		slog.String("kind", message.Kind),
		slog.Int64("account_id", message.AccountID),
		slog.Int64("amount", message.Amount),
		slog.String("body", message.Body),
	)
	return nil
}
