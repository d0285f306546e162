package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLoggerNotifierWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := n.Send(context.Background(), Message{Kind: KindTransfer, AccountID: 2, Amount: 20, Body: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["kind"] != KindTransfer || entry["account_id"] != float64(2) || entry["amount"] != float64(20) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestLoggerNotifierNilSafe(t *testing.T) {
	var n *LoggerNotifier
	if err := n.Send(context.Background(), Message{Kind: KindDeposit}); err != nil {
		t.Fatalf("nil notifier should be a no-op, got %v", err)
	}
}
