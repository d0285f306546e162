package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/minibank/internal/ledger"
)

func TestFromLedger(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("source account 7: %w", ledger.ErrNotFound), http.StatusNotFound},
		{"invalid argument", ledger.ErrSelfTransfer, http.StatusBadRequest},
		{"insufficient funds", ledger.ErrInsufficientFunds, http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fe *fiber.Error
			if !errors.As(FromLedger(tc.err), &fe) {
				t.Fatalf("expected a fiber error")
			}
			if fe.Code != tc.code {
				t.Fatalf("expected status %d got %d", tc.code, fe.Code)
			}
			if fe.Message != tc.err.Error() {
				t.Fatalf("expected message %q got %q", tc.err.Error(), fe.Message)
			}
		})
	}

	var fe *fiber.Error
	errors.As(FromLedger(ledger.ErrInsufficientFunds), &fe)
	if !strings.Contains(fe.Message, "insufficient funds") {
		t.Fatalf("expected insufficient funds in message, got %q", fe.Message)
	}
}
