// Package apierror translates ledger errors into HTTP errors.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/minibank/internal/ledger"
)

// FromLedger maps a ledger error to a fiber error, keeping the wrapped message.
func FromLedger(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidArgument):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
