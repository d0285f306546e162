package accounts

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/minibank/internal/apierror"
	"github.com/congo-pay/minibank/internal/ledger"
	"github.com/congo-pay/minibank/internal/money"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service  *Service
	exponent int32
}

// NewHandler builds an account HTTP handler. exponent is the number of minor
// unit digits used when rendering display amounts.
func NewHandler(service *Service, exponent int32) *Handler {
	return &Handler{service: service, exponent: exponent}
}

type openRequest struct {
	Name           string `json:"name"`
	InitialBalance int64  `json:"initial_balance"`
}

type depositRequest struct {
	Amount int64 `json:"amount"`
}

type accountResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Balance        int64     `json:"balance"`
	BalanceDisplay string    `json:"balance_display"`
	Sent           int64     `json:"sent"`
	CreatedAt      time.Time `json:"created_at"`
}

type balanceResponse struct {
	AccountID      int64     `json:"account_id"`
	Balance        int64     `json:"balance"`
	BalanceDisplay string    `json:"balance_display"`
	Timestamp      time.Time `json:"timestamp"`
}

// Create opens a new account.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acct, err := h.service.Open(c.UserContext(), OpenInput{Name: req.Name, InitialBalance: req.InitialBalance})
	if err != nil {
		return apierror.FromLedger(err)
	}
	return c.Status(http.StatusCreated).JSON(h.accountResponse(acct))
}

// Get returns the account state.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}
	acct, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apierror.FromLedger(err)
	}
	return c.Status(http.StatusOK).JSON(h.accountResponse(acct))
}

// Balance returns the account balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}
	balance, err := h.service.Balance(c.UserContext(), id)
	if err != nil {
		return apierror.FromLedger(err)
	}
	return c.Status(http.StatusOK).JSON(h.balanceResponse(balance))
}

// Deposit credits funds to the account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	balance, err := h.service.Deposit(c.UserContext(), id, req.Amount)
	if err != nil {
		return apierror.FromLedger(err)
	}
	return c.Status(http.StatusOK).JSON(h.balanceResponse(balance))
}

func (h *Handler) accountResponse(acct ledger.Account) accountResponse {
	return accountResponse{
		ID:             acct.ID,
		Name:           acct.Name,
		Balance:        acct.Balance,
		BalanceDisplay: money.Format(acct.Balance, h.exponent),
		Sent:           acct.Sent,
		CreatedAt:      acct.CreatedAt,
	}
}

func (h *Handler) balanceResponse(b Balance) balanceResponse {
	return balanceResponse{
		AccountID:      b.AccountID,
		Balance:        b.Amount,
		BalanceDisplay: money.Format(b.Amount, h.exponent),
		Timestamp:      b.AsOf,
	}
}

func accountID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "account id must be an integer")
	}
	return id, nil
}
