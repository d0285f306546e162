package payments

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/minibank/internal/apierror"
	"github.com/congo-pay/minibank/internal/money"
)

const defaultTopN = 10

// Handler exposes payment endpoints.
type Handler struct {
	service  *Service
	exponent int32
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service, exponent int32) *Handler {
	return &Handler{service: service, exponent: exponent}
}

type transferRequest struct {
	FromAccountID int64 `json:"from_account_id"`
	ToAccountID   int64 `json:"to_account_id"`
	Amount        int64 `json:"amount"`
}

type transferResponse struct {
	TransferID    string    `json:"transfer_id"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	FromBalance   int64     `json:"from_balance"`
	ToBalance     int64     `json:"to_balance"`
	CompletedAt   time.Time `json:"completed_at"`
}

type senderResponse struct {
	Rank        int    `json:"rank"`
	AccountID   int64  `json:"account_id"`
	Sent        int64  `json:"sent"`
	SentDisplay string `json:"sent_display"`
}

// Transfer processes an account-to-account transfer.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		return apierror.FromLedger(err)
	}

	return c.Status(http.StatusCreated).JSON(transferResponse{
		TransferID:    res.TransferID,
		Amount:        req.Amount,
		AmountDisplay: money.Format(req.Amount, h.exponent),
		FromBalance:   res.FromBalance,
		ToBalance:     res.ToBalance,
		CompletedAt:   res.CompletedAt,
	})
}

// TopSenders lists the accounts that sent the most money.
func (h *Handler) TopSenders(c *fiber.Ctx) error {
	n, err := topN(c)
	if err != nil {
		return err
	}
	senders, err := h.service.TopSenders(c.UserContext(), n)
	if err != nil {
		return apierror.FromLedger(err)
	}

	out := make([]senderResponse, 0, len(senders))
	for i, s := range senders {
		out = append(out, senderResponse{
			Rank:        i + 1,
			AccountID:   s.AccountID,
			Sent:        s.Sent,
			SentDisplay: money.Format(s.Sent, h.exponent),
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"senders": out})
}

func topN(c *fiber.Ctx) (int, error) {
	raw := c.Query("n")
	if raw == "" {
		return defaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "n must be an integer")
	}
	return n, nil
}
