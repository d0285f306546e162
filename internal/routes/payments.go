package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/minibank/internal/payments"
)

// RegisterPaymentRoutes wires transfer and ranking endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	r.Post("/transfers", h.Transfer)
	r.Get("/senders/top", h.TopSenders)
}
