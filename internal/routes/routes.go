package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/minibank/internal/accounts"
	"github.com/congo-pay/minibank/internal/config"
	"github.com/congo-pay/minibank/internal/ledger"
	"github.com/congo-pay/minibank/internal/logging"
	"github.com/congo-pay/minibank/internal/middleware"
	"github.com/congo-pay/minibank/internal/notification"
	"github.com/congo-pay/minibank/internal/payments"
)

const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// are optional.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(ctx context.Context, app *fiber.App, d Deps) error {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}

	ledgerBackend, backend, err := newLedger(ctx, d.DB)
	if err != nil {
		return err
	}
	d.Logger.Info("ledger backend selected", slog.String("backend", backend))

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d, backend)

	notifier := notification.NewLoggerNotifier(d.Logger)
	accountSvc := accounts.NewService(ledgerBackend, notifier, d.Logger)
	paymentSvc := payments.NewService(ledgerBackend, notifier, d.Logger, d.Cfg.TopSendersMax)
	accountHandler := accounts.NewHandler(accountSvc, d.Cfg.CurrencyExponent)
	paymentHandler := payments.NewHandler(paymentSvc, d.Cfg.CurrencyExponent)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	protected := api.Group("")
	if d.Cfg.APIKeyHash != "" {
		protected.Use(middleware.APIKey([]byte(d.Cfg.APIKeyHash)))
	}
	if d.Cache != nil {
		protected.Use(middleware.RateLimit(d.Cache, d.Cfg.RateLimit))
		protected.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterAccountRoutes(protected, accountHandler)
	RegisterPaymentRoutes(protected, paymentHandler)

	return nil
}

func newLedger(ctx context.Context, db *pgxpool.Pool) (ledger.Ledger, string, error) {
	if db == nil {
		return ledger.NewInMemory(), backendMemory, nil
	}
	pg := ledger.NewPostgresLedger(db)
	if err := pg.Migrate(ctx); err != nil {
		return nil, "", fmt.Errorf("migrate ledger: %w", err)
	}
	return pg, backendPostgres, nil
}
