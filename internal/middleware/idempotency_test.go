package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/minibank/internal/logging"
)

type idempotencyFixture struct {
	app   *fiber.App
	mr    *miniredis.Miniredis
	calls int
}

func setupIdempotencyApp(t *testing.T) *idempotencyFixture {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	f := &idempotencyFixture{app: fiber.New(), mr: mr}
	f.app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	f.app.Post("/transfers", func(c *fiber.Ctx) error {
		f.calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": f.calls})
	})
	f.app.Post("/deposits", func(c *fiber.Ctx) error {
		f.calls++
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"call": f.calls})
	})
	f.app.Post("/fails", func(c *fiber.Ctx) error {
		f.calls++
		return fiber.NewError(fiber.StatusBadRequest, "insufficient funds")
	})
	f.app.Get("/read", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return f
}

func (f *idempotencyFixture) do(t *testing.T, method, path, key string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, string(body)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	f := setupIdempotencyApp(t)

	resp, _ := f.do(t, fiber.MethodPost, "/transfers", "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
	if f.calls != 0 {
		t.Fatalf("handler must not run without a key")
	}
}

func TestIdempotencySkipsSafeMethods(t *testing.T) {
	f := setupIdempotencyApp(t)

	resp, body := f.do(t, fiber.MethodGet, "/read", "")
	if resp.StatusCode != fiber.StatusOK || body != "ok" {
		t.Fatalf("expected plain GET to pass through, got %d %q", resp.StatusCode, body)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	f := setupIdempotencyApp(t)

	resp, first := f.do(t, fiber.MethodPost, "/transfers", "abc123")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected status %d got %d", fiber.StatusCreated, resp.StatusCode)
	}

	resp2, second := f.do(t, fiber.MethodPost, "/transfers", "abc123")
	if resp2.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected cached status %d got %d", fiber.StatusCreated, resp2.StatusCode)
	}
	if second != first {
		t.Fatalf("expected cached payload %s got %s", first, second)
	}
	if resp2.Header.Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay marker header")
	}
	if f.calls != 1 {
		t.Fatalf("handler should run once, ran %d times", f.calls)
	}
}

func TestIdempotencyKeyIsScopedToRoute(t *testing.T) {
	f := setupIdempotencyApp(t)

	f.do(t, fiber.MethodPost, "/transfers", "shared")
	resp, _ := f.do(t, fiber.MethodPost, "/deposits", "shared")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected deposit handler to run, got %d", resp.StatusCode)
	}
	if f.calls != 2 {
		t.Fatalf("expected both handlers to run, got %d calls", f.calls)
	}
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	f := setupIdempotencyApp(t)

	for i := 0; i < 2; i++ {
		resp, _ := f.do(t, fiber.MethodPost, "/fails", "retry-me")
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("expected %d got %d", fiber.StatusBadRequest, resp.StatusCode)
		}
	}
	if f.calls != 2 {
		t.Fatalf("failed requests should be retryable, got %d calls", f.calls)
	}
}

func TestIdempotencyConflictWhileInProgress(t *testing.T) {
	f := setupIdempotencyApp(t)

	if err := f.mr.Set(idempotencyPrefix+"POST:/transfers:busy", inProgressMarker); err != nil {
		t.Fatalf("seed marker: %v", err)
	}
	resp, _ := f.do(t, fiber.MethodPost, "/transfers", "busy")
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected %d got %d", fiber.StatusConflict, resp.StatusCode)
	}
	if f.calls != 0 {
		t.Fatalf("handler must not run while the key is in progress")
	}
}
