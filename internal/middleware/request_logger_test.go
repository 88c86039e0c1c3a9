package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(RequestLogger(logger))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
	entry := hook.LastEntry()
	if entry.Level != logrus.InfoLevel || entry.Data["status_code"] != 200 || entry.Data["uri"] != "/ok" {
		t.Fatalf("entry = %+v", entry)
	}

	if _, err := app.Test(httptest.NewRequest("GET", "/missing", nil)); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("level = %v, want warn", hook.LastEntry().Level)
	}
}
