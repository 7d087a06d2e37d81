package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"stroy-backend/internal/config"
	"stroy-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
)

func TestNew_MountsRoutes(t *testing.T) {
	cfg := &config.Config{
		AdminPath:   "/backoffice",
		AdminTitle:  "Тест",
		CORSOrigins: "*",
	}
	app, err := New(cfg, testutil.NewDB(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/healthz", fiber.StatusOK},
		{"/backoffice", fiber.StatusOK},
		{"/backoffice/orders", fiber.StatusOK},
		{"/backoffice/orders/1", fiber.StatusNotFound},
		{"/api/catalog", fiber.StatusOK},
		{"/admin", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil), -1)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if resp.Header.Get(fiber.HeaderXRequestID) == "" {
				t.Fatal("missing X-Request-ID")
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	app, err := New(&config.Config{AdminPath: "/admin", CORSOrigins: "*"}, testutil.NewDB(t))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}
