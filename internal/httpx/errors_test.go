package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error keeps its code", fiber.NewError(fiber.StatusBadRequest, "плохо"), fiber.StatusBadRequest},
		{"record not found", gorm.ErrRecordNotFound, fiber.StatusNotFound},
		{"wrapped duplicate", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), fiber.StatusConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, fiber.StatusConflict},
		{"anything else", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Use(RequestID())
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == "" {
				t.Fatalf("expected error message, got %v", body)
			}
			if resp.Header.Get(fiber.HeaderXRequestID) == "" {
				t.Fatal("expected X-Request-ID header")
			}
		})
	}
}
