package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduexpress-backend/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(tokens []string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var ue *apperror.UnauthorizedError
			if errors.As(err, &ue) {
				return c.SendStatus(http.StatusUnauthorized)
			}
			return c.SendStatus(http.StatusInternalServerError)
		},
	})
	app.Use(Bearer(tokens))
	app.Get("/admin", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	return app
}

func TestBearer(t *testing.T) {
	app := newApp([]string{"alpha", " beta "})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic alpha", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer gamma", want: http.StatusUnauthorized},
		{name: "prefix of a token", header: "Bearer alph", want: http.StatusUnauthorized},
		{name: "first token", header: "Bearer alpha", want: http.StatusNoContent},
		{name: "trimmed token", header: "Bearer beta", want: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer alpha", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestBearer_NoTokensDeniesAll(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer ")
	resp, err := newApp(nil).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
