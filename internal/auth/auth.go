// Package auth guards the admin API with static bearer tokens.
package auth

import (
	"crypto/subtle"
	"strings"

	"eduexpress-backend/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// Bearer accepts requests whose Authorization header carries one of tokens.
// With no tokens configured every request is rejected.
func Bearer(tokens []string) fiber.Handler {
	allowed := make([][]byte, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			allowed = append(allowed, []byte(t))
		}
	}

	return func(c *fiber.Ctx) error {
		token := TokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" || !matches(allowed, []byte(token)) {
			return &apperror.UnauthorizedError{}
		}
		return c.Next()
	}
}

// TokenFromHeader extracts the token from an Authorization header value.
func TokenFromHeader(header string) string {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

func matches(allowed [][]byte, token []byte) bool {
	found := 0
	for _, a := range allowed {
		found |= subtle.ConstantTimeCompare(a, token)
	}
	return found == 1
}
