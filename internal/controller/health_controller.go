package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger checks one backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthController interface {
	Health(c *fiber.Ctx) error
	Ready(c *fiber.Ctx) error
}

type healthController struct {
	deps    map[string]Pinger
	timeout time.Duration
	log     *zap.Logger
}

// NewHealthController builds liveness and readiness handlers over deps.
func NewHealthController(deps map[string]Pinger, timeout time.Duration, log *zap.Logger) HealthController {
	return &healthController{deps: deps, timeout: timeout, log: log}
}

func (h *healthController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready pings every dependency and answers 503 if any fails.
func (h *healthController) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	status := fiber.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.log.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "unavailable"
			status = fiber.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != fiber.StatusOK {
		state = "not ready"
	}
	return c.Status(status).JSON(fiber.Map{"status": state, "checks": checks})
}
