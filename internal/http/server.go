package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/auth"
	"eduexpress-backend/internal/config"
	"eduexpress-backend/internal/controller"
	"eduexpress-backend/internal/routes"
)

// Server wraps the Fiber application setup.
type Server struct {
	app *fiber.App
	log *zap.Logger
}

// NewServer configures routes and middleware.
func NewServer(appCfg *config.Config, ctrl routes.Controllers, log *zap.Logger) *Server {
	fiberCfg := fiber.Config{
		DisableStartupMessage: true,
		Prefork:               appCfg.FiberPrefork,
		ErrorHandler:          controller.ErrorHandler(log),
		BodyLimit:             1 << 20,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          15 * time.Second,
	}
	app := fiber.New(fiberCfg)
	app.Use(recover.New())
	app.Use(requestLogger(log))

	if len(appCfg.AdminTokens) == 0 {
		log.Warn("ADMIN_API_TOKENS is empty, admin API will reject every request")
	}
	routes.Register(app, ctrl, auth.Bearer(appCfg.AdminTokens))

	return &Server{app: app, log: log}
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen runs the server on provided addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			status = fe.Code
		case err != nil:
			status = apperror.StatusCode(err)
		}
		log.Debug("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}
