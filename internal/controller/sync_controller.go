package controller

import (
	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SyncController interface {
	Status(c *fiber.Ctx) error
	Collections(c *fiber.Ctx) error
}

type syncController struct {
	syncService service.SyncService
}

// NewSyncController builds a SyncController.
func NewSyncController(svc service.SyncService) SyncController {
	return &syncController{syncService: svc}
}

// Status reports how far a client copy of a collection lags. since is unix milliseconds.
func (h *syncController) Status(c *fiber.Ctx) error {
	since, err := int64Query(c, "since")
	if err != nil {
		return apperror.NewValidation("invalid since timestamp")
	}
	status, err := h.syncService.Status(c.UserContext(), c.Params("collection"), since)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, status, "")
}

func (h *syncController) Collections(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, h.syncService.Collections(), "")
}
