package controller

import (
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TrackingController interface {
	Track(c *fiber.Ctx) error
	Config(c *fiber.Ctx) error
}

type trackingController struct {
	trackingService service.TrackingService
}

// NewTrackingController builds a TrackingController.
func NewTrackingController(svc service.TrackingService) TrackingController {
	return &trackingController{trackingService: svc}
}

// Track forwards a browser event. Delivery problems are reported in the body, not the status.
func (h *trackingController) Track(c *fiber.Ctx) error {
	var req model.TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	res, err := h.trackingService.Track(c.UserContext(), req, requestContext(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusAccepted, res, "")
}

func (h *trackingController) Config(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return ok(c, fiber.StatusOK, h.trackingService.PublicConfig(), "")
}
