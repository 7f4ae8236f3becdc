package controller

import (
	"context"

	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type AnalyticsController interface {
	Dashboard(c *fiber.Ctx) error
	Campaigns(c *fiber.Ctx) error
	Sources(c *fiber.Ctx) error
	Devices(c *fiber.Ctx) error
	Funnel(c *fiber.Ctx) error
	Deliveries(c *fiber.Ctx) error
}

// AnalyticsMeta echoes the resolved query back to the caller.
type AnalyticsMeta struct {
	Collection string              `json:"collection,omitempty"`
	Period     model.MetricsPeriod `json:"period"`
	GroupBy    string              `json:"groupBy,omitempty"`
}

type analyticsController struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsController builds an AnalyticsController.
func NewAnalyticsController(svc service.AnalyticsService) AnalyticsController {
	return &analyticsController{analyticsService: svc}
}

func (h *analyticsController) Dashboard(c *fiber.Ctx) error {
	collection, w, err := h.params(c)
	if err != nil {
		return err
	}
	d, err := h.analyticsService.Dashboard(c.UserContext(), collection, w)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, d, "")
}

func (h *analyticsController) Campaigns(c *fiber.Ctx) error {
	return grouped(c, h, model.GroupCampaign, h.analyticsService.Campaigns)
}

func (h *analyticsController) Sources(c *fiber.Ctx) error {
	return grouped(c, h, model.GroupSource, h.analyticsService.Sources)
}

func (h *analyticsController) Devices(c *fiber.Ctx) error {
	return grouped(c, h, model.GroupDevice, h.analyticsService.Devices)
}

func (h *analyticsController) Funnel(c *fiber.Ctx) error {
	return grouped(c, h, model.GroupFunnel, h.analyticsService.Funnel)
}

func (h *analyticsController) Deliveries(c *fiber.Ctx) error {
	w, err := h.window(c)
	if err != nil {
		return err
	}
	stats, err := h.analyticsService.DeliveryStats(c.UserContext(), w)
	if err != nil {
		return err
	}
	return c.JSON(Envelope{Success: true, Data: stats, Meta: AnalyticsMeta{Period: model.NewMetricsPeriod(w)}})
}

func grouped[T any](c *fiber.Ctx, h *analyticsController, groupBy string,
	fetch func(ctx context.Context, collection string, w model.Window) ([]T, error)) error {
	collection, w, err := h.params(c)
	if err != nil {
		return err
	}
	stats, err := fetch(c.UserContext(), collection, w)
	if err != nil {
		return err
	}
	return c.JSON(Envelope{
		Success: true,
		Data:    stats,
		Meta:    AnalyticsMeta{Collection: collection, Period: model.NewMetricsPeriod(w), GroupBy: groupBy},
	})
}

func (h *analyticsController) params(c *fiber.Ctx) (string, model.Window, error) {
	collection := utils.CopyString(utils.Trim(c.Query("collection", model.CollectionLeads), ' '))
	w, err := h.window(c)
	return collection, w, err
}

func (h *analyticsController) window(c *fiber.Ctx) (model.Window, error) {
	from, err := unixQuery(c, "from")
	if err != nil {
		return model.Window{}, err
	}
	to, err := unixQuery(c, "to")
	if err != nil {
		return model.Window{}, err
	}
	return h.analyticsService.ResolveWindow(from, to)
}
