package routes

import (
	"eduexpress-backend/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// Controllers groups every handler set the router mounts.
type Controllers struct {
	Health       controller.HealthController
	Leads        controller.LeadController
	Tracking     controller.TrackingController
	Analytics    controller.AnalyticsController
	Sync         controller.SyncController
	Universities controller.ContentController
	Updates      controller.ContentController
	Stories      controller.ContentController
	ContentPages controller.ContentController
}

// Register attaches all HTTP routes to the Fiber app. admin guards the /api/admin group.
func Register(app *fiber.App, ctrl Controllers, admin fiber.Handler) {
	app.Get("/health", ctrl.Health.Health)
	app.Get("/ready", ctrl.Health.Ready)

	api := app.Group("/api")
	api.Post("/leads", ctrl.Leads.CreateLead)
	api.Post("/b2b-leads", ctrl.Leads.CreateB2BLead)
	api.Post("/track", ctrl.Tracking.Track)
	api.Get("/tracking/config", ctrl.Tracking.Config)
	api.Get("/universities", ctrl.Universities.PublicList)
	api.Get("/universities/:slug", ctrl.Universities.PublicBySlug)
	api.Get("/updates", ctrl.Updates.PublicList)
	api.Get("/updates/:slug", ctrl.Updates.PublicBySlug)
	api.Get("/success-stories", ctrl.Stories.PublicList)
	api.Get("/pages/:slug", ctrl.ContentPages.PublicBySlug)

	adm := api.Group("/admin", admin)

	adm.Get("/leads", ctrl.Leads.ListLeads)
	adm.Get("/leads/:id", ctrl.Leads.GetLead)
	adm.Put("/leads/:id", ctrl.Leads.UpdateLead)
	adm.Patch("/leads/:id", ctrl.Leads.UpdateLead)
	adm.Delete("/leads/:id", ctrl.Leads.DeleteLead)

	adm.Get("/b2b-leads", ctrl.Leads.ListB2BLeads)
	adm.Get("/b2b-leads/:id", ctrl.Leads.GetB2BLead)
	adm.Put("/b2b-leads/:id", ctrl.Leads.UpdateB2BLead)
	adm.Patch("/b2b-leads/:id", ctrl.Leads.UpdateB2BLead)
	adm.Delete("/b2b-leads/:id", ctrl.Leads.DeleteB2BLead)

	content(adm, "/universities", ctrl.Universities)
	content(adm, "/updates", ctrl.Updates)
	content(adm, "/success-stories", ctrl.Stories)
	content(adm, "/content-pages", ctrl.ContentPages)

	analytics := adm.Group("/analytics")
	analytics.Get("/dashboard", ctrl.Analytics.Dashboard)
	analytics.Get("/campaigns", ctrl.Analytics.Campaigns)
	analytics.Get("/sources", ctrl.Analytics.Sources)
	analytics.Get("/devices", ctrl.Analytics.Devices)
	analytics.Get("/funnel", ctrl.Analytics.Funnel)
	analytics.Get("/deliveries", ctrl.Analytics.Deliveries)

	adm.Get("/sync", ctrl.Sync.Collections)
	adm.Get("/sync/:collection", ctrl.Sync.Status)
}

func content(r fiber.Router, prefix string, h controller.ContentController) {
	r.Get(prefix, h.List)
	r.Post(prefix, h.Create)
	r.Get(prefix+"/:id", h.Get)
	r.Put(prefix+"/:id", h.Update)
	r.Delete(prefix+"/:id", h.Delete)
}
