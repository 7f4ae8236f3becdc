package controller

import (
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	leadCreatedMessage    = "Thank you! We will contact you shortly."
	b2bLeadCreatedMessage = "Thank you for your interest in partnering with us."
)

type LeadController interface {
	CreateLead(c *fiber.Ctx) error
	ListLeads(c *fiber.Ctx) error
	GetLead(c *fiber.Ctx) error
	UpdateLead(c *fiber.Ctx) error
	DeleteLead(c *fiber.Ctx) error

	CreateB2BLead(c *fiber.Ctx) error
	ListB2BLeads(c *fiber.Ctx) error
	GetB2BLead(c *fiber.Ctx) error
	UpdateB2BLead(c *fiber.Ctx) error
	DeleteB2BLead(c *fiber.Ctx) error
}

type leadController struct {
	leadService service.LeadService
}

// NewLeadController builds a LeadController.
func NewLeadController(svc service.LeadService) LeadController {
	return &leadController{leadService: svc}
}

// CreateLead accepts the public student enquiry form.
func (h *leadController) CreateLead(c *fiber.Ctx) error {
	var req model.LeadRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	res, err := h.leadService.CreateLead(c.UserContext(), req, requestContext(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, res, leadCreatedMessage)
}

func (h *leadController) ListLeads(c *fiber.Ctx) error {
	q, err := listQuery(c, "status", "priority", "assignedTo", "source")
	if err != nil {
		return err
	}
	page, err := h.leadService.ListLeads(c.UserContext(), q)
	if err != nil {
		return err
	}
	return okPage(c, page, false)
}

func (h *leadController) GetLead(c *fiber.Ctx) error {
	lead, err := h.leadService.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, lead, "")
}

func (h *leadController) UpdateLead(c *fiber.Ctx) error {
	var upd model.LeadUpdate
	if err := c.BodyParser(&upd); err != nil {
		return invalidBody()
	}
	lead, err := h.leadService.UpdateLead(c.UserContext(), c.Params("id"), upd)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, lead, "lead updated")
}

func (h *leadController) DeleteLead(c *fiber.Ctx) error {
	if err := h.leadService.DeleteLead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, nil, "lead deleted")
}

// CreateB2BLead accepts the public partnership enquiry form.
func (h *leadController) CreateB2BLead(c *fiber.Ctx) error {
	var req model.B2BLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	res, err := h.leadService.CreateB2BLead(c.UserContext(), req, requestContext(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, res, b2bLeadCreatedMessage)
}

func (h *leadController) ListB2BLeads(c *fiber.Ctx) error {
	q, err := listQuery(c, "status", "priority", "industry", "partnershipType", "assignedTo")
	if err != nil {
		return err
	}
	page, err := h.leadService.ListB2BLeads(c.UserContext(), q)
	if err != nil {
		return err
	}
	return okPage(c, page, false)
}

func (h *leadController) GetB2BLead(c *fiber.Ctx) error {
	lead, err := h.leadService.GetB2BLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, lead, "")
}

func (h *leadController) UpdateB2BLead(c *fiber.Ctx) error {
	var upd model.B2BLeadUpdate
	if err := c.BodyParser(&upd); err != nil {
		return invalidBody()
	}
	lead, err := h.leadService.UpdateB2BLead(c.UserContext(), c.Params("id"), upd)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, lead, "b2b lead updated")
}

func (h *leadController) DeleteB2BLead(c *fiber.Ctx) error {
	if err := h.leadService.DeleteB2BLead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, nil, "b2b lead deleted")
}
