package controller

import (
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/repository"
	"eduexpress-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContentController interface {
	Create(c *fiber.Ctx) error
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error

	PublicList(c *fiber.Ctx) error
	PublicBySlug(c *fiber.Ctx) error
}

type contentController[T any, P repository.Record[T]] struct {
	contentService service.ContentService[T]
	resource       string
	filters        []string
}

// NewContentController builds CRUD and public handlers for one content type.
// filters are the query keys accepted as equality filters on admin lists.
func NewContentController[T any, P repository.Record[T]](svc service.ContentService[T], resource string, filters ...string) ContentController {
	return &contentController[T, P]{contentService: svc, resource: resource, filters: filters}
}

func (h *contentController[T, P]) Create(c *fiber.Ctx) error {
	doc, err := h.body(c)
	if err != nil {
		return err
	}
	created, err := h.contentService.Create(c.UserContext(), doc)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, created, h.resource+" created")
}

func (h *contentController[T, P]) List(c *fiber.Ctx) error {
	q, err := listQuery(c, h.filters...)
	if err != nil {
		return err
	}
	page, err := h.contentService.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return okPage(c, page, false)
}

func (h *contentController[T, P]) Get(c *fiber.Ctx) error {
	doc, err := h.contentService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, doc, "")
}

func (h *contentController[T, P]) Update(c *fiber.Ctx) error {
	doc, err := h.body(c)
	if err != nil {
		return err
	}
	updated, err := h.contentService.Update(c.UserContext(), c.Params("id"), doc)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, updated, h.resource+" updated")
}

func (h *contentController[T, P]) Delete(c *fiber.Ctx) error {
	if err := h.contentService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, nil, h.resource+" deleted")
}

// PublicList serves published items; meta.fallback marks bundled data.
func (h *contentController[T, P]) PublicList(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	list, err := h.contentService.Published(c.UserContext(), q)
	if err != nil {
		return err
	}
	return okPage(c, list.Page, list.Fallback)
}

func (h *contentController[T, P]) PublicBySlug(c *fiber.Ctx) error {
	doc, fallback, err := h.contentService.PublishedBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	env := Envelope{Success: true, Data: doc}
	if fallback {
		env.Meta = fiber.Map{"fallback": true}
	}
	return c.JSON(env)
}

// body decodes a document; identity and timestamps are owned by the store.
func (h *contentController[T, P]) body(c *fiber.Ctx) (*T, error) {
	doc := new(T)
	if err := c.BodyParser(doc); err != nil {
		return nil, invalidBody()
	}
	*P(doc).Base() = model.Document{}
	return doc, nil
}
