package controller

import (
	"strconv"
	"strings"
	"time"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Meta    any               `json:"meta,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// PageMeta describes a paginated list.
type PageMeta struct {
	Total    int64 `json:"total"`
	Limit    int64 `json:"limit"`
	Offset   int64 `json:"offset"`
	Fallback bool  `json:"fallback,omitempty"`
}

func ok(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data, Message: message})
}

func okPage[T any](c *fiber.Ctx, page model.Page[T], fallback bool) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Data:    page.Items,
		Meta:    PageMeta{Total: page.Total, Limit: page.Limit, Offset: page.Offset, Fallback: fallback},
	})
}

func invalidBody() error {
	return apperror.NewValidation("invalid json payload")
}

// requestContext captures what the HTTP layer knows about the visitor.
func requestContext(c *fiber.Ctx) model.RequestContext {
	return model.RequestContext{
		PageURL:   utils.CopyString(strings.TrimSpace(c.Query("pageUrl"))),
		Referrer:  utils.CopyString(c.Get(fiber.HeaderReferer)),
		ClientIP:  utils.CopyString(clientIP(c)),
		UserAgent: utils.CopyString(c.Get(fiber.HeaderUserAgent)),
		FBC:       utils.CopyString(c.Cookies("_fbc")),
		FBP:       utils.CopyString(c.Cookies("_fbp")),
	}
}

func clientIP(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 && ips[0] != "" {
		return ips[0]
	}
	return c.IP()
}

// listQuery reads pagination, search, sort and the allowed equality filters.
func listQuery(c *fiber.Ctx, filters ...string) (model.ListQuery, error) {
	q := model.ListQuery{
		Search: utils.CopyString(utils.Trim(c.Query("search"), ' ')),
	}

	var err error
	if q.Limit, err = int64Query(c, "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = int64Query(c, "offset"); err != nil {
		return q, err
	}

	if sort := utils.Trim(c.Query("sort"), ' '); sort != "" {
		q.SortDesc = strings.HasPrefix(sort, "-")
		q.SortField = utils.CopyString(strings.TrimPrefix(sort, "-"))
	}

	for _, key := range filters {
		if v := utils.Trim(c.Query(key), ' '); v != "" {
			if q.Filter == nil {
				q.Filter = map[string]any{}
			}
			q.Filter[key] = utils.CopyString(v)
		}
	}

	if raw := utils.Trim(c.Query("updatedSince"), ' '); raw != "" {
		ms, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || ms < 0 {
			return q, apperror.NewValidation("invalid updatedSince timestamp")
		}
		since := time.UnixMilli(ms).UTC()
		q.UpdatedSince = &since
	}
	return q, nil
}

func int64Query(c *fiber.Ctx, key string) (int64, error) {
	raw := utils.Trim(c.Query(key), ' ')
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, apperror.NewValidation("invalid %s", key)
	}
	return v, nil
}

// unixQuery parses a unix-seconds timestamp query parameter.
func unixQuery(c *fiber.Ctx, key string) (time.Time, error) {
	raw := utils.Trim(c.Query(key), ' ')
	if raw == "" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid %s timestamp", key)
	}
	return time.Unix(sec, 0).UTC(), nil
}
