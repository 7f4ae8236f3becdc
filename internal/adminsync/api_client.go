package adminsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eduexpress-backend/internal/model"
)

// PageSize is the number of records requested per list call.
const PageSize = model.MaxPageSize

// APIError is a non-2xx answer from the admin API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("admin api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("admin api: status %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Meta    struct {
		Total  int64 `json:"total"`
		Limit  int64 `json:"limit"`
		Offset int64 `json:"offset"`
	} `json:"meta"`
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// APIClient reads admin lists and sync status over HTTP.
type APIClient struct {
	baseURL string
	token   string
	hc      *http.Client
}

var _ Fetcher = (*APIClient)(nil)

// NewAPIClient creates a client for the admin API at baseURL.
func NewAPIClient(baseURL, token string, hc *http.Client) *APIClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), token: token, hc: hc}
}

// ListPath maps a collection name to its admin route.
func ListPath(collection string) string {
	return "/api/admin/" + strings.ReplaceAll(collection, "_", "-")
}

func (c *APIClient) FetchList(ctx context.Context, collection string, updatedSince time.Time) ([]json.RawMessage, error) {
	items := []json.RawMessage{}
	for offset := int64(0); ; {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(PageSize))
		q.Set("offset", strconv.FormatInt(offset, 10))
		if !updatedSince.IsZero() {
			q.Set("updatedSince", strconv.FormatInt(updatedSince.UnixMilli(), 10))
		}

		env, err := c.get(ctx, ListPath(collection), q)
		if err != nil {
			return nil, err
		}
		var page []json.RawMessage
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return nil, fmt.Errorf("decode %s page: %w", collection, err)
		}
		items = append(items, page...)

		offset += int64(len(page))
		if len(page) == 0 || offset >= env.Meta.Total {
			return items, nil
		}
	}
}

func (c *APIClient) FetchStatus(ctx context.Context, collection string, since time.Time) (model.SyncStatus, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("since", strconv.FormatInt(since.UnixMilli(), 10))
	}
	env, err := c.get(ctx, "/api/admin/sync/"+url.PathEscape(collection), q)
	if err != nil {
		return model.SyncStatus{}, err
	}
	var status model.SyncStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		return model.SyncStatus{}, fmt.Errorf("decode sync status: %w", err)
	}
	return status, nil
}

func (c *APIClient) get(ctx context.Context, path string, q url.Values) (envelope, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return envelope{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return envelope{}, err
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return envelope{}, &APIError{StatusCode: resp.StatusCode, Message: env.message()}
	}
	if decodeErr != nil {
		return envelope{}, fmt.Errorf("decode response: %w", decodeErr)
	}
	if !env.Success {
		return envelope{}, &APIError{StatusCode: resp.StatusCode, Message: env.message()}
	}
	return env, nil
}
