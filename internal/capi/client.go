// Package capi delivers canonical events to the Meta Conversions API.
package capi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"eduexpress-backend/internal/config"
	"eduexpress-backend/internal/model"

	"go.uber.org/zap"
)

const maxResponseBody = 64 << 10

// Client delivers a single event. Delivery problems are reported in the result, never as errors.
type Client interface {
	Send(ctx context.Context, event model.CanonicalEvent) model.DeliveryResult
	Enabled() bool
}

// New returns a Conversions API client, or a no-op client when the pixel id
// or access token is missing.
func New(cfg config.MetaConfig, log *zap.Logger) Client {
	if !cfg.Enabled() {
		log.Warn("conversions api disabled: pixel id or access token not configured")
		return &noopClient{log: log}
	}
	return NewWithHTTPClient(cfg, &http.Client{}, log)
}

// NewWithHTTPClient returns a client that sends through hc.
func NewWithHTTPClient(cfg config.MetaConfig, hc *http.Client, log *zap.Logger) Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &client{cfg: cfg, http: hc, log: log}
}

type noopClient struct {
	log *zap.Logger
}

func (n *noopClient) Send(_ context.Context, event model.CanonicalEvent) model.DeliveryResult {
	n.log.Debug("conversion delivery skipped",
		zap.String("event_id", event.EventID),
		zap.String("event_name", string(event.EventName)))
	return model.DeliveryResult{
		Status:    model.DeliverySkipped,
		EventID:   event.EventID,
		EventName: event.EventName,
	}
}

func (n *noopClient) Enabled() bool { return false }

type client struct {
	cfg  config.MetaConfig
	http *http.Client
	log  *zap.Logger
}

func (c *client) Enabled() bool { return true }

type eventPayload struct {
	EventName      string         `json:"event_name"`
	EventTime      int64          `json:"event_time"`
	EventID        string         `json:"event_id,omitempty"`
	EventSourceURL string         `json:"event_source_url,omitempty"`
	ActionSource   string         `json:"action_source"`
	UserData       HashedUserData `json:"user_data"`
	CustomData     map[string]any `json:"custom_data,omitempty"`
}

type requestPayload struct {
	Data          []eventPayload `json:"data"`
	TestEventCode string         `json:"test_event_code,omitempty"`
}

type successResponse struct {
	EventsReceived int    `json:"events_received"`
	FBTraceID      string `json:"fbtrace_id"`
}

type errorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// BuildPayload renders the request body for one event, hashing its user data.
func BuildPayload(event model.CanonicalEvent, testEventCode string) ([]byte, error) {
	action := event.ActionSource
	if action == "" {
		action = model.ActionWebsite
	}
	return json.Marshal(requestPayload{
		Data: []eventPayload{{
			EventName:      string(event.EventName),
			EventTime:      event.EventTime,
			EventID:        event.EventID,
			EventSourceURL: event.SourceURL,
			ActionSource:   string(action),
			UserData:       HashUserData(event.UserData),
			CustomData:     customData(event.CustomData),
		}},
		TestEventCode: testEventCode,
	})
}

func customData(cd model.CustomData) map[string]any {
	out := make(map[string]any, len(cd.Extra)+5)
	for k, v := range cd.Extra {
		out[k] = v
	}
	if cd.ContentName != "" {
		out["content_name"] = cd.ContentName
	}
	if cd.ContentCategory != "" {
		out["content_category"] = cd.ContentCategory
	}
	if len(cd.ContentIDs) > 0 {
		out["content_ids"] = cd.ContentIDs
	}
	if cd.Currency != "" {
		out["currency"] = cd.Currency
		out["value"] = cd.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (c *client) endpoint() string {
	q := url.Values{}
	q.Set("access_token", c.cfg.AccessToken)
	return fmt.Sprintf("%s/%s/%s/events?%s", c.cfg.GraphURL, c.cfg.APIVersion, url.PathEscape(c.cfg.PixelID), q.Encode())
}

// Send posts the event, retrying network errors, 429 and 5xx responses with
// doubling backoff until MaxAttempts or the Timeout deadline is reached.
func (c *client) Send(ctx context.Context, event model.CanonicalEvent) model.DeliveryResult {
	start := time.Now()
	res := model.DeliveryResult{
		Status:    model.DeliveryFailed,
		EventID:   event.EventID,
		EventName: event.EventName,
	}

	body, err := BuildPayload(event, c.cfg.TestEventCode)
	if err != nil {
		res.Error = fmt.Sprintf("encode payload: %v", err)
		return c.finish(res, start)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	backoff := c.cfg.RetryBackoff
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		res.Attempts = attempt
		retry := c.attempt(ctx, body, &res)
		if res.Status == model.DeliverySent || !retry || attempt == c.cfg.MaxAttempts {
			break
		}

		c.log.Warn("conversion delivery attempt failed",
			zap.String("event_id", event.EventID),
			zap.Int("attempt", attempt),
			zap.Int("status", res.StatusCode),
			zap.String("error", res.Error))

		if err := sleep(ctx, backoff); err != nil {
			res.Error = fmt.Sprintf("%s; gave up: %v", res.Error, err)
			break
		}
		backoff *= 2
	}

	return c.finish(res, start)
}

// attempt performs one POST and reports whether a failure is worth retrying.
func (c *client) attempt(ctx context.Context, body []byte, res *model.DeliveryResult) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		res.Error = redact(err).Error()
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		res.StatusCode = 0
		res.Error = redact(err).Error()
		return ctx.Err() == nil
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	res.StatusCode = resp.StatusCode

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var ok successResponse
		if err := json.Unmarshal(raw, &ok); err == nil {
			res.EventsReceived = ok.EventsReceived
			res.TraceID = ok.FBTraceID
		}
		res.Status = model.DeliverySent
		res.Error = ""
		return false
	}

	var apiErr errorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		res.Error = apiErr.Error.Message
		res.TraceID = apiErr.Error.FBTraceID
	} else {
		res.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

func (c *client) finish(res model.DeliveryResult, start time.Time) model.DeliveryResult {
	res.Duration = time.Since(start)
	fields := []zap.Field{
		zap.String("event_id", res.EventID),
		zap.String("event_name", string(res.EventName)),
		zap.String("status", string(res.Status)),
		zap.Int("attempts", res.Attempts),
		zap.Int("http_status", res.StatusCode),
		zap.String("fbtrace_id", res.TraceID),
		zap.Duration("duration", res.Duration),
	}
	if res.OK() {
		c.log.Info("conversion delivered", append(fields, zap.Int("events_received", res.EventsReceived))...)
	} else {
		c.log.Error("conversion delivery failed", append(fields, zap.String("error", res.Error))...)
	}
	return res
}

// redact strips the request URL, which carries the access token, from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
