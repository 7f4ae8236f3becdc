package mockcapi

import (
	"context"

	"eduexpress-backend/internal/capi"
	"eduexpress-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

var _ capi.Client = &Client{}

func (m *Client) Send(ctx context.Context, event model.CanonicalEvent) model.DeliveryResult {
	args := m.Called(ctx, event)
	return args.Get(0).(model.DeliveryResult)
}

func (m *Client) Enabled() bool {
	return m.Called().Bool(0)
}
