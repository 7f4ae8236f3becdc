package mockadminsync

import (
	"context"
	"encoding/json"
	"time"

	"eduexpress-backend/internal/adminsync"
	"eduexpress-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type Fetcher struct {
	mock.Mock
}

var _ adminsync.Fetcher = &Fetcher{}

func (m *Fetcher) FetchList(ctx context.Context, collection string, updatedSince time.Time) ([]json.RawMessage, error) {
	args := m.Called(ctx, collection, updatedSince)
	items, _ := args.Get(0).([]json.RawMessage)
	return items, args.Error(1)
}

func (m *Fetcher) FetchStatus(ctx context.Context, collection string, since time.Time) (model.SyncStatus, error) {
	args := m.Called(ctx, collection, since)
	return args.Get(0).(model.SyncStatus), args.Error(1)
}
