package service

import (
	"context"
	"sort"
	"time"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/model"
)

// SyncSource reports change counts for one collection.
type SyncSource interface {
	SyncStats(ctx context.Context, since time.Time) (model.SyncStatus, error)
}

type SyncService interface {
	// Status reports how many records changed after since (unix milliseconds, 0 for never).
	Status(ctx context.Context, collection string, since int64) (model.SyncStatus, error)
	Collections() []string
}

type syncService struct {
	sources map[string]SyncSource
}

// NewSyncService constructs a syncService over the given collections.
func NewSyncService(sources map[string]SyncSource) SyncService {
	return &syncService{sources: sources}
}

func (s *syncService) Status(ctx context.Context, collection string, since int64) (model.SyncStatus, error) {
	src, ok := s.sources[collection]
	if !ok {
		return model.SyncStatus{}, &apperror.NotFoundError{Resource: "collection", ID: collection}
	}
	if since < 0 {
		return model.SyncStatus{}, apperror.NewValidation("since must not be negative")
	}

	var ts time.Time
	if since > 0 {
		ts = time.UnixMilli(since).UTC()
	}
	return src.SyncStats(ctx, ts)
}

func (s *syncService) Collections() []string {
	out := make([]string, 0, len(s.sources))
	for name := range s.sources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
