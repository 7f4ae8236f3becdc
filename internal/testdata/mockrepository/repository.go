package mockrepository

import (
	"context"
	"time"

	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is a generic mock over one collection.
type Store[T any] struct {
	mock.Mock
}

// Interface compliance check
var (
	_ repository.Store[model.Lead]    = &Store[model.Lead]{}
	_ repository.Store[model.B2BLead] = &Store[model.B2BLead]{}
)

func (m *Store[T]) Insert(ctx context.Context, doc *T) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *Store[T]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	args := m.Called(ctx, id, fields)
	doc, _ := args.Get(0).(*T)
	return doc, args.Error(1)
}

func (m *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*T)
	return doc, args.Error(1)
}

func (m *Store[T]) FindOne(ctx context.Context, filter map[string]any) (*T, error) {
	args := m.Called(ctx, filter)
	doc, _ := args.Get(0).(*T)
	return doc, args.Error(1)
}

func (m *Store[T]) Find(ctx context.Context, q model.ListQuery) (model.Page[T], error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(model.Page[T])
	return page, args.Error(1)
}

func (m *Store[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	args := m.Called(ctx, pipeline, out)
	return args.Error(0)
}

func (m *Store[T]) SyncStats(ctx context.Context, since time.Time) (model.SyncStatus, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(model.SyncStatus), args.Error(1)
}

// DeliveryRepository mocks the ClickHouse delivery log.
type DeliveryRepository struct {
	mock.Mock
}

var _ repository.DeliveryRepository = &DeliveryRepository{}

func (m *DeliveryRepository) CreateBatch(ctx context.Context, records []model.DeliveryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *DeliveryRepository) FetchDeliveryStats(ctx context.Context, window model.Window) ([]model.DeliveryStat, error) {
	args := m.Called(ctx, window)
	stats, _ := args.Get(0).([]model.DeliveryStat)
	return stats, args.Error(1)
}

// AnalyticsRepository mocks the aggregation queries.
type AnalyticsRepository struct {
	mock.Mock
}

var _ repository.AnalyticsRepository = &AnalyticsRepository{}

func (m *AnalyticsRepository) Count(ctx context.Context, collection string, w model.Window) (int64, error) {
	args := m.Called(ctx, collection, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AnalyticsRepository) ByStatus(ctx context.Context, collection string, w model.Window) ([]model.StatusStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.StatusStat)
	return stats, args.Error(1)
}

func (m *AnalyticsRepository) Campaigns(ctx context.Context, collection string, w model.Window) ([]model.CampaignStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.CampaignStat)
	return stats, args.Error(1)
}

func (m *AnalyticsRepository) Sources(ctx context.Context, collection string, w model.Window) ([]model.SourceStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.SourceStat)
	return stats, args.Error(1)
}

func (m *AnalyticsRepository) Devices(ctx context.Context, collection string, w model.Window) ([]model.DeviceStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.DeviceStat)
	return stats, args.Error(1)
}

func (m *AnalyticsRepository) Funnel(ctx context.Context, collection string, w model.Window) ([]model.FunnelStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.FunnelStat)
	return stats, args.Error(1)
}

func (m *AnalyticsRepository) Industries(ctx context.Context, w model.Window) ([]model.IndustryStat, error) {
	args := m.Called(ctx, w)
	stats, _ := args.Get(0).([]model.IndustryStat)
	return stats, args.Error(1)
}
