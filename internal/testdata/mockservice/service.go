package mockservice

import (
	"context"
	"time"

	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type LeadService struct {
	mock.Mock
}

var _ service.LeadService = &LeadService{}

func (m *LeadService) CreateLead(ctx context.Context, req model.LeadRequest, rc model.RequestContext) (service.CreateResult[model.Lead], error) {
	args := m.Called(ctx, req, rc)
	return args.Get(0).(service.CreateResult[model.Lead]), args.Error(1)
}

func (m *LeadService) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	args := m.Called(ctx, id)
	lead, _ := args.Get(0).(*model.Lead)
	return lead, args.Error(1)
}

func (m *LeadService) ListLeads(ctx context.Context, q model.ListQuery) (model.Page[model.Lead], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.Lead]), args.Error(1)
}

func (m *LeadService) UpdateLead(ctx context.Context, id string, upd model.LeadUpdate) (*model.Lead, error) {
	args := m.Called(ctx, id, upd)
	lead, _ := args.Get(0).(*model.Lead)
	return lead, args.Error(1)
}

func (m *LeadService) DeleteLead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *LeadService) CreateB2BLead(ctx context.Context, req model.B2BLeadRequest, rc model.RequestContext) (service.CreateResult[model.B2BLead], error) {
	args := m.Called(ctx, req, rc)
	return args.Get(0).(service.CreateResult[model.B2BLead]), args.Error(1)
}

func (m *LeadService) GetB2BLead(ctx context.Context, id string) (*model.B2BLead, error) {
	args := m.Called(ctx, id)
	lead, _ := args.Get(0).(*model.B2BLead)
	return lead, args.Error(1)
}

func (m *LeadService) ListB2BLeads(ctx context.Context, q model.ListQuery) (model.Page[model.B2BLead], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.B2BLead]), args.Error(1)
}

func (m *LeadService) UpdateB2BLead(ctx context.Context, id string, upd model.B2BLeadUpdate) (*model.B2BLead, error) {
	args := m.Called(ctx, id, upd)
	lead, _ := args.Get(0).(*model.B2BLead)
	return lead, args.Error(1)
}

func (m *LeadService) DeleteB2BLead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type TrackingService struct {
	mock.Mock
}

var _ service.TrackingService = &TrackingService{}

func (m *TrackingService) Track(ctx context.Context, req model.TrackRequest, rc model.RequestContext) (model.DeliveryResult, error) {
	args := m.Called(ctx, req, rc)
	return args.Get(0).(model.DeliveryResult), args.Error(1)
}

func (m *TrackingService) PublicConfig() service.TrackingConfig {
	return m.Called().Get(0).(service.TrackingConfig)
}

type AnalyticsService struct {
	mock.Mock
}

var _ service.AnalyticsService = &AnalyticsService{}

func (m *AnalyticsService) ResolveWindow(from, to time.Time) (model.Window, error) {
	args := m.Called(from, to)
	return args.Get(0).(model.Window), args.Error(1)
}

func (m *AnalyticsService) Dashboard(ctx context.Context, collection string, w model.Window) (model.Dashboard, error) {
	args := m.Called(ctx, collection, w)
	return args.Get(0).(model.Dashboard), args.Error(1)
}

func (m *AnalyticsService) Campaigns(ctx context.Context, collection string, w model.Window) ([]model.CampaignStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.CampaignStat)
	return stats, args.Error(1)
}

func (m *AnalyticsService) Sources(ctx context.Context, collection string, w model.Window) ([]model.SourceStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.SourceStat)
	return stats, args.Error(1)
}

func (m *AnalyticsService) Devices(ctx context.Context, collection string, w model.Window) ([]model.DeviceStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.DeviceStat)
	return stats, args.Error(1)
}

func (m *AnalyticsService) Funnel(ctx context.Context, collection string, w model.Window) ([]model.FunnelStat, error) {
	args := m.Called(ctx, collection, w)
	stats, _ := args.Get(0).([]model.FunnelStat)
	return stats, args.Error(1)
}

func (m *AnalyticsService) DeliveryStats(ctx context.Context, w model.Window) ([]model.DeliveryStat, error) {
	args := m.Called(ctx, w)
	stats, _ := args.Get(0).([]model.DeliveryStat)
	return stats, args.Error(1)
}

type ContentService[T any] struct {
	mock.Mock
}

var _ service.ContentService[model.University] = &ContentService[model.University]{}

func (m *ContentService[T]) Create(ctx context.Context, doc *T) (*T, error) {
	args := m.Called(ctx, doc)
	out, _ := args.Get(0).(*T)
	return out, args.Error(1)
}

func (m *ContentService[T]) Get(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*T)
	return out, args.Error(1)
}

func (m *ContentService[T]) List(ctx context.Context, q model.ListQuery) (model.Page[T], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[T]), args.Error(1)
}

func (m *ContentService[T]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	args := m.Called(ctx, id, doc)
	out, _ := args.Get(0).(*T)
	return out, args.Error(1)
}

func (m *ContentService[T]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ContentService[T]) Published(ctx context.Context, q model.ListQuery) (service.PublicList[T], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(service.PublicList[T]), args.Error(1)
}

func (m *ContentService[T]) PublishedBySlug(ctx context.Context, slug string) (*T, bool, error) {
	args := m.Called(ctx, slug)
	out, _ := args.Get(0).(*T)
	return out, args.Bool(1), args.Error(2)
}

type SyncService struct {
	mock.Mock
}

var _ service.SyncService = &SyncService{}

func (m *SyncService) Status(ctx context.Context, collection string, since int64) (model.SyncStatus, error) {
	args := m.Called(ctx, collection, since)
	return args.Get(0).(model.SyncStatus), args.Error(1)
}

func (m *SyncService) Collections() []string {
	return m.Called().Get(0).([]string)
}
