package service

import (
	"context"
	"sync"
	"time"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/conversion"
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/repository"

	"go.uber.org/zap"
)

// Dashboard sub-statistic keys, also used in Dashboard.Errors.
const (
	StatTotal      = "total"
	StatByStatus   = "byStatus"
	StatCampaigns  = "campaigns"
	StatSources    = "sources"
	StatDevices    = "devices"
	StatFunnel     = "funnel"
	StatIndustries = "industries"
)

type AnalyticsService interface {
	// ResolveWindow applies the default window and rejects inverted ranges.
	ResolveWindow(from, to time.Time) (model.Window, error)

	Dashboard(ctx context.Context, collection string, w model.Window) (model.Dashboard, error)
	Campaigns(ctx context.Context, collection string, w model.Window) ([]model.CampaignStat, error)
	Sources(ctx context.Context, collection string, w model.Window) ([]model.SourceStat, error)
	Devices(ctx context.Context, collection string, w model.Window) ([]model.DeviceStat, error)
	Funnel(ctx context.Context, collection string, w model.Window) ([]model.FunnelStat, error)
	DeliveryStats(ctx context.Context, w model.Window) ([]model.DeliveryStat, error)
}

type analyticsService struct {
	repo          repository.AnalyticsRepository
	deliveries    repository.DeliveryRepository
	defaultWindow time.Duration
	log           *zap.Logger
	now           func() time.Time
}

// NewAnalyticsService constructs an analyticsService. deliveries may be nil when
// no delivery log store is configured.
func NewAnalyticsService(repo repository.AnalyticsRepository, deliveries repository.DeliveryRepository, defaultWindow time.Duration, log *zap.Logger) AnalyticsService {
	if defaultWindow <= 0 {
		defaultWindow = 30 * 24 * time.Hour
	}
	return &analyticsService{
		repo:          repo,
		deliveries:    deliveries,
		defaultWindow: defaultWindow,
		log:           log,
		now:           time.Now,
	}
}

func (s *analyticsService) ResolveWindow(from, to time.Time) (model.Window, error) {
	if to.IsZero() {
		to = s.now()
	}
	to = to.UTC()
	if from.IsZero() {
		from = to.Add(-s.defaultWindow)
	}
	from = from.UTC()

	if !from.Before(to) {
		return model.Window{}, apperror.NewValidation("from must be before to")
	}
	return model.Window{From: from, To: to}, nil
}

func (s *analyticsService) Campaigns(ctx context.Context, collection string, w model.Window) ([]model.CampaignStat, error) {
	if err := checkLeadCollection(collection); err != nil {
		return nil, err
	}
	stats, err := s.repo.Campaigns(ctx, collection, w)
	if err != nil {
		return nil, err
	}
	value := conversion.RecordValue(collection)
	for i := range stats {
		stats[i].Value = float64(stats[i].Count) * value
	}
	return stats, nil
}

func (s *analyticsService) Sources(ctx context.Context, collection string, w model.Window) ([]model.SourceStat, error) {
	if err := checkLeadCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.Sources(ctx, collection, w)
}

func (s *analyticsService) Devices(ctx context.Context, collection string, w model.Window) ([]model.DeviceStat, error) {
	if err := checkLeadCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.Devices(ctx, collection, w)
}

func (s *analyticsService) Funnel(ctx context.Context, collection string, w model.Window) ([]model.FunnelStat, error) {
	if err := checkLeadCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.Funnel(ctx, collection, w)
}

func (s *analyticsService) DeliveryStats(ctx context.Context, w model.Window) ([]model.DeliveryStat, error) {
	if s.deliveries == nil {
		return nil, &apperror.UnavailableError{Message: "delivery log is not configured"}
	}
	return s.deliveries.FetchDeliveryStats(ctx, w)
}

// Dashboard computes every sub-statistic concurrently. A failing statistic is
// reported under its key in Errors and leaves the others intact.
func (s *analyticsService) Dashboard(ctx context.Context, collection string, w model.Window) (model.Dashboard, error) {
	if err := checkLeadCollection(collection); err != nil {
		return model.Dashboard{}, err
	}

	d := model.Dashboard{
		Collection: collection,
		Period:     model.NewMetricsPeriod(w),
		ByStatus:   []model.StatusStat{},
		Campaigns:  []model.CampaignStat{},
		Sources:    []model.SourceStat{},
		Devices:    []model.DeviceStat{},
		Funnel:     []model.FunnelStat{},
	}

	// A failed statistic is reported in d.Errors and never cancels its siblings.
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	errs := map[string]string{}
	run := func(stat string, fn func() error) {
		wg.Go(func() {
			if err := fn(); err != nil {
				s.log.Warn("dashboard statistic failed",
					zap.String("stat", stat),
					zap.String("collection", collection),
					zap.Error(err))
				mu.Lock()
				errs[stat] = "failed to compute " + stat
				mu.Unlock()
			}
		})
	}

	run(StatTotal, func() error {
		n, err := s.repo.Count(ctx, collection, w)
		if err == nil {
			d.Total = n
		}
		return err
	})
	run(StatByStatus, func() error {
		stats, err := s.repo.ByStatus(ctx, collection, w)
		if err == nil {
			d.ByStatus = stats
		}
		return err
	})
	run(StatCampaigns, func() error {
		stats, err := s.Campaigns(ctx, collection, w)
		if err == nil {
			d.Campaigns = stats
		}
		return err
	})
	run(StatSources, func() error {
		stats, err := s.repo.Sources(ctx, collection, w)
		if err == nil {
			d.Sources = stats
		}
		return err
	})
	run(StatDevices, func() error {
		stats, err := s.repo.Devices(ctx, collection, w)
		if err == nil {
			d.Devices = stats
		}
		return err
	})
	run(StatFunnel, func() error {
		stats, err := s.repo.Funnel(ctx, collection, w)
		if err == nil {
			d.Funnel = stats
		}
		return err
	})
	if collection == model.CollectionB2BLeads {
		d.Industries = []model.IndustryStat{}
		run(StatIndustries, func() error {
			stats, err := s.repo.Industries(ctx, w)
			if err == nil {
				d.Industries = stats
			}
			return err
		})
	}

	wg.Wait()
	if len(errs) > 0 {
		d.Errors = errs
	}
	return d, nil
}

func checkLeadCollection(collection string) error {
	switch collection {
	case model.CollectionLeads, model.CollectionB2BLeads:
		return nil
	default:
		return apperror.NewValidation("unsupported collection %q", collection)
	}
}
