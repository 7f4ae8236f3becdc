package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"eduexpress-backend/internal/capi"
	"eduexpress-backend/internal/config"
	"eduexpress-backend/internal/controller"
	"eduexpress-backend/internal/conversion"
	"eduexpress-backend/internal/db"
	httpserver "eduexpress-backend/internal/http"
	"eduexpress-backend/internal/logger"
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/repository"
	"eduexpress-backend/internal/routes"
	"eduexpress-backend/internal/service"
	"eduexpress-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg := logger.New(cfg.AppMode)
	defer func() { _ = logg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.DBTimeout)
	if err != nil {
		logg.Fatal("connect mongodb", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	database := client.Database(cfg.MongoDatabase)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logg.Fatal("ensure indexes", zap.Error(err))
	}

	// The delivery log is optional; without ClickHouse records are discarded.
	var (
		deliveryRepo repository.DeliveryRepository
		deliveryLog  service.DeliveryLogWorker = service.NopDeliveryLog{}
		pingers                                = map[string]controller.Pinger{
			"mongodb": controller.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
		}
	)
	if cfg.ClickHouseDSN != "" {
		conn, err := db.OpenClickHouse(ctx, cfg.ClickHouseDSN)
		if err != nil {
			logg.Fatal("connect clickhouse", zap.Error(err))
		}
		defer conn.Close()

		if err := db.RunMigrations(ctx, conn); err != nil {
			logg.Fatal("migrate clickhouse", zap.Error(err))
		}
		deliveryRepo = repository.NewDeliveryRepository(conn)
		deliveryLog = service.NewDeliveryLogWorker(deliveryRepo, logg, cfg.DeliveryLogBuffer, cfg.DeliveryLogBatch, cfg.DeliveryLogFlush)
		pingers["clickhouse"] = conn
	} else {
		logg.Info("CLICKHOUSE_DSN not set, conversion delivery log disabled")
	}

	leads := repository.NewStore[model.Lead](database, repository.StoreConfig{
		Collection: model.CollectionLeads, Resource: "lead", UniqueField: "email",
	})
	b2bLeads := repository.NewStore[model.B2BLead](database, repository.StoreConfig{
		Collection: model.CollectionB2BLeads, Resource: "b2b lead", UniqueField: "email",
	})
	universities := repository.NewStore[model.University](database, repository.StoreConfig{
		Collection: model.CollectionUniversities, Resource: "university", UniqueField: "slug",
	})
	updates := repository.NewStore[model.Update](database, repository.StoreConfig{
		Collection: model.CollectionUpdates, Resource: "update", UniqueField: "slug",
	})
	stories := repository.NewStore[model.SuccessStory](database, repository.StoreConfig{
		Collection: model.CollectionSuccessStories, Resource: "success story", UniqueField: "slug",
	})
	pages := repository.NewStore[model.ContentPage](database, repository.StoreConfig{
		Collection: model.CollectionContentPages, Resource: "content page", UniqueField: "slug",
	})

	validate := validation.New()
	normalizer := conversion.NewNormalizer(cfg.BaseURL, cfg.EventFutureTolerance)
	tracker := service.NewConversionTracker(capi.New(cfg.Meta, logg), deliveryLog, logg)

	leadService := service.NewLeadService(leads, b2bLeads, normalizer, tracker, validate, logg)
	trackingService := service.NewTrackingService(normalizer, tracker, validate, service.TrackingConfig{
		PixelID:           cfg.Meta.PixelID,
		GTMContainerID:    cfg.GTMContainerID,
		ServerSideEnabled: cfg.Meta.Enabled(),
	})

	analyticsRepo := repository.NewAnalyticsRepository(map[string]repository.Aggregator{
		model.CollectionLeads:    leads,
		model.CollectionB2BLeads: b2bLeads,
	})
	analyticsService := service.NewAnalyticsService(analyticsRepo, deliveryRepo, cfg.AnalyticsDefaultWindow, logg)

	syncService := service.NewSyncService(map[string]service.SyncSource{
		model.CollectionLeads:          leads,
		model.CollectionB2BLeads:       b2bLeads,
		model.CollectionUniversities:   universities,
		model.CollectionUpdates:        updates,
		model.CollectionSuccessStories: stories,
		model.CollectionContentPages:   pages,
	})

	universityService, err := service.NewContentService(universities, service.UniversityContent, validate, logg)
	if err != nil {
		logg.Fatal("content service", zap.Error(err))
	}
	updateService, err := service.NewContentService(updates, service.UpdateContent, validate, logg)
	if err != nil {
		logg.Fatal("content service", zap.Error(err))
	}
	storyService, err := service.NewContentService(stories, service.SuccessStoryContent, validate, logg)
	if err != nil {
		logg.Fatal("content service", zap.Error(err))
	}
	pageService, err := service.NewContentService(pages, service.ContentPageContent, validate, logg)
	if err != nil {
		logg.Fatal("content service", zap.Error(err))
	}

	server := httpserver.NewServer(cfg, routes.Controllers{
		Health:       controller.NewHealthController(pingers, cfg.DBTimeout, logg),
		Leads:        controller.NewLeadController(leadService),
		Tracking:     controller.NewTrackingController(trackingService),
		Analytics:    controller.NewAnalyticsController(analyticsService),
		Sync:         controller.NewSyncController(syncService),
		Universities: controller.NewContentController[model.University](universityService, "university", "country"),
		Updates:      controller.NewContentController[model.Update](updateService, "update", "category"),
		Stories:      controller.NewContentController[model.SuccessStory](storyService, "success story", "country"),
		ContentPages: controller.NewContentController[model.ContentPage](pageService, "content page", "section"),
	}, logg)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error("server shutdown", zap.Error(err))
		}
	}()

	logg.Info("starting server", zap.String("addr", cfg.HTTPPort), zap.Bool("capi_enabled", cfg.Meta.Enabled()))
	if err := server.Listen(cfg.HTTPPort); err != nil {
		logg.Error("server stopped", zap.Error(err))
	}

	deliveryLog.Shutdown()
}
