package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	cloudstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/git-bubble/api/internal/handlers"
	"github.com/git-bubble/api/internal/platform/analytics"
	"github.com/git-bubble/api/internal/platform/config"
	"github.com/git-bubble/api/internal/platform/fetch"
	pfirestore "github.com/git-bubble/api/internal/platform/firestore"
	"github.com/git-bubble/api/internal/platform/github"
	"github.com/git-bubble/api/internal/platform/jobs"
	"github.com/git-bubble/api/internal/platform/observability"
	platformstorage "github.com/git-bubble/api/internal/platform/storage"
	"github.com/git-bubble/api/internal/repositories"
	firestoreRepo "github.com/git-bubble/api/internal/repositories/firestore"
	"github.com/git-bubble/api/internal/services"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	fetchClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	imageFetcher := fetch.NewImageFetcher(
		fetch.WithHTTPClient(fetchClient),
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
	)
	metadataFetcher := fetch.NewMetadataFetcher(
		fetch.WithMetadataHTTPClient(fetchClient),
		fetch.WithMetadataMaxBytes(cfg.Fetch.MaxBytes),
		fetch.WithMetadataUserAgent(cfg.Fetch.UserAgent),
	)

	githubOpts := []github.ClientOption{
		github.WithClient(fetchClient),
		github.WithUserAgent(cfg.Fetch.UserAgent),
	}
	if cfg.GitHub.APIBase != "" {
		githubOpts = append(githubOpts, github.WithAPIBase(cfg.GitHub.APIBase))
	}
	if cfg.GitHub.Token != "" {
		githubOpts = append(githubOpts, github.WithToken(cfg.GitHub.Token))
	}
	githubClient := github.NewClient(githubOpts...)

	var (
		firestoreProvider *pfirestore.Provider
		usageLogRepo      repositories.UsageLogRepository
		villageRepo       repositories.VillageRepository
		counterRepo       repositories.CounterRepository
	)
	if strings.TrimSpace(cfg.Firestore.ProjectID) != "" {
		firestoreProvider = pfirestore.NewProvider(cfg.Firestore)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := firestoreProvider.Close(closeCtx); err != nil {
				logger.Warn("firestore close error", zap.Error(err))
			}
		}()

		usageLogRepo, err = firestoreRepo.NewUsageLogRepository(firestoreProvider)
		if err != nil {
			logger.Fatal("failed to initialise usage log repository", zap.Error(err))
		}
		villageRepo, err = firestoreRepo.NewVillageRepository(firestoreProvider)
		if err != nil {
			logger.Fatal("failed to initialise village repository", zap.Error(err))
		}
		counterRepo, err = firestoreRepo.NewCounterRepository(firestoreProvider)
		if err != nil {
			logger.Fatal("failed to initialise counter repository", zap.Error(err))
		}
	} else {
		logger.Info("firestore project not configured; usage logs and village state disabled")
	}

	var renderPublisher services.RenderEventPublisher
	if cfg.Features.EnableUsageLogs && firestoreProvider != nil && strings.TrimSpace(cfg.Analytics.RenderTopic) != "" {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			logger.Fatal("failed to initialise pubsub client", zap.Error(err))
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logger.Warn("pubsub close error", zap.Error(err))
			}
		}()
		topic := pubsubClient.Topic(cfg.Analytics.RenderTopic)
		defer topic.Stop()
		renderPublisher, err = jobs.NewPubSubRenderPublisher(topic)
		if err != nil {
			logger.Fatal("failed to initialise render publisher", zap.Error(err))
		}
	}

	var analyticsSink services.AnalyticsSink
	if cfg.Features.EnableAnalytics {
		ga4Client, err := analytics.NewGA4Client(
			cfg.Analytics.MeasurementID,
			cfg.Analytics.APISecret,
			analytics.WithEndpoint(cfg.Analytics.GA4Endpoint),
		)
		if err != nil {
			logger.Fatal("failed to initialise GA4 client", zap.Error(err))
		}
		analyticsSink, err = analytics.NewGA4RenderSink(ga4Client)
		if err != nil {
			logger.Fatal("failed to initialise GA4 sink", zap.Error(err))
		}
	}

	usageDeps := services.UsageServiceDeps{
		Publisher: renderPublisher,
		Analytics: analyticsSink,
		IPSalt:    cfg.Analytics.IPSalt,
		Clock:     time.Now,
	}
	if cfg.Features.EnableUsageLogs {
		usageDeps.Logs = usageLogRepo
	}
	usageService, err := services.NewUsageService(usageDeps)
	if err != nil {
		logger.Fatal("failed to initialise usage service", zap.Error(err))
	}

	bubbleService, err := services.NewBubbleService(services.BubbleServiceDeps{
		Images: imageFetcher,
	})
	if err != nil {
		logger.Fatal("failed to initialise bubble service", zap.Error(err))
	}

	linkCardService, err := services.NewLinkCardService(services.LinkCardServiceDeps{
		Metadata: metadataFetcher,
		Images:   imageFetcher,
	})
	if err != nil {
		logger.Fatal("failed to initialise link card service", zap.Error(err))
	}

	villageService, err := services.NewVillageService(services.VillageServiceDeps{
		Commits:  githubClient,
		Villages: villageRepo,
		Counters: counterRepo,
		Clock:    time.Now,
	})
	if err != nil {
		logger.Fatal("failed to initialise village service", zap.Error(err))
	}

	var assetHandlers *handlers.AssetHandlers
	if cfg.Features.EnableAssetUploads {
		storageClient, err := cloudstorage.NewClient(ctx)
		if err != nil {
			logger.Fatal("failed to initialise storage client", zap.Error(err))
		}
		defer func() {
			if err := storageClient.Close(); err != nil {
				logger.Warn("storage close error", zap.Error(err))
			}
		}()
		uploader, err := platformstorage.NewUploader(storageClient, cfg.Storage.AssetsBucket)
		if err != nil {
			logger.Fatal("failed to initialise asset uploader", zap.Error(err))
		}
		assetService, err := services.NewAssetService(services.AssetServiceDeps{
			Uploader: uploader,
			Clock:    time.Now,
		})
		if err != nil {
			logger.Fatal("failed to initialise asset service", zap.Error(err))
		}
		assetHandlers = handlers.NewAssetHandlers(assetService)
	}

	bubbleHandlers := handlers.NewBubbleHandlers(bubbleService, usageService)
	linkHandlers := handlers.NewLinkHandlers(linkCardService, usageService)
	dividerHandlers := handlers.NewDividerHandlers(usageService)
	villageHandlers := handlers.NewVillageHandlers(villageService, usageService)
	imageProxyHandlers := handlers.NewImageProxyHandlers(imageFetcher)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(cfg.Firestore.ProjectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(cfg.Firestore.ProjectID),
	}

	healthOpts := []handlers.HealthOption{
		handlers.WithHealthBuildInfo(buildInfoFromEnv(startedAt)),
	}
	if firestoreProvider != nil {
		healthOpts = append(healthOpts, handlers.WithHealthReadinessCheck("firestore", func(ctx context.Context) error {
			_, err := firestoreProvider.Client(ctx)
			return err
		}))
	}
	healthHandlers := handlers.NewHealthHandlers(healthOpts...)

	opts := []handlers.Option{
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithBubbleRoutes(bubbleHandlers.Routes),
		handlers.WithLinkRoutes(linkHandlers.Routes),
		handlers.WithDividerRoutes(dividerHandlers.Routes),
		handlers.WithVillageRoutes(villageHandlers.Routes),
		handlers.WithImageProxyRoutes(imageProxyHandlers.Routes),
		handlers.WithRenderMiddlewares(handlers.RateLimitMiddleware(cfg.RateLimits.RenderPerMinute, time.Minute)),
		handlers.WithAssetMiddlewares(handlers.RateLimitMiddleware(cfg.RateLimits.DefaultPerMinute, time.Minute)),
	}
	if assetHandlers != nil {
		opts = append(opts, handlers.WithAssetRoutes(assetHandlers.Routes))
	}

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("git-bubble api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildInfoFromEnv(started time.Time) handlers.BuildInfo {
	version := strings.TrimSpace(os.Getenv("API_BUILD_VERSION"))
	if version == "" {
		version = "dev"
	}
	environment := strings.TrimSpace(os.Getenv("API_ENVIRONMENT"))
	if environment == "" {
		environment = "dev"
	}
	return handlers.BuildInfo{
		Version:     version,
		CommitSHA:   strings.TrimSpace(os.Getenv("API_BUILD_COMMIT_SHA")),
		Environment: environment,
		StartedAt:   started,
	}
}
