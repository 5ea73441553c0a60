package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/core/services"
	httphandlers "mediagate/internal/handlers/http"
	"mediagate/internal/infrastructure/blob"
	"mediagate/internal/infrastructure/middleware"
	"mediagate/internal/infrastructure/monitoring"
	"mediagate/internal/infrastructure/repositories"
	"mediagate/pkg/config"
	"mediagate/pkg/logger"
	"mediagate/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	startTime := time.Now()

	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/mediagate/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		JaegerURL:   cfg.Tracing.JaegerURL,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	blobStore, err := newBlobStore(cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize blob storage", "error", err)
	}

	productStore := repoFactory.CreateProductStore()
	purchaseStore := repoFactory.CreatePurchaseStore()
	subscriptionStore := repoFactory.CreateSubscriptionStore()

	// Published resources are immutable, so a short read-through cache in
	// front of the catalog is safe.
	catalog := services.NewCachedResourceCatalog(repoFactory.CreateResourceCatalog(), 30*time.Second)

	resolver := services.NewAccessResolver(
		productStore,
		purchaseStore,
		subscriptionStore,
		cfg.Access.LookupTimeout,
		log,
	)
	var collector *monitoring.PrometheusCollector
	var streamMetrics ports.StreamMetrics
	if cfg.Monitoring.PrometheusEnabled {
		collector = monitoring.NewPrometheusCollector()
		streamMetrics = collector
	}

	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	mediaService := services.NewMediaService(resolver, catalog, blobStore, streamMetrics, cfg.Stream.IdleReadTimeout, log)
	uploadService := services.NewUploadService(blobStore, catalog, cfg.Upload.MaxBytes, cfg.Upload.AllowedTypes, log)

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddCheck("stores", repoFactory.HealthCheck, 2*time.Second)
	healthChecker.AddCheck("blob_storage", func(ctx context.Context) error {
		// A stat on a locator that cannot exist proves the backend answers;
		// not-found is the healthy outcome.
		_, err := blobStore.Stat(ctx, "healthcheck-probe")
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil
		}
		return err
	}, 2*time.Second)

	authHandler := httphandlers.NewAuthHandler(authService, cfg.Auth.TokenTTL)
	mediaHandler := httphandlers.NewMediaHandler(mediaService, uploadService, collector, log)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(logger.NewContextLogger(zapLogger)))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}

	authHandler.SetupRoutes(router)
	mediaHandler.RegisterRoutes(router,
		middleware.OptionalAuthMiddleware(authService),
		middleware.AuthMiddleware(authService),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		status := healthChecker.CheckAll(c.Request.Context())
		if status.Status != "healthy" {
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		c.JSON(http.StatusOK, status)
	})

	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	// No WriteTimeout: it would sever long-running downloads. Stalled
	// streams are reaped by the idle-read watchdog instead.
	srv := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting mediagate server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down mediagate server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error shutting down tracer", "error", err)
	}
}

func newBlobStore(cfg *config.Config, log *zap.SugaredLogger) (ports.BlobStore, error) {
	switch cfg.Storage.Backend {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:  cfg.Storage.S3.Endpoint,
			Region:    cfg.Storage.S3.Region,
			Bucket:    cfg.Storage.S3.Bucket,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			UseSSL:    cfg.Storage.S3.UseSSL,
		}, log)
	default:
		return blob.NewFSStore(cfg.Storage.FS.Root, log)
	}
}
