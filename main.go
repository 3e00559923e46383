package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormtracing "gorm.io/plugin/opentelemetry/tracing"

	"friendgraph-api/config"
	"friendgraph-api/database"
	"friendgraph-api/events"
	"friendgraph-api/jobs"
	"friendgraph-api/metrics"
	"friendgraph-api/middleware"
	"friendgraph-api/models"
	"friendgraph-api/repositories"
	"friendgraph-api/routes"
	"friendgraph-api/services"
	"friendgraph-api/tracing"
	"friendgraph-api/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.OTELServiceName,
		Environment: cfg.Env,
		SampleRatio: cfg.OTELSampleRatio,
	})
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Initialize database
	db, err := database.Initialize(cfg.DBDriver, cfg.DatabaseURL, cfg.IsDevelopment(), logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if cfg.OTELEndpoint != "" {
		if err := db.Use(gormtracing.NewPlugin()); err != nil {
			logger.Warn("failed to enable gorm tracing", zap.Error(err))
		}
	}

	// Run migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if cfg.SeedData {
		if err := database.SeedData(db, cfg.SeedUsers, time.Now().UnixNano(), logger); err != nil {
			logger.Warn("failed to seed database", zap.Error(err))
		}
	}

	users := repositories.NewUserRepository(db)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, username cache will fall through", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		users = repositories.NewCachedUserRepository(users, rdb, cfg.UsernameCacheTTL)
	}
	friendships := repositories.NewFriendshipRepository(db)

	var publishers events.Multi
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		logger.Info("publishing friendship events to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	if cfg.EmailNotifications {
		publishers = append(publishers, services.NewEmailService(cfg, users, logger))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	friendService := services.NewFriendService(friendships, users, publishers, m, logger, services.Pagination{
		DefaultLimit: cfg.DefaultFriendsPerPage,
		MaxLimit:     cfg.MaxFriendsPerPage,
	}, cfg.EventPublishTimeout)
	statsService := services.NewStatsService(users, friendships)

	statsJob := jobs.NewStatsSnapshotJob(statsService, m, cfg.StatsSnapshotInterval, logger)
	statsJob.Start()
	defer statsJob.Stop()

	router := routes.NewRouter(ctx, cfg, routes.Services{Friends: friendService, Stats: statsService}, registry, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		logger.Info("starting friendgraph API server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	if cfg.IsDevelopment() {
		logDevelopmentToken(db, cfg.JWTSecret, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", zap.Error(err))
	}
}

// logDevelopmentToken prints a bearer token for the first user so the API can
// be called locally without an identity provider.
func logDevelopmentToken(db *gorm.DB, jwtSecret string, logger *zap.Logger) {
	var user models.User
	if err := db.Order("username").First(&user).Error; err != nil {
		return
	}
	token, err := middleware.GenerateToken(jwtSecret, user.ID, 24*time.Hour)
	if err != nil {
		logger.Warn("failed to sign development token", zap.Error(err))
		return
	}
	logger.Info("development token", zap.String("user_id", user.ID), zap.String("username", user.Username), zap.String("token", token))
}
