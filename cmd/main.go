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

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/incident_intake/internal/config"
	"github.com/shenikar/incident_intake/internal/generator"
	"github.com/shenikar/incident_intake/internal/geocode"
	v1 "github.com/shenikar/incident_intake/internal/handler/http/v1"
	"github.com/shenikar/incident_intake/internal/parser"
	"github.com/shenikar/incident_intake/internal/repository"
	"github.com/shenikar/incident_intake/internal/service"
	"github.com/shenikar/incident_intake/internal/webhook"
	"github.com/shenikar/incident_intake/pkg/logger"
	"github.com/shenikar/incident_intake/pkg/postgres"
	redisclient "github.com/shenikar/incident_intake/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/incident_intake/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Incident Intake API
// @version 1.0
// @description Conversational intake of incident reports: extracts structured data from Spanish free text.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New("file://migrations", migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Уведомления о новых запросах: очередь в Redis и воркер доставки
	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient)
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
	webhookWorker.Start(ctx)

	// Внешние зависимости оркестратора
	gemini, err := generator.NewGeminiGenerator(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to create Gemini generator: %v", err)
	}

	googleGeocoder, err := geocode.NewGoogleGeocoder(cfg.GoogleMapsAPIKey, "")
	if err != nil {
		log.Fatalf("Failed to create geocoder: %v", err)
	}
	var geocoder service.Geocoder = googleGeocoder
	if cfg.GoogleMapsAPIKey == "" {
		log.Warn("GOOGLE_MAPS_API_KEY is not set, location enrichment is disabled")
	} else {
		geocoder = geocode.NewCachedGeocoder(googleGeocoder, redisClient, cfg.GeocodeCacheTTL, log)
	}

	resolver, err := parser.NewDateResolver(cfg.DefaultTimeZone)
	if err != nil {
		log.Fatalf("Failed to create date resolver: %v", err)
	}

	requestRepo := repository.NewRequestRepository(dbpool, redisClient, cfg.RequestCacheTTL)

	extractionService := service.NewExtractionService(gemini, geocoder, resolver, log, cfg)
	requestService := service.NewRequestService(requestRepo, webhookPublisher, log)

	handler := v1.NewHandler(extractionService, requestService, log, cfg)

	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// Останавливаем воркер вебхуков вместе с сервером
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
