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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/auth"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/config"
	v1 "github.com/architpanigrahi/CS7CS3-incident-management-service/internal/handler/http/v1"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/metrics"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/repository"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/service"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/webhook"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/logger"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/postgres"
	redisclient "github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/architpanigrahi/CS7CS3-incident-management-service/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Incident Management Service API
// @version 1.0
// @description A service for managing incidents such as fire, flood, and other emergencies.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// newAuthenticator выбирает реализацию аутентификации по конфигурации
func newAuthenticator(cfg *config.Config) (auth.Authenticator, error) {
	switch cfg.AuthMode {
	case "mock":
		return auth.NewMockAuthenticator(cfg.MockAuthToken), nil
	case "jwt":
		return auth.NewJWTAuthenticator(cfg.JWTSigningKey), nil
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Инициализация издателя событий инцидентов
	eventPublisher := webhook.NewRedisEventPublisher(redisClient)

	// Инициализация и запуск воркера доставки событий
	eventWorker := webhook.NewWorker(redisClient, log, cfg)
	eventWorker.Start(ctx)

	// Метрики prometheus
	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Аутентификация
	authenticator, err := newAuthenticator(cfg)
	if err != nil {
		log.Fatalf("Failed to init authenticator: %v", err)
	}

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient)

	// Инициализация сервисов
	incidentService := service.NewIncidentService(incidentRepo, log, appMetrics, eventPublisher)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(v1.MetricsMiddleware(appMetrics))

	// Health-check и экспозиция метрик живут вне аутентификации
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(v1.AuthMiddleware(authenticator, log))
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
