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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shenikar/sos_rescue_system/internal/auth"
	"github.com/shenikar/sos_rescue_system/internal/classifier"
	"github.com/shenikar/sos_rescue_system/internal/config"
	v1 "github.com/shenikar/sos_rescue_system/internal/handler/http/v1"
	"github.com/shenikar/sos_rescue_system/internal/jobs"
	"github.com/shenikar/sos_rescue_system/internal/metrics"
	"github.com/shenikar/sos_rescue_system/internal/repository"
	"github.com/shenikar/sos_rescue_system/internal/service"
	"github.com/shenikar/sos_rescue_system/pkg/logger"
	"github.com/shenikar/sos_rescue_system/pkg/postgres"
	redisclient "github.com/shenikar/sos_rescue_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/sos_rescue_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title SOS Rescue System API
// @version 1.0
// @description SOS signal dispatch and tracking API for reporters and rescue teams.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
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

// newClassifierBackend выбирает модель оценки опасности по CLASSIFIER_BACKEND
func newClassifierBackend(cfg *config.Config, log *logrus.Logger) classifier.Backend {
	switch cfg.ClassifierBackend {
	case config.ClassifierBackendHTTP:
		return classifier.NewHTTPBackend(cfg.ClassifierURL)
	case config.ClassifierBackendKeyword:
		return classifier.NewKeywordBackend()
	default:
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY is not set, every new signal will be marked red")
		}
		return classifier.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище: PostgreSQL или in-memory для локального запуска
	var (
		signalRepo service.SignalRepository
		teamRepo   service.TeamRepository
		dbpool     *pgxpool.Pool
	)
	if cfg.StorageBackend == config.StorageBackendPostgres {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}

		dbpool, err = postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer dbpool.Close()
		log.Info("Successfully connected to PostgreSQL")

		signalRepo = repository.NewSignalRepository(dbpool)
		teamRepo = repository.NewTeamRepository(dbpool)
	} else {
		log.Warn("Using in-memory storage, data will be lost on restart")
		signalRepo = repository.NewMemorySignalRepository()
		teamRepo = repository.NewMemoryTeamRepository()
	}

	// Redis необязателен: без него нет кэша завершенных сигналов и ограничения попыток входа
	var (
		signalCache  service.SignalCache
		loginLimiter service.LoginLimiter
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient, err = redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")

		signalCache = repository.NewSignalCache(redisClient, cfg.SignalCacheTTL)
		loginLimiter = repository.NewLoginLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	} else {
		log.Warn("REDIS_ADDR is empty, signal cache and login throttling are disabled")
	}

	m := metrics.New()

	// Классификатор опасности
	backend := newClassifierBackend(cfg, log)
	dangerClassifier := classifier.NewAdapter(backend, cfg.ClassifierTimeout, log, m)
	log.WithField("backend", backend.Name()).Info("Danger classifier configured")

	// Инициализация сервисов
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	signalService := service.NewSignalService(signalRepo, signalCache, dangerClassifier, m, log, cfg)
	teamService := service.NewTeamService(teamRepo, loginLimiter, tokens, log)

	// Периодическое обновление gauge-метрик
	refresher, err := jobs.NewStatsRefresher(signalService, cfg.StatsRefreshSchedule, log)
	if err != nil {
		log.Fatalf("Failed to configure stats refresher: %v", err)
	}
	refresher.RunOnce(ctx)
	refresher.Start(ctx)

	// Инициализация хэндлеров
	handler := v1.NewHandler(signalService, teamService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(v1.CORSMiddleware(cfg.CORSOrigins), m.GinMiddleware())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Метрики закрываются ключом, если ключи заданы
	if len(cfg.MetricsAPIKeys) > 0 {
		router.GET("/metrics", v1.APIKeyAuthMiddleware(cfg.MetricsAPIKeys, log), gin.WrapH(m.Handler()))
	} else {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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
	cancel()

	log.Info("Server gracefully stopped")
}
