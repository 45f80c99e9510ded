// Package main - точка входа для BuddyHub API сервера.
//
// BuddyHub подбирает напарников для учёбы и пет-проектов: профиль каждого
// пользователя оценивается по рубрике (технические навыки, социальный
// портрет, личные предпочтения), движок совместимости считает взвешенный
// балл пары, а конечный автомат запросов превращает взаимный интерес в
// соединение.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, внешние API
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lora213/buddyhub/config"

	// Application layer
	"github.com/lora213/buddyhub/internal/application/command"
	"github.com/lora213/buddyhub/internal/application/query"

	// Domain layer
	"github.com/lora213/buddyhub/internal/domain/matching"
	"github.com/lora213/buddyhub/internal/domain/shared"

	// Infrastructure layer
	"github.com/lora213/buddyhub/internal/infrastructure/external/github"
	"github.com/lora213/buddyhub/internal/infrastructure/messaging"
	"github.com/lora213/buddyhub/internal/infrastructure/persistence/postgres"
	"github.com/lora213/buddyhub/internal/infrastructure/persistence/redis"
	"github.com/lora213/buddyhub/internal/infrastructure/service"

	// Interface layer
	httpserver "github.com/lora213/buddyhub/internal/interface/http"
	"github.com/lora213/buddyhub/internal/interface/http/handlers"

	// Packages
	"github.com/lora213/buddyhub/pkg/circuitbreaker"
	"github.com/lora213/buddyhub/pkg/logger"
	"github.com/lora213/buddyhub/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting BuddyHub API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations completed")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var matchCache *redis.MatchSuggestionCache

	cacheEnabled := cfg.Features.IsEnabled(config.FeatureMatchingSuggestionCache, nil)

	if !cfg.Redis.Disabled && cacheEnabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, suggestion caching disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			matchCache = redis.NewMatchSuggestionCache(redisCache)
			matchCache.SetTTL(cfg.Matching.SuggestionCacheTTL)
			log.Info("Redis connection established")
		}
	}

	// Без Redis подборки пересчитываются на каждый запрос.
	var suggestionCache query.MatchCache = query.NopMatchCache{}
	var cacheInvalidator command.MatchCacheInvalidator = command.NopInvalidator{}
	if matchCache != nil {
		suggestionCache = matchCache
		cacheInvalidator = matchCache
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	userRepo := postgres.NewUserRepository(dbConn)
	rubricRepo := postgres.NewRubricRepository(dbConn)
	requestRepo := postgres.NewMatchRequestRepository(dbConn)
	connectionRepo := postgres.NewConnectionRepository(dbConn)
	notificationRepo := postgres.NewNotificationRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBus := messaging.NewInMemoryEventBus(log)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// Все доменные события пишутся в лог; внешней очереди нет.
	_ = eventBus.SubscribeAll(func(event shared.Event) error {
		log.Debug("domain event",
			logger.String("event_type", string(event.EventType())),
			logger.String("aggregate_id", event.AggregateID()),
		)
		return nil
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing external clients...")

	githubConfig := github.DefaultClientConfig()
	githubConfig.BaseURL = cfg.GitHub.BaseURL
	githubConfig.Token = cfg.GitHub.Token
	githubConfig.Timeout = cfg.GitHub.RequestTimeout
	githubConfig.MaxRepoPages = cfg.GitHub.MaxRepoPages
	githubConfig.Logger = log
	githubConfig.Retrier = retry.New(
		retry.WithMaxAttempts(cfg.GitHub.MaxRetries),
		retry.WithInitialDelay(cfg.GitHub.RetryBaseDelay),
		retry.WithMaxDelay(cfg.GitHub.RetryMaxDelay),
	)
	githubConfig.Breaker = circuitbreaker.New(
		"github-api",
		circuitbreaker.WithFailureThreshold(cfg.GitHub.CircuitBreakerThreshold),
		circuitbreaker.WithTimeout(cfg.GitHub.CircuitBreakerTimeout),
		circuitbreaker.WithMaxHalfOpenRequests(cfg.GitHub.CircuitBreakerHalfOpenMax),
	)
	githubClient := github.NewClient(githubConfig)

	analyzer := service.NewProfileAnalyzer(githubClient, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	engine := matching.NewDefaultEngine()

	replaceScores := command.NewReplaceScoresHandler(userRepo, rubricRepo, cacheInvalidator, eventBus, log)

	deps := httpserver.Dependencies{
		RegisterUserHandler:        command.NewRegisterUserHandler(userRepo, eventBus, log),
		SendMatchRequestHandler:    command.NewSendMatchRequestHandler(userRepo, rubricRepo, requestRepo, connectionRepo, notificationRepo, engine, eventBus, log),
		RespondMatchRequestHandler: command.NewRespondMatchRequestHandler(userRepo, rubricRepo, requestRepo, connectionRepo, notificationRepo, engine, eventBus, log),
		MarkNotificationsHandler:   command.NewMarkNotificationsHandler(notificationRepo),
		AnalyzeProfileHandler:      command.NewAnalyzeProfileHandler(userRepo, analyzer, replaceScores, log),
		UpdatePreferencesHandler:   command.NewUpdatePreferencesHandler(rubricRepo, replaceScores, log),

		FindMatchesHandler:       query.NewFindMatchesHandler(userRepo, rubricRepo, requestRepo, connectionRepo, engine, suggestionCache, log),
		ListMatchRequestsHandler: query.NewListMatchRequestsHandler(userRepo, requestRepo),
		ListConnectionsHandler:   query.NewListConnectionsHandler(userRepo, connectionRepo),
		GetSuggestionsHandler:    query.NewGetSuggestionsHandler(userRepo, requestRepo, connectionRepo),
		ListNotificationsHandler: query.NewListNotificationsHandler(notificationRepo),
		GetScoresHandler:         query.NewGetScoresHandler(userRepo, rubricRepo),
		GetProfileHandler:        query.NewGetProfileHandler(userRepo, rubricRepo),

		Logger: log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}
	healthChecker.AddCheck("github_api", handlers.NewExternalAPICheck("github", githubClient))
	deps.HealthChecker = healthChecker

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ЗАПУСК HTTP СЕРВЕРА
	// ─────────────────────────────────────────────────────────────────────────
	serverConfig := httpserver.DefaultConfig()
	serverConfig.Host = cfg.HTTP.Host
	serverConfig.Port = cfg.HTTP.Port
	serverConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	serverConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	serverConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	serverConfig.MaxBodyBytes = cfg.HTTP.MaxBodyBytes
	serverConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	serverConfig.EnableCORS = cfg.HTTP.EnableCORS
	serverConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverConfig.APIKeyHeader = cfg.HTTP.APIKeyHeader
	serverConfig.APIKeys = cfg.HTTP.APIKeys
	serverConfig.MatchDefaultLimit = cfg.Matching.DefaultLimit

	server := httpserver.NewServer(serverConfig, deps)

	log.Info("starting HTTP server", logger.String("address", server.Address()))
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 12. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// setupLogger строит логгер по настройкам наблюдаемости.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()

	switch cfg.Observability.LogLevel {
	case "debug":
		opts.Level = logger.LevelDebug
	case "warn":
		opts.Level = logger.LevelWarn
	case "error":
		opts.Level = logger.LevelError
	default:
		opts.Level = logger.LevelInfo
	}

	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}

	return logger.New(opts)
}
