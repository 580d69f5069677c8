// Package main - точка входа для HTTP сервера TrackMyStudy Hub.
//
// Философия: "Учёба как привычка" - сервер превращает разрозненные записи
// об учёбе в единую картину дня: цели, сессии, посещаемость, стресс и
// серии учебных дней живут в одном агрегате и меняются через один путь записи.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries/State Store)
// - Infrastructure: KV-хранилище, event bus, планировщик
// - Interface: HTTP API
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	// Application layer
	"github.com/trackmystudy/study-hub/internal/application/command"
	"github.com/trackmystudy/study-hub/internal/application/eventhandler"
	"github.com/trackmystudy/study-hub/internal/application/query"
	"github.com/trackmystudy/study-hub/internal/application/state"

	// Infrastructure layer
	"github.com/trackmystudy/study-hub/internal/infrastructure/messaging"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/kv"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/postgres"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/redis"
	"github.com/trackmystudy/study-hub/internal/infrastructure/scheduler"
	"github.com/trackmystudy/study-hub/internal/infrastructure/scheduler/jobs"

	// Interface layer
	httpserver "github.com/trackmystudy/study-hub/internal/interface/http"
	"github.com/trackmystudy/study-hub/internal/interface/http/handlers"

	// Packages
	"github.com/trackmystudy/study-hub/config"
	"github.com/trackmystudy/study-hub/pkg/circuitbreaker"
	"github.com/trackmystudy/study-hub/pkg/logger"
	"github.com/trackmystudy/study-hub/pkg/retry"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем приложение
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
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ И ЧАСОВОГО ПОЯСА
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	appLog := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})

	log.Info("starting TrackMyStudy Hub",
		"env", string(cfg.App.Environment),
		"debug", cfg.App.Debug,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
		"backend", string(cfg.Storage.Backend),
	)

	// Все дневные ключи (YYYY-MM-DD), серии и расписания считаются в этом поясе
	timeutil.SetLocation(cfg.App.Location)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ИНИЦИАЛИЗАЦИЯ KV-ХРАНИЛИЩА
	// ─────────────────────────────────────────────────────────────────────────
	kvStore, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage backend: %w", err)
	}
	defer cleanup()

	if err := kvStore.Ping(ctx); err != nil {
		return fmt.Errorf("storage ping failed: %w", err)
	}
	log.Info("storage backend ready", "backend", string(cfg.Storage.Backend))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	userDataRepo := kv.NewUserDataRepository(kvStore)
	challengeRepo := kv.NewChallengeRepository(kvStore)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	// Синхронный режим: реактивные обработчики (оценка челленджа, аналитика
	// целей) завершаются до того, как команда вернёт результат.
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.AsyncMode = false
	busConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ STATE STORE
	// ─────────────────────────────────────────────────────────────────────────
	store := state.New(state.Config{
		UserDataRepo:  userDataRepo,
		ChallengeRepo: challengeRepo,
		EventBus:      eventBus,
		Logger:        appLog,
	}).Load(ctx)
	log.Info("state store loaded")

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	addGoalCmd := command.NewAddDailyGoalHandler(store, eventBus)
	toggleGoalCmd := command.NewToggleGoalCompletionHandler(store, eventBus)
	startSessionCmd := command.NewStartStudySessionHandler(store, eventBus)
	completeSessionCmd := command.NewCompleteStudySessionHandler(store, eventBus)
	updateScheduleCmd := command.NewUpdateWeeklyScheduleHandler(store)
	updateDayProgressCmd := command.NewUpdateDayProgressHandler(store)
	markAttendanceCmd := command.NewMarkAttendanceHandler(store, eventBus)
	recordStressCmd := command.NewRecordStressLevelHandler(store, eventBus)
	setBaselineCmd := command.NewSetBaselineDataHandler(store)
	updateHistoryCmd := command.NewUpdatePerformanceHistoryHandler(store)
	updateSubjectCmd := command.NewUpdateSubjectScoreHandler(store)
	updateProfileCmd := command.NewUpdateProfileHandler(store)
	clearDataCmd := command.NewClearUserDataHandler(store, eventBus)
	startChallengeCmd := command.NewStartChallengeHandler(store, eventBus)
	resetChallengeCmd := command.NewResetChallengeHandler(store, eventBus)

	metricsQuery := query.NewGetStudyMetricsHandler(store)
	weeklyStatsQuery := query.NewGetWeeklyStatsHandler(store)
	goalTrendQuery := query.NewGetGoalTrendHandler(store)
	todayQuery := query.NewGetTodayOverviewHandler(store)
	achievementsQuery := query.NewGetAchievementsHandler(store)
	streakQuery := query.NewGetStreakStatusHandler(store)
	challengeQuery := query.NewGetChallengeStatusHandler(store)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Features.ChallengesEnabled() {
		sessionHandler := eventhandler.NewOnSessionCompletedHandler(store, eventBus, log)
		for _, t := range sessionHandler.EventTypes() {
			if err := eventBus.Subscribe(t, sessionHandler.Handle); err != nil {
				return fmt.Errorf("failed to subscribe %s: %w", t, err)
			}
		}
	}

	if cfg.Features.IsEnabled(config.FeatureGoalAnalytics) {
		goalHandler := eventhandler.NewOnGoalChangedHandler(store, log)
		for _, t := range goalHandler.EventTypes() {
			if err := eventBus.Subscribe(t, goalHandler.Handle); err != nil {
				return fmt.Errorf("failed to subscribe %s: %w", t, err)
			}
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ ПЛАНИРОВЩИКА
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler

	if cfg.Scheduler.Enabled {
		schedConfig := scheduler.DefaultSchedulerConfig()
		schedConfig.Logger = log
		schedConfig.Timezone = cfg.App.Location
		sched = scheduler.NewScheduler(schedConfig)

		if cfg.Features.IsEnabled(config.FeatureStreaks) {
			streakJob := jobs.NewStreakMaintenanceJob(store, log)
			if err := sched.Register(streakJob, scheduler.NewIntervalSchedule(cfg.Scheduler.StreakCheckInterval)); err != nil {
				return fmt.Errorf("failed to register streak job: %w", err)
			}
		}

		if cfg.Features.ChallengesEnabled() && cfg.Features.IsEnabled(config.FeatureChallengeRefresh) {
			refreshJob := jobs.NewChallengeRefreshJob(store, eventBus, log)
			daily := scheduler.NewDailyAt(cfg.Scheduler.ChallengeRefreshHour, cfg.Scheduler.ChallengeRefreshMinute)
			if err := sched.Register(refreshJob, daily); err != nil {
				return fmt.Errorf("failed to register challenge refresh job: %w", err)
			}
		}
	} else {
		log.Info("scheduler disabled by configuration")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HEALTH CHECKER
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("storage", handlers.NewStoreCheck(kvStore))

	// ─────────────────────────────────────────────────────────────────────────
	// 11. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.APIKeyHeader = cfg.HTTP.APIKeyHeader
	httpConfig.APIKeyHashes = cfg.HTTP.APIKeyHashes

	httpDeps := httpserver.Dependencies{
		Store: store,

		GetStudyMetricsHandler:    metricsQuery,
		GetWeeklyStatsHandler:     weeklyStatsQuery,
		GetGoalTrendHandler:       goalTrendQuery,
		GetTodayOverviewHandler:   todayQuery,
		GetAchievementsHandler:    achievementsQuery,
		GetStreakStatusHandler:    streakQuery,
		GetChallengeStatusHandler: challengeQuery,

		AddDailyGoalHandler:             addGoalCmd,
		ToggleGoalCompletionHandler:     toggleGoalCmd,
		StartStudySessionHandler:        startSessionCmd,
		CompleteStudySessionHandler:     completeSessionCmd,
		UpdateWeeklyScheduleHandler:     updateScheduleCmd,
		UpdateDayProgressHandler:        updateDayProgressCmd,
		MarkAttendanceHandler:           markAttendanceCmd,
		RecordStressLevelHandler:        recordStressCmd,
		SetBaselineDataHandler:          setBaselineCmd,
		UpdatePerformanceHistoryHandler: updateHistoryCmd,
		UpdateSubjectScoreHandler:       updateSubjectCmd,
		UpdateProfileHandler:            updateProfileCmd,
		ClearUserDataHandler:            clearDataCmd,
		StartChallengeHandler:           startChallengeCmd,
		ResetChallengeHandler:           resetChallengeCmd,

		Logger:        appLog,
		HealthChecker: healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 12. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 2)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	if sched != nil {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 13. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("TrackMyStudy Hub is running",
		"http_address", httpServer.Address(),
		"scheduler_enabled", cfg.Scheduler.Enabled,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error

	// 1. Останавливаем планировщик (новые задания не стартуют)
	if sched != nil {
		log.Info("stopping scheduler...")
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler gracefully", "error", err)
			shutdownErr = err
		}
	}

	// 2. Останавливаем HTTP сервер
	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		shutdownErr = err
	}

	// 3. Event bus и хранилище закроются через defer

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// openStore подключает выбранный KV backend. Возвращённый cleanup закрывает
// соединения и безопасен для вызова при любом backend'е.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (kv.Store, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory storage, data will not survive restarts")
		return kv.NewMemoryStore(), noop, nil

	case config.BackendRedis:
		log.Info("connecting to Redis...",
			"host", cfg.Storage.Redis.Host,
			"port", cfg.Storage.Redis.Port,
		)

		redisConfig := redis.DefaultConfig()
		redisConfig.Host = cfg.Storage.Redis.Host
		redisConfig.Port = cfg.Storage.Redis.Port
		redisConfig.Password = cfg.Storage.Redis.Password
		redisConfig.DB = cfg.Storage.Redis.DB
		redisConfig.PoolSize = cfg.Storage.Redis.PoolSize
		redisConfig.MinIdleConns = cfg.Storage.Redis.MinIdleConns
		redisConfig.DialTimeout = cfg.Storage.Redis.DialTimeout
		redisConfig.ReadTimeout = cfg.Storage.Redis.ReadTimeout
		redisConfig.WriteTimeout = cfg.Storage.Redis.WriteTimeout

		var store *redis.Store
		err := retry.StartupRetrier().Do(ctx, func(ctx context.Context) error {
			var connErr error
			store, connErr = redis.NewStore(ctx, redisConfig)
			return connErr
		})
		if err != nil {
			return nil, noop, fmt.Errorf("redis: %w", err)
		}

		return wrapWithBreaker(store, log), func() {
			log.Info("closing Redis connection...")
			_ = store.Close()
		}, nil

	case config.BackendPostgres:
		log.Info("connecting to PostgreSQL...")

		var conn *postgres.Connection
		err := retry.StartupRetrier().Do(ctx, func(ctx context.Context) error {
			var connErr error
			conn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Storage.Database.URL)
			return connErr
		})
		if err != nil {
			return nil, noop, fmt.Errorf("postgres: %w", err)
		}

		store, err := postgres.NewStore(ctx, conn)
		if err != nil {
			conn.Close()
			return nil, noop, fmt.Errorf("postgres store: %w", err)
		}

		return wrapWithBreaker(store, log), func() {
			log.Info("closing database connection...")
			conn.Close()
		}, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// wrapWithBreaker оборачивает внешний backend в circuit breaker: когда
// Redis/PostgreSQL падает, запросы отваливаются быстро, а не по таймауту.
func wrapWithBreaker(store kv.Store, log *slog.Logger) kv.Store {
	breaker := circuitbreaker.StorageBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("storage circuit breaker state changed",
			"breaker", name,
			"from", from.String(),
			"to", to.String(),
		)
	}, circuitbreaker.WithIsFailure(kv.IsBackendFailure))
	return kv.NewResilientStore(store, breaker)
}

// setupLogger настраивает структурированное логирование для инфраструктуры
// (event bus, планировщик, фоновые задания).
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}
