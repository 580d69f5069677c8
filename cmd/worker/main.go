// Package main - точка входа для фонового worker'а TrackMyStudy Hub.
//
// Worker выполняет только фоновые задания: поддержание серий учебных дней
// и пересчёт челленджа на границе суток. HTTP API здесь нет - worker
// разворачивается отдельно от сервера, когда API и фоновые задания должны
// жить в разных процессах.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/trackmystudy/study-hub/internal/application/eventhandler"
	"github.com/trackmystudy/study-hub/internal/application/state"
	"github.com/trackmystudy/study-hub/internal/infrastructure/messaging"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/kv"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/postgres"
	"github.com/trackmystudy/study-hub/internal/infrastructure/persistence/redis"
	"github.com/trackmystudy/study-hub/internal/infrastructure/scheduler"
	"github.com/trackmystudy/study-hub/internal/infrastructure/scheduler/jobs"

	"github.com/trackmystudy/study-hub/config"
	"github.com/trackmystudy/study-hub/pkg/circuitbreaker"
	"github.com/trackmystudy/study-hub/pkg/logger"
	"github.com/trackmystudy/study-hub/pkg/retry"
	"github.com/trackmystudy/study-hub/pkg/timeutil"
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
	// 1. КОНФИГУРАЦИЯ И ЛОГИРОВАНИЕ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	appLog := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})

	log.Info("starting TrackMyStudy Hub worker",
		"env", string(cfg.App.Environment),
		"timezone", cfg.App.Timezone,
		"backend", string(cfg.Storage.Backend),
	)

	timeutil.SetLocation(cfg.App.Location)

	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("worker requires SCHEDULER_ENABLED=true")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. ХРАНИЛИЩЕ, РЕПОЗИТОРИИ, EVENT BUS, STATE STORE
	// ─────────────────────────────────────────────────────────────────────────
	kvStore, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage backend: %w", err)
	}
	defer cleanup()

	if err := kvStore.Ping(ctx); err != nil {
		return fmt.Errorf("storage ping failed: %w", err)
	}

	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.AsyncMode = false
	busConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() { _ = eventBus.Close() }()

	store := state.New(state.Config{
		UserDataRepo:  kv.NewUserDataRepository(kvStore),
		ChallengeRepo: kv.NewChallengeRepository(kvStore),
		EventBus:      eventBus,
		Logger:        appLog,
	}).Load(ctx)

	// События streak.updated/streak.broken от фоновых заданий тоже должны
	// двигать прогресс челленджа.
	if cfg.Features.ChallengesEnabled() {
		sessionHandler := eventhandler.NewOnSessionCompletedHandler(store, eventBus, log)
		for _, t := range sessionHandler.EventTypes() {
			if err := eventBus.Subscribe(t, sessionHandler.Handle); err != nil {
				return fmt.Errorf("failed to subscribe %s: %w", t, err)
			}
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПЛАНИРОВЩИКИ
	// ─────────────────────────────────────────────────────────────────────────
	schedConfig := scheduler.DefaultSchedulerConfig()
	schedConfig.Logger = log
	schedConfig.Timezone = cfg.App.Location
	sched := scheduler.NewScheduler(schedConfig)

	registered := 0

	if cfg.Features.IsEnabled(config.FeatureStreaks) {
		streakJob := jobs.NewStreakMaintenanceJob(store, log)
		if err := sched.Register(streakJob, scheduler.NewIntervalSchedule(cfg.Scheduler.StreakCheckInterval)); err != nil {
			return fmt.Errorf("failed to register streak job: %w", err)
		}
		registered++
	}

	if cfg.Features.ChallengesEnabled() && cfg.Features.IsEnabled(config.FeatureChallengeRefresh) {
		refreshJob := jobs.NewChallengeRefreshJob(store, eventBus, log)
		daily := scheduler.NewDailyAt(cfg.Scheduler.ChallengeRefreshHour, cfg.Scheduler.ChallengeRefreshMinute)
		if err := sched.Register(refreshJob, daily); err != nil {
			return fmt.Errorf("failed to register challenge refresh job: %w", err)
		}
		registered++
	}

	if registered == 0 {
		return fmt.Errorf("all background jobs disabled by feature flags, nothing to run")
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ОЖИДАНИЕ СИГНАЛА ЗАВЕРШЕНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("worker is running",
		"streak_interval", cfg.Scheduler.StreakCheckInterval.String(),
		"challenge_refresh", fmt.Sprintf("%02d:%02d", cfg.Scheduler.ChallengeRefreshHour, cfg.Scheduler.ChallengeRefreshMinute),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler gracefully", "error", err)
	}

	log.Info("worker shutdown completed")
	return nil
}

// openStore подключает выбранный KV backend.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (kv.Store, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		// В памяти worker бессмыслен: серия чинится и тут же теряется.
		log.Warn("using in-memory storage, background jobs will not persist anything")
		return kv.NewMemoryStore(), noop, nil

	case config.BackendRedis:
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

		return wrapWithBreaker(store, log), func() { _ = store.Close() }, nil

	case config.BackendPostgres:
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

		return wrapWithBreaker(store, log), func() { conn.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// wrapWithBreaker оборачивает внешний backend в circuit breaker.
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
