package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/merchkit/pricing-api/internal/config"
	"github.com/merchkit/pricing-api/internal/lock"
	"github.com/merchkit/pricing-api/internal/obs"
	"github.com/merchkit/pricing-api/internal/rules"
)

// ruleSyncLockKey serialises snapshot runs across worker replicas.
const ruleSyncLockKey = "rules:sync:lock"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "pricing"), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	syncer := rules.Syncer{
		Store:  rules.PGStore{Pool: pool},
		Cache:  rules.NewCache(redisClient, cfg.RuleCacheTTL),
		Logger: &logger,
	}
	syncMutex := lock.Mutex{Client: redisClient}
	handleSync := func(taskCtx context.Context, task *asynq.Task) error {
		return syncMutex.Do(taskCtx, ruleSyncLockKey, time.Minute, func(lockCtx context.Context) error {
			return syncer.HandleSync(lockCtx, task)
		})
	}

	// Seed the cache once on boot so the API never waits a full interval
	// for its first snapshot.
	bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := handleSync(bootCtx, rules.NewSyncTask()); err != nil {
		logger.Error().Err(err).Msg("initial rule snapshot")
	}
	cancel()

	redisConn, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url for task queue")
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(rules.TaskRuleSync, handleSync)

	srv := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: envInt("WORKER_CONCURRENCY", 2),
		Logger:      asynqLogger{logger},
	})
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start task server")
	}

	scheduler := asynq.NewScheduler(redisConn, &asynq.SchedulerOpts{
		Logger: asynqLogger{logger},
	})
	spec := fmt.Sprintf("@every %s", cfg.RuleSyncEvery)
	if _, err := scheduler.Register(spec, rules.NewSyncTask()); err != nil {
		logger.Fatal().Err(err).Str("spec", spec).Msg("register rule sync schedule")
	}
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start scheduler")
	}

	logger.Info().Str("interval", cfg.RuleSyncEvery.String()).Msg("worker started")
	<-ctx.Done()

	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}

// asynqLogger adapts zerolog to the asynq logging interface.
type asynqLogger struct {
	l zerolog.Logger
}

func (a asynqLogger) Debug(args ...interface{}) { a.l.Debug().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...interface{})  { a.l.Info().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...interface{})  { a.l.Warn().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...interface{}) { a.l.Error().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...interface{}) { a.l.Fatal().Msg(fmt.Sprint(args...)) }

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		var parsed int
		if _, err := fmt.Sscanf(strings.TrimSpace(val), "%d", &parsed); err == nil {
			return parsed
		}
	}
	return fallback
}
