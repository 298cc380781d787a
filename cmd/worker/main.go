package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/infra"
)

// sweepInterval is the fallback cadence between purges. The worker also
// wakes up right after each UTC midnight so counters never survive into a
// new day by more than a few seconds.
const sweepInterval = time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	usage := repo.NewUsageRepository(runner)

	logger.Info().Msg("worker: started")
	for {
		purged, err := usage.PurgeStale(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error().Err(err).Msg("worker: purge stale usage failed")
		} else if purged > 0 {
			logger.Info().Int64("rows", purged).Msg("worker: purged stale usage counters")
		}

		select {
		case <-ctx.Done():
		case <-time.After(nextWake(time.Now().UTC())):
			continue
		}
		break
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("worker: stopped with error")
		return
	}
	logger.Info().Msg("worker: stopped")
}

// nextWake returns the shorter of the sweep interval and the time until
// just past the next UTC midnight.
func nextWake(now time.Time) time.Duration {
	midnight := now.Truncate(24 * time.Hour).Add(24*time.Hour + 5*time.Second)
	untilMidnight := midnight.Sub(now)
	if untilMidnight < sweepInterval {
		return untilMidnight
	}
	return sweepInterval
}
