package jobs

import (
	"context"
	"log/slog"
	"time"

	"board-api/cache"
)

// DefaultStatsInterval replaces a non-positive reporting interval.
const DefaultStatsInterval = 5 * time.Minute

type StatsReader interface {
	Stats(ctx context.Context) (cache.Stats, error)
}

// CacheStatsJob periodically logs the shared listing cache hit rate.
type CacheStatsJob struct {
	stats    StatsReader
	logger   *slog.Logger
	interval time.Duration
	done     chan struct{}
	stopped  chan struct{}
}

func NewCacheStatsJob(stats StatsReader, interval time.Duration, logger *slog.Logger) *CacheStatsJob {
	if interval <= 0 {
		logger.Warn("invalid cache stats interval, using default", "interval", interval, "default", DefaultStatsInterval)
		interval = DefaultStatsInterval
	}
	return &CacheStatsJob{
		stats:    stats,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (j *CacheStatsJob) Start() {
	j.logger.Info("cache stats job started", "interval", j.interval)

	go func() {
		defer close(j.stopped)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.report()
			case <-j.done:
				j.logger.Info("cache stats job stopped")
				return
			}
		}
	}()
}

// Stop ends the job and waits for the running report, if any, to finish.
func (j *CacheStatsJob) Stop() {
	close(j.done)
	<-j.stopped
}

func (j *CacheStatsJob) report() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval/2+time.Second)
	defer cancel()

	stats, err := j.stats.Stats(ctx)
	if err != nil {
		j.logger.Warn("could not read cache stats", "err", err)
		return
	}

	j.logger.Info("listing cache stats",
		"hits", stats.Hits,
		"misses", stats.Misses,
		"hitRate", stats.HitRate+"%",
	)
}
