package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"friendgraph-api/models"
)

type statsReader interface {
	GetStats(ctx context.Context) (*models.Stats, error)
}

type statsSink interface {
	SetStats(stats models.Stats)
}

// StatsSnapshotJob periodically copies the aggregate stats into gauges.
// It only reads.
type StatsSnapshotJob struct {
	stats    statsReader
	sink     statsSink
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
}

func NewStatsSnapshotJob(stats statsReader, sink statsSink, interval time.Duration, log *zap.Logger) *StatsSnapshotJob {
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := interval / 2
	if timeout > 30*time.Second {
		timeout = 30 * time.Second
	}

	return &StatsSnapshotJob{
		stats:    stats,
		sink:     sink,
		log:      log,
		interval: interval,
		timeout:  timeout,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start begins the snapshot loop
func (j *StatsSnapshotJob) Start() {
	j.ticker = time.NewTicker(j.interval)
	j.log.Info("stats snapshot job started", zap.Duration("interval", j.interval))

	go func() {
		defer close(j.stopped)

		// Run immediately on start
		j.snapshot()

		for {
			select {
			case <-j.ticker.C:
				j.snapshot()
			case <-j.done:
				j.log.Info("stats snapshot job stopped")
				return
			}
		}
	}()
}

// Stop stops the loop and waits for an in-flight snapshot to finish.
func (j *StatsSnapshotJob) Stop() {
	j.ticker.Stop()
	close(j.done)
	<-j.stopped
}

func (j *StatsSnapshotJob) snapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	stats, err := j.stats.GetStats(ctx)
	if err != nil {
		j.log.Error("stats snapshot failed", zap.Error(err))
		return
	}

	j.sink.SetStats(*stats)
	j.log.Debug("stats snapshot taken",
		zap.Int64("users", stats.Users.Total),
		zap.Int64("friendships", stats.Friendships.Total),
	)
}
