package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"friendgraph-api/models"
)

type fakeStats struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeStats) GetStats(context.Context) (*models.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Stats{
		Users:       models.UserStats{Total: 4},
		Friendships: models.FriendshipStats{Total: int64(f.calls), AverageFriendshipsPerUser: 1.5},
	}, nil
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []models.Stats
}

func (s *recordingSink) SetStats(stats models.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, stats)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

func TestStatsSnapshotJobRunsImmediatelyAndOnSchedule(t *testing.T) {
	stats := &fakeStats{}
	sink := &recordingSink{}
	job := NewStatsSnapshotJob(stats, sink, 10*time.Millisecond, zap.NewNop())

	job.Start()
	assert.Eventually(t, func() bool { return sink.count() >= 3 }, time.Second, 5*time.Millisecond)
	job.Stop()

	after := sink.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sink.count(), "no snapshots after Stop")
	assert.Equal(t, int64(4), sink.snapshots[0].Users.Total)
}

func TestStatsSnapshotJobSkipsFailedReads(t *testing.T) {
	stats := &fakeStats{err: errors.New("database is gone")}
	sink := &recordingSink{}
	job := NewStatsSnapshotJob(stats, sink, time.Hour, zap.NewNop())

	job.Start()
	assert.Eventually(t, func() bool {
		stats.mu.Lock()
		defer stats.mu.Unlock()
		return stats.calls == 1
	}, time.Second, 5*time.Millisecond)
	job.Stop()

	assert.Zero(t, sink.count())
}
