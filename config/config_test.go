package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("FRIENDS_MAX_PAGE_SIZE", "")
	t.Setenv("STATS_SNAPSHOT_INTERVAL", "")
	t.Setenv("EVENT_PUBLISH_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 10, cfg.DefaultFriendsPerPage)
	assert.Equal(t, 50, cfg.MaxFriendsPerPage)
	assert.Equal(t, time.Minute, cfg.StatsSnapshotInterval)
	assert.Equal(t, 3*time.Second, cfg.EventPublishTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("FRIENDS_MAX_PAGE_SIZE", "100")
	t.Setenv("STATS_SNAPSHOT_INTERVAL", "30s")
	t.Setenv("EMAIL_NOTIFICATIONS", "true")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
	t.Setenv("EVENT_PUBLISH_TIMEOUT", "500ms")

	cfg := Load()

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 100, cfg.MaxFriendsPerPage)
	assert.Equal(t, 30*time.Second, cfg.StatsSnapshotInterval)
	assert.True(t, cfg.EmailNotifications)
	assert.Equal(t, 0.25, cfg.OTELSampleRatio)
	assert.Equal(t, 500*time.Millisecond, cfg.EventPublishTimeout)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("FRIENDS_DEFAULT_PAGE_SIZE", "ten")
	t.Setenv("STATS_SNAPSHOT_INTERVAL", "-5s")
	t.Setenv("SEED_DATA", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.DefaultFriendsPerPage)
	assert.Equal(t, time.Minute, cfg.StatsSnapshotInterval)
	assert.False(t, cfg.SeedData)
}
