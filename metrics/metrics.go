// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"friendgraph-api/apperror"
	"friendgraph-api/models"
)

const namespace = "friendgraph"

// Metrics is safe to use through a nil pointer; every method becomes a no-op.
type Metrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	users             prometheus.Gauge
	friendships       prometheus.Gauge
	averageFriends    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "friendship_operations_total",
			Help:      "Friendship operations by outcome (ok or error kind).",
		}, []string{"operation", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "friendship_operation_duration_seconds",
			Help:      "Latency of friendship operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "users_total",
			Help:      "Users at the last stats snapshot.",
		}),
		friendships: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "friendships_confirmed_total",
			Help:      "Confirmed friendships at the last stats snapshot.",
		}),
		averageFriends: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_friendships_per_user",
			Help:      "Average confirmed friendships per user at the last stats snapshot.",
		}),
	}

	reg.MustRegister(m.operations, m.operationDuration, m.users, m.friendships, m.averageFriends)
	return m
}

func (m *Metrics) ObserveOperation(operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = apperror.KindName(apperror.KindOf(err))
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) SetStats(stats models.Stats) {
	if m == nil {
		return
	}
	m.users.Set(float64(stats.Users.Total))
	m.friendships.Set(float64(stats.Friendships.Total))
	m.averageFriends.Set(stats.Friendships.AverageFriendshipsPerUser)
}
