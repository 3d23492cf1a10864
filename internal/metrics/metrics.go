package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthassist",
			Name:      "notifications_sent_total",
			Help:      "Count of push notifications sent by type and status.",
		},
		[]string{"type", "status"},
	)

	schedulerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "healthassist",
			Name:      "scheduler_ticks_total",
			Help:      "Count of completed scheduler passes.",
		},
	)

	schedulerTickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "healthassist",
			Name:      "scheduler_tick_duration_seconds",
			Help:      "Time to complete one scheduler pass.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 2, 5, 10},
		},
	)

	usersSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthassist",
			Name:      "scheduler_users_skipped_total",
			Help:      "Count of users skipped during a scheduler pass by reason.",
		},
		[]string{"reason"},
	)

	aiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthassist",
			Name:      "ai_requests_total",
			Help:      "Count of generative AI calls by feature and outcome.",
		},
		[]string{"feature", "outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			notificationsSent,
			schedulerTicks,
			schedulerTickDuration,
			usersSkipped,
			aiRequests,
		)
	})
}

func IncNotificationSent(notificationType, status string) {
	notificationsSent.WithLabelValues(notificationType, status).Inc()
}

func IncSchedulerTick() {
	schedulerTicks.Inc()
}

func ObserveTickDuration(seconds float64) {
	schedulerTickDuration.Observe(seconds)
}

func IncUserSkipped(reason string) {
	usersSkipped.WithLabelValues(reason).Inc()
}

func IncAIRequest(feature, outcome string) {
	aiRequests.WithLabelValues(feature, outcome).Inc()
}
