package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	IntakeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_intake_outcomes_total",
			Help: "Booking-request submissions by terminal outcome",
		},
		[]string{"outcome"},
	)

	IdentityLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_identity_lookups_total",
			Help: "Email uniqueness lookups by identity table and result",
		},
		[]string{"table", "result"},
	)

	FilterMatchRatio = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_filter_match_ratio",
			Help:    "Share of records kept by the dashboard filter",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"dashboard"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_notifications_total",
			Help: "Booking confirmation notifications by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// JobTracker records the lifecycle of one job for a task type.
type JobTracker struct {
	taskType string
	start    time.Time
}

// StartJob marks a job active and starts its timer.
func StartJob(taskType string) *JobTracker {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTracker{taskType: taskType, start: time.Now()}
}

// Complete records a successful job.
func (t *JobTracker) Complete() {
	t.finish()
	WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
}

// Fail records a failed job under errorCode.
func (t *JobTracker) Fail(errorCode string) {
	t.finish()
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}

func (t *JobTracker) finish() {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
}
