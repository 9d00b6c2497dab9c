package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments emitted by a single holland
// process. All metrics follow the naming convention
// holland_{subsystem}_{name}_{unit}.
type Metrics struct {
	// BackupsTotal counts completed backup attempts by backupset and
	// outcome (completed|failed).
	BackupsTotal *prometheus.CounterVec

	// BackupDuration tracks wall-clock backup duration in seconds by
	// backupset and outcome.
	BackupDuration *prometheus.HistogramVec

	// BackupBytes tracks the real, on-disk size of completed backups
	// in bytes by backupset.
	BackupBytes *prometheus.HistogramVec

	// PurgedTotal counts nodes removed by retention purges, by
	// backupset.
	PurgedTotal *prometheus.CounterVec

	// LockWaitSeconds tracks how long a job waited to acquire a
	// backupset's spool lock.
	LockWaitSeconds *prometheus.HistogramVec

	// LockDeniedTotal counts lock acquisitions that failed because
	// another process already held the backupset's lock.
	LockDeniedTotal *prometheus.CounterVec

	// SpoolFreeBytes reports free space on the spool filesystem as of
	// the last estimation check, by backupset.
	SpoolFreeBytes *prometheus.GaugeVec
}

// NewMetrics creates and registers the orchestrator's Prometheus
// metrics against the default registry. Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		BackupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "holland",
				Subsystem: "backup",
				Name:      "runs_total",
				Help:      "Total backup attempts by backupset and outcome",
			},
			[]string{"backupset", "outcome"},
		),

		BackupDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "holland",
				Subsystem: "backup",
				Name:      "duration_seconds",
				Help:      "Duration of backup runs in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
			},
			[]string{"backupset", "outcome"},
		),

		BackupBytes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "holland",
				Subsystem: "backup",
				Name:      "bytes",
				Help:      "Size in bytes of completed backups",
				Buckets:   prometheus.ExponentialBuckets(1<<20, 4, 10),
			},
			[]string{"backupset"},
		),

		PurgedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "holland",
				Subsystem: "purge",
				Name:      "nodes_total",
				Help:      "Total backup nodes removed by retention purges",
			},
			[]string{"backupset"},
		),

		LockWaitSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "holland",
				Subsystem: "spool",
				Name:      "lock_wait_seconds",
				Help:      "Time spent waiting to acquire a backupset's spool lock",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"backupset"},
		),

		LockDeniedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "holland",
				Subsystem: "spool",
				Name:      "lock_denied_total",
				Help:      "Total lock acquisitions denied because another process held the lock",
			},
			[]string{"backupset"},
		),

		SpoolFreeBytes: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "holland",
				Subsystem: "spool",
				Name:      "free_bytes",
				Help:      "Free space on the spool filesystem at the last estimation check",
			},
			[]string{"backupset"},
		),
	}
}
