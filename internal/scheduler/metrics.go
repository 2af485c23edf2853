package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_sync_runs_total",
		Help: "Scheduled sync cycles by outcome.",
	}, []string{"outcome"})

	syncedJobs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobs_synced_total",
		Help: "Jobs fetched by scheduled sync cycles.",
	})
)
