package redis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jobs_provider_cache_lookups_total",
	Help: "Provider response cache lookups by result (hit, miss, error).",
}, []string{"result"})
