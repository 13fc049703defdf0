package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	WeatherFetches    *prometheus.CounterVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	ProviderSeconds   *prometheus.HistogramVec
	SearchSeconds     *prometheus.HistogramVec
	PropertiesScanned prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		WeatherFetches: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "warden_weather_fetches_total",
			Help: "Total number of weather fetch attempts by outcome.",
		}, []string{"status"}),
		CacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "warden_weather_cache_hits_total",
			Help: "Total number of weather cache hits.",
		}),
		CacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "warden_weather_cache_misses_total",
			Help: "Total number of weather cache misses.",
		}),
		ProviderSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warden_provider_request_duration_seconds",
			Help:    "Duration of requests to the conditions provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		SearchSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warden_search_duration_seconds",
			Help:    "Duration of property searches by query path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		PropertiesScanned: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "warden_properties_scanned_total",
			Help: "Total number of properties scanned during batched weather filtering.",
		}),
	}
}
