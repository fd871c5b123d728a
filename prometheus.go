package onion

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the peeler.
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the peeled layers counter.
	LayersPeeled prometheus.CounterOpts
	// Options for the decoded bytes counter.
	BytesIn prometheus.CounterOpts
	// Options for the output bytes counter.
	BytesOut prometheus.CounterOpts
	// Options for the counter of bytes dropped by the parity filter.
	ParityDiscarded prometheus.CounterOpts
	// Options for the counter of packed outputs ending with a partial group.
	ShortGroups prometheus.CounterOpts
	// Options for the source fetches counter.
	Fetches prometheus.CounterOpts
	// Options for the cached carriers counter.
	CacheHits prometheus.CounterOpts
	// Options for the peel duration histogram.
	PeelDuration prometheus.HistogramOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Many default parameters can be configured by passing
// configuration functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	const (
		namespace = "onion"
		subsystem = ""
	)

	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		LayersPeeled: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "layers_peeled",
			Help:      "Number of peeled layers",
		},
		BytesIn: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_in",
			Help:      "Number of bytes decoded from layer payloads",
		},
		BytesOut: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_out",
			Help:      "Number of bytes produced by layers",
		},
		ParityDiscarded: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "parity_discarded",
			Help:      "Number of bytes dropped because of a wrong parity bit",
		},
		ShortGroups: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "short_groups",
			Help:      "Number of packed outputs whose last group had less than 8 bytes",
		},
		Fetches: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fetches",
			Help:      "Number of carrier fetches from the source",
		},
		CacheHits: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_hits",
			Help:      "Number of carriers served from the cache",
		},
		PeelDuration: prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "peel_duration",
			Help:      "Duration of peeling a single layer in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	m := metrics{
		layersPeeled:    prometheus.NewCounterVec(c.LayersPeeled, []string{"layer"}),
		bytesIn:         prometheus.NewCounterVec(c.BytesIn, []string{"layer"}),
		bytesOut:        prometheus.NewCounterVec(c.BytesOut, []string{"layer"}),
		parityDiscarded: prometheus.NewCounter(c.ParityDiscarded),
		shortGroups:     prometheus.NewCounter(c.ShortGroups),
		fetches:         prometheus.NewCounterVec(c.Fetches, []string{"result"}),
		cacheHits:       prometheus.NewCounter(c.CacheHits),
		peelDuration:    prometheus.NewHistogram(c.PeelDuration),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.layersPeeled,
			m.bytesIn,
			m.bytesOut,
			m.parityDiscarded,
			m.shortGroups,
			m.fetches,
			m.cacheHits,
			m.peelDuration,
		)
	}

	return &m
}

type metrics struct {
	layersPeeled    *prometheus.CounterVec
	bytesIn         *prometheus.CounterVec
	bytesOut        *prometheus.CounterVec
	parityDiscarded prometheus.Counter
	shortGroups     prometheus.Counter
	fetches         *prometheus.CounterVec
	cacheHits       prometheus.Counter
	peelDuration    prometheus.Histogram
}
