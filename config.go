package onion

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teenjuna/onion/retry"
)

type Option = func(*config)

// WithFile stores carriers and layer outputs in a SQLite file instead of memory.
func WithFile(file *FileConfig) Option {
	if file == nil {
		panic("file can't be nil")
	}
	return func(c *config) {
		c.file = file
	}
}

// WithRetryPolicy sets the policy used when a source fails to provide a carrier.
func WithRetryPolicy(policy retry.Policy) Option {
	if policy == nil {
		panic("policy can't be nil")
	}
	return func(c *config) {
		c.retryPolicy = policy
	}
}

// WithDepth sets how many layers Peel goes through, starting with Layer0.
func WithDepth(depth int) Option {
	if depth < 1 {
		panic("depth can't be < 1")
	}
	if depth > layerCount {
		panic("depth can't exceed the number of layers")
	}
	return func(c *config) {
		c.depth = depth
	}
}

func WithPrometheus(prometheus *PrometheusConfig) Option {
	if prometheus == nil {
		panic("prometheus can't be nil")
	}
	return func(c *config) {
		c.prometheus = prometheus
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	if logger == nil {
		panic("logger can't be nil")
	}
	return func(c *config) {
		c.logger = logger
	}
}

type config struct {
	file        *FileConfig
	retryPolicy retry.Policy
	depth       int
	prometheus  *PrometheusConfig
	logger      logrus.FieldLogger
}

func newConfig(options ...Option) *config {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	options = append([]Option{
		WithRetryPolicy(retry.Exponential(3, time.Second, 10*time.Second)),
		WithDepth(layerCount),
		WithPrometheus(Prometheus(nil)),
		WithLogger(silent),
	}, options...)

	cfg := config{}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}
