package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-arcade/roleadmin/pkg/bizerr"
)

const namespace = "roleadmin"

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enable bool
	Path   string
}

func (c *MetricsConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

// Metrics owns the prometheus registry exposed by the admin server
type Metrics struct {
	config     MetricsConfig
	registry   *prometheus.Registry
	collectors []prometheus.Collector
	mu         sync.Mutex
}

// NewMetrics creates a registry with the Go and process collectors
func NewMetrics(config MetricsConfig) *Metrics {
	config.SetDefaults()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Metrics{
		config:     config,
		registry:   registry,
		collectors: make([]prometheus.Collector, 0),
	}
}

// RegisterCollector registers a prometheus collector
func (m *Metrics) RegisterCollector(collector prometheus.Collector) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.registry.Register(collector); err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}
	m.collectors = append(m.collectors, collector)
	return nil
}

func (m *Metrics) Enabled() bool {
	return m.config.Enable
}

func (m *Metrics) Path() string {
	return m.config.Path
}

// Handler serves the registry on a fiber route
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}

// GetRegistry returns the prometheus registry
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// RoleMetrics records role administration calls.
type RoleMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewRoleMetrics() *RoleMetrics {
	return &RoleMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "role",
			Name:      "operations_total",
			Help:      "Role administration operations by result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "role",
			Name:      "operation_seconds",
			Help:      "Role administration operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (r *RoleMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{r.operations, r.duration}
}

// Observe records one call of op. A nil receiver is a no-op.
func (r *RoleMetrics) Observe(op string, start time.Time, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = bizerr.KindOf(err).String()
	}
	r.operations.WithLabelValues(op, result).Inc()
	r.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
