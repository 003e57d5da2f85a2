package obs

import (
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label is a key/value pair attached to measurements.
type Label struct {
	Key   string
	Value string
}

// Meter is a very small interface for emitting counters/histograms.
// Implementations may no-op or bridge to a metrics system.
type Meter interface {
	Counter(name string, value float64, labels ...Label)
	Histogram(name string, value float64, labels ...Label)
}

// NopMeter is a Meter that discards all measurements.
type NopMeter struct{}

func (NopMeter) Counter(name string, value float64, labels ...Label)   {}
func (NopMeter) Histogram(name string, value float64, labels ...Label) {}

// PromMeter bridges Meter onto a private Prometheus registry. Collectors
// are created on first use per metric name; a given name must always be
// emitted with the same label keys.
type PromMeter struct {
	reg *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPromMeter returns a PromMeter with the standard Go and process
// collectors already registered.
func NewPromMeter() *PromMeter {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &PromMeter{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PromMeter) Counter(name string, value float64, labels ...Label) {
	m.mu.Lock()
	cv, ok := m.counters[name]
	if !ok {
		cv = prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: name, Help: name},
			labelKeys(labels),
		)
		m.reg.MustRegister(cv)
		m.counters[name] = cv
	}
	m.mu.Unlock()
	cv.With(labelValues(labels)).Add(value)
}

func (m *PromMeter) Histogram(name string, value float64, labels ...Label) {
	m.mu.Lock()
	hv, ok := m.histograms[name]
	if !ok {
		hv = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: name, Help: name, Buckets: prometheus.DefBuckets},
			labelKeys(labels),
		)
		m.reg.MustRegister(hv)
		m.histograms[name] = hv
	}
	m.mu.Unlock()
	hv.With(labelValues(labels)).Observe(value)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PromMeter) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Start exposes /metrics on its own listener and blocks until the listener
// fails.
func (m *PromMeter) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.Serve(ln, mux)
}

func labelKeys(labels []Label) []string {
	keys := make([]string, len(labels))
	for i, l := range labels {
		keys[i] = l.Key
	}
	return keys
}

func labelValues(labels []Label) prometheus.Labels {
	values := make(prometheus.Labels, len(labels))
	for _, l := range labels {
		values[l.Key] = l.Value
	}
	return values
}
