// Package metrics records HTTP engine activity as Prometheus metrics.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	vrahttp "github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vra_client"

// codeError labels hops that produced no response.
const codeError = "error"

// Collector implements vrahttp.Observer.
type Collector struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	redirects *prometheus.CounterVec
}

// NewCollector creates the engine metrics and registers them on reg. A nil
// reg leaves them unregistered. Metrics already registered on reg by another
// client are shared.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	collector := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests executed, one per hop.",
		}, []string{"method", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of single HTTP hops.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_redirects_total",
			Help:      "Redirects followed by kind.",
		}, []string{"kind"}),
	}

	if reg == nil {
		return collector, nil
	}

	var err error

	collector.requests, err = register(reg, collector.requests)
	if err != nil {
		return nil, err
	}

	collector.durations, err = register(reg, collector.durations)
	if err != nil {
		return nil, err
	}

	collector.redirects, err = register(reg, collector.redirects)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, fmt.Errorf("registering metrics: %w", err)
}

// ObserveRequest implements vrahttp.Observer.
func (c *Collector) ObserveRequest(method string, statusCode int, duration time.Duration) {
	code := codeError
	if statusCode != 0 {
		code = strconv.Itoa(statusCode)
	}

	c.requests.WithLabelValues(method, code).Inc()
	c.durations.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveRedirect implements vrahttp.Observer.
func (c *Collector) ObserveRedirect(kind string) {
	c.redirects.WithLabelValues(kind).Inc()
}

var _ vrahttp.Observer = (*Collector)(nil)
