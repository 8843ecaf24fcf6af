package backend

import (
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var idSegment = regexp.MustCompile(`/\d+(/|$)`)

// Metrics counts and times backend calls.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the backend collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Backend API calls by endpoint, method and status code.",
		}, []string{"endpoint", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "backend",
			Name:      "request_seconds",
			Help:      "Backend API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// endpointLabel replaces numeric ids so the label set stays bounded.
func endpointLabel(endpoint string) string {
	for idSegment.MatchString(endpoint) {
		endpoint = idSegment.ReplaceAllString(endpoint, "/:id$1")
	}
	return endpoint
}

func (m *Metrics) observe(endpoint, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	endpoint = endpointLabel(endpoint)
	m.requests.WithLabelValues(endpoint, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
