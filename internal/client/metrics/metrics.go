// Package metrics collects client-side Prometheus metrics: backend round
// trips and responses discarded as stale by views.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	gatherer prometheus.Gatherer

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	staleDrops *prometheus.CounterVec
}

// NewCollector registers the client metrics with reg. reg must also be a
// Gatherer for WriteSummary and Handler to see anything.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zamazon_client_requests_total",
			Help: "Backend requests by method, endpoint and status code (0 = no response).",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zamazon_client_request_duration_seconds",
			Help:    "Backend round trip latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		staleDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zamazon_client_stale_responses_total",
			Help: "Responses discarded because a newer one was already applied.",
		}, []string{"view"}),
	}

	reg.MustRegister(c.requests, c.latency, c.staleDrops)
	return c
}

// ObserveRequest implements client.Observer.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (c *Collector) RecordStale(view string) {
	c.staleDrops.WithLabelValues(view).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// WriteSummary prints the request and stale counters as plain lines.
func (c *Collector) WriteSummary(w io.Writer) error {
	families, err := c.gatherer.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, mf := range families {
		switch mf.GetName() {
		case "zamazon_client_requests_total", "zamazon_client_stale_responses_total":
		default:
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s%s %v", mf.GetName(), labels, m.GetCounter().GetValue()))
		}
	}

	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, "no requests yet")
		return err
	}

	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
