package cache

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const collectTimeout = 2 * time.Second

// Collector exports the shared hit/miss counters to Prometheus. Values are read from the
// store on every scrape, so all instances report the same cluster-wide totals.
type Collector struct {
	metrics *Metrics

	hits   *prometheus.Desc
	misses *prometheus.Desc
}

func NewCollector(metrics *Metrics) *Collector {
	return &Collector{
		metrics: metrics,
		hits: prometheus.NewDesc(
			"board_cache_hits_total",
			"Post listing cache hits recorded in the shared store.",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			"board_cache_misses_total",
			"Post listing cache misses recorded in the shared store.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	stats, err := c.metrics.Snapshot(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.hits, err)
		ch <- prometheus.NewInvalidMetric(c.misses, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
}
