package cache

import (
	"context"
	"fmt"
)

// Stats is the hit/miss snapshot exposed by the stats endpoint.
type Stats struct {
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	HitRate string `json:"hitRate"`
}

// Metrics keeps the listing cache hit and miss counters in the store itself so that every
// instance sharing the store contributes to the same totals.
type Metrics struct {
	store Store
}

func NewMetrics(store Store) *Metrics {
	return &Metrics{store: store}
}

func (m *Metrics) RecordHit(ctx context.Context) error {
	_, err := m.store.Incr(ctx, HitsKey)
	return err
}

func (m *Metrics) RecordMiss(ctx context.Context) error {
	_, err := m.store.Incr(ctx, MissesKey)
	return err
}

func (m *Metrics) Snapshot(ctx context.Context) (Stats, error) {
	hits, err := m.store.GetInt(ctx, HitsKey)
	if err != nil {
		return Stats{}, err
	}
	misses, err := m.store.GetInt(ctx, MissesKey)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Hits: hits, Misses: misses, HitRate: FormatHitRate(hits, misses)}, nil
}

func (m *Metrics) Reset(ctx context.Context) error {
	return m.store.Delete(ctx, HitsKey, MissesKey)
}

// FormatHitRate renders hits/(hits+misses)*100 with two decimals, "0.00" before any lookup.
func FormatHitRate(hits, misses int64) string {
	total := hits + misses
	if total <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(hits)/float64(total)*100)
}
