// Package health tracks how reliably each Mall notification host accepts
// deliveries, so operators hear about a failing host once instead of per order.
package health

import (
	"context"
	"time"
)

const fullRate = 100.0

type Tracker struct {
	store     Store
	strategy  Strategy
	threshold float64 // e.g. 60.0
	ttl       time.Duration
}

func NewTracker(store Store, strategy Strategy, threshold float64, ttl time.Duration) *Tracker {
	if strategy == nil {
		strategy = EWMAStrategy{Alpha: 0.1}
	}
	return &Tracker{store: store, strategy: strategy, threshold: threshold, ttl: ttl}
}

// Record folds one delivery outcome into host's rate. tripped is true only for
// the call that first took the rate under the threshold; the flag clears once
// the rate climbs back.
func (t *Tracker) Record(ctx context.Context, host string, success bool) (rate float64, tripped bool, err error) {
	current, ok, err := t.store.Rate(ctx, host)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		current = fullRate
	}
	rate = t.strategy.Update(current, success)
	if err := t.store.SaveRate(ctx, host, rate, t.ttl); err != nil {
		return rate, false, err
	}
	if rate < t.threshold {
		tripped, err = t.store.MarkDegraded(ctx, host, t.ttl)
		return rate, tripped, err
	}
	return rate, false, t.store.ClearDegraded(ctx, host)
}

// Degraded reports whether host is currently under the threshold. Store
// errors read as healthy.
func (t *Tracker) Degraded(ctx context.Context, host string) bool {
	d, err := t.store.Degraded(ctx, host)
	return err == nil && d
}
