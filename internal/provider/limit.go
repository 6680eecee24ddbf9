package provider

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"StockReturns/internal/model"
)

type limited struct {
	Provider
	sem *semaphore.Weighted
}

// Limit bounds the number of concurrent FetchHistory calls across all callers of
// the returned provider. n <= 0 returns p unchanged.
func Limit(p Provider, n int) Provider {
	if n <= 0 {
		return p
	}
	return &limited{Provider: p, sem: semaphore.NewWeighted(int64(n))}
}

func (l *limited) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for %s slot: %w", l.Name(), err)
	}
	defer l.sem.Release(1)
	return l.Provider.FetchHistory(ctx, symbol, start, end)
}
