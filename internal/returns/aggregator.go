package returns

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"StockReturns/internal/calculator"
	"StockReturns/internal/model"
	"StockReturns/internal/provider"
)

// DefaultWorkers bounds the per-batch fan-out when none is configured.
const DefaultWorkers = 4

type symbolResult struct {
	points  []model.ReturnPoint
	summary model.Summary
}

// Aggregate computes daily returns and summary statistics for every symbol over
// [start, end). Symbols are fetched concurrently, at most workers at a time.
// A symbol whose fetch fails or yields no usable pair gets an empty list and the
// zero summary; it never affects the others.
func Aggregate(ctx context.Context, p provider.Provider, symbols []string, start, end time.Time, workers int, logger *zap.Logger) *model.BatchResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]symbolResult, len(symbols))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, sym := range symbols {
		g.Go(func() error {
			series, err := p.FetchHistory(ctx, sym, start, end)
			if err != nil {
				logger.Warn("fetch failed", zap.String("symbol", sym), zap.Error(err))
				return nil
			}
			if len(series) == 0 {
				logger.Info("no data", zap.String("symbol", sym))
				return nil
			}
			points, raw := calculator.DailyReturns(series)
			results[i] = symbolResult{points: points, summary: calculator.Summarize(raw)}
			return nil
		})
	}
	_ = g.Wait() // workers never fail the group

	batch := model.NewBatchResult(symbols)
	for i, sym := range symbols {
		batch.Put(sym, results[i].points, results[i].summary)
	}
	return batch
}
