// Package returns serves single-ticker and batch return queries through the caches.
package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"StockReturns/internal/cache"
	"StockReturns/internal/calculator"
	"StockReturns/internal/model"
	"StockReturns/internal/provider"
	"StockReturns/internal/recorder"
)

// Messages carried by error records.
const (
	MsgNoData        = "No data available"
	MsgNoPreviousDay = "No previous trading day available"
	MsgZeroPrevious  = "Previous price is zero"
)

// Service answers return queries, consulting the caches before the provider.
type Service struct {
	Provider provider.Provider
	Tickers  *cache.Expiring[*model.ReturnRecord]
	Batches  *cache.Expiring[*model.BatchResult]
	Recorder recorder.Recorder
	Symbols  []string
	Workers  int

	logger *zap.Logger
}

// NewService creates a Service over the default basket.
func NewService(p provider.Provider, tickers *cache.Expiring[*model.ReturnRecord], batches *cache.Expiring[*model.BatchResult], rec recorder.Recorder, logger *zap.Logger) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{
		Provider: p,
		Tickers:  tickers,
		Batches:  batches,
		Recorder: rec,
		Symbols:  model.DefaultSymbols,
		Workers:  DefaultWorkers,
		logger:   logger.With(zap.String("component", "returns")),
	}
}

// TickerReturn returns the record for symbol on date, resolving weekends and
// holidays to the last trading day on or before it. Domain failures come back as
// error records; the returned error is reserved for failures outside the domain
// (a cancelled wait for a provider slot, for instance).
func (s *Service) TickerReturn(ctx context.Context, symbol string, date time.Time) (*model.ReturnRecord, error) {
	sym := strings.ToUpper(symbol)
	day := date.Format(model.DateLayout)
	key := cache.Key("ticker", sym, day)

	if rec, ok := s.Tickers.Get(key); ok {
		s.logger.Debug("ticker cache hit", zap.String("key", key))
		return rec, nil
	}

	start, end := calculator.LookupWindow(date)
	series, err := s.Provider.FetchHistory(ctx, sym, start, end)
	if err != nil {
		var upErr *provider.UpstreamError
		if !errors.As(err, &upErr) {
			return nil, fmt.Errorf("fetch %s: %w", sym, err)
		}
		s.logger.Warn("upstream failure", zap.String("symbol", sym), zap.String("date", day), zap.Error(err))
		// transient; not cached so the next request retries upstream
		rec := model.NewErrorRecord(sym, day, err.Error())
		s.record(rec)
		return rec, nil
	}

	rec := resolve(sym, day, series, date)
	s.Tickers.Set(key, rec)
	s.record(rec)
	return rec, nil
}

func resolve(sym, day string, series model.PriceSeries, date time.Time) *model.ReturnRecord {
	anchor, previous, err := calculator.ResolveTradingDay(series, date)
	if err != nil {
		return model.NewErrorRecord(sym, day, recordMessage(err))
	}
	ret, err := calculator.CalculateReturn(anchor.Close, previous.Close)
	if err != nil {
		return model.NewErrorRecord(sym, day, recordMessage(err))
	}
	return model.NewReturnRecord(sym, day,
		calculator.RoundTo(ret, calculator.ReturnPlaces),
		calculator.RoundTo(anchor.Close, calculator.PricePlaces),
		calculator.RoundTo(previous.Close, calculator.PricePlaces),
	)
}

func recordMessage(err error) string {
	switch {
	case errors.Is(err, calculator.ErrNoDataAvailable):
		return MsgNoData
	case errors.Is(err, calculator.ErrNoPreviousTradingDay):
		return MsgNoPreviousDay
	case errors.Is(err, calculator.ErrZeroPreviousPrice):
		return MsgZeroPrevious
	default:
		return err.Error()
	}
}

// Returns computes the basket's daily returns over [start, end), served from
// the batch cache when possible.
func (s *Service) Returns(ctx context.Context, start, end time.Time) (*model.BatchResult, error) {
	key := cache.Key("returns", start.Format(model.DateLayout), end.Format(model.DateLayout))
	if res, ok := s.Batches.Get(key); ok {
		s.logger.Debug("returns cache hit", zap.String("key", key))
		return res, nil
	}
	s.logger.Info("returns cache miss", zap.String("key", key))
	return s.computeReturns(ctx, key, start, end, recorder.SourceRequest)
}

// Warm recomputes the window and overwrites its cache entry.
func (s *Service) Warm(ctx context.Context, start, end time.Time) (*model.BatchResult, error) {
	key := cache.Key("returns", start.Format(model.DateLayout), end.Format(model.DateLayout))
	return s.computeReturns(ctx, key, start, end, recorder.SourceWarmup)
}

func (s *Service) computeReturns(ctx context.Context, key string, start, end time.Time, source string) (*model.BatchResult, error) {
	res := Aggregate(ctx, s.Provider, s.Symbols, start, end, s.Workers, s.logger)
	// a cancelled request leaves every symbol empty; don't cache that
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compute returns: %w", err)
	}
	s.Batches.Set(key, res)

	if err := s.Recorder.RecordBatch(&recorder.BatchRun{
		Start:  start.Format(model.DateLayout),
		End:    end.Format(model.DateLayout),
		Source: source,
		Result: res,
	}); err != nil {
		s.logger.Error("record batch", zap.Error(err))
	}
	return res, nil
}

func (s *Service) record(rec *model.ReturnRecord) {
	if err := s.Recorder.RecordTickerReturn(rec); err != nil {
		s.logger.Error("record ticker return", zap.String("symbol", rec.Symbol), zap.Error(err))
	}
}
