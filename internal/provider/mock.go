package provider

import (
	"context"
	"sync/atomic"
	"time"

	"StockReturns/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// Symbols in Errors fail, symbols in Data return their series clipped to the
// window, anything else gets generated weekday bars around BasePrice (or
// nothing when BasePrice is zero).
type MockProvider struct {
	BasePrice float64
	Data      map[string]model.PriceSeries
	Errors    map[string]error

	calls atomic.Int64
}

func (m *MockProvider) Name() string { return "mock" }

// Calls returns how many times FetchHistory has been invoked.
func (m *MockProvider) Calls() int { return int(m.calls.Load()) }

func (m *MockProvider) FetchHistory(_ context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	m.calls.Add(1)
	if err, ok := m.Errors[symbol]; ok {
		return nil, upstreamErr(m.Name(), symbol, err)
	}
	if data, ok := m.Data[symbol]; ok {
		return clip(append(model.PriceSeries(nil), data...), start, end), nil
	}
	if m.BasePrice <= 0 {
		return model.PriceSeries{}, nil
	}
	return generateMockBars(m.BasePrice+float64(len(symbol)), start, end), nil
}

func generateMockBars(basePrice float64, start, end time.Time) model.PriceSeries {
	var bars model.PriceSeries
	for d, i := start, 0; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i%7-3)*0.004)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	if bars == nil {
		return model.PriceSeries{}
	}
	return bars
}
