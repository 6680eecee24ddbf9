package returns

import (
	"sync"
	"time"

	"StockReturns/internal/model"
	"StockReturns/internal/recorder"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// week1 is the first trading week of 2024 plus the following Monday.
func week1() model.PriceSeries {
	dates := []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-08"}
	closes := []float64{100, 105, 103, 108, 110}
	s := make(model.PriceSeries, len(dates))
	for i := range dates {
		s[i] = model.OHLCV{Time: day(dates[i]), Close: closes[i]}
	}
	return s
}

type memRecorder struct {
	mu      sync.Mutex
	tickers []*model.ReturnRecord
	batches []*recorder.BatchRun
}

func (m *memRecorder) RecordTickerReturn(rec *model.ReturnRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickers = append(m.tickers, rec)
	return nil
}

func (m *memRecorder) RecordBatch(run *recorder.BatchRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, run)
	return nil
}

func (m *memRecorder) Close() error { return nil }
