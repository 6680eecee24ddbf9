package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day returns the bar's calendar date in its own location.
func (b OHLCV) Day() string {
	return b.Time.Format(DateLayout)
}

// PriceSeries is a provider's daily history for one symbol, oldest first.
type PriceSeries []OHLCV

// Closes extracts the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}
