package calculator

import (
	"time"

	"StockReturns/internal/model"
)

// LookbackDays is how far before the target date a single-day fetch reaches,
// enough to cover a long weekend plus a holiday.
const LookbackDays = 5

// LookupWindow returns the [start, end) fetch window for a single-day lookup.
func LookupWindow(target time.Time) (start, end time.Time) {
	d := civil(target)
	return d.AddDate(0, 0, -LookbackDays), d.AddDate(0, 0, 1)
}

// ResolveTradingDay finds the bar for target (or the last trading day before it)
// and the bar immediately preceding it.
func ResolveTradingDay(series model.PriceSeries, target time.Time) (anchor, previous model.OHLCV, err error) {
	if len(series) == 0 {
		return anchor, previous, ErrNoDataAvailable
	}

	day := civil(target)
	// a target past every bar resolves to the last bar
	idx := len(series) - 1
	for i, bar := range series {
		d := civil(bar.Time)
		if d.Equal(day) {
			idx = i
			break
		}
		if d.After(day) {
			// first bar past the target; the one before it is the anchor
			idx = i - 1
			break
		}
	}

	// idx < 0: every bar is after the target, so the anchor cannot be placed
	if idx <= 0 {
		return anchor, previous, ErrNoPreviousTradingDay
	}
	return series[idx], series[idx-1], nil
}

// civil drops the clock and location, keeping the calendar date as seen in t's location.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
