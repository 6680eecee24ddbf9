package calculator

import "github.com/shopspring/decimal"

const (
	// ReturnPlaces is the precision of every published return.
	ReturnPlaces = 6
	// PricePlaces is the precision of displayed prices.
	PricePlaces = 2
)

// CalculateReturn computes the fractional change from previous to current.
func CalculateReturn(current, previous float64) (float64, error) {
	if previous == 0 {
		return 0, ErrZeroPreviousPrice
	}
	return (current - previous) / previous, nil
}

// RoundTo rounds v to the given decimal places, half away from zero.
func RoundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
