package calculator

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"StockReturns/internal/model"
)

// DailyReturns computes one return per adjacent pair of bars, dated with the later bar.
// Pairs whose earlier close is zero are skipped. The raw returns are returned alongside
// the rounded points so statistics can use full precision.
func DailyReturns(series model.PriceSeries) (points []model.ReturnPoint, raw []float64) {
	points = make([]model.ReturnPoint, 0, len(series))
	raw = make([]float64, 0, len(series))
	for i := 1; i < len(series); i++ {
		r, err := CalculateReturn(series[i].Close, series[i-1].Close)
		if err != nil {
			continue
		}
		raw = append(raw, r)
		points = append(points, model.ReturnPoint{
			Date:   series[i].Day(),
			Return: RoundTo(r, ReturnPlaces),
		})
	}
	return points, raw
}

// Summarize returns min, max and mean of the returns rounded to ReturnPlaces.
// An empty input yields the zero sentinel.
func Summarize(returns []float64) model.Summary {
	if len(returns) == 0 {
		return model.Summary{}
	}
	return model.Summary{
		Min:  RoundTo(floats.Min(returns), ReturnPlaces),
		Max:  RoundTo(floats.Max(returns), ReturnPlaces),
		Mean: RoundTo(stat.Mean(returns, nil), ReturnPlaces),
	}
}
