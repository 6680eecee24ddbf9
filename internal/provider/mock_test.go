package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockReturns/internal/model"
)

func TestMockProvider_GeneratesWeekdays(t *testing.T) {
	m := &MockProvider{BasePrice: 100}
	bars, err := m.FetchHistory(context.Background(), "AAPL", utcDay("2024-01-01"), utcDay("2024-01-08"))
	require.NoError(t, err)
	require.Len(t, bars, 5)
	for _, b := range bars {
		assert.NotEqual(t, time.Saturday, b.Time.Weekday())
		assert.NotEqual(t, time.Sunday, b.Time.Weekday())
		assert.Greater(t, b.Close, 0.0)
	}
	assert.Equal(t, 1, m.Calls())
}

func TestMockProvider_ZeroBasePriceIsEmpty(t *testing.T) {
	m := &MockProvider{}
	bars, err := m.FetchHistory(context.Background(), "AAPL", utcDay("2024-01-01"), utcDay("2024-01-08"))
	require.NoError(t, err)
	assert.NotNil(t, bars)
	assert.Empty(t, bars)
}

func TestMockProvider_FixedDataIsClipped(t *testing.T) {
	data := model.PriceSeries{
		{Time: utcDay("2024-01-04"), Close: 102},
		{Time: utcDay("2024-01-02"), Close: 100},
		{Time: utcDay("2024-01-03"), Close: 101},
	}
	m := &MockProvider{Data: map[string]model.PriceSeries{"AAPL": data}}

	bars, err := m.FetchHistory(context.Background(), "AAPL", utcDay("2024-01-02"), utcDay("2024-01-04"))
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101}, bars.Closes())
	// the fixture itself is left untouched
	assert.Equal(t, 102.0, data[0].Close)
}

func TestMockProvider_Errors(t *testing.T) {
	m := &MockProvider{BasePrice: 100, Errors: map[string]error{"TSLA": errors.New("rate limited")}}
	_, err := m.FetchHistory(context.Background(), "TSLA", utcDay("2024-01-01"), utcDay("2024-01-08"))
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "mock TSLA: rate limited", err.Error())
}

func TestNew(t *testing.T) {
	p, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, "yahoo", p.Name())

	p, err = New(Options{Name: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	_, err = New(Options{Name: "alphavantage"})
	assert.Error(t, err)

	p, err = New(Options{Name: "alphavantage", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "alphavantage", p.Name())

	_, err = New(Options{Name: "bloomberg"})
	assert.Error(t, err)
}
