package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const avDailyJSON = `{
  "Meta Data": {
    "1. Information": "Daily Prices (open, high, low, close) and Volumes",
    "2. Symbol": "MSFT",
    "3. Last Refreshed": "2024-01-05",
    "4. Output Size": "Compact",
    "5. Time Zone": "US/Eastern"
  },
  "Time Series (Daily)": {
    "2024-01-05": {"1. open": "368.97", "2. high": "372.06", "3. low": "366.50", "4. close": "367.75", "5. volume": "20987003"},
    "2024-01-03": {"1. open": "369.01", "2. high": "373.26", "3. low": "368.51", "4. close": "370.60", "5. volume": "23083465"},
    "2024-01-04": {"1. open": "370.67", "2. high": "373.10", "3. low": "367.17", "4. close": "367.94", "5. volume": "20901503"},
    "2024-01-02": {"1. open": "373.86", "2. high": "375.90", "3. low": "366.77", "4. close": "370.87", "5. volume": "25258600"}
  }
}`

func newTestAlphaVantage(url string) *AlphaVantageProvider {
	p := NewAlphaVantageProvider(url, "demo", "", 5*time.Second)
	p.now = func() time.Time { return utcDay("2024-01-08") }
	return p
}

func TestAlphaVantageProvider_FetchHistory(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(avDailyJSON))
	}))
	defer srv.Close()

	p := newTestAlphaVantage(srv.URL)
	bars, err := p.FetchHistory(context.Background(), "MSFT", utcDay("2024-01-03"), utcDay("2024-01-06"))
	require.NoError(t, err)

	assert.Equal(t, "TIME_SERIES_DAILY", query["function"][0])
	assert.Equal(t, "MSFT", query["symbol"][0])
	assert.Equal(t, "compact", query["outputsize"][0])
	assert.Equal(t, "demo", query["apikey"][0])

	require.Len(t, bars, 3)
	assert.Equal(t, "2024-01-03", bars[0].Day())
	assert.Equal(t, "2024-01-05", bars[2].Day())
	assert.Equal(t, []float64{370.60, 367.94, 367.75}, bars.Closes())
	assert.Equal(t, 20901503.0, bars[1].Volume)
}

func TestAlphaVantageProvider_FullOutputForOldWindows(t *testing.T) {
	var outputSize string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outputSize = r.URL.Query().Get("outputsize")
		_, _ = w.Write([]byte(avDailyJSON))
	}))
	defer srv.Close()

	p := newTestAlphaVantage(srv.URL)
	_, err := p.FetchHistory(context.Background(), "MSFT", utcDay("2023-01-03"), utcDay("2023-01-06"))
	require.NoError(t, err)
	assert.Equal(t, "full", outputSize)
}

func TestAlphaVantageProvider_RateLimitNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	}))
	defer srv.Close()

	p := newTestAlphaVantage(srv.URL)
	_, err := p.FetchHistory(context.Background(), "MSFT", utcDay("2024-01-03"), utcDay("2024-01-06"))
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "alphavantage", upErr.Provider)
	assert.Contains(t, err.Error(), "call frequency")
}

func TestAlphaVantageProvider_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error Message": "Invalid API call. Please retry or visit the documentation (https://www.alphavantage.co/documentation/) for TIME_SERIES_DAILY."}`))
	}))
	defer srv.Close()

	p := newTestAlphaVantage(srv.URL)
	_, err := p.FetchHistory(context.Background(), "NOPE", utcDay("2024-01-03"), utcDay("2024-01-06"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API call")
}

func TestParseDailySeries_NoSeries(t *testing.T) {
	bars, err := parseDailySeries(strings.NewReader(`{"Meta Data": {}}`))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestParseDailySeries_BadDate(t *testing.T) {
	_, err := parseDailySeries(strings.NewReader(`{"Time Series (Daily)": {"01/02/2024": {"4. close": "1"}}}`))
	assert.Error(t, err)
}
