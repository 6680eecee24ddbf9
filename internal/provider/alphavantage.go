package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockReturns/internal/model"
)

// AlphaVantageBaseURL is the public Alpha Vantage API host.
const AlphaVantageBaseURL = "https://www.alphavantage.co"

const (
	avDailyFunction = "TIME_SERIES_DAILY"
	avSeriesSuffix  = "Time Series (Daily)"
	// compact output covers the latest 100 bars; older windows need the full history
	avCompactReach = 140 * 24 * time.Hour
)

// avMessageKeys carry API-level failures in an otherwise 200 response.
var avMessageKeys = []string{"Error Message", "Note", "Information"}

// AlphaVantageProvider implements Provider using the Alpha Vantage daily time series.
type AlphaVantageProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	now     func() time.Time
}

// NewAlphaVantageProvider creates a provider with optional proxy support.
func NewAlphaVantageProvider(baseURL, apiKey, proxyURL string, timeout time.Duration) *AlphaVantageProvider {
	if baseURL == "" {
		baseURL = AlphaVantageBaseURL
	}
	return &AlphaVantageProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
		now:     time.Now,
	}
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

func (p *AlphaVantageProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, upstreamErr(p.Name(), symbol, errors.New("empty symbol"))
	}

	outputSize := "compact"
	if p.now().Sub(start) > avCompactReach {
		outputSize = "full"
	}
	q := url.Values{}
	q.Set("function", avDailyFunction)
	q.Set("symbol", symbol)
	q.Set("outputsize", outputSize)
	q.Set("datatype", "json")
	q.Set("apikey", p.APIKey)
	endpoint := p.BaseURL + "/query?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, upstreamErr(p.Name(), symbol, err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, upstreamErr(p.Name(), symbol, fmt.Errorf("fetch: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamErr(p.Name(), symbol, fmt.Errorf("status %d", resp.StatusCode))
	}
	bars, err := parseDailySeries(resp.Body)
	if err != nil {
		return nil, upstreamErr(p.Name(), symbol, err)
	}
	return clip(bars, start, end), nil
}

func parseDailySeries(r io.Reader) (model.PriceSeries, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for _, k := range avMessageKeys {
		if msg, ok := raw[k]; ok {
			var s string
			_ = json.Unmarshal(msg, &s)
			return nil, fmt.Errorf("api error: %s", s)
		}
	}

	loc := time.UTC
	var meta map[string]string
	if err := json.Unmarshal(raw["Meta Data"], &meta); err == nil {
		if tz := findSuffix(meta, ". Time Zone"); tz != "" {
			loc = timeZone(meta[tz])
		}
	}

	var seriesKey string
	for k := range raw {
		if strings.HasSuffix(k, avSeriesSuffix) {
			seriesKey = k
			break
		}
	}
	if seriesKey == "" {
		return model.PriceSeries{}, nil
	}

	var elements map[string]map[string]string
	if err := json.Unmarshal(raw[seriesKey], &elements); err != nil {
		return nil, fmt.Errorf("decode time series: %w", err)
	}

	bars := make(model.PriceSeries, 0, len(elements))
	for date, values := range elements {
		ts, err := time.ParseInLocation(model.DateLayout, date, loc)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		closeKey := findSuffix(values, ". close")
		if closeKey == "" {
			return nil, fmt.Errorf("no close for %s", date)
		}
		bars = append(bars, model.OHLCV{
			Time:   ts,
			Open:   parseFloat(values[findSuffix(values, ". open")]),
			High:   parseFloat(values[findSuffix(values, ". high")]),
			Low:    parseFloat(values[findSuffix(values, ". low")]),
			Close:  parseFloat(values[closeKey]),
			Volume: parseFloat(values[findSuffix(values, ". volume")]),
		})
	}
	return bars, nil
}

// findSuffix returns the key ending in suffix, ignoring the numbered prefix Alpha Vantage uses.
func findSuffix(m map[string]string, suffix string) string {
	for k := range m {
		if strings.HasSuffix(strings.ToLower(k), strings.ToLower(suffix)) {
			return k
		}
	}
	return ""
}

func timeZone(name string) *time.Location {
	if strings.EqualFold(name, "US/Eastern") {
		name = "America/New_York"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseFloat(val string) float64 {
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return 0
}
