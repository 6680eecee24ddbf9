package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockReturns/internal/model"
)

// YahooBaseURL is the public Yahoo Finance API host.
const YahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider implements Provider using the Yahoo Finance chart API.
type YahooProvider struct {
	BaseURL  string
	Client   *http.Client
	Adjusted bool // use split/dividend adjusted closes when the API returns them
}

// NewYahooProvider creates a Yahoo provider with optional proxy support.
func NewYahooProvider(baseURL, proxyURL string, timeout time.Duration, adjusted bool) *YahooProvider {
	if baseURL == "" {
		baseURL = YahooBaseURL
	}
	return &YahooProvider{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   newHTTPClient(proxyURL, timeout),
		Adjusted: adjusted,
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API. Missing values come back as null.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				GMTOffset            int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, upstreamErr(p.Name(), symbol, errors.New("empty symbol"))
	}

	q := url.Values{}
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("interval", "1d")
	q.Set("events", "history")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, upstreamErr(p.Name(), symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, upstreamErr(p.Name(), symbol, fmt.Errorf("fetch: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstreamErr(p.Name(), symbol, fmt.Errorf("read body: %w", err))
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if chart.Chart.Error != nil {
		return nil, upstreamErr(p.Name(), symbol, fmt.Errorf("api error: %s", chart.Chart.Error.Description))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamErr(p.Name(), symbol, fmt.Errorf("status %d", resp.StatusCode))
	}
	if decodeErr != nil {
		return nil, upstreamErr(p.Name(), symbol, fmt.Errorf("decode: %w", decodeErr))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return model.PriceSeries{}, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return model.PriceSeries{}, nil
	}
	quote := result.Indicators.Quote[0]
	var adj []*float64
	if p.Adjusted && len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	loc := time.FixedZone("", result.Meta.GMTOffset)
	if l, err := time.LoadLocation(result.Meta.ExchangeTimezoneName); err == nil && result.Meta.ExchangeTimezoneName != "" {
		loc = l
	}

	bars := make(model.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if a := at(adj, i); a != nil {
			c = a
		}
		if c == nil {
			continue // no close for this day (halted, holiday row)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).In(loc),
			Open:   value(at(quote.Open, i)),
			High:   value(at(quote.High, i)),
			Low:    value(at(quote.Low, i)),
			Close:  *c,
			Volume: value(at(quote.Volume, i)),
		})
	}
	return clip(bars, start, end), nil
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
