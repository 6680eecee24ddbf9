// Package provider fetches daily price history from upstream market-data services.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockReturns/internal/model"
)

// Provider returns the daily bars of one symbol whose dates fall in [start, end),
// oldest first. An empty series with a nil error means the window had no data.
type Provider interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error)
	Name() string
}

// UpstreamError wraps a failed provider call.
type UpstreamError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstreamErr(provider, symbol string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Symbol: symbol, Err: err}
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// clip sorts bars by time and keeps those whose calendar date lies in [start, end).
func clip(bars model.PriceSeries, start, end time.Time) model.PriceSeries {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	from, to := start.Format(model.DateLayout), end.Format(model.DateLayout)
	out := make(model.PriceSeries, 0, len(bars))
	for _, b := range bars {
		if d := b.Day(); d >= from && d < to {
			out = append(out, b)
		}
	}
	return out
}
