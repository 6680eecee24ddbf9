package provider

import (
	"fmt"
	"time"
)

// Options selects and configures a provider.
type Options struct {
	Name     string
	BaseURL  string
	APIKey   string
	Proxy    string
	Timeout  time.Duration
	Adjusted bool
}

// New builds the provider named in opts.
func New(opts Options) (Provider, error) {
	switch opts.Name {
	case "", "yahoo":
		return NewYahooProvider(opts.BaseURL, opts.Proxy, opts.Timeout, opts.Adjusted), nil
	case "alphavantage":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("alphavantage provider requires an api key")
		}
		return NewAlphaVantageProvider(opts.BaseURL, opts.APIKey, opts.Proxy, opts.Timeout), nil
	case "mock":
		return &MockProvider{BasePrice: 100}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Name)
	}
}
