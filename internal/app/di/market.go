// Package di provides dependency injection factories for creating application components.
package di

import (
	"history_backend/internal/feature/bars/adapters/alphavantage"
	infrahttp "history_backend/internal/platform/http"
)

// NewMarket creates a fully configured Alpha Vantage client with HTTP client.
func NewMarket() (*alphavantage.Client, alphavantage.Config, error) {
	cfg, err := alphavantage.LoadConfig()
	if err != nil {
		return nil, alphavantage.Config{}, err
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return alphavantage.NewClient(cfg, httpClient), cfg, nil
}
