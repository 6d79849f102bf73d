// Package alphavantage provides a client for the Alpha Vantage intraday time series API.
package alphavantage

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultBaseURL  = "https://www.alphavantage.co"
	defaultTimeZone = "America/New_York"
)

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey   string         // API key for authentication
	BaseURL  string         // Base URL for the API (e.g., "https://www.alphavantage.co")
	Timeout  time.Duration  // HTTP request timeout
	Location *time.Location // time zone of the timestamps in the response
}

// LoadConfig loads Alpha Vantage configuration from environment variables.
func LoadConfig() (Config, error) {
	loc, err := time.LoadLocation(defaultTimeZone)
	if err != nil {
		return Config{}, fmt.Errorf("load provider time zone: %w", err)
	}
	baseURL := os.Getenv("ALPHA_VANTAGE_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return Config{
		APIKey:   os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL:  baseURL,
		Timeout:  30 * time.Second,
		Location: loc,
	}, nil
}
