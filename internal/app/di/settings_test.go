package di

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DAILY_CALL_LIMIT", "BATCH_SIZE", "PROVIDER_CALLS_PER_MINUTE", "QUOTA_TIMEZONE", "SESSION_CLOSE", "CORS_ALLOW_ORIGINS", "CACHE_TTL", "PORT"} {
		t.Setenv(k, "")
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 25, s.DailyCallLimit)
	assert.Equal(t, 100000, s.BatchSize)
	assert.Equal(t, 5, s.CallsPerMinute)
	assert.Equal(t, "America/New_York", s.QuotaLocation.String())
	assert.Equal(t, "15:59", s.Session.String())
	assert.Equal(t, []string{"*"}, s.CORSAllowOrigins)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 10*time.Minute, s.CacheTTL)
}

func TestLoadSettings_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DAILY_CALL_LIMIT", "500")
	t.Setenv("BATCH_SIZE", "2000")
	t.Setenv("QUOTA_TIMEZONE", "UTC")
	t.Setenv("SESSION_CLOSE", "12:59")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, https://example.com")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("PORT", "9090")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 500, s.DailyCallLimit)
	assert.Equal(t, 2000, s.BatchSize)
	assert.Equal(t, "UTC", s.QuotaLocation.String())
	assert.Equal(t, "12:59", s.Session.String())
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, s.CORSAllowOrigins)
	assert.Equal(t, "9090", s.Port)
	assert.Equal(t, 90*time.Second, s.CacheTTL)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"non-numeric limit", "DAILY_CALL_LIMIT", "many"},
		{"zero batch size", "BATCH_SIZE", "0"},
		{"unknown time zone", "QUOTA_TIMEZONE", "Mars/Olympus"},
		{"bad session close", "SESSION_CLOSE", "4pm"},
		{"bad cache ttl", "CACHE_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadSettings()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
