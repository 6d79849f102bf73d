package di

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"history_backend/internal/feature/bars/usecase"
)

// Settings は取り込み処理と HTTP サーバーの設定です。
type Settings struct {
	DailyCallLimit   int
	QuotaLocation    *time.Location
	BatchSize        int
	CallsPerMinute   int
	Session          usecase.SessionClose
	CORSAllowOrigins []string
	Port             string
	CacheTTL         time.Duration
}

// LoadSettings は環境変数から設定を読み込みます。未設定の項目はデフォルト値を使います。
func LoadSettings() (Settings, error) {
	s := Settings{
		DailyCallLimit: usecase.DefaultDailyCallLimit,
		BatchSize:      usecase.DefaultBatchSize,
		CallsPerMinute: 5,
		Session:        usecase.DefaultSessionClose,
		Port:           "8080",
		CacheTTL:       10 * time.Minute,
	}

	var err error
	if s.DailyCallLimit, err = intEnv("DAILY_CALL_LIMIT", s.DailyCallLimit); err != nil {
		return Settings{}, err
	}
	if s.BatchSize, err = intEnv("BATCH_SIZE", s.BatchSize); err != nil {
		return Settings{}, err
	}
	if s.CallsPerMinute, err = intEnv("PROVIDER_CALLS_PER_MINUTE", s.CallsPerMinute); err != nil {
		return Settings{}, err
	}

	tz := os.Getenv("QUOTA_TIMEZONE")
	if tz == "" {
		tz = usecase.DefaultQuotaTimeZone
	}
	if s.QuotaLocation, err = time.LoadLocation(tz); err != nil {
		return Settings{}, fmt.Errorf("QUOTA_TIMEZONE: %w", err)
	}

	if v := os.Getenv("SESSION_CLOSE"); v != "" {
		if s.Session, err = usecase.ParseSessionClose(v); err != nil {
			return Settings{}, fmt.Errorf("SESSION_CLOSE: %w", err)
		}
	}

	s.CORSAllowOrigins = []string{"*"}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		s.CORSAllowOrigins = s.CORSAllowOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				s.CORSAllowOrigins = append(s.CORSAllowOrigins, o)
			}
		}
	}

	if len(s.CORSAllowOrigins) == 0 {
		s.CORSAllowOrigins = []string{"*"}
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Settings{}, fmt.Errorf("CACHE_TTL must be a positive duration, got %q", v)
		}
		s.CacheTTL = d
	}

	if v := os.Getenv("PORT"); v != "" {
		s.Port = v
	}
	return s, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
