package main

import (
	"log"
	"log/slog"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"history_backend/internal/app/di"
	"history_backend/internal/app/router"
	infradb "history_backend/internal/platform/db"
	"history_backend/internal/platform/logging"
	infraredis "history_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	logging.SetupFromEnv()

	settings, err := di.LoadSettings()
	if err != nil {
		log.Fatalf("invalid settings: %v", err)
	}

	// db
	db, err := infradb.Open(infradb.LoadConfigFromEnv())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	market, marketCfg, err := di.NewMarket()
	if err != nil {
		log.Fatalf("failed to configure market data client: %v", err)
	}
	if marketCfg.APIKey == "" {
		slog.Warn("ALPHA_VANTAGE_API_KEY is not set; downloads will be rejected by the provider")
	}

	c := di.NewContainer(db, rdb, market, marketCfg.Location, settings)

	// ルータ生成
	r := router.NewRouter(c, settings.CORSAllowOrigins)

	slog.Info("server starting", "port", settings.Port)
	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatal(err)
	}
}
