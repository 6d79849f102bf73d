package di

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	barsadapters "history_backend/internal/feature/bars/adapters"
	barshandler "history_backend/internal/feature/bars/transport/handler"
	barsusecase "history_backend/internal/feature/bars/usecase"
	tickersadapters "history_backend/internal/feature/tickers/adapters"
	tickershandler "history_backend/internal/feature/tickers/transport/handler"
	tickersusecase "history_backend/internal/feature/tickers/usecase"
	"history_backend/internal/platform/cache"
	platformhandler "history_backend/internal/platform/http/handler"
	"history_backend/internal/shared/ratelimiter"
)

// Container はアプリケーション全体で共有するユースケースとハンドラーを保持します。
type Container struct {
	Ingest  *barsusecase.IngestUsecase
	Bars    *barsusecase.BarsUsecase
	Quota   *barsusecase.QuotaUsecase
	Tickers *tickersusecase.TickerUsecase

	IngestHandler *barshandler.IngestHandler
	BarsHandler   *barshandler.BarsHandler
	QuotaHandler  *barshandler.QuotaHandler
	TickerHandler *tickershandler.TickerHandler
	Health        gin.HandlerFunc
}

// NewContainer は各コンポーネントを組み立てます。rdb が nil の場合はキャッシュなしで動作します。
// providerLoc はデータ提供元のタイムゾーンで、月の境界と返却する時刻に使います。
func NewContainer(db *gorm.DB, rdb *redis.Client, market barsusecase.MarketRepository,
	providerLoc *time.Location, s Settings) *Container {
	// Repository
	tx := barsadapters.NewTransactor(db)
	barRepo := barsadapters.NewBarRepository(db)
	tickerRepo := tickersadapters.NewTickerRepository(db)

	// Redisキャッシュでラップ
	cachedBarRepo := cache.NewCachingBarRepository(rdb, s.CacheTTL, barRepo, "bars")

	// Usecase
	tracker := barsusecase.NewQuotaTracker(s.DailyCallLimit, s.QuotaLocation, time.Now)
	limiter := ratelimiter.NewRateLimiter(s.CallsPerMinute, time.Minute)
	ingestUC := barsusecase.NewIngestUsecase(market, tx, tracker, limiter, barsusecase.IngestConfig{
		BatchSize: s.BatchSize,
		Session:   s.Session,
		Location:  providerLoc,
	}).WithCacheInvalidator(cachedBarRepo)
	barsUC := barsusecase.NewBarsUsecase(cachedBarRepo, providerLoc)
	quotaUC := barsusecase.NewQuotaUsecase(tx, tracker)
	tickerUC := tickersusecase.NewTickerUsecase(tickerRepo)

	var pinger platformhandler.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}

	return &Container{
		Ingest:  ingestUC,
		Bars:    barsUC,
		Quota:   quotaUC,
		Tickers: tickerUC,

		// Handler
		IngestHandler: barshandler.NewIngestHandler(ingestUC),
		BarsHandler:   barshandler.NewBarsHandler(barsUC),
		QuotaHandler:  barshandler.NewQuotaHandler(quotaUC),
		TickerHandler: tickershandler.NewTickerHandler(tickerUC),
		Health:        platformhandler.NewHealth(pinger),
	}
}
