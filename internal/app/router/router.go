package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"history_backend/internal/app/di"
)

// NewRouter は API ルートを登録した gin エンジンを生成します。
func NewRouter(c *di.Container, allowOrigins []string) *gin.Engine {
	r := gin.Default()

	// ブラウザのフロントエンドから呼ばれるため CORS を許可
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowOrigins
	}
	r.Use(cors.New(corsCfg))

	// 導通確認用
	r.GET("/healthz", c.Health)
	r.HEAD("/healthz", c.Health)

	api := r.Group("/api")
	{
		api.GET("/download_data", c.IngestHandler.Download)
		api.GET("/get_remaining_calls", c.QuotaHandler.GetRemainingCalls)
		api.GET("/list_ticker_options", c.TickerHandler.List)
		api.GET("/get_months_data", c.BarsHandler.GetMonthsData)
		api.GET("/get_data", c.BarsHandler.GetData)
	}

	return r
}
