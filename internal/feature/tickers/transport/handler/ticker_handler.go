// Package handler はtickersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TickerUsecase は保存済み銘柄に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type TickerUsecase interface {
	ListTickers(ctx context.Context) ([]string, error)
}

// TickerHandler は銘柄一覧のHTTPリクエストを処理します。
type TickerHandler struct {
	uc TickerUsecase
}

// NewTickerHandler は新しい TickerHandler を作成します。
func NewTickerHandler(uc TickerUsecase) *TickerHandler {
	return &TickerHandler{uc: uc}
}

// List はデータが保存されている銘柄コードの一覧をJSON配列で返します。
// Usecaseでエラーが発生した場合は500 Internal Server Errorを返します。
func (h *TickerHandler) List(c *gin.Context) {
	tickers, err := h.uc.ListTickers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickers)
}
