package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// QuotaUsecase は当日の残り呼び出し回数を返すユースケースインターフェースです。
type QuotaUsecase interface {
	Remaining(ctx context.Context) (int, error)
}

// QuotaHandler は呼び出し残数のリクエストを処理します。
type QuotaHandler struct {
	uc QuotaUsecase
}

// NewQuotaHandler は新しい QuotaHandler を作成します。
func NewQuotaHandler(uc QuotaUsecase) *QuotaHandler {
	return &QuotaHandler{uc: uc}
}

// GetRemainingCalls は当日の残り呼び出し回数をJSONの整数で返します。
func (h *QuotaHandler) GetRemainingCalls(c *gin.Context) {
	n, err := h.uc.Remaining(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
