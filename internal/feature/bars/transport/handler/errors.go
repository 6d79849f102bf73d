// Package handler はbarsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"history_backend/internal/feature/bars/domain"
	"history_backend/internal/feature/bars/transport/http/dto"

	"github.com/gin-gonic/gin"
)

// ErrMissingParameter は必須のクエリパラメータが指定されていないことを示します。
var ErrMissingParameter = errors.New("missing parameter")

// statusFor はドメインエラーをHTTPステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrMissingParameter),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidMonth):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrQuotaExhausted),
		errors.Is(err, domain.ErrInsufficientQuota):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrProviderRejected),
		errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidSessionBoundary),
		errors.Is(err, domain.ErrUnorderedBars):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrQuotaConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
}

// requireTicker は ticker クエリパラメータを大文字に正規化して返します。
func requireTicker(c *gin.Context) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if ticker == "" {
		return "", fmt.Errorf("%w: ticker", ErrMissingParameter)
	}
	return ticker, nil
}
