package handler

import (
	"context"
	"fmt"
	"net/http"

	"history_backend/internal/feature/bars/domain/entity"
	"history_backend/internal/feature/bars/transport/http/dto"
	"history_backend/internal/feature/bars/usecase"

	"github.com/gin-gonic/gin"
)

// IngestUsecase は履歴データ取り込みのユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type IngestUsecase interface {
	Ingest(ctx context.Context, ticker string, start, end entity.MonthKey) (usecase.IngestResult, error)
}

// IngestHandler は取り込みリクエストを処理します。
type IngestHandler struct {
	uc IngestUsecase
}

// NewIngestHandler は新しい IngestHandler を作成します。
func NewIngestHandler(uc IngestUsecase) *IngestHandler {
	return &IngestHandler{uc: uc}
}

// Download は指定期間の1分足を取得・補完して保存します。処理が終わるまで応答を返しません。
//
// エンドポイント例:
// GET /api/download_data?ticker=IBM&startMonth=2024-01&endMonth=2024-03
func (h *IngestHandler) Download(c *gin.Context) {
	ticker, err := requireTicker(c)
	if err != nil {
		writeError(c, err)
		return
	}
	start, end, err := parseMonths(c.Query("startMonth"), c.Query("endMonth"))
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.uc.Ingest(c.Request.Context(), ticker, start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DownloadResponse{
		Status:         "completed",
		Message:        fmt.Sprintf("loaded %s from %s to %s", ticker, start, end),
		Months:         len(res.Months),
		RemainingCalls: res.Remaining,
	})
}

func parseMonths(startStr, endStr string) (entity.MonthKey, entity.MonthKey, error) {
	if startStr == "" {
		return entity.MonthKey{}, entity.MonthKey{}, fmt.Errorf("%w: startMonth", ErrMissingParameter)
	}
	if endStr == "" {
		return entity.MonthKey{}, entity.MonthKey{}, fmt.Errorf("%w: endMonth", ErrMissingParameter)
	}
	start, err := entity.ParseMonthKey(startStr)
	if err != nil {
		return entity.MonthKey{}, entity.MonthKey{}, err
	}
	end, err := entity.ParseMonthKey(endStr)
	if err != nil {
		return entity.MonthKey{}, entity.MonthKey{}, err
	}
	return start, end, nil
}
