package handler

import (
	"context"
	"net/http"

	"history_backend/internal/feature/bars/domain/entity"
	"history_backend/internal/feature/bars/transport/http/dto"
	"history_backend/internal/feature/bars/usecase"

	"github.com/gin-gonic/gin"
)

// timeLayout は系列の時刻の出力形式です。
const timeLayout = "2006-01-02 15:04:05"

// BarsUsecase は保存済みバー参照のユースケースインターフェースです。
type BarsUsecase interface {
	GetSeries(ctx context.Context, ticker string) (usecase.Series, error)
	GetMonthsRange(ctx context.Context, ticker string) (first, last entity.Date, ok bool, err error)
}

// BarsHandler は保存済みデータの参照リクエストを処理します。
type BarsHandler struct {
	uc BarsUsecase
}

// NewBarsHandler は新しい BarsHandler を作成します。
func NewBarsHandler(uc BarsUsecase) *BarsHandler {
	return &BarsHandler{uc: uc}
}

// GetData は1分足と日足の [時刻, 終値] 系列を返します。
//
// エンドポイント例:
// GET /api/get_data?ticker=IBM
func (h *BarsHandler) GetData(c *gin.Context) {
	ticker, err := requireTicker(c)
	if err != nil {
		writeError(c, err)
		return
	}
	s, err := h.uc.GetSeries(c.Request.Context(), ticker)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SeriesResponse{Minute: toPoints(s.Minute), Day: toPoints(s.Day)})
}

// GetMonthsData は保存済みデータの最初と最後の日付を返します。データがなければ空配列です。
//
// エンドポイント例:
// GET /api/get_months_data?ticker=IBM
func (h *BarsHandler) GetMonthsData(c *gin.Context) {
	ticker, err := requireTicker(c)
	if err != nil {
		writeError(c, err)
		return
	}
	first, last, ok, err := h.uc.GetMonthsRange(c.Request.Context(), ticker)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, []string{})
		return
	}
	c.JSON(http.StatusOK, []string{first.String(), last.String()})
}

func toPoints(ps []usecase.SeriesPoint) []dto.Point {
	out := make([]dto.Point, 0, len(ps))
	for _, p := range ps {
		out = append(out, dto.Point{p.Time.Format(timeLayout), p.Close})
	}
	return out
}
