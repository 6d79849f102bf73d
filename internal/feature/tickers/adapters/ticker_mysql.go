// Package adapters はtickersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"history_backend/internal/feature/tickers/usecase"

	"gorm.io/gorm"
)

// barsTable は取り込み済みのバーを保持するテーブルです。
const barsTable = "bars"

// tickerMySQL はTickerRepositoryインターフェースのMySQL実装です。
type tickerMySQL struct {
	db *gorm.DB
}

var _ usecase.TickerRepository = (*tickerMySQL)(nil)

// NewTickerRepository は指定されたDB接続でtickerMySQLリポジトリの新しいインスタンスを生成します。
func NewTickerRepository(db *gorm.DB) *tickerMySQL {
	return &tickerMySQL{db: db}
}

// ListDistinct はバーが保存されている銘柄コードを重複なしで返します。
func (r *tickerMySQL) ListDistinct(ctx context.Context) ([]string, error) {
	var tickers []string
	if err := r.db.WithContext(ctx).
		Table(barsTable).
		Distinct("ticker").
		Order("ticker ASC").
		Pluck("ticker", &tickers).Error; err != nil {
		return nil, err
	}
	return tickers, nil
}
