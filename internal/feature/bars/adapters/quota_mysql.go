package adapters

import (
	"context"
	"errors"
	"fmt"

	"history_backend/internal/feature/bars/domain"
	"history_backend/internal/feature/bars/domain/entity"
	"history_backend/internal/feature/bars/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// quotaRowID は呼び出し残数を保持する唯一の行のIDです。
const quotaRowID = 1

// QuotaModel は calls テーブルの行です。Version は楽観ロック用のカウンタです。
type QuotaModel struct {
	ID             uint   `gorm:"primaryKey;autoIncrement:false"`
	LastQueryDate  string `gorm:"size:10;not null"`
	CallsRemaining int    `gorm:"not null"`
	Version        int64  `gorm:"not null;default:0"`
}

func (QuotaModel) TableName() string {
	return "calls"
}

type quotaMySQL struct {
	db *gorm.DB
}

var _ usecase.QuotaRepository = (*quotaMySQL)(nil)

func NewQuotaRepository(db *gorm.DB) *quotaMySQL {
	return &quotaMySQL{db: db}
}

// Load は保存済みの残数を返します。行がまだなければ Version 0 のゼロ値を返します。
func (r *quotaMySQL) Load(ctx context.Context) (entity.CallQuota, error) {
	var m QuotaModel
	err := r.db.WithContext(ctx).Where("id = ?", quotaRowID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.CallQuota{}, nil
	}
	if err != nil {
		return entity.CallQuota{}, err
	}
	d, err := entity.ParseDate(m.LastQueryDate)
	if err != nil {
		return entity.CallQuota{}, fmt.Errorf("parse last_query_date %q: %w", m.LastQueryDate, err)
	}
	return entity.CallQuota{Date: d, Remaining: m.CallsRemaining, Version: m.Version}, nil
}

// Save は保存済みの行が prev.Version のままである場合に限り next を書き込みます。
// 別のリクエストが先に更新していた場合は domain.ErrQuotaConflict を返します。
func (r *quotaMySQL) Save(ctx context.Context, prev, next entity.CallQuota) error {
	m := QuotaModel{
		ID:             quotaRowID,
		LastQueryDate:  next.Date.String(),
		CallsRemaining: next.Remaining,
		Version:        next.Version,
	}

	var res *gorm.DB
	if prev.Version == 0 {
		res = r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	} else {
		res = r.db.WithContext(ctx).Model(&QuotaModel{}).
			Where("id = ? AND version = ?", quotaRowID, prev.Version).
			Updates(map[string]any{
				"last_query_date": m.LastQueryDate,
				"calls_remaining": m.CallsRemaining,
				"version":         m.Version,
			})
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: expected version %d", domain.ErrQuotaConflict, prev.Version)
	}
	return nil
}
