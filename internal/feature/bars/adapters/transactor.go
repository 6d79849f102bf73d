package adapters

import (
	"context"

	"history_backend/internal/feature/bars/usecase"

	"gorm.io/gorm"
)

type gormTransactor struct {
	db *gorm.DB
}

var _ usecase.Transactor = (*gormTransactor)(nil)

// NewTransactor は gorm のトランザクションでリポジトリ群を束ねる Transactor を作成します。
func NewTransactor(db *gorm.DB) *gormTransactor {
	return &gormTransactor{db: db}
}

// WithinTx は fn を1つのトランザクションで実行します。fn がエラーを返すとロールバックします。
func (t *gormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store usecase.TxStore) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, txStore{db: tx})
	})
}

type txStore struct {
	db *gorm.DB
}

func (s txStore) Bars() usecase.BarStore         { return NewBarRepository(s.db) }
func (s txStore) Quota() usecase.QuotaRepository { return NewQuotaRepository(s.db) }

// Migrate は bars と calls テーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&BarModel{}, &QuotaModel{})
}
