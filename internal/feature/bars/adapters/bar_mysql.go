// Package adapters はbarsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"history_backend/internal/feature/bars/domain/entity"
	"history_backend/internal/feature/bars/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertChunkSize は1回のINSERT文に含める行数です。プレースホルダ数の上限を超えないよう分割します。
const upsertChunkSize = 1000

type barMySQL struct {
	db *gorm.DB
}

var (
	_ usecase.BarStore      = (*barMySQL)(nil)
	_ usecase.BarRepository = (*barMySQL)(nil)
)

func NewBarRepository(db *gorm.DB) *barMySQL {
	return &barMySQL{db: db}
}

// BarModel は bars テーブルの1行です。時刻はUTCで保存します。
type BarModel struct {
	ID       uint      `gorm:"primaryKey"`
	Ticker   string    `gorm:"size:32;not null;uniqueIndex:bar_tkr_int_time,priority:1"`
	Interval string    `gorm:"size:16;not null;uniqueIndex:bar_tkr_int_time,priority:2"`
	Time     time.Time `gorm:"not null;uniqueIndex:bar_tkr_int_time,priority:3"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

func (BarModel) TableName() string {
	return "bars"
}

func toModel(e entity.Bar) BarModel {
	return BarModel{
		Ticker:   e.Ticker,
		Interval: string(e.Interval),
		Time:     e.Time.UTC(),
		Open:     e.Open,
		High:     e.High,
		Low:      e.Low,
		Close:    e.Close,
		Volume:   e.Volume,
	}
}

func toEntity(m BarModel) entity.Bar {
	return entity.Bar{
		Ticker:   m.Ticker,
		Interval: entity.Interval(m.Interval),
		Time:     m.Time.UTC(),
		Open:     m.Open,
		High:     m.High,
		Low:      m.Low,
		Close:    m.Close,
		Volume:   m.Volume,
	}
}

func col(name string) clause.Column {
	return clause.Column{Name: name}
}

func byTickerInterval(ticker string, interval entity.Interval) clause.Expression {
	return clause.And(
		clause.Eq{Column: col("ticker"), Value: ticker},
		clause.Eq{Column: col("interval"), Value: string(interval)},
	)
}

// UpsertBatch は (ticker, interval, time) が一致する行を上書きしつつバーを保存します。
func (r *barMySQL) UpsertBatch(ctx context.Context, bars []entity.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	ms := make([]BarModel, 0, len(bars))
	for _, e := range bars {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{col("ticker"), col("interval"), col("time")},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).CreateInBatches(&ms, upsertChunkSize).Error
}

// DeleteRange は ticker の [from, to) に含まれるバーを時間足に関係なく削除します。
func (r *barMySQL) DeleteRange(ctx context.Context, ticker string, from, to time.Time) error {
	return r.db.WithContext(ctx).
		Where(clause.Eq{Column: col("ticker"), Value: ticker}).
		Where(clause.Gte{Column: col("time"), Value: from.UTC()}).
		Where(clause.Lt{Column: col("time"), Value: to.UTC()}).
		Delete(&BarModel{}).Error
}

// Find は ticker と interval に一致するバーを時刻の昇順で返します。
func (r *barMySQL) Find(ctx context.Context, ticker string, interval entity.Interval) ([]entity.Bar, error) {
	var rows []BarModel
	if err := r.db.WithContext(ctx).
		Where(byTickerInterval(ticker, interval)).
		Order(clause.OrderByColumn{Column: col("time")}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Bar, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// TimeRange は ticker の1分足の最古と最新の時刻を返します。データがなければゼロ値です。
func (r *barMySQL) TimeRange(ctx context.Context, ticker string) (time.Time, time.Time, error) {
	first, err := r.edge(ctx, ticker, false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := r.edge(ctx, ticker, true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return first, last, nil
}

// edge は MIN/MAX の代わりに並べ替えて1行だけ取り出します（SQLiteの集計結果は時刻型に変換されないため）。
func (r *barMySQL) edge(ctx context.Context, ticker string, desc bool) (time.Time, error) {
	var m BarModel
	err := r.db.WithContext(ctx).
		Where(byTickerInterval(ticker, entity.IntervalMinute)).
		Order(clause.OrderByColumn{Column: col("time"), Desc: desc}).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return m.Time.UTC(), nil
}
