package usecase

import (
	"context"
	"time"

	"history_backend/internal/feature/bars/domain/entity"
)

// BarRepository は保存済みバーの読み取りレイヤーを抽象化します。
type BarRepository interface {
	// Find は ticker と interval に一致するバーを時刻の昇順で返します。
	Find(ctx context.Context, ticker string, interval entity.Interval) ([]entity.Bar, error)
	// TimeRange は ticker の最古と最新のバー時刻を返します。データがなければゼロ値を返します。
	TimeRange(ctx context.Context, ticker string) (first, last time.Time, err error)
}

// SeriesPoint はチャート描画用の (時刻, 終値) の組です。
type SeriesPoint struct {
	Time  time.Time
	Close float64
}

// Series は1銘柄分の1分足系列と日足系列です。
type Series struct {
	Minute []SeriesPoint
	Day    []SeriesPoint
}

// BarsUsecase は保存済みバーの参照ユースケースです。
type BarsUsecase struct {
	repo BarRepository
	loc  *time.Location
}

// NewBarsUsecase は新しい BarsUsecase を作成します。loc は返却する時刻のタイムゾーンです。
func NewBarsUsecase(repo BarRepository, loc *time.Location) *BarsUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &BarsUsecase{repo: repo, loc: loc}
}

// GetSeries は ticker の1分足と日足の終値系列を返します。データがなければ空の系列を返します。
func (u *BarsUsecase) GetSeries(ctx context.Context, ticker string) (Series, error) {
	minutes, err := u.repo.Find(ctx, ticker, entity.IntervalMinute)
	if err != nil {
		return Series{}, err
	}
	days, err := u.repo.Find(ctx, ticker, entity.IntervalDay)
	if err != nil {
		return Series{}, err
	}
	return Series{Minute: u.points(minutes), Day: u.points(days)}, nil
}

// GetMonthsRange は ticker の保存済みデータの最初と最後の日付を返します。
// データがない場合 ok は false です。
func (u *BarsUsecase) GetMonthsRange(ctx context.Context, ticker string) (first, last entity.Date, ok bool, err error) {
	f, l, err := u.repo.TimeRange(ctx, ticker)
	if err != nil {
		return entity.Date{}, entity.Date{}, false, err
	}
	if f.IsZero() || l.IsZero() {
		return entity.Date{}, entity.Date{}, false, nil
	}
	return entity.DateOf(f.In(u.loc)), entity.DateOf(l.In(u.loc)), true, nil
}

// Location は返却する時刻のタイムゾーンです。
func (u *BarsUsecase) Location() *time.Location {
	return u.loc
}

func (u *BarsUsecase) points(bars []entity.Bar) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(bars))
	for _, b := range bars {
		out = append(out, SeriesPoint{Time: b.Time.In(u.loc), Close: b.Close})
	}
	return out
}
