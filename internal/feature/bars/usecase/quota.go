package usecase

import (
	"context"
	"fmt"
	"time"

	"history_backend/internal/feature/bars/domain/entity"
)

const (
	// DefaultDailyCallLimit はデータ提供元の1日あたりの呼び出し上限です。
	DefaultDailyCallLimit = 25
	// DefaultQuotaTimeZone は日付の切り替わりを判定する基準タイムゾーンです。
	DefaultQuotaTimeZone = "America/New_York"
)

// QuotaRepository は呼び出し残数の行を読み書きします。
// Save は prev.Version が保存済みの値と一致した場合だけ書き込み、一致しなければ domain.ErrQuotaConflict を返します。
type QuotaRepository interface {
	Load(ctx context.Context) (entity.CallQuota, error)
	Save(ctx context.Context, prev, next entity.CallQuota) error
}

// QuotaTracker は基準タイムゾーンの日付ごとに呼び出し残数を管理します。
type QuotaTracker struct {
	limit int
	loc   *time.Location
	now   func() time.Time
}

// NewQuotaTracker は新しい QuotaTracker を作成します。
// limit が0以下なら DefaultDailyCallLimit、loc が nil なら UTC、now が nil なら time.Now を使います。
func NewQuotaTracker(limit int, loc *time.Location, now func() time.Time) *QuotaTracker {
	if limit <= 0 {
		limit = DefaultDailyCallLimit
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &QuotaTracker{limit: limit, loc: loc, now: now}
}

// Limit は1日あたりの上限を返します。
func (qt *QuotaTracker) Limit() int {
	return qt.limit
}

// Today は基準タイムゾーンでの今日の日付を返します。
func (qt *QuotaTracker) Today() entity.Date {
	return entity.DateOf(qt.now().In(qt.loc))
}

// Current は保存されている残数を返します。
// 保存日付が今日と異なる（または行がない）場合は上限値にリセットし、その結果を保存します。
func (qt *QuotaTracker) Current(ctx context.Context, repo QuotaRepository) (entity.CallQuota, error) {
	q, err := repo.Load(ctx)
	if err != nil {
		return entity.CallQuota{}, err
	}
	today := qt.Today()
	if q.Version != 0 && q.Date == today {
		return q, nil
	}

	next := entity.CallQuota{Date: today, Remaining: qt.limit, Version: q.Version + 1}
	if err := repo.Save(ctx, q, next); err != nil {
		return entity.CallQuota{}, fmt.Errorf("reset quota: %w", err)
	}
	return next, nil
}

// Consume は current から n 回分を差し引いて保存します。
// 下限は設けないため、呼び出し側で事前に残数を確認すること。
func (qt *QuotaTracker) Consume(ctx context.Context, repo QuotaRepository, current entity.CallQuota, n int) (entity.CallQuota, error) {
	today := qt.Today()
	base := current.Remaining
	if current.Date != today {
		// リクエスト中に日付が変わった場合は新しい日の上限から差し引く
		base = qt.limit
	}
	next := entity.CallQuota{Date: today, Remaining: base - n, Version: current.Version + 1}
	if err := repo.Save(ctx, current, next); err != nil {
		return entity.CallQuota{}, fmt.Errorf("consume quota: %w", err)
	}
	return next, nil
}

// QuotaUsecase は呼び出し残数の参照ユースケースです。
type QuotaUsecase struct {
	tx      Transactor
	tracker *QuotaTracker
}

// NewQuotaUsecase は新しい QuotaUsecase を作成します。
func NewQuotaUsecase(tx Transactor, tracker *QuotaTracker) *QuotaUsecase {
	return &QuotaUsecase{tx: tx, tracker: tracker}
}

// Remaining は日付切り替え時のリセットを反映した残数を返します。
func (u *QuotaUsecase) Remaining(ctx context.Context) (int, error) {
	var remaining int
	err := u.tx.WithinTx(ctx, func(ctx context.Context, store TxStore) error {
		q, err := u.tracker.Current(ctx, store.Quota())
		if err != nil {
			return err
		}
		remaining = q.Remaining
		return nil
	})
	if err != nil {
		return 0, storeError("remaining calls", err)
	}
	return remaining, nil
}
