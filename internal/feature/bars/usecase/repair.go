// Package usecase はヒストリカルバーの取り込みと参照のビジネスロジックを実装します。
package usecase

import (
	"fmt"
	"time"

	"history_backend/internal/feature/bars/domain"
	"history_backend/internal/feature/bars/domain/entity"
)

// SessionClose は取引セッションの最終分（例: 15:59）を表します。
type SessionClose struct {
	Hour   int
	Minute int
}

// DefaultSessionClose は通常取引時間（延長取引なし）の最終分です。
var DefaultSessionClose = SessionClose{Hour: 15, Minute: 59}

// ParseSessionClose は "HH:MM" 形式の文字列をパースします。
func ParseSessionClose(s string) (SessionClose, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return SessionClose{}, fmt.Errorf("parse session close %q: %w", s, err)
	}
	return SessionClose{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (s SessionClose) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// isClose は t がセッションの最終分かどうかを返します。
func (s SessionClose) isClose(t time.Time) bool {
	return t.Hour() == s.Hour && t.Minute() == s.Minute
}

// GapRepairer は昇順の1分足を受け取り、出来高ゼロで省略された分を補完した連続系列を組み立てます。
// 月をまたいで状態を持ち越さないため、月ごとに新しいインスタンスを使います。
type GapRepairer struct {
	session SessionClose
	prev    entity.Bar
	started bool
	out     []entity.Bar
}

// NewGapRepairer は新しい GapRepairer を作成します。
func NewGapRepairer(session SessionClose) *GapRepairer {
	return &GapRepairer{session: session}
}

// Push は次の生データを1件取り込みます。
// 直前の分との間に欠損があれば、直前の終値でフラットな補完バーを1分ずつ生成してから取り込みます。
func (r *GapRepairer) Push(raw entity.RawBar) error {
	bar := raw.ToBar()
	bar.Time = bar.Time.Truncate(time.Minute)
	if !r.started {
		r.accept(bar)
		r.started = true
		return nil
	}

	next := bar.Time
	if !next.After(r.prev.Time) {
		return fmt.Errorf("%w: %s is not after %s", domain.ErrUnorderedBars,
			next.Format(time.DateTime), r.prev.Time.Format(time.DateTime))
	}

	// 不変条件: r.prev.Time < next。補完バーは1周ごとに1分ずつ進み、next には到達しない。
	for !continuous(r.prev.Time, next) {
		if r.session.isClose(r.prev.Time) {
			return fmt.Errorf("%w: last bar at %s, next bar at %s", domain.ErrInvalidSessionBoundary,
				r.prev.Time.Format(time.DateTime), next.Format(time.DateTime))
		}
		r.accept(filler(r.prev))
	}
	r.accept(bar)
	return nil
}

// Bars は補完済みの連続系列を返します。
func (r *GapRepairer) Bars() []entity.Bar {
	return r.out
}

func (r *GapRepairer) accept(b entity.Bar) {
	r.out = append(r.out, b)
	r.prev = b
}

// continuous は prev の直後に next が続いてよいかを判定します。
//
// :59 から :00 / :30 への飛びはデータ提供元のセッション再開（正時・半時）に合わせた挙動で、
// 一般的な取引カレンダーの規則ではありません。提供元のスケジュールを確認せずに一般化しないこと。
func continuous(prev, next time.Time) bool {
	if next.Equal(prev.Add(time.Minute)) {
		return true
	}
	return prev.Minute() == 59 && (next.Minute() == 0 || next.Minute() == 30)
}

// filler は直前のバーの終値で始値・高値・安値・終値を揃えた出来高ゼロのバーを返します。
func filler(prev entity.Bar) entity.Bar {
	return entity.Bar{
		Ticker:   prev.Ticker,
		Interval: entity.IntervalMinute,
		Time:     prev.Time.Add(time.Minute),
		Open:     prev.Close,
		High:     prev.Close,
		Low:      prev.Close,
		Close:    prev.Close,
		Volume:   0,
	}
}

// RepairGaps は1か月分の昇順データをまとめて補完します。
func RepairGaps(rows []entity.RawBar, session SessionClose) ([]entity.Bar, error) {
	r := NewGapRepairer(session)
	for _, row := range rows {
		if err := r.Push(row); err != nil {
			return nil, err
		}
	}
	return r.Bars(), nil
}
