package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"history_backend/internal/feature/bars/domain"
	"history_backend/internal/feature/bars/domain/entity"
)

var ErrDB = errors.New("database error")

type barKey struct {
	ticker   string
	interval entity.Interval
	unix     int64
}

// memState はトランザクション単位で複製されるインメモリの保存状態です。
type memState struct {
	bars  map[barKey]entity.Bar
	quota entity.CallQuota
}

func (s memState) clone() memState {
	c := memState{bars: make(map[barKey]entity.Bar, len(s.bars)), quota: s.quota}
	for k, v := range s.bars {
		c.bars[k] = v
	}
	return c
}

// memStore はコミット時だけ状態を反映する Transactor のフェイク実装です。
type memStore struct {
	state       memState
	upsertErr   error
	deleteErr   error
	upsertCalls int
	deletes     [][2]time.Time
	txCalls     int
}

func newMemStore() *memStore {
	return &memStore{state: memState{bars: map[barKey]entity.Bar{}}}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, store TxStore) error) error {
	m.txCalls++
	tx := &memTx{parent: m, state: m.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.state = tx.state
	return nil
}

// sortedBars は保存済みのバーを (ticker, interval, time) 順に返します。
func (m *memStore) sortedBars() []entity.Bar {
	out := make([]entity.Bar, 0, len(m.state.bars))
	for _, b := range m.state.bars {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		if out[i].Interval != out[j].Interval {
			return out[i].Interval < out[j].Interval
		}
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

func (m *memStore) count(interval entity.Interval) int {
	n := 0
	for k := range m.state.bars {
		if k.interval == interval {
			n++
		}
	}
	return n
}

type memTx struct {
	parent *memStore
	state  memState
}

func (t *memTx) Bars() BarStore          { return (*memBars)(t) }
func (t *memTx) Quota() QuotaRepository { return (*memQuota)(t) }

type memBars memTx

func (b *memBars) UpsertBatch(ctx context.Context, bars []entity.Bar) error {
	b.parent.upsertCalls++
	if b.parent.upsertErr != nil {
		return b.parent.upsertErr
	}
	for _, bar := range bars {
		b.state.bars[barKey{bar.Ticker, bar.Interval, bar.Time.Unix()}] = bar
	}
	return nil
}

func (b *memBars) DeleteRange(ctx context.Context, ticker string, from, to time.Time) error {
	b.parent.deletes = append(b.parent.deletes, [2]time.Time{from, to})
	if b.parent.deleteErr != nil {
		return b.parent.deleteErr
	}
	for k, bar := range b.state.bars {
		if k.ticker == ticker && !bar.Time.Before(from) && bar.Time.Before(to) {
			delete(b.state.bars, k)
		}
	}
	return nil
}

type memQuota memTx

func (q *memQuota) Load(ctx context.Context) (entity.CallQuota, error) {
	return q.state.quota, nil
}

func (q *memQuota) Save(ctx context.Context, prev, next entity.CallQuota) error {
	if q.state.quota.Version != prev.Version {
		return domain.ErrQuotaConflict
	}
	q.state.quota = next
	return nil
}

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	FetchMonthFunc func(ctx context.Context, ticker string, month entity.MonthKey) ([]entity.RawBar, error)
	Calls          []entity.MonthKey
}

func (m *mockMarketRepository) FetchMonth(ctx context.Context, ticker string, month entity.MonthKey) ([]entity.RawBar, error) {
	m.Calls = append(m.Calls, month)
	if m.FetchMonthFunc != nil {
		return m.FetchMonthFunc(ctx, ticker, month)
	}
	return nil, errors.New("FetchMonthFunc is not implemented")
}

// mockRateLimiter is a mock implementation of the RateLimiterInterface.
type mockRateLimiter struct {
	WaitIfNeededCalls int
}

func (m *mockRateLimiter) WaitIfNeeded() {
	m.WaitIfNeededCalls++
}

// mockInvalidator records invalidated tickers.
type mockInvalidator struct {
	tickers []string
	err     error
}

func (m *mockInvalidator) Invalidate(ctx context.Context, ticker string) error {
	m.tickers = append(m.tickers, ticker)
	return m.err
}

func newYork() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	return loc
}

// raw はニューヨーク時間の指定時刻に終値 close のバーを作成します。
func raw(loc *time.Location, y int, mo time.Month, d, h, mi int, close float64, vol int64) entity.RawBar {
	return entity.RawBar{
		Time:   time.Date(y, mo, d, h, mi, 0, 0, loc),
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: vol,
	}
}
