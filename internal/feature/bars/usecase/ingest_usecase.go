package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"history_backend/internal/feature/bars/domain"
	"history_backend/internal/feature/bars/domain/entity"
	"history_backend/internal/shared/ratelimiter"
)

// MarketRepository は外部データ提供元から1か月分の1分足を取得するリポジトリのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	FetchMonth(ctx context.Context, ticker string, month entity.MonthKey) ([]entity.RawBar, error)
}

// BarStore はトランザクション内で使うバーの書き込みレイヤーです。
type BarStore interface {
	BarSink
	// DeleteRange は ticker の [from, to) のバーを全時間足について削除します。
	DeleteRange(ctx context.Context, ticker string, from, to time.Time) error
}

// TxStore は1つのトランザクションに束ねられたリポジトリ群です。
type TxStore interface {
	Bars() BarStore
	Quota() QuotaRepository
}

// Transactor は fn を1つのトランザクションで実行し、fn がエラーを返したらすべてロールバックします。
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store TxStore) error) error
}

// CacheInvalidator は取り込み後に ticker の参照キャッシュを破棄します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, ticker string) error
}

// IngestConfig は取り込み処理の設定です。
type IngestConfig struct {
	BatchSize int            // BatchWriter の閾値
	Session   SessionClose   // 補完を打ち切るセッション最終分
	Location  *time.Location // データ提供元のタイムゾーン（月の境界の判定に使用）
}

// IngestResult は1リクエスト分の取り込み結果です。
type IngestResult struct {
	Ticker     string
	Months     []entity.MonthKey
	MinuteBars int
	DailyBars  int
	Remaining  int
}

// IngestUsecase は外部APIから月単位でデータを取得し、補完・集計してデータベースに永続化するユースケースです。
type IngestUsecase struct {
	market      MarketRepository
	tx          Transactor
	quota       *QuotaTracker
	rateLimiter ratelimiter.RateLimiterInterface
	cache       CacheInvalidator
	cfg         IngestConfig
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, tx Transactor, quota *QuotaTracker,
	rateLimiter ratelimiter.RateLimiterInterface, cfg IngestConfig) *IngestUsecase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Session == (SessionClose{}) {
		cfg.Session = DefaultSessionClose
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &IngestUsecase{market: market, tx: tx, quota: quota, rateLimiter: rateLimiter, cfg: cfg}
}

// WithCacheInvalidator は取り込み成功後にキャッシュを破棄するよう設定します。
func (iu *IngestUsecase) WithCacheInvalidator(c CacheInvalidator) *IngestUsecase {
	iu.cache = c
	return iu
}

// Ingest は start から end までの各月を順番に取得・補完・集計し、1つのトランザクションで保存します。
// 最初の月は既存データを削除してから読み込み直します。
// どこかで失敗した場合は残りの月を打ち切り、バーも呼び出し残数も一切コミットしません。
func (iu *IngestUsecase) Ingest(ctx context.Context, ticker string, start, end entity.MonthKey) (IngestResult, error) {
	months, err := entity.MonthRange(start, end)
	if err != nil {
		return IngestResult{}, err
	}

	res := IngestResult{Ticker: ticker, Months: months}
	err = iu.tx.WithinTx(ctx, func(ctx context.Context, store TxStore) error {
		q, err := iu.quota.Current(ctx, store.Quota())
		if err != nil {
			return storeError("load quota", err)
		}
		if q.Remaining < len(months) {
			return fmt.Errorf("%w: %d remaining, %d requested", domain.ErrInsufficientQuota, q.Remaining, len(months))
		}

		first := months[0]
		if err := store.Bars().DeleteRange(ctx, ticker, first.Start(iu.cfg.Location), first.End(iu.cfg.Location)); err != nil {
			return storeError("delete first month", err)
		}

		w := NewBatchWriter(store.Bars(), iu.cfg.BatchSize)
		for _, m := range months {
			if err := ctx.Err(); err != nil {
				w.Discard()
				return err
			}
			minutes, days, err := iu.ingestMonth(ctx, ticker, m)
			if err != nil {
				w.Discard()
				return err
			}
			if err := w.Add(ctx, minutes...); err != nil {
				return storeError("write minute bars", err)
			}
			if err := w.Add(ctx, days...); err != nil {
				return storeError("write daily bars", err)
			}
			res.MinuteBars += len(minutes)
			res.DailyBars += len(days)
		}
		if err := w.Flush(ctx); err != nil {
			return storeError("write bars", err)
		}

		q, err = iu.quota.Consume(ctx, store.Quota(), q, len(months))
		if err != nil {
			return storeError("update quota", err)
		}
		res.Remaining = q.Remaining
		return nil
	})
	if err != nil {
		slog.Error("failed to ingest history", "ticker", ticker, "start", start.String(), "end", end.String(), "error", err)
		return IngestResult{}, err
	}

	if iu.cache != nil {
		if err := iu.cache.Invalidate(ctx, ticker); err != nil {
			slog.Warn("failed to invalidate bar cache", "ticker", ticker, "error", err)
		}
	}
	slog.Info("history ingested", "ticker", ticker, "months", len(months),
		"minute_bars", res.MinuteBars, "daily_bars", res.DailyBars, "remaining_calls", res.Remaining)
	return res, nil
}

// ingestMonth は1か月分を取得し、補完済みの1分足とそこから集計した日足を返します。
func (iu *IngestUsecase) ingestMonth(ctx context.Context, ticker string, m entity.MonthKey) ([]entity.Bar, []entity.Bar, error) {
	iu.rateLimiter.WaitIfNeeded()
	raw, err := iu.market.FetchMonth(ctx, ticker, m)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s %s: %w", ticker, m, err)
	}

	minutes, err := RepairGaps(raw, iu.cfg.Session)
	if err != nil {
		return nil, nil, fmt.Errorf("repair %s %s: %w", ticker, m, err)
	}
	days := AggregateDaily(minutes)

	// 取得したデータに銘柄コードを設定
	for i := range minutes {
		minutes[i].Ticker = ticker
	}
	for i := range days {
		days[i].Ticker = ticker
	}

	slog.Info("month fetched", "ticker", ticker, "month", m.String(),
		"raw", len(raw), "filled", len(minutes)-len(raw), "days", len(days))
	return minutes, days, nil
}

// storeError は永続化の失敗を domain.ErrStoreFailure で包みます。ドメインエラーはそのまま伝播します。
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrQuotaConflict) || errors.Is(err, domain.ErrStoreFailure) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreFailure, err)
}
