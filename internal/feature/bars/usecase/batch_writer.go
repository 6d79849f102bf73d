package usecase

import (
	"context"

	"history_backend/internal/feature/bars/domain/entity"
)

// DefaultBatchSize はバッファがこの件数を超えた時点でストアへ書き出します。
const DefaultBatchSize = 100000

// BarSink はバーの一括書き込み先です。
type BarSink interface {
	UpsertBatch(ctx context.Context, bars []entity.Bar) error
}

// BatchWriter は1分足・日足を溜めておき、閾値を超えるたびにまとめて書き出します。
// 閾値はピークメモリだけを左右し、最終的に永続化される行の集合は変わりません。
type BatchWriter struct {
	sink      BarSink
	threshold int
	buf       []entity.Bar
	written   int
}

// NewBatchWriter は新しい BatchWriter を作成します。threshold が0以下なら DefaultBatchSize を使います。
func NewBatchWriter(sink BarSink, threshold int) *BatchWriter {
	if threshold <= 0 {
		threshold = DefaultBatchSize
	}
	return &BatchWriter{sink: sink, threshold: threshold}
}

// Add はバーをバッファに追加し、閾値を超えたら書き出します。
func (w *BatchWriter) Add(ctx context.Context, bars ...entity.Bar) error {
	w.buf = append(w.buf, bars...)
	if len(w.buf) > w.threshold {
		return w.Flush(ctx)
	}
	return nil
}

// Flush はバッファに残っているバーをすべて書き出します。
func (w *BatchWriter) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	if err := w.sink.UpsertBatch(ctx, w.buf); err != nil {
		return err
	}
	w.written += len(w.buf)
	// sink がスライスを保持していても上書きしないよう、新しいバッファに切り替える
	w.buf = nil
	return nil
}

// Discard は未書き出しのバーを破棄します。
func (w *BatchWriter) Discard() {
	w.buf = nil
}

// Pending は未書き出しの件数を返します。
func (w *BatchWriter) Pending() int {
	return len(w.buf)
}

// Written は書き出し済みの件数を返します。
func (w *BatchWriter) Written() int {
	return w.written
}
