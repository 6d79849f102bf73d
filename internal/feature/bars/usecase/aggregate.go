package usecase

import (
	"time"

	"history_backend/internal/feature/bars/domain/entity"
)

// AggregateDaily は連続した1分足を暦日ごとに畳み込み、日足を返します。
// 入力は時刻順であることを前提とし、日付はバー自身のロケーションで判定します。
func AggregateDaily(minutes []entity.Bar) []entity.Bar {
	var (
		out     []entity.Bar
		cur     entity.Bar
		curDate entity.Date
		open    bool
	)
	for _, b := range minutes {
		d := entity.DateOf(b.Time)
		if open && d == curDate {
			cur.High = max(cur.High, b.High)
			cur.Low = min(cur.Low, b.Low)
			cur.Close = b.Close
			cur.Volume += b.Volume
			continue
		}
		if open {
			out = append(out, cur)
		}
		cur = entity.Bar{
			Ticker:   b.Ticker,
			Interval: entity.IntervalDay,
			Time:     time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, b.Time.Location()),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			Volume:   b.Volume,
		}
		curDate = d
		open = true
	}
	if open {
		out = append(out, cur)
	}
	return out
}
