// Package entity defines the domain models for the bars feature.
package entity

import "time"

// Interval is the granularity label stored with each bar.
type Interval string

const (
	// IntervalMinute labels one-minute intraday bars.
	IntervalMinute Interval = "1min"
	// IntervalDay labels daily bars derived from the minute series.
	IntervalDay Interval = "1day"
)

// Bar represents OHLCV (Open, High, Low, Close, Volume) data
// for a ticker at one interval.
type Bar struct {
	Ticker   string    // Ticker symbol (e.g., "AAPL")
	Interval Interval  // "1min" or "1day"
	Time     time.Time // Start of the minute, or local midnight for daily bars
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
}

// RawBar is one provider row after parsing, before gap repair.
type RawBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// ToBar converts the raw row into a minute bar without a ticker.
func (r RawBar) ToBar() Bar {
	return Bar{
		Interval: IntervalMinute,
		Time:     r.Time,
		Open:     r.Open,
		High:     r.High,
		Low:      r.Low,
		Close:    r.Close,
		Volume:   r.Volume,
	}
}
