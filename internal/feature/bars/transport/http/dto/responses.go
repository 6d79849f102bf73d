// Package dto defines data transfer objects for the bars HTTP API.
package dto

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// DownloadResponse は取り込み完了時のレスポンスです。
type DownloadResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	Months         int    `json:"months"`
	RemainingCalls int    `json:"remaining_calls"`
}

// Point は [時刻, 終値] の組です。時刻はデータ提供元のタイムゾーンで "2006-01-02 15:04:05" 形式です。
type Point [2]any

// SeriesResponse は1分足と日足の終値系列です。
type SeriesResponse struct {
	Minute []Point `json:"1min"`
	Day    []Point `json:"1day"`
}
