package alphavantage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"history_backend/internal/feature/bars/adapters/alphavantage/dto"
	"history_backend/internal/feature/bars/domain"
	"history_backend/internal/feature/bars/domain/entity"
	"history_backend/internal/feature/bars/usecase"
)

// csvColumns はレスポンスCSVの列数（timestamp,open,high,low,close,volume）です。
const csvColumns = 6

// Client はAlpha Vantageから1か月分の1分足を取得するMarketRepository実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Client{cfg: cfg, client: client}
}

// FetchMonth は ticker の month 1か月分の通常取引時間の1分足を時刻の昇順で返します。
//
// 空のレスポンスまたは呼び出し上限の通知は domain.ErrQuotaExhausted、
// エラーメッセージは domain.ErrProviderRejected、通信エラーと4xx/5xxは domain.ErrProviderUnavailable、
// 解釈できない行は domain.ErrMalformedResponse になります。
func (c *Client) FetchMonth(ctx context.Context, ticker string, month entity.MonthKey) ([]entity.RawBar, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("function", "TIME_SERIES_INTRADAY")
	q.Set("symbol", ticker)
	q.Set("interval", "1min")
	q.Set("month", month.String())
	q.Set("outputsize", "full")
	q.Set("extended_hours", "false")
	q.Set("datatype", "csv")
	q.Set("apikey", c.cfg.APIKey)

	u := fmt.Sprintf("%s/query?%s", strings.TrimRight(c.cfg.BaseURL, "/"), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: alphavantage http %d", domain.ErrProviderUnavailable, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrProviderUnavailable, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response for %s %s", domain.ErrQuotaExhausted, ticker, month)
	}
	if body[0] == '{' {
		return nil, noticeError(body)
	}

	return c.parseCSV(body)
}

// noticeError はCSVの代わりに返されたJSON本文をエラーに変換します。
func noticeError(body []byte) error {
	var n dto.Notice
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("%w: decode notice: %w", domain.ErrMalformedResponse, err)
	}
	switch {
	case n.RateLimited():
		return fmt.Errorf("%w: %s", domain.ErrQuotaExhausted, n.Note+n.Information)
	case n.ErrorMessage != "":
		return fmt.Errorf("%w: %s", domain.ErrProviderRejected, n.ErrorMessage)
	default:
		return fmt.Errorf("%w: unexpected JSON body", domain.ErrMalformedResponse)
	}
}

// parseCSV はヘッダー行を除いたCSVを新しい順から古い順へ並べ替えてパースします。
func (c *Client) parseCSV(body []byte) ([]entity.RawBar, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = csvColumns
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: line %d: %w", domain.ErrMalformedResponse, perr.Line, perr.Err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if records[0][0] != "timestamp" {
		return nil, fmt.Errorf("%w: missing header, got %q", domain.ErrMalformedResponse, records[0][0])
	}

	rows := records[1:]
	slices.Reverse(rows)

	bars := make([]entity.RawBar, 0, len(rows))
	for _, rec := range rows {
		b, err := c.parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func (c *Client) parseRow(rec []string) (entity.RawBar, error) {
	// タイムスタンプをパース（提供元のタイムゾーン）
	tm, err := time.ParseInLocation(time.DateTime, rec[0], c.cfg.Location)
	if err != nil {
		return entity.RawBar{}, fmt.Errorf("parse timestamp %q: %w", rec[0], err)
	}
	var prices [4]float64
	for i, name := range []string{"open", "high", "low", "close"} {
		prices[i], err = strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return entity.RawBar{}, fmt.Errorf("parse %s %q: %w", name, rec[i+1], err)
		}
	}
	vol, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil {
		return entity.RawBar{}, fmt.Errorf("parse volume %q: %w", rec[5], err)
	}

	return entity.RawBar{
		Time:   tm,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: vol,
	}, nil
}
