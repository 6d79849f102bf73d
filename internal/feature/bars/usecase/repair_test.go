package usecase

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"history_backend/internal/feature/bars/domain"
	"history_backend/internal/feature/bars/domain/entity"
)

func TestRepairGaps_ContiguousInputUnchanged(t *testing.T) {
	t.Parallel()
	ny := newYork()

	rows := []entity.RawBar{
		raw(ny, 2024, 1, 2, 15, 57, 10, 100),
		raw(ny, 2024, 1, 2, 15, 58, 11, 200),
		raw(ny, 2024, 1, 2, 15, 59, 12, 300),
		raw(ny, 2024, 1, 3, 9, 30, 13, 400), // 15:59 から翌日 09:30 への飛びは連続扱い
		raw(ny, 2024, 1, 3, 9, 31, 14, 500),
	}

	got, err := RepairGaps(rows, DefaultSessionClose)
	require.NoError(t, err)
	require.Len(t, got, len(rows))
	for i, r := range rows {
		assert.Equal(t, r.ToBar(), got[i], "bar %d changed", i)
	}
}

func TestRepairGaps_SingleMissingMinute(t *testing.T) {
	t.Parallel()
	ny := newYork()

	rows := []entity.RawBar{
		raw(ny, 2024, 1, 2, 10, 0, 50.0, 100),
		raw(ny, 2024, 1, 2, 10, 2, 52.0, 100),
	}

	got, err := RepairGaps(rows, DefaultSessionClose)
	require.NoError(t, err)
	require.Len(t, got, 3)

	want := entity.Bar{
		Interval: entity.IntervalMinute,
		Time:     time.Date(2024, 1, 2, 10, 1, 0, 0, ny),
		Open:     50.0,
		High:     50.0,
		Low:      50.0,
		Close:    50.0,
		Volume:   0,
	}
	assert.Equal(t, rows[0].ToBar(), got[0])
	assert.Equal(t, want, got[1])
	assert.Equal(t, rows[1].ToBar(), got[2])
}

func TestRepairGaps_MultiMinuteGap(t *testing.T) {
	t.Parallel()
	ny := newYork()

	rows := []entity.RawBar{
		raw(ny, 2024, 1, 2, 10, 0, 42.5, 100),
		raw(ny, 2024, 1, 2, 10, 5, 43.0, 100),
	}

	got, err := RepairGaps(rows, DefaultSessionClose)
	require.NoError(t, err)
	require.Len(t, got, 6)

	for i := 1; i <= 4; i++ {
		f := got[i]
		assert.Equal(t, time.Date(2024, 1, 2, 10, i, 0, 0, ny), f.Time)
		assert.Equal(t, 42.5, f.Open)
		assert.Equal(t, 42.5, f.High)
		assert.Equal(t, 42.5, f.Low)
		assert.Equal(t, 42.5, f.Close)
		assert.Equal(t, int64(0), f.Volume)
	}
	assert.Equal(t, rows[1].ToBar(), got[5])
}

func TestRepairGaps_SessionCloseBoundary(t *testing.T) {
	t.Parallel()
	ny := newYork()

	rows := []entity.RawBar{
		raw(ny, 2024, 1, 2, 15, 59, 10, 100),
		raw(ny, 2024, 1, 3, 9, 31, 11, 100),
	}

	_, err := RepairGaps(rows, DefaultSessionClose)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionBoundary)
}

func TestRepairGaps_FillsUpToSessionCloseThenFails(t *testing.T) {
	t.Parallel()
	ny := newYork()

	// 15:57 から翌日 09:45 まで: 15:58, 15:59 を補完した後、セッション終了で打ち切る
	rows := []entity.RawBar{
		raw(ny, 2024, 1, 2, 15, 57, 10, 100),
		raw(ny, 2024, 1, 3, 9, 45, 11, 100),
	}

	_, err := RepairGaps(rows, DefaultSessionClose)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionBoundary)
}

func TestRepairGaps_HourEndAlignmentAccepted(t *testing.T) {
	t.Parallel()
	ny := newYork()

	tests := []struct {
		name string
		rows []entity.RawBar
	}{
		{
			name: ":59 to :30",
			rows: []entity.RawBar{
				raw(ny, 2024, 1, 2, 12, 59, 10, 100),
				raw(ny, 2024, 1, 2, 13, 30, 11, 100),
				raw(ny, 2024, 1, 2, 13, 31, 12, 100),
			},
		},
		{
			name: ":59 to :00 of a later hour",
			rows: []entity.RawBar{
				raw(ny, 2024, 1, 2, 10, 59, 10, 100),
				raw(ny, 2024, 1, 2, 12, 0, 11, 100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := RepairGaps(tt.rows, DefaultSessionClose)
			require.NoError(t, err)
			assert.Len(t, got, len(tt.rows), "jumps from :59 to :00 or :30 must not be filled")
		})
	}
}

func TestRepairGaps_CustomSessionClose(t *testing.T) {
	t.Parallel()
	ny := newYork()

	session, err := ParseSessionClose("12:59")
	require.NoError(t, err)

	rows := []entity.RawBar{
		raw(ny, 2024, 11, 29, 12, 59, 10, 100),
		raw(ny, 2024, 12, 2, 9, 35, 11, 100),
	}

	_, err = RepairGaps(rows, session)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionBoundary)
}

func TestRepairGaps_UnorderedInput(t *testing.T) {
	t.Parallel()
	ny := newYork()

	tests := []struct {
		name string
		rows []entity.RawBar
	}{
		{
			name: "descending",
			rows: []entity.RawBar{
				raw(ny, 2024, 1, 2, 10, 5, 10, 100),
				raw(ny, 2024, 1, 2, 10, 0, 10, 100),
			},
		},
		{
			name: "duplicate minute",
			rows: []entity.RawBar{
				raw(ny, 2024, 1, 2, 10, 0, 10, 100),
				raw(ny, 2024, 1, 2, 10, 0, 10, 100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := RepairGaps(tt.rows, DefaultSessionClose)
			assert.ErrorIs(t, err, domain.ErrUnorderedBars)
		})
	}
}

func TestRepairGaps_Empty(t *testing.T) {
	t.Parallel()

	got, err := RepairGaps(nil, DefaultSessionClose)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestRepairGaps_RandomSessions はランダムに分を間引いた入力に対し、
// 出力が入力をすべて順番通りに含み、間は連続かつ補完バーがフラットであることを検証します。
func TestRepairGaps_RandomSessions(t *testing.T) {
	t.Parallel()
	ny := newYork()
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		var rows []entity.RawBar
		for day := 2; day <= 4; day++ {
			open := time.Date(2024, 1, day, 9, 30, 0, 0, ny)
			for i := 0; i < 390; i++ {
				// 最初と最後の分は必ず残し、日をまたぐ遷移を 15:59 -> 09:30 に固定する
				if i != 0 && i != 389 && rng.Intn(3) == 0 {
					continue
				}
				ts := open.Add(time.Duration(i) * time.Minute)
				rows = append(rows, entity.RawBar{Time: ts, Open: 1, High: 2, Low: 0.5, Close: float64(i), Volume: int64(rng.Intn(1000) + 1)})
			}
		}

		got, err := RepairGaps(rows, DefaultSessionClose)
		require.NoError(t, err)

		ri := 0
		for i, b := range got {
			if i > 0 {
				require.True(t, continuous(got[i-1].Time, b.Time), "discontinuity at %s", b.Time)
			}
			if ri < len(rows) && b.Time.Equal(rows[ri].Time) {
				require.Equal(t, rows[ri].ToBar(), b)
				ri++
				continue
			}
			// 補完バーは直前の終値でフラット、出来高ゼロ、次の生データを超えない
			require.Less(t, ri, len(rows))
			require.True(t, b.Time.Before(rows[ri].Time), "filler %s overtakes next raw bar %s", b.Time, rows[ri].Time)
			prevClose := got[i-1].Close
			require.Equal(t, entity.Bar{Interval: entity.IntervalMinute, Time: b.Time,
				Open: prevClose, High: prevClose, Low: prevClose, Close: prevClose}, b)
		}
		require.Equal(t, len(rows), ri, "every raw bar must appear in the output")
		require.Equal(t, 3*390, len(got))
	}
}

func TestParseSessionClose(t *testing.T) {
	t.Parallel()

	s, err := ParseSessionClose("15:59")
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionClose, s)
	assert.Equal(t, "15:59", s.String())

	_, err = ParseSessionClose("3pm")
	assert.Error(t, err)
}
