package entity

import (
	"errors"
	"testing"
	"time"

	"history_backend/internal/feature/bars/domain"
)

func TestMonthRange(t *testing.T) {
	testCases := []struct {
		name    string
		start   MonthKey
		end     MonthKey
		want    []string
		wantErr error
	}{
		{
			name:  "success: crosses a year boundary",
			start: MonthKey{2023, time.November},
			end:   MonthKey{2024, time.February},
			want:  []string{"2023-11", "2023-12", "2024-01", "2024-02"},
		},
		{
			name:  "success: single month",
			start: MonthKey{2024, time.May},
			end:   MonthKey{2024, time.May},
			want:  []string{"2024-05"},
		},
		{
			name:    "error: start after end",
			start:   MonthKey{2024, time.March},
			end:     MonthKey{2024, time.January},
			wantErr: domain.ErrInvalidRange,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MonthRange(tc.start, tc.end)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d months, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i].String() != tc.want[i] {
					t.Errorf("month[%d] = %s, want %s", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParseMonthKey(t *testing.T) {
	m, err := ParseMonthKey("2024-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != (MonthKey{2024, time.February}) {
		t.Errorf("got %+v", m)
	}

	for _, in := range []string{"", "2024-13", "2024/02", "24-02"} {
		if _, err := ParseMonthKey(in); !errors.Is(err, domain.ErrInvalidMonth) {
			t.Errorf("ParseMonthKey(%q) = %v, want ErrInvalidMonth", in, err)
		}
	}
}

func TestMonthKey_Bounds(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	m := MonthKey{2023, time.December}
	if got := m.Start(ny).Format(time.DateOnly); got != "2023-12-01" {
		t.Errorf("Start = %s", got)
	}
	if got := m.End(ny).Format(time.DateOnly); got != "2024-01-01" {
		t.Errorf("End = %s", got)
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-10" || d.IsZero() {
		t.Errorf("unexpected date %+v", d)
	}
	if !(Date{}).IsZero() {
		t.Error("zero Date should report IsZero")
	}
}
