package calendar

import (
	"testing"
	"time"
)

func TestDaysOf(t *testing.T) {
	cases := []struct {
		name      string
		month     string
		wantCount int
		wantErr   bool
	}{
		{"february leap year", "2024-02", 29, false},
		{"february non-leap", "2025-02", 28, false},
		{"thirty one days", "2025-03", 31, false},
		{"invalid format", "2025/03", 0, true},
		{"month out of range", "2025-13", 0, true},
		{"year too old", "1970-01", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := DaysOf(tc.month)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.month)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(days) != tc.wantCount {
				t.Errorf("len(days) = %d, want %d", len(days), tc.wantCount)
			}
			for i := 1; i < len(days); i++ {
				if !days[i].After(days[i-1]) {
					t.Fatalf("days not strictly ascending at index %d", i)
				}
			}
		})
	}
}

func TestWeeksOfPartialBoundaries(t *testing.T) {
	days, err := DaysOf("2025-02")
	if err != nil {
		t.Fatalf("DaysOf: %v", err)
	}
	weeks := WeeksOf(days)

	total := 0
	for _, w := range weeks {
		total += len(w)
	}
	if total != len(days) {
		t.Fatalf("week groups contain %d days, want %d", total, len(days))
	}

	first := weeks[0]
	if first[0].Weekday() != time.Saturday {
		t.Fatalf("2025-02-01 is a Saturday; first week should start on it, got %v", first[0].Weekday())
	}
	if len(first) != 2 {
		t.Errorf("first week of 2025-02 should have 2 days (Sat, Sun), got %d", len(first))
	}

	for _, w := range weeks[:len(weeks)-1] {
		last := w[len(w)-1]
		if last.Weekday() != time.Sunday {
			t.Errorf("non-final week group must close on Sunday, closed on %v", last.Weekday())
		}
	}
}

func TestWeeksOfEmpty(t *testing.T) {
	if weeks := WeeksOf(nil); weeks != nil {
		t.Errorf("WeeksOf(nil) = %v, want nil", weeks)
	}
}
