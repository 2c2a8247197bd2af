package coverage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/rxsched/pkg/model"
)

func shiftStartingAt(hour int) model.ShiftTemplate {
	return model.ShiftTemplate{
		BaseModel:   model.BaseModel{ID: uuid.New()},
		StartMinute: hour * 60,
		EndMinute:   (hour + 4) * 60,
	}
}

func TestResolverDefaultFloor(t *testing.T) {
	r := NewResolver(Config{Default: 1})
	weekday := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	if got := r.Required(weekday, shiftStartingAt(9)); got != 1 {
		t.Errorf("Required = %d, want default 1", got)
	}
}

func TestResolverFirstMatchingRuleWins(t *testing.T) {
	cfg := Config{
		Default: 1,
		Rules: []Rule{
			{Weekdays: []int{1, 2, 3, 4, 5}, HourStart: 9, HourEnd: 14, MinWorkers: 2},
			{Weekdays: []int{1, 2, 3, 4, 5}, HourStart: 14, HourEnd: 19, MinWorkers: 1},
		},
	}
	r := NewResolver(cfg)

	monday := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC) // Monday
	sunday := time.Date(2025, 2, 16, 0, 0, 0, 0, time.UTC) // Sunday, not in either rule

	if got := r.Required(monday, shiftStartingAt(9)); got != 2 {
		t.Errorf("morning slot: got %d, want 2", got)
	}
	if got := r.Required(monday, shiftStartingAt(14)); got != 1 {
		t.Errorf("afternoon slot: got %d, want 1", got)
	}
	if got := r.Required(sunday, shiftStartingAt(9)); got != 1 {
		t.Errorf("weekend should fall back to default: got %d, want 1", got)
	}
}

func TestResolverCaches(t *testing.T) {
	calls := 0
	cfg := Config{Default: 3}
	r := NewResolver(cfg)
	date := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	shift := shiftStartingAt(9)

	for i := 0; i < 3; i++ {
		if r.Required(date, shift) != 3 {
			t.Fatalf("unexpected result on call %d", i)
		}
		calls++
	}
	if _, ok := r.cache[date.Format("2006-01-02")+"|"+shift.ID.String()]; !ok {
		t.Error("expected cache entry to be populated")
	}
}

func TestISOWeekday(t *testing.T) {
	sunday := time.Date(2025, 11, 16, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)

	if got := ISOWeekday(sunday); got != 7 {
		t.Errorf("ISOWeekday(Sunday) = %d, want 7", got)
	}
	if got := ISOWeekday(monday); got != 1 {
		t.Errorf("ISOWeekday(Monday) = %d, want 1", got)
	}
}
