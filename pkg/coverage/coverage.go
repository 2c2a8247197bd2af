// Package coverage resolves how many workers a given (date, shift) pair
// requires, either from a list of per-slot rules or a global floor, and
// centralizes the weekday-encoding conversion between coverage rules
// (0=Sunday...6=Saturday) and the ISO weekday masks used by shift templates
// (1=Monday...7=Sunday). Resolver memoizes results per (date, shiftID)
// for the lifetime of a single build.
package coverage

import (
	"time"

	"github.com/paiban/rxsched/pkg/model"
)

// Rule is a per-slot coverage requirement: applies to the weekdays in
// Weekdays (0=Sunday...6=Saturday) and shifts whose start hour falls in
// [HourStart, HourEnd).
type Rule struct {
	Weekdays   []int `json:"weekdays"`
	HourStart  int   `json:"hourStart"`
	HourEnd    int   `json:"hourEnd"`
	MinWorkers int   `json:"minWorkers"`
}

// Config is the coverage input: either a flat default floor, or an ordered
// list of per-slot rules that fall back to Default when none match.
type Config struct {
	Default int    `json:"default"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Resolver answers Required(date, shift) against a fixed Config, caching
// results per (date, shiftID) during a single build.
type Resolver struct {
	cfg   Config
	cache map[string]int
}

// NewResolver creates a Resolver over cfg.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg, cache: make(map[string]int)}
}

// Required returns the headcount demanded for shift on date: the min
// workers of the first matching rule (in declaration order), or the
// config's default floor if none match.
func (r *Resolver) Required(date time.Time, shift model.ShiftTemplate) int {
	key := date.Format("2006-01-02") + "|" + shift.ID.String()
	if v, ok := r.cache[key]; ok {
		return v
	}
	v := r.resolve(date, shift)
	r.cache[key] = v
	return v
}

func (r *Resolver) resolve(date time.Time, shift model.ShiftTemplate) int {
	// time.Weekday is already Sunday=0...Saturday=6, the same encoding the
	// coverage rules use, so no conversion is needed here.
	weekday := int(date.Weekday())
	startHour := shift.StartMinute / 60

	for _, rule := range r.cfg.Rules {
		if !containsWeekday(rule.Weekdays, weekday) {
			continue
		}
		if startHour >= rule.HourStart && startHour < rule.HourEnd {
			return rule.MinWorkers
		}
	}
	return r.cfg.Default
}

// ISOWeekday converts a time.Time's native weekday (Sunday=0) into the ISO
// encoding used by shift templates (1=Monday...7=Sunday): iso = (cov == 0)
// ? 7 : cov.
func ISOWeekday(t time.Time) int {
	cov := int(t.Weekday())
	if cov == 0 {
		return 7
	}
	return cov
}

func containsWeekday(set []int, w int) bool {
	for _, v := range set {
		if v == w {
			return true
		}
	}
	return false
}
