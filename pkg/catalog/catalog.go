// Package catalog normalizes shift templates into a lookup capability with
// exactly two operations: ValidFor (is a template usable on a given date)
// and Overlaps (do two templates' time windows intersect). The overlap
// relation is precomputed once at catalog construction using a half-open
// interval test ([start, end)), so back-to-back shifts never collide.
package catalog

import (
	"fmt"
	"time"

	"github.com/paiban/rxsched/pkg/coverage"
	"github.com/paiban/rxsched/pkg/model"
)

// Catalog holds a normalized, validated set of shift templates and their
// precomputed pairwise overlap relation.
type Catalog struct {
	templates map[string]model.ShiftTemplate
	order     []string
	overlap   map[[2]string]bool
}

// NewCatalog validates every template (rejecting overnight shifts and
// templates lacking both a weekday mask and a fixed date) and precomputes
// the overlap relation.
func NewCatalog(templates []model.ShiftTemplate) (*Catalog, error) {
	c := &Catalog{
		templates: make(map[string]model.ShiftTemplate, len(templates)),
		overlap:   make(map[[2]string]bool),
	}

	for _, tpl := range templates {
		id := tpl.ID.String()
		if tpl.EndMinute <= tpl.StartMinute {
			return nil, fmt.Errorf("catalog: template %s (%s) end <= start, overnight shifts are unsupported", id, tpl.Name)
		}
		if len(tpl.Weekdays) == 0 && tpl.FixedDate == "" {
			return nil, fmt.Errorf("catalog: template %s (%s) has neither a weekday mask nor a fixed date", id, tpl.Name)
		}
		if len(tpl.Weekdays) > 0 && tpl.FixedDate != "" {
			return nil, fmt.Errorf("catalog: template %s (%s) has both a weekday mask and a fixed date", id, tpl.Name)
		}

		actual := float64(tpl.EndMinute-tpl.StartMinute) / 60.0
		if tpl.DurationHours != 0 && absFloat(actual-tpl.DurationHours) > 0.5 {
			return nil, fmt.Errorf("catalog: template %s (%s) duration %.2fh does not match (start,end) span %.2fh within half an hour", id, tpl.Name, tpl.DurationHours, actual)
		}

		c.templates[id] = tpl
		c.order = append(c.order, id)
	}

	for i := 0; i < len(c.order); i++ {
		for j := i + 1; j < len(c.order); j++ {
			a, b := c.templates[c.order[i]], c.templates[c.order[j]]
			key := overlapKey(c.order[i], c.order[j])
			c.overlap[key] = overlapsWindows(a, b)
		}
	}

	return c, nil
}

// Templates returns the catalog's templates in construction order.
func (c *Catalog) Templates() []model.ShiftTemplate {
	out := make([]model.ShiftTemplate, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

// Get returns the template for id, if present.
func (c *Catalog) Get(id string) (model.ShiftTemplate, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// ValidFor reports whether shift may be worked on date: either shift has a
// fixed date equal to date, or shift's weekday mask contains date's ISO
// weekday.
func ValidFor(shift model.ShiftTemplate, date time.Time) bool {
	if shift.HasFixedDate() {
		return shift.FixedDate == date.Format("2006-01-02")
	}
	iso := coverage.ISOWeekday(date)
	for _, w := range shift.Weekdays {
		if w == iso {
			return true
		}
	}
	return false
}

// Overlaps reports whether two templates' [start, end) minute intervals
// intersect. Boundary ties (endA == startB) are non-overlapping.
func Overlaps(a, b model.ShiftTemplate) bool {
	return overlapsWindows(a, b)
}

// OverlapsByID looks up the precomputed overlap relation between two
// template IDs known to the catalog. Two equal IDs always report false;
// otherwise it panics if either ID is unknown, since callers are only
// expected to query IDs the catalog itself returned.
func (c *Catalog) OverlapsByID(idA, idB string) bool {
	if idA == idB {
		return false
	}
	if v, ok := c.overlap[overlapKey(idA, idB)]; ok {
		return v
	}
	a, okA := c.templates[idA]
	b, okB := c.templates[idB]
	if !okA || !okB {
		panic(fmt.Sprintf("catalog: unknown template id in overlap query: %s, %s", idA, idB))
	}
	return overlapsWindows(a, b)
}

func overlapsWindows(a, b model.ShiftTemplate) bool {
	return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

func overlapKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
