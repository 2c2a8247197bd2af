package cpsched

import (
	"fmt"
	"math"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/rxsched/pkg/calendar"
	"github.com/paiban/rxsched/pkg/catalog"
	"github.com/paiban/rxsched/pkg/coverage"
	"github.com/paiban/rxsched/pkg/model"
)

// ApplyHardConstraints wires every hard constraint (coverage equality,
// no-overlap, hour caps, rest-day floor, personal-holiday exclusion, pin
// enforcement) onto b over the variable space vs. It returns warnings for
// pins that had to be silently discarded (unknown employee/shift/date, or a
// shift not valid on its pinned date) rather than failing the whole build —
// a malformed pin should not sink an otherwise solvable month.
func ApplyHardConstraints(
	b *cpmodel.CpModelBuilder,
	vs *VarSpace,
	cat *catalog.Catalog,
	cov *coverage.Resolver,
	employees []model.Employee,
	days []time.Time,
	pins []model.Pin,
	minRestDaysPerWeek int,
	hourScale int,
) []string {
	applyCoverage(b, vs, cat, cov, days)
	applyNoOverlap(b, vs, cat, employees, days)
	applyHourCaps(b, vs, cat, employees, days, hourScale)
	applyRestFloor(b, vs, employees, days, minRestDaysPerWeek)
	applyHolidays(b, vs, employees)
	return applyPins(b, vs, cat, pins)
}

// Coverage equality: every (date, shift) pair the catalog allows gets exactly the
// required headcount, pinned with a matching pair of AddLessOrEqual calls
// rather than a single equality primitive (mirrors the
// min/maxShiftsPerNurse bracketing in the nurses sample).
func applyCoverage(b *cpmodel.CpModelBuilder, vs *VarSpace, cat *catalog.Catalog, cov *coverage.Resolver, days []time.Time) {
	for _, s := range cat.Templates() {
		for _, d := range days {
			if !catalog.ValidFor(s, d) {
				continue
			}
			dateStr := d.Format("2006-01-02")
			required := cov.Required(d, s)

			expr := cpmodel.NewLinearExpr()
			for _, ev := range vs.EmployeesFor(dateStr, s.ID.String()) {
				expr.Add(ev.Var)
			}
			n := cpmodel.NewConstant(int64(required))
			b.AddLessOrEqual(n, expr)
			b.AddLessOrEqual(expr, n)
		}
	}
}

// No-overlap: within one employee's day, no two assigned shifts may overlap.
func applyNoOverlap(b *cpmodel.CpModelBuilder, vs *VarSpace, cat *catalog.Catalog, employees []model.Employee, days []time.Time) {
	for _, e := range employees {
		eid := e.ID.String()
		for _, d := range days {
			dateStr := d.Format("2006-01-02")
			shifts := vs.ShiftsOn(eid, dateStr)
			for i := 0; i < len(shifts); i++ {
				for j := i + 1; j < len(shifts); j++ {
					if cat.OverlapsByID(shifts[i].ShiftID, shifts[j].ShiftID) {
						b.AddAtMostOne(shifts[i].Var, shifts[j].Var)
					}
				}
			}
		}
	}
}

// Daily, weekly and monthly hour ceilings. Hours are rounded down to an
// integer unit of 1/hourScale so the linear expression stays in
// CP-SAT's integer domain — exact fractional-hour loads can admit
// schedules that slightly exceed the true cap when many short shifts
// stack; scaling hourScale up (e.g. to 60 for minute granularity) narrows
// that slack without changing the model's shape.
func applyHourCaps(b *cpmodel.CpModelBuilder, vs *VarSpace, cat *catalog.Catalog, employees []model.Employee, days []time.Time, hourScale int) {
	weeks := calendar.WeeksOf(days)

	for _, e := range employees {
		eid := e.ID.String()

		// Daily cap.
		for _, d := range days {
			dateStr := d.Format("2006-01-02")
			expr := cpmodel.NewLinearExpr()
			for _, sv := range vs.ShiftsOn(eid, dateStr) {
				tpl, ok := cat.Get(sv.ShiftID)
				if !ok {
					continue
				}
				expr.AddTerm(sv.Var, costOf(tpl, hourScale))
			}
			b.AddLessOrEqual(expr, cpmodel.NewConstant(int64(e.MaxDailyHours*hourScale)))
		}

		// Weekly cap, grouped by calendar.WeeksOf (partial boundary weeks
		// included as-is, same cap applies).
		for _, week := range weeks {
			expr := cpmodel.NewLinearExpr()
			for _, d := range week {
				dateStr := d.Format("2006-01-02")
				for _, sv := range vs.ShiftsOn(eid, dateStr) {
					tpl, ok := cat.Get(sv.ShiftID)
					if !ok {
						continue
					}
					expr.AddTerm(sv.Var, costOf(tpl, hourScale))
				}
			}
			b.AddLessOrEqual(expr, cpmodel.NewConstant(int64(e.MaxWeeklyHours*hourScale)))
		}

		// Monthly cap.
		monthExpr := cpmodel.NewLinearExpr()
		for _, key := range vs.KeysFor(eid) {
			v, _ := vs.Get(key)
			tpl, ok := cat.Get(key.ShiftID)
			if !ok {
				continue
			}
			monthExpr.AddTerm(v, costOf(tpl, hourScale))
		}
		b.AddLessOrEqual(monthExpr, cpmodel.NewConstant(int64(e.MaxMonthlyHours*hourScale)))
	}
}

// Rest-day floor: at least minRestDaysPerWeek rest days per ISO week (partial weeks use
// their own length). Whether an employee worked a given day is not simply
// derived from the day's shift count (split shifts can legitimately put two
// non-overlapping shifts on one day), so it is modeled as a reified
// boolean: worked=true iff at least one of that day's shift variables is 1.
// A week short enough that len(week)-minRestDaysPerWeek <= 0 drops the
// constraint entirely rather than clamping it to zero — clamping would
// forbid all work that week instead of just leaving it unconstrained.
func applyRestFloor(b *cpmodel.CpModelBuilder, vs *VarSpace, employees []model.Employee, days []time.Time, minRestDaysPerWeek int) {
	if minRestDaysPerWeek <= 0 {
		return
	}
	weeks := calendar.WeeksOf(days)

	for _, e := range employees {
		eid := e.ID.String()
		for _, week := range weeks {
			weekExpr := cpmodel.NewLinearExpr()
			anyDay := false

			for _, d := range week {
				dateStr := d.Format("2006-01-02")
				shifts := vs.ShiftsOn(eid, dateStr)
				if len(shifts) == 0 {
					continue
				}
				anyDay = true

				dayExpr := cpmodel.NewLinearExpr()
				for _, sv := range shifts {
					dayExpr.Add(sv.Var)
				}

				worked := b.NewBoolVar().WithName(fmt.Sprintf("worked_%s_%s", eid, dateStr))
				b.AddLessOrEqual(cpmodel.NewConstant(1), dayExpr).OnlyEnforceIf(worked)
				b.AddLessOrEqual(dayExpr, cpmodel.NewConstant(0)).OnlyEnforceIf(worked.Not())
				weekExpr.Add(worked)
			}

			if !anyDay {
				continue
			}
			cap := len(week) - minRestDaysPerWeek
			if cap <= 0 {
				continue
			}
			b.AddLessOrEqual(weekExpr, cpmodel.NewConstant(int64(cap)))
		}
	}
}

// Personal holidays are hard days off.
func applyHolidays(b *cpmodel.CpModelBuilder, vs *VarSpace, employees []model.Employee) {
	for _, e := range employees {
		eid := e.ID.String()
		for _, holiday := range e.PersonalHolidays {
			for _, sv := range vs.ShiftsOn(eid, holiday) {
				b.AddLessOrEqual(sv.Var, cpmodel.NewConstant(0))
			}
		}
	}
}

// Pin enforcement: a pin forces its variable to 1 and zeroes out every shift that
// overlaps it for the same employee/date. Pins that reference an
// unallocated variable (unknown employee, unknown shift, or a shift not
// valid on the pinned date) are discarded with a warning instead of
// failing the whole build.
func applyPins(b *cpmodel.CpModelBuilder, vs *VarSpace, cat *catalog.Catalog, pins []model.Pin) []string {
	var warnings []string

	for _, p := range pins {
		key := VarKey{EmployeeID: p.EmployeeID, Date: p.Date, ShiftID: p.ShiftID}
		v, ok := vs.Get(key)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("pin discarded: employee %s has no valid shift %s on %s", p.EmployeeID, p.ShiftID, p.Date))
			continue
		}

		b.AddLessOrEqual(cpmodel.NewConstant(1), v)

		for _, sv := range vs.ShiftsOn(p.EmployeeID, p.Date) {
			if sv.ShiftID == p.ShiftID {
				continue
			}
			if cat.OverlapsByID(p.ShiftID, sv.ShiftID) {
				b.AddLessOrEqual(sv.Var, cpmodel.NewConstant(0))
			}
		}
	}
	return warnings
}

func costOf(tpl model.ShiftTemplate, hourScale int) int64 {
	return int64(math.Floor(float64(tpl.EndMinute-tpl.StartMinute) * float64(hourScale) / 60.0))
}
