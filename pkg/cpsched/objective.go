package cpsched

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/rxsched/pkg/catalog"
	"github.com/paiban/rxsched/pkg/model"
)

// ApplyObjective wires the soft terms as one maximized linear expression: guard-duty
// spread and hour spread enter with a negative coefficient (the model is
// rewarded for shrinking them), favorite-shift hits enter with a positive
// one. Spread is computed without an AddMaxEquality/AddMinEquality helper:
// an upper-bound variable is pushed down and a lower-bound variable is
// pushed up by the same maximization, which is exactly what those two
// primitives would compute, using only the AddLessOrEqual primitive the
// pack's samples already exercise.
func ApplyObjective(b *cpmodel.CpModelBuilder, vs *VarSpace, cat *catalog.Catalog, employees []model.Employee, days int, weights Weights, hourScale int) {
	obj := cpmodel.NewLinearExpr()

	if weights.EquityGuards > 0 {
		addSpreadPenalty(b, obj, vs, cat, employees, weights.EquityGuards, int64(days), guardHours)
	}
	if weights.EquityHours > 0 {
		addSpreadPenalty(b, obj, vs, cat, employees, weights.EquityHours, maxMonthlyHourDomain*int64(hourScale), func(tpl model.ShiftTemplate) int64 {
			return costOf(tpl, hourScale)
		})
	}
	if weights.Preferences > 0 {
		addPreferenceBonus(obj, vs, employees, weights.Preferences)
	}

	b.Maximize(obj)
}

// maxMonthlyHourDomain bounds the hour-spread variables generously above
// any plausible monthly total (30 days * 24h); the original scheduler used
// this same fixed upper bound of 1000 hours rather than deriving it from
// numDays. Scaled by hourScale here since costOf's terms are themselves in
// scaled units (hours when hourScale=1, minutes when hourScale=60, etc).
const maxMonthlyHourDomain = 1000

// guardHours is a per-shift weight used only to pick which variables feed
// the guard-duty spread term: 1 when the shift is a guard shift, 0
// otherwise. The hour-spread term instead weights each shift by its
// duration via costOf, so it measures total hours rather than shift count.
func guardHours(tpl model.ShiftTemplate) int64 {
	if tpl.Type == model.ShiftGuard {
		return 1
	}
	return 0
}

func addSpreadPenalty(b *cpmodel.CpModelBuilder, obj *cpmodel.LinearExpr, vs *VarSpace, cat *catalog.Catalog, employees []model.Employee, weight int64, domainMax int64, termWeight func(model.ShiftTemplate) int64) {
	upper := b.NewIntVarFromDomain(cpmodel.NewDomain(0, domainMax))
	lower := b.NewIntVarFromDomain(cpmodel.NewDomain(0, domainMax))

	any := false
	for _, e := range employees {
		expr := cpmodel.NewLinearExpr()
		hasTerm := false
		for _, key := range vs.KeysFor(e.ID.String()) {
			tpl, ok := cat.Get(key.ShiftID)
			if !ok {
				continue
			}
			w := termWeight(tpl)
			if w == 0 {
				continue
			}
			v, _ := vs.Get(key)
			expr.AddTerm(v, w)
			hasTerm = true
		}
		if !hasTerm {
			continue
		}
		any = true
		b.AddLessOrEqual(expr, upper)
		b.AddLessOrEqual(lower, expr)
	}
	if !any {
		return
	}

	obj.AddTerm(upper, -weight)
	obj.AddTerm(lower, weight)
}

// Favorite-shift bonus: a hit on an employee's favorite-shift list adds
// weight to every instance of that shift assigned to them across the month.
func addPreferenceBonus(obj *cpmodel.LinearExpr, vs *VarSpace, employees []model.Employee, weight int64) {
	for _, e := range employees {
		if len(e.FavoriteShifts) == 0 {
			continue
		}
		for _, key := range vs.KeysFor(e.ID.String()) {
			if !e.PrefersShift(key.ShiftID) {
				continue
			}
			v, _ := vs.Get(key)
			obj.AddTerm(v, weight)
		}
	}
}
