package cpsched

import (
	"math"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/rxsched/pkg/catalog"
	"github.com/paiban/rxsched/pkg/model"
)

// remediationHints are the five fixed suggestions surfaced whenever the
// solver could not certify a feasible schedule. They read as operator
// advice rather than solver internals, mirroring the original
// implementation's plain-language "por qué falló" messages.
var remediationHints = []string{
	"add more available employees to the roster",
	"lower the coverage floor for low-traffic shifts",
	"allow overtime by raising daily/weekly/monthly hour ceilings",
	"review personal holidays clustered on the same dates",
	"relax the weekly rest-day floor",
}

// Reduce walks vs for every variable the solver set to true and rebuilds
// the schedule and its metrics from that ground truth — never from the
// objective value, which mixes units (guard count, hour count, preference
// hits) that are meaningless on their own.
func Reduce(sr *SolveResult, vs *VarSpace, cat *catalog.Catalog, employees []model.Employee, elapsedMs int64) *Result {
	result := &Result{
		Status:  OutcomeInfeasible,
		Metrics: model.Metrics{Status: string(sr.Status), ElapsedMs: elapsedMs},
	}

	if sr.Status != StatusOptimal && sr.Status != StatusFeasible {
		result.Suggestions = append([]string{}, remediationHints...)
		return result
	}
	result.Status = OutcomeSuccess

	schedule := model.Schedule{}
	perEmployee := make(map[string]model.EmployeeMetrics, len(employees))
	hours := make([]float64, 0, len(employees))

	for _, e := range employees {
		eid := e.ID.String()
		metrics := model.EmployeeMetrics{}

		for _, key := range vs.KeysFor(eid) {
			v, ok := vs.Get(key)
			if !ok || !cpmodel.SolutionBooleanValue(sr.Response, v) {
				continue
			}
			tpl, ok := cat.Get(key.ShiftID)
			if !ok {
				continue
			}

			schedule.Assign(eid, key.Date, key.ShiftID)
			metrics.TotalHours += int(math.Floor(float64(tpl.EndMinute-tpl.StartMinute) / 60.0))
			if tpl.Type == model.ShiftGuard {
				metrics.GuardCount++
			}
			if tpl.Type == model.ShiftHoliday {
				metrics.HolidayCount++
			}
		}

		perEmployee[eid] = metrics
		hours = append(hours, float64(metrics.TotalHours))
	}

	result.Schedule = schedule
	result.Metrics.PerEmployee = perEmployee
	result.Metrics.Equity = equityScore(hours)
	return result
}

// equityScore reports a population-stddev/mean spread score in [0, 1]: 1
// means perfectly even, shrinking toward 0 as the spread approaches the
// mean itself. This is a reporting metric distinct from the max-min
// spread the objective minimizes internally; the two are not identical,
// so tests use max-min for feasibility claims and this only for display.
func equityScore(hours []float64) float64 {
	if len(hours) == 0 {
		return 1
	}
	var sum float64
	for _, h := range hours {
		sum += h
	}
	mean := sum / float64(len(hours))
	if mean == 0 {
		return 1
	}

	var variance float64
	for _, h := range hours {
		d := h - mean
		variance += d * d
	}
	variance /= float64(len(hours))
	stddev := math.Sqrt(variance)

	score := 1 - stddev/mean
	if score < 0 {
		return 0
	}
	return score
}
