package cpsched

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/paiban/rxsched/pkg/coverage"
	"github.com/paiban/rxsched/pkg/model"
)

func employee(caps [3]int) model.Employee {
	return model.Employee{
		BaseModel:       model.BaseModel{ID: uuid.New()},
		MaxDailyHours:   caps[0],
		MaxWeeklyHours:  caps[1],
		MaxMonthlyHours: caps[2],
	}
}

func template(name string, startHour, endHour int, weekdays []int, fixedDate string, typ model.ShiftType) model.ShiftTemplate {
	return model.ShiftTemplate{
		BaseModel:     model.BaseModel{ID: uuid.New()},
		Name:          name,
		StartMinute:   startHour * 60,
		EndMinute:     endHour * 60,
		DurationHours: float64(endHour - startHour),
		Weekdays:      weekdays,
		FixedDate:     fixedDate,
		Type:          typ,
	}
}

// Minimal feasible schedule: 2 employees, 1 weekday template, coverage floor 1.
func TestGenerateMinimalFeasible(t *testing.T) {
	e1 := employee([3]int{8, 40, 160})
	e2 := employee([3]int{8, 40, 160})
	t1 := template("T1", 9, 17, []int{1, 2, 3, 4, 5}, "", model.ShiftRegular)

	req := Request{
		Month:              "2025-02",
		Employees:          []model.Employee{e1, e2},
		ShiftCatalog:       []model.ShiftTemplate{t1},
		Coverage:           coverage.Config{Default: 1},
		MinRestDaysPerWeek: 2,
		TimeoutSeconds:     20,
	}

	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Status != OutcomeSuccess {
		t.Fatalf("status = %q, want success", result.Status)
	}

	total := 0
	for _, m := range result.Metrics.PerEmployee {
		total += m.TotalHours
	}
	// 20 weekdays in Feb 2025 x 8h each, covered by exactly one employee.
	if total != 20*8 {
		t.Errorf("total hours across employees = %d, want %d", total, 20*8)
	}
	for eid, m := range result.Metrics.PerEmployee {
		if m.TotalHours > 40*4 {
			t.Errorf("employee %s weekly-equivalent hours too high: %d", eid, m.TotalHours)
		}
	}
}

// S2a - Split shift within cap: monthly hours exactly met.
func TestGenerateSplitShiftWithinCap(t *testing.T) {
	e := employee([3]int{8, 56, 248})
	m := template("M", 9, 13, []int{1, 2, 3, 4, 5, 6, 7}, "", model.ShiftRegular)
	a := template("A", 13, 17, []int{1, 2, 3, 4, 5, 6, 7}, "", model.ShiftRegular)

	req := Request{
		Month:              "2025-03",
		Employees:          []model.Employee{e},
		ShiftCatalog:       []model.ShiftTemplate{m, a},
		Coverage:           coverage.Config{Default: 1},
		MinRestDaysPerWeek: 0,
		TimeoutSeconds:     20,
	}

	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Status != OutcomeSuccess {
		t.Fatalf("status = %q, want success", result.Status)
	}

	metrics := result.Metrics.PerEmployee[e.ID.String()]
	if metrics.TotalHours != 31*8 {
		t.Errorf("total hours = %d, want %d (31 days x 8h)", metrics.TotalHours, 31*8)
	}
}

// S2b - Same split shift, but a tight monthly cap makes it infeasible.
func TestGenerateSplitShiftExceedsMonthlyCap(t *testing.T) {
	e := employee([3]int{8, 56, 160})
	m := template("M", 9, 13, []int{1, 2, 3, 4, 5, 6, 7}, "", model.ShiftRegular)
	a := template("A", 13, 17, []int{1, 2, 3, 4, 5, 6, 7}, "", model.ShiftRegular)

	req := Request{
		Month:          "2025-03",
		Employees:      []model.Employee{e},
		ShiftCatalog:   []model.ShiftTemplate{m, a},
		Coverage:       coverage.Config{Default: 1},
		TimeoutSeconds: 20,
	}

	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Status != OutcomeInfeasible {
		t.Fatalf("status = %q, want infeasible", result.Status)
	}
	if len(result.Suggestions) != 5 {
		t.Errorf("expected 5 fixed remediation suggestions, got %d", len(result.Suggestions))
	}
}

// A guard fixed-date shift is assigned exactly once, only on its date.
func TestGenerateGuardFixedDate(t *testing.T) {
	g := template("G", 9, 22, nil, "2025-11-16", model.ShiftGuard)
	g.DurationHours = 13

	employees := []model.Employee{
		employee([3]int{13, 40, 160}),
		employee([3]int{13, 40, 160}),
		employee([3]int{13, 40, 160}),
	}

	req := Request{
		Month:          "2025-11",
		Employees:      employees,
		ShiftCatalog:   []model.ShiftTemplate{g},
		Coverage:       coverage.Config{Default: 1},
		TimeoutSeconds: 20,
	}

	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Status != OutcomeSuccess {
		t.Fatalf("status = %q, want success", result.Status)
	}

	guards := 0
	for _, dates := range result.Schedule {
		for date := range dates {
			if date != "2025-11-16" {
				t.Errorf("guard shift assigned on unexpected date %s", date)
			}
			guards++
		}
	}
	if guards != 1 {
		t.Errorf("guard assignment count = %d, want 1", guards)
	}

	totalGuardCount := 0
	for _, m := range result.Metrics.PerEmployee {
		totalGuardCount += m.GuardCount
	}
	if totalGuardCount != 1 {
		t.Errorf("sum of guardsPerEmployee = %d, want 1", totalGuardCount)
	}
}

// A pin overrides the overlap constraint: the pinned shift always
// wins, the overlapping one is never assigned to the same employee that day.
func TestGeneratePinOverridesOverlap(t *testing.T) {
	e1 := employee([3]int{8, 40, 160})
	e2 := employee([3]int{8, 40, 160})
	m := template("M", 9, 13, []int{1, 2, 3, 4, 5, 6, 7}, "", model.ShiftRegular)
	x := template("X", 11, 15, []int{1, 2, 3, 4, 5, 6, 7}, "", model.ShiftRegular)

	req := Request{
		Month:        "2025-04",
		Employees:    []model.Employee{e1, e2},
		ShiftCatalog: []model.ShiftTemplate{m, x},
		Coverage:     coverage.Config{Default: 1},
		Pins: []model.Pin{
			{EmployeeID: e1.ID.String(), Date: "2025-04-07", ShiftID: m.ID.String()},
		},
		TimeoutSeconds: 20,
	}

	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no discarded pins, got %v", result.Warnings)
	}
	if result.Status != OutcomeSuccess {
		t.Fatalf("status = %q, want success", result.Status)
	}

	shifts := result.Schedule[e1.ID.String()]["2025-04-07"]
	foundM := false
	for _, sid := range shifts {
		if sid == m.ID.String() {
			foundM = true
		}
		if sid == x.ID.String() {
			t.Error("pinned employee must not also be assigned the overlapping shift")
		}
	}
	if !foundM {
		t.Error("pinned shift M missing from employee's assignment on the pinned date")
	}
}

// Per-slot coverage rules: every weekday has exactly 2 on M and 1 on A.
func TestGeneratePerSlotCoverage(t *testing.T) {
	employees := []model.Employee{
		employee([3]int{8, 40, 160}),
		employee([3]int{8, 40, 160}),
		employee([3]int{8, 40, 160}),
	}
	m := template("M", 9, 14, []int{1, 2, 3, 4, 5}, "", model.ShiftRegular)
	a := template("A", 14, 19, []int{1, 2, 3, 4, 5}, "", model.ShiftRegular)

	req := Request{
		Month:        "2025-06",
		Employees:    employees,
		ShiftCatalog: []model.ShiftTemplate{m, a},
		Coverage: coverage.Config{
			Default: 0,
			Rules: []coverage.Rule{
				{Weekdays: []int{1, 2, 3, 4, 5}, HourStart: 9, HourEnd: 14, MinWorkers: 2},
				{Weekdays: []int{1, 2, 3, 4, 5}, HourStart: 14, HourEnd: 19, MinWorkers: 1},
			},
		},
		TimeoutSeconds: 30,
	}

	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Status != OutcomeSuccess {
		t.Fatalf("status = %q, want success", result.Status)
	}

	perDateShift := map[string]map[string]int{}
	for _, dates := range result.Schedule {
		for date, shiftIDs := range dates {
			if perDateShift[date] == nil {
				perDateShift[date] = map[string]int{}
			}
			for _, sid := range shiftIDs {
				perDateShift[date][sid]++
			}
		}
	}
	for date, counts := range perDateShift {
		if counts[m.ID.String()] != 2 {
			t.Errorf("%s: M count = %d, want 2", date, counts[m.ID.String()])
		}
		if counts[a.ID.String()] != 1 {
			t.Errorf("%s: A count = %d, want 1", date, counts[a.ID.String()])
		}
	}
}

// Infeasibility: demand outstrips supply.
func TestGenerateInfeasibleInsufficientHeadcount(t *testing.T) {
	e := employee([3]int{8, 40, 160})
	t1 := template("T1", 9, 17, []int{1, 2, 3, 4, 5}, "", model.ShiftRegular)

	req := Request{
		Month:          "2025-02",
		Employees:      []model.Employee{e},
		ShiftCatalog:   []model.ShiftTemplate{t1},
		Coverage:       coverage.Config{Default: 2},
		TimeoutSeconds: 20,
	}

	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Status != OutcomeInfeasible {
		t.Fatalf("status = %q, want infeasible", result.Status)
	}

	found := false
	for _, s := range result.Suggestions {
		if s == remediationHints[0] {
			found = true
		}
	}
	if !found {
		t.Error("expected the headcount remediation hint among suggestions")
	}
}
