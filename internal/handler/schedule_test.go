package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/rxsched/pkg/coverage"
	"github.com/paiban/rxsched/pkg/model"
)

func weekdayShift(name string, weekdays []int) model.ShiftTemplate {
	return model.ShiftTemplate{
		BaseModel:     model.BaseModel{ID: uuid.New()},
		Name:          name,
		StartMinute:   9 * 60,
		EndMinute:     17 * 60,
		DurationHours: 8,
		Weekdays:      weekdays,
	}
}

func employeeWithMonthlyCap(hours int) model.Employee {
	return model.Employee{
		BaseModel:       model.BaseModel{ID: uuid.New()},
		Name:            "e",
		MaxDailyHours:   8,
		MaxWeeklyHours:  40,
		MaxMonthlyHours: hours,
	}
}

func TestMaxHeadcountRequiredScansWholeMonth(t *testing.T) {
	req := ValidateRequest{
		Month: "2025-02",
		Coverage: coverage.Config{
			Default: 1,
			Rules: []coverage.Rule{
				{Weekdays: []int{6}, HourStart: 0, HourEnd: 24, MinWorkers: 3}, // Saturday only
			},
		},
		ShiftCatalog: []model.ShiftTemplate{weekdayShift("all-week", []int{1, 2, 3, 4, 5, 6, 7})},
	}
	monthStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := 28

	if got := MaxHeadcountRequired(req, monthStart, daysInMonth); got != 3 {
		t.Errorf("MaxHeadcountRequired = %d, want 3 (Saturday rule, would be missed if only today's weekday were checked)", got)
	}
}

func TestMaxHeadcountRequiredIgnoresShiftsNotValidThatMonth(t *testing.T) {
	req := ValidateRequest{
		Month:    "2025-02",
		Coverage: coverage.Config{Default: 5},
		ShiftCatalog: []model.ShiftTemplate{
			{BaseModel: model.BaseModel{ID: uuid.New()}, Name: "g", StartMinute: 9 * 60, EndMinute: 17*60 + 1, DurationHours: 8, FixedDate: "2025-03-01"},
		},
	}
	monthStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	if got := MaxHeadcountRequired(req, monthStart, 28); got != 0 {
		t.Errorf("MaxHeadcountRequired = %d, want 0 (fixed date falls outside the scanned month)", got)
	}
}

func TestMonthlyHourBalance(t *testing.T) {
	req := ValidateRequest{
		Month:        "2025-02",
		Coverage:     coverage.Config{Default: 1},
		Employees:    []model.Employee{employeeWithMonthlyCap(160), employeeWithMonthlyCap(160)},
		ShiftCatalog: []model.ShiftTemplate{weekdayShift("weekdays", []int{1, 2, 3, 4, 5})},
	}
	monthStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) // Feb 2025: 20 weekdays

	supply, demand := MonthlyHourBalance(req, monthStart, 28)
	if supply != 320 {
		t.Errorf("supply = %d, want 320", supply)
	}
	if demand != 160 {
		t.Errorf("demand = %d, want 160 (20 weekdays * 8h * 1 worker)", demand)
	}
}

func TestValidateRejectsMalformedBody(t *testing.T) {
	h := NewScheduleHandlerWithoutDB()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	h.Validate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	h := NewScheduleHandlerWithoutDB()
	body, _ := json.Marshal(ValidateRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Validate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d for empty month/employees/shiftCatalog", w.Code, http.StatusBadRequest)
	}
}

func TestValidateReportsInsufficientHeadcount(t *testing.T) {
	h := NewScheduleHandlerWithoutDB()
	payload := ValidateRequest{
		Month:        "2025-02",
		Coverage:     coverage.Config{Default: 3},
		Employees:    []model.Employee{employeeWithMonthlyCap(160)},
		ShiftCatalog: []model.ShiftTemplate{weekdayShift("weekdays", []int{1, 2, 3, 4, 5})},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Validate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp ValidateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Feasible {
		t.Fatalf("expected infeasible: coverage demands 3 but only 1 employee supplied")
	}
	if len(resp.Reasons) == 0 {
		t.Fatal("expected at least one reason")
	}
}

func TestValidateFeasibleInstanceReturnsNoReasons(t *testing.T) {
	h := NewScheduleHandlerWithoutDB()
	payload := ValidateRequest{
		Month:    "2025-02",
		Coverage: coverage.Config{Default: 1},
		Employees: []model.Employee{
			employeeWithMonthlyCap(160),
			employeeWithMonthlyCap(160),
		},
		ShiftCatalog: []model.ShiftTemplate{weekdayShift("weekdays", []int{1, 2, 3, 4, 5})},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Validate(w, req)

	var resp ValidateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Feasible {
		t.Fatalf("expected feasible, got reasons: %v", resp.Reasons)
	}
}
