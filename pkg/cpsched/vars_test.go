package cpsched

import (
	"testing"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/google/uuid"
	"github.com/paiban/rxsched/pkg/catalog"
	"github.com/paiban/rxsched/pkg/model"
)

func weekdayTemplate(name string, weekdays []int) model.ShiftTemplate {
	return model.ShiftTemplate{
		BaseModel:     model.BaseModel{ID: uuid.New()},
		Name:          name,
		StartMinute:   9 * 60,
		EndMinute:     17 * 60,
		DurationHours: 8,
		Weekdays:      weekdays,
		Type:          model.ShiftRegular,
	}
}

func TestAllocateVarsOnlyValidTriples(t *testing.T) {
	tpl := weekdayTemplate("weekdays", []int{1, 2, 3, 4, 5})
	cat, err := catalog.NewCatalog([]model.ShiftTemplate{tpl})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	employees := []model.Employee{{BaseModel: model.BaseModel{ID: uuid.New()}}}
	days := []time.Time{
		time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), // Monday
		time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), // Saturday
	}

	b := cpmodel.NewCpModelBuilder()
	vs := AllocateVars(b, employees, days, cat)

	if vs.Len() != 1 {
		t.Fatalf("expected exactly 1 allocated variable (Monday only), got %d", vs.Len())
	}
	if _, ok := vs.Get(VarKey{EmployeeID: employees[0].ID.String(), Date: "2025-02-10", ShiftID: tpl.ID.String()}); !ok {
		t.Error("expected a variable for the Monday triple")
	}
	if _, ok := vs.Get(VarKey{EmployeeID: employees[0].ID.String(), Date: "2025-02-15", ShiftID: tpl.ID.String()}); ok {
		t.Error("did not expect a variable for the Saturday triple")
	}
}

func TestVarSpaceIndexes(t *testing.T) {
	tpl := weekdayTemplate("weekdays", []int{1, 2, 3, 4, 5})
	cat, err := catalog.NewCatalog([]model.ShiftTemplate{tpl})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	e1 := model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}}
	e2 := model.Employee{BaseModel: model.BaseModel{ID: uuid.New()}}
	monday := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	b := cpmodel.NewCpModelBuilder()
	vs := AllocateVars(b, []model.Employee{e1, e2}, []time.Time{monday}, cat)

	if got := len(vs.EmployeesFor("2025-02-10", tpl.ID.String())); got != 2 {
		t.Errorf("EmployeesFor = %d employees, want 2", got)
	}
	if got := len(vs.ShiftsOn(e1.ID.String(), "2025-02-10")); got != 1 {
		t.Errorf("ShiftsOn = %d shifts, want 1", got)
	}
	if got := len(vs.KeysFor(e1.ID.String())); got != 1 {
		t.Errorf("KeysFor = %d keys, want 1", got)
	}
}
