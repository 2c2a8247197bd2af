package cpsched

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/rxsched/pkg/catalog"
	"github.com/paiban/rxsched/pkg/model"
)

// VarKey identifies one decision variable: does employee EmployeeID work
// shift ShiftID on Date ("YYYY-MM-DD").
type VarKey struct {
	EmployeeID string
	Date       string
	ShiftID    string
}

type shiftVar struct {
	ShiftID string
	Var     cpmodel.BoolVar
}

type empVar struct {
	EmployeeID string
	Var        cpmodel.BoolVar
}

// VarSpace is the sparse decision-variable dictionary: one boolean per
// valid (employee, date, shift) triple. A missing key means the variable
// is structurally fixed to zero; every constraint below checks presence
// via the index maps instead of probing VarKey combinations that were
// never allocated.
type VarSpace struct {
	vars map[VarKey]cpmodel.BoolVar

	byEmployeeDate map[string]map[string][]shiftVar // employeeID -> date -> shifts worked that day
	byDateShift    map[string]map[string][]empVar   // date -> shiftID -> employees eligible that day
	byEmployee     map[string][]VarKey               // employeeID -> every key allocated for them
}

// AllocateVars builds the sparse variable space over the cartesian product
// of employees x days x catalog templates, keeping only the triples where
// catalog.ValidFor holds.
func AllocateVars(b *cpmodel.CpModelBuilder, employees []model.Employee, days []time.Time, cat *catalog.Catalog) *VarSpace {
	vs := &VarSpace{
		vars:           make(map[VarKey]cpmodel.BoolVar),
		byEmployeeDate: make(map[string]map[string][]shiftVar),
		byDateShift:    make(map[string]map[string][]empVar),
		byEmployee:     make(map[string][]VarKey),
	}

	templates := cat.Templates()
	for _, e := range employees {
		eid := e.ID.String()
		for _, d := range days {
			dateStr := d.Format("2006-01-02")
			for _, s := range templates {
				if !catalog.ValidFor(s, d) {
					continue
				}
				sid := s.ID.String()
				v := b.NewBoolVar().WithName(fmt.Sprintf("x_%s_%s_%s", eid, dateStr, sid))
				key := VarKey{EmployeeID: eid, Date: dateStr, ShiftID: sid}
				vs.vars[key] = v

				if vs.byEmployeeDate[eid] == nil {
					vs.byEmployeeDate[eid] = make(map[string][]shiftVar)
				}
				vs.byEmployeeDate[eid][dateStr] = append(vs.byEmployeeDate[eid][dateStr], shiftVar{ShiftID: sid, Var: v})

				if vs.byDateShift[dateStr] == nil {
					vs.byDateShift[dateStr] = make(map[string][]empVar)
				}
				vs.byDateShift[dateStr][sid] = append(vs.byDateShift[dateStr][sid], empVar{EmployeeID: eid, Var: v})

				vs.byEmployee[eid] = append(vs.byEmployee[eid], key)
			}
		}
	}
	return vs
}

// Get returns the variable for key, if allocated.
func (vs *VarSpace) Get(key VarKey) (cpmodel.BoolVar, bool) {
	v, ok := vs.vars[key]
	return v, ok
}

// ShiftsOn returns the (shiftID, var) pairs allocated for an employee on a
// given date.
func (vs *VarSpace) ShiftsOn(employeeID, date string) []shiftVar {
	return vs.byEmployeeDate[employeeID][date]
}

// EmployeesFor returns the (employeeID, var) pairs eligible to work a given
// shift on a given date.
func (vs *VarSpace) EmployeesFor(date, shiftID string) []empVar {
	return vs.byDateShift[date][shiftID]
}

// KeysFor returns every key allocated for an employee, across every date
// and shift.
func (vs *VarSpace) KeysFor(employeeID string) []VarKey {
	return vs.byEmployee[employeeID]
}

// Len reports how many variables were allocated.
func (vs *VarSpace) Len() int {
	return len(vs.vars)
}
