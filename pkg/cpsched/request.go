// Package cpsched builds and solves the monthly shift-scheduling CP-SAT
// model: it allocates a sparse boolean variable per valid
// (employee, date, shift) triple, assembles the hard constraints and the
// soft objective over that variable space, drives the solver, and reduces
// the response back into a Schedule and its Metrics.
package cpsched

import (
	"fmt"

	"github.com/paiban/rxsched/pkg/coverage"
	"github.com/paiban/rxsched/pkg/model"
)

// Weights are the objective's term coefficients. They are read as plain
// integers because CP-SAT objectives require integer-coefficient linear
// expressions; guard-duty equity is weighted above hour equity, with
// favorite-shift preferences entering as a secondary nudge.
type Weights struct {
	EquityGuards int64 `json:"equityGuards"`
	EquityHours  int64 `json:"equityHours"`
	Preferences  int64 `json:"preferences"`
}

// DefaultWeights returns the builder's default objective weights.
func DefaultWeights() Weights {
	return Weights{EquityGuards: 10, EquityHours: 8, Preferences: 5}
}

// Request is the builder's full input: a month, its employees and shift
// catalog, a coverage configuration, the weekly rest floor, objective
// weights, and any pinned assignments.
type Request struct {
	Month              string             `json:"month"`
	Employees          []model.Employee   `json:"employees"`
	ShiftCatalog       []model.ShiftTemplate `json:"shiftCatalog"`
	Coverage           coverage.Config    `json:"coverage"`
	MinRestDaysPerWeek int                `json:"minRestDaysPerWeek"`
	Weights            Weights            `json:"weights"`
	Pins               []model.Pin        `json:"pins,omitempty"`
	TimeoutSeconds     int                `json:"timeoutSeconds"`
	NumSearchWorkers   int32              `json:"numSearchWorkers,omitempty"`
	HourScale          int                `json:"hourScale,omitempty"`
}

// Result is the builder's output: solve status, the reduced schedule and
// its metrics, and remediation suggestions populated only when the model
// came back infeasible or the solver gave up without a verdict. Status is
// collapsed to the external two-value contract ("success"/"infeasible");
// the finer-grained solver verdict (optimal/feasible/infeasible/unknown)
// is still available on Metrics.Status for diagnostics.
type Result struct {
	Status      string         `json:"status"`
	Schedule    model.Schedule `json:"schedule,omitempty"`
	Metrics     model.Metrics  `json:"metrics"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
}

const (
	OutcomeSuccess    = "success"
	OutcomeInfeasible = "infeasible"
)

// normalize fills in defaults and validates the basic shape of req,
// returning the effective HourScale. The default timeout (60s) and default
// weights are written back into req itself.
func (req *Request) normalize() (hourScale int, err error) {
	if req.Month == "" {
		return 0, fmt.Errorf("cpsched: month is required")
	}
	if len(req.Employees) == 0 {
		return 0, fmt.Errorf("cpsched: at least one employee is required")
	}
	if len(req.ShiftCatalog) == 0 {
		return 0, fmt.Errorf("cpsched: at least one shift template is required")
	}
	if req.MinRestDaysPerWeek < 0 {
		return 0, fmt.Errorf("cpsched: minRestDaysPerWeek must be >= 0")
	}
	if req.Weights == (Weights{}) {
		req.Weights = DefaultWeights()
	}
	if req.TimeoutSeconds <= 0 {
		req.TimeoutSeconds = 60
	}
	hourScale = req.HourScale
	if hourScale <= 0 {
		hourScale = 1
	}
	return hourScale, nil
}
