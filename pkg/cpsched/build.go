package cpsched

import (
	"context"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/rxsched/pkg/calendar"
	"github.com/paiban/rxsched/pkg/catalog"
	"github.com/paiban/rxsched/pkg/coverage"
	appErrors "github.com/paiban/rxsched/pkg/errors"
	"github.com/paiban/rxsched/pkg/logger"
)

// Generate runs the full build-and-solve pipeline: expand the month into
// days (calendar), validate the shift catalog, allocate the sparse variable
// space, assemble the hard constraints and the soft objective, solve, and
// reduce the response into a Result. This is the one function the HTTP
// handler and the CLI both call.
func Generate(ctx context.Context, req Request) (*Result, error) {
	hourScale, err := req.normalize()
	if err != nil {
		return nil, appErrors.InvalidInput("request", err.Error())
	}

	log := logger.NewSchedulerLogger()

	days, err := calendar.DaysOf(req.Month)
	if err != nil {
		return nil, appErrors.InvalidInput("month", err.Error())
	}

	cat, err := catalog.NewCatalog(req.ShiftCatalog)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeInvalidInput, "invalid shift catalog").WithCause(err)
	}

	cov := coverage.NewResolver(req.Coverage)

	log.StartSchedule(req.Month, len(req.Employees), len(days))

	builder := cpmodel.NewCpModelBuilder()
	vs := AllocateVars(builder, req.Employees, days, cat)

	pinWarnings := ApplyHardConstraints(builder, vs, cat, cov, req.Employees, days, req.Pins, req.MinRestDaysPerWeek, hourScale)
	for _, w := range pinWarnings {
		log.ConstraintViolation("pin", w)
	}

	ApplyObjective(builder, vs, cat, req.Employees, len(days), req.Weights, hourScale)

	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	sr, err := Solve(ctx, builder, timeout, req.NumSearchWorkers)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeInternal, "solver failed")
	}

	result := Reduce(sr, vs, cat, req.Employees, sr.Elapsed.Milliseconds())
	result.Warnings = pinWarnings

	log.ScheduleComplete(req.Month, sr.Elapsed, result.Metrics.Equity)
	return result, nil
}
