package cpsched

import (
	"context"
	"fmt"
	"time"

	glog "github.com/golang/glog"
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	satpb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"
)

// SolveStatus classifies the solver's verdict into the four buckets the
// rest of the package (and the HTTP/CLI layers) reason about.
type SolveStatus string

const (
	StatusOptimal    SolveStatus = "optimal"
	StatusFeasible   SolveStatus = "feasible"
	StatusInfeasible SolveStatus = "infeasible"
	StatusUnknown    SolveStatus = "unknown"
)

// SolveResult wraps the raw CP-SAT response with the classified status and
// wall-clock time spent inside the solver.
type SolveResult struct {
	Response *cmpb.CpSolverResponse
	Status   SolveStatus
	Elapsed  time.Duration
}

// Solve instantiates b's model and runs CP-SAT against it with a wall-clock
// timeout and an optional worker count. Cancellation is checked only before
// the call starts: or-tools' Go binding has no mid-solve cancellation hook,
// so a cancelled ctx still lets an in-flight solve finish once started.
func Solve(ctx context.Context, b *cpmodel.CpModelBuilder, timeout time.Duration, numSearchWorkers int32) (*SolveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := b.Model()
	if err != nil {
		return nil, fmt.Errorf("cpsched: failed to instantiate model: %w", err)
	}

	params := &satpb.SatParameters{
		MaxTimeInSeconds: proto.Float64(timeout.Seconds()),
	}
	if numSearchWorkers > 0 {
		params.NumSearchWorkers = proto.Int32(numSearchWorkers)
	}

	start := time.Now()
	response, err := cpmodel.SolveCpModelWithParameters(m, params)
	elapsed := time.Since(start)
	if err != nil {
		glog.Errorf("cpsched: solve failed after %s: %v", elapsed, err)
		return nil, fmt.Errorf("cpsched: solve failed: %w", err)
	}

	return &SolveResult{
		Response: response,
		Status:   statusFrom(response.GetStatus()),
		Elapsed:  elapsed,
	}, nil
}

func statusFrom(s cmpb.CpSolverStatus) SolveStatus {
	switch s {
	case cmpb.CpSolverStatus_OPTIMAL:
		return StatusOptimal
	case cmpb.CpSolverStatus_FEASIBLE:
		return StatusFeasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		return StatusInfeasible
	default:
		return StatusUnknown
	}
}
