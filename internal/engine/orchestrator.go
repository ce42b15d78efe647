//
//  Copyright © Manetu Inc. All rights reserved.
//

package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/auditlog"
	"github.com/manetu/ptsengine/pkg/sim/config"
	"github.com/manetu/ptsengine/pkg/sim/metrics"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/options"
)

// runHandle is the cancellation flag shared between a running simulation and
// Cancel callers. The run polls it at step boundaries; the step in flight
// always completes.
type runHandle struct {
	cancelled atomic.Bool
}

// Run executes the scenario's state machine: analyze every change in
// declared order against a cumulative projection, then execute every test
// against the final projected state, then finalize.
//
// The run operates on a snapshot of the scenario taken here; tests appended
// concurrently do not affect it. Analysis and execution errors finalize the
// run as FAILED with partial results rather than returning an error; the
// returned result's Status tells the caller how the run ended.
func (e *Engine) Run(ctx context.Context, scenarioID string, ro *options.RunOptions) (*model.SimulationResult, *common.SimError) {
	scenario, ok := e.registry.GetScenario(scenarioID)
	if !ok {
		return nil, common.NewError(common.ReasonNotFound, "scenario not found: %s", scenarioID)
	}

	actor := ro.RequestedBy
	if actor == "" {
		actor = scenario.CreatedBy
	}

	result := &model.SimulationResult{
		ID:          uuid.NewString(),
		ScenarioID:  scenarioID,
		RequestedBy: actor,
		Status:      model.StatusPending,
		StartedAt:   time.Now(),
	}
	e.registry.PutSimulation(result)
	e.stats.runStarted()

	handle := &runHandle{}
	e.register(result.ID, handle)
	defer e.unregister(result.ID)

	logger.Infof(agent, "Run", "simulation %s started for scenario %s: %d changes, %d tests",
		result.ID, scenarioID, len(scenario.Changes), len(scenario.Tests))

	e.transition(result, model.StatusRunning)

	proj := newProjection(e.cat, e.perms)

	for i := range scenario.Changes {
		if e.interrupted(ctx, handle) {
			return e.finalize(result, model.StatusCancelled, ""), nil
		}

		analysis, err := e.analyzer.analyze(ctx, &scenario.Changes[i], proj, scenario.Options)
		if err != nil {
			logger.Errorf(agent, "Run", "simulation %s: analysis of change %s failed: %+v",
				result.ID, scenario.Changes[i].ID, err)
			return e.finalize(result, model.StatusFailed, err.Error()), nil
		}
		e.foldAnalysis(result, analysis)
	}

	for i := range scenario.Tests {
		if e.interrupted(ctx, handle) {
			return e.finalize(result, model.StatusCancelled, ""), nil
		}

		outcome, err := e.executor.execute(ctx, &scenario.Tests[i], proj)
		if err != nil {
			logger.Errorf(agent, "Run", "simulation %s: test %s failed to execute: %+v",
				result.ID, scenario.Tests[i].ID, err)
			return e.finalize(result, model.StatusFailed, err.Error()), nil
		}
		e.foldOutcome(result, outcome)
	}

	return e.finalize(result, model.StatusCompleted, ""), nil
}

// interrupted reports whether the run should stop at this step boundary,
// either via Cancel or context cancellation.
func (e *Engine) interrupted(ctx context.Context, handle *runHandle) bool {
	return handle.cancelled.Load() || ctx.Err() != nil
}

// transition advances the run state machine and publishes a snapshot so
// concurrent readers observe the new state.
func (e *Engine) transition(result *model.SimulationResult, next model.Status) {
	if !result.Status.CanTransition(next) {
		// guarded by the orchestrator's control flow; a violation is a bug
		logger.Fatalf(agent, "transition", "illegal status transition %s -> %s for simulation %s", result.Status, next, result.ID)
	}
	result.Status = next
	e.registry.PutSimulation(result)
}

// foldAnalysis merges one change analysis into the run aggregates.
func (e *Engine) foldAnalysis(result *model.SimulationResult, analysis *model.ImpactAnalysis) {
	result.Analyses = append(result.Analyses, *analysis)
	result.ChangesAnalyzed++
	if analysis.HasIssues() {
		result.ChangesWithIssues++
	}
	result.OverallImpact = model.MaxSeverity(result.OverallImpact, analysis.Level)
	result.Blockers = append(result.Blockers, analysis.Blockers...)
	result.Warnings = append(result.Warnings, analysis.Warnings...)
	result.Recommendations = append(result.Recommendations, analysis.Recommendations...)
}

// foldOutcome merges one test outcome into the run aggregates.
func (e *Engine) foldOutcome(result *model.SimulationResult, outcome model.TestOutcome) {
	result.TestResults = append(result.TestResults, outcome)
	result.TestsRun++
	if outcome.Passed {
		result.TestsPassed++
	} else {
		result.TestsFailed++
	}
}

// finalize moves the run to its terminal state exactly once: verdict
// derivation, counters, metrics, the audit record, and the final published
// snapshot.
func (e *Engine) finalize(result *model.SimulationResult, status model.Status, errDetail string) *model.SimulationResult {
	now := time.Now()
	result.CompletedAt = &now
	result.Elapsed = now.Sub(result.StartedAt)
	result.Error = errDetail
	result.CanProceed = len(result.Blockers) == 0

	e.transition(result, status)
	e.stats.runFinished(status, len(result.Blockers), result.ChangesAnalyzed)
	metrics.ObserveRun(status.String(), len(result.Blockers), result.ChangesAnalyzed, result.Elapsed.Seconds())

	e.auditRun(result)

	logger.Infof(agent, "Run", "simulation %s finalized: status=%s impact=%s canProceed=%v blockers=%d",
		result.ID, result.Status, result.OverallImpact, result.CanProceed, len(result.Blockers))
	return result
}

// auditRun emits the audit trail record for a finalized run.
func (e *Engine) auditRun(result *model.SimulationResult) {
	if e.audit == nil {
		return
	}

	record := &auditlog.Record{
		ID:              uuid.NewString(),
		Timestamp:       time.Now(),
		Actor:           result.RequestedBy,
		ScenarioID:      result.ScenarioID,
		SimulationID:    result.ID,
		Status:          result.Status.String(),
		OverallImpact:   result.OverallImpact.String(),
		CanProceed:      result.CanProceed,
		ChangesAnalyzed: result.ChangesAnalyzed,
		TestsRun:        result.TestsRun,
		TestsPassed:     result.TestsPassed,
		Blockers:        result.Blockers,
		Error:           result.Error,
		Metadata:        config.GetAuditEnv(),
	}

	if err := e.audit.Send(record); err != nil {
		logger.Errorf(agent, "auditRun", "unable to send audit record for simulation %s: %+v", result.ID, err)
	}
}
