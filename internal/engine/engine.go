//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package engine implements the simulation engine core: the permission-state
// projection, the per-change impact analyzer, the test executor, and the run
// orchestrator that drives the simulation state machine.
package engine

import (
	"sync"

	"github.com/manetu/ptsengine/internal/logging"
	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/auditlog"
	"github.com/manetu/ptsengine/pkg/sim/catalog"
	"github.com/manetu/ptsengine/pkg/sim/config"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/options"
	"github.com/manetu/ptsengine/pkg/sim/permissions"
	"github.com/manetu/ptsengine/pkg/sim/store"
)

var logger = logging.GetLogger("ptsengine")

const agent string = "ptsengine"

// Engine holds the shared state for simulation processing: the scenario and
// result registry, the permission source, the rule catalog, and the audit
// stream.
type Engine struct {
	registry store.Store
	perms    permissions.Service
	cat      *catalog.Catalog
	audit    auditlog.Stream

	analyzer *analyzer
	executor *executor
	stats    *statistics

	historyLimit int

	mu     sync.Mutex
	active map[string]*runHandle
}

// NewEngine constructs the engine core from fully-resolved options. Callers
// are expected to have applied defaults and loaded configuration first.
func NewEngine(engineOptions *options.EngineOptions) (*Engine, error) {
	al, err := engineOptions.AuditLogFactory.NewStream()
	if err != nil {
		return nil, err
	}

	svc, err := engineOptions.PermissionsFactory.NewService()
	if err != nil {
		return nil, err
	}

	cat := engineOptions.Catalog
	conflicts, sensitive, patterns, roles := cat.Size()
	logger.Infof(agent, "initialize", "rule catalog loaded: %d conflict pairs, %d sensitive transactions, %d escalation patterns, %d role definitions",
		conflicts, sensitive, patterns, roles)

	return &Engine{
		registry: engineOptions.Store,
		perms:    svc,
		cat:      cat,
		audit:    al,
		analyzer: &analyzer{
			cat:             cat,
			largePopulation: config.VConfig.GetInt(config.LargePopulation),
			highPopulation:  config.VConfig.GetInt(config.HighPopulation),
		},
		executor:     &executor{},
		stats:        &statistics{},
		historyLimit: config.VConfig.GetInt(config.HistoryLimit),
		active:       map[string]*runHandle{},
	}, nil
}

// CreateScenario validates and registers a new scenario.
func (e *Engine) CreateScenario(scenario *model.SimulationScenario) *common.SimError {
	for i := range scenario.Changes {
		if err := scenario.Changes[i].Validate(); err != nil {
			return err
		}
	}
	for i := range scenario.Tests {
		if err := scenario.Tests[i].Validate(); err != nil {
			return err
		}
	}

	if err := e.registry.CreateScenario(scenario); err != nil {
		return err
	}

	logger.Infof(agent, "CreateScenario", "scenario %s registered with %d changes by %s",
		scenario.ID, len(scenario.Changes), scenario.CreatedBy)
	return nil
}

// AddTest validates and appends a test scenario to an existing scenario.
// Runs already in flight are unaffected; they operate on the snapshot taken
// at run start.
func (e *Engine) AddTest(scenarioID string, test model.TestScenario) *common.SimError {
	if err := test.Validate(); err != nil {
		return err
	}
	return e.registry.AppendTest(scenarioID, test)
}

// GetScenario returns a snapshot of the scenario.
func (e *Engine) GetScenario(id string) (*model.SimulationScenario, *common.SimError) {
	scenario, ok := e.registry.GetScenario(id)
	if !ok {
		return nil, common.NewError(common.ReasonNotFound, "scenario not found: %s", id)
	}
	return scenario, nil
}

// GetSimulation returns a snapshot of the simulation result. Repeated calls
// on a finalized run return equal values.
func (e *Engine) GetSimulation(id string) (*model.SimulationResult, *common.SimError) {
	result, ok := e.registry.GetSimulation(id)
	if !ok {
		return nil, common.NewError(common.ReasonNotFound, "simulation not found: %s", id)
	}
	return result, nil
}

// ListSimulations returns up to limit result summaries, most recent last.
// A non-positive limit falls back to the configured history limit.
func (e *Engine) ListSimulations(limit int) []model.SimulationSummary {
	if limit <= 0 {
		limit = e.historyLimit
	}
	return e.registry.ListSimulations(limit)
}

// Cancel requests cooperative cancellation of a pending or running
// simulation. The run observes the request at its next step boundary;
// already-terminal runs cannot be cancelled.
func (e *Engine) Cancel(simulationID string) *common.SimError {
	e.mu.Lock()
	handle, ok := e.active[simulationID]
	e.mu.Unlock()

	if ok {
		handle.cancelled.Store(true)
		logger.Infof(agent, "Cancel", "cancellation requested for simulation %s", simulationID)
		return nil
	}

	if result, exists := e.registry.GetSimulation(simulationID); exists {
		return common.NewError(common.ReasonValidation, "simulation %s is already %s", simulationID, result.Status)
	}
	return common.NewError(common.ReasonNotFound, "simulation not found: %s", simulationID)
}

// GetStatistics returns a snapshot of the engine counters.
func (e *Engine) GetStatistics() model.Statistics {
	return e.stats.snapshot(e.registry.ScenarioCount())
}

// Close releases the audit stream. In-flight runs should be drained first.
func (e *Engine) Close() {
	if e.audit != nil {
		e.audit.Close()
	}
}

func (e *Engine) register(simulationID string, handle *runHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active[simulationID] = handle
}

func (e *Engine) unregister(simulationID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, simulationID)
}
