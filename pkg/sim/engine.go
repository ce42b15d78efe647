//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package sim provides the primary interface for the Productive Test
// Simulation engine, a what-if analyzer that evaluates proposed access
// changes against segregation-of-duties and sensitive-access rules without
// touching the productive system.
//
// A simulation is built from a scenario: a named bundle of proposed access
// changes plus synthetic test scenarios. Running the scenario analyzes each
// change in order against a cumulative projection of the affected users'
// permissions, executes the tests against the projected state, and produces
// a verdict: can the change set proceed, and under which conditions. Each
// finalized run emits an audit record for compliance review.
//
// # Quick Start
//
// Create an engine with default options (stdout audit log, empty permission
// baseline, embedded rule catalog, in-memory registry):
//
//	engine, err := sim.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
// Register a scenario and run it:
//
//	scenario, serr := engine.CreateScenario(sim.CreateScenarioRequest{
//	    Name:      "quarterly access review",
//	    CreatedBy: "grc-admin",
//	    Changes: []model.AccessChange{
//	        {Kind: model.ChangeAddRole, TargetUser: "alice", Role: "AP_CLERK"},
//	    },
//	})
//	result, serr := engine.RunSimulation(ctx, scenario.ID)
//	if !result.CanProceed {
//	    // inspect result.Blockers
//	}
//
// # Configuration
//
// The engine supports various configuration options via functional options:
//
//	engine, err := sim.New(
//	    options.WithPermissions(permissions.NewStaticFactory(snapshot)),
//	    options.WithAuditLog(auditlog.NewStdoutFactory()),
//	)
//
// See the [options] package for all available configuration options.
package sim

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manetu/ptsengine/internal/engine"
	"github.com/manetu/ptsengine/internal/engine/permissions/mock"
	"github.com/manetu/ptsengine/internal/logging"
	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/auditlog"
	"github.com/manetu/ptsengine/pkg/sim/catalog"
	"github.com/manetu/ptsengine/pkg/sim/config"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/options"
	"github.com/manetu/ptsengine/pkg/sim/permissions"
	"github.com/manetu/ptsengine/pkg/sim/store"
	"github.com/pkg/errors"
)

var logger = logging.GetLogger("ptsengine")
var agent = "ptsengine"

// CreateScenarioRequest carries the caller-supplied fields for a new
// scenario. Identifiers and timestamps are assigned by the engine.
type CreateScenarioRequest struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	CreatedBy    string                 `json:"createdBy"`
	TargetSystem string                 `json:"targetSystem,omitempty"`
	TargetClient string                 `json:"targetClient,omitempty"`
	Changes      []model.AccessChange   `json:"changes"`
	Tests        []model.TestScenario   `json:"tests,omitempty"`
	Options      *model.ScenarioOptions `json:"options,omitempty"`
}

// Engine is the primary interface for running productive test simulations.
//
// Implementations of Engine are safe for concurrent use by multiple
// goroutines; scenarios may be registered, run, and inspected concurrently.
type Engine interface {
	// CreateScenario validates and registers a new simulation scenario,
	// assigning identifiers to the scenario and to any changes or tests that
	// lack one. Returns the registered scenario.
	CreateScenario(req CreateScenarioRequest) (*model.SimulationScenario, *common.SimError)

	// AddTestScenario appends a test scenario to an existing scenario. Runs
	// already in flight operate on their start-of-run snapshot and are not
	// affected.
	AddTestScenario(scenarioID string, test model.TestScenario) (*model.TestScenario, *common.SimError)

	// RunSimulation executes the scenario and returns the finalized result.
	// Analysis failures are reported through the result's Status (FAILED)
	// rather than the error return; the error return covers unknown
	// scenarios.
	RunSimulation(ctx context.Context, scenarioID string, runOptions ...options.RunOptionsFunc) (*model.SimulationResult, *common.SimError)

	// CancelSimulation requests cooperative cancellation of a pending or
	// running simulation. The run stops at its next step boundary and
	// finalizes as CANCELLED with partial results.
	CancelSimulation(simulationID string) *common.SimError

	// GetScenario returns a snapshot of the scenario.
	GetScenario(id string) (*model.SimulationScenario, *common.SimError)

	// GetSimulation returns a snapshot of the simulation result. Repeated
	// calls on a finalized run return equal values.
	GetSimulation(id string) (*model.SimulationResult, *common.SimError)

	// ListSimulations returns up to limit result summaries ordered most
	// recent last. A non-positive limit applies the configured history limit.
	ListSimulations(limit int) []model.SimulationSummary

	// GetStatistics returns a snapshot of the engine counters.
	GetStatistics() model.Statistics

	// Close releases the audit stream and any other held resources.
	Close()
}

// EngineImpl is the default implementation of the [Engine] interface.
//
// EngineImpl wraps the internal engine implementation and can be embedded or
// wrapped by applications that need to extend the engine's behavior.
//
// Use [New] to create a properly initialized instance.
type EngineImpl struct {
	instance *engine.Engine
}

// New creates and initializes a new [Engine] instance.
//
// By default, the engine uses a stdout audit log, an empty permission
// baseline, the embedded rule catalog, and an in-memory registry. Use
// functional options to configure production implementations:
//
//	engine, err := sim.New(
//	    options.WithPermissions(hris.NewFactory()),
//	    options.WithAuditLog(auditlog.NewStdoutFactory()),
//	)
//
// New loads configuration from environment variables and config files before
// initializing the engine. See the [config] package for details. When
// mock.enabled is set, the configuration-backed mock permission source is
// used regardless of any source configured via options.
//
// Returns an error if configuration loading fails, the configured catalog
// document cannot be loaded, or a factory fails to initialize.
func New(engineOptions ...options.EngineOptionsFunc) (Engine, error) {
	err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	opts := &options.EngineOptions{
		AuditLogFactory:    auditlog.NewStdoutFactory(),
		PermissionsFactory: permissions.NewStaticFactory(nil),
		Store:              store.NewMemoryStore(),
	}
	for _, o := range engineOptions {
		o(opts)
	}

	if config.VConfig.GetBool(config.MockEnabled) {
		opts.PermissionsFactory = mock.NewFactory()
	}

	if opts.Catalog == nil {
		opts.Catalog, err = defaultCatalog()
		if err != nil {
			return nil, errors.Wrap(err, "error loading rule catalog")
		}
	}

	instance, err := engine.NewEngine(opts)
	if err != nil {
		return nil, err
	}

	return &EngineImpl{instance: instance}, nil
}

// NewLocalEngine creates and initializes a new [Engine] instance from a
// local rule catalog document.
//
// Other defaults are inherited from [New].
func NewLocalEngine(catalogPath string, engineOptions ...options.EngineOptionsFunc) (Engine, error) {
	c, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading rule catalog %s", catalogPath)
	}

	engineOptions = append(engineOptions, options.WithCatalog(c))
	return New(engineOptions...)
}

// defaultCatalog resolves the catalog from configuration, falling back to
// the embedded defaults when no catalog.path is configured.
func defaultCatalog() (*catalog.Catalog, error) {
	if path := config.VConfig.GetString(config.CatalogPath); path != "" {
		return catalog.Load(path)
	}
	return catalog.Default(), nil
}

// CreateScenario validates and registers a new simulation scenario.
func (e *EngineImpl) CreateScenario(req CreateScenarioRequest) (*model.SimulationScenario, *common.SimError) {
	logger.Debug(agent, "CreateScenario", "Enter")
	defer logger.Debug(agent, "CreateScenario", "Exit")

	if req.Name == "" {
		return nil, common.NewError(common.ReasonValidation, "scenario name is required")
	}
	if req.CreatedBy == "" {
		return nil, common.NewError(common.ReasonValidation, "scenario createdBy is required")
	}

	scenario := &model.SimulationScenario{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    time.Now(),
		TargetSystem: req.TargetSystem,
		TargetClient: req.TargetClient,
		Changes:      req.Changes,
		Tests:        req.Tests,
		Options:      model.DefaultScenarioOptions(),
	}
	if req.Options != nil {
		scenario.Options = *req.Options
	}

	for i := range scenario.Changes {
		if scenario.Changes[i].ID == "" {
			scenario.Changes[i].ID = uuid.NewString()
		}
	}
	for i := range scenario.Tests {
		if scenario.Tests[i].ID == "" {
			scenario.Tests[i].ID = uuid.NewString()
		}
	}

	if err := e.instance.CreateScenario(scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

// AddTestScenario appends a test scenario to an existing scenario.
func (e *EngineImpl) AddTestScenario(scenarioID string, test model.TestScenario) (*model.TestScenario, *common.SimError) {
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	if err := e.instance.AddTest(scenarioID, test); err != nil {
		return nil, err
	}
	return &test, nil
}

// RunSimulation executes the scenario and returns the finalized result.
func (e *EngineImpl) RunSimulation(ctx context.Context, scenarioID string, runOptions ...options.RunOptionsFunc) (*model.SimulationResult, *common.SimError) {
	logger.Debug(agent, "RunSimulation", "Enter")
	defer logger.Debug(agent, "RunSimulation", "Exit")

	opts := &options.RunOptions{}
	for _, o := range runOptions {
		o(opts)
	}

	return e.instance.Run(ctx, scenarioID, opts)
}

// CancelSimulation requests cooperative cancellation of a running simulation.
func (e *EngineImpl) CancelSimulation(simulationID string) *common.SimError {
	return e.instance.Cancel(simulationID)
}

// GetScenario returns a snapshot of the scenario.
func (e *EngineImpl) GetScenario(id string) (*model.SimulationScenario, *common.SimError) {
	return e.instance.GetScenario(id)
}

// GetSimulation returns a snapshot of the simulation result.
func (e *EngineImpl) GetSimulation(id string) (*model.SimulationResult, *common.SimError) {
	return e.instance.GetSimulation(id)
}

// ListSimulations returns up to limit result summaries, most recent last.
func (e *EngineImpl) ListSimulations(limit int) []model.SimulationSummary {
	return e.instance.ListSimulations(limit)
}

// GetStatistics returns a snapshot of the engine counters.
func (e *EngineImpl) GetStatistics() model.Statistics {
	return e.instance.GetStatistics()
}

// Close releases the audit stream and any other held resources.
func (e *EngineImpl) Close() {
	e.instance.Close()
}
