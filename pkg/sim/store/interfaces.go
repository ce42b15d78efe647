//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package store defines the registry interface for scenarios and simulation
// results, keeping the orchestrator free of storage concerns.
//
// The engine's only mutable shared state lives behind a [Store]. The built-in
// [NewMemoryStore] implementation guards its maps with a mutex and exchanges
// deep copies at the boundary, so two callers reading the same completed
// result concurrently always observe identical, fully-populated data, and no
// caller can mutate stored state through an aliased pointer.
//
// Durable storage is an external concern: a production deployment can provide
// a database-backed implementation of [Store] without touching the engine.
package store

import (
	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/model"
)

// Store is the registry for scenarios and simulation results.
//
// All methods are safe for concurrent use. Implementations exchange deep
// copies: values passed in are copied on write, values returned are copied on
// read.
type Store interface {
	// CreateScenario registers a new scenario.
	CreateScenario(scenario *model.SimulationScenario) *common.SimError

	// GetScenario returns a snapshot of the scenario, or false if unknown.
	GetScenario(id string) (*model.SimulationScenario, bool)

	// AppendTest appends a test scenario to an existing scenario. Returns a
	// NotFound error if the scenario id is unknown.
	AppendTest(scenarioID string, test model.TestScenario) *common.SimError

	// ScenarioCount returns the number of registered scenarios.
	ScenarioCount() int

	// PutSimulation stores a snapshot of the simulation result, replacing any
	// prior snapshot with the same id. Insertion order of first appearance is
	// preserved for listing.
	PutSimulation(result *model.SimulationResult)

	// GetSimulation returns a snapshot of the result, or false if unknown.
	GetSimulation(id string) (*model.SimulationResult, bool)

	// ListSimulations returns up to limit summaries ordered most-recent-last.
	// A non-positive limit returns all summaries.
	ListSimulations(limit int) []model.SimulationSummary
}
