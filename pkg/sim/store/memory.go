//
//  Copyright © Manetu Inc. All rights reserved.
//

package store

import (
	"sync"

	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/mohae/deepcopy"
)

// MemoryStore is the in-memory [Store] implementation. State does not
// survive process restart; see the package comment for the durability
// boundary.
type MemoryStore struct {
	mu          sync.RWMutex
	scenarios   map[string]*model.SimulationScenario
	simulations map[string]*model.SimulationResult
	order       []string // simulation ids in first-insertion order
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scenarios:   make(map[string]*model.SimulationScenario),
		simulations: make(map[string]*model.SimulationResult),
	}
}

// CreateScenario registers a new scenario, storing a private copy.
func (s *MemoryStore) CreateScenario(scenario *model.SimulationScenario) *common.SimError {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.scenarios[scenario.ID]; exists {
		return common.NewError(common.ReasonValidation, "scenario already exists: %s", scenario.ID)
	}

	s.scenarios[scenario.ID] = deepcopy.Copy(scenario).(*model.SimulationScenario)
	return nil
}

// GetScenario returns a snapshot of the scenario, or false if unknown.
func (s *MemoryStore) GetScenario(id string) (*model.SimulationScenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scenario, ok := s.scenarios[id]
	if !ok {
		return nil, false
	}
	return deepcopy.Copy(scenario).(*model.SimulationScenario), true
}

// AppendTest appends a test scenario to an existing scenario.
func (s *MemoryStore) AppendTest(scenarioID string, test model.TestScenario) *common.SimError {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenario, ok := s.scenarios[scenarioID]
	if !ok {
		return common.NewError(common.ReasonNotFound, "scenario not found: %s", scenarioID)
	}

	scenario.Tests = append(scenario.Tests, test)
	return nil
}

// ScenarioCount returns the number of registered scenarios.
func (s *MemoryStore) ScenarioCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenarios)
}

// PutSimulation stores a snapshot of the simulation result.
func (s *MemoryStore) PutSimulation(result *model.SimulationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.simulations[result.ID]; !exists {
		s.order = append(s.order, result.ID)
	}
	s.simulations[result.ID] = deepcopy.Copy(result).(*model.SimulationResult)
}

// GetSimulation returns a snapshot of the result, or false if unknown.
func (s *MemoryStore) GetSimulation(id string) (*model.SimulationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.simulations[id]
	if !ok {
		return nil, false
	}
	return deepcopy.Copy(result).(*model.SimulationResult), true
}

// ListSimulations returns up to limit summaries ordered most-recent-last.
func (s *MemoryStore) ListSimulations(limit int) []model.SimulationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}

	summaries := make([]model.SimulationSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, s.simulations[id].Summary())
	}
	return summaries
}
