//
//  Copyright © Manetu Inc. All rights reserved.
//

package engine

import (
	"sync"

	"github.com/manetu/ptsengine/pkg/sim/model"
)

// statistics maintains the process-wide run counters incrementally so
// snapshot reads are O(1) regardless of history size.
type statistics struct {
	mu sync.Mutex

	started   int64
	completed int64
	failed    int64
	cancelled int64
	blockers  int64
	changes   int64
	active    int64
}

func (s *statistics) runStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	s.active++
}

func (s *statistics) runFinished(status model.Status, blockers, changes int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch status {
	case model.StatusCompleted:
		s.completed++
	case model.StatusFailed:
		s.failed++
	case model.StatusCancelled:
		s.cancelled++
	}
	s.blockers += int64(blockers)
	s.changes += int64(changes)
	s.active--
}

// snapshot returns a copy of the counters. activeScenarios is supplied by the
// caller because scenario registration is owned by the store.
func (s *statistics) snapshot(activeScenarios int) model.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.Statistics{
		SimulationsStarted:   s.started,
		SimulationsCompleted: s.completed,
		SimulationsFailed:    s.failed,
		SimulationsCancelled: s.cancelled,
		BlockersFound:        s.blockers,
		ChangesTested:        s.changes,
		ActiveScenarios:      int64(activeScenarios),
		ActiveSimulations:    s.active,
	}
}
