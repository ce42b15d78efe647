//
//  Copyright © Manetu Inc. All rights reserved.
//

package permissions

import (
	"context"

	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/mohae/deepcopy"
)

// StaticFactory creates [Service] instances serving a fixed snapshot.
type StaticFactory struct {
	snapshot map[string][]model.Grant
}

// StaticService serves grants from an immutable in-memory snapshot keyed by
// subject id.
type StaticService struct {
	snapshot map[string][]model.Grant
}

// NewStaticFactory creates a [Factory] serving the provided snapshot. The
// snapshot is deep-copied at service construction so later mutation by the
// caller cannot leak into running simulations.
func NewStaticFactory(snapshot map[string][]model.Grant) Factory {
	return &StaticFactory{snapshot: snapshot}
}

// NewService creates a new [StaticService] over a private copy of the snapshot.
func (f *StaticFactory) NewService() (Service, error) {
	snapshot := map[string][]model.Grant{}
	if f.snapshot != nil {
		snapshot = deepcopy.Copy(f.snapshot).(map[string][]model.Grant)
	}
	return &StaticService{snapshot: snapshot}, nil
}

// GetGrants returns the grants held by the subject in the snapshot. Unknown
// subjects hold no grants.
func (s *StaticService) GetGrants(_ context.Context, userID string) ([]model.Grant, *common.SimError) {
	return s.snapshot[userID], nil
}
