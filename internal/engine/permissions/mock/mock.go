//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package mock provides a permission source backed by configuration data,
// used for unit testing applications that embed the engine.
package mock

import (
	"context"

	"github.com/manetu/ptsengine/internal/logging"
	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/config"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/permissions"
)

const (
	// mockUsersCfg maps user ids to their baseline grants, e.g.
	//
	//	mock:
	//	  users:
	//	    alice:
	//	      - role: AP_CLERK
	//	      - transactions: [FB60]
	mockUsersCfg string = "mock.users"
)

var logger = logging.GetLogger("ptsengine.permissions.mock")
var mockAgent string = "mock"

// Factory ...
type Factory struct {
}

// Service is a permission source whose grants come from the mock.users
// configuration section.
type Service struct {
	users map[string][]model.Grant
}

// NewFactory creates a new Factory for the mock permission source.
func NewFactory() permissions.Factory {
	return &Factory{}
}

// NewService creates a new mock Service from configuration.
func (f *Factory) NewService() (permissions.Service, error) {
	logger.Warn(mockAgent, "NewService", "mock permission source enabled; not for production use")

	users := map[string][]model.Grant{}
	if err := config.VConfig.UnmarshalKey(mockUsersCfg, &users); err != nil {
		return nil, err
	}

	logger.Infof(mockAgent, "NewService", "loaded baseline grants for %d users", len(users))
	return &Service{users: users}, nil
}

// GetGrants returns the configured baseline grants for the user. Unknown
// users hold no access.
func (s *Service) GetGrants(_ context.Context, userID string) ([]model.Grant, *common.SimError) {
	return s.users[userID], nil
}
