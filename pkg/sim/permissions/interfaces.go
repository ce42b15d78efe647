//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package permissions defines the interfaces for permission sources.
//
// A permission source reports the access a subject currently holds: roles,
// business functions, and transaction codes. The simulation engine projects
// proposed changes on top of this baseline to compute post-change state; the
// source itself is never mutated by a simulation.
//
// # Built-in Sources
//
// The following implementations are available:
//   - [NewStaticFactory]: Serves a fixed in-memory snapshot, loadable from
//     scenario bundle documents
//   - Mock source (internal): Serves grants from the mock.users
//     configuration section, useful for testing
//
// # Implementing a Custom Source
//
// To connect a live identity system (HRIS export, IdP, database):
//
//  1. Implement the [Factory] interface to create source instances
//  2. Implement the [Service] interface to serve grants
//  3. Use the source with options.WithPermissions when creating the engine
//
// All inputs are expected to be materialized in memory before a run starts;
// Service implementations must not block on network or disk I/O during a run.
package permissions

import (
	"context"

	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/model"
)

// Factory creates permission [Service] instances.
//
// The factory pattern separates early initialization (configuration
// defaults) from late initialization (loading snapshots). The engine
// guarantees that configuration is fully loaded before [NewService] is
// called.
type Factory interface {
	// NewService creates a new permission source instance.
	//
	// Returns an error if the source cannot be initialized.
	NewService() (Service, error)
}

// Service provides read access to a subject's currently-held grants.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// Methods return *[common.SimError] instead of error to provide structured
// reason codes; a failure during a run is classified as an analysis failure
// and transitions the run to FAILED.
type Service interface {
	// GetGrants returns the grants currently held by the subject. An unknown
	// subject is not an error; it holds no grants.
	GetGrants(ctx context.Context, userID string) ([]model.Grant, *common.SimError)
}
