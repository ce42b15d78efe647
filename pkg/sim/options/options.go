//
//  Copyright © Manetu Inc. All rights reserved.
//
// shared between pkg/sim and internal/engine, and thus must be in a separate package to avoid circular dependencies

package options

import (
	"github.com/manetu/ptsengine/internal/logging"
	"github.com/manetu/ptsengine/pkg/sim/auditlog"
	"github.com/manetu/ptsengine/pkg/sim/catalog"
	"github.com/manetu/ptsengine/pkg/sim/config"
	"github.com/manetu/ptsengine/pkg/sim/permissions"
	"github.com/manetu/ptsengine/pkg/sim/store"
)

var logger = logging.GetLogger("ptsengine")
var agent = "ptsengine"

// EngineOptions defines the configuration options for initializing a
// simulation engine, including factories for audit logs and permission
// sources, the rule catalog, and the registry store.
type EngineOptions struct {
	AuditLogFactory    auditlog.Factory
	PermissionsFactory permissions.Factory
	Catalog            *catalog.Catalog
	Store              store.Store
}

// EngineOptionsFunc is a function that modifies EngineOptions.
type EngineOptionsFunc func(*EngineOptions)

// WithAuditLog configures the audit log stream for the engine.
func WithAuditLog(factory auditlog.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.AuditLogFactory = factory
	}
}

// WithPermissions configures the permission source factory for the engine.
func WithPermissions(factory permissions.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		if config.VConfig.GetBool(config.MockEnabled) {
			logger.Warn(agent, "WithPermissions", "Ignoring permissions factory as mock mode is enabled")
		} else {
			o.PermissionsFactory = factory
		}
	}
}

// WithCatalog configures the rule catalog for the engine.
func WithCatalog(c *catalog.Catalog) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.Catalog = c
	}
}

// WithStore configures the scenario/result registry store for the engine.
func WithStore(s store.Store) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.Store = s
	}
}

// RunOptions represents configuration options for RunSimulation operations.
type RunOptions struct {
	// RequestedBy is the acting user id recorded for audit attribution.
	RequestedBy string
}

// RunOptionsFunc is a function that modifies RunOptions.
type RunOptionsFunc func(*RunOptions)

// WithRequestedBy attributes the run to the given acting user for the audit
// trail. When unset, the run is attributed to the scenario's creator.
func WithRequestedBy(userID string) RunOptionsFunc {
	return func(o *RunOptions) {
		o.RequestedBy = userID
	}
}
