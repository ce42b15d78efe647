//
//  Copyright © Manetu Inc. All rights reserved.
//

package common

import (
	"io"

	"github.com/manetu/ptsengine/pkg/sim"
	"github.com/manetu/ptsengine/pkg/sim/auditlog"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/options"
	"github.com/manetu/ptsengine/pkg/sim/permissions"
	"github.com/urfave/cli/v3"
)

// NewCliEngine creates a new simulation engine configured from CLI command
// flags. Audit records are written to the provided writer, and the baseline
// permission snapshot (typically from a scenario bundle) backs the
// permission source.
func NewCliEngine(cmd *cli.Command, stdout io.Writer, snapshot map[string][]model.Grant) (sim.Engine, error) {
	engineOptions := []options.EngineOptionsFunc{
		options.WithAuditLog(auditlog.NewIoWriterFactory(stdout)),
		options.WithPermissions(permissions.NewStaticFactory(snapshot)),
	}

	if catalogPath := cmd.String("catalog"); catalogPath != "" {
		return sim.NewLocalEngine(catalogPath, engineOptions...)
	}
	return sim.New(engineOptions...)
}
