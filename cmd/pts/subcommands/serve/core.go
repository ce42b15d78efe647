//
//  Copyright © Manetu Inc. All rights reserved.
//

package serve

import (
	"context"
	"os"
	"os/signal"

	"github.com/manetu/ptsengine/cmd/pts/common"
	"github.com/manetu/ptsengine/internal/logging"
	"github.com/manetu/ptsengine/pkg/sim/bundle"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/simpoint/rest"
	"github.com/urfave/cli/v3"
)

var logger = logging.GetLogger("ptsengine")

const agent string = "serve"

// Execute runs the serve command, starting a simulation endpoint server.
// It gracefully shuts down on interrupt signals.
func Execute(ctx context.Context, cmd *cli.Command) error {
	port := cmd.Int("port")

	// An optional bundle seeds the baseline permission snapshot; scenarios
	// themselves arrive over the API.
	var snapshot map[string][]model.Grant
	if path := cmd.String("permissions"); path != "" {
		b, err := bundle.Load(path)
		if err != nil {
			return err
		}
		snapshot = b.Permissions
	}

	engine, err := common.NewCliEngine(cmd, os.Stdout, snapshot)
	if err != nil {
		return err
	}
	defer engine.Close()

	server, err := rest.CreateServer(engine, int(port))
	if err != nil {
		return err
	}

	logger.Infof(agent, "serve", "simulation endpoint listening on :%d", port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info(agent, "shutdown", "Shutting down server...")

	err = server.Stop(ctx)
	if err != nil {
		return err
	}

	logger.Info(agent, "shutdown", "Server exited gracefully.")
	return nil
}
