//
//  Copyright © Manetu Inc. All rights reserved.
//

package run

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/manetu/ptsengine/cmd/pts/common"
	pcommon "github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim"
	"github.com/manetu/ptsengine/pkg/sim/bundle"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/options"
	"github.com/urfave/cli/v3"
)

// Execute runs the run command: load a scenario bundle, simulate it, and
// report the verdict. The command fails when the simulation does not
// complete or the verdict blocks the change set.
func Execute(ctx context.Context, cmd *cli.Command) error {
	return execute(ctx, cmd, os.Stdout)
}

func execute(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	b, err := bundle.Load(cmd.String("file"))
	if err != nil {
		return err
	}

	engine, err := common.NewCliEngine(cmd, stdout, b.Permissions)
	if err != nil {
		return err
	}
	defer engine.Close()

	scenario, serr := engine.CreateScenario(sim.CreateScenarioRequest{
		Name:         b.Name,
		Description:  b.Description,
		CreatedBy:    createdBy(cmd, b),
		TargetSystem: b.TargetSystem,
		TargetClient: b.TargetClient,
		Changes:      b.Changes,
		Tests:        b.Tests,
		Options:      b.Options,
	})
	if serr != nil {
		return serr
	}

	var runOptions []options.RunOptionsFunc
	if actor := cmd.String("requested-by"); actor != "" {
		runOptions = append(runOptions, options.WithRequestedBy(actor))
	}

	result, serr := engine.RunSimulation(ctx, scenario.ID, runOptions...)
	if serr != nil {
		return serr
	}

	if err := report(cmd, stdout, result); err != nil {
		return err
	}

	if result.Status != model.StatusCompleted {
		return fmt.Errorf("simulation %s: %s", result.Status, result.Error)
	}
	if !result.CanProceed {
		return fmt.Errorf("change set is blocked: %d blocker(s)", len(result.Blockers))
	}
	return nil
}

func createdBy(cmd *cli.Command, b *bundle.Bundle) string {
	if b.CreatedBy != "" {
		return b.CreatedBy
	}
	if actor := cmd.String("requested-by"); actor != "" {
		return actor
	}
	return "pts-cli"
}

// report prints the result, either as indented JSON or as a human-readable
// verdict summary.
func report(cmd *cli.Command, stdout io.Writer, result *model.SimulationResult) error {
	if cmd.Bool("json") {
		return pcommon.PrettyPrint(stdout, result)
	}

	fmt.Fprintf(stdout, "simulation %s: %s\n", result.ID, result.Status)
	fmt.Fprintf(stdout, "  impact:     %s\n", result.OverallImpact)
	fmt.Fprintf(stdout, "  changes:    %d analyzed, %d with issues\n", result.ChangesAnalyzed, result.ChangesWithIssues)
	fmt.Fprintf(stdout, "  tests:      %d run, %d passed, %d failed\n", result.TestsRun, result.TestsPassed, result.TestsFailed)
	fmt.Fprintf(stdout, "  canProceed: %v\n", result.CanProceed)

	for _, blocker := range result.Blockers {
		fmt.Fprintf(stdout, "  blocker:    %s\n", blocker)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(stdout, "  warning:    %s\n", warning)
	}
	for _, rec := range result.Recommendations {
		fmt.Fprintf(stdout, "  recommend:  %s\n", rec)
	}
	return nil
}
