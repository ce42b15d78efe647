//
//  Copyright © Manetu Inc. All rights reserved.
//

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/model"
)

// executor evaluates test scenarios against the post-change projection.
type executor struct{}

// execute runs one test scenario and returns a fresh outcome. The declared
// test is never modified; re-running a scenario produces independent outcome
// values.
func (e *executor) execute(ctx context.Context, test *model.TestScenario, proj *projection) (model.TestOutcome, *common.SimError) {
	started := time.Now()

	outcome := model.TestOutcome{
		TestID:         test.ID,
		Name:           test.Name,
		ExpectedResult: test.ExpectedResult,
	}

	allowed, consulted, err := proj.authorized(ctx, test.UserID, test.TransactionCode)
	if err != nil {
		return outcome, err
	}

	outcome.ActualResult = model.OutcomeFailure
	if allowed {
		outcome.ActualResult = model.OutcomeSuccess
	}
	outcome.Passed = outcome.ActualResult == test.ExpectedResult
	outcome.PermissionsConsulted = consulted
	outcome.Duration = time.Since(started)

	if !outcome.Passed {
		outcome.Diagnostic = e.diagnose(test, allowed)
	}
	return outcome, nil
}

// diagnose explains the gap between the expected and computed outcome.
func (e *executor) diagnose(test *model.TestScenario, allowed bool) string {
	if allowed {
		return fmt.Sprintf("expected %s but user %s is authorized for transaction %s in the simulated state",
			test.ExpectedResult, test.UserID, test.TransactionCode)
	}
	return fmt.Sprintf("expected %s but no simulated permission grants transaction %s to user %s",
		test.ExpectedResult, test.TransactionCode, test.UserID)
}
