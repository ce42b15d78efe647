//
//  Copyright © Manetu Inc. All rights reserved.
//

package engine

import (
	"context"
	"testing"

	"github.com/manetu/ptsengine/pkg/sim/catalog"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]catalog.ConflictRule{
			{ID: "SOD-001", FunctionA: "Vendor Master", FunctionB: "Payment Processing", Severity: model.SeverityCritical},
			{ID: "SOD-002", FunctionA: "Purchase Order", FunctionB: "Goods Receipt", Severity: model.SeverityHigh},
		},
		[]catalog.SensitiveTransaction{
			{Code: "SU01", Description: "User administration", Frameworks: []string{"SOX"}},
		},
		[]string{"ADMIN", "SAP_ALL"},
		[]catalog.RoleDefinition{
			{Name: "VENDOR_ADMIN_X", Functions: []string{"Vendor Master"}, Transactions: []string{"XK01"}},
			{Name: "PAYMENT_RUNNER", Functions: []string{"Payment Processing"}, Transactions: []string{"F110"}},
			{Name: "BUYER", Functions: []string{"Purchase Order"}, Transactions: []string{"ME21N"}},
		},
	)
}

func testAnalyzer() (*analyzer, *projection) {
	cat := testCatalog()
	svc, _ := permissions.NewStaticFactory(map[string][]model.Grant{
		"alice": {{Role: "PAYMENT_RUNNER"}},
	}).NewService()
	return &analyzer{cat: cat, largePopulation: 10, highPopulation: 50},
		newProjection(cat, svc)
}

func TestAnalyzeConflictReportedOnce(t *testing.T) {
	a, proj := testAnalyzer()

	// bulk change tripping the same rule for one subject must yield one record
	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeRoleConsolidation,
		TargetUsers: []string{"alice", "zed"}, Role: "VENDOR_ADMIN_X",
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	require.Len(t, analysis.Conflicts, 1)
	assert.Equal(t, "SOD-001", analysis.Conflicts[0].RuleID)
	assert.Equal(t, model.SeverityHigh, analysis.Level)
	assert.Equal(t, 2, analysis.AffectedUsers)
	assert.EqualValues(t, conflictWeight, analysis.AuditRiskScore)
}

func TestAnalyzeRevocationSkipsConflictCheck(t *testing.T) {
	a, proj := testAnalyzer()

	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeRemoveRole,
		TargetUser: "alice", Role: "PAYMENT_RUNNER",
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	assert.Empty(t, analysis.Conflicts)
	assert.Contains(t, analysis.RemovedPermissions, "Payment Processing")
	assert.Equal(t, model.SeverityLow, analysis.Level)
}

func TestAnalyzeNoOpChangeIsNone(t *testing.T) {
	a, proj := testAnalyzer()

	// alice already holds PAYMENT_RUNNER's access
	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeAddRole,
		TargetUser: "alice", Role: "PAYMENT_RUNNER",
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	assert.Equal(t, model.SeverityNone, analysis.Level)
	assert.Empty(t, analysis.NewPermissions)
	assert.NotZero(t, analysis.UnchangedCount)
	assert.False(t, analysis.HasIssues())
}

func TestAnalyzeReportsPreExistingConflicts(t *testing.T) {
	// the conflict scan covers the whole resulting function set: a subject
	// who already holds both sides of a rule surfaces it on any additive
	// change, not only on the change that created the combination
	cat := testCatalog()
	svc, _ := permissions.NewStaticFactory(map[string][]model.Grant{
		"carol": {{Role: "PAYMENT_RUNNER"}, {Role: "VENDOR_ADMIN_X"}},
	}).NewService()
	a := &analyzer{cat: cat, largePopulation: 10, highPopulation: 50}
	proj := newProjection(cat, svc)

	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeAddRole,
		TargetUser: "carol", Role: "BUYER",
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	require.Len(t, analysis.Conflicts, 1)
	assert.Equal(t, "SOD-001", analysis.Conflicts[0].RuleID)
	assert.Equal(t, model.SeverityHigh, analysis.Level)
}

func TestAnalyzeLargePopulationPromotion(t *testing.T) {
	a, proj := testAnalyzer()

	users := make([]string, 12)
	for i := range users {
		users[i] = string(rune('a'+i)) + "-user"
	}
	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeRoleConsolidation,
		TargetUsers: users, Role: "BUYER",
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	assert.Equal(t, model.SeverityMedium, analysis.Level)
	assert.Equal(t, 12, analysis.AffectedUsers)
}

func TestAnalyzeEscalationFromPermissionFunction(t *testing.T) {
	a, proj := testAnalyzer()

	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeAddPermission,
		TargetUser: "bob",
		Permissions: []model.Permission{
			{Function: "SAP_ALL", Transactions: []string{"SE38"}},
		},
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	require.Len(t, analysis.Escalations, 1)
	assert.Equal(t, "SAP_ALL", analysis.Escalations[0].Pattern)
	assert.Equal(t, model.SeverityCritical, analysis.Level)
	assert.NotEmpty(t, analysis.Blockers)
}

func TestUserTransferRetainsExistingAccess(t *testing.T) {
	a, proj := testAnalyzer()

	// transfer grants the new position's role; prior access is untouched
	// until a separate revocation change removes it
	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeUserTransfer,
		TargetUser: "alice", Role: "VENDOR_ADMIN_X",
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	require.Len(t, analysis.Conflicts, 1)
	assert.Equal(t, "SOD-001", analysis.Conflicts[0].RuleID)

	allowed, _, serr := proj.authorized(context.Background(), "alice", "F110")
	require.Nil(t, serr)
	assert.True(t, allowed)
	allowed, _, serr = proj.authorized(context.Background(), "alice", "XK01")
	require.Nil(t, serr)
	assert.True(t, allowed)
}

func TestUndefinedRoleConfersOwnName(t *testing.T) {
	a, proj := testAnalyzer()

	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeAddRole,
		TargetUser: "bob", Role: "Z_CUSTOM_ADMIN",
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	assert.Contains(t, analysis.NewPermissions, "Z_CUSTOM_ADMIN")
	require.Len(t, analysis.Escalations, 1)
	assert.Equal(t, "ADMIN", analysis.Escalations[0].Pattern)
}

func TestRiskScoreIsCapped(t *testing.T) {
	a, proj := testAnalyzer()

	perms := make([]model.Permission, 0, 5)
	for _, fn := range []string{"ADMIN_A", "ADMIN_B", "ADMIN_C", "ADMIN_D", "ADMIN_E"} {
		perms = append(perms, model.Permission{Function: fn})
	}
	change := model.AccessChange{
		ID: "c1", Kind: model.ChangeAddPermission,
		TargetUser: "bob", Permissions: perms,
	}
	analysis, err := a.analyze(context.Background(), &change, proj, model.DefaultScenarioOptions())
	require.Nil(t, err)

	require.Len(t, analysis.Escalations, 5)
	assert.EqualValues(t, maxRiskScore, analysis.AuditRiskScore)
}

func TestExecutorOutcomeIsFresh(t *testing.T) {
	_, proj := testAnalyzer()
	exec := &executor{}

	test := model.TestScenario{
		ID: "t1", Name: "payment run", UserID: "alice",
		TransactionCode: "F110", ExpectedResult: model.OutcomeSuccess,
	}

	first, serr := exec.execute(context.Background(), &test, proj)
	require.Nil(t, serr)
	second, serr := exec.execute(context.Background(), &test, proj)
	require.Nil(t, serr)

	assert.True(t, first.Passed)
	assert.True(t, second.Passed)
	assert.Equal(t, model.OutcomeSuccess, test.ExpectedResult) // declaration untouched
	assert.NotSame(t, &first, &second)
}
