//
//  Copyright © Manetu Inc. All rights reserved.
//

package model

import (
	"testing"

	"github.com/manetu/ptsengine/pkg/common"
	"github.com/stretchr/testify/assert"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityNone < SeverityLow)
	assert.True(t, SeverityLow < SeverityMedium)
	assert.True(t, SeverityMedium < SeverityHigh)
	assert.True(t, SeverityHigh < SeverityCritical)

	assert.Equal(t, SeverityCritical, MaxSeverity(SeverityLow, SeverityCritical))
	assert.Equal(t, SeverityHigh, MaxSeverity(SeverityHigh, SeverityMedium))
	assert.Equal(t, SeverityNone, MaxSeverity(SeverityNone, SeverityNone))
}

func TestParseSeverity(t *testing.T) {
	for _, s := range []Severity{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		parsed, err := ParseSeverity(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseSeverity("catastrophic")
	assert.Error(t, err)
	assert.Equal(t, common.ReasonValidation, common.ReasonOf(err))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusRunning, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusRunning, StatusCompleted, true},
		{StatusRunning, StatusFailed, true},
		{StatusRunning, StatusCancelled, true},
		{StatusRunning, StatusPending, false},
		{StatusCompleted, StatusRunning, false},
		{StatusFailed, StatusCancelled, false},
		{StatusCancelled, StatusRunning, false},
	}

	for _, test := range tests {
		assert.Equal(t, test.allowed, test.from.CanTransition(test.to),
			"%s -> %s", test.from, test.to)
	}

	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestChangeKinds(t *testing.T) {
	assert.True(t, ChangeAddRole.Valid())
	assert.True(t, ChangeRoleConsolidation.Valid())
	assert.False(t, ChangeKind("promote").Valid())

	assert.True(t, ChangeAddRole.Additive())
	assert.True(t, ChangeUserTransfer.Additive())
	assert.False(t, ChangeRemoveRole.Additive())
	assert.False(t, ChangeRemovePermission.Additive())
}

func TestAccessChangeValidate(t *testing.T) {
	tests := []struct {
		name   string
		change AccessChange
		valid  bool
	}{
		{
			name:   "valid add-role",
			change: AccessChange{ID: "c1", Kind: ChangeAddRole, TargetUser: "alice", Role: "AP_CLERK"},
			valid:  true,
		},
		{
			name:   "valid bulk consolidation",
			change: AccessChange{ID: "c2", Kind: ChangeRoleConsolidation, TargetUsers: []string{"a", "b"}, Role: "FINANCE"},
			valid:  true,
		},
		{
			name:   "invalid kind",
			change: AccessChange{ID: "c3", Kind: "promote", TargetUser: "alice"},
			valid:  false,
		},
		{
			name:   "missing target",
			change: AccessChange{ID: "c4", Kind: ChangeAddRole, Role: "X"},
			valid:  false,
		},
		{
			name:   "both targets populated",
			change: AccessChange{ID: "c5", Kind: ChangeAddRole, TargetUser: "a", TargetUsers: []string{"b"}, Role: "X"},
			valid:  false,
		},
		{
			name:   "role change without role",
			change: AccessChange{ID: "c6", Kind: ChangeAddRole, TargetUser: "alice"},
			valid:  false,
		},
		{
			name:   "permission change without descriptors",
			change: AccessChange{ID: "c7", Kind: ChangeAddPermission, TargetUser: "alice"},
			valid:  false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.change.Validate()
			if test.valid {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Equal(t, common.ReasonValidation, err.ReasonCode)
			}
		})
	}
}

func TestChangeSubjects(t *testing.T) {
	single := AccessChange{TargetUser: "alice"}
	assert.Equal(t, []string{"alice"}, single.Subjects())

	bulk := AccessChange{TargetUsers: []string{"a", "b", "c"}}
	assert.Len(t, bulk.Subjects(), 3)
}

func TestTestScenarioValidate(t *testing.T) {
	ok := TestScenario{ID: "t1", UserID: "alice", TransactionCode: "FB60", ExpectedResult: OutcomeSuccess}
	assert.Nil(t, ok.Validate())

	missingUser := TestScenario{ID: "t2", TransactionCode: "FB60", ExpectedResult: OutcomeSuccess}
	assert.NotNil(t, missingUser.Validate())

	badOutcome := TestScenario{ID: "t3", UserID: "alice", TransactionCode: "FB60", ExpectedResult: "maybe"}
	assert.NotNil(t, badOutcome.Validate())
}

func TestResultSummary(t *testing.T) {
	r := SimulationResult{
		ID:            "sim-1",
		ScenarioID:    "sc-1",
		Status:        StatusCompleted,
		OverallImpact: SeverityHigh,
		CanProceed:    true,
	}
	s := r.Summary()
	assert.Equal(t, "sim-1", s.ID)
	assert.Equal(t, "sc-1", s.ScenarioID)
	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, SeverityHigh, s.OverallImpact)
	assert.True(t, s.CanProceed)
}
