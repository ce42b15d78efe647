//
//  Copyright © Manetu Inc. All rights reserved.
//

package bundle

import (
	"testing"

	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundle(t *testing.T) {
	b, err := Load("../../../testdata/scenario-bundle.yaml")
	require.NoError(t, err)

	assert.Equal(t, "grant vendor maintenance", b.Name)
	assert.Equal(t, "grc-admin", b.CreatedBy)
	require.Len(t, b.Changes, 1)
	assert.Equal(t, model.ChangeAddRole, b.Changes[0].Kind)
	assert.Equal(t, "VENDOR_ADMIN", b.Changes[0].Role)
	require.Len(t, b.Tests, 2)
	assert.Equal(t, model.OutcomeSuccess, b.Tests[1].ExpectedResult)
	require.Contains(t, b.Permissions, "alice")
	assert.Equal(t, "PAYMENT_RUNNER", b.Permissions["alice"][0].Role)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong kind", "apiVersion: grc.manetu.io/v1alpha1\nkind: RuleCatalog\nname: x\n"},
		{"unsupported version", "apiVersion: grc.manetu.io/v2\nkind: SimulationScenario\nname: x\n"},
		{"missing name", "apiVersion: grc.manetu.io/v1alpha1\nkind: SimulationScenario\n"},
		{"no changes", "apiVersion: grc.manetu.io/v1alpha1\nkind: SimulationScenario\nname: x\n"},
		{"invalid change", `
apiVersion: grc.manetu.io/v1alpha1
kind: SimulationScenario
name: x
changes:
  - kind: add-role
    role: ADMIN
`},
		{"invalid test", `
apiVersion: grc.manetu.io/v1alpha1
kind: SimulationScenario
name: x
changes:
  - kind: add-role
    targetUser: alice
    role: AP_CLERK
tests:
  - name: broken
    userId: alice
    transactionCode: FB60
    expectedResult: maybe
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
