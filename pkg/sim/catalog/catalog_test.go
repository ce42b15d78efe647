//
//  Copyright © Manetu Inc. All rights reserved.
//

package catalog

import (
	"testing"

	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	conflicts, sensitive, patterns, _ := c.Size()
	assert.Greater(t, conflicts, 0)
	assert.Greater(t, sensitive, 0)
	assert.Greater(t, patterns, 0)

	rule, ok := c.ConflictBetween("Vendor Master", "Payment Processing")
	require.True(t, ok)
	assert.Equal(t, "SOD-001", rule.ID)
	assert.Equal(t, model.SeverityCritical, rule.Severity)

	// Pair lookup is symmetric
	reversed, ok := c.ConflictBetween("Payment Processing", "Vendor Master")
	require.True(t, ok)
	assert.Equal(t, rule.ID, reversed.ID)

	_, ok = c.ConflictBetween("Vendor Master", "Goods Receipt")
	assert.False(t, ok)
}

func TestSensitiveLookup(t *testing.T) {
	c := Default()

	s, ok := c.IsSensitive("SU01")
	require.True(t, ok)
	assert.Contains(t, s.Frameworks, "SOX")

	_, ok = c.IsSensitive("VA01")
	assert.False(t, ok)
}

func TestEscalationMatching(t *testing.T) {
	c := Default()

	pattern, ok := c.MatchesEscalation("Z_SUPER_ADMIN_ALL")
	assert.True(t, ok)
	assert.NotEmpty(t, pattern)

	// Case-insensitive
	_, ok = c.MatchesEscalation("tenant_admin")
	assert.True(t, ok)

	_, ok = c.MatchesEscalation("AP_CLERK")
	assert.False(t, ok)
}

func TestRoleDefinitions(t *testing.T) {
	c := New(nil, nil, nil, []RoleDefinition{
		{Name: "AP_CLERK", Functions: []string{"Invoice Entry"}, Transactions: []string{"FB60"}},
	})

	r, ok := c.Role("AP_CLERK")
	require.True(t, ok)
	assert.Equal(t, []string{"Invoice Entry"}, r.Functions)

	_, ok = c.Role("UNKNOWN")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	doc := `
apiVersion: grc.manetu.io/v1alpha1
kind: RuleCatalog
conflictRules:
  - id: SOD-100
    functionA: Vendor Master
    functionB: Payment Processing
    severity: critical
sensitiveTransactions:
  - code: SU01
    description: User administration
    frameworks: [SOX]
escalationPatterns: [ADMIN]
roles:
  - name: AP_CLERK
    functions: [Invoice Entry]
    transactions: [FB60]
`
	c, err := Parse([]byte(doc))
	require.NoError(t, err)

	rule, ok := c.ConflictBetween("Vendor Master", "Payment Processing")
	require.True(t, ok)
	assert.Equal(t, "SOD-100", rule.ID)

	_, ok = c.IsSensitive("SU01")
	assert.True(t, ok)

	_, ok = c.Role("AP_CLERK")
	assert.True(t, ok)
}

func TestParseRejectsWrongKind(t *testing.T) {
	_, err := Parse([]byte("apiVersion: grc.manetu.io/v1alpha1\nkind: Wrong\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected RuleCatalog")
}

func TestParseRejectsUnknownVersion(t *testing.T) {
	_, err := Parse([]byte("apiVersion: grc.manetu.io/v9\nkind: RuleCatalog\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestParseRejectsIncompleteRule(t *testing.T) {
	doc := `
apiVersion: grc.manetu.io/v1alpha1
kind: RuleCatalog
conflictRules:
  - id: SOD-100
    functionA: Vendor Master
`
	_, err := Parse([]byte(doc))
	assert.Error(t, err)
}
