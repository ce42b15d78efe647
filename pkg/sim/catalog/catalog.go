//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package catalog provides the static rule reference data consumed by the
// impact analyzer: the segregation-of-duties conflict-pair matrix, the
// sensitive-transaction set, privilege-escalation heuristics, and role
// definitions mapping role identifiers to business functions.
//
// A [Catalog] is loaded once at engine startup, either from a YAML document
// via [Load] or from the embedded defaults via [Default], and is exposed
// read-only thereafter. All lookup methods are safe for concurrent use
// because the catalog is never mutated after construction.
//
// # Catalog Document
//
// Catalog YAML documents carry a preamble identifying the schema:
//
//	apiVersion: grc.manetu.io/v1alpha1
//	kind: RuleCatalog
//	conflictRules:
//	  - id: SOD-001
//	    functionA: Vendor Master
//	    functionB: Payment Processing
//	    severity: critical
//	sensitiveTransactions:
//	  - code: SU01
//	    description: User administration
//	    frameworks: [SOX, ISO27001]
//	escalationPatterns: [ADMIN, ALL]
//	roles:
//	  - name: AP_CLERK
//	    functions: [Invoice Entry]
//	    transactions: [FB60]
package catalog

import (
	"strings"

	"github.com/manetu/ptsengine/pkg/sim/model"
)

// ConflictRule is one entry of the SoD conflict-pair matrix: two business
// functions that must never be held simultaneously by one subject.
type ConflictRule struct {
	ID          string         `yaml:"id" json:"id"`
	FunctionA   string         `yaml:"functionA" json:"functionA"`
	FunctionB   string         `yaml:"functionB" json:"functionB"`
	Severity    model.Severity `yaml:"severity" json:"severity"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
}

// SensitiveTransaction is an operation flagged as high-risk regardless of SoD
// conflicts, with the compliance frameworks it affects.
type SensitiveTransaction struct {
	Code        string   `yaml:"code" json:"code"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Frameworks  []string `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
}

// RoleDefinition maps a role identifier to the business functions and
// transaction codes it confers.
type RoleDefinition struct {
	Name         string   `yaml:"name" json:"name"`
	Functions    []string `yaml:"functions,omitempty" json:"functions,omitempty"`
	Transactions []string `yaml:"transactions,omitempty" json:"transactions,omitempty"`
}

// Catalog holds the rule reference data for impact analysis. Construct with
// [New], [Default], or [Load]; never mutate after construction.
type Catalog struct {
	rules      []ConflictRule
	sensitive  map[string]SensitiveTransaction
	escalation []string
	roles      map[string]RoleDefinition
}

// New constructs a catalog from the provided rule data. Escalation patterns
// are matched case-insensitively as substrings of role and function
// identifiers.
func New(rules []ConflictRule, sensitive []SensitiveTransaction, escalationPatterns []string, roles []RoleDefinition) *Catalog {
	c := &Catalog{
		rules:      rules,
		sensitive:  make(map[string]SensitiveTransaction, len(sensitive)),
		escalation: make([]string, 0, len(escalationPatterns)),
		roles:      make(map[string]RoleDefinition, len(roles)),
	}
	for _, s := range sensitive {
		c.sensitive[s.Code] = s
	}
	for _, p := range escalationPatterns {
		c.escalation = append(c.escalation, strings.ToUpper(p))
	}
	for _, r := range roles {
		c.roles[r.Name] = r
	}
	return c
}

// Default returns the embedded default catalog, suitable for demos and tests
// when no external catalog document is configured.
func Default() *Catalog {
	return New(
		[]ConflictRule{
			{ID: "SOD-001", FunctionA: "Vendor Master", FunctionB: "Payment Processing", Severity: model.SeverityCritical,
				Description: "Creating vendors and paying them enables fictitious-vendor fraud"},
			{ID: "SOD-002", FunctionA: "Purchase Order", FunctionB: "Goods Receipt", Severity: model.SeverityHigh,
				Description: "Ordering and receiving goods enables unauthorized procurement"},
			{ID: "SOD-003", FunctionA: "Journal Entry", FunctionB: "Financial Close", Severity: model.SeverityHigh,
				Description: "Posting and closing enables concealment of manipulated entries"},
			{ID: "SOD-004", FunctionA: "User Administration", FunctionB: "Audit Log Review", Severity: model.SeverityCritical,
				Description: "Administering users and reviewing audit logs defeats oversight"},
		},
		[]SensitiveTransaction{
			{Code: "SU01", Description: "User administration", Frameworks: []string{"SOX", "ISO27001"}},
			{Code: "SM19", Description: "Audit log configuration", Frameworks: []string{"SOX"}},
			{Code: "SE38", Description: "Program execution", Frameworks: []string{"SOX"}},
			{Code: "F110", Description: "Automatic payment run", Frameworks: []string{"SOX"}},
			{Code: "PFCG", Description: "Role maintenance", Frameworks: []string{"SOX", "ISO27001"}},
		},
		[]string{"ADMIN", "ALL", "SAP_ALL", "SUPERUSER"},
		nil,
	)
}

// ConflictBetween returns the conflict rule covering the unordered pair of
// functions, if one exists.
func (c *Catalog) ConflictBetween(functionA, functionB string) (*ConflictRule, bool) {
	for i := range c.rules {
		r := &c.rules[i]
		if (r.FunctionA == functionA && r.FunctionB == functionB) ||
			(r.FunctionA == functionB && r.FunctionB == functionA) {
			return r, true
		}
	}
	return nil, false
}

// ConflictRules returns the full conflict-pair matrix.
func (c *Catalog) ConflictRules() []ConflictRule {
	return c.rules
}

// IsSensitive returns the sensitive-transaction entry for the code, if the
// code is classified as sensitive.
func (c *Catalog) IsSensitive(code string) (*SensitiveTransaction, bool) {
	if s, ok := c.sensitive[code]; ok {
		return &s, true
	}
	return nil, false
}

// MatchesEscalation reports whether the identifier matches an
// administrative-pattern heuristic, returning the matching pattern.
func (c *Catalog) MatchesEscalation(identifier string) (string, bool) {
	upper := strings.ToUpper(identifier)
	for _, p := range c.escalation {
		if strings.Contains(upper, p) {
			return p, true
		}
	}
	return "", false
}

// Role returns the definition for the named role, if the catalog has one.
// Roles without definitions are treated by the analyzer as conferring a
// single function named after the role itself.
func (c *Catalog) Role(name string) (*RoleDefinition, bool) {
	if r, ok := c.roles[name]; ok {
		return &r, true
	}
	return nil, false
}

// Size returns the rule counts, used for startup logging.
func (c *Catalog) Size() (conflicts, sensitive, patterns, roles int) {
	return len(c.rules), len(c.sensitive), len(c.escalation), len(c.roles)
}
