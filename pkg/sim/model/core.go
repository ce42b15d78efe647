//
//  Copyright © Manetu Inc. All rights reserved.
//

package model

import (
	"time"

	"github.com/manetu/ptsengine/pkg/common"
)

// Permission describes a discrete capability granted or revoked by a change:
// a named business function plus the transaction codes it authorizes.
type Permission struct {
	Function     string   `json:"function" yaml:"function"`
	Transactions []string `json:"transactions,omitempty" yaml:"transactions,omitempty"`
}

// Grant is one entry of a subject's currently-held access, as reported by the
// permission source. Role names resolve to functions and transactions via the
// rule catalog's role definitions.
type Grant struct {
	Role         string   `json:"role,omitempty" yaml:"role,omitempty"`
	Functions    []string `json:"functions,omitempty" yaml:"functions,omitempty"`
	Transactions []string `json:"transactions,omitempty" yaml:"transactions,omitempty"`
}

// AccessChange is a single proposed access modification. Changes are
// immutable once created and owned exclusively by the scenario that contains
// them.
//
// Exactly one of TargetUser or TargetUsers must be populated; TargetUsers is
// used for bulk changes such as role consolidations.
type AccessChange struct {
	ID            string       `json:"id" yaml:"id"`
	Kind          ChangeKind   `json:"kind" yaml:"kind"`
	TargetUser    string       `json:"targetUser,omitempty" yaml:"targetUser,omitempty"`
	TargetUsers   []string     `json:"targetUsers,omitempty" yaml:"targetUsers,omitempty"`
	Role          string       `json:"role,omitempty" yaml:"role,omitempty"`
	Permissions   []Permission `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	EffectiveDate *time.Time   `json:"effectiveDate,omitempty" yaml:"effectiveDate,omitempty"`
	Justification string       `json:"justification,omitempty" yaml:"justification,omitempty"`
}

// Subjects returns the set of users targeted by the change, regardless of
// whether it is a single-target or bulk change.
func (c *AccessChange) Subjects() []string {
	if c.TargetUser != "" {
		return []string{c.TargetUser}
	}
	return c.TargetUsers
}

// Validate checks the structural invariants of the change: a supported kind,
// and exactly one of TargetUser/TargetUsers populated.
func (c *AccessChange) Validate() *common.SimError {
	if !c.Kind.Valid() {
		return common.NewError(common.ReasonValidation, "invalid change kind: %q", string(c.Kind))
	}
	if c.TargetUser == "" && len(c.TargetUsers) == 0 {
		return common.NewError(common.ReasonValidation, "change %s: missing target user(s)", c.ID)
	}
	if c.TargetUser != "" && len(c.TargetUsers) > 0 {
		return common.NewError(common.ReasonValidation, "change %s: targetUser and targetUsers are mutually exclusive", c.ID)
	}
	switch c.Kind {
	case ChangeAddRole, ChangeRemoveRole, ChangeModifyRole, ChangeRoleConsolidation:
		if c.Role == "" {
			return common.NewError(common.ReasonValidation, "change %s: role identifier required for kind %s", c.ID, c.Kind)
		}
	case ChangeAddPermission, ChangeRemovePermission:
		if len(c.Permissions) == 0 {
			return common.NewError(common.ReasonValidation, "change %s: permission descriptors required for kind %s", c.ID, c.Kind)
		}
	}
	return nil
}

// TestScenario is a synthetic authorization check: does the subject's
// simulated permission state authorize the given transaction code?
type TestScenario struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Description     string  `json:"description,omitempty" yaml:"description,omitempty"`
	UserID          string  `json:"userId" yaml:"userId"`
	TransactionCode string  `json:"transactionCode" yaml:"transactionCode"`
	ExpectedResult  Outcome `json:"expectedResult" yaml:"expectedResult"`
}

// Validate checks the structural invariants of a test scenario.
func (ts *TestScenario) Validate() *common.SimError {
	if ts.UserID == "" {
		return common.NewError(common.ReasonValidation, "test %s: missing subject user id", ts.ID)
	}
	if ts.TransactionCode == "" {
		return common.NewError(common.ReasonValidation, "test %s: missing transaction code", ts.ID)
	}
	if !ts.ExpectedResult.Valid() {
		return common.NewError(common.ReasonValidation, "test %s: invalid expected result %q", ts.ID, string(ts.ExpectedResult))
	}
	return nil
}

// ScenarioOptions are the feature flags controlling which rule families the
// analyzer applies during a run.
type ScenarioOptions struct {
	IncludeSoDCheck        bool `json:"includeSoDCheck" yaml:"includeSoDCheck"`
	IncludeSensitiveCheck  bool `json:"includeSensitiveCheck" yaml:"includeSensitiveCheck"`
	IncludeComplianceCheck bool `json:"includeComplianceCheck" yaml:"includeComplianceCheck"`
	IncludeUsageAnalysis   bool `json:"includeUsageAnalysis" yaml:"includeUsageAnalysis"`
}

// DefaultScenarioOptions enables all rule families.
func DefaultScenarioOptions() ScenarioOptions {
	return ScenarioOptions{
		IncludeSoDCheck:        true,
		IncludeSensitiveCheck:  true,
		IncludeComplianceCheck: true,
		IncludeUsageAnalysis:   true,
	}
}

// SimulationScenario is a named, user-attributed bundle of proposed changes
// and synthetic tests. Test scenarios may be appended before a run starts;
// every run operates on a consistent snapshot of the scenario.
type SimulationScenario struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	Description  string          `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedBy    string          `json:"createdBy" yaml:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt" yaml:"createdAt"`
	TargetSystem string          `json:"targetSystem,omitempty" yaml:"targetSystem,omitempty"`
	TargetClient string          `json:"targetClient,omitempty" yaml:"targetClient,omitempty"`
	Changes      []AccessChange  `json:"changes" yaml:"changes"`
	Tests        []TestScenario  `json:"tests" yaml:"tests"`
	Options      ScenarioOptions `json:"options" yaml:"options"`
}

// SoDConflict records one violated conflict-pair rule discovered by the
// analyzer.
type SoDConflict struct {
	RuleID             string   `json:"ruleId"`
	FunctionA          string   `json:"functionA"`
	FunctionB          string   `json:"functionB"`
	Severity           Severity `json:"severity"`
	MitigationRequired bool     `json:"mitigationRequired"`
}

// SensitiveGrant records one sensitive transaction newly reachable by a
// subject as a result of a change.
type SensitiveGrant struct {
	UserID           string   `json:"userId"`
	Transaction      string   `json:"transaction"`
	Description      string   `json:"description,omitempty"`
	Frameworks       []string `json:"frameworks,omitempty"`
	RequiresApproval bool     `json:"requiresApproval"`
}

// EscalationFinding records an additive change whose identifier matched an
// administrative-pattern heuristic. Escalations always block the run.
type EscalationFinding struct {
	Identifier string `json:"identifier"`
	Pattern    string `json:"pattern"`
}

// ImpactAnalysis is the analyzer output for a single change. One analysis is
// produced per change per run; analyses are owned by the simulation result.
type ImpactAnalysis struct {
	ChangeID             string              `json:"changeId"`
	Level                Severity            `json:"level"`
	AffectedUsers        int                 `json:"affectedUsers"`
	AffectedTransactions []string            `json:"affectedTransactions,omitempty"`
	Conflicts            []SoDConflict       `json:"conflicts,omitempty"`
	SensitiveGrants      []SensitiveGrant    `json:"sensitiveGrants,omitempty"`
	Escalations          []EscalationFinding `json:"escalations,omitempty"`
	NewPermissions       []string            `json:"newPermissions,omitempty"`
	RemovedPermissions   []string            `json:"removedPermissions,omitempty"`
	UnchangedCount       int                 `json:"unchangedCount"`
	Frameworks           []string            `json:"frameworks,omitempty"`
	AuditRiskScore       float64             `json:"auditRiskScore"`
	Recommendations      []string            `json:"recommendations,omitempty"`
	Warnings             []string            `json:"warnings,omitempty"`
	Blockers             []string            `json:"blockers,omitempty"`
}

// HasIssues reports whether the analysis surfaced any findings.
func (ia *ImpactAnalysis) HasIssues() bool {
	return len(ia.Conflicts) > 0 || len(ia.SensitiveGrants) > 0 || len(ia.Escalations) > 0
}

// TestOutcome is the immutable executed result of one test scenario. The
// executor returns a fresh outcome value per run; the declared TestScenario
// is never mutated.
type TestOutcome struct {
	TestID               string        `json:"testId"`
	Name                 string        `json:"name"`
	ExpectedResult       Outcome       `json:"expectedResult"`
	ActualResult         Outcome       `json:"actualResult"`
	Passed               bool          `json:"passed"`
	PermissionsConsulted []string      `json:"permissionsConsulted,omitempty"`
	Duration             time.Duration `json:"duration"`
	Diagnostic           string        `json:"diagnostic,omitempty"`
}

// SimulationResult is the complete record of one run. It is created at run
// start, appended to while RUNNING, and finalized exactly once; a terminal
// result is immutable.
type SimulationResult struct {
	ID          string     `json:"id"`
	ScenarioID  string     `json:"scenarioId"`
	RequestedBy string     `json:"requestedBy,omitempty"`
	Status      Status     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Analyses    []ImpactAnalysis `json:"impactAnalyses"`
	TestResults []TestOutcome    `json:"testResults"`

	ChangesAnalyzed   int `json:"changesAnalyzed"`
	ChangesWithIssues int `json:"changesWithIssues"`
	TestsRun          int `json:"testsRun"`
	TestsPassed       int `json:"testsPassed"`
	TestsFailed       int `json:"testsFailed"`

	OverallImpact   Severity `json:"overallImpact"`
	Blockers        []string `json:"blockers,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	CanProceed      bool     `json:"canProceed"`

	Elapsed time.Duration `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
}

// SimulationSummary is the compact listing form of a result.
type SimulationSummary struct {
	ID            string        `json:"id"`
	ScenarioID    string        `json:"scenarioId"`
	Status        Status        `json:"status"`
	OverallImpact Severity      `json:"overallImpact"`
	CanProceed    bool          `json:"canProceed"`
	StartedAt     time.Time     `json:"startedAt"`
	Elapsed       time.Duration `json:"elapsed"`
}

// Summary derives the listing form of the result.
func (r *SimulationResult) Summary() SimulationSummary {
	return SimulationSummary{
		ID:            r.ID,
		ScenarioID:    r.ScenarioID,
		Status:        r.Status,
		OverallImpact: r.OverallImpact,
		CanProceed:    r.CanProceed,
		StartedAt:     r.StartedAt,
		Elapsed:       r.Elapsed,
	}
}

// Statistics is the read-only snapshot of process-wide counters, maintained
// incrementally by the orchestrator for O(1) reads.
type Statistics struct {
	SimulationsStarted   int64 `json:"simulationsStarted"`
	SimulationsCompleted int64 `json:"simulationsCompleted"`
	SimulationsFailed    int64 `json:"simulationsFailed"`
	SimulationsCancelled int64 `json:"simulationsCancelled"`
	BlockersFound        int64 `json:"blockersFound"`
	ChangesTested        int64 `json:"changesTested"`
	ActiveScenarios      int64 `json:"activeScenarios"`
	ActiveSimulations    int64 `json:"activeSimulations"`
}
