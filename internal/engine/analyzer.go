//
//  Copyright © Manetu Inc. All rights reserved.
//

package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/catalog"
	"github.com/manetu/ptsengine/pkg/sim/model"
)

// Risk score weights. The score is a deterministic function of the findings
// so identical scenarios always produce identical scores.
const (
	escalationWeight = 25
	conflictWeight   = 10
	sensitiveWeight  = 5
	maxRiskScore     = 100
)

// analyzer evaluates the impact of a single change against the rule catalog.
// Population thresholds come from configuration at engine construction.
type analyzer struct {
	cat             *catalog.Catalog
	largePopulation int
	highPopulation  int
}

// analyze applies the change to the projection and derives its impact: SoD
// conflicts, sensitive grants, escalation findings, severity level, and the
// recommendations and blockers that follow from them.
func (a *analyzer) analyze(ctx context.Context, change *model.AccessChange, proj *projection, opts model.ScenarioOptions) (*model.ImpactAnalysis, *common.SimError) {
	delta, err := proj.apply(ctx, change)
	if err != nil {
		return nil, err
	}

	analysis := &model.ImpactAnalysis{
		ChangeID:           change.ID,
		AffectedUsers:      len(delta.subjects),
		NewPermissions:     sortedKeys(delta.addedFunctions),
		RemovedPermissions: sortedKeys(delta.removedFunctions),
		UnchangedCount:     delta.unchangedCount,
	}
	analysis.AffectedTransactions = append(sortedKeys(delta.addedTransactions), sortedKeys(delta.removedTxns)...)

	if opts.IncludeSoDCheck && change.Kind.Additive() {
		if err := a.findConflicts(ctx, delta, proj, analysis); err != nil {
			return nil, err
		}
	}

	if opts.IncludeSensitiveCheck {
		a.findSensitiveGrants(delta, opts, analysis)
	}

	if change.Kind.Additive() {
		a.findEscalations(change, analysis)
	}

	a.resolveLevel(delta, analysis)
	a.recommend(opts, analysis)

	return analysis, nil
}

// findConflicts scans every pair of functions in each subject's post-change
// set for catalog conflict rules. Pre-existing combinations count the same as
// newly created ones: the analysis reports the risk posture the change leaves
// behind, not just what it introduced. Each violated rule is reported once per
// change regardless of how many subjects or pairs trip it.
func (a *analyzer) findConflicts(ctx context.Context, delta *changeDelta, proj *projection, analysis *model.ImpactAnalysis) *common.SimError {
	seen := map[string]struct{}{}

	for _, userID := range delta.subjects {
		st, err := proj.state(ctx, userID)
		if err != nil {
			return err
		}

		held := sortedKeys(st.functions)
		for i, fnA := range held {
			for _, fnB := range held[i+1:] {
				rule, ok := a.cat.ConflictBetween(fnA, fnB)
				if !ok {
					continue
				}
				if _, dup := seen[rule.ID]; dup {
					continue
				}
				seen[rule.ID] = struct{}{}

				analysis.Conflicts = append(analysis.Conflicts, model.SoDConflict{
					RuleID:             rule.ID,
					FunctionA:          rule.FunctionA,
					FunctionB:          rule.FunctionB,
					Severity:           rule.Severity,
					MitigationRequired: true,
				})
				analysis.Warnings = append(analysis.Warnings,
					fmt.Sprintf("SoD conflict %s: %q and %q must not be held together", rule.ID, rule.FunctionA, rule.FunctionB))
			}
		}
	}

	sort.Slice(analysis.Conflicts, func(i, j int) bool {
		return analysis.Conflicts[i].RuleID < analysis.Conflicts[j].RuleID
	})
	return nil
}

// findSensitiveGrants reports every sensitive transaction newly reachable by
// a subject as a result of the change.
func (a *analyzer) findSensitiveGrants(delta *changeDelta, opts model.ScenarioOptions, analysis *model.ImpactAnalysis) {
	frameworks := map[string]struct{}{}

	for _, txn := range sortedKeys(delta.addedTransactions) {
		entry, ok := a.cat.IsSensitive(txn)
		if !ok {
			continue
		}
		for _, userID := range delta.subjects {
			analysis.SensitiveGrants = append(analysis.SensitiveGrants, model.SensitiveGrant{
				UserID:           userID,
				Transaction:      txn,
				Description:      entry.Description,
				Frameworks:       entry.Frameworks,
				RequiresApproval: true,
			})
		}
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("grants sensitive transaction %s (%s)", txn, entry.Description))
		for _, fw := range entry.Frameworks {
			frameworks[fw] = struct{}{}
		}
	}

	if opts.IncludeComplianceCheck && len(frameworks) > 0 {
		analysis.Frameworks = sortedKeys(frameworks)
	}
}

// findEscalations matches the change's role and function identifiers against
// the catalog's administrative-pattern heuristics. Every finding blocks the
// run.
func (a *analyzer) findEscalations(change *model.AccessChange, analysis *model.ImpactAnalysis) {
	identifiers := []string{}
	if change.Role != "" {
		identifiers = append(identifiers, change.Role)
	}
	for _, perm := range change.Permissions {
		if perm.Function != "" {
			identifiers = append(identifiers, perm.Function)
		}
	}

	seen := map[string]struct{}{}
	for _, id := range identifiers {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		pattern, ok := a.cat.MatchesEscalation(id)
		if !ok {
			continue
		}
		analysis.Escalations = append(analysis.Escalations, model.EscalationFinding{
			Identifier: id,
			Pattern:    pattern,
		})
		analysis.Blockers = append(analysis.Blockers,
			fmt.Sprintf("privilege escalation: %q matches administrative pattern %q", id, pattern))
	}
}

// resolveLevel assigns the analysis severity. Highest applicable level wins:
// escalations are CRITICAL, SoD conflicts HIGH, a large affected population
// MEDIUM, any effective change LOW, and a no-op NONE.
func (a *analyzer) resolveLevel(delta *changeDelta, analysis *model.ImpactAnalysis) {
	switch {
	case len(analysis.Escalations) > 0:
		analysis.Level = model.SeverityCritical
	case len(analysis.Conflicts) > 0:
		analysis.Level = model.SeverityHigh
	case analysis.AffectedUsers > a.largePopulation:
		analysis.Level = model.SeverityMedium
	case delta.empty():
		analysis.Level = model.SeverityNone
	default:
		analysis.Level = model.SeverityLow
	}

	score := escalationWeight*len(analysis.Escalations) +
		conflictWeight*len(analysis.Conflicts) +
		sensitiveWeight*len(analysis.SensitiveGrants)
	if score > maxRiskScore {
		score = maxRiskScore
	}
	analysis.AuditRiskScore = float64(score)
}

func (a *analyzer) recommend(opts model.ScenarioOptions, analysis *model.ImpactAnalysis) {
	if len(analysis.Conflicts) > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			"assign a mitigating control before applying the change in the productive system")
	}
	if len(analysis.SensitiveGrants) > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			"obtain security approval for the sensitive transactions granted by this change")
	}
	if opts.IncludeUsageAnalysis && analysis.AffectedUsers > a.highPopulation {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("change affects %d users; consider a phased rollout", analysis.AffectedUsers))
	}
}
