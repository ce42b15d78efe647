//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package model defines the core data structures for productive test
// simulation.
//
// This package contains the runtime types exchanged between the simulation
// engine, its stores, and transport adapters. These types represent proposed
// access changes, synthetic test scenarios, impact analyses, and the
// simulation results assembled from them.
//
// # Key Types
//
// Scenario construction types:
//   - [AccessChange]: One proposed access modification (role or permission)
//   - [TestScenario]: A synthetic authorization check with an expected outcome
//   - [SimulationScenario]: A named, user-attributed bundle of changes and tests
//
// Run output types:
//   - [ImpactAnalysis]: Analyzer findings for a single change
//   - [TestOutcome]: The executed result of a single test scenario
//   - [SimulationResult]: The complete, finalized record of one run
//
// # Severity Ordering
//
// [Severity] is a closed, ordered enumeration (none < low < medium < high <
// critical). Aggregation uses [MaxSeverity] so the overall impact of a run is
// always the maximum severity observed across its analyses.
package model

import "github.com/manetu/ptsengine/pkg/common"

// Severity is the ordered impact classification of a change or run.
type Severity int

// Severity levels, ordered from least to most severe.
const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the lowercase name of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler so severities serialize as
// their names in JSON and YAML.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a severity name to its enum value.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "none", "":
		return SeverityNone, nil
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	}
	return SeverityNone, common.NewError(common.ReasonValidation, "unknown severity: %s", name)
}

// MaxSeverity returns the greater of two severities.
func MaxSeverity(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// Status is the lifecycle state of a simulation run.
type Status int

// Simulation run states. PENDING and RUNNING are transient; COMPLETED,
// FAILED, and CANCELLED are terminal.
const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusCancelled
)

// String returns the uppercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusRunning:
		return "RUNNING"
	case StatusCompleted:
		return "COMPLETED"
	case StatusFailed:
		return "FAILED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "PENDING"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus converts a status name to its enum value.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "PENDING", "":
		return StatusPending, nil
	case "RUNNING":
		return StatusRunning, nil
	case "COMPLETED":
		return StatusCompleted, nil
	case "FAILED":
		return StatusFailed, nil
	case "CANCELLED":
		return StatusCancelled, nil
	}
	return StatusPending, common.NewError(common.ReasonValidation, "unknown status: %s", name)
}

// Terminal reports whether the status is a terminal state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the transition from s to next is permitted by
// the run state machine: PENDING→RUNNING→{COMPLETED,FAILED}, with CANCELLED
// reachable from PENDING or RUNNING. Terminal states admit no transitions.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusCancelled
	case StatusRunning:
		return next == StatusCompleted || next == StatusFailed || next == StatusCancelled
	}
	return false
}

// ChangeKind identifies the type of a proposed access modification.
type ChangeKind string

// Supported change kinds.
const (
	ChangeAddRole           ChangeKind = "add-role"
	ChangeRemoveRole        ChangeKind = "remove-role"
	ChangeModifyRole        ChangeKind = "modify-role"
	ChangeAddPermission     ChangeKind = "add-permission"
	ChangeRemovePermission  ChangeKind = "remove-permission"
	ChangeUserTransfer      ChangeKind = "user-transfer"
	ChangeRoleConsolidation ChangeKind = "role-consolidation"
)

// Valid reports whether the kind is one of the supported change kinds.
func (k ChangeKind) Valid() bool {
	switch k {
	case ChangeAddRole, ChangeRemoveRole, ChangeModifyRole,
		ChangeAddPermission, ChangeRemovePermission,
		ChangeUserTransfer, ChangeRoleConsolidation:
		return true
	}
	return false
}

// Additive reports whether the change kind grants access. SoD conflict and
// privilege escalation checks apply only to additive changes.
func (k ChangeKind) Additive() bool {
	switch k {
	case ChangeAddRole, ChangeModifyRole, ChangeAddPermission,
		ChangeUserTransfer, ChangeRoleConsolidation:
		return true
	}
	return false
}

// Outcome is the declared or observed result of a test scenario.
type Outcome string

// Test scenario outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Valid reports whether the outcome is one of the supported values.
func (o Outcome) Valid() bool {
	return o == OutcomeSuccess || o == OutcomeFailure
}
