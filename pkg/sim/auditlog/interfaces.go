//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package auditlog provides interfaces and implementations for audit logging
// of simulation verdicts.
//
// Audit records capture every finalized simulation run: who requested it,
// which scenario was evaluated, the verdict, and the blockers that drove it.
// Records create an audit trail for compliance review of what-if analyses.
//
// # Built-in Implementations
//
// The package provides several stream implementations:
//   - [NewStdoutFactory]: Writes JSON records to stdout (default for development)
//   - [NewIoWriterFactory]: Writes JSON records to any io.Writer
//   - [NewNullFactory]: Discards all records (useful for testing or benchmarks)
//
// # Custom Implementations
//
// To implement a custom audit log (e.g., for Kafka, database, or cloud
// logging):
//
//  1. Implement the [Factory] interface to create stream instances
//  2. Implement the [Stream] interface to handle record delivery
//  3. Use options.WithAuditLog when creating the engine
package auditlog

import "time"

// Record is the audit trail entry emitted once per finalized simulation run.
type Record struct {
	ID              string            `json:"id"`
	Timestamp       time.Time         `json:"timestamp"`
	Actor           string            `json:"actor,omitempty"`
	ScenarioID      string            `json:"scenarioId"`
	SimulationID    string            `json:"simulationId"`
	Status          string            `json:"status"`
	OverallImpact   string            `json:"overallImpact"`
	CanProceed      bool              `json:"canProceed"`
	ChangesAnalyzed int               `json:"changesAnalyzed"`
	TestsRun        int               `json:"testsRun"`
	TestsPassed     int               `json:"testsPassed"`
	Blockers        []string          `json:"blockers,omitempty"`
	Error           string            `json:"error,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Factory creates audit log [Stream] instances.
//
// The factory pattern enables deferred initialization of streaming resources.
// The engine guarantees that configuration is fully loaded before [NewStream]
// is called.
type Factory interface {
	// NewStream creates a new audit log stream.
	//
	// The returned stream should be ready to receive records via [Stream.Send].
	// Returns an error if the stream cannot be initialized.
	NewStream() (Stream, error)
}

// Stream is the interface for sending audit records to a destination.
//
// Implementations must be safe for concurrent use by multiple goroutines;
// the engine may call [Stream.Send] from concurrently running simulations.
type Stream interface {
	// Send delivers an audit record to the destination.
	//
	// Send should not modify the record. The engine logs send errors but
	// does not retry; implementations should handle retries internally if
	// needed.
	Send(record *Record) error

	// Close releases any resources held by the stream, flushing buffered
	// records first. After Close is called, the stream should not be used.
	Close()
}
