//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package simpoint provides interfaces and implementations for simulation
// service endpoints.
//
// A simulation endpoint exposes the simulation engine as a network service
// that GRC tooling and CI pipelines can call to register scenarios, run
// what-if analyses, and inspect results.
//
// # Available Implementations
//
// The following endpoint implementations are available:
//   - [rest]: HTTP/REST server with Prometheus metrics
//
// # Usage
//
// Create and start a simulation endpoint server:
//
//	engine, _ := sim.New(options.WithPermissions(source))
//	server, _ := rest.CreateServer(engine, 8080)
//	defer server.Stop(ctx)
package simpoint

import "context"

// Server is the interface for simulation endpoint servers that can be
// gracefully stopped.
//
// Implementations must ensure that [Stop] completes any in-flight requests
// before returning.
type Server interface {
	// Stop gracefully shuts down the server, waiting for active requests
	// to complete or until the context is cancelled.
	Stop(context.Context) error
}
