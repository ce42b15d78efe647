//
//  Copyright © Manetu Inc. All rights reserved.
//

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/manetu/ptsengine/pkg/sim"
	"github.com/manetu/ptsengine/pkg/sim/auditlog"
	"github.com/manetu/ptsengine/pkg/sim/config"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/options"
	"github.com/manetu/ptsengine/pkg/simpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEngine creates an engine backed by the testdata configuration and
// a null audit log.
func setupTestEngine(t *testing.T) sim.Engine {
	err := os.Setenv(config.ConfigPathEnv, "../../../testdata")
	require.NoError(t, err)

	config.ResetConfig()

	engine, err := sim.New(
		options.WithAuditLog(auditlog.NewNullFactory()),
	)
	require.NoError(t, err)
	require.NotNil(t, engine)
	t.Cleanup(engine.Close)

	return engine
}

// findFreePort picks a high port number to avoid conflicts
func findFreePort(t *testing.T) int {
	t.Helper()
	return 18000 + (os.Getpid() % 1000)
}

// startServerInBackground starts a server and waits for it to be ready
func startServerInBackground(t *testing.T, engine sim.Engine, port int) simpoint.Server {
	server, err := CreateServer(engine, port)
	require.NoError(t, err)
	require.NotNil(t, server)

	maxRetries := 20
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/v1/statistics", port))
		if err == nil {
			_ = resp.Body.Close()
			return server
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("Server did not become ready to accept connections")
	return nil
}

func stopServer(t *testing.T, server simpoint.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, server.Stop(ctx))
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestRestServer_ScenarioLifecycle(t *testing.T) {
	engine := setupTestEngine(t)
	port := findFreePort(t)

	server := startServerInBackground(t, engine, port)
	defer stopServer(t, server)

	base := fmt.Sprintf("http://localhost:%d", port)

	// register a scenario
	resp := postJSON(t, base+"/v1/scenarios", sim.CreateScenarioRequest{
		Name:      "rest lifecycle",
		CreatedBy: "grc-admin",
		Changes: []model.AccessChange{
			{Kind: model.ChangeAddRole, TargetUser: "alice", Role: "Z_SAP_ALL_COPY"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var scenario model.SimulationScenario
	decodeBody(t, resp, &scenario)
	require.NotEmpty(t, scenario.ID)

	// append a test
	resp = postJSON(t, base+"/v1/scenarios/"+scenario.ID+"/tests", model.TestScenario{
		Name: "payment denied", UserID: "alice", TransactionCode: "F110",
		ExpectedResult: model.OutcomeFailure,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// run it
	resp = postJSON(t, base+"/v1/scenarios/"+scenario.ID+"/run?requestedBy=auditor-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.SimulationResult
	decodeBody(t, resp, &result)
	assert.Equal(t, "auditor-1", result.RequestedBy)
	assert.False(t, result.CanProceed) // SAP_ALL pattern blocks
	assert.Equal(t, 1, result.TestsRun)

	// fetch the stored result
	getResp, err := http.Get(base + "/v1/simulations/" + result.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var stored model.SimulationResult
	decodeBody(t, getResp, &stored)
	assert.Equal(t, result.ID, stored.ID)

	// and the listing
	listResp, err := http.Get(base + "/v1/simulations?limit=10")
	require.NoError(t, err)
	var summaries []model.SimulationSummary
	decodeBody(t, listResp, &summaries)
	require.NotEmpty(t, summaries)
	assert.Equal(t, result.ID, summaries[len(summaries)-1].ID)
}

func TestRestServer_ErrorMapping(t *testing.T) {
	engine := setupTestEngine(t)
	port := findFreePort(t) + 1

	server := startServerInBackground(t, engine, port)
	defer stopServer(t, server)

	base := fmt.Sprintf("http://localhost:%d", port)

	// unknown simulation -> 404
	resp, err := http.Get(base + "/v1/simulations/does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "NOTFOUND_ERROR", body["code"])

	// invalid scenario -> 400
	resp = postJSON(t, base+"/v1/scenarios", sim.CreateScenarioRequest{
		Name: "no creator",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// invalid limit -> 400
	resp, err = http.Get(base + "/v1/simulations?limit=bogus")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// cancel of unknown simulation -> 404
	resp = postJSON(t, base+"/v1/simulations/nope/cancel", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestRestServer_Metrics(t *testing.T) {
	engine := setupTestEngine(t)
	port := findFreePort(t) + 2

	server := startServerInBackground(t, engine, port)
	defer stopServer(t, server)

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/metrics", port))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pts_blockers_total")
}
