//
//  Copyright © Manetu Inc. All rights reserved.
//

package auditlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	return &Record{
		ID:              "rec-1",
		Timestamp:       time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Actor:           "auditor@example.com",
		ScenarioID:      "sc-1",
		SimulationID:    "sim-1",
		Status:          "COMPLETED",
		OverallImpact:   "critical",
		CanProceed:      false,
		ChangesAnalyzed: 2,
		TestsRun:        1,
		TestsPassed:     1,
		Blockers:        []string{"privilege escalation: Z_ADMIN"},
	}
}

func TestIoWriterStream(t *testing.T) {
	var buf bytes.Buffer
	stream, err := NewIoWriterFactory(&buf).NewStream()
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, stream.Send(testRecord()))

	line := strings.TrimSpace(buf.String())
	assert.False(t, strings.Contains(line, "\n"), "compact output must be single-line")

	var decoded Record
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "sim-1", decoded.SimulationID)
	assert.Equal(t, "COMPLETED", decoded.Status)
	assert.False(t, decoded.CanProceed)
	assert.Len(t, decoded.Blockers, 1)
}

func TestIoWriterStreamPrettyPrint(t *testing.T) {
	var buf bytes.Buffer
	stream, err := NewIoWriterFactoryWithOptions(&buf, Options{PrettyPrint: true}).NewStream()
	require.NoError(t, err)

	require.NoError(t, stream.Send(testRecord()))
	assert.True(t, strings.Contains(buf.String(), "\n  "), "pretty output must be indented")
}

func TestNullStream(t *testing.T) {
	stream, err := NewNullFactory().NewStream()
	require.NoError(t, err)
	assert.NoError(t, stream.Send(testRecord()))
	stream.Close()
}
