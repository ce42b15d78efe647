//
//  Copyright © Manetu Inc. All rights reserved.
//

package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyPrint(t *testing.T) {
	var buf bytes.Buffer

	err := PrettyPrint(&buf, map[string]interface{}{
		"status":     "COMPLETED",
		"canProceed": true,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"status": "COMPLETED"`)
	assert.Contains(t, buf.String(), `"canProceed": true`)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestPrettyPrintUnmarshalable(t *testing.T) {
	var buf bytes.Buffer

	err := PrettyPrint(&buf, func() {})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
