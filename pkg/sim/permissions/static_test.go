//
//  Copyright © Manetu Inc. All rights reserved.
//

package permissions

import (
	"context"
	"testing"

	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticService(t *testing.T) {
	snapshot := map[string][]model.Grant{
		"alice": {
			{Role: "AP_CLERK", Functions: []string{"Invoice Entry"}, Transactions: []string{"FB60"}},
		},
	}

	svc, err := NewStaticFactory(snapshot).NewService()
	require.NoError(t, err)

	grants, serr := svc.GetGrants(context.Background(), "alice")
	require.Nil(t, serr)
	require.Len(t, grants, 1)
	assert.Equal(t, "AP_CLERK", grants[0].Role)

	// Unknown subjects hold no grants
	grants, serr = svc.GetGrants(context.Background(), "nobody")
	assert.Nil(t, serr)
	assert.Empty(t, grants)
}

func TestStaticServiceIsolatedFromCaller(t *testing.T) {
	snapshot := map[string][]model.Grant{
		"alice": {{Role: "AP_CLERK"}},
	}

	svc, err := NewStaticFactory(snapshot).NewService()
	require.NoError(t, err)

	// Mutating the caller's snapshot must not affect the service
	snapshot["alice"][0].Role = "TAMPERED"

	grants, serr := svc.GetGrants(context.Background(), "alice")
	require.Nil(t, serr)
	assert.Equal(t, "AP_CLERK", grants[0].Role)
}

func TestNilSnapshot(t *testing.T) {
	svc, err := NewStaticFactory(nil).NewService()
	require.NoError(t, err)

	grants, serr := svc.GetGrants(context.Background(), "anyone")
	assert.Nil(t, serr)
	assert.Empty(t, grants)
}
