//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package bundle loads scenario bundle documents: self-contained YAML files
// carrying a simulation scenario together with an optional baseline
// permission snapshot for the users it touches. Bundles make a what-if
// analysis reproducible from a single file, suitable for version control and
// CI pipelines.
//
// # Bundle Document
//
// Bundle YAML documents carry a preamble identifying the schema:
//
//	apiVersion: grc.manetu.io/v1alpha1
//	kind: SimulationScenario
//	name: grant ap clerk
//	createdBy: grc-admin
//	changes:
//	  - kind: add-role
//	    targetUser: alice
//	    role: AP_CLERK
//	tests:
//	  - name: invoice entry allowed
//	    userId: alice
//	    transactionCode: FB60
//	    expectedResult: success
//	permissions:
//	  alice:
//	    - role: DISPLAY_ONLY
package bundle

import (
	"fmt"
	"os"

	"github.com/manetu/ptsengine/pkg/sim/model"
	"gopkg.in/yaml.v3"
)

// Kind is the document kind expected in a scenario bundle preamble.
const Kind = "SimulationScenario"

// APIVersionV1Alpha1 is the current bundle schema version.
const APIVersionV1Alpha1 = "grc.manetu.io/v1alpha1"

// Preamble represents the header information of a scenario bundle document.
type Preamble struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
}

// Bundle is a parsed scenario bundle: the scenario fields plus the optional
// baseline permission snapshot keyed by user id.
type Bundle struct {
	Preamble     `yaml:",inline"`
	Name         string                   `yaml:"name"`
	Description  string                   `yaml:"description,omitempty"`
	CreatedBy    string                   `yaml:"createdBy"`
	TargetSystem string                   `yaml:"targetSystem,omitempty"`
	TargetClient string                   `yaml:"targetClient,omitempty"`
	Changes      []model.AccessChange     `yaml:"changes"`
	Tests        []model.TestScenario     `yaml:"tests,omitempty"`
	Options      *model.ScenarioOptions   `yaml:"options,omitempty"`
	Permissions  map[string][]model.Grant `yaml:"permissions,omitempty"`
}

// Load loads a scenario bundle from a YAML file path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- intentionally reads operator-provided paths
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse loads a scenario bundle from YAML document bytes.
func Parse(data []byte) (*Bundle, error) {
	var preamble Preamble
	if err := yaml.Unmarshal(data, &preamble); err != nil {
		return nil, err
	}

	if preamble.Kind != Kind {
		return nil, fmt.Errorf("expected %s got %s", Kind, preamble.Kind)
	}

	switch preamble.APIVersion {
	case APIVersionV1Alpha1:
		return parseV1Alpha1(data)
	}

	return nil, fmt.Errorf("unsupported SimulationScenario API Version %s", preamble.APIVersion)
}

func parseV1Alpha1(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, err
	}

	if b.Name == "" {
		return nil, fmt.Errorf("scenario name is required")
	}
	if len(b.Changes) == 0 {
		return nil, fmt.Errorf("scenario %q: at least one change is required", b.Name)
	}
	for i := range b.Changes {
		if err := b.Changes[i].Validate(); err != nil {
			return nil, fmt.Errorf("change %d: %s", i, err.Reason)
		}
	}
	for i := range b.Tests {
		if err := b.Tests[i].Validate(); err != nil {
			return nil, fmt.Errorf("test %d: %s", i, err.Reason)
		}
	}

	return &b, nil
}
