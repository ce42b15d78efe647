//
//  Copyright © Manetu Inc. All rights reserved.
//

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind is the document kind expected in a rule catalog preamble.
const Kind = "RuleCatalog"

// APIVersionV1Alpha1 is the current catalog schema version.
const APIVersionV1Alpha1 = "grc.manetu.io/v1alpha1"

// Preamble represents the header information of a rule catalog document.
type Preamble struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
}

type document struct {
	Preamble              `yaml:",inline"`
	ConflictRules         []ConflictRule         `yaml:"conflictRules"`
	SensitiveTransactions []SensitiveTransaction `yaml:"sensitiveTransactions"`
	EscalationPatterns    []string               `yaml:"escalationPatterns"`
	Roles                 []RoleDefinition       `yaml:"roles"`
}

// Load loads a rule catalog from a YAML file path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- intentionally reads operator-provided paths
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse loads a rule catalog from YAML document bytes.
func Parse(data []byte) (*Catalog, error) {
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

	return nil, fmt.Errorf("unsupported RuleCatalog API Version %s", preamble.APIVersion)
}

func parseV1Alpha1(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	for i, r := range doc.ConflictRules {
		if r.FunctionA == "" || r.FunctionB == "" {
			return nil, fmt.Errorf("conflict rule %d (%s): both functions are required", i, r.ID)
		}
	}
	for i, s := range doc.SensitiveTransactions {
		if s.Code == "" {
			return nil, fmt.Errorf("sensitive transaction %d: code is required", i)
		}
	}

	return New(doc.ConflictRules, doc.SensitiveTransactions, doc.EscalationPatterns, doc.Roles), nil
}
