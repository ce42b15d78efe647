//
//  Copyright © Manetu Inc. All rights reserved.
//

package lint

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manetu/ptsengine/pkg/sim/bundle"
	"github.com/manetu/ptsengine/pkg/sim/catalog"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Result represents the outcome of a lint operation on a file.
type Result struct {
	File    string
	Kind    string
	Valid   bool
	Message string
}

// Execute runs the lint command with the provided context and CLI command.
// It validates scenario bundle and rule catalog YAML documents, dispatching
// on the document's kind preamble.
func Execute(ctx context.Context, cmd *cli.Command) error {
	return execute(ctx, cmd, os.Stdout)
}

func execute(_ context.Context, cmd *cli.Command, stdout io.Writer) error {
	files := cmd.StringSlice("file")
	if len(files) == 0 {
		return fmt.Errorf("no files specified, use --file/-f to specify YAML files to lint")
	}

	fmt.Fprintln(stdout, "Linting simulation documents...")
	fmt.Fprintln(stdout)

	errors := 0
	for _, file := range files {
		result := lintFile(file)
		if result.Valid {
			fmt.Fprintf(stdout, "✓ %s: valid %s\n", result.File, result.Kind)
		} else {
			fmt.Fprintf(stdout, "✗ %s: %s\n", result.File, result.Message)
			errors++
		}
	}

	fmt.Fprintln(stdout)
	if errors > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", errors, len(files))
	}
	fmt.Fprintf(stdout, "%d file(s) validated successfully\n", len(files))
	return nil
}

func lintFile(file string) Result {
	ext := strings.ToLower(filepath.Ext(file))
	if ext != ".yml" && ext != ".yaml" {
		return Result{File: file, Message: "unsupported file type (only .yml, .yaml supported)"}
	}

	data, err := os.ReadFile(file) // #nosec G304 -- lints operator-provided paths
	if err != nil {
		return Result{File: file, Message: err.Error()}
	}

	var preamble bundle.Preamble
	if err := yaml.Unmarshal(data, &preamble); err != nil {
		return Result{File: file, Message: fmt.Sprintf("invalid YAML: %s", err)}
	}

	switch preamble.Kind {
	case bundle.Kind:
		if _, err := bundle.Parse(data); err != nil {
			return Result{File: file, Kind: bundle.Kind, Message: err.Error()}
		}
		return Result{File: file, Kind: bundle.Kind, Valid: true}
	case catalog.Kind:
		if _, err := catalog.Parse(data); err != nil {
			return Result{File: file, Kind: catalog.Kind, Message: err.Error()}
		}
		return Result{File: file, Kind: catalog.Kind, Valid: true}
	}

	return Result{File: file, Message: fmt.Sprintf("unknown document kind %q", preamble.Kind)}
}
