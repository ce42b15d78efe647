//
//  Copyright © Manetu Inc. All rights reserved.
//

package test

import (
	"os"
	"path/filepath"
	"runtime"

	enginelog "github.com/manetu/ptsengine/internal/engine/auditlog"
	"github.com/manetu/ptsengine/pkg/sim"
	"github.com/manetu/ptsengine/pkg/sim/auditlog"
	"github.com/manetu/ptsengine/pkg/sim/config"
	"github.com/manetu/ptsengine/pkg/sim/options"
)

// TestConfigFilename is the name of the test configuration file (without extension).
const TestConfigFilename = "pts-config"

// GetTestdataPath returns the absolute path to the testdata directory.
// This uses runtime.Caller to locate the source file and compute the path
// relative to it, ensuring tests work regardless of the working directory.
func GetTestdataPath() string {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		// Fallback to relative path if runtime.Caller fails
		return "testdata"
	}
	// thisFile is internal/engine/test/instance.go
	// We need to go up 3 levels to reach the project root, then into testdata
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(thisFile))))
	return filepath.Join(projectRoot, "testdata")
}

// SetupTestConfig configures the environment to use the test configuration.
// This sets both PTS_CONFIG_PATH and PTS_CONFIG_FILENAME to ensure tests
// use the correct configuration regardless of user environment variables.
func SetupTestConfig() error {
	if err := os.Setenv(config.ConfigPathEnv, GetTestdataPath()); err != nil {
		return err
	}
	if err := os.Setenv(config.ConfigFileNameEnv, TestConfigFilename); err != nil {
		return err
	}
	return nil
}

// NewTestEngine instantiates an engine suitable for unit-testing. Audit
// records are delivered to the returned channel with the given depth. It
// uses the test configuration from the testdata directory.
func NewTestEngine(depth int, engineOptions ...options.EngineOptionsFunc) (sim.Engine, chan *auditlog.Record, error) {
	if err := SetupTestConfig(); err != nil {
		return nil, nil, err
	}

	ch := make(chan *auditlog.Record, depth)
	engineOptions = append(engineOptions, options.WithAuditLog(enginelog.NewChannelLogger(ch)))

	engine, err := sim.New(engineOptions...)
	if err != nil {
		return nil, nil, err
	}

	return engine, ch, nil
}
