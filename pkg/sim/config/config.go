//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package config provides configuration management for the simulation engine
// using [Viper] for flexible configuration sources.
//
// Configuration can be provided via:
//   - YAML configuration files
//   - Environment variables with the PTS_ prefix
//   - Programmatic defaults
//
// # Configuration File
//
// By default, the engine looks for pts-config.yaml in the current directory.
// Override the location using environment variables:
//
//	PTS_CONFIG_PATH=/etc/ptsengine
//	PTS_CONFIG_FILENAME=production-config
//
// Example configuration file:
//
//	log:
//	  level: ".:info"
//	analysis:
//	  largepopulation: 10
//	  highpopulation: 50
//	catalog:
//	  path: /etc/ptsengine/catalog.yaml
//	audit:
//	  env:
//	    pod: HOSTNAME
//	    region: AWS_REGION
//
// # Environment Variables
//
// All configuration keys can be set via environment variables with the PTS_
// prefix. Dots in key names become underscores:
//
//	PTS_LOG_LEVEL=.:debug
//	PTS_ANALYSIS_LARGEPOPULATION=25
//	PTS_MOCK_ENABLED=true
//
// [Viper]: https://github.com/spf13/viper
package config

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/manetu/ptsengine/internal/logging"
	"github.com/spf13/viper"
)

// Environment variable and default path constants for configuration loading.
const (
	// EnvVarPrefix is the prefix for all simulation engine environment
	// variables. For example, the key "log.level" becomes PTS_LOG_LEVEL.
	EnvVarPrefix string = "PTS"

	// ConfigPathEnv is the environment variable that specifies the directory
	// containing the configuration file.
	ConfigPathEnv string = "PTS_CONFIG_PATH"

	// ConfigFileNameEnv is the environment variable that specifies the
	// configuration file name (without extension).
	ConfigFileNameEnv string = "PTS_CONFIG_FILENAME"

	// ConfigDefaultPath is the default directory to search for config files.
	ConfigDefaultPath string = "."

	// ConfigDefaultFilename is the default configuration file name (without extension).
	ConfigDefaultFilename string = "pts-config"
)

// Configuration key constants for use with [VConfig].
const (
	logLevel string = "log.level"

	// MockEnabled when set to true causes the engine to use a mock permission
	// source regardless of any source configured via options. This is useful
	// for unit testing applications that embed the engine.
	//
	// Set via environment: PTS_MOCK_ENABLED=true
	MockEnabled string = "mock.enabled"

	// LargePopulation is the affected-user count above which an otherwise
	// low-impact change is promoted to MEDIUM.
	//
	// Default: 10
	LargePopulation string = "analysis.largepopulation"

	// HighPopulation is the affected-user count above which a phased rollout
	// is recommended.
	//
	// Default: 50
	HighPopulation string = "analysis.highpopulation"

	// HistoryLimit is the default maximum number of simulation summaries
	// returned by list operations when the caller does not specify one.
	//
	// Default: 100
	HistoryLimit string = "history.limit"

	// CatalogPath is an optional path to a rule catalog YAML document loaded
	// at engine startup in place of the embedded defaults.
	CatalogPath string = "catalog.path"

	// AuditEnv defines a mapping from audit record metadata keys to
	// environment variable names. The values of the specified environment
	// variables are included in every audit record.
	//
	// Example config:
	//
	//	audit:
	//	  env:
	//	    pod: HOSTNAME
	//	    region: AWS_REGION
	AuditEnv string = "audit.env"
)

var (
	once     sync.Once
	loadOnce sync.Once
	loadErr  error

	// VConfig is the global Viper configuration instance for the simulation
	// engine. It is initialized automatically when [Load] or [Init] is
	// called; most applications don't need to access it directly.
	VConfig *viper.Viper
	logger  = logging.GetLogger("ptsengine.config")
)

// Init initializes the configuration system without loading config files.
//
// This function is safe to call multiple times; subsequent calls are no-ops.
// Call Init explicitly only if you need to set Viper defaults before [Load]
// reads the configuration file.
func Init() {
	once.Do(doInitialize)
}

func getConfigPath() string {
	if configPath, ok := os.LookupEnv(ConfigPathEnv); ok {
		return configPath
	}
	return ConfigDefaultPath
}

func getConfigFileName() string {
	if configName, ok := os.LookupEnv(ConfigFileNameEnv); ok {
		return configName
	}
	return ConfigDefaultFilename
}

func doInitialize() {
	VConfig = viper.New()

	// set up config-file loading:  default is './pts-config.yaml' but can be overridden with $(PTS_CONFIG_PATH)/$(PTS_CONFIG_FILENAME).yaml
	VConfig.AddConfigPath(getConfigPath())
	VConfig.SetConfigName(getConfigFileName())
	VConfig.SetConfigType("yaml")

	// set up envvar handling:  keys such as 'log.level' become 'PTS_LOG_LEVEL'
	VConfig.SetEnvPrefix(EnvVarPrefix)
	VConfig.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	VConfig.AutomaticEnv()

	VConfig.SetDefault(logLevel, ".:info")
	VConfig.SetDefault(LargePopulation, 10)
	VConfig.SetDefault(HighPopulation, 50)
	VConfig.SetDefault(HistoryLimit, 100)
}

// Load initializes configuration and loads settings from files and environment.
//
// Load performs the following steps:
//  1. Calls [Init] if not already called
//  2. Reads the configuration file (if present; missing files are not an error)
//  3. Applies environment variable overrides
//  4. Updates log levels based on configuration
//
// This function is safe to call concurrently from multiple goroutines.
// Subsequent calls after the first successful load are no-ops that return nil.
//
// Load is called automatically by the engine constructor. Most applications
// don't need to call it directly.
func Load() error {
	loadOnce.Do(func() {
		Init()

		// Early log level update from environment variable allows us to debug the config loading.
		earlyLoglevel := os.Getenv("PTS_LOG_LEVEL")
		if earlyLoglevel != "" {
			if err := logging.UpdateLogLevels(earlyLoglevel); err != nil {
				logger.SysErrorf("Failed updating early log level %s: %+v", earlyLoglevel, err)
				loadErr = err
				return
			}
		}

		logger.SysDebugf("Loading configuration from %s/%s.yaml", getConfigPath(), getConfigFileName())
		err := VConfig.ReadInConfig()
		if err != nil {
			// Only log if it's an actual error, not just a missing config file
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				logger.SysWarnf("error reading config; using defaults: %+v", err)
			}
			logger.SysDebugf("No config file found at %s/%s.yaml", getConfigPath(), getConfigFileName())
		}

		loglevel := VConfig.GetString(logLevel)
		if err := logging.UpdateLogLevels(loglevel); err != nil {
			logger.SysErrorf("Failed updating log level %s: %+v", loglevel, err)
			loadErr = err
			return
		}

		if logger.IsDebugEnabled() {
			VConfig.DebugTo(logger.Out())
		}
	})

	return loadErr
}

// ResetConfig clears all configuration and reinitializes with defaults.
//
// WARNING: This function is intended for testing only. It resets the global
// configuration state, which can cause race conditions in concurrent code.
func ResetConfig() {
	VConfig = nil
	once = sync.Once{}
	loadOnce = sync.Once{}
	loadErr = nil
	Init()
	// ignore any reset errors
	_ = Load()
}

// GetAuditEnv returns resolved audit environment metadata for audit records.
//
// This function reads the audit.env configuration section and resolves each
// configured environment variable to its current value. The result is a map
// suitable for inclusion in audit records as metadata.
//
// Environment variables that are not set will have empty string values in the
// result. Returns an empty map if no audit.env configuration is present.
func GetAuditEnv() map[string]string {
	result := make(map[string]string)

	envConfig := VConfig.GetStringMapString(AuditEnv)
	if envConfig == nil {
		return result
	}

	for key, envVarName := range envConfig {
		result[key] = os.Getenv(envVarName)
	}

	return result
}
