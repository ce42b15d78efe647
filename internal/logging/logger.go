//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package logging provides module-scoped structured loggers built on zap.
//
// Each subsystem obtains its logger via [GetLogger], keyed by a module name
// such as "ptsengine" or "ptsengine.catalog". Levels may be adjusted per
// module at runtime with [UpdateLogLevels], using a specification string of
// the form "mod1:debug;mod2:error;.:info" where "." denotes the default.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a module-scoped wrapper around zap.Logger. Every record carries
// actor, action and module fields for audit correlation.
type Logger struct {
	module string
	sugar  *zap.SugaredLogger
	level  zapcore.Level
	writer io.Writer
}

const (
	actorKey  = "actor"
	actionKey = "action"
	moduleKey = "module"
	defActor  = "sys"
	defAction = "unk"
)

func buildEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	if os.Getenv("LOG_FORMATTER") == "text" {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func newLogger(module string) *Logger {
	l := &Logger{
		module: module,
		level:  zapcore.InfoLevel,
	}
	l.rebuild()
	return l
}

// rebuild reconstructs the underlying zap core after a level or writer change.
func (l *Logger) rebuild() {
	var output io.Writer = os.Stdout
	if l.writer != nil {
		output = l.writer
	}

	options := []zap.Option{
		zap.AddCallerSkip(1),
	}
	if os.Getenv("LOG_REPORT_CALLER") != "" {
		options = append(options, zap.AddCaller())
	}

	core := zapcore.NewCore(buildEncoder(), zapcore.AddSync(output), l.level)
	l.sugar = zap.New(core, options...).Sugar()
}

// SetLevel sets the logging level for this module.
func (l *Logger) SetLevel(level zapcore.Level) {
	l.level = level
	l.rebuild()
}

// SetOut redirects output to the provided writer (intended for tests).
func (l *Logger) SetOut(w io.Writer) {
	l.writer = w
	l.rebuild()
}

// Out returns the current output writer.
func (l *Logger) Out() io.Writer {
	if l.writer != nil {
		return l.writer
	}
	return os.Stdout
}

// IsDebugEnabled returns true if the current logging level is debug or finer.
// Use as a guard when the log output itself is expensive to compute.
func (l *Logger) IsDebugEnabled() bool {
	return l.level <= zapcore.DebugLevel
}

// IsLevelEnabled checks if a level is enabled.
func (l *Logger) IsLevelEnabled(level zapcore.Level) bool {
	return l.level <= level
}

func (l *Logger) with(actor, action string) *zap.SugaredLogger {
	return l.sugar.With(
		zap.String(actorKey, actor),
		zap.String(actionKey, action),
		zap.String(moduleKey, l.module),
	)
}

// Debug logs a debug message attributed to the given actor and action.
func (l *Logger) Debug(actor, action string, args ...interface{}) {
	l.with(actor, action).Debug(args...)
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(actor, action string, format string, args ...interface{}) {
	l.with(actor, action).Debugf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(actor, action string, args ...interface{}) {
	l.with(actor, action).Info(args...)
}

// Infof logs a formatted info message.
func (l *Logger) Infof(actor, action string, format string, args ...interface{}) {
	l.with(actor, action).Infof(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(actor, action string, args ...interface{}) {
	l.with(actor, action).Warn(args...)
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(actor, action string, format string, args ...interface{}) {
	l.with(actor, action).Warnf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(actor, action string, args ...interface{}) {
	l.with(actor, action).Error(args...)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(actor, action string, format string, args ...interface{}) {
	l.with(actor, action).Errorf(format, args...)
}

// Fatalf logs a formatted fatal message and exits.
func (l *Logger) Fatalf(actor, action string, format string, args ...interface{}) {
	l.with(actor, action).Fatalf(format, args...)
}

// Below are convenience variants using the default actor and action.

// SysDebug logs a debug message with default attribution.
func (l *Logger) SysDebug(args ...interface{}) {
	l.Debug(defActor, defAction, args...)
}

// SysDebugf logs a formatted debug message with default attribution.
func (l *Logger) SysDebugf(format string, args ...interface{}) {
	l.Debugf(defActor, defAction, format, args...)
}

// SysInfo logs an info message with default attribution.
func (l *Logger) SysInfo(args ...interface{}) {
	l.Info(defActor, defAction, args...)
}

// SysInfof logs a formatted info message with default attribution.
func (l *Logger) SysInfof(format string, args ...interface{}) {
	l.Infof(defActor, defAction, format, args...)
}

// SysWarnf logs a formatted warning with default attribution.
func (l *Logger) SysWarnf(format string, args ...interface{}) {
	l.Warnf(defActor, defAction, format, args...)
}

// SysError logs an error with default attribution.
func (l *Logger) SysError(args ...interface{}) {
	l.Error(defActor, defAction, args...)
}

// SysErrorf logs a formatted error with default attribution.
func (l *Logger) SysErrorf(format string, args ...interface{}) {
	l.Errorf(defActor, defAction, format, args...)
}
