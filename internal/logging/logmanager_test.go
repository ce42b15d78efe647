//
//  Copyright © Manetu Inc. All rights reserved.
//

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestGetLogger(t *testing.T) {
	resetForTesting()

	l := GetLogger("testmodule")
	assert.NotNil(t, l)
	assert.True(t, l.IsLevelEnabled(zapcore.InfoLevel))
	assert.False(t, l.IsLevelEnabled(zapcore.DebugLevel))

	// Same module must return the same instance
	assert.Same(t, l, GetLogger("testmodule"))
}

func TestUpdateLogLevels(t *testing.T) {
	resetForTesting()

	err := UpdateLogLevels(".:info;module1:debug;module2:warn")
	assert.NoError(t, err)

	l1 := GetLogger("module1")
	assert.True(t, l1.IsLevelEnabled(zapcore.DebugLevel))

	l2 := GetLogger("module2")
	assert.True(t, l2.IsLevelEnabled(zapcore.WarnLevel))
	assert.False(t, l2.IsLevelEnabled(zapcore.InfoLevel))

	// Undeclared module gets the default
	l3 := GetLogger("undeclared")
	assert.True(t, l3.IsLevelEnabled(zapcore.InfoLevel))
	assert.False(t, l3.IsLevelEnabled(zapcore.DebugLevel))

	// Raising the default applies to modules without an explicit level
	err = UpdateLogLevels(".:debug")
	assert.NoError(t, err)
	assert.True(t, l3.IsLevelEnabled(zapcore.DebugLevel))

	// ...but not to modules with explicit levels
	assert.False(t, l2.IsLevelEnabled(zapcore.InfoLevel))
}

func TestUpdateLogLevelsWithWhitespace(t *testing.T) {
	resetForTesting()

	err := UpdateLogLevels("  mod1: debug  ;  mod2: error  ;  .: info  ")
	assert.NoError(t, err)

	l1 := GetLogger("mod1")
	assert.True(t, l1.IsLevelEnabled(zapcore.DebugLevel))

	l2 := GetLogger("mod2")
	assert.True(t, l2.IsLevelEnabled(zapcore.ErrorLevel))
	assert.False(t, l2.IsLevelEnabled(zapcore.WarnLevel))
}

func TestMalformedEntriesIgnored(t *testing.T) {
	resetForTesting()

	err := UpdateLogLevels("garbage;mod1:debug;also:bad:entry")
	assert.NoError(t, err)

	l1 := GetLogger("mod1")
	assert.True(t, l1.IsLevelEnabled(zapcore.DebugLevel))
}

func TestLoggerOutput(t *testing.T) {
	resetForTesting()

	var buf bytes.Buffer
	l := GetLogger("capture")
	l.SetOut(&buf)

	l.Info("tester", "TestLoggerOutput", "hello")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "capture")
	assert.Contains(t, out, "tester")
}
