package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "abc", TruncateForLog("  abc  ", 5))
	assert.Equal(t, "ab...", TruncateForLog("abcdef", 2))
	assert.Equal(t, "", TruncateForLog("abc", 0))
	assert.Equal(t, "né...", TruncateForLog("névé", 2))
}

func TestStringFields(t *testing.T) {
	fields := StringFields(" provider ", " gemini ", "ignored", "  ", "  ", "empty key", "dangling")
	require.Len(t, fields, 1)
	assert.Equal(t, "provider", fields[0].Key)
	assert.Equal(t, "gemini", fields[0].String)
}

func TestWithRun(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	WithRun(zap.New(core), 7, "run-1").Info("ranking stage", zap.String(FieldStage, "scoring"))

	entries := observed.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.EqualValues(t, 7, ctx[FieldJobID])
	assert.Equal(t, "run-1", ctx[FieldRunID])
	assert.Equal(t, "scoring", ctx[FieldStage])
}

func TestWithProviderNilLogger(t *testing.T) {
	l := WithProvider(nil, "gemini", "")
	require.NotNil(t, l)
	l.Info("does not panic")
}
