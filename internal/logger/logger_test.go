package logger

import (
	"bytes"
	"context"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_ToCharmlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  charmlog.Level
	}{
		{DebugLevel, charmlog.DebugLevel},
		{InfoLevel, charmlog.InfoLevel},
		{WarnLevel, charmlog.WarnLevel},
		{ErrorLevel, charmlog.ErrorLevel},
		{"WARN", charmlog.WarnLevel},
		{"verbose", charmlog.InfoLevel},
		{"", charmlog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.ToCharmlogLevel())
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})
	log.Debug("hidden")
	log.With("schema", "svc.Inner").Info("generated", "file", "svc_inner.go")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"generated"`)
	assert.Contains(t, out, `"schema":"svc.Inner"`)
	assert.Contains(t, out, `"file":"svc_inner.go"`)
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&Config{Level: DebugLevel, Output: &buf})
	log.Debug("loading", "pkg", "example.com/svc")

	assert.Contains(t, buf.String(), "loading")
	assert.Contains(t, buf.String(), "pkg=example.com/svc")
}

func TestContext(t *testing.T) {
	assert.Equal(t, defaultLogger, FromContext(context.Background()))

	l := NewLogger(&Config{Output: &bytes.Buffer{}})
	ctx := ContextWithLogger(context.Background(), l)
	require.Equal(t, l, FromContext(ctx))
}
