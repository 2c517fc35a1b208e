package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"dEbUg":   LevelDebug,
		" info ":  LevelInfo,
		"Warn":    LevelWarn,
		"warning": LevelWarn,
		"ERROR":   LevelError,
		"":        LevelInfo,
		"trace":   LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"json":   FormatJSON,
		"JSON":   FormatJSON,
		" Json ": FormatJSON,
		"text":   FormatText,
		"":       FormatText,
		"yaml":   FormatText,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseFormat(in), "ParseFormat(%q)", in)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	log.Debug("mocked", "status", 201)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "mocked", rec["msg"])
	assert.EqualValues(t, 201, rec["status"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelWarn, Output: &buf})
	log.Info("hidden")
	assert.Empty(t, buf.String())
	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestOpen_TeesToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "oasmock.log")

	log, closer, err := Open(Config{Level: LevelInfo, Output: &buf, File: path})
	require.NoError(t, err)
	log.Info("request", "path", "/pets")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "path=/pets")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path":"/pets"`)
}

func TestOpen_BadFile(t *testing.T) {
	_, _, err := Open(Config{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestMultiHandler_Enabled(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	log := slog.New(h).With("component", "server")
	log.Debug("debug only")
	assert.Empty(t, a.String())
	assert.Contains(t, b.String(), "component=server")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(Config{Output: &buf}), "mocker")
	log.Info("x")
	assert.Contains(t, buf.String(), "component=mocker")

	assert.NotNil(t, Component(nil, "mocker"))
}
