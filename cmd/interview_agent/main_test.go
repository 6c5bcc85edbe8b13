package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "", "text")
	require.NoError(t, err)

	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = newLogger(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestDecodeTranscript(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "array", input: `[{"role":"assistant","content":"Hi"},{"role":"user","content":"Hello"}]`, want: 2},
		{name: "wrapped", input: `{"transcript":[{"role":"user","content":"Hello"}]}`, want: 1},
		{name: "empty array", input: `[]`, want: 0},
		{name: "blank", input: "  \n", wantErr: true},
		{name: "garbage", input: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turns, err := decodeTranscript([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, turns, tt.want)
		})
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	data, err := readInput(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = readInput(strings.NewReader(`{"transcript":[]}`), "-")
	require.NoError(t, err)
	assert.Equal(t, `{"transcript":[]}`, string(data))

	_, err = readInput(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]bool{"success": true}))
	assert.Equal(t, "{\n  \"success\": true\n}\n", buf.String())
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "feedback", "generate", "token"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
