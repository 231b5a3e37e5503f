package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConsoleTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Console: &buf})
	t.Cleanup(func() { Init(Options{Console: os.Stderr}) })

	l := WithComponent("render")
	l.Info("hidden")
	l.Warn("shown", slog.Int("n", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "component=render")
	assert.Contains(t, out, "n=3")
}

func TestFileHandlerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geoshape.log")
	Init(Options{Level: "debug", Console: os.Stderr, File: path})
	t.Cleanup(func() { Init(Options{Console: os.Stderr}) })

	WithComponent("geometry").Debug("shell recomputed", slog.String("id", "ell_x"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	sc := bufio.NewScanner(strings.NewReader(string(b)))
	var last string
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	require.NotEmpty(t, last)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(last), &rec))
	assert.Equal(t, "shell recomputed", rec["msg"])
	assert.Equal(t, "geometry", rec["component"])
	assert.Equal(t, "geoshape", rec["app"])
	assert.Equal(t, "ell_x", rec["id"])
}

func TestDiscardConsole(t *testing.T) {
	Init(Options{Console: io.Discard})
	t.Cleanup(func() { Init(Options{Console: os.Stderr}) })
	assert.NotPanics(t, func() { L().Info("nowhere") })
}
