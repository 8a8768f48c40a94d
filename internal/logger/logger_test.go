package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	SetVerbose(false)
	SetFormat(FormatConsole)
	SetOutput(os.Stderr)
}

func captureJSON(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	t.Cleanup(reset)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat(FormatJSON)
	SetVerbose(verboseOn)
	return &buf
}

func lines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(l), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func TestSetVerbose(t *testing.T) {
	t.Cleanup(reset)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := captureJSON(t, true)

	Debug("test message %s", "arg")

	entries := lines(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "debug", entries[0]["level"])
	assert.Equal(t, "test message arg", entries[0]["message"])
}

func TestDebugAndInfo_WhenNotVerbose(t *testing.T) {
	buf := captureJSON(t, false)

	Debug("hidden")
	Info("hidden too")
	Section("Fetch")

	assert.Empty(t, buf.String())
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := captureJSON(t, false)

	Warn("rate limited, retrying in %ds", 2)

	entries := lines(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "rate limited, retrying in 2s", entries[0]["message"])
}

func TestError_IncludesErr(t *testing.T) {
	buf := captureJSON(t, false)

	Error(errors.New("boom"), "fetch %s", "golang")

	entries := lines(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "boom", entries[0]["error"])
}

func TestSection_WhenVerbose(t *testing.T) {
	buf := captureJSON(t, true)

	Section("Classify")

	entries := lines(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Classify", entries[0]["section"])
}

func TestGet_StructuredFields(t *testing.T) {
	buf := captureJSON(t, true)

	Get().Info().Str("run_id", "r1").Int("posts", 5).Msg("fetched")

	entries := lines(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0]["run_id"])
	assert.Equal(t, float64(5), entries[0]["posts"])
}

func TestConsoleFormat(t *testing.T) {
	t.Cleanup(reset)
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("console")
	SetVerbose(true)

	Info("hello %s", "console")

	assert.Contains(t, buf.String(), "hello console")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
