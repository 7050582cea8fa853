package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("debug", "json")
	l.SetOutput(&buf)

	l.LogCacheSet("example.com", "1.2.3.4", 60)
	l.LogCacheEvict("example.com", "capacity")
	l.LogError("fetch", "example.com", errors.New("boom"), map[string]interface{}{"attempt": 2})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "example.com", lines[0]["domain"])
	assert.Equal(t, float64(60), lines[0]["ttl_sec"])
	assert.Equal(t, "debug", lines[0]["level"])

	assert.Equal(t, "capacity", lines[1]["reason"])

	assert.Equal(t, "boom", lines[2]["error"])
	assert.Equal(t, float64(2), lines[2]["attempt"])
	assert.Equal(t, "error", lines[2]["level"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("info", "json")
	l.SetOutput(&buf)

	l.LogCacheMiss("example.com")
	l.LogSweep(0, 3)
	assert.Empty(t, buf.String())

	l.LogSweep(2, 1)
	l.LogHostsLoad("hosts", 5, 1)
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, float64(2), lines[0]["removed"])
	assert.Equal(t, float64(5), lines[1]["loaded"])
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("verbose", "text")
	l.SetOutput(&buf)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")
}
