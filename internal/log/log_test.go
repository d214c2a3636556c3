package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Configure(Config{Level: level, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		out = append(out, m)
	}
	return out
}

func TestInfo_WritesKeyValues(t *testing.T) {
	buf := capture(t, "info")
	Info("favorites loaded", "count", 3, "key", "favoritedArtists", 42, "skipped", "dangling")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "favorites loaded", got[0]["message"])
	assert.Equal(t, float64(3), got[0]["count"])
	assert.Equal(t, "favoritedArtists", got[0]["key"])
	assert.Equal(t, "forestfest", got[0]["service"])
	assert.NotContains(t, got[0], "skipped")
}

func TestError_IncludesErr(t *testing.T) {
	buf := capture(t, "info")
	Error("persist failed", errors.New("disk full"), "key", "reminderTime")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "error", got[0]["level"])
	assert.Equal(t, "disk full", got[0]["error"])
}

func TestSetLevel_FiltersDebug(t *testing.T) {
	buf := capture(t, "info")
	Debug("hidden")
	assert.Empty(t, lines(t, buf))

	SetLevel(LevelDebug)
	Debug("shown", "id", "x")
	assert.Len(t, lines(t, buf), 1)

	SetLevel(LevelError)
	Info("hidden too")
	assert.Len(t, lines(t, buf), 1)
}

func TestWithComponent(t *testing.T) {
	buf := capture(t, "info")
	l := WithComponent("reminder")
	l.Info().Str("id", "artist-x").Msg("scheduled")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "reminder", got[0]["component"])
}
