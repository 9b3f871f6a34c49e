package diagsink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reportcrew/pkg/extract"
)

func TestNewWriter(t *testing.T) {
	t.Run("creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "debug", "nested")
		_, err := NewWriter(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	})

	t.Run("rejects empty directory", func(t *testing.T) {
		_, err := NewWriter("")
		require.Error(t, err)
	})
}

func TestWriteFailed(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	w.nowFn = func() time.Time { return time.Unix(1700000000, 0) }

	path, err := w.WriteFailed("holiday_plan", "Here: ```json\n{\"broken\":", `{"broken":`)
	require.NoError(t, err)
	require.Equal(t, "failed_json_holiday_plan_1700000000_1.json", filepath.Base(path))

	var payload failedPayload
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf, &payload))
	require.Equal(t, "holiday_plan", payload.Schema)
	require.Equal(t, "Here: ```json\n{\"broken\":", payload.Raw)
	require.Equal(t, `{"broken":`, payload.Sanitized)
}

func TestWriteRepair(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	w.nowFn = func() time.Time { return time.Unix(1700000000, 0) }

	attempts := []extract.RepairAttempt{
		{Rule: "quote_bare_keys", Before: "{a: 1}", After: `{"a": 1}`},
	}
	path, err := w.WriteRepair("holiday_plan", attempts)
	require.NoError(t, err)
	require.Equal(t, "repair_attempt_holiday_plan_1700000000_1.json", filepath.Base(path))

	var payload repairPayload
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf, &payload))
	require.Equal(t, attempts, payload.Attempts)
}

func TestSequenceAvoidsCollisions(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	w.nowFn = func() time.Time { return time.Unix(1700000000, 0) }

	seen := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		path, err := w.WriteFailed("s", "text", "")
		require.NoError(t, err)
		_, dup := seen[path]
		require.False(t, dup)
		seen[path] = struct{}{}
	}
}

func TestSanitizeName(t *testing.T) {
	require.Equal(t, "holiday_plan", sanitizeName("holiday_plan"))
	require.Equal(t, "week_menu-v2", sanitizeName("week menu-v2"))
	require.Equal(t, "a_b_c", sanitizeName("a/b\\c"))
	require.Equal(t, "unknown", sanitizeName(""))
	require.False(t, strings.ContainsAny(sanitizeName("../../etc"), "/\\."))
}
