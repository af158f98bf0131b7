package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	t.Setenv("JAGARANA_LOG_LEVEL", "error")
	return filepath.Join(t.TempDir(), "progress.db")
}

func run(t *testing.T, db string, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetIn(strings.NewReader(""))
	RootCmd.SetArgs(append([]string{"--db", db}, args...))
	require.NoError(t, RootCmd.Execute(), "jagarana %s", strings.Join(args, " "))
	return out.Bytes()
}

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m), string(b))
	return m
}

func TestStatusFreshDatabase(t *testing.T) {
	db := newTestDB(t)
	st := decode(t, run(t, db, "status"))

	assert.Equal(t, true, st["storage_available"])
	assert.Equal(t, true, st["strict_order"])
	assert.Equal(t, float64(0), st["next_bead"])
	assert.Equal(t, false, st["unlocked"])
}

func TestTapPersistsAcrossCommands(t *testing.T) {
	db := newTestDB(t)

	out := decode(t, run(t, db, "tap", "--count", "27"))
	assert.Equal(t, float64(27), out["tapped"])
	assert.Contains(t, out["events"], "bead 27: Quarter done, breathe.")

	out = decode(t, run(t, db, "tap", "40", "--count", "1"))
	results := out["results"].([]any)
	require.Len(t, results, 1)
	rejected := results[0].(map[string]any)
	assert.Equal(t, false, rejected["accepted"])
	assert.Equal(t, "Tap bead #28 next", rejected["hint"])

	st := decode(t, run(t, db, "status"))
	assert.Equal(t, float64(27), st["tapped"])
}

func TestQuizAnswer(t *testing.T) {
	db := newTestDB(t)

	q := decode(t, run(t, db, "quiz", "next"))
	id := q["id"].(string)
	require.NotEmpty(t, id)

	ans := decode(t, run(t, db, "quiz", "answer", id, "1"))
	assert.Equal(t, id, ans["id"])
	assert.NotEmpty(t, ans["insight"])

	cert := decode(t, run(t, db, "certificate"))
	checklist := cert["checklist"].(map[string]any)
	assert.Equal(t, true, checklist["quiz"])
	assert.Equal(t, false, cert["unlocked"])
}

func TestSoundAndExportImport(t *testing.T) {
	db := newTestDB(t)
	run(t, db, "sound", "on")
	run(t, db, "tap", "--count", "3")

	exported := run(t, db, "export")
	doc := decode(t, exported)
	assert.Equal(t, true, doc["sound_enabled"])
	assert.Equal(t, float64(2), doc["schema_version"])

	other := newTestDB(t)
	RootCmd.SetIn(bytes.NewReader(exported))
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"--db", other, "import"})
	require.NoError(t, RootCmd.Execute())
	assert.Equal(t, true, decode(t, out.Bytes())["ok"])

	st := decode(t, run(t, other, "status"))
	assert.Equal(t, float64(3), st["tapped"])
}

func TestResetRoundAndReset(t *testing.T) {
	db := newTestDB(t)
	run(t, db, "tap", "--count", "5")

	out := decode(t, run(t, db, "reset-round"))
	assert.Equal(t, float64(0), out["tapped"])

	run(t, db, "tap", "--count", "2")
	run(t, db, "reset", "--yes")
	st := decode(t, run(t, db, "status"))
	progress := st["progress"].(map[string]any)
	assert.Equal(t, float64(0), progress["total_taps"])
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	run(t, db, "tap", "--count", "1")

	stats := decode(t, run(t, db, "stats"))
	assert.NotZero(t, stats["keys"])
}
