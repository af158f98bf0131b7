package progress

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/jagarana/internal/model"
)

var fixedNow = time.Date(2026, 2, 15, 22, 30, 0, 0, time.UTC)

func decodeDoc(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func validDoc() map[string]any {
	beads := make([]any, model.TotalBeads)
	for i := range beads {
		beads[i] = i < 10
	}
	return map[string]any{
		"schema_version":     float64(model.SchemaVersion),
		"beads":              beads,
		"round_count":        float64(2),
		"total_taps":         float64(226),
		"reflections_seen":   []any{"r01", "r07"},
		"quiz_attempted":     true,
		"quiz_answered":      []any{"q03"},
		"meditation_done":    false,
		"meditation_elapsed": float64(120),
		"midnight_done":      false,
		"midnight_triggered": true,
		"last_saved_at":      "2026-02-15T21:00:00Z",
		"sound_enabled":      true,
	}
}

func allTapped() []any {
	beads := make([]any, model.TotalBeads)
	for i := range beads {
		beads[i] = true
	}
	return beads
}

func TestSanitizeValidDocument(t *testing.T) {
	p := Sanitize(validDoc(), fixedNow)

	assert.Equal(t, model.SchemaVersion, p.SchemaVersion)
	assert.Equal(t, 10, p.Tapped())
	assert.Equal(t, 2, p.RoundCount)
	assert.Equal(t, 226, p.TotalTaps)
	assert.Equal(t, []string{"r01", "r07"}, p.ReflectionsSeen)
	assert.True(t, p.QuizAttempted)
	assert.Equal(t, []string{"q03"}, p.QuizAnswered)
	assert.Equal(t, 120, p.MeditationElapsed)
	assert.True(t, p.MidnightTriggered)
	assert.Equal(t, "2026-02-15T21:00:00Z", p.LastSavedAt)
	assert.True(t, p.SoundEnabled)
}

func TestSanitizeSingleCorruptFieldKeepsTheRest(t *testing.T) {
	want := Sanitize(validDoc(), fixedNow)

	tests := []struct {
		name  string
		key   string
		value any
		check func(t *testing.T, p model.Progress)
	}{
		{"negative round count", "round_count", float64(-5), func(t *testing.T, p model.Progress) { assert.Equal(t, 0, p.RoundCount) }},
		{"round count above target", "round_count", float64(9), func(t *testing.T, p model.Progress) { assert.Equal(t, 0, p.RoundCount) }},
		{"round count as string", "round_count", "3", func(t *testing.T, p model.Progress) { assert.Equal(t, 0, p.RoundCount) }},
		{"short beads", "beads", []any{true, false}, func(t *testing.T, p model.Progress) { assert.Equal(t, make([]bool, model.TotalBeads), p.Beads) }},
		{"beads with a string", "beads", append(make([]any, model.TotalBeads-1), "x"), func(t *testing.T, p model.Progress) {
			assert.Equal(t, make([]bool, model.TotalBeads), p.Beads)
		}},
		{"every bead tapped", "beads", allTapped(), func(t *testing.T, p model.Progress) {
			assert.Equal(t, make([]bool, model.TotalBeads), p.Beads)
		}},
		{"taps above bound", "total_taps", float64(model.MaxTotalTaps + 1), func(t *testing.T, p model.Progress) { assert.Equal(t, 0, p.TotalTaps) }},
		{"elapsed above a day", "meditation_elapsed", float64(model.MaxElapsedSeconds + 1), func(t *testing.T, p model.Progress) {
			assert.Equal(t, 0, p.MeditationElapsed)
		}},
		{"truthy number for bool", "quiz_attempted", float64(1), func(t *testing.T, p model.Progress) { assert.False(t, p.QuizAttempted) }},
		{"reflections as object", "reflections_seen", map[string]any{"r01": true}, func(t *testing.T, p model.Progress) {
			assert.Equal(t, []string{}, p.ReflectionsSeen)
		}},
		{"timestamp as number", "last_saved_at", float64(12), func(t *testing.T, p model.Progress) {
			assert.Equal(t, model.FormatTime(fixedNow), p.LastSavedAt)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			doc[tt.key] = tt.value
			got := Sanitize(doc, fixedNow)
			tt.check(t, got)

			// Every other field is untouched.
			got2 := got.Clone()
			switch tt.key {
			case "round_count":
				got2.RoundCount = want.RoundCount
			case "beads":
				got2.Beads = want.Beads
			case "total_taps":
				got2.TotalTaps = want.TotalTaps
			case "meditation_elapsed":
				got2.MeditationElapsed = want.MeditationElapsed
			case "quiz_attempted":
				got2.QuizAttempted = want.QuizAttempted
			case "reflections_seen":
				got2.ReflectionsSeen = want.ReflectionsSeen
			case "last_saved_at":
				got2.LastSavedAt = want.LastSavedAt
			}
			if diff := cmp.Diff(want, got2); diff != "" {
				t.Errorf("unrelated fields changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSanitizeFloorsFractionalNumbers(t *testing.T) {
	doc := validDoc()
	doc["round_count"] = 3.9
	doc["meditation_elapsed"] = 59.99

	p := Sanitize(doc, fixedNow)
	assert.Equal(t, 3, p.RoundCount)
	assert.Equal(t, 59, p.MeditationElapsed)
}

func TestSanitizeIDLists(t *testing.T) {
	doc := validDoc()
	doc["reflections_seen"] = []any{"r01", "", 7, "r02", "r01", nil, "r03"}

	p := Sanitize(doc, fixedNow)
	assert.Equal(t, []string{"r01", "r02", "r03"}, p.ReflectionsSeen)

	many := make([]any, model.MaxSeenIDs+50)
	for i := range many {
		many[i] = "id" + strings.Repeat("x", i+1)
	}
	doc["quiz_answered"] = many
	p = Sanitize(doc, fixedNow)
	assert.Len(t, p.QuizAnswered, model.MaxSeenIDs)
}

func TestSanitizeNonObject(t *testing.T) {
	for _, raw := range []string{`null`, `[]`, `"text"`, `42`, `true`} {
		got := Sanitize(decodeDoc(t, raw), fixedNow)
		if diff := cmp.Diff(model.Defaults(fixedNow), got); diff != "" {
			t.Errorf("%s: expected defaults (-want +got):\n%s", raw, diff)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"round_count": -5, "beads": [true], "total_taps": "many"}`,
		`{"reflections_seen": ["a","a","",3,"b"], "quiz_attempted": "yes", "last_saved_at": 5}`,
		`{"meditation_elapsed": 10.7, "midnight_done": true, "sound_enabled": null}`,
		`[1,2,3]`,
	}

	for _, in := range inputs {
		once := Sanitize(decodeDoc(t, in), fixedNow)

		b, err := json.Marshal(once)
		require.NoError(t, err)
		twice := Sanitize(decodeDoc(t, string(b)), fixedNow.Add(time.Hour))

		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("sanitize not idempotent for %s (-once +twice):\n%s", in, diff)
		}
	}
}

func TestDecodeVersionGate(t *testing.T) {
	_, err := Decode([]byte(`{"round_count": 2}`), fixedNow)
	assert.ErrorIs(t, err, ErrIncompatibleVersion)

	_, err = Decode([]byte(`{"schema_version": 1, "round_count": 2}`), fixedNow)
	assert.ErrorIs(t, err, ErrIncompatibleVersion)

	_, err = Decode([]byte(`{"schema_version": "2"}`), fixedNow)
	assert.ErrorIs(t, err, ErrIncompatibleVersion)

	p, err := Decode([]byte(`{"schema_version": 2, "round_count": 2}`), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, p.RoundCount)
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{`{not json`, `[]`, `"x"`, ``} {
		_, err := Decode([]byte(raw), fixedNow)
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}
