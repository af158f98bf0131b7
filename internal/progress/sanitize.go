package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rcliao/jagarana/internal/model"
)

var (
	// ErrMalformed means the stored document is not a JSON object.
	ErrMalformed = errors.New("malformed progress document")
	// ErrIncompatibleVersion means the document's schema_version is missing or not current.
	ErrIncompatibleVersion = errors.New("incompatible progress schema version")
)

// fieldRule validates one stored field. A field that is absent or fails valid
// keeps the value from model.Defaults; other fields are unaffected.
type fieldRule struct {
	key   string
	valid func(v any) bool
	apply func(p *model.Progress, v any)
}

var fieldRules = []fieldRule{
	{"beads", activeRound, func(p *model.Progress, v any) { p.Beads = toBools(v) }},
	{"round_count", intInRange(0, model.RoundTarget), func(p *model.Progress, v any) { p.RoundCount = toInt(v) }},
	{"total_taps", intInRange(0, model.MaxTotalTaps), func(p *model.Progress, v any) { p.TotalTaps = toInt(v) }},
	{"reflections_seen", isArray, func(p *model.Progress, v any) { p.ReflectionsSeen = idList(v) }},
	{"quiz_attempted", isBool, func(p *model.Progress, v any) { p.QuizAttempted = v.(bool) }},
	{"quiz_answered", isArray, func(p *model.Progress, v any) { p.QuizAnswered = idList(v) }},
	{"meditation_done", isBool, func(p *model.Progress, v any) { p.MeditationDone = v.(bool) }},
	{"meditation_elapsed", intInRange(0, model.MaxElapsedSeconds), func(p *model.Progress, v any) { p.MeditationElapsed = toInt(v) }},
	{"midnight_done", isBool, func(p *model.Progress, v any) { p.MidnightDone = v.(bool) }},
	{"midnight_triggered", isBool, func(p *model.Progress, v any) { p.MidnightTriggered = v.(bool) }},
	{"last_saved_at", isString, func(p *model.Progress, v any) { p.LastSavedAt = v.(string) }},
	{"sound_enabled", isBool, func(p *model.Progress, v any) { p.SoundEnabled = v.(bool) }},
}

// Sanitize builds a record from an untrusted decoded document. Anything that
// is not a JSON object yields defaults.
func Sanitize(raw any, now time.Time) model.Progress {
	fresh := model.Defaults(now)
	doc, ok := raw.(map[string]any)
	if !ok {
		return fresh
	}
	for _, rule := range fieldRules {
		v, present := doc[rule.key]
		if !present || !rule.valid(v) {
			continue
		}
		rule.apply(&fresh, v)
	}
	return fresh
}

// Decode parses a stored document, enforces the schema version and sanitizes
// every field.
func Decode(data []byte, now time.Time) (model.Progress, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Progress{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return model.Progress{}, fmt.Errorf("%w: top level is %T", ErrMalformed, raw)
	}
	v, ok := doc["schema_version"].(float64)
	if !ok || v != model.SchemaVersion {
		return model.Progress{}, fmt.Errorf("%w: got %v, want %d", ErrIncompatibleVersion, doc["schema_version"], model.SchemaVersion)
	}
	return Sanitize(doc, now), nil
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

func intInRange(lo, hi int) func(any) bool {
	return func(v any) bool {
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		n := math.Floor(f)
		return n >= float64(lo) && n <= float64(hi)
	}
}

func toInt(v any) int {
	return int(math.Floor(v.(float64)))
}

func boolArrayOfLength(length int) func(any) bool {
	return func(v any) bool {
		arr, ok := v.([]any)
		if !ok || len(arr) != length {
			return false
		}
		for _, item := range arr {
			if _, ok := item.(bool); !ok {
				return false
			}
		}
		return true
	}
}

// activeRound accepts a full-length bead array with at least one bead left,
// since the last tap of a round always rolls over.
func activeRound(v any) bool {
	if !boolArrayOfLength(model.TotalBeads)(v) {
		return false
	}
	for _, item := range v.([]any) {
		if !item.(bool) {
			return true
		}
	}
	return false
}

func toBools(v any) []bool {
	arr := v.([]any)
	out := make([]bool, len(arr))
	for i, item := range arr {
		out[i] = item.(bool)
	}
	return out
}

// idList keeps non-empty strings in order, drops duplicates and caps the length.
func idList(v any) []string {
	arr := v.([]any)
	out := make([]string, 0, min(len(arr), model.MaxSeenIDs))
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == model.MaxSeenIDs {
			break
		}
	}
	return out
}
