// Package model defines the progress record and the ritual constants.
package model

import (
	"slices"
	"time"
)

const (
	// SchemaVersion gates stored records; anything else is discarded on load.
	SchemaVersion = 2

	TotalBeads        = 108
	RoundTarget       = 4
	MaxTotalTaps      = 1_000_000
	MaxSeenIDs        = 200
	MaxElapsedSeconds = 24 * 60 * 60
)

// Progress is the single canonical progress record.
type Progress struct {
	SchemaVersion     int      `json:"schema_version"`
	Beads             []bool   `json:"beads"`
	RoundCount        int      `json:"round_count"`
	TotalTaps         int      `json:"total_taps"`
	ReflectionsSeen   []string `json:"reflections_seen"`
	QuizAttempted     bool     `json:"quiz_attempted"`
	QuizAnswered      []string `json:"quiz_answered"`
	MeditationDone    bool     `json:"meditation_done"`
	MeditationElapsed int      `json:"meditation_elapsed"`
	MidnightDone      bool     `json:"midnight_done"`
	MidnightTriggered bool     `json:"midnight_triggered"`
	LastSavedAt       string   `json:"last_saved_at"`
	SoundEnabled      bool     `json:"sound_enabled"`
}

// Defaults returns a fresh record stamped with now.
func Defaults(now time.Time) Progress {
	return Progress{
		SchemaVersion:   SchemaVersion,
		Beads:           make([]bool, TotalBeads),
		ReflectionsSeen: []string{},
		QuizAnswered:    []string{},
		LastSavedAt:     FormatTime(now),
	}
}

// FormatTime renders a save timestamp.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Clone returns a deep copy, safe to hand out as a read-only view.
func (p Progress) Clone() Progress {
	c := p
	c.Beads = slices.Clone(p.Beads)
	c.ReflectionsSeen = slices.Clone(p.ReflectionsSeen)
	c.QuizAnswered = slices.Clone(p.QuizAnswered)
	return c
}

// Tapped counts tapped beads in the current round.
func (p Progress) Tapped() int {
	n := 0
	for _, b := range p.Beads {
		if b {
			n++
		}
	}
	return n
}

// RoundsComplete reports whether the round target has been reached.
func (p Progress) RoundsComplete() bool {
	return p.RoundCount >= RoundTarget
}

// HasProgress reports whether there is anything worth continuing from.
func (p Progress) HasProgress() bool {
	return p.RoundCount > 0 || p.TotalTaps > 0
}

// ClearBeads resets the current round's beads.
func (p *Progress) ClearBeads() {
	p.Beads = make([]bool, TotalBeads)
}
