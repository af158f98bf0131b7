package tracker

import (
	"github.com/rcliao/jagarana/internal/certificate"
	"github.com/rcliao/jagarana/internal/model"
	"github.com/rcliao/jagarana/internal/timer"
)

// State is a read-only view of the session.
type State struct {
	Progress         model.Progress        `json:"progress"`
	HasProgress      bool                  `json:"has_progress"`
	Tapped           int                   `json:"tapped"`
	NextBead         int                   `json:"next_bead"`
	StrictOrder      bool                  `json:"strict_order"`
	Meditation       MeditationState       `json:"meditation"`
	Checklist        certificate.Checklist `json:"checklist"`
	Unlocked         bool                  `json:"unlocked"`
	StorageAvailable bool                  `json:"storage_available"`
}

// MeditationState describes the meditation timer.
type MeditationState struct {
	State     timer.State `json:"state"`
	Minutes   int         `json:"minutes"`
	Elapsed   int         `json:"elapsed"`
	Remaining int         `json:"remaining"`
}

// State returns a snapshot of the session. NextBead is -1 when any bead may
// be tapped or no taps are accepted.
func (t *Tracker) State() State {
	rec := t.store.Snapshot()
	return State{
		Progress:    rec,
		HasProgress: rec.HasProgress(),
		Tapped:      rec.Tapped(),
		NextBead:    t.mala.NextExpected(),
		StrictOrder: t.mala.Strict(),
		Meditation: MeditationState{
			State:     t.meditation.State(),
			Minutes:   t.meditation.Minutes(),
			Elapsed:   t.meditation.Elapsed(),
			Remaining: t.meditation.Remaining(),
		},
		Checklist:        certificate.Check(rec),
		Unlocked:         certificate.Unlocked(rec),
		StorageAvailable: t.store.Available(),
	}
}
