// Package mala enforces the bead-tap progression over a 108-bead round.
package mala

import (
	"context"
	"fmt"
	"slices"

	"github.com/rcliao/jagarana/internal/model"
)

// Saver persists the record after a mutation.
type Saver interface {
	Save(ctx context.Context)
}

// Reason explains why a tap was rejected.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonOutOfRange     Reason = "out_of_range"
	ReasonAlreadyTapped  Reason = "already_tapped"
	ReasonRoundsComplete Reason = "rounds_complete"
	ReasonOutOfOrder     Reason = "out_of_order"
)

var milestones = map[int]string{
	27:               "Quarter done, breathe.",
	54:               "Halfway, stay present.",
	81:               "Three quarters, almost there.",
	model.TotalBeads: "108, mala complete.",
}

// TapResult reports the outcome of a tap. Milestone and RoundComplete are
// observational; they never feed back into state.
type TapResult struct {
	Accepted      bool   `json:"accepted"`
	Index         int    `json:"index"`
	Reason        Reason `json:"reason,omitempty"`
	Hint          string `json:"hint,omitempty"`
	Tapped        int    `json:"tapped"`
	Milestone     int    `json:"milestone,omitempty"`
	Message       string `json:"message,omitempty"`
	RoundComplete bool   `json:"round_complete,omitempty"`
	Round         int    `json:"round"`
}

// Mala is the bead progression state machine over the record's beads and
// round counter.
type Mala struct {
	rec    *model.Progress
	saver  Saver
	strict bool
}

// New returns a Mala in strict-order mode.
func New(rec *model.Progress, saver Saver) *Mala {
	return &Mala{rec: rec, saver: saver, strict: true}
}

// SetStrict toggles strict-order mode. Existing taps are unaffected.
func (m *Mala) SetStrict(strict bool) { m.strict = strict }

// Strict reports whether taps must follow bead order.
func (m *Mala) Strict() bool { return m.strict }

// Complete reports whether every round has been finished.
func (m *Mala) Complete() bool { return m.rec.RoundsComplete() }

// NextExpected returns the bead strict mode expects next, or -1 when order
// is not enforced or no more taps are accepted.
func (m *Mala) NextExpected() int {
	if !m.strict || m.Complete() {
		return -1
	}
	return m.expected()
}

// expected is the bead at the tapped count, or the lowest untapped bead when
// free-order taps already filled that position.
func (m *Mala) expected() int {
	tapped := m.rec.Tapped()
	if tapped < len(m.rec.Beads) && !m.rec.Beads[tapped] {
		return tapped
	}
	return slices.Index(m.rec.Beads, false)
}

// Tap applies one bead tap. Rejected taps leave the record untouched.
func (m *Mala) Tap(ctx context.Context, index int) TapResult {
	res := TapResult{Index: index, Round: m.rec.RoundCount}
	tapped := m.rec.Tapped()
	res.Tapped = tapped

	switch {
	case index < 0 || index >= model.TotalBeads:
		res.Reason = ReasonOutOfRange
		return res
	case m.Complete():
		res.Reason = ReasonRoundsComplete
		return res
	case m.rec.Beads[index]:
		res.Reason = ReasonAlreadyTapped
		return res
	case m.strict && index != m.expected():
		res.Reason = ReasonOutOfOrder
		res.Hint = fmt.Sprintf("Tap bead #%d next", m.expected()+1)
		return res
	}

	m.rec.Beads[index] = true
	if m.rec.TotalTaps < model.MaxTotalTaps {
		m.rec.TotalTaps++
	}
	tapped++

	res.Accepted = true
	res.Tapped = tapped
	if msg, ok := milestones[tapped]; ok {
		res.Milestone = tapped
		res.Message = msg
	}
	if tapped == model.TotalBeads {
		m.rec.RoundCount++
		m.rec.ClearBeads()
		res.RoundComplete = true
	}
	res.Round = m.rec.RoundCount

	m.saver.Save(ctx)
	return res
}

// ResetRound clears the beads of the current round. Completed rounds are kept.
func (m *Mala) ResetRound(ctx context.Context) {
	m.rec.ClearBeads()
	m.saver.Save(ctx)
}
