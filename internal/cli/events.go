package cli

import (
	"fmt"

	"github.com/rcliao/jagarana/internal/model"
)

// eventLog collects tracker events so commands can report them alongside
// their result.
type eventLog struct {
	lines []string
}

func (e *eventLog) Milestone(tapped int, message string) {
	e.add(fmt.Sprintf("bead %d: %s", tapped, message))
}

func (e *eventLog) RoundComplete(round int) {
	e.add(fmt.Sprintf("round %d of %d complete", round, model.RoundTarget))
}

func (e *eventLog) GateChanged(unlocked bool) {
	if unlocked {
		e.add("certificate unlocked")
		return
	}
	e.add("certificate locked again")
}

func (e *eventLog) StorageUnavailable() {
	e.add("storage unavailable: progress will not be saved this session")
}

func (e *eventLog) add(line string) { e.lines = append(e.lines, line) }

// Lines returns the collected events, never nil.
func (e *eventLog) Lines() []string {
	if e.lines == nil {
		return []string{}
	}
	return e.lines
}
