package tracker

// Listener is told about events worth surfacing to the participant. Calls
// happen synchronously on the tracker's goroutine.
type Listener interface {
	Milestone(tapped int, message string)
	RoundComplete(round int)
	GateChanged(unlocked bool)
	StorageUnavailable()
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) Milestone(int, string) {}
func (NopListener) RoundComplete(int)     {}
func (NopListener) GateChanged(bool)      {}
func (NopListener) StorageUnavailable()   {}
