package follow

// State is the engine's position in its poll/recover cycle
type State int

const (
	// StatePolling sleeps, checks the size and reads growth
	StatePolling State = iota
	// StateRecovering resets the cursor after a truncation or rotation
	StateRecovering
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateRecovering:
		return "recovering"
	default:
		return "unknown"
	}
}
