package combat

// Result is the immutable outcome of one battle.
type Result struct {
	log              []LogEntry
	state            State
	winner           string
	winnerSide       Side
	rounds           int
	captureAttempted bool
}

// Log returns a copy of the battle log in occurrence order.
func (r *Result) Log() []LogEntry {
	return append([]LogEntry(nil), r.log...)
}

// State returns the terminal state of the battle.
func (r *Result) State() State { return r.state }

// Winner returns the winning monster's name; ok is false for a draw.
func (r *Result) Winner() (name string, ok bool) {
	if r.state == StateDraw {
		return "", false
	}
	return r.winner, true
}

// WinningSide returns the side that won; ok is false for a draw.
func (r *Result) WinningSide() (side Side, ok bool) {
	if r.state == StateDraw {
		return 0, false
	}
	return r.winnerSide, true
}

// Rounds returns the number of rounds started.
func (r *Result) Rounds() int { return r.rounds }

// CaptureAttempted reports whether a capture was tried.
func (r *Result) CaptureAttempted() bool { return r.captureAttempted }

// Captured reports whether the wild monster was captured.
func (r *Result) Captured() bool { return r.state == StateCaptured }

// CaptureEntries returns the capture entries of the log.
//
// Postcondition: len(result) <= 1.
func (r *Result) CaptureEntries() []CaptureEntry {
	var out []CaptureEntry
	for _, e := range r.log {
		if c, ok := e.(CaptureEntry); ok {
			out = append(out, c)
		}
	}
	return out
}

// AttackEntries returns the attack entries of the log.
func (r *Result) AttackEntries() []AttackEntry {
	var out []AttackEntry
	for _, e := range r.log {
		if a, ok := e.(AttackEntry); ok {
			out = append(out, a)
		}
	}
	return out
}
