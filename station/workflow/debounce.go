package workflow

import "time"

// DebounceWindow is the cooldown during which a repeated identical code
// is ignored.
const DebounceWindow = 3000 * time.Millisecond

// Debouncer suppresses duplicate detections of the same code within the
// cooldown window. Distinct codes are never debounced against each
// other. State is shared across the whole session and reset only on
// session reset, never on step transitions.
type Debouncer struct {
	window   time.Duration
	lastCode string
	lastAt   time.Time
}

func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DebounceWindow
	}
	return &Debouncer{window: window}
}

// Accept reports whether the detection should be forwarded, updating the
// record only when it is.
func (d *Debouncer) Accept(code string, now time.Time) bool {
	if code == d.lastCode && now.Sub(d.lastAt) < d.window {
		return false
	}
	d.lastCode = code
	d.lastAt = now
	return true
}

func (d *Debouncer) Reset() {
	d.lastCode = ""
	d.lastAt = time.Time{}
}
