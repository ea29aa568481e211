package workflow

import "time"

// HistoryDisplayLimit bounds what the operator sees; the underlying
// sequence is unbounded for the session's lifetime.
const HistoryDisplayLimit = 10

// HistoryEntry is one committed receipt, recorded verbatim.
type HistoryEntry struct {
	SKU          string
	Name         string
	Quantity     int64
	Unit         string
	LocationCode string
	At           time.Time
}

// Ledger is the append-only session history. Reset on session close.
type Ledger struct {
	entries []HistoryEntry
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(e HistoryEntry) {
	l.entries = append(l.entries, e)
}

// Recent returns up to HistoryDisplayLimit entries, most recent first.
func (l *Ledger) Recent() []HistoryEntry {
	n := len(l.entries)
	limit := n
	if limit > HistoryDisplayLimit {
		limit = HistoryDisplayLimit
	}
	out := make([]HistoryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) Reset() {
	l.entries = nil
}
