package workflow

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleListener projects workflow feedback onto a terminal for the
// station operator. Safe for calls from the engine goroutine.
type ConsoleListener struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleListener(out io.Writer) *ConsoleListener {
	return &ConsoleListener{out: out}
}

func (c *ConsoleListener) StateChanged(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch s.Step {
	case StepLocation:
		fmt.Fprintln(c.out, "[step 1/3] Scan a location barcode")
	case StepItem:
		fmt.Fprintf(c.out, "[step 2/3] Location %s. Scan an item barcode\n", locationLabel(s.SelectedLocation))
		if s.SelectedLocation != nil && len(s.SelectedLocation.Contents) > 0 {
			fmt.Fprintln(c.out, "  currently at this location:")
			for _, line := range s.SelectedLocation.Contents {
				fmt.Fprintf(c.out, "    %-16s %6d %s  %s\n", line.SKU, line.Quantity, line.Unit, line.Name)
			}
		}
	case StepConfirm:
		item := s.SelectedItem
		fmt.Fprintf(c.out, "[step 3/3] %s (%s) at %s\n", item.Name, item.SKU, locationLabel(s.SelectedLocation))
		if s.SuggestedQty > 0 {
			origin := "item master"
			if s.SuggestedFromLbl {
				origin = "label"
			}
			fmt.Fprintf(c.out, "  suggested quantity %d (from %s)\n", s.SuggestedQty, origin)
		}
	}
}

func (c *ConsoleListener) Info(msg string) { c.line("info", msg) }

func (c *ConsoleListener) Warn(msg string) { c.line("warn", msg) }

func (c *ConsoleListener) Fail(msg string) { c.line("error", msg) }

func (c *ConsoleListener) Committed(entry HistoryEntry, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if message == "" {
		message = fmt.Sprintf("Received %d %s of %s at %s", entry.Quantity, entry.Unit, entry.SKU, entry.LocationCode)
	}
	fmt.Fprintf(c.out, "[ok] %s\n", message)
}

func (c *ConsoleListener) line(level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[%s] %s\n", level, msg)
}

// RenderHistory prints the recent session ledger, most recent first.
func RenderHistory(out io.Writer, entries []HistoryEntry, total int) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No receipts this session")
		return
	}
	fmt.Fprintf(out, "Session receipts (%d total):\n", total)
	for _, e := range entries {
		fmt.Fprintf(out, "  %s  %-16s %6d %s  -> %s\n",
			e.At.Format("15:04:05"), e.SKU, e.Quantity, e.Unit, e.LocationCode)
	}
	if total > len(entries) {
		fmt.Fprintf(out, "  ... and %d earlier\n", total-len(entries))
	}
}

func locationLabel(loc *Location) string {
	if loc == nil {
		return "(none)"
	}
	if loc.Name != "" && loc.Name != loc.Code {
		return loc.Code + " " + loc.Name
	}
	return loc.Code
}
