package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quickstock/station/scanner"
)

// Step is the position in the three-step receive sequence.
type Step int

const (
	StepLocation Step = 1
	StepItem     Step = 2
	StepConfirm  Step = 3
)

// ContentLine is one non-empty stock level at a location, display only.
type ContentLine struct {
	ItemID   int64
	SKU      string
	Name     string
	Quantity int64
	Unit     string
}

// Location is a resolved storage location.
type Location struct {
	ID       int64
	Code     string
	Name     string
	Contents []ContentLine
}

// Item is a resolved stock item. SuggestedQty is a hint; FromLabel marks
// it as decoded from the printed label payload rather than the item
// master.
type Item struct {
	ID           int64
	SKU          string
	Name         string
	Unit         string
	SuggestedQty int64
	FromLabel    bool
}

// Resolution is the outcome of one lookup. Both nil means not found.
type Resolution struct {
	Location *Location
	Item     *Item
}

func (r Resolution) NotFound() bool {
	return r.Location == nil && r.Item == nil
}

// CommitResult is the backend's answer to a quick-receive mutation.
type CommitResult struct {
	Success     bool
	Message     string
	NewQuantity int64
	Err         string
}

// LocationSummary is one row of the manual location picker.
type LocationSummary struct {
	ID   int64
	Code string
	Name string
}

// Resolver performs one external lookup per code. No caching, no state
// mutation.
type Resolver interface {
	Resolve(ctx context.Context, code string) (Resolution, error)
}

// Committer issues the stock-receipt mutation.
type Committer interface {
	Commit(ctx context.Context, itemID, locationID, quantity int64) (CommitResult, error)
}

// Searcher backs the manual location picker.
type Searcher interface {
	SearchLocations(ctx context.Context, query string) ([]LocationSummary, error)
	LocationContents(ctx context.Context, id int64) (Location, error)
}

// Listener receives state and feedback for rendering. Implementations
// must not call back into the Controller.
type Listener interface {
	StateChanged(s State)
	Info(msg string)
	Warn(msg string)
	Fail(msg string)
	Committed(entry HistoryEntry, message string)
}

// State is the workflow value owned by the Controller. Step 3 is
// reachable only with both selections set.
type State struct {
	Step             Step
	SelectedLocation *Location
	SelectedItem     *Item
	SuggestedQty     int64
	SuggestedFromLbl bool
}

// Config wires a Controller. Engine may be nil for manual-entry-only
// stations.
type Config struct {
	Resolver       Resolver
	Committer      Committer
	Searcher       Searcher
	Engine         scanner.Engine
	Listener       Listener
	DebounceWindow time.Duration
	Now            func() time.Time
}

// Controller is the three-step state machine. One instance per modal
// session surface; all entity ownership lives here.
type Controller struct {
	mu sync.Mutex

	resolver  Resolver
	committer Committer
	searcher  Searcher
	engine    scanner.Engine
	listener  Listener
	now       func() time.Time

	deb    *Debouncer
	ledger *Ledger
	state  State

	open bool
	// gen invalidates callbacks that complete after a session reset.
	gen uint64

	picker       []LocationSummary
	pickerLoaded bool
}

func New(cfg Config) *Controller {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		resolver:  cfg.Resolver,
		committer: cfg.Committer,
		searcher:  cfg.Searcher,
		engine:    cfg.Engine,
		listener:  cfg.Listener,
		now:       now,
		deb:       NewDebouncer(cfg.DebounceWindow),
		ledger:    NewLedger(),
		state:     State{Step: StepLocation},
	}
}

// Open starts a session: full reset, step 1, engine running.
func (c *Controller) Open(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.open = true
	c.resetLocked()
	c.startEngineLocked(ctx)
	c.notifyStateLocked()
}

// Close stops the engine and discards all session state. Idempotent;
// resolution or commit callbacks landing after Close are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return
	}
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	c.gen++
	c.open = false
	c.stopEngineLocked()
	c.resetLocked()
	c.ledger.Reset()
	c.picker = nil
	c.pickerLoaded = false
}

func (c *Controller) resetLocked() {
	c.state = State{Step: StepLocation}
	c.deb.Reset()
}

// State returns a copy of the current workflow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns the display slice of the session ledger.
func (c *Controller) History() []HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Recent()
}

// HistoryLen is the full ledger length, beyond the display bound.
func (c *Controller) HistoryLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Len()
}

// HandleDetection is the engine event path: debounced, then resolved
// exactly like manual entry.
func (c *Controller) HandleDetection(ctx context.Context, code string) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	if !c.deb.Accept(code, c.now()) {
		c.mu.Unlock()
		return
	}
	gen := c.gen
	c.mu.Unlock()

	c.resolveAndApply(ctx, code, gen)
}

// SubmitCode is the manual-entry path: typed input is single-shot, so it
// skips the debounce filter but follows the identical resolver path.
func (c *Controller) SubmitCode(ctx context.Context, code string) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	gen := c.gen
	c.mu.Unlock()

	c.resolveAndApply(ctx, code, gen)
}

func (c *Controller) resolveAndApply(ctx context.Context, code string, gen uint64) {
	res, err := c.resolver.Resolve(ctx, code)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.gen != gen {
		return
	}

	if err != nil {
		c.listener.Fail("Lookup failed: " + err.Error())
		return
	}
	if res.NotFound() {
		c.listener.Warn("Barcode not found: " + code)
		return
	}
	if res.Location != nil {
		c.applyLocationLocked(ctx, res.Location)
		return
	}
	c.applyItemLocked(res.Item)
}

func (c *Controller) applyLocationLocked(ctx context.Context, loc *Location) {
	switch c.state.Step {
	case StepLocation:
		c.state.SelectedLocation = loc
		c.state.Step = StepItem
		c.stopEngineLocked()
		c.startEngineLocked(ctx)
		c.notifyStateLocked()
	case StepItem:
		// Wholesale replacement; the engine keeps running.
		c.state.SelectedLocation = loc
		c.listener.Info("Location changed to " + loc.Code)
		c.notifyStateLocked()
	case StepConfirm:
		c.listener.Warn("Confirm or cancel the current item before changing location")
	}
}

func (c *Controller) applyItemLocked(item *Item) {
	switch c.state.Step {
	case StepLocation:
		c.listener.Warn("Scan a location first")
	case StepItem:
		c.state.SelectedItem = item
		c.state.SuggestedQty = item.SuggestedQty
		c.state.SuggestedFromLbl = item.FromLabel
		c.state.Step = StepConfirm
		c.stopEngineLocked()
		c.notifyStateLocked()
	case StepConfirm:
		c.listener.Warn("Confirm or cancel the current item first")
	}
}

// ChangeLocation abandons the current location: full reset back to step 1.
func (c *Controller) ChangeLocation(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return
	}
	c.resetLocked()
	c.stopEngineLocked()
	c.startEngineLocked(ctx)
	c.notifyStateLocked()
}

// Commit validates and issues the receipt mutation. continueScanning
// keeps the session open on the retained location.
func (c *Controller) Commit(ctx context.Context, qtyField, multiplierField string, continueScanning bool) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}

	total := ParseQuantity(qtyField) * ParseMultiplier(multiplierField)
	loc := c.state.SelectedLocation
	item := c.state.SelectedItem
	if !CommitEnabled(total, loc != nil, item != nil) {
		// Blocked before any network call.
		c.listener.Fail("Enter a quantity greater than zero")
		c.mu.Unlock()
		return
	}
	gen := c.gen
	c.mu.Unlock()

	result, err := c.committer.Commit(ctx, item.ID, loc.ID, total)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.gen != gen {
		return
	}

	if err != nil {
		c.listener.Fail("Receive failed: " + err.Error())
		return
	}
	if !result.Success {
		c.listener.Fail(result.Err)
		return
	}

	entry := HistoryEntry{
		SKU:          item.SKU,
		Name:         item.Name,
		Quantity:     total,
		Unit:         item.Unit,
		LocationCode: loc.Code,
		At:           c.now(),
	}
	c.ledger.Append(entry)
	c.listener.Committed(entry, result.Message)

	if continueScanning {
		c.state.SelectedItem = nil
		c.state.SuggestedQty = 0
		c.state.SuggestedFromLbl = false
		c.state.Step = StepItem
		c.stopEngineLocked()
		c.startEngineLocked(ctx)
		c.notifyStateLocked()
		return
	}
	c.closeLocked()
}

// LocationPicker returns the manual picker list, fetched lazily once per
// session lifetime.
func (c *Controller) LocationPicker(ctx context.Context) ([]LocationSummary, error) {
	c.mu.Lock()
	if c.pickerLoaded {
		picker := c.picker
		c.mu.Unlock()
		return picker, nil
	}
	gen := c.gen
	c.mu.Unlock()

	list, err := c.searcher.SearchLocations(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load location picker: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil, nil
	}
	c.picker = list
	c.pickerLoaded = true
	return list, nil
}

// SelectLocation picks a location from the manual picker; it transitions
// exactly like a scanned location resolution.
func (c *Controller) SelectLocation(ctx context.Context, id int64) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	gen := c.gen
	c.mu.Unlock()

	loc, err := c.searcher.LocationContents(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.gen != gen {
		return
	}
	if err != nil {
		c.listener.Fail("Lookup failed: " + err.Error())
		return
	}
	c.applyLocationLocked(ctx, &loc)
}

func (c *Controller) startEngineLocked(ctx context.Context) {
	if c.engine == nil {
		return
	}
	events := scanner.Events{
		CodeDetected: func(text string) {
			c.HandleDetection(ctx, text)
		},
		EngineFailed: func(err error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			if !c.open {
				return
			}
			if ce, ok := scanner.AsCameraError(err); ok {
				c.listener.Warn(ce.FallbackMessage())
				return
			}
			c.listener.Warn("Scanner stopped. Type the code instead.")
		},
	}
	if err := c.engine.Begin(ctx, events); err != nil {
		if ce, ok := scanner.AsCameraError(err); ok {
			c.listener.Warn(ce.FallbackMessage())
			return
		}
		c.listener.Warn("Scanner unavailable. Type the code instead.")
	}
}

func (c *Controller) stopEngineLocked() {
	if c.engine == nil {
		return
	}
	c.engine.End()
}

func (c *Controller) notifyStateLocked() {
	c.listener.StateChanged(c.state)
}
