package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"quickstock/station/scanner"
)

type fakeResolver struct {
	mu      sync.Mutex
	byCode  map[string]Resolution
	err     error
	gate    chan struct{}
	lookups []string
}

func (f *fakeResolver) Resolve(_ context.Context, code string) (Resolution, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, code)
	if f.err != nil {
		return Resolution{}, f.err
	}
	return f.byCode[code], nil
}

type fakeCommitter struct {
	mu     sync.Mutex
	result CommitResult
	err    error
	gate   chan struct{}
	calls  int
	lastQ  int64
}

func (f *fakeCommitter) Commit(_ context.Context, itemID, locationID, quantity int64) (CommitResult, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastQ = quantity
	return f.result, f.err
}

type fakeSearcher struct {
	list     []LocationSummary
	byID     map[int64]Location
	searches int
}

func (f *fakeSearcher) SearchLocations(_ context.Context, _ string) ([]LocationSummary, error) {
	f.searches++
	return f.list, nil
}

func (f *fakeSearcher) LocationContents(_ context.Context, id int64) (Location, error) {
	loc, ok := f.byID[id]
	if !ok {
		return Location{}, errors.New("no such location")
	}
	return loc, nil
}

type fakeEngine struct {
	mu     sync.Mutex
	begins int
	ends   int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Begin(_ context.Context, _ scanner.Events) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begins++
	return nil
}

func (f *fakeEngine) End() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ends++
}

func (f *fakeEngine) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.begins, f.ends
}

type recListener struct {
	mu      sync.Mutex
	states  []State
	infos   []string
	warns   []string
	fails   []string
	commits []HistoryEntry
}

func (r *recListener) StateChanged(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recListener) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, msg)
}

func (r *recListener) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}

func (r *recListener) Fail(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails = append(r.fails, msg)
}

func (r *recListener) Committed(entry HistoryEntry, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, entry)
}

func (r *recListener) lastWarn(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.warns) == 0 {
		t.Fatal("expected a warning, got none")
	}
	return r.warns[len(r.warns)-1]
}

type fixture struct {
	ctrl      *Controller
	resolver  *fakeResolver
	committer *fakeCommitter
	searcher  *fakeSearcher
	engine    *fakeEngine
	listener  *recListener
	clock     *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFixture() *fixture {
	goodsIn := Location{ID: 42, Code: "UP-R05-B02-S01", Name: "Rack 5"}
	item := Item{ID: 7, SKU: "PART001", Name: "Hex Bolt M8", Unit: "pcs", SuggestedQty: 500, FromLabel: true}

	resolver := &fakeResolver{byCode: map[string]Resolution{
		"LOC-UP-R05-B02-S01": {Location: &goodsIn},
		"LOC-GOODS-IN":       {Location: &Location{ID: 9, Code: "GOODS-IN"}},
		"SKU-PART001":        {Item: &item},
	}}
	committer := &fakeCommitter{result: CommitResult{Success: true, Message: "Received 2000 pcs of PART001 at UP-R05-B02-S01", NewQuantity: 2000}}
	searcher := &fakeSearcher{
		list: []LocationSummary{{ID: 42, Code: "UP-R05-B02-S01"}, {ID: 9, Code: "GOODS-IN"}},
		byID: map[int64]Location{42: goodsIn},
	}
	engine := &fakeEngine{}
	listener := &recListener{}
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}

	ctrl := New(Config{
		Resolver:  resolver,
		Committer: committer,
		Searcher:  searcher,
		Engine:    engine,
		Listener:  listener,
		Now:       clock.Now,
	})
	return &fixture{ctrl: ctrl, resolver: resolver, committer: committer, searcher: searcher, engine: engine, listener: listener, clock: clock}
}

func (f *fixture) scan(t *testing.T, code string) {
	t.Helper()
	f.ctrl.HandleDetection(context.Background(), code)
	f.clock.Advance(10 * time.Millisecond)
}

func TestLocationScanAdvancesToItemStep(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())

	f.scan(t, "LOC-UP-R05-B02-S01")

	s := f.ctrl.State()
	if s.Step != StepItem {
		t.Fatalf("step = %d, want %d", s.Step, StepItem)
	}
	if s.SelectedLocation == nil || s.SelectedLocation.ID != 42 {
		t.Fatalf("expected location 42 selected, got %+v", s.SelectedLocation)
	}
	// Step 1 engine torn down, step 2 engine started.
	begins, ends := f.engine.counts()
	if begins != 2 || ends != 1 {
		t.Fatalf("engine begins=%d ends=%d, want 2/1", begins, ends)
	}
}

func TestItemScanInLocationStepWarnsWithoutTransition(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())

	f.scan(t, "SKU-PART001")

	s := f.ctrl.State()
	if s.Step != StepLocation || s.SelectedItem != nil {
		t.Fatalf("expected no transition, got %+v", s)
	}
	if warn := f.listener.lastWarn(t); !strings.Contains(warn, "location first") {
		t.Fatalf("warn = %q, want location-first guidance", warn)
	}
}

func TestItemScanAdvancesToConfirmStep(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")

	f.scan(t, "SKU-PART001")

	s := f.ctrl.State()
	if s.Step != StepConfirm {
		t.Fatalf("step = %d, want %d", s.Step, StepConfirm)
	}
	if s.SelectedItem == nil || s.SelectedItem.ID != 7 {
		t.Fatalf("expected item 7 selected, got %+v", s.SelectedItem)
	}
	if s.SuggestedQty != 500 || !s.SuggestedFromLbl {
		t.Fatalf("expected suggested qty 500 from label, got %d/%v", s.SuggestedQty, s.SuggestedFromLbl)
	}
	// Engine stops while quantities are entered.
	begins, ends := f.engine.counts()
	if begins != 2 || ends != 2 {
		t.Fatalf("engine begins=%d ends=%d, want 2/2", begins, ends)
	}
}

func TestLocationRescanInItemStepReplacesLocation(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	beginsBefore, endsBefore := f.engine.counts()

	f.scan(t, "LOC-GOODS-IN")

	s := f.ctrl.State()
	if s.Step != StepItem {
		t.Fatalf("step = %d, want %d", s.Step, StepItem)
	}
	if s.SelectedLocation == nil || s.SelectedLocation.Code != "GOODS-IN" {
		t.Fatalf("expected location replaced, got %+v", s.SelectedLocation)
	}
	if len(f.listener.infos) == 0 || !strings.Contains(f.listener.infos[0], "GOODS-IN") {
		t.Fatalf("expected an info toast naming the new location, got %v", f.listener.infos)
	}
	begins, ends := f.engine.counts()
	if begins != beginsBefore || ends != endsBefore {
		t.Fatal("engine must keep running across a location replacement")
	}
}

func TestChangeLocationResetsToStepOne(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")

	f.ctrl.ChangeLocation(context.Background())

	s := f.ctrl.State()
	if s.Step != StepLocation || s.SelectedLocation != nil || s.SelectedItem != nil {
		t.Fatalf("expected full reset, got %+v", s)
	}
	// Reset also clears the debounce record: the same code passes at once.
	f.scan(t, "LOC-UP-R05-B02-S01")
	if got := f.ctrl.State(); got.Step != StepItem {
		t.Fatalf("rescan after reset should advance, step = %d", got.Step)
	}
}

func TestCommitAppendsLedgerAndCloses(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")

	f.ctrl.Commit(context.Background(), "500", "4", false)

	if f.committer.lastQ != 2000 {
		t.Fatalf("committed quantity = %d, want 2000", f.committer.lastQ)
	}
	if len(f.listener.commits) != 1 {
		t.Fatalf("expected one committed event, got %d", len(f.listener.commits))
	}
	got := f.listener.commits[0]
	if got.SKU != "PART001" || got.Quantity != 2000 || got.LocationCode != "UP-R05-B02-S01" {
		t.Fatalf("unexpected ledger entry %+v", got)
	}
	// continue=false closes the session and clears the ledger.
	if f.ctrl.HistoryLen() != 0 {
		t.Fatal("session close must reset the ledger")
	}
	if s := f.ctrl.State(); s.Step != StepLocation {
		t.Fatalf("expected fresh state after close, step = %d", s.Step)
	}
}

func TestCommitContinueScanningRetainsLocation(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")

	f.ctrl.Commit(context.Background(), "500", "4", true)

	s := f.ctrl.State()
	if s.Step != StepItem {
		t.Fatalf("step = %d, want %d", s.Step, StepItem)
	}
	if s.SelectedLocation == nil || s.SelectedLocation.ID != 42 {
		t.Fatal("location must be retained across continue-scanning")
	}
	if s.SelectedItem != nil || s.SuggestedQty != 0 {
		t.Fatalf("item selection must be cleared, got %+v", s)
	}
	if got := f.ctrl.HistoryLen(); got != 1 {
		t.Fatalf("ledger length = %d, want 1", got)
	}
	// Engine restarted for the next item scan.
	begins, _ := f.engine.counts()
	if begins != 3 {
		t.Fatalf("engine begins = %d, want 3", begins)
	}
}

func TestCommitFailureKeepsSelections(t *testing.T) {
	f := newFixture()
	f.committer.result = CommitResult{Success: false, Err: "Insufficient permission"}
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")

	f.ctrl.Commit(context.Background(), "500", "4", false)

	s := f.ctrl.State()
	if s.Step != StepConfirm {
		t.Fatalf("failed commit must stay on the confirm step, step = %d", s.Step)
	}
	if s.SelectedLocation == nil || s.SelectedItem == nil {
		t.Fatal("failed commit must keep both selections")
	}
	if len(f.listener.fails) == 0 || f.listener.fails[len(f.listener.fails)-1] != "Insufficient permission" {
		t.Fatalf("expected backend error surfaced, got %v", f.listener.fails)
	}
	if f.ctrl.HistoryLen() != 0 {
		t.Fatal("failed commit must not touch the ledger")
	}
	// The operator can retry immediately.
	f.committer.result = CommitResult{Success: true}
	f.ctrl.Commit(context.Background(), "500", "4", false)
	if len(f.listener.commits) != 1 {
		t.Fatal("retry after failure should succeed")
	}
}

func TestCommitBlockedBeforeNetworkOnZeroTotal(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")

	f.ctrl.Commit(context.Background(), "abc", "4", false)
	f.ctrl.Commit(context.Background(), "0", "4", false)
	f.ctrl.Commit(context.Background(), "-5", "4", false)

	if f.committer.calls != 0 {
		t.Fatalf("invalid totals reached the committer %d times", f.committer.calls)
	}
	if s := f.ctrl.State(); s.Step != StepConfirm {
		t.Fatalf("blocked commit must not change state, step = %d", s.Step)
	}
}

func TestInvalidMultiplierDefaultsToOne(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")

	f.ctrl.Commit(context.Background(), "500", "oops", false)

	if f.committer.lastQ != 500 {
		t.Fatalf("committed quantity = %d, want 500", f.committer.lastQ)
	}
}

func TestDebounceSharedAcrossSteps(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())

	f.ctrl.HandleDetection(context.Background(), "LOC-UP-R05-B02-S01")
	// Same code fires again right after the step transition.
	f.ctrl.HandleDetection(context.Background(), "LOC-UP-R05-B02-S01")

	f.resolver.mu.Lock()
	lookups := len(f.resolver.lookups)
	f.resolver.mu.Unlock()
	if lookups != 1 {
		t.Fatalf("resolver saw %d lookups, want 1 (repeat suppressed)", lookups)
	}
	if len(f.listener.infos) != 0 {
		t.Fatal("suppressed repeat must not produce a replacement toast")
	}
}

func TestManualEntrySkipsDebounce(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")

	// A scan of GOODS-IN followed by an immediate manual re-entry of the
	// same code: the typed path must not be filtered.
	f.ctrl.HandleDetection(context.Background(), "LOC-GOODS-IN")
	f.ctrl.SubmitCode(context.Background(), "LOC-GOODS-IN")

	f.resolver.mu.Lock()
	lookups := len(f.resolver.lookups)
	f.resolver.mu.Unlock()
	if lookups != 3 {
		t.Fatalf("resolver saw %d lookups, want 3", lookups)
	}
}

func TestUnknownBarcodeWarns(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())

	f.scan(t, "LOC-NOWHERE")

	if warn := f.listener.lastWarn(t); !strings.Contains(warn, "LOC-NOWHERE") {
		t.Fatalf("warn = %q, want it to name the code", warn)
	}
	if s := f.ctrl.State(); s.Step != StepLocation {
		t.Fatal("unknown barcode must not transition")
	}
}

func TestResolverErrorSurfacesWithoutTransition(t *testing.T) {
	f := newFixture()
	f.resolver.err = errors.New("connection refused")
	f.ctrl.Open(context.Background())

	f.scan(t, "LOC-UP-R05-B02-S01")

	if len(f.listener.fails) == 0 {
		t.Fatal("expected a failure message")
	}
	if s := f.ctrl.State(); s.Step != StepLocation {
		t.Fatal("lookup failure must not transition")
	}
}

func TestCloseIsIdempotentAndStopsEngine(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")

	f.ctrl.Close()
	f.ctrl.Close()

	s := f.ctrl.State()
	if s.Step != StepLocation || s.SelectedLocation != nil || s.SelectedItem != nil {
		t.Fatalf("expected full reset on close, got %+v", s)
	}
	begins, ends := f.engine.counts()
	if ends < begins {
		t.Fatalf("engine left running: begins=%d ends=%d", begins, ends)
	}
	// Events arriving after close are dropped.
	f.ctrl.HandleDetection(context.Background(), "LOC-GOODS-IN")
	if s := f.ctrl.State(); s.SelectedLocation != nil {
		t.Fatal("detection after close must be a no-op")
	}
}

func TestLateResolutionAfterCloseIsNoOp(t *testing.T) {
	f := newFixture()
	f.resolver.gate = make(chan struct{})
	f.ctrl.Open(context.Background())

	done := make(chan struct{})
	go func() {
		f.ctrl.HandleDetection(context.Background(), "LOC-UP-R05-B02-S01")
		close(done)
	}()

	f.ctrl.Close()
	close(f.resolver.gate)
	<-done

	if s := f.ctrl.State(); s.SelectedLocation != nil || s.Step != StepLocation {
		t.Fatalf("late resolution mutated state: %+v", s)
	}
}

func TestLateCommitAfterCloseIsNoOp(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")
	f.committer.gate = make(chan struct{})

	done := make(chan struct{})
	go func() {
		f.ctrl.Commit(context.Background(), "500", "4", true)
		close(done)
	}()

	f.ctrl.Close()
	close(f.committer.gate)
	<-done

	if len(f.listener.commits) != 0 {
		t.Fatal("late commit result must not reach the listener")
	}
	if f.ctrl.HistoryLen() != 0 {
		t.Fatal("late commit must not append to a closed session's ledger")
	}
}

func TestReopenAfterCloseStartsFresh(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")
	f.ctrl.Commit(context.Background(), "10", "1", true)
	f.ctrl.Close()

	f.ctrl.Open(context.Background())

	s := f.ctrl.State()
	if s.Step != StepLocation || f.ctrl.HistoryLen() != 0 {
		t.Fatalf("reopen must start clean, got step %d history %d", s.Step, f.ctrl.HistoryLen())
	}
	// Debounce record was reset: the same location scans straight through.
	f.ctrl.HandleDetection(context.Background(), "LOC-UP-R05-B02-S01")
	if got := f.ctrl.State(); got.Step != StepItem {
		t.Fatalf("scan after reopen should advance, step = %d", got.Step)
	}
}

func TestLocationPickerFetchedOnce(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())

	first, err := f.ctrl.LocationPicker(context.Background())
	if err != nil {
		t.Fatalf("LocationPicker: %v", err)
	}
	second, err := f.ctrl.LocationPicker(context.Background())
	if err != nil {
		t.Fatalf("LocationPicker: %v", err)
	}

	if f.searcher.searches != 1 {
		t.Fatalf("searcher called %d times, want 1 (lazy, cached)", f.searcher.searches)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("picker sizes %d/%d, want 2/2", len(first), len(second))
	}
}

func TestSelectLocationFromPicker(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())

	f.ctrl.SelectLocation(context.Background(), 42)

	s := f.ctrl.State()
	if s.Step != StepItem || s.SelectedLocation == nil || s.SelectedLocation.ID != 42 {
		t.Fatalf("picker selection must transition like a scan, got %+v", s)
	}
}

func TestScanDuringConfirmStepWarns(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(context.Background())
	f.scan(t, "LOC-UP-R05-B02-S01")
	f.scan(t, "SKU-PART001")

	f.ctrl.SubmitCode(context.Background(), "LOC-GOODS-IN")

	s := f.ctrl.State()
	if s.SelectedLocation == nil || s.SelectedLocation.ID != 42 {
		t.Fatal("confirm-step selections must be untouched")
	}
	if len(f.listener.warns) == 0 {
		t.Fatal("expected a warning for input during the confirm step")
	}
}
