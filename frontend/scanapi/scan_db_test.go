package scanapi

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"quickstock/infrastructure/sqlite"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scanapi-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func seedBase(t *testing.T, db *sqlite.DB) {
	t.Helper()
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, role) VALUES (1, 'scanner1', 'hash', 'scanner')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO items (id, sku, name, barcode, unit, carton_qty, is_active)
VALUES (1, 'PART001', 'Widget housing', '5012345678900', 'pcs', 500, 1),
       (2, 'PART002', 'Gasket', '', 'pcs', 0, 1),
       (3, 'PART099', 'Retired part', '5099999999999', 'pcs', 24, 0)`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO locations (id, code, name, zone, location_type, is_active)
VALUES (1, 'UP-R05-B02-S01', 'UP Row 5 Bay 2 Shelf 1', 'UP', 'rack', 1),
       (2, 'GOODS-IN', 'Goods in area', '', 'floor', 1),
       (3, 'OLD-BAY', 'Decommissioned bay', '', 'rack', 0)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed base rows: %v", err)
	}
}

func stockQty(t *testing.T, db *sqlite.DB, itemID, locationID int64) int64 {
	t.Helper()
	var qty int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COALESCE(SUM(quantity), 0) FROM stock_levels WHERE item_id = ? AND location_id = ?`,
			itemID, locationID).Scan(ctx, &qty)
	})
	if err != nil {
		t.Fatalf("read stock qty: %v", err)
	}
	return qty
}

func movementCount(t *testing.T, db *sqlite.DB, movementType string) int64 {
	t.Helper()
	var count int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM stock_movements WHERE movement_type = ?`, movementType).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count movements: %v", err)
	}
	return count
}

func TestResolveScan_ItemBySKUAndBarcode(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	for _, code := range []string{"PART001", "5012345678900", "SKU-PART001"} {
		result, err := ResolveScan(context.Background(), db, code, "receive")
		if err != nil {
			t.Fatalf("resolve %q: %v", code, err)
		}
		item, ok := result.(ItemResult)
		if !ok {
			t.Fatalf("resolve %q: expected ItemResult, got %T", code, result)
		}
		if item.SKU != "PART001" || item.Type != "item" {
			t.Fatalf("resolve %q: unexpected item %+v", code, item)
		}
		if item.SuggestedQty != 500 || item.SuggestedFromCode {
			t.Fatalf("resolve %q: expected carton qty suggestion 500, got %+v", code, item)
		}
	}
}

func TestResolveScan_LabelPayloadOverridesCartonQty(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	result, err := ResolveScan(context.Background(), db, "QS1|PART001|144", "receive")
	if err != nil {
		t.Fatalf("resolve payload: %v", err)
	}
	item := result.(ItemResult)
	if item.SuggestedQty != 144 || !item.SuggestedFromCode {
		t.Fatalf("expected label qty 144 flagged from code, got %+v", item)
	}
}

func TestResolveScan_LocationWithPrefixAndCase(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	for _, code := range []string{"UP-R05-B02-S01", "LOC-UP-R05-B02-S01", "loc-up-r05-b02-s01"} {
		result, err := ResolveScan(context.Background(), db, code, "receive")
		if err != nil {
			t.Fatalf("resolve %q: %v", code, err)
		}
		loc, ok := result.(LocationResult)
		if !ok {
			t.Fatalf("resolve %q: expected LocationResult, got %T", code, result)
		}
		if loc.Code != "UP-R05-B02-S01" || loc.Type != "location" {
			t.Fatalf("resolve %q: unexpected location %+v", code, loc)
		}
	}
}

func TestResolveScan_LocationContentsOnlyNonZero(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO stock_levels (item_id, location_id, quantity) VALUES (1, 1, 40), (2, 1, 0)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	result, err := ResolveScan(context.Background(), db, "UP-R05-B02-S01", "receive")
	if err != nil {
		t.Fatalf("resolve location: %v", err)
	}
	loc := result.(LocationResult)
	if len(loc.Contents) != 1 {
		t.Fatalf("expected one non-zero content line, got %d", len(loc.Contents))
	}
	if loc.Contents[0].SKU != "PART001" || loc.Contents[0].Quantity != 40 {
		t.Fatalf("unexpected content line %+v", loc.Contents[0])
	}
}

func TestResolveScan_InactiveAndUnknown(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	for _, code := range []string{"PART099", "5099999999999", "OLD-BAY", "NOPE-123"} {
		_, err := ResolveScan(context.Background(), db, code, "receive")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("resolve %q: expected ErrNotFound, got %v", code, err)
		}
	}
}

func TestResolveScan_ItemWinsOverLocation(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	// A code that is both an item barcode and a location code resolves
	// as the item; carton scans dominate receiving.
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO locations (code, name, is_active) VALUES ('PART002', 'Oddly named bay', 1)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed clash location: %v", err)
	}

	result, err := ResolveScan(context.Background(), db, "PART002", "receive")
	if err != nil {
		t.Fatalf("resolve clash: %v", err)
	}
	if _, ok := result.(ItemResult); !ok {
		t.Fatalf("expected ItemResult for clashing code, got %T", result)
	}
}

func TestQuickReceive_UpsertsAndRecordsMovement(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	req := QuickReceiveRequest{ItemID: 1, LocationID: 1, Quantity: 500}
	res, err := QuickReceive(context.Background(), db, nil, 1, req)
	if err != nil {
		t.Fatalf("quick receive 1: %v", err)
	}
	if !res.Success || res.NewQuantity != 500 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Message != "Received 500 pcs of PART001 at UP-R05-B02-S01" {
		t.Fatalf("unexpected message %q", res.Message)
	}

	res, err = QuickReceive(context.Background(), db, nil, 1, req)
	if err != nil {
		t.Fatalf("quick receive 2: %v", err)
	}
	if res.NewQuantity != 1000 {
		t.Fatalf("expected accumulated quantity 1000, got %d", res.NewQuantity)
	}
	if got := stockQty(t, db, 1, 1); got != 1000 {
		t.Fatalf("stock level = %d, want 1000", got)
	}
	if got := movementCount(t, db, "receipt"); got != 2 {
		t.Fatalf("expected 2 receipt movements, got %d", got)
	}
}

func TestQuickReceive_RejectsBadInput(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	cases := []QuickReceiveRequest{
		{ItemID: 0, LocationID: 1, Quantity: 5},
		{ItemID: 1, LocationID: 0, Quantity: 5},
		{ItemID: 1, LocationID: 1, Quantity: 0},
		{ItemID: 1, LocationID: 1, Quantity: -3},
	}
	for _, req := range cases {
		if _, err := QuickReceive(context.Background(), db, nil, 1, req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("req %+v: expected ErrInvalidInput, got %v", req, err)
		}
	}

	if _, err := QuickReceive(context.Background(), db, nil, 1, QuickReceiveRequest{ItemID: 99, LocationID: 1, Quantity: 5}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing item, got %v", err)
	}
	if got := movementCount(t, db, "receipt"); got != 0 {
		t.Fatalf("expected no movements after failures, got %d", got)
	}
}

func TestQuickMove_TransfersAndValidatesSource(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	if _, err := QuickReceive(context.Background(), db, nil, 1, QuickReceiveRequest{ItemID: 1, LocationID: 2, Quantity: 100}); err != nil {
		t.Fatalf("seed receive: %v", err)
	}

	res, err := QuickMove(context.Background(), db, nil, 1, QuickMoveRequest{ItemID: 1, FromLocationID: 2, ToLocationID: 1, Quantity: 60})
	if err != nil {
		t.Fatalf("quick move: %v", err)
	}
	if res.Message != "Moved 60 pcs of PART001 from GOODS-IN to UP-R05-B02-S01" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if got := stockQty(t, db, 1, 2); got != 40 {
		t.Fatalf("source qty = %d, want 40", got)
	}
	if got := stockQty(t, db, 1, 1); got != 60 {
		t.Fatalf("destination qty = %d, want 60", got)
	}

	if _, err := QuickMove(context.Background(), db, nil, 1, QuickMoveRequest{ItemID: 1, FromLocationID: 2, ToLocationID: 1, Quantity: 500}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := QuickMove(context.Background(), db, nil, 1, QuickMoveRequest{ItemID: 1, FromLocationID: 2, ToLocationID: 2, Quantity: 5}); !errors.Is(err, ErrSameLocation) {
		t.Fatalf("expected ErrSameLocation, got %v", err)
	}
}
