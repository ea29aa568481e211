package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"quickstock/infrastructure/sqlite"
)

// writeMovementsCSV exports the stock movement ledger, newest first.
func writeMovementsCSV(ctx context.Context, db *sqlite.DB, w io.Writer) (int, error) {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"id", "created_at", "type", "sku", "item_name", "quantity", "from_location", "to_location", "user", "reference", "notes"}
	if err := writer.Write(header); err != nil {
		return 0, err
	}

	type row struct {
		ID           int64  `bun:"id"`
		CreatedAt    string `bun:"created_at"`
		MovementType string `bun:"movement_type"`
		SKU          string `bun:"sku"`
		ItemName     string `bun:"item_name"`
		Quantity     int64  `bun:"quantity"`
		FromLocation string `bun:"from_location"`
		ToLocation   string `bun:"to_location"`
		Username     string `bun:"username"`
		Reference    string `bun:"reference"`
		Notes        string `bun:"notes"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT sm.id, strftime('%d/%m/%Y %H:%M', sm.created_at) AS created_at, sm.movement_type,
       i.sku, i.name AS item_name, sm.quantity,
       COALESCE(lf.code, '') AS from_location,
       COALESCE(lt.code, '') AS to_location,
       u.username,
       COALESCE(sm.reference, '') AS reference,
       COALESCE(sm.notes, '') AS notes
FROM stock_movements sm
JOIN items i ON i.id = sm.item_id
JOIN users u ON u.id = sm.user_id
LEFT JOIN locations lf ON lf.id = sm.from_location_id
LEFT JOIN locations lt ON lt.id = sm.to_location_id
ORDER BY sm.id DESC`).Scan(ctx, &rows)
	})
	if err != nil {
		return 0, err
	}

	for _, r := range rows {
		record := []string{
			toString(r.ID),
			r.CreatedAt,
			r.MovementType,
			r.SKU,
			r.ItemName,
			toString(r.Quantity),
			r.FromLocation,
			r.ToLocation,
			r.Username,
			r.Reference,
			r.Notes,
		}
		if err := writer.Write(record); err != nil {
			return 0, err
		}
	}
	return len(rows), writer.Error()
}

// writeStockCSV exports current non-zero stock levels by location.
func writeStockCSV(ctx context.Context, db *sqlite.DB, w io.Writer) (int, error) {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"location_code", "sku", "item_name", "quantity", "unit", "batch_number", "updated_at"}); err != nil {
		return 0, err
	}

	type row struct {
		LocationCode string `bun:"location_code"`
		SKU          string `bun:"sku"`
		ItemName     string `bun:"item_name"`
		Quantity     int64  `bun:"quantity"`
		Unit         string `bun:"unit"`
		BatchNumber  string `bun:"batch_number"`
		UpdatedAt    string `bun:"updated_at"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT l.code AS location_code, i.sku, i.name AS item_name, sl.quantity, i.unit,
       COALESCE(sl.batch_number, '') AS batch_number,
       strftime('%d/%m/%Y %H:%M', sl.updated_at) AS updated_at
FROM stock_levels sl
JOIN items i ON i.id = sl.item_id
JOIN locations l ON l.id = sl.location_id
WHERE sl.quantity > 0
ORDER BY l.code COLLATE NOCASE ASC, i.sku COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return 0, err
	}

	for _, r := range rows {
		record := []string{r.LocationCode, r.SKU, r.ItemName, toString(r.Quantity), r.Unit, r.BatchNumber, r.UpdatedAt}
		if err := writer.Write(record); err != nil {
			return 0, err
		}
	}
	return len(rows), writer.Error()
}

func recordExportRun(ctx context.Context, db *sqlite.DB, userID int64, exportType string, rowCount int) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO export_runs (user_id, export_type, row_count, created_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)`, userID, exportType, rowCount)
		return err
	})
}

// ListRecentRuns returns the latest export runs for the exports page.
func ListRecentRuns(ctx context.Context, db *sqlite.DB, limit int) ([]ExportRunRow, error) {
	rows := make([]ExportRunRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT er.export_type, u.username, er.row_count,
       strftime('%d/%m/%Y %H:%M', er.created_at) AS created_at
FROM export_runs er
JOIN users u ON u.id = er.user_id
ORDER BY er.id DESC
LIMIT ?`, limit).Scan(ctx, &rows)
	})
	return rows, err
}

func toString(v int64) string {
	return strconv.FormatInt(v, 10)
}
