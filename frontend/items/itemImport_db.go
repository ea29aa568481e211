package items

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"quickstock/infrastructure/audit"
	"quickstock/infrastructure/sqlite"
)

var csvHeader = []string{"sku", "name", "barcode", "unit", "carton_qty"}

// ListItems returns active items for the import page.
func ListItems(ctx context.Context, db *sqlite.DB) ([]ItemRow, error) {
	rows := make([]ItemRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, sku, name, COALESCE(barcode, '') AS barcode, unit, carton_qty,
       strftime('%d/%m/%Y %H:%M', updated_at) AS updated_at
FROM items
WHERE is_active
ORDER BY sku COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ImportCSV upserts items from a CSV with header sku,name,barcode,unit,carton_qty.
// Barcode, unit and carton_qty may be blank; unit defaults to pcs.
func ImportCSV(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, fileName string, reader io.Reader) (ImportSummary, error) {
	summary := ImportSummary{}
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return summary, fmt.Errorf("read header: %w", err)
	}
	if !validHeader(header) {
		return summary, fmt.Errorf("invalid CSV header; expected %s", strings.Join(csvHeader, ","))
	}

	rowsTotal := 0
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				summary.Errors++
				continue
			}
			rowsTotal++
			if len(record) < 2 {
				summary.Errors++
				continue
			}

			sku := strings.TrimSpace(record[0])
			name := strings.TrimSpace(record[1])
			if sku == "" || name == "" {
				summary.Errors++
				continue
			}
			barcode := ""
			if len(record) > 2 {
				barcode = strings.TrimSpace(record[2])
			}
			unit := "pcs"
			if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
				unit = strings.TrimSpace(record[3])
			}
			cartonQty := int64(0)
			if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
				qty, err := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
				if err != nil || qty < 0 {
					summary.Errors++
					continue
				}
				cartonQty = qty
			}

			var exists int
			if err := tx.NewRaw(`SELECT COUNT(1) FROM items WHERE sku = ?`, sku).Scan(ctx, &exists); err != nil {
				return err
			}
			if exists > 0 {
				summary.Updated++
			} else {
				summary.Inserted++
			}

			if _, err := tx.ExecContext(ctx, `
INSERT INTO items (sku, name, barcode, unit, carton_qty, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT(sku) DO UPDATE SET
  name = excluded.name,
  barcode = excluded.barcode,
  unit = excluded.unit,
  carton_qty = excluded.carton_qty,
  is_active = 1,
  updated_at = CURRENT_TIMESTAMP`, sku, name, barcode, unit, cartonQty); err != nil {
				summary.Errors++
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO item_import_runs (user_id, file_name, rows_total, rows_created, rows_updated, rows_skipped)
VALUES (?, ?, ?, ?, ?, ?)`, userID, fileName, rowsTotal, summary.Inserted, summary.Updated, summary.Errors); err != nil {
			return err
		}

		if auditSvc != nil {
			after := map[string]any{"file": fileName, "inserted": summary.Inserted, "updated": summary.Updated, "errors": summary.Errors}
			if err := auditSvc.Write(ctx, tx, userID, "item.import", "item_import_runs", fileName, nil, after); err != nil {
				return err
			}
		}

		return nil
	})
	return summary, err
}

// DeactivateItems soft-deletes items so their movement history survives.
func DeactivateItems(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, ids []int64) (deactivated int, err error) {
	unique := make(map[int64]struct{}, len(ids))
	filtered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		filtered = append(filtered, id)
	}
	if len(filtered) == 0 {
		return 0, nil
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, id := range filtered {
			res, err := tx.ExecContext(ctx, `
UPDATE items SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active`, id)
			if err != nil {
				return err
			}
			affected, _ := res.RowsAffected()
			if affected == 0 {
				continue
			}
			deactivated++
			if auditSvc != nil {
				if err := auditSvc.Write(ctx, tx, userID, "item.deactivate", "items", fmt.Sprintf("%d", id), nil, nil); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deactivated, nil
}

func validHeader(header []string) bool {
	if len(header) < 2 {
		return false
	}
	for i, want := range csvHeader {
		if i >= len(header) {
			// barcode, unit and carton_qty columns are optional
			return i >= 2
		}
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return false
		}
	}
	return true
}
