package labels

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"quickstock/infrastructure/sqlite"
)

// ListItemLabels returns active items for the selection page, or the
// given subset when ids is non-empty.
func ListItemLabels(ctx context.Context, db *sqlite.DB, ids []int64) ([]ItemLabelData, error) {
	rows := make([]ItemLabelData, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `SELECT id, sku, name, unit, carton_qty FROM items WHERE is_active`
		args := make([]any, 0, len(ids))
		if len(ids) > 0 {
			q += ` AND id IN (` + placeholders(len(ids)) + `)`
			for _, id := range ids {
				args = append(args, id)
			}
		}
		q += ` ORDER BY sku COLLATE NOCASE ASC`
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	return rows, err
}

// ListLocationLabels returns active locations, optionally restricted to
// a zone or a subset of ids.
func ListLocationLabels(ctx context.Context, db *sqlite.DB, zone string, ids []int64) ([]LocationLabelData, error) {
	rows := make([]LocationLabelData, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `SELECT id, code, name, COALESCE(zone, '') AS zone FROM locations WHERE is_active`
		args := make([]any, 0, len(ids)+1)
		if zone != "" {
			q += ` AND zone = ?`
			args = append(args, zone)
		}
		if len(ids) > 0 {
			q += ` AND id IN (` + placeholders(len(ids)) + `)`
			for _, id := range ids {
				args = append(args, id)
			}
		}
		q += ` ORDER BY code COLLATE NOCASE ASC`
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	return rows, err
}

func placeholders(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ", "
		}
		out += "?"
	}
	return out
}

// labelFileName builds the download name for a label sheet.
func labelFileName(kind string, count int) string {
	return fmt.Sprintf("%s-labels-%d.pdf", kind, count)
}
