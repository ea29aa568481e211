package home

import (
	"context"

	"github.com/uptrace/bun"

	"quickstock/infrastructure/sqlite"
)

// MovementRow backs one row of the recent-activity table.
type MovementRow struct {
	CreatedAt    string `bun:"created_at"`
	MovementType string `bun:"movement_type"`
	SKU          string `bun:"sku"`
	ItemName     string `bun:"item_name"`
	Quantity     int64  `bun:"quantity"`
	FromLocation string `bun:"from_location"`
	ToLocation   string `bun:"to_location"`
	Username     string `bun:"username"`
}

// PageData backs the home page view.
type PageData struct {
	Movements []MovementRow
}

// RecentMovements returns the latest stock movements, newest first.
func RecentMovements(ctx context.Context, db *sqlite.DB, limit int) ([]MovementRow, error) {
	rows := make([]MovementRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT strftime('%d/%m/%Y %H:%M', sm.created_at) AS created_at, sm.movement_type,
       i.sku, i.name AS item_name, sm.quantity,
       COALESCE(lf.code, '') AS from_location,
       COALESCE(lt.code, '') AS to_location,
       u.username
FROM stock_movements sm
JOIN items i ON i.id = sm.item_id
JOIN users u ON u.id = sm.user_id
LEFT JOIN locations lf ON lf.id = sm.from_location_id
LEFT JOIN locations lt ON lt.id = sm.to_location_id
ORDER BY sm.id DESC
LIMIT ?`, limit).Scan(ctx, &rows)
	})
	return rows, err
}
