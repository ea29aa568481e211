package locations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"quickstock/infrastructure/audit"
	"quickstock/infrastructure/sqlite"
	"quickstock/models"
)

var (
	ErrNotFound     = errors.New("location not found")
	ErrInvalidInput = errors.New("invalid location data")
)

const searchLimit = 20

// Search returns up to 20 active locations matching code or name.
func Search(ctx context.Context, db *sqlite.DB, query string) ([]SearchResult, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	rows := make([]SearchResult, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, code, name, COALESCE(location_type, '') AS type
FROM locations
WHERE is_active AND (code LIKE ? OR name LIKE ?)
ORDER BY code COLLATE NOCASE ASC
LIMIT ?`, pattern, pattern, searchLimit).Scan(ctx, &rows)
	})
	return rows, err
}

// Contents returns the location header and its non-zero stock levels.
func Contents(ctx context.Context, db *sqlite.DB, locationID int64) (ContentsResult, error) {
	var result ContentsResult
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var location models.Location
		err := tx.NewSelect().Model(&location).Where("id = ?", locationID).Limit(1).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		result.Location = ContentsHeader{ID: location.ID, Code: location.Code, Name: location.Name}

		result.Contents = make([]ContentLine, 0)
		return tx.NewRaw(`
SELECT sl.item_id AS item_id, i.sku AS sku, i.name AS name, sl.quantity AS quantity, i.unit AS unit
FROM stock_levels sl
JOIN items i ON i.id = sl.item_id
WHERE sl.location_id = ? AND sl.quantity > 0
ORDER BY i.sku COLLATE NOCASE ASC`, locationID).Scan(ctx, &result.Contents)
	})
	if err != nil {
		return ContentsResult{}, err
	}
	return result, nil
}

// ListForPage returns active locations with item counts, optionally
// filtered by zone, plus the distinct zones for the filter bar.
func ListForPage(ctx context.Context, db *sqlite.DB, zone string) ([]LocationRow, []string, error) {
	zone = strings.ToUpper(strings.TrimSpace(zone))
	rows := make([]LocationRow, 0)
	zones := make([]string, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`
SELECT DISTINCT zone FROM locations
WHERE is_active AND zone IS NOT NULL AND zone != ''
ORDER BY zone`).Scan(ctx, &zones); err != nil {
			return err
		}

		q := `
SELECT l.id, l.code, l.name, COALESCE(l.zone, '') AS zone, COALESCE(l.location_type, '') AS location_type,
       (SELECT COUNT(*) FROM stock_levels sl WHERE sl.location_id = l.id AND sl.quantity > 0) AS item_count
FROM locations l
WHERE l.is_active`
		args := make([]any, 0, 1)
		if zone != "" {
			q += ` AND l.zone = ?`
			args = append(args, zone)
		}
		q += ` ORDER BY l.zone, l.code`
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, zones, nil
}

// Create inserts one location. The code is stored upper-cased.
func Create(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, code, name, locationType, zone string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return ErrInvalidInput
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		location := &models.Location{
			Code:         code,
			Name:         name,
			Zone:         strings.ToUpper(strings.TrimSpace(zone)),
			LocationType: locationType,
			IsActive:     true,
		}
		if _, err := tx.NewInsert().Model(location).Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, userID, "location.create", "locations", code, nil, location)
		}
		return nil
	})
}

// GenerateCode builds a rack code from its components, zero-padding row,
// bay and shelf to two digits: UP-R05-B02-S01.
func GenerateCode(zone string, row, bay, shelf int) string {
	return fmt.Sprintf("%s-R%02d-B%02d-S%02d", strings.ToUpper(zone), row, bay, shelf)
}

// BulkCreate creates a rack grid of zone x rows x bays x shelves,
// skipping codes that already exist.
func BulkCreate(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, in BulkCreateInput) (created, skipped int, err error) {
	in.Zone = strings.ToUpper(strings.TrimSpace(in.Zone))
	if in.Zone == "" || in.Rows < 1 || in.Bays < 1 || in.Shelves < 1 {
		return 0, 0, ErrInvalidInput
	}
	if in.LocationType == "" {
		in.LocationType = "rack"
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for r := 1; r <= in.Rows; r++ {
			for b := 1; b <= in.Bays; b++ {
				for s := 1; s <= in.Shelves; s++ {
					code := GenerateCode(in.Zone, r, b, s)

					var exists int
					if err := tx.NewRaw(`SELECT COUNT(1) FROM locations WHERE code = ?`, code).Scan(ctx, &exists); err != nil {
						return err
					}
					if exists > 0 {
						skipped++
						continue
					}

					location := &models.Location{
						Code:         code,
						Name:         fmt.Sprintf("%s Row %d Bay %d Shelf %d", in.Zone, r, b, s),
						Zone:         in.Zone,
						Row:          fmt.Sprintf("%02d", r),
						Bay:          fmt.Sprintf("%02d", b),
						Shelf:        fmt.Sprintf("%02d", s),
						LocationType: in.LocationType,
						IsActive:     true,
					}
					if _, err := tx.NewInsert().Model(location).Exec(ctx); err != nil {
						return err
					}
					created++
				}
			}
		}

		if auditSvc != nil {
			after := map[string]any{"zone": in.Zone, "created": created, "skipped": skipped}
			return auditSvc.Write(ctx, tx, userID, "location.bulk_create", "locations", in.Zone, nil, after)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, skipped, nil
}
