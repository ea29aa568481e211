package scanapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"quickstock/frontend/shared/labelcode"
	"quickstock/infrastructure/audit"
	"quickstock/infrastructure/sqlite"
	"quickstock/models"
)

var (
	ErrNotFound          = errors.New("barcode not found")
	ErrInvalidInput      = errors.New("invalid data")
	ErrInsufficientStock = errors.New("insufficient stock at source location")
	ErrSameLocation      = errors.New("from and to locations must be different")
)

// ResolveScan classifies a scanned code as an item or a location.
//
// Lookup order matches the receiving flow on the floor: most scans are
// cartons, so items win when a code matches both. Item label QR payloads
// and the printed SKU-/LOC- framings are unwrapped before lookup.
func ResolveScan(ctx context.Context, db *sqlite.DB, barcode, scanContext string) (any, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ErrInvalidInput
	}

	itemCode := barcode
	labelQty := int64(0)
	if sku, qty, ok := labelcode.ParseItem(barcode); ok {
		itemCode = sku
		labelQty = qty
	}
	itemCode = labelcode.StripSKUPrefix(itemCode)

	var result any
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var item models.Item
		err := tx.NewSelect().
			Model(&item).
			Where("(barcode = ? OR sku = ?) AND is_active", itemCode, itemCode).
			Limit(1).
			Scan(ctx)
		if err == nil {
			suggested := item.CartonQty
			fromCode := false
			if labelQty > 0 {
				suggested = labelQty
				fromCode = true
			}
			result = ItemResult{
				Type:              "item",
				ID:                item.ID,
				SKU:               item.SKU,
				Name:              item.Name,
				Barcode:           item.Barcode,
				Unit:              item.Unit,
				SuggestedQty:      suggested,
				SuggestedFromCode: fromCode,
				Context:           scanContext,
			}
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		code := labelcode.StripLocationPrefix(barcode)
		var location models.Location
		err = tx.NewSelect().
			Model(&location).
			Where("code = ? AND is_active", code).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		contents, err := locationContents(ctx, tx, location.ID)
		if err != nil {
			return err
		}
		result = LocationResult{
			Type:         "location",
			ID:           location.ID,
			Code:         location.Code,
			Name:         location.Name,
			Zone:         location.Zone,
			LocationType: location.LocationType,
			Contents:     contents,
			Context:      scanContext,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func locationContents(ctx context.Context, tx bun.Tx, locationID int64) ([]ContentLine, error) {
	lines := make([]ContentLine, 0)
	err := tx.NewRaw(`
SELECT sl.item_id AS item_id, i.sku AS sku, i.name AS name, sl.quantity AS quantity, i.unit AS unit
FROM stock_levels sl
JOIN items i ON i.id = sl.item_id
WHERE sl.location_id = ? AND sl.quantity > 0
ORDER BY i.sku COLLATE NOCASE ASC`, locationID).Scan(ctx, &lines)
	return lines, err
}

// QuickReceive adds stock at a location and records the receipt movement.
func QuickReceive(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, req QuickReceiveRequest) (MutationResult, error) {
	if req.ItemID <= 0 || req.LocationID <= 0 || req.Quantity <= 0 {
		return MutationResult{}, ErrInvalidInput
	}

	var result MutationResult
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		item, location, err := loadItemAndLocation(ctx, tx, req.ItemID, req.LocationID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO stock_levels (item_id, location_id, quantity, batch_number, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(item_id, location_id) DO UPDATE SET
  quantity = quantity + excluded.quantity,
  updated_at = CURRENT_TIMESTAMP`, req.ItemID, req.LocationID, req.Quantity, req.BatchNumber); err != nil {
			return err
		}

		var newQty int64
		if err := tx.NewRaw(`SELECT quantity FROM stock_levels WHERE item_id = ? AND location_id = ?`,
			req.ItemID, req.LocationID).Scan(ctx, &newQty); err != nil {
			return err
		}

		movement := &models.StockMovement{
			ItemID:       req.ItemID,
			MovementType: models.MovementReceipt,
			Quantity:     req.Quantity,
			ToLocationID: &req.LocationID,
			Reference:    uuid.NewString(),
			Notes:        "Quick receive via scan station",
			UserID:       userID,
		}
		if _, err := tx.NewInsert().Model(movement).Exec(ctx); err != nil {
			return err
		}

		if auditSvc != nil {
			after := map[string]any{"item_id": req.ItemID, "location_id": req.LocationID, "quantity": req.Quantity, "new_quantity": newQty}
			if err := auditSvc.Write(ctx, tx, userID, "stock.quick_receive", "stock_movements", movement.Reference, nil, after); err != nil {
				return err
			}
		}

		result = MutationResult{
			Success:     true,
			Message:     fmt.Sprintf("Received %d %s of %s at %s", req.Quantity, item.Unit, item.SKU, location.Code),
			NewQuantity: newQty,
		}
		return nil
	})
	if err != nil {
		return MutationResult{}, err
	}
	return result, nil
}

// QuickMove transfers stock between two locations, validating the source
// balance first.
func QuickMove(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, req QuickMoveRequest) (MutationResult, error) {
	if req.ItemID <= 0 || req.FromLocationID <= 0 || req.ToLocationID <= 0 || req.Quantity <= 0 {
		return MutationResult{}, ErrInvalidInput
	}
	if req.FromLocationID == req.ToLocationID {
		return MutationResult{}, ErrSameLocation
	}

	var result MutationResult
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		item, fromLocation, err := loadItemAndLocation(ctx, tx, req.ItemID, req.FromLocationID)
		if err != nil {
			return err
		}
		var toLocation models.Location
		if err := tx.NewSelect().Model(&toLocation).Where("id = ?", req.ToLocationID).Limit(1).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		var sourceQty int64
		err = tx.NewRaw(`SELECT quantity FROM stock_levels WHERE item_id = ? AND location_id = ?`,
			req.ItemID, req.FromLocationID).Scan(ctx, &sourceQty)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && sourceQty < req.Quantity) {
			return ErrInsufficientStock
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE stock_levels SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
WHERE item_id = ? AND location_id = ?`, req.Quantity, req.ItemID, req.FromLocationID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO stock_levels (item_id, location_id, quantity, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(item_id, location_id) DO UPDATE SET
  quantity = quantity + excluded.quantity,
  updated_at = CURRENT_TIMESTAMP`, req.ItemID, req.ToLocationID, req.Quantity); err != nil {
			return err
		}

		movement := &models.StockMovement{
			ItemID:         req.ItemID,
			MovementType:   models.MovementMove,
			Quantity:       req.Quantity,
			FromLocationID: &req.FromLocationID,
			ToLocationID:   &req.ToLocationID,
			Reference:      uuid.NewString(),
			Notes:          "Quick move via scan station",
			UserID:         userID,
		}
		if _, err := tx.NewInsert().Model(movement).Exec(ctx); err != nil {
			return err
		}

		if auditSvc != nil {
			after := map[string]any{"item_id": req.ItemID, "from": req.FromLocationID, "to": req.ToLocationID, "quantity": req.Quantity}
			if err := auditSvc.Write(ctx, tx, userID, "stock.quick_move", "stock_movements", movement.Reference, nil, after); err != nil {
				return err
			}
		}

		result = MutationResult{
			Success: true,
			Message: fmt.Sprintf("Moved %d %s of %s from %s to %s", req.Quantity, item.Unit, item.SKU, fromLocation.Code, toLocation.Code),
		}
		return nil
	})
	if err != nil {
		return MutationResult{}, err
	}
	return result, nil
}

func loadItemAndLocation(ctx context.Context, tx bun.Tx, itemID, locationID int64) (models.Item, models.Location, error) {
	var item models.Item
	if err := tx.NewSelect().Model(&item).Where("id = ?", itemID).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, models.Location{}, ErrNotFound
		}
		return models.Item{}, models.Location{}, err
	}
	var location models.Location
	if err := tx.NewSelect().Model(&location).Where("id = ?", locationID).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, models.Location{}, ErrNotFound
		}
		return models.Item{}, models.Location{}, err
	}
	return item, location, nil
}
