package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents an authenticated app user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,unique,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	UserID    int64     `bun:"user_id,notnull"`
	User      User      `bun:"rel:belongs-to,join:user_id=id"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Item is the item master. Barcode is the printed code on cartons; SKU is
// scannable too since many suppliers print the SKU itself.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SKU       string    `bun:"sku,notnull,unique"`
	Name      string    `bun:"name,notnull"`
	Barcode   string    `bun:"barcode"`
	Unit      string    `bun:"unit,notnull,default:'pcs'"`
	CartonQty int64     `bun:"carton_qty,notnull,default:0"`
	IsActive  bool      `bun:"is_active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Location is a physical storage position. Code is what gets printed on
// the rack label (zone-row-bay-shelf for racking, free-form otherwise).
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:l"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Code         string    `bun:"code,notnull,unique"`
	Name         string    `bun:"name,notnull"`
	Zone         string    `bun:"zone"`
	Row          string    `bun:"row"`
	Bay          string    `bun:"bay"`
	Shelf        string    `bun:"shelf"`
	LocationType string    `bun:"location_type"`
	IsActive     bool      `bun:"is_active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// StockLevel is the quantity of one item at one location.
type StockLevel struct {
	bun.BaseModel `bun:"table:stock_levels,alias:sl"`

	ID          int64     `bun:"id,pk,autoincrement"`
	ItemID      int64     `bun:"item_id,notnull"`
	LocationID  int64     `bun:"location_id,notnull"`
	Quantity    int64     `bun:"quantity,notnull,default:0"`
	BatchNumber string    `bun:"batch_number"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// StockMovement is the append-only movement ledger. FromLocationID is nil
// for receipts, ToLocationID is nil for issues/adjustments out.
type StockMovement struct {
	bun.BaseModel `bun:"table:stock_movements,alias:sm"`

	ID             int64     `bun:"id,pk,autoincrement"`
	ItemID         int64     `bun:"item_id,notnull"`
	MovementType   string    `bun:"movement_type,notnull"`
	Quantity       int64     `bun:"quantity,notnull"`
	FromLocationID *int64    `bun:"from_location_id"`
	ToLocationID   *int64    `bun:"to_location_id"`
	Reference      string    `bun:"reference"`
	Notes          string    `bun:"notes"`
	UserID         int64     `bun:"user_id,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Movement types recorded by the quick-stock endpoints.
const (
	MovementReceipt    = "receipt"
	MovementMove       = "movement"
	MovementAdjustment = "adjustment"
)

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
