package items

// ImportSummary reports one CSV import run.
type ImportSummary struct {
	Inserted int
	Updated  int
	Errors   int
}

// ItemRow backs the item list on the import page.
type ItemRow struct {
	ID        int64  `bun:"id"`
	SKU       string `bun:"sku"`
	Name      string `bun:"name"`
	Barcode   string `bun:"barcode"`
	Unit      string `bun:"unit"`
	CartonQty int64  `bun:"carton_qty"`
	UpdatedAt string `bun:"updated_at"`
}

// PageData backs the import page view.
type PageData struct {
	Message string
	Items   []ItemRow
}
