package labels

// ItemLabelData is one printed item label. The QR payload carries the
// SKU and quantity per carton so a single scan pre-fills the receive
// quantity at the station.
type ItemLabelData struct {
	ItemID    int64  `bun:"id"`
	SKU       string `bun:"sku"`
	Name      string `bun:"name"`
	Unit      string `bun:"unit"`
	CartonQty int64  `bun:"carton_qty"`
}

// LocationLabelData is one printed rack label.
type LocationLabelData struct {
	LocationID int64  `bun:"id"`
	Code       string `bun:"code"`
	Name       string `bun:"name"`
	Zone       string `bun:"zone"`
}

// PageData backs the label selection page.
type PageData struct {
	Message   string
	Items     []ItemLabelData
	Locations []LocationLabelData
}
