package locations

// SearchResult is one row of GET /locations/api/search.
type SearchResult struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ContentsHeader identifies the location in a contents response.
type ContentsHeader struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ContentLine is one non-empty stock level at the location.
type ContentLine struct {
	ItemID   int64  `json:"item_id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Unit     string `json:"unit"`
}

// ContentsResult is the body of GET /locations/api/{id}/contents.
type ContentsResult struct {
	Location ContentsHeader `json:"location"`
	Contents []ContentLine  `json:"contents"`
}

// LocationRow backs the locations list page.
type LocationRow struct {
	ID        int64  `bun:"id"`
	Code      string `bun:"code"`
	Name      string `bun:"name"`
	Zone      string `bun:"zone"`
	Type      string `bun:"location_type"`
	ItemCount int64  `bun:"item_count"`
}

// BulkCreateInput describes a rack grid to create.
type BulkCreateInput struct {
	Zone         string
	LocationType string
	Rows         int
	Bays         int
	Shelves      int
}

// PageData backs the locations list page view.
type PageData struct {
	Message   string
	Zones     []string
	Locations []LocationRow
}
