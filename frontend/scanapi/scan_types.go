package scanapi

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	Barcode string `json:"barcode"`
	Context string `json:"context"`
}

// ContentLine is one non-empty stock level at a location.
type ContentLine struct {
	ItemID   int64  `json:"item_id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Unit     string `json:"unit"`
}

// ItemResult is the scan response when the code resolved to an item.
// SuggestedQty comes from the printed label payload when the scanned
// code carried one, otherwise from the item's stored carton quantity;
// zero means no hint.
type ItemResult struct {
	Type              string `json:"type"`
	ID                int64  `json:"id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Barcode           string `json:"barcode,omitempty"`
	Unit              string `json:"unit"`
	SuggestedQty      int64  `json:"suggested_qty"`
	SuggestedFromCode bool   `json:"suggested_from_code"`
	Context           string `json:"context"`
}

// LocationResult is the scan response when the code resolved to a location.
type LocationResult struct {
	Type         string        `json:"type"`
	ID           int64         `json:"id"`
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	Zone         string        `json:"zone,omitempty"`
	LocationType string        `json:"location_type,omitempty"`
	Contents     []ContentLine `json:"contents"`
	Context      string        `json:"context"`
}

// ErrorResult is returned with a non-2xx status.
type ErrorResult struct {
	Error   string `json:"error"`
	Barcode string `json:"barcode,omitempty"`
}

// QuickReceiveRequest is the body of POST /api/quick-receive.
type QuickReceiveRequest struct {
	ItemID      int64  `json:"item_id"`
	LocationID  int64  `json:"location_id"`
	Quantity    int64  `json:"quantity"`
	BatchNumber string `json:"batch_number"`
}

// QuickMoveRequest is the body of POST /api/quick-move.
type QuickMoveRequest struct {
	ItemID         int64 `json:"item_id"`
	FromLocationID int64 `json:"from_location_id"`
	ToLocationID   int64 `json:"to_location_id"`
	Quantity       int64 `json:"quantity"`
}

// MutationResult is the response of both quick-receive and quick-move.
type MutationResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	NewQuantity int64  `json:"new_quantity,omitempty"`
	Error       string `json:"error,omitempty"`
}
