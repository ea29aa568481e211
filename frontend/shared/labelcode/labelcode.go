package labelcode

import (
	"strconv"
	"strings"
)

// Printed label framing. Location labels carry "LOC-<code>" so a rack
// label is never mistaken for a SKU that happens to look like one.
// Item labels carry a QR payload "QS1|<sku>|<qty-per-carton>"; the qty
// part is omitted when the carton quantity is unknown.
const (
	LocationPrefix = "LOC-"
	SKUPrefix      = "SKU-"
	itemPayloadTag = "QS1"
	separator      = "|"
)

// EncodeLocation frames a location code for a printed barcode.
func EncodeLocation(code string) string {
	return LocationPrefix + strings.ToUpper(strings.TrimSpace(code))
}

// EncodeItem builds the QR payload for an item label.
func EncodeItem(sku string, cartonQty int64) string {
	if cartonQty > 0 {
		return itemPayloadTag + separator + sku + separator + strconv.FormatInt(cartonQty, 10)
	}
	return itemPayloadTag + separator + sku
}

// ParseItem decodes an item QR payload. ok is false when the code is
// not a QS1 payload at all.
func ParseItem(code string) (sku string, cartonQty int64, ok bool) {
	parts := strings.Split(strings.TrimSpace(code), separator)
	if len(parts) < 2 || parts[0] != itemPayloadTag {
		return "", 0, false
	}
	sku = strings.TrimSpace(parts[1])
	if sku == "" {
		return "", 0, false
	}
	if len(parts) >= 3 {
		qty, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
		if err == nil && qty > 0 {
			cartonQty = qty
		}
	}
	return sku, cartonQty, true
}

// StripLocationPrefix removes the printed "LOC-" framing and upper-cases
// the remainder, which is how location codes are stored.
func StripLocationPrefix(code string) string {
	code = strings.TrimSpace(code)
	if len(code) >= len(LocationPrefix) && strings.EqualFold(code[:len(LocationPrefix)], LocationPrefix) {
		code = code[len(LocationPrefix):]
	}
	return strings.ToUpper(code)
}

// StripSKUPrefix removes the optional "SKU-" framing some suppliers print.
func StripSKUPrefix(code string) string {
	code = strings.TrimSpace(code)
	if len(code) >= len(SKUPrefix) && strings.EqualFold(code[:len(SKUPrefix)], SKUPrefix) {
		code = code[len(SKUPrefix):]
	}
	return code
}
