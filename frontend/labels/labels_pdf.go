package labels

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"

	"quickstock/frontend/shared/labelcode"
)

// renderItemLabelsPDF produces one A4 landscape label per item. Each
// label carries the QR payload (scanned at the station) plus a Code 128
// of the bare SKU for legacy wand scanners.
func renderItemLabelsPDF(labels []ItemLabelData, printedAt time.Time) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels to render")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Item Labels", false)

	for _, label := range labels {
		payload := labelcode.EncodeItem(label.SKU, label.CartonQty)
		qrPNG, err := renderQRPNG(payload, 600)
		if err != nil {
			return nil, err
		}
		barcodePNG, err := renderCode128PNG(label.SKU, 1200, 220)
		if err != nil {
			return nil, err
		}

		pdf.AddPage()
		name := strings.TrimSpace(label.Name)
		if name == "" {
			name = "Unnamed Item"
		}

		pdf.SetFont("Helvetica", "B", 48)
		skuFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 48, 24, label.SKU, 260)
		pdf.SetFont("Helvetica", "B", skuFont)
		pdf.CellFormat(0, 22, label.SKU, "", 1, "C", false, 0, "")

		nameFont := fitFontSizeForWidth(pdf, "Helvetica", "", 24, 12, name, 260)
		pdf.SetFont("Helvetica", "", nameFont)
		pdf.CellFormat(0, 12, name, "", 1, "C", false, 0, "")

		cartonText := "Qty/carton: not set"
		if label.CartonQty > 0 {
			cartonText = "Qty/carton: " + strconv.FormatInt(label.CartonQty, 10) + " " + label.Unit
		}
		pdf.SetFont("Helvetica", "", 16)
		pdf.CellFormat(0, 9, cartonText, "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 9, "Printed: "+printedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")

		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pageW, _ := pdf.GetPageSize()

		qrName := fmt.Sprintf("item-qr-%d", label.ItemID)
		pdf.RegisterImageOptionsReader(qrName, opt, bytes.NewReader(qrPNG))
		qrSize := 70.0
		pdf.ImageOptions(qrName, (pageW-qrSize)/2, 66, qrSize, qrSize, false, opt, 0, "")

		barName := fmt.Sprintf("item-barcode-%d", label.ItemID)
		pdf.RegisterImageOptionsReader(barName, opt, bytes.NewReader(barcodePNG))
		imgW := 200.0
		imgH := 36.0
		pdf.ImageOptions(barName, (pageW-imgW)/2, 142, imgW, imgH, false, opt, 0, "")

		pdf.SetY(182)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, payload, "", 1, "C", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// renderLocationLabelsPDF produces one A4 landscape label per location
// with a Code 128 of the framed location code.
func renderLocationLabelsPDF(labels []LocationLabelData, printedAt time.Time) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels to render")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Location Labels", false)

	for _, label := range labels {
		framed := labelcode.EncodeLocation(label.Code)
		barcodePNG, err := renderCode128PNG(framed, 1200, 260)
		if err != nil {
			return nil, err
		}

		pdf.AddPage()
		name := strings.TrimSpace(label.Name)
		if name == "" {
			name = "Unnamed Location"
		}

		codeFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 64, 28, label.Code, 260)
		pdf.SetFont("Helvetica", "B", codeFont)
		pdf.CellFormat(0, 30, label.Code, "", 1, "C", false, 0, "")

		nameFont := fitFontSizeForWidth(pdf, "Helvetica", "", 22, 12, name, 260)
		pdf.SetFont("Helvetica", "", nameFont)
		pdf.CellFormat(0, 12, name, "", 1, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 16)
		pdf.CellFormat(0, 9, "Printed: "+printedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")

		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := fmt.Sprintf("location-barcode-%d", label.LocationID)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		pageW, _ := pdf.GetPageSize()
		imgW := 240.0
		imgH := 56.0
		x := (pageW - imgW) / 2
		y := 112.0
		pdf.ImageOptions(imageName, x, y, imgW, imgH, false, opt, 0, "")

		pdf.SetY(y + imgH + 6)
		pdf.SetFont("Helvetica", "B", 24)
		pdf.CellFormat(0, 12, framed, "", 1, "C", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var barcodePNG bytes.Buffer
	if err := png.Encode(&barcodePNG, normalized); err != nil {
		return nil, err
	}
	return barcodePNG.Bytes(), nil
}

func renderQRPNG(value string, size int) ([]byte, error) {
	code, err := qr.Encode(value, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var qrPNG bytes.Buffer
	if err := png.Encode(&qrPNG, normalized); err != nil {
		return nil, err
	}
	return qrPNG.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
