// Package decode turns camera frames into code text. Symbology decoding
// itself is delegated to gozxing; this package only adapts frames and
// picks readers.
package decode

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoCode means the frame held no decodable code. Routine, not a fault.
var ErrNoCode = errors.New("decode: no code in frame")

// Decoder tries QR first (item labels), then 1D formats (EAN/Code 128).
type Decoder struct {
	readers []gozxing.Reader
}

func New() *Decoder {
	return &Decoder{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewMultiFormatOneDReader(nil),
		},
	}
}

// Decode returns the first code found in img.
func (d *Decoder) Decode(img image.Image) (string, error) {
	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return "", fmt.Errorf("decode: binarize frame: %w", err)
	}

	for _, reader := range d.readers {
		result, err := reader.Decode(bitmap, nil)
		reader.Reset()
		if err == nil && result.GetText() != "" {
			return result.GetText(), nil
		}
	}
	return "", ErrNoCode
}

// DecodeRGB wraps a raw RGB frame buffer without copying pixel data.
func (d *Decoder) DecodeRGB(width, height int, data []byte) (string, error) {
	img, err := imageFromRGB(width, height, data)
	if err != nil {
		return "", err
	}
	return d.Decode(img)
}

// rgbImage adapts a packed 24-bit RGB buffer to image.Image.
type rgbImage struct {
	width  int
	height int
	data   []byte
}

func imageFromRGB(width, height int, data []byte) (image.Image, error) {
	if len(data) < width*height*3 {
		return nil, fmt.Errorf("decode: short frame buffer: %d bytes for %dx%d", len(data), width, height)
	}
	return &rgbImage{width: width, height: height, data: data}, nil
}

func (m *rgbImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (m *rgbImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

func (m *rgbImage) At(x, y int) color.Color {
	i := (y*m.width + x) * 3
	return color.NRGBA{R: m.data[i], G: m.data[i+1], B: m.data[i+2], A: 0xff}
}
