package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"strings"

	"github.com/chai2010/webp"
)

// Supported output formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Encode converts a PNG capture to the requested format. It returns the
// encoded bytes and the file extension to use, including the dot.
func Encode(png []byte, format string, quality int) ([]byte, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPNG:
		return png, ".png", nil
	case FormatWebP:
		img, _, err := image.Decode(bytes.NewReader(png))
		if err != nil {
			return nil, "", fmt.Errorf("decode image: %w", err)
		}
		if quality <= 0 || quality > 100 {
			quality = 85
		}
		var buf bytes.Buffer
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, "", fmt.Errorf("encode webp: %w", err)
		}
		return buf.Bytes(), ".webp", nil
	default:
		return nil, "", fmt.Errorf("unsupported image format %q", format)
	}
}
