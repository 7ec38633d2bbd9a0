package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/chai2010/webp"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		img.Set(x, 1, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestEncodePNGPassthrough(t *testing.T) {
	src := samplePNG(t)
	out, ext, err := Encode(src, "PNG", 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if ext != ".png" || !bytes.Equal(out, src) {
		t.Fatalf("ext=%s same=%v", ext, bytes.Equal(out, src))
	}
}

func TestEncodeWebP(t *testing.T) {
	out, ext, err := Encode(samplePNG(t), FormatWebP, 90)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if ext != ".webp" {
		t.Fatalf("ext = %s", ext)
	}
	img, err := webp.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	if _, _, err := Encode(samplePNG(t), "gif", 0); err == nil {
		t.Fatal("expected error")
	}
}

// openTabs reports how many page targets the browser has open.
func (c *Chrome) openTabs() (int, error) {
	pages, err := c.browser.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("short mode")
	}
	if _, err := FindBrowser(os.Getenv("CHROME_BIN")); err != nil {
		t.Skip("chrome not available")
	}
}

func TestChromeRasterize(t *testing.T) {
	requireChrome(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	c, err := NewChrome(ctx, ChromeConfig{
		Bin:       os.Getenv("CHROME_BIN"),
		NoSandbox: true,
		Width:     200,
		Height:    100,
		Scale:     1,
	})
	if err != nil {
		t.Fatalf("NewChrome: %v", err)
	}
	defer c.Close()

	out, err := c.Rasterize(ctx, "<html><body><p>ok</p></body></html>")
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestChromeClosesTabAfterTimeout(t *testing.T) {
	requireChrome(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	c, err := NewChrome(ctx, ChromeConfig{
		Bin:       os.Getenv("CHROME_BIN"),
		NoSandbox: true,
		Timeout:   time.Nanosecond,
	})
	if err != nil {
		t.Fatalf("NewChrome: %v", err)
	}
	defer c.Close()

	before, err := c.openTabs()
	if err != nil {
		t.Fatalf("openTabs: %v", err)
	}
	if _, err := c.Rasterize(ctx, "<html><body>slow</body></html>"); err == nil {
		t.Fatal("expected deadline error")
	}
	after, err := c.openTabs()
	if err != nil {
		t.Fatalf("openTabs: %v", err)
	}
	if after != before {
		t.Fatalf("open tabs = %d after timed-out render, want %d", after, before)
	}
}
