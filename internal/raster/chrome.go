// Package raster captures HTML pages as images with headless Chrome.
package raster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Rasterizer turns a complete HTML document into a PNG image.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) ([]byte, error)
}

// ChromeConfig holds configuration for the headless Chrome rasterizer.
type ChromeConfig struct {
	Bin       string
	NoSandbox bool
	Width     int
	Height    int
	Scale     float64
	Timeout   time.Duration
}

// Chrome implements Rasterizer with a single headless browser shared by
// all pages. Each call opens and closes its own tab, so calls may run
// concurrently.
type Chrome struct {
	browser *rod.Browser
	width   int
	height  int
	scale   float64
	timeout time.Duration

	closeOnce sync.Once
	cleanup   func()
}

// ErrNoBrowser is returned when no Chrome/Chromium binary can be found.
var ErrNoBrowser = errors.New("no chrome or chromium binary found")

// FindBrowser returns the configured binary or one found on the system.
func FindBrowser(bin string) (string, error) {
	if strings.TrimSpace(bin) != "" {
		return bin, nil
	}
	if p, ok := launcher.LookPath(); ok {
		return p, nil
	}
	return "", ErrNoBrowser
}

// NewChrome launches headless Chrome and connects to it.
func NewChrome(ctx context.Context, cfg ChromeConfig) (*Chrome, error) {
	bin, err := FindBrowser(cfg.Bin)
	if err != nil {
		return nil, err
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 794
	}
	if height <= 0 {
		height = 1123
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 2
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	l := launcher.New().Bin(bin).Headless(true).NoSandbox(cfg.NoSandbox).Context(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	slog.Info("raster: chrome started", "bin", bin, "width", width, "height", height, "scale", scale)
	return &Chrome{
		browser: browser,
		width:   width,
		height:  height,
		scale:   scale,
		timeout: timeout,
		cleanup: l.Kill,
	}, nil
}

// Rasterize loads html into a fresh tab sized to the page and captures
// the viewport as PNG.
func (c *Chrome) Rasterize(ctx context.Context, html string) ([]byte, error) {
	if c == nil || c.browser == nil {
		return nil, errors.New("nil chrome rasterizer")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	// The tab lives on the browser context; only page work is bounded by
	// the per-page timeout.
	tab, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		if err := tab.Close(); err != nil {
			slog.Warn("raster: close tab failed", "err", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	page := tab.Context(ctx)

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             c.width,
		Height:            c.height,
		DeviceScaleFactor: c.scale,
		Mobile:            false,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}
	png, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	slog.Debug("raster: page captured", "bytes", len(png), "duration", time.Since(start))
	return png, nil
}

// Close shuts the browser down. Safe to call more than once.
func (c *Chrome) Close() error {
	if c == nil {
		return nil
	}
	var err error
	c.closeOnce.Do(func() {
		if c.browser != nil {
			err = c.browser.Close()
		}
		if c.cleanup != nil {
			c.cleanup()
		}
	})
	return err
}
