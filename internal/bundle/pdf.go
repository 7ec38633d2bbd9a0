package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// WritePDF writes one A4 page per image to path. Images must be PNG or JPEG.
func WritePDF(path string, images [][]byte) error {
	if len(images) == 0 {
		return errors.New("no pages to write")
	}
	tmp, err := os.MkdirTemp("", "cigen-pdf-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	paths := make([]string, 0, len(images))
	for i, img := range images {
		p := filepath.Join(tmp, fmt.Sprintf("page-%04d.png", i+1))
		if err := os.WriteFile(p, img, 0o644); err != nil {
			return fmt.Errorf("write page %d: %w", i+1, err)
		}
		paths = append(paths, p)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	// ImportImagesFile appends to an existing file.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old pdf: %w", err)
	}
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ImportImagesFile(paths, path, pdfcpu.DefaultImportConfig(), cfg); err != nil {
		return fmt.Errorf("import images: %w", err)
	}
	return nil
}
