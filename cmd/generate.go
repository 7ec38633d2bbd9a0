package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cigen/internal/batch"
	"cigen/internal/bundle"
	"cigen/internal/config"
	"cigen/internal/letter"
	"cigen/internal/model"
	"cigen/internal/page"
	"cigen/internal/raster"
	"cigen/internal/sheet"

	"github.com/spf13/cobra"
)

var (
	genSheet       string
	genTemplate    string
	genOutDir      string
	genFormat      string
	genPDF         bool
	genConcurrency int
)

// generateCmd renders one memo image per spreadsheet row and zips them.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate memo images from a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if genOutDir != "" {
			cfg.Output.Dir = genOutDir
		}
		if genFormat != "" {
			cfg.Render.Format = genFormat
		}
		if genConcurrency > 0 {
			cfg.Render.Concurrency = genConcurrency
		}
		if cmd.Flags().Changed("pdf") {
			cfg.Output.PDF = genPDF
		}

		records, err := sheet.ReadFieldRecords(genSheet)
		if err != nil {
			return err
		}
		if err := sheet.ValidateFieldRecords(records); err != nil {
			var verr *sheet.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintln(cmd.ErrOrStderr(), p)
				}
			}
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		tmpl, classifier, err := loadTemplate(ctx, cfg, genTemplate)
		if err != nil {
			return err
		}
		warnUnknownTokens(tmpl)

		out := cmd.ErrOrStderr()
		rep, err := generateBundle(ctx, cfg, tmpl, classifier, records, func(done, total int) {
			fmt.Fprintf(out, "\rGerando %d/%d", done, total)
			if done == total {
				fmt.Fprintln(out)
			}
		})
		if err != nil {
			return err
		}
		for _, res := range rep.Results {
			if res.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "row %d (%s): %v\n", res.Index+2, res.Record.NomeCompleto, res.Err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d memos generated into %s\n", rep.OK, len(records), cfg.Output.Dir)
		if rep.OK == 0 {
			return errors.New("no memo could be generated")
		}
		return nil
	},
}

// warnUnknownTokens logs template tokens that no spreadsheet column fills.
func warnUnknownTokens(tmpl string) {
	if left := letter.UnknownTokens(tmpl); len(left) > 0 {
		slog.Warn("template has unknown placeholders", "tokens", left)
	}
}

func parseTimeout(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		slog.Warn("invalid duration, using default", "value", s, "err", err)
		return 30 * time.Second
	}
	return d
}

// newRunner starts the browser and assembles a batch runner from cfg.
// The returned func releases the browser.
func newRunner(ctx context.Context, cfg config.Config, classifier letter.Classifier) (*batch.Runner, func(), error) {
	logo, err := page.LogoDataURI(cfg.Letterhead.LogoPath)
	if err != nil {
		return nil, nil, err
	}
	chrome, err := raster.NewChrome(ctx, raster.ChromeConfig{
		Bin:       cfg.Render.ChromeBin,
		NoSandbox: cfg.Render.NoSandbox,
		Width:     cfg.Render.Width,
		Height:    cfg.Render.Height,
		Scale:     cfg.Render.Scale,
		Timeout:   parseTimeout(cfg.Render.Timeout),
	})
	if err != nil {
		return nil, nil, err
	}
	r := &batch.Runner{
		Rasterizer: chrome,
		Letterhead: page.Letterhead{
			Logo:     logo,
			Title:    cfg.Letterhead.Title,
			Subtitle: cfg.Letterhead.Subtitle,
			Footer:   cfg.Letterhead.Footer,
			LinkLine: cfg.Letterhead.LinkLine,
		},
		Size:        page.Size{Width: cfg.Render.Width, Height: cfg.Render.Height},
		Classifier:  classifier,
		Format:      cfg.Render.Format,
		Quality:     cfg.Render.WebPQuality,
		Concurrency: cfg.Render.Concurrency,
	}
	return r, func() { _ = chrome.Close() }, nil
}

// generateBundle renders records and writes the zip, plus the PDF when
// enabled, into cfg.Output.Dir.
func generateBundle(ctx context.Context, cfg config.Config, tmpl string, classifier letter.Classifier, records []model.FieldRecord, progress func(done, total int)) (batch.Report, error) {
	runner, release, err := newRunner(ctx, cfg, classifier)
	if err != nil {
		return batch.Report{}, err
	}
	defer release()
	runner.Progress = progress

	rep := runner.Run(ctx, tmpl, records)
	if rep.OK == 0 {
		return rep, nil
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return rep, fmt.Errorf("create output dir: %w", err)
	}
	zipPath := filepath.Join(cfg.Output.Dir, cfg.Output.ZipName)
	if err := bundle.WriteZipFile(zipPath, rep.Files()); err != nil {
		return rep, err
	}
	slog.Info("zip written", "batch", rep.ID, "path", zipPath, "files", rep.OK)
	if cfg.Output.PDF {
		pdfPath := filepath.Join(cfg.Output.Dir, cfg.Output.PDFName)
		if err := bundle.WritePDF(pdfPath, rep.Pages()); err != nil {
			return rep, err
		}
		slog.Info("pdf written", "batch", rep.ID, "path", pdfPath, "pages", rep.OK)
	}
	return rep, nil
}

func init() {
	generateCmd.Flags().StringVar(&genSheet, "sheet", "", "spreadsheet with NUMERO, NOME COMPLETO, DATA1 and DATA2 columns")
	generateCmd.Flags().StringVar(&genTemplate, "template", "", "template file (default: saved template or built-in letter)")
	generateCmd.Flags().StringVar(&genOutDir, "out", "", "output directory (default from config)")
	generateCmd.Flags().StringVar(&genFormat, "format", "", "image format: png or webp")
	generateCmd.Flags().BoolVar(&genPDF, "pdf", false, "also write a single PDF with one page per memo")
	generateCmd.Flags().IntVar(&genConcurrency, "concurrency", 0, "pages rendered in parallel")
	_ = generateCmd.MarkFlagRequired("sheet")
	rootCmd.AddCommand(generateCmd)
}
