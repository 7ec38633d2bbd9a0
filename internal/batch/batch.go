// Package batch renders one letter image per spreadsheet record.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cigen/internal/bundle"
	"cigen/internal/letter"
	"cigen/internal/model"
	"cigen/internal/page"
	"cigen/internal/raster"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runner drives template filling, page layout, rasterization and encoding
// for a set of records.
type Runner struct {
	Rasterizer  raster.Rasterizer
	Letterhead  page.Letterhead
	Size        page.Size
	Classifier  letter.Classifier
	Format      string // png or webp
	Quality     int    // webp quality
	Concurrency int
	// Progress, if set, is called after each record with the number finished.
	Progress func(done, total int)
	// Now defaults to time.Now; used for letterhead variables.
	Now func() time.Time
}

// Result is the outcome for one record. Exactly one of Err or File is set.
type Result struct {
	Index  int
	Record model.FieldRecord
	File   bundle.File
	// PNG is the raw capture, kept for PDF assembly.
	PNG []byte
	Err error
}

// Report collects the results of one Run, in input order.
type Report struct {
	ID      string
	Results []Result
	OK      int
	Failed  int
}

// Files returns the successful images with unique, sanitized names.
func (r Report) Files() []bundle.File {
	var files []bundle.File
	for _, res := range r.Results {
		if res.Err == nil {
			files = append(files, res.File)
		}
	}
	return files
}

// Pages returns the PNG captures of the successful records, in order.
func (r Report) Pages() [][]byte {
	var pages [][]byte
	for _, res := range r.Results {
		if res.Err == nil {
			pages = append(pages, res.PNG)
		}
	}
	return pages
}

// Run renders every record. A failing record never stops the others.
func (r *Runner) Run(ctx context.Context, template string, records []model.FieldRecord) Report {
	rep := Report{
		ID:      uuid.NewString(),
		Results: make([]Result, len(records)),
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = 1
	}
	start := time.Now()
	slog.Info("batch: starting", "batch", rep.ID, "records", len(records), "concurrency", limit)

	var (
		mu   sync.Mutex
		done int
	)
	var g errgroup.Group
	g.SetLimit(limit)
	for i, rec := range records {
		g.Go(func() error {
			res := Result{Index: i, Record: rec}
			res.PNG, res.File, res.Err = r.renderOne(ctx, template, rec, now())
			if res.Err != nil {
				slog.Warn("batch: record failed", "batch", rep.ID, "row", i+2, "name", rec.NomeCompleto, "err", res.Err)
			}
			rep.Results[i] = res

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			if r.Progress != nil {
				r.Progress(n, len(records))
			}
			return nil
		})
	}
	_ = g.Wait()

	okIdx := make([]int, 0, len(records))
	names := make([]string, 0, len(records))
	for i, res := range rep.Results {
		if res.Err != nil {
			rep.Failed++
			continue
		}
		rep.OK++
		okIdx = append(okIdx, i)
		names = append(names, res.File.Name)
	}
	for k, name := range bundle.UniqueNames(names) {
		rep.Results[okIdx[k]].File.Name = name
	}
	slog.Info("batch: finished", "batch", rep.ID, "ok", rep.OK, "failed", rep.Failed, "duration", time.Since(start))
	return rep
}

func (r *Runner) renderOne(ctx context.Context, template string, rec model.FieldRecord, now time.Time) ([]byte, bundle.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, bundle.File{}, err
	}
	if r.Rasterizer == nil {
		return nil, bundle.File{}, errors.New("no rasterizer configured")
	}
	lines := r.Classifier.RenderRecord(template, rec)
	html, err := page.Build(r.Letterhead, r.Size, lines, now)
	if err != nil {
		return nil, bundle.File{}, fmt.Errorf("build page: %w", err)
	}
	png, err := r.Rasterizer.Rasterize(ctx, html)
	if err != nil {
		return nil, bundle.File{}, fmt.Errorf("rasterize: %w", err)
	}
	data, ext, err := raster.Encode(png, r.Format, r.Quality)
	if err != nil {
		return nil, bundle.File{}, err
	}
	return png, bundle.File{
		Name: bundle.SanitizeFileName(rec.NomeCompleto),
		Ext:  ext,
		Data: data,
	}, nil
}
