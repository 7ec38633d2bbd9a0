package batch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"cigen/internal/letter"
	"cigen/internal/model"
	"cigen/internal/page"

	"github.com/google/go-cmp/cmp"
)

// fakeRasterizer returns a tiny PNG and records the HTML it was given.
type fakeRasterizer struct {
	mu    sync.Mutex
	htmls []string
	fail  string // fail when the html contains this text
	png   []byte
}

func newFake(t *testing.T) *fakeRasterizer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("png: %v", err)
	}
	return &fakeRasterizer{png: buf.Bytes()}
}

func (f *fakeRasterizer) Rasterize(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	f.htmls = append(f.htmls, html)
	f.mu.Unlock()
	if f.fail != "" && strings.Contains(html, f.fail) {
		return nil, errors.New("boom")
	}
	return f.png, nil
}

func records() []model.FieldRecord {
	return []model.FieldRecord{
		{Numero: "01", NomeCompleto: "Ana Souza", Data1: "05/01", Data2: "05/02"},
		{Numero: "02", NomeCompleto: "Bia Lima", Data1: "06/01", Data2: "06/02"},
		{Numero: "03", NomeCompleto: "Ana Souza", Data1: "07/01", Data2: "07/02"},
		{Numero: "04", NomeCompleto: "a/b", Data1: "08/01", Data2: "08/02"},
	}
}

func TestRunKeepsOrderAndNamesFiles(t *testing.T) {
	fake := newFake(t)
	var progress []int
	var mu sync.Mutex
	r := &Runner{
		Rasterizer:  fake,
		Letterhead:  page.Letterhead{Title: "Prefeitura"},
		Classifier:  letter.Default,
		Concurrency: 3,
		Progress: func(done, total int) {
			mu.Lock()
			progress = append(progress, done)
			mu.Unlock()
			if total != 4 {
				t.Errorf("total = %d", total)
			}
		},
	}
	rep := r.Run(context.Background(), letter.DefaultTemplate(), records())
	if rep.ID == "" {
		t.Error("missing batch id")
	}
	if rep.OK != 4 || rep.Failed != 0 {
		t.Fatalf("ok=%d failed=%d", rep.OK, rep.Failed)
	}
	var names []string
	for _, f := range rep.Files() {
		names = append(names, f.FileName())
	}
	want := []string{"Ana Souza.png", "Bia Lima.png", "Ana Souza (2).png", "a b.png"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if len(progress) != 4 {
		t.Fatalf("progress calls = %d", len(progress))
	}
	if len(rep.Pages()) != 4 {
		t.Fatalf("pages = %d", len(rep.Pages()))
	}
	for _, html := range fake.htmls {
		if strings.Contains(html, "&lt;&lt;") || strings.Contains(html, "**") {
			t.Fatalf("unfilled or unstyled markup in page:\n%s", html)
		}
	}
}

func TestRunCapturesPerRecordFailures(t *testing.T) {
	fake := newFake(t)
	fake.fail = "Bia Lima"
	r := &Runner{Rasterizer: fake, Classifier: letter.Default, Concurrency: 2}
	rep := r.Run(context.Background(), letter.DefaultTemplate(), records())
	if rep.OK != 3 || rep.Failed != 1 {
		t.Fatalf("ok=%d failed=%d", rep.OK, rep.Failed)
	}
	if rep.Results[1].Err == nil || rep.Results[1].Index != 1 {
		t.Fatalf("result 1 = %+v", rep.Results[1])
	}
	if len(rep.Files()) != 3 {
		t.Fatalf("files = %d", len(rep.Files()))
	}
}

func TestRunWebP(t *testing.T) {
	r := &Runner{Rasterizer: newFake(t), Classifier: letter.Default, Format: "webp", Quality: 80}
	rep := r.Run(context.Background(), "<<NOME COMPLETO>>", records()[:1])
	if rep.OK != 1 {
		t.Fatalf("err = %v", rep.Results[0].Err)
	}
	if f := rep.Files()[0]; f.Ext != ".webp" || len(f.Data) == 0 {
		t.Fatalf("file = %+v", f)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Rasterizer: newFake(t), Classifier: letter.Default}
	rep := r.Run(ctx, "x", records())
	if rep.Failed != 4 {
		t.Fatalf("failed = %d", rep.Failed)
	}
	if !errors.Is(rep.Results[0].Err, context.Canceled) {
		t.Fatalf("err = %v", rep.Results[0].Err)
	}
}
