package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cigen/internal/letter"
)

func TestBuildStylesAndEscapes(t *testing.T) {
	lines := []letter.RenderedLine{
		{Text: "C.I. N° 07/AS/2026", Role: letter.RoleHeader},
		{Text: "", Role: letter.RoleBlank},
		{Text: "em favor de **Ana <Souza>**, no valor", Role: letter.RoleBody},
		{Text: "FAVOR EMPENHAR", Role: letter.RoleDirective},
	}
	lh := Letterhead{
		Title:    "Prefeitura",
		Footer:   []string{"Rodapé {.CurrentYear}", "www.example.org"},
		LinkLine: 2,
	}
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	html, err := Build(lh, Size{}, lines, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	wants := []string{
		"width: 794px",
		"height: 1123px",
		`data-role="header-justified-bold"`,
		"text-align: center; font-weight: bold; margin: 25px 0;",
		"<b>Ana &lt;Souza&gt;</b>",
		`<div style="height: 12px;"></div>`,
		"Rodapé 2026",
		`<p class="link">www.example.org</p>`,
	}
	for _, w := range wants {
		if !strings.Contains(html, w) {
			t.Errorf("html missing %q", w)
		}
	}
	if strings.Contains(html, "**") {
		t.Error("emphasis markers leaked into html")
	}
	if strings.Contains(html, "<img") {
		t.Error("unexpected logo without Logo set")
	}
}

func TestLogoDataURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	// PNG signature is enough for content sniffing.
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	uri, err := LogoDataURI(path)
	if err != nil {
		t.Fatalf("LogoDataURI: %v", err)
	}
	if !strings.HasPrefix(string(uri), "data:image/png;base64,") {
		t.Fatalf("uri = %q", uri)
	}
	html, err := Build(Letterhead{Logo: uri}, Size{Width: 100, Height: 200}, nil, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(html, `<img src="data:image/png;base64,`) {
		t.Error("logo not embedded")
	}
	if empty, err := LogoDataURI(""); err != nil || empty != "" {
		t.Errorf("empty path: %q, %v", empty, err)
	}
}

func TestExpandVars(t *testing.T) {
	now := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	if got := ExpandVars("{.CurrentDate} / {.CurrentYear}", now); got != "31/12/2025 / 2025" {
		t.Fatalf("got %q", got)
	}
	if got := ExpandVars("plain", now); got != "plain" {
		t.Fatalf("got %q", got)
	}
}
