package templatefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cigen/internal/letter"
)

func TestParseWithFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "ci.txt")
	content := "" +
		"---\n" +
		"name: auxilio-aluguel\n" +
		"markers:\n" +
		"  directive: \"FAVOR PAGAR\"\n" +
		"caps_heuristic: false\n" +
		"---\n\n" +
		"C.I. N° <<NUMERO>>/AS/2026\n\nFAVOR PAGAR NA FICHA 1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	for _, k := range []string{"name", "markers", "caps_heuristic"} {
		if _, ok := f.Frontmatter[k]; !ok {
			t.Errorf("missing %s in frontmatter", k)
		}
	}
	if f.Meta.Name != "auxilio-aluguel" {
		t.Errorf("name = %q", f.Meta.Name)
	}
	if !strings.HasPrefix(f.Body, "C.I. N° <<NUMERO>>") {
		t.Errorf("body = %q", f.Body)
	}

	c := f.Classifier(letter.Default)
	if c.Heuristic {
		t.Error("caps heuristic should be disabled")
	}
	if c.Markers.Directive != "FAVOR PAGAR" || c.Markers.Closing != letter.DefaultMarkers.Closing {
		t.Errorf("markers = %+v", c.Markers)
	}
	if got := c.ClassifyLine("FAVOR PAGAR NA FICHA 1"); got != letter.RoleDirective {
		t.Errorf("directive line role = %s", got)
	}
}

func TestParseWithoutFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "plain.txt")
	body := "C.I. N° <<NUMERO>>\n\nAtenciosamente,\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if len(f.Frontmatter) != 0 {
		t.Fatalf("expected empty frontmatter, got: %+v", f.Frontmatter)
	}
	if f.Body != body {
		t.Errorf("body mismatch.\nwant: %q\n got: %q", body, f.Body)
	}
	c := f.Classifier(letter.Default)
	if c != letter.Default {
		t.Errorf("classifier changed without frontmatter: %+v", c)
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse(strings.NewReader("---\nmarkers: [unclosed\n---\nbody\n"))
	if err == nil {
		t.Fatal("expected yaml error")
	}
}
