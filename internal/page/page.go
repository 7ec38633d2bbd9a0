// Package page lays out classified letter lines as a single A4 HTML page.
package page

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"cigen/internal/letter"
)

// A4 at 96 dpi.
const (
	DefaultWidth  = 794
	DefaultHeight = 1123
	// 3cm side margin at 96 dpi.
	sideMargin = 113
)

// roleStyles is the visual treatment of each line role.
var roleStyles = map[letter.LineRole]template.CSS{
	letter.RoleDirective:      "text-align: center; font-weight: bold; margin: 25px 0;",
	letter.RoleHeader:         "margin: 6px 0; text-align: justify; font-weight: bold;",
	letter.RoleSignatureName:  "font-weight: bold; margin: 2px 0; text-align: center;",
	letter.RoleSignatureTitle: "margin: 2px 0; text-align: center;",
	letter.RoleClosing:        "margin: 25px 0 40px 0;",
	letter.RoleBlank:          "height: 12px;",
	letter.RoleBody:           "margin: 6px 0; text-align: justify;",
}

// Style returns the CSS applied to lines of role.
func Style(role letter.LineRole) template.CSS {
	if s, ok := roleStyles[role]; ok {
		return s
	}
	return roleStyles[letter.RoleBody]
}

// Letterhead is the header and footer repeated on every page.
type Letterhead struct {
	Logo     template.URL
	Title    string
	Subtitle string
	Footer   []string
	// LinkLine is the 1-based footer line styled as a link; 0 for none.
	LinkLine int
}

// LogoDataURI reads an image file into a data URI usable as Letterhead.Logo.
func LogoDataURI(path string) (template.URL, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read logo: %w", err)
	}
	mime := http.DetectContentType(b)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)), nil
}

// Size is the page size in CSS pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

type line struct {
	Role     letter.LineRole
	Style    template.CSS
	Blank    bool
	Segments []letter.Segment
}

type footerLine struct {
	Text string
	Link bool
}

type data struct {
	Width      int
	Height     int
	SideMargin int
	Logo       template.URL
	Title      string
	Subtitle   string
	Lines      []line
	Footer     []footerLine
}

//go:embed page.tmpl
var pageTpl string

var compiled = template.Must(template.New("page").Parse(pageTpl))

// Build renders lines into a complete HTML document. Text is escaped;
// emphasis markers become bold runs.
func Build(lh Letterhead, size Size, lines []letter.RenderedLine, now time.Time) (string, error) {
	size = size.orDefault()
	d := data{
		Width:      size.Width,
		Height:     size.Height,
		SideMargin: sideMargin,
		Logo:       lh.Logo,
		Title:      ExpandVars(lh.Title, now),
		Subtitle:   ExpandVars(lh.Subtitle, now),
		Lines:      make([]line, 0, len(lines)),
		Footer:     make([]footerLine, 0, len(lh.Footer)),
	}
	for _, l := range lines {
		d.Lines = append(d.Lines, line{
			Role:     l.Role,
			Style:    Style(l.Role),
			Blank:    l.Role == letter.RoleBlank,
			Segments: letter.Segments(l.Text),
		})
	}
	for i, f := range lh.Footer {
		d.Footer = append(d.Footer, footerLine{Text: ExpandVars(f, now), Link: i+1 == lh.LinkLine})
	}
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
