// Package templatefile loads letter templates stored as text files with an
// optional YAML frontmatter block.
package templatefile

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"cigen/internal/letter"

	"gopkg.in/yaml.v3"
)

// Meta is the typed part of the frontmatter.
type Meta struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Markers     letter.Markers `yaml:"markers"`
	// CapsHeuristic overrides the all-caps signature rule when set.
	CapsHeuristic *bool `yaml:"caps_heuristic"`
}

// File is a template with its frontmatter.
type File struct {
	Frontmatter map[string]any
	Meta        Meta
	Body        string
}

// Classifier builds the classifier this file asks for on top of base.
func (f File) Classifier(base letter.Classifier) letter.Classifier {
	c := base
	c.Markers = f.Meta.Markers.Merge(base.Markers)
	if f.Meta.CapsHeuristic != nil {
		c.Heuristic = *f.Meta.CapsHeuristic
	}
	return c
}

// ParseFile reads a template file from disk.
func ParseFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse splits r into frontmatter and body. Frontmatter is expected at the
// top, between two lines containing only "---". Without it the whole input
// is the body.
func Parse(r io.Reader) (File, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return File{}, err
	}
	hasFM := string(peek) == "---"

	var fmBuf, bodyBuf strings.Builder
	if hasFM {
		// opening fence
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return File{}, err
		}
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return File{}, err
			}
			if strings.TrimSpace(l) == "---" {
				break
			}
			fmBuf.WriteString(l)
			if errors.Is(err, io.EOF) {
				break
			}
		}
	}
	if _, err := io.Copy(&bodyBuf, br); err != nil {
		return File{}, err
	}

	out := File{
		Frontmatter: map[string]any{},
		Body:        strings.TrimPrefix(bodyBuf.String(), "\n"),
	}
	if !hasFM {
		out.Body = bodyBuf.String()
		return out, nil
	}
	if err := yaml.Unmarshal([]byte(fmBuf.String()), &out.Frontmatter); err != nil {
		return File{}, err
	}
	if err := yaml.Unmarshal([]byte(fmBuf.String()), &out.Meta); err != nil {
		return File{}, err
	}
	if out.Frontmatter == nil {
		out.Frontmatter = map[string]any{}
	}
	return out, nil
}

// Load returns the template body and classifier for path.
func Load(path string, base letter.Classifier) (string, letter.Classifier, error) {
	f, err := ParseFile(path)
	if err != nil {
		return "", base, err
	}
	return f.Body, f.Classifier(base), nil
}
