// Package letter fills letter templates and classifies each resulting line
// into a layout role.
package letter

import (
	_ "embed"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"cigen/internal/model"
)

// Recognised placeholder tokens. Matching is literal and case-sensitive.
const (
	PlaceholderNumero       = "<<NUMERO>>"
	PlaceholderNomeCompleto = "<<NOME COMPLETO>>"
	PlaceholderData1        = "<<DATA1>>"
	PlaceholderData2        = "<<DATA2>>"
)

// Placeholders lists the recognised tokens in substitution order.
var Placeholders = []string{
	PlaceholderNumero,
	PlaceholderNomeCompleto,
	PlaceholderData1,
	PlaceholderData2,
}

//go:embed default_template.txt
var defaultTemplate string

// DefaultTemplate returns the built-in letter used when nothing was saved.
func DefaultTemplate() string {
	return defaultTemplate
}

// ValuesFor maps the record onto the placeholder tokens.
func ValuesFor(rec model.FieldRecord) map[string]string {
	return map[string]string{
		PlaceholderNumero:       rec.Numero,
		PlaceholderNomeCompleto: rec.NomeCompleto,
		PlaceholderData1:        rec.Data1,
		PlaceholderData2:        rec.Data2,
	}
}

// SubstitutePlaceholders replaces every occurrence of each recognised token
// that has a value in values. Tokens without a value, and any other <<...>>
// text, are left as they are. Replacement values are not rescanned.
func SubstitutePlaceholders(template string, values map[string]string) string {
	pairs := make([]string, 0, 2*len(Placeholders))
	for _, p := range Placeholders {
		if v, ok := values[p]; ok {
			pairs = append(pairs, p, v)
		}
	}
	if len(pairs) == 0 {
		return template
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Residual returns the recognised tokens still present in text.
func Residual(text string) []string {
	var out []string
	for _, p := range Placeholders {
		if strings.Contains(text, p) {
			out = append(out, p)
		}
	}
	return out
}

var tokenPattern = regexp.MustCompile(`<<[^<>\n]*>>`)

// UnknownTokens returns the distinct <<...>> tokens in text that are not
// recognised placeholders, in order of first appearance.
func UnknownTokens(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if seen[tok] || slices.Contains(Placeholders, tok) {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Markers are the fixed phrases the classifier looks for.
type Markers struct {
	Directive      string `mapstructure:"directive" yaml:"directive"`
	Header         string `mapstructure:"header" yaml:"header"`
	SignatureTitle string `mapstructure:"signature_title" yaml:"signature_title"`
	Closing        string `mapstructure:"closing" yaml:"closing"`
}

// DefaultMarkers matches the built-in template.
var DefaultMarkers = Markers{
	Directive:      "FAVOR EMPENHAR",
	Header:         "C.I. N°",
	SignatureTitle: "Secretária Municipal de Assistência Social",
	Closing:        "Atenciosamente",
}

// Merge returns m with empty fields taken from fallback.
func (m Markers) Merge(fallback Markers) Markers {
	if m.Directive == "" {
		m.Directive = fallback.Directive
	}
	if m.Header == "" {
		m.Header = fallback.Header
	}
	if m.SignatureTitle == "" {
		m.SignatureTitle = fallback.SignatureTitle
	}
	if m.Closing == "" {
		m.Closing = fallback.Closing
	}
	return m
}

// Classifier assigns layout roles to lines.
type Classifier struct {
	Markers Markers
	// Heuristic enables the all-caps signature-name rule. Explicit [[role]]
	// annotations are honoured either way.
	Heuristic bool
}

// NewClassifier returns a classifier with the all-caps heuristic enabled.
func NewClassifier(m Markers) Classifier {
	return Classifier{Markers: m.Merge(DefaultMarkers), Heuristic: true}
}

// Default is the classifier for the built-in template.
var Default = NewClassifier(DefaultMarkers)

// ClassifyLine classifies line with the default markers.
func ClassifyLine(line string) LineRole {
	return Default.ClassifyLine(line)
}

// ClassifyLine applies the rules in precedence order; the first match wins.
func (c Classifier) ClassifyLine(line string) LineRole {
	switch {
	case contains(line, c.Markers.Directive):
		return RoleDirective
	case contains(line, c.Markers.Header):
		return RoleHeader
	case c.Heuristic && isUpperLine(line):
		return RoleSignatureName
	case contains(line, c.Markers.SignatureTitle):
		return RoleSignatureTitle
	case contains(line, c.Markers.Closing):
		return RoleClosing
	case strings.TrimSpace(line) == "":
		return RoleBlank
	default:
		return RoleBody
	}
}

// Classify splits text into lines and classifies each one. A line starting
// with a [[role]] annotation takes that role and loses the annotation.
func (c Classifier) Classify(text string) []RenderedLine {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]RenderedLine, 0, len(lines))
	for _, l := range lines {
		if role, rest, ok := annotated(l); ok {
			out = append(out, RenderedLine{Text: rest, Role: role})
			continue
		}
		out = append(out, RenderedLine{Text: l, Role: c.ClassifyLine(l)})
	}
	return out
}

// Render substitutes values into template and classifies the result.
func (c Classifier) Render(template string, values map[string]string) []RenderedLine {
	return c.Classify(SubstitutePlaceholders(template, values))
}

// RenderRecord fills template from rec, emphasising the full name.
func (c Classifier) RenderRecord(template string, rec model.FieldRecord) []RenderedLine {
	values := ValuesFor(rec)
	values[PlaceholderNomeCompleto] = Emphasize(rec.NomeCompleto)
	return c.Render(template, values)
}

// Render fills and classifies template with the default classifier.
func Render(template string, values map[string]string) []RenderedLine {
	return Default.Render(template, values)
}

func contains(line, marker string) bool {
	return marker != "" && strings.Contains(line, marker)
}

// isUpperLine reports a non-blank line with at least one letter and no
// lower-case letters.
func isUpperLine(line string) bool {
	hasLetter := false
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		hasLetter = true
	}
	return hasLetter
}

func annotated(line string) (LineRole, string, bool) {
	s := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(s, "[[") {
		return "", "", false
	}
	end := strings.Index(s, "]]")
	if end < 0 {
		return "", "", false
	}
	role, err := ParseRole(strings.TrimSpace(s[2:end]))
	if err != nil {
		return "", "", false
	}
	rest := strings.TrimPrefix(s[end+2:], " ")
	return role, rest, true
}
