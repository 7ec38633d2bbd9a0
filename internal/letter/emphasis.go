package letter

import "strings"

// EmphasisMarker delimits bold runs inside a line.
const EmphasisMarker = "**"

// Emphasize wraps s in emphasis markers. Blank values are returned as is.
func Emphasize(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return EmphasisMarker + s + EmphasisMarker
}

// Segment is a run of text with uniform weight.
type Segment struct {
	Text string
	Bold bool
}

// Segments splits text on emphasis markers. An unmatched trailing marker is
// kept as literal text.
func Segments(text string) []Segment {
	parts := strings.Split(text, EmphasisMarker)
	if len(parts)%2 == 0 {
		last := len(parts) - 1
		parts[last-1] = parts[last-1] + EmphasisMarker + parts[last]
		parts = parts[:last]
	}
	out := make([]Segment, 0, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, Segment{Text: p, Bold: i%2 == 1})
	}
	return out
}

// Plain strips emphasis markers.
func Plain(text string) string {
	var b strings.Builder
	for _, s := range Segments(text) {
		b.WriteString(s.Text)
	}
	return b.String()
}
