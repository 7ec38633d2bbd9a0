package letter

import "fmt"

// LineRole tags a rendered line with how the page layout should style it.
type LineRole string

const (
	RoleDirective      LineRole = "directive-centered-bold"
	RoleHeader         LineRole = "header-justified-bold"
	RoleSignatureName  LineRole = "signature-name-centered-bold"
	RoleSignatureTitle LineRole = "signature-title-centered"
	RoleClosing        LineRole = "closing-spaced"
	RoleBlank          LineRole = "blank-spacer"
	RoleBody           LineRole = "body-justified"
)

// Roles lists every role in classification precedence order.
var Roles = []LineRole{
	RoleDirective,
	RoleHeader,
	RoleSignatureName,
	RoleSignatureTitle,
	RoleClosing,
	RoleBlank,
	RoleBody,
}

// annotation names accepted in a leading [[name]] tag.
var annotations = map[string]LineRole{
	"directive":       RoleDirective,
	"header":          RoleHeader,
	"signature-name":  RoleSignatureName,
	"signature-title": RoleSignatureTitle,
	"closing":         RoleClosing,
	"blank":           RoleBlank,
	"body":            RoleBody,
}

// ParseRole resolves either a full role tag or its short annotation name.
func ParseRole(s string) (LineRole, error) {
	if r, ok := annotations[s]; ok {
		return r, nil
	}
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown line role %q", s)
}

// RenderedLine is one classified line of a filled letter.
type RenderedLine struct {
	Text string   `json:"text"`
	Role LineRole `json:"role"`
}
