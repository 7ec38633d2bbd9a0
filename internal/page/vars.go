package page

import (
	"strconv"
	"strings"
	"time"
)

// ExpandVars performs simple placeholder substitutions for letterhead text
// taken from configuration.
//
// Supported variables:
// - {.CurrentDate} => formatted as DD/MM/YYYY (local time)
// - {.CurrentYear} => four-digit year
func ExpandVars(s string, now time.Time) string {
	if !strings.Contains(s, "{.") {
		return s
	}
	r := strings.NewReplacer(
		"{.CurrentDate}", now.Format("02/01/2006"),
		"{.CurrentYear}", strconv.Itoa(now.Year()),
	)
	return r.Replace(s)
}
