// Package dateshift advances dd/mm dates by one calendar month.
//
// Dates carry no year. The caller supplies a reference year which is only
// used to decide whether February has 28 or 29 days.
package dateshift

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cigen/internal/model"
)

var (
	// ErrInvalidMonth is the panic value for a month outside 1..12.
	ErrInvalidMonth = errors.New("month out of range 1..12")
	// ErrMalformedDate reports a string that is not two numeric parts split by '/'.
	ErrMalformedDate = errors.New("malformed dd/mm date")
)

// DateRecord is a parsed dd/mm value. Label keeps the original text.
type DateRecord struct {
	Label string
	Day   int
	Month int
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// LastDayOfMonth returns the number of days in month (1..12) of year.
// It panics with ErrInvalidMonth for any other month.
func LastDayOfMonth(month, year int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	default:
		panic(fmt.Errorf("%w: %d", ErrInvalidMonth, month))
	}
}

// ClampDay caps day to the last day of month in year.
func ClampDay(day, month, year int) int {
	return min(day, LastDayOfMonth(month, year))
}

// Parse splits s on '/' into day and month.
func Parse(s string) (DateRecord, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return DateRecord{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return DateRecord{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return DateRecord{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return DateRecord{Label: s, Day: day, Month: month}, nil
}

// Valid reports whether the record names a real month and a positive day.
func (d DateRecord) Valid() bool {
	return d.Month >= 1 && d.Month <= 12 && d.Day >= 1
}

// shiftable reports whether Next can name a destination month. Months past
// December wrap to January like December does; negative months cannot.
func (d DateRecord) shiftable() bool {
	return d.Month >= 0
}

// String formats the record as DD/MM.
func (d DateRecord) String() string {
	return fmt.Sprintf("%02d/%02d", d.Day, d.Month)
}

// Next returns the record one month later. The year rolls over only when
// December becomes January; the returned year is the destination's.
func (d DateRecord) Next(referenceYear int) (DateRecord, int) {
	month := d.Month + 1
	year := referenceYear
	if month > 12 {
		month = 1
		year++
	}
	next := DateRecord{Day: ClampDay(d.Day, month, year), Month: month}
	next.Label = next.String()
	return next, year
}

// AddOneMonth returns dateStr moved forward one month as DD/MM, clamping the
// day to the length of the destination month. Strings that do not parse as
// two numbers are returned unchanged. Out-of-range numbers are shifted as
// given: "15/13" becomes "15/01" and "00/03" becomes "00/04"; only a negative
// month, which has no destination, is returned unchanged.
func AddOneMonth(dateStr string, referenceYear int) string {
	d, err := Parse(dateStr)
	if err != nil || !d.shiftable() {
		return dateStr
	}
	next, _ := d.Next(referenceYear)
	return next.String()
}

// ProcessDateTable shifts Data1 and Data2 of every row. Rows are independent;
// order and count are preserved and NomeCompleto passes through.
func ProcessDateTable(rows []model.DateRow, referenceYear int) []model.DateRow {
	out := make([]model.DateRow, len(rows))
	for i, r := range rows {
		out[i] = model.DateRow{
			NomeCompleto: r.NomeCompleto,
			Data1:        AddOneMonth(r.Data1, referenceYear),
			Data2:        AddOneMonth(r.Data2, referenceYear),
		}
	}
	return out
}

// Unparsed lists the 0-based indexes of rows holding a date AddOneMonth
// would pass through unchanged.
func Unparsed(rows []model.DateRow) []int {
	var idx []int
	for i, r := range rows {
		if !parses(r.Data1) || !parses(r.Data2) {
			idx = append(idx, i)
		}
	}
	return idx
}

func parses(s string) bool {
	d, err := Parse(s)
	return err == nil && d.shiftable()
}

// Irregular lists the 0-based indexes of rows whose dates parse but fall
// outside a real calendar date (month not in 1..12 or day below 1). They are
// still shifted.
func Irregular(rows []model.DateRow) []int {
	var idx []int
	for i, r := range rows {
		if irregular(r.Data1) || irregular(r.Data2) {
			idx = append(idx, i)
		}
	}
	return idx
}

func irregular(s string) bool {
	d, err := Parse(s)
	return err == nil && !d.Valid()
}
