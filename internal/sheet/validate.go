package sheet

import (
	"fmt"
	"strings"

	"cigen/internal/model"
)

// ValidationError lists every problem found before processing starts.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0]
	}
	return fmt.Sprintf("%d validation problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

const emptySheetMsg = "spreadsheet is empty or has no valid data"

// rowNumber maps a data index onto the spreadsheet line (the header is line 1).
func rowNumber(i int) int { return i + 2 }

type field struct {
	name  string
	value string
}

func check(problems []string, i int, fields ...field) []string {
	for _, f := range fields {
		if f.value == "" {
			problems = append(problems, fmt.Sprintf("row %d: field %s is empty", rowNumber(i), f.name))
		}
	}
	return problems
}

// ValidateFieldRecords requires every letter field on every row.
func ValidateFieldRecords(recs []model.FieldRecord) error {
	if len(recs) == 0 {
		return &ValidationError{Problems: []string{emptySheetMsg}}
	}
	var problems []string
	for i, r := range recs {
		problems = check(problems, i,
			field{ColNumero, r.Numero},
			field{ColNomeCompleto, r.NomeCompleto},
			field{ColData1, r.Data1},
			field{ColData2, r.Data2},
		)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidateDateRows requires a name and both dates on every row.
func ValidateDateRows(rows []model.DateRow) error {
	if len(rows) == 0 {
		return &ValidationError{Problems: []string{emptySheetMsg}}
	}
	var problems []string
	for i, r := range rows {
		problems = check(problems, i,
			field{ColNomeCompleto, r.NomeCompleto},
			field{ColData1, r.Data1},
			field{ColData2, r.Data2},
		)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
