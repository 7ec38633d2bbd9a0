package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"cigen/internal/dateshift"
	"cigen/internal/model"
	"cigen/internal/sheet"

	"github.com/spf13/cobra"
)

var (
	shiftSheet string
	shiftYear  int
	shiftOut   string
)

// shiftCmd advances every date in a date table by one month.
var shiftCmd = &cobra.Command{
	Use:   "shift-dates",
	Short: "Shift DATA1 and DATA2 of a spreadsheet forward by one month",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		rows, err := sheet.ReadDateRows(shiftSheet)
		if err != nil {
			return err
		}
		if err := sheet.ValidateDateRows(rows); err != nil {
			var verr *sheet.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintln(cmd.ErrOrStderr(), p)
				}
			}
			return err
		}

		year := shiftYear
		if year == 0 {
			year = cfg.Dates.ReferenceYear
		}
		if year == 0 {
			year = time.Now().Year()
		}
		warnDates(cmd.ErrOrStderr(), rows)

		shifted := dateshift.ProcessDateTable(rows, year)
		out := shiftOut
		if out == "" {
			out = filepath.Join(cfg.Output.Dir, cfg.Dates.OutputName)
		}
		if err := sheet.WriteDateTableFile(out, shifted); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows shifted (reference year %d) into %s\n", len(shifted), year, out)
		return nil
	},
}

// warnDates logs and prints rows whose dates are kept as is or fall outside
// the calendar. It returns the number of rows reported.
func warnDates(w io.Writer, rows []model.DateRow) int {
	n := 0
	unparsed := map[int]bool{}
	for _, i := range dateshift.Unparsed(rows) {
		unparsed[i] = true
		slog.Warn("shift-dates: date kept as is", "row", i+2, "data1", rows[i].Data1, "data2", rows[i].Data2)
		fmt.Fprintf(w, "row %d: %q / %q is not dd/mm, kept as is\n", i+2, rows[i].Data1, rows[i].Data2)
		n++
	}
	for _, i := range dateshift.Irregular(rows) {
		if unparsed[i] {
			continue
		}
		slog.Warn("shift-dates: date outside the calendar", "row", i+2, "data1", rows[i].Data1, "data2", rows[i].Data2)
		fmt.Fprintf(w, "row %d: %q / %q is outside the calendar, shifted anyway\n", i+2, rows[i].Data1, rows[i].Data2)
		n++
	}
	return n
}

func init() {
	shiftCmd.Flags().StringVar(&shiftSheet, "sheet", "", "spreadsheet with NOME COMPLETO, DATA1 and DATA2 columns")
	shiftCmd.Flags().IntVar(&shiftYear, "year", 0, "reference year for leap-year handling (default: current year)")
	shiftCmd.Flags().StringVar(&shiftOut, "out", "", "output workbook (default: <output.dir>/<dates.output_name>)")
	_ = shiftCmd.MarkFlagRequired("sheet")
	rootCmd.AddCommand(shiftCmd)
}
