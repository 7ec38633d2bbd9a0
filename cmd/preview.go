package cmd

import (
	"context"
	"fmt"
	"strings"

	"cigen/internal/letter"
	"cigen/internal/sheet"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	previewTemplate string
	previewSheet    string
	previewRow      int
	previewWidth    int
	previewRoles    bool
)

var (
	roleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(30)
	boldText  = lipgloss.NewStyle().Bold(true)
)

// previewStyle mirrors the page layout of each role in the terminal.
func previewStyle(role letter.LineRole, width int) lipgloss.Style {
	s := lipgloss.NewStyle().Width(width)
	switch role {
	case letter.RoleDirective:
		return s.Bold(true).Align(lipgloss.Center).MarginTop(1).MarginBottom(1)
	case letter.RoleHeader:
		return s.Bold(true)
	case letter.RoleSignatureName:
		return s.Bold(true).Align(lipgloss.Center)
	case letter.RoleSignatureTitle:
		return s.Align(lipgloss.Center)
	case letter.RoleClosing:
		return s.MarginTop(1).MarginBottom(2)
	default:
		return s
	}
}

// renderSegments applies bold to emphasized runs.
func renderSegments(text string) string {
	var b strings.Builder
	for _, seg := range letter.Segments(text) {
		if seg.Bold {
			b.WriteString(boldText.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the filled memo with each line styled by its role",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		tmpl, classifier, err := loadTemplate(ctx, cfg, previewTemplate)
		if err != nil {
			return err
		}

		var lines []letter.RenderedLine
		if previewSheet != "" {
			records, err := sheet.ReadFieldRecords(previewSheet)
			if err != nil {
				return err
			}
			if previewRow < 1 || previewRow > len(records) {
				return fmt.Errorf("row %d out of range (1..%d)", previewRow, len(records))
			}
			lines = classifier.RenderRecord(tmpl, records[previewRow-1])
		} else {
			// Placeholders stay visible.
			lines = classifier.Classify(tmpl)
		}

		out := cmd.OutOrStdout()
		for _, l := range lines {
			text := previewStyle(l.Role, previewWidth).Render(renderSegments(l.Text))
			if previewRoles {
				text = lipgloss.JoinHorizontal(lipgloss.Top, roleLabel.Render(string(l.Role)), text)
			}
			fmt.Fprintln(out, text)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewTemplate, "template", "", "template file (default: saved template or built-in letter)")
	previewCmd.Flags().StringVar(&previewSheet, "sheet", "", "spreadsheet to take values from")
	previewCmd.Flags().IntVar(&previewRow, "row", 1, "1-based data row of --sheet to preview")
	previewCmd.Flags().IntVar(&previewWidth, "width", 80, "text width in columns")
	previewCmd.Flags().BoolVar(&previewRoles, "roles", false, "show the role tag next to each line")
	rootCmd.AddCommand(previewCmd)
}
