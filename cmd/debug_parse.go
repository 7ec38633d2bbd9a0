package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"cigen/internal/letter"
	"cigen/internal/templatefile"

	"github.com/spf13/cobra"
)

var debugTemplateCmd = &cobra.Command{
	Use:   "debug-template <template_path>",
	Short: "Debug: parse a template file and print frontmatter keys and placeholder counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		doc, err := templatefile.ParseFile(path)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(doc.Frontmatter))
		for k := range doc.Frontmatter {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(os.Stdout, "frontmatter keys: %s\n", strings.Join(keys, ", "))
		fmt.Fprintf(os.Stdout, "body bytes: %d\n", len(doc.Body))
		for _, p := range letter.Placeholders {
			fmt.Fprintf(os.Stdout, "%s: %d\n", p, strings.Count(doc.Body, p))
		}
		if left := letter.UnknownTokens(doc.Body); len(left) > 0 {
			fmt.Fprintf(os.Stdout, "unknown tokens: %s\n", strings.Join(left, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugTemplateCmd)
}
