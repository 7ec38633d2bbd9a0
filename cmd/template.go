package cmd

import (
	"context"
	"fmt"
	"os"

	"cigen/internal/templatefile"
	"cigen/internal/tmplstore"

	"github.com/spf13/cobra"
)

// templateCmd groups saved-template subcommands.
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage the saved memo template",
}

func withStore(cmd *cobra.Command, fn func(ctx context.Context, s tmplstore.Store) error) error {
	s, err := tmplstore.Open(GetConfig())
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, s)
}

var templateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved template, or the built-in one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s tmplstore.Store) error {
			body, saved, err := tmplstore.LoadOrDefault(ctx, s)
			if err != nil {
				return err
			}
			if !saved {
				fmt.Fprintln(cmd.ErrOrStderr(), "(no saved template, showing built-in letter)")
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			return nil
		})
	},
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Save a template file as the default for generate and preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		// Reject files whose frontmatter would fail later.
		if _, err := templatefile.ParseFile(args[0]); err != nil {
			return err
		}
		return withStore(cmd, func(ctx context.Context, s tmplstore.Store) error {
			if err := s.Save(ctx, string(b)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template saved (%d bytes)\n", len(b))
			return nil
		})
	},
}

var templateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the saved template and go back to the built-in letter",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s tmplstore.Store) error {
			if err := s.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "template reset")
			return nil
		})
	},
}

func init() {
	templateCmd.AddCommand(templateShowCmd, templateSaveCmd, templateResetCmd)
	rootCmd.AddCommand(templateCmd)
}
