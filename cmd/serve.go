package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cigen/internal/config"
	"cigen/internal/sheet"
	"cigen/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Watch the inbox directory and generate memos for every spreadsheet dropped in",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		interval, err := time.ParseDuration(cfg.Inbox.Interval)
		if err != nil {
			return err
		}
		inbox := &worker.Inbox{
			Dir:      cfg.Inbox.Dir,
			DoneDir:  cfg.Inbox.DoneDir,
			Interval: interval,
			Handle: func(ctx context.Context, path string) error {
				return handleInboxFile(ctx, cfg, path)
			},
		}
		mgr := worker.NewManager(inbox)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

// handleInboxFile generates "<name>.zip" (and "<name>.pdf" when enabled)
// for one spreadsheet.
func handleInboxFile(ctx context.Context, cfg config.Config, path string) error {
	records, err := sheet.ReadFieldRecords(path)
	if err != nil {
		return err
	}
	if err := sheet.ValidateFieldRecords(records); err != nil {
		return err
	}
	tmpl, classifier, err := loadTemplate(ctx, cfg, "")
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cfg.Output.ZipName = base + ".zip"
	cfg.Output.PDFName = base + ".pdf"
	rep, err := generateBundle(ctx, cfg, tmpl, classifier, records, nil)
	if err != nil {
		return err
	}
	if rep.Failed > 0 {
		var msgs []string
		for _, res := range rep.Results {
			if res.Err != nil {
				msgs = append(msgs, res.Record.NomeCompleto+": "+res.Err.Error())
			}
		}
		return errors.New(strings.Join(msgs, "\n"))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
