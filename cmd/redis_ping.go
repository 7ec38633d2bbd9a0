package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cigen/internal/redisclient"
	"cigen/internal/tmplstore"

	"github.com/spf13/cobra"
)

// pingCmd pings the configured Redis server and reports the saved template.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and report whether a template is saved there",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		store := tmplstore.NewRedisStore(rdb, cfg.Store.Key)
		defer store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)

		body, err := store.Load(ctx)
		switch {
		case errors.Is(err, tmplstore.ErrNotFound):
			fmt.Fprintf(cmd.OutOrStdout(), "template %q: none\n", cfg.Store.Key)
		case err != nil:
			return err
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "template %q: %d bytes\n", cfg.Store.Key, len(body))
		}
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}
