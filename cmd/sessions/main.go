package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smartedtech/internal/config"
	"smartedtech/internal/repository"
)

// storeOpener connects the configured session store
type storeOpener func(ctx context.Context) (repository.SessionStore, func() error, error)

func main() {
	cfg := config.Load()
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	open := func(ctx context.Context) (repository.SessionStore, func() error, error) {
		return repository.OpenSessionStore(ctx, cfg, logger)
	}

	if err := newRootCmd(open, logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open storeOpener, logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and maintain dashboard sign-in sessions",
		Long: `Operate on the session store configured by SESSION_STORE.

Available subcommands:
  list  - Show the most recent sessions
  purge - Delete every expired session`,
		SilenceUsage: true,
	}
	root.AddCommand(newListCmd(open), newPurgeCmd(open, logger))
	return root
}

func newListCmd(open storeOpener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be greater than zero, got %d", limit)
			}

			store, closeStore, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			sessions, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSER\tEMAIL\tROLE\tEXPIRES\tSTATE")
			for _, s := range sessions {
				state := "active"
				if now.After(s.ExpiresAt) {
					state = "expired"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.UserID, s.User.Email, s.User.RoleLabel(),
					s.ExpiresAt.Format(time.RFC3339), state)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of sessions to show")
	return cmd
}

func newPurgeCmd(open storeOpener, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every expired session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := store.DeleteExpired(cmd.Context(), time.Now())
			if err != nil {
				return fmt.Errorf("failed to purge sessions: %w", err)
			}
			logger.Info("expired sessions purged", zap.Int64("removed", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired session(s)\n", n)
			return nil
		},
	}
}
