// Package commands implements the ledgerctl command line.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/posting_engine/internal/platform/app"
	"github.com/SscSPs/posting_engine/internal/platform/config"
	"github.com/spf13/cobra"
)

// env is what every subcommand needs to reach the ledger.
type env struct {
	loadConfig func() (*config.Config, error)
	open       func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error)
	logger     *slog.Logger
}

// withApp loads the configuration, opens the ledger and runs fn against it.
func (e *env) withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := e.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a, err := e.open(ctx, cfg, e.logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&env{
		loadConfig: config.LoadConfig,
		open:       app.New,
		logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	})
}

func newRootCommand(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the multi-currency posting and settlement ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newSeedCommand(e),
		newMigrateCommand(e),
		newPostCommand(e),
		newReverseCommand(e),
		newBalanceCommand(e),
		newTrialBalanceCommand(e),
		newChequeCommand(e),
	)
	return rootCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseDate parses a YYYY-MM-DD flag value; empty means today in UTC.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return t, nil
}
