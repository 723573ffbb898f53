package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"screenbot/internal/app"
	"screenbot/internal/config"
	"screenbot/internal/repository"
)

type rootOptions struct {
	sqlitePath string
	copyFile   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "screenctl",
		Short: "Operate the screening bot",
		Long: `Operator tools for the screening bot.

Reads the same environment as the server (ROW_STORE, MONGO_URI, SQLITE_PATH,
CHAT_TOKEN_SECRET, COPY_FILE). --sqlite overrides the row store with a local file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "Use this SQLite file as the row store")
	cmd.PersistentFlags().StringVar(&opts.copyFile, "copy-file", "", "Bot copy YAML (defaults to COPY_FILE or the built-in copy)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(newStatsCmd(opts), newTokenCmd(), newSeedCmd(opts))
	return cmd
}

func (o *rootOptions) config() *config.Config {
	cfg := config.Load()
	if o.sqlitePath != "" {
		cfg.RowStore = config.RowStoreSQLite
		cfg.SQLitePath = o.sqlitePath
	}
	if o.copyFile != "" {
		cfg.CopyFile = o.copyFile
	}
	return cfg
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o *rootOptions) openStore(ctx context.Context, cfg *config.Config) (repository.RowStore, error) {
	switch {
	case cfg.RowStore == config.RowStoreSQLite && cfg.SQLitePath == "":
		return nil, errors.New("SQLITE_PATH or --sqlite is required for ROW_STORE=sqlite")
	case cfg.RowStore == config.RowStoreMongo && cfg.MongoURI == "":
		return nil, errors.New("MONGO_URI is required for ROW_STORE=mongo, or pass --sqlite")
	}
	return app.OpenRowStore(ctx, cfg)
}
