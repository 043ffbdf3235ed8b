// Package commands implements rezzctl, the operator CLI for the rezz
// database: connectivity checks, schema bootstrap, exports and counts.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/rezz/internal/config"
	"github.com/JonMunkholm/rezz/internal/core"
	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/logging"
)

// flag names
const (
	flagDatabaseURL = "database-url"
	flagLogLevel    = "log-level"
	flagFormat      = "format"
	flagOut         = "out"
)

// Opener connects a service for one command run.
type Opener func(ctx context.Context, connString string, logger *slog.Logger) (*core.Service, error)

// OpenService dials connString on a fresh handle.
func OpenService(ctx context.Context, connString string, logger *slog.Logger) (*core.Service, error) {
	h := db.NewHandle(db.WithLogger(logger))
	if err := h.ConnectString(ctx, connString); err != nil {
		return nil, err
	}
	return core.NewService(h, core.WithLogger(logger)), nil
}

// app is the state shared by every subcommand of one root.
type app struct {
	open    Opener
	cfg     *config.Config
	logger  *slog.Logger
	service *core.Service

	databaseURL string
	logLevel    string
}

// NewRootCmd builds the command tree. Each call returns an independent
// tree, so tests can run commands side by side.
func NewRootCmd(open Opener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:           "rezzctl",
		Short:         "rezzctl - operate the rezz job search database",
		Long:          `rezzctl checks connectivity, bootstraps the schema and exports applications, listings and resumes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.service == nil {
				return nil
			}
			return a.service.Handle().Disconnect(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.databaseURL, flagDatabaseURL, "", "Postgres URL (env: DATABASE_URL, otherwise DB_HOST, DB_PORT and friends)")
	root.PersistentFlags().StringVar(&a.logLevel, flagLogLevel, "", "log level: debug, info, warn, error (env: LOG_LEVEL)")

	root.AddCommand(a.pingCmd(), a.schemaCmd(), a.exportCmd(), a.countCmd())
	return root
}

// setup loads configuration, points logging at stderr and connects.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger = logging.SetupWriter(cmd.ErrOrStderr(), level, cfg.Logging.Format)

	connString := cfg.Database.ConnString()
	if a.databaseURL != "" {
		connString = a.databaseURL
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.ConnectTimeout)
	defer cancel()
	a.service, err = a.open(ctx, connString, a.logger)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}
