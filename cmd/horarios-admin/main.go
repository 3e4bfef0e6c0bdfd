// Command horarios-admin bundles maintenance tasks: schema migration, sample
// data, portal link minting and legacy hash conversion.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/pkg/config"
	"github.com/noah-isme/horarios-api/pkg/database"
	"github.com/noah-isme/horarios-api/pkg/logger"
)

const version = "1.0.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "horarios-admin",
		Short:         "Maintenance tasks for the horarios API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		tokenCmd(),
		hashCmd(),
		shadowCmd(),
		exportCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "horarios-admin version %s\n", version)
			},
		},
	)
	return cmd
}

// env bundles what database-backed commands need.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *sqlx.DB
	closer func()
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &env{
		cfg: cfg,
		log: logr,
		db:  db,
		closer: func() {
			_ = db.Close()
			_ = logr.Sync()
		},
	}, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.closer()

			if err := database.Migrate(cmd.Context(), e.db); err != nil {
				return err
			}
			e.log.Info("schema applied", zap.String("database", e.cfg.Database.Name))
			return nil
		},
	}
}
