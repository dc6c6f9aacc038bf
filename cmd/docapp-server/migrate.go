package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/docapp/docapp/internal/config"
	"github.com/docapp/docapp/internal/platform/db"
	"github.com/docapp/docapp/migrations"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	var schema, dir string
	cmd.PersistentFlags().StringVar(&schema, "schema", "public", "Target schema")
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Read migrations from this directory instead of the built-in set")

	source := func() fs.FS {
		if dir != "" {
			return os.DirFS(dir)
		}
		return migrations.FS
	}

	openMigrator := func(cmd *cobra.Command) (*db.Migrator, func(), error) {
		cfg, _, err := loadConfig()
		if err != nil {
			return nil, nil, err
		}
		if cfg.StoreDriver != config.DriverPostgres {
			return nil, nil, fmt.Errorf("migrations apply to the postgres store only (STORE_DRIVER=%s)", cfg.StoreDriver)
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		pool, err := db.NewPool(cmd.Context(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, err
		}
		return db.NewMigrator(pool, source()), pool.Close, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := m.Up(cmd.Context(), schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to schema %s.\n", count, schema)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			statuses, err := m.Status(cmd.Context(), schema)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}
			renderMigrations(cmd.OutOrStdout(), statuses)
			return nil
		},
	})

	return cmd
}
