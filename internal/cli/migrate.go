package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/erazemk/popis/internal/config"
	"github.com/erazemk/popis/internal/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, opts, func(ctx context.Context, d *db.DB) error {
				if err := db.Migrate(ctx, d); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date.")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, opts, func(ctx context.Context, d *db.DB) error {
				if err := db.MigrateDown(ctx, d); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Rolled back one migration.")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, opts, func(ctx context.Context, d *db.DB) error {
				statuses, err := db.Migrations(ctx, d)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tSTATE\tSOURCE")
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(tw, "%05d\t%s\t%s\n", s.Version, state, s.Source)
				}
				return tw.Flush()
			})
		},
	})

	return cmd
}

// withDatabase opens the configured database for a maintenance command.
func withDatabase(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, d *db.DB) error) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	return fn(cmd.Context(), d)
}

// openDatabase connects within the configured connect timeout.
func openDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()
	return db.Open(ctx, cfg.DBOptions())
}
