package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

type migrateOptions struct {
	dbURL string
	dir   string
}

func newMigrateCmd() *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:           "migration",
		Short:         "Manage the pawmatch database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbURL, "db-url", envOr("DB_URL", ""), "postgres connection URL")
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "migrations directory (default: MIGRATIONS_DIR or ./db/migrations)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: opts.withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
				if err := ignoreNoChange(cmd, m.Up()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: opts.withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := parsePositive(args[0])
					if err != nil {
						return fmt.Errorf("steps: %w", err)
					}
					steps = n
				}
				if err := ignoreNoChange(cmd, m.Steps(-steps)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: opts.withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
				version, dirty, err := m.Version()
				switch {
				case errors.Is(err, migrate.ErrNilVersion):
					fmt.Fprintln(cmd.OutOrStdout(), "version: none")
					return nil
				case err != nil:
					return fmt.Errorf("read version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", version, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: opts.withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil || version < -1 {
					return fmt.Errorf("invalid version %q", args[0])
				}
				if err := m.Force(version); err != nil {
					return fmt.Errorf("force version %d: %w", version, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "forced version to %d\n", version)
				return nil
			}),
		},
		&cobra.Command{
			Use:     "goto <version>",
			Aliases: []string{"migrate"},
			Short:   "Migrate up or down to a specific version",
			Args:    cobra.ExactArgs(1),
			RunE: opts.withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, args []string) error {
				target, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid target version %q", args[0])
				}
				if err := ignoreNoChange(cmd, m.Migrate(uint(target))); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrated to version %d\n", target)
				return nil
			}),
		},
	)

	return cmd
}

type migratorFunc func(cmd *cobra.Command, m *migrate.Migrate, args []string) error

// withMigrator opens a migrator for the duration of one subcommand.
func (o *migrateOptions) withMigrator(fn migratorFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		m, err := o.open()
		if err != nil {
			return err
		}
		defer func() {
			srcErr, dbErr := m.Close()
			if err := errors.Join(srcErr, dbErr); err != nil {
				cmd.PrintErrln("close migrator:", err)
			}
		}()

		return fn(cmd, m, args)
	}
}

func (o *migrateOptions) open() (*migrate.Migrate, error) {
	if o.dbURL == "" {
		return nil, errors.New("DB_URL or --db-url is required")
	}

	dir, err := resolveMigrationsDir(o.dir)
	if err != nil {
		return nil, err
	}

	m, err := migrate.New(sourceURL(dir), normalizeDBURL(o.dbURL))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

func ignoreNoChange(cmd *cobra.Command, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(cmd.OutOrStdout(), "no migration changes")
		return nil
	}
	return err
}

func parsePositive(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be > 0, got %d", n)
	}
	return n, nil
}
