package migrate

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

func NewMigrateVersionCommand() *cobra.Command {
	opts := &targetOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version of the ledger database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrateVersionHandler(opts, cmd)
		},
	}

	opts.bindFlags(cmd.Flags())
	return cmd
}

func migrateVersionHandler(opts *targetOptions, cmd *cobra.Command) error {
	m, err := opts.open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d", version)
	if dirty {
		fmt.Fprint(cmd.OutOrStdout(), " (dirty: fix the failed migration, then force the version)")
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
