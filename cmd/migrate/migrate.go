package migrate

import (
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const (
	ledgerMigrationSource = "modules/ledger/database/postgresql/migrations"
	ledgerMigrationTable  = "ledger_schema_migrations"
)

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

// parseDatabaseURL falls back to the modules.ledger.postgres config when the flag is empty.
func parseDatabaseURL(flagValue string) (*url.URL, error) {
	raw := flagValue
	if raw == "" {
		raw = config.Load().Modules.Ledger.Postgres.ConnURL()
	}
	databaseURL, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}
	if _, ok := supportedDrivers[databaseURL.Scheme]; !ok {
		return nil, errors.Errorf("unsupported database driver: %s", databaseURL.Scheme)
	}
	return databaseURL, nil
}

func newMigrate(module string, databaseURL *url.URL, sourcePath string, migrationTable string) (*migrate.Migrate, error) {
	newDatabaseURL := cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {migrationTable}})
	sourceURL := "file://" + sourcePath
	m, err := migrate.New(sourceURL, newDatabaseURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Migrate instance")
	}
	m.Log = newMigrationLogger(module)
	return m, nil
}

// targetOptions selects the database and migrations directory a subcommand works on.
type targetOptions struct {
	DatabaseURL  string
	LedgerSource string
}

func (o *targetOptions) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.LedgerSource, "ledger-source", ledgerMigrationSource, "Path to Ledger migrations directory.")
	flags.StringVar(&o.DatabaseURL, "database", "", "Database url to migrate. Defaults to modules.ledger.postgres from config.")
}

func (o *targetOptions) open() (*migrate.Migrate, error) {
	databaseURL, err := parseDatabaseURL(o.DatabaseURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	m, err := newMigrate("Ledger", databaseURL, o.LedgerSource, ledgerMigrationTable)
	return m, errors.WithStack(err)
}

// parseSteps reads the optional [N] argument. 0 means every pending migration.
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid N %q", args[0])
	}
	if n < 0 {
		return 0, errors.New("N must be a positive integer")
	}
	return n, nil
}
