package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/golang-migrate/migrate/v4"
)

var _ migrate.Logger = (*migrationLogger)(nil)

// migrationLogger sends golang-migrate progress lines to the service logger, tagged with the module.
type migrationLogger struct {
	log *slog.Logger
}

func newMigrationLogger(module string) *migrationLogger {
	return &migrationLogger{log: logger.With(slogx.String("module", module))}
}

func (l *migrationLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimRight(fmt.Sprintf(format, v...), "\n"))
}

// Verbose follows the debug level of the service logger.
func (l *migrationLogger) Verbose() bool {
	return l.log.Enabled(context.Background(), slog.LevelDebug)
}
