// Package automaxprocs aligns GOMAXPROCS with the container CPU quota.
package automaxprocs

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

// Init sets GOMAXPROCS from the cgroup CPU quota and returns a function restoring the previous value.
// An explicit GOMAXPROCS environment variable is honoured. Without a quota it is a no-op.
func Init() (func(), error) {
	before := runtime.GOMAXPROCS(0)
	_, fromEnv := os.LookupEnv("GOMAXPROCS")

	undo, err := maxprocs.Set(
		maxprocs.Min(1),
		maxprocs.Logger(func(format string, args ...any) {
			logger.DebugContext(context.Background(), fmt.Sprintf(format, args...), slogx.String("package", "automaxprocs"))
		}),
	)
	if err != nil {
		return func() {}, errors.Wrap(err, "can't set GOMAXPROCS")
	}

	logger.Info("GOMAXPROCS configured",
		slogx.String("package", "automaxprocs"),
		slogx.Int("previous", before),
		slogx.Int("current", runtime.GOMAXPROCS(0)),
		slogx.Bool("fromEnv", fromEnv),
	)
	return undo, nil
}
