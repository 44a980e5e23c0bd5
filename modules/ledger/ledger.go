package ledger

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/internal/config"
	"github.com/gaze-network/commission-ledger/internal/postgres"
	ledgerapi "github.com/gaze-network/commission-ledger/modules/ledger/api"
	ledgerdatagateway "github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
	"github.com/gaze-network/commission-ledger/modules/ledger/notifier"
	ledgermemory "github.com/gaze-network/commission-ledger/modules/ledger/repository/memory"
	ledgerpostgres "github.com/gaze-network/commission-ledger/modules/ledger/repository/postgres"
	ledgerusecase "github.com/gaze-network/commission-ledger/modules/ledger/usecase"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gaze-network/commission-ledger/pkg/retry"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Ledger is the wired ledger module: storage, usecase and the optional notification relay.
type Ledger struct {
	Usecase  *ledgerusecase.Usecase
	notifier *notifier.Notifier

	apiHandlers  []string
	cleanupFuncs []func(context.Context) error
}

func New(injector do.Injector) (*Ledger, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	moduleConf := conf.Modules.Ledger

	var ledgerDg ledgerdatagateway.LedgerDataGateway
	var cleanupFuncs []func(context.Context) error
	switch strings.ToLower(moduleConf.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, moduleConf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for ledger")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		ledgerDg = ledgerpostgres.NewRepository(pg)
	case "memory":
		logger.WarnContext(ctx, "Using in-memory ledger storage, data is lost on restart")
		ledgerDg = ledgermemory.NewRepository()
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for ledger is not supported", moduleConf.Database)
	}

	policy, err := moduleConf.Withdrawal.Policy()
	if err != nil {
		return nil, errors.Wrap(err, "invalid withdrawal policy")
	}
	usecase := ledgerusecase.New(ledgerDg, policy,
		ledgerusecase.WithRetrier(retry.New(moduleConf.Retry)),
		ledgerusecase.WithLegalityEnforcement(moduleConf.Withdrawal.EnforceLegality),
	)

	l := &Ledger{
		Usecase:      usecase,
		apiHandlers:  lo.Uniq(moduleConf.APIHandlers),
		cleanupFuncs: cleanupFuncs,
	}
	if moduleConf.Notifier.Enabled {
		n, err := notifier.New(ledgerDg, moduleConf.Notifier.WebhookURL, notifier.Config{
			PollInterval: moduleConf.Notifier.PollInterval,
			BatchSize:    moduleConf.Notifier.BatchSize,
			Timeout:      moduleConf.Notifier.Timeout,
			Headers:      moduleConf.Notifier.Headers,
		})
		if err != nil {
			return nil, errors.Wrap(err, "can't create notifier")
		}
		l.notifier = n
	}
	return l, nil
}

// MountAPI mounts the configured API handlers on the server registered in the injector.
func (l *Ledger) MountAPI(ctx context.Context, injector do.Injector) error {
	for _, handler := range l.apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			ledgerHTTPHandler := ledgerapi.NewHTTPHandler(l.Usecase)
			if err := ledgerHTTPHandler.Mount(httpServer); err != nil {
				return errors.Wrap(err, "can't mount Ledger API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}
	return nil
}

// Run blocks running background workers until ctx is done. It returns immediately when no worker is enabled.
func (l *Ledger) Run(ctx context.Context) error {
	if l.notifier == nil {
		return nil
	}
	logger.InfoContext(ctx, "Started notification relay")
	return errors.WithStack(l.notifier.Run(ctx))
}

// Shutdown stops background workers and releases storage connections.
func (l *Ledger) Shutdown(ctx context.Context) error {
	if l.notifier != nil {
		if err := l.notifier.ShutdownWithContext(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to stop notification relay", err)
		}
	}
	var eg errgroup.Group
	for _, cleanup := range l.cleanupFuncs {
		cleanup := cleanup
		eg.Go(func() error {
			return errors.WithStack(cleanup(ctx))
		})
	}
	if err := eg.Wait(); err != nil {
		return errors.Wrap(err, "failed to cleanup ledger resources")
	}
	logger.InfoContext(ctx, "Ledger module stopped", slogx.Int("cleanups", len(l.cleanupFuncs)))
	return nil
}
