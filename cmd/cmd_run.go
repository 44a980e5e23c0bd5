package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/internal/config"
	"github.com/gaze-network/commission-ledger/modules/ledger"
	"github.com/gaze-network/commission-ledger/pkg/automaxprocs"
	"github.com/gaze-network/commission-ledger/pkg/errorhandler"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gaze-network/commission-ledger/pkg/metrics"
	"github.com/gaze-network/commission-ledger/pkg/middleware/requestcontext"
	"github.com/gaze-network/commission-ledger/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type runCmdOptions struct {
	APIOnly bool
}

func NewRunCommand() *cobra.Command {
	opts := &runCmdOptions{}

	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start commission-ledger service",
		RunE: func(cmd *cobra.Command, args []string) error {
			undo, err := automaxprocs.Init()
			if err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			defer undo()
			return runHandler(opts, cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.BoolVar(&opts.APIOnly, "api-only", false, "Run only API server, without background workers")
	flags.Int("port", 0, "HTTP server port. Overrides http_server.port")

	// Bind flags to configuration
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return runCmd
}

const (
	shutdownTimeout = 60 * time.Second
)

func newHTTPServer(conf config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:                 "Commission Ledger",
		ErrorHandler:            errorhandler.NewHTTPErrorHandler(),
		ProxyHeader:             conf.HTTPServer.Proxy.Header,
		EnableTrustedProxyCheck: len(conf.HTTPServer.Proxy.TrustedProxies) > 0,
		TrustedProxies:          conf.HTTPServer.Proxy.TrustedProxies,
		EnableIPValidation:      true,
		Immutable:               true,
	})
	app.
		Use(favicon.New()).
		Use(cors.New()).
		Use(requestid.New()).
		Use(requestcontext.New(conf.HTTPServer.RequestContext)).
		Use(requestlogger.New(conf.HTTPServer.Logger)).
		Use(fiberrecover.New(fiberrecover.Config{
			EnableStackTrace: true,
			StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
				buf := make([]byte, 1024) // bufLen = 1024
				buf = buf[:runtime.Stack(buf, false)]
				logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", errors.Newf("panic: %v", e), slog.String("stacktrace", string(buf)))
			},
		})).
		Use(compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))

	// Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return errors.WithStack(c.SendStatus(http.StatusOK))
	})

	if conf.Metrics.Enabled {
		app.Get(lo.Ternary(conf.Metrics.Path == "", "/metrics", conf.Metrics.Path), metrics.Handler())
	}
	return app
}

func runHandler(opts *runCmdOptions, cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New()
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		return newHTTPServer(do.MustInvoke[config.Config](i)), nil
	})

	// Initialize ledger module
	do.Provide(injector, ledger.New)
	ledgerModule, err := do.Invoke[*ledger.Ledger](injector)
	if err != nil {
		return errors.Wrap(err, "can't init ledger module")
	}
	if err := ledgerModule.MountAPI(ctx, injector); err != nil {
		return errors.WithStack(err)
	}

	// Initialize worker context to separate worker's lifecycle from main process
	ctxWorker, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	ctxWorker = logger.WithContext(ctxWorker, slogx.String("module", "ledger"))

	// Run background workers
	if !opts.APIOnly {
		go func() {
			if err := ledgerModule.Run(ctxWorker); err != nil {
				logger.ErrorContext(ctxWorker, "Something went wrong, error during running ledger workers", err)
				// stop main process if a worker failed
				stop()
			}
		}()
	}

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctxWorker, "Commission ledger started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.ShutdownWithContext(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to shutdown HTTP server", err)
	}
	if err := ledgerModule.Shutdown(shutdownCtx); err != nil {
		logger.PanicContext(shutdownCtx, "Failed while gracefully shutting down", slogx.Error(err))
	}
	stopWorker()

	return nil
}
