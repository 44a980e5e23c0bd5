package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/internal/config"
	"github.com/gaze-network/commission-ledger/modules/ledger"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

type vipSweepCmdOptions struct {
	PageSize    int32
	Concurrency int
}

func NewVIPSweepCommand() *cobra.Command {
	opts := &vipSweepCmdOptions{}

	cmd := &cobra.Command{
		Use:   "vip-sweep",
		Short: "Re-evaluate the VIP eligibility flag of every account against the latest tier table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return vipSweepHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.Int32Var(&opts.PageSize, "page-size", 500, "Number of accounts locked per transaction")
	flags.IntVar(&opts.Concurrency, "concurrency", 4, "Number of pages processed in parallel")

	return cmd
}

func vipSweepHandler(opts *vipSweepCmdOptions, cmd *cobra.Command, _ []string) error {
	conf := config.Load()
	ctx := logger.WithContext(cmd.Context(), slogx.String("command", "vip-sweep"))

	injector := do.New()
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)
	do.Provide(injector, ledger.New)

	ledgerModule, err := do.Invoke[*ledger.Ledger](injector)
	if err != nil {
		return errors.Wrap(err, "can't init ledger module")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := ledgerModule.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown ledger module", err)
		}
	}()

	start := time.Now()
	result, err := ledgerModule.Usecase.SweepVIPEligibility(ctx, opts.PageSize, opts.Concurrency)
	if err != nil {
		return errors.Wrap(err, "vip sweep failed")
	}

	logger.InfoContext(ctx, "VIP sweep finished",
		slogx.Int64("scanned", result.Scanned),
		slogx.Int64("updated", result.Updated),
		slogx.Duration("duration", time.Since(start)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d updated=%d\n", result.Scanned, result.Updated)
	return nil
}
