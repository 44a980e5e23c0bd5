package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gaze-network/commission-ledger/pkg/retry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PublishRateConfig stores a new snapshot with the next version number. Snapshots are never edited.
// Two concurrent publishers race on the version; the loser retries with the following version.
func (u *Usecase) PublishRateConfig(ctx context.Context, levelRates [entity.MaxReferralLevel]decimal.Decimal, tiers []entity.VIPTier) (*entity.RateConfig, error) {
	conf := &entity.RateConfig{
		LevelRates: levelRates,
		Tiers:      tiers,
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	published, err := retry.Do(ctx, u.retrierFor("publish_rate_config"), func() (*entity.RateConfig, error) {
		var version int64 = 1
		latest, err := u.ledgerDg.GetLatestRateConfig(ctx)
		switch {
		case err == nil:
			version = latest.Version + 1
		case !errors.Is(err, errs.NotFound):
			return nil, errors.Wrap(err, "failed to get latest rate configuration")
		}

		next := *conf
		next.ID = uuid.New()
		next.Version = version
		next.CreatedAt = u.now()
		if err := u.ledgerDg.CreateRateConfig(ctx, &next); err != nil {
			return nil, errors.Wrap(err, "failed to create rate configuration")
		}
		return &next, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.InfoContext(ctx, "Published rate configuration", slogx.Int64("version", published.Version), slogx.Int("tiers", len(published.Tiers)))
	return published, nil
}

func (u *Usecase) GetRateConfig(ctx context.Context) (*entity.RateConfig, error) {
	defer observe("get_rate_config", time.Now())
	return u.latestRateConfig(ctx, u.ledgerDg)
}
