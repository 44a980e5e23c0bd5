package config

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/internal/postgres"
	withdrawalvalidator "github.com/gaze-network/commission-ledger/modules/ledger/internal/validator/withdrawal"
	"github.com/gaze-network/commission-ledger/pkg/retry"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database    string           `mapstructure:"database"` // Database to store ledger data. `postgres` or `memory`.
	Postgres    postgres.Config  `mapstructure:"postgres"`
	APIHandlers []string         `mapstructure:"api_handlers"` // List of API handlers to enable. (e.g. `http`)
	Retry       retry.Config     `mapstructure:"retry"`
	Withdrawal  WithdrawalConfig `mapstructure:"withdrawal"`
	Notifier    NotifierConfig   `mapstructure:"notifier"`
}

type WithdrawalConfig struct {
	MinAmount     string `mapstructure:"min_amount"`
	MaxAmount     string `mapstructure:"max_amount"` // Empty or "0" means no upper bound.
	FeePercent    string `mapstructure:"fee_percent"`
	Timezone      string `mapstructure:"timezone"`    // IANA name, e.g. `Asia/Bangkok`.
	ActiveDays    []int  `mapstructure:"active_days"` // 0 = Sunday ... 6 = Saturday. Empty means every day.
	StartTime     string `mapstructure:"start_time"`  // `HH:MM`, inclusive.
	EndTime       string `mapstructure:"end_time"`    // `HH:MM`, exclusive. Empty means end of day.
	FrequencyDays int    `mapstructure:"frequency_days"`

	// EnforceLegality rejects withdrawals larger than the account's legal allowance.
	EnforceLegality bool `mapstructure:"enforce_legality"`
}

type NotifierConfig struct {
	Enabled      bool              `mapstructure:"enabled"`
	WebhookURL   string            `mapstructure:"webhook_url"`
	PollInterval time.Duration     `mapstructure:"poll_interval"`
	BatchSize    int32             `mapstructure:"batch_size"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	Headers      map[string]string `mapstructure:"headers"` // Sent with every webhook request.
}

// Default returns the configuration used when keys are absent.
func Default() Config {
	return Config{
		Database:    "postgres",
		APIHandlers: []string{"http"},
		Withdrawal: WithdrawalConfig{
			MinAmount:     "0",
			FeePercent:    "5",
			Timezone:      "UTC",
			FrequencyDays: 1,
		},
		Notifier: NotifierConfig{
			PollInterval: 5 * time.Second,
			BatchSize:    100,
			Timeout:      10 * time.Second,
		},
	}
}

// Policy parses the withdrawal section into a validated policy.
func (c WithdrawalConfig) Policy() (withdrawalvalidator.Policy, error) {
	parse := func(name, value, fallback string) (decimal.Decimal, error) {
		if value == "" {
			value = fallback
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, errors.Wrapf(errs.InvalidArgument, "invalid withdrawal.%s %q", name, value)
		}
		return d, nil
	}

	minAmount, err := parse("min_amount", c.MinAmount, "0")
	if err != nil {
		return withdrawalvalidator.Policy{}, err
	}
	maxAmount, err := parse("max_amount", c.MaxAmount, "0")
	if err != nil {
		return withdrawalvalidator.Policy{}, err
	}
	feePercent, err := parse("fee_percent", c.FeePercent, "5")
	if err != nil {
		return withdrawalvalidator.Policy{}, err
	}
	loc, err := time.LoadLocation(lo.Ternary(c.Timezone == "", "UTC", c.Timezone))
	if err != nil {
		return withdrawalvalidator.Policy{}, errors.Wrapf(errs.InvalidArgument, "invalid withdrawal.timezone %q", c.Timezone)
	}
	start, err := withdrawalvalidator.ParseClock(c.StartTime)
	if err != nil {
		return withdrawalvalidator.Policy{}, errors.Wrap(err, "withdrawal.start_time")
	}
	end, err := withdrawalvalidator.ParseClock(c.EndTime)
	if err != nil {
		return withdrawalvalidator.Policy{}, errors.Wrap(err, "withdrawal.end_time")
	}
	for _, d := range c.ActiveDays {
		if d < 0 || d > 6 {
			return withdrawalvalidator.Policy{}, errors.Wrapf(errs.InvalidArgument, "invalid withdrawal.active_days value %d", d)
		}
	}

	policy := withdrawalvalidator.Policy{
		MinAmount:     minAmount,
		MaxAmount:     maxAmount,
		FeePercent:    feePercent,
		Location:      loc,
		ActiveDays:    lo.Map(c.ActiveDays, func(d int, _ int) time.Weekday { return time.Weekday(d) }),
		StartTime:     start,
		EndTime:       end,
		FrequencyDays: c.FrequencyDays,
	}
	if err := policy.Validate(); err != nil {
		return withdrawalvalidator.Policy{}, errors.WithStack(err)
	}
	return policy, nil
}
