package withdrawalvalidator

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Policy is the schedule, amount and frequency configuration for withdrawal requests.
type Policy struct {
	MinAmount decimal.Decimal
	// MaxAmount of zero means no upper bound.
	MaxAmount  decimal.Decimal
	FeePercent decimal.Decimal
	Location   *time.Location
	// ActiveDays are the weekdays requests are accepted on. Empty means every day.
	ActiveDays []time.Weekday
	// StartTime and EndTime are offsets from local midnight. EndTime is exclusive; zero means end of day.
	StartTime time.Duration
	EndTime   time.Duration
	// FrequencyDays is the number of local calendar days a request blocks further requests for. Zero disables the check.
	FrequencyDays int
}

// Fee returns FeePercent of amount.
func (p Policy) Fee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.FeePercent).Div(hundred)
}

// Local returns t in the policy's location.
func (p Policy) Local(t time.Time) time.Time {
	if p.Location == nil {
		return t.UTC()
	}
	return t.In(p.Location)
}

// FrequencyWindowStart is the local midnight FrequencyDays-1 days before now's local date.
// Any request created at or after it counts against the limit.
func (p Policy) FrequencyWindowStart(now time.Time) time.Time {
	local := p.Local(now)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return midnight.AddDate(0, 0, -(p.FrequencyDays - 1))
}

// InWindow reports whether now falls on an active day and inside [StartTime, EndTime) local time.
func (p Policy) InWindow(now time.Time) bool {
	local := p.Local(now)
	if len(p.ActiveDays) > 0 && !lo.Contains(p.ActiveDays, local.Weekday()) {
		return false
	}
	sinceMidnight := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second
	end := p.EndTime
	if end == 0 {
		end = 24 * time.Hour
	}
	return sinceMidnight >= p.StartTime && sinceMidnight < end
}

func (p Policy) Validate() error {
	var errList []error
	if p.MinAmount.IsNegative() {
		errList = append(errList, errors.New("min amount must not be negative"))
	}
	if p.MaxAmount.IsPositive() && p.MaxAmount.LessThan(p.MinAmount) {
		errList = append(errList, errors.New("max amount must not be less than min amount"))
	}
	if p.FeePercent.IsNegative() || p.FeePercent.GreaterThanOrEqual(hundred) {
		errList = append(errList, errors.New("fee percent must be within [0, 100)"))
	}
	if p.StartTime < 0 || p.EndTime < 0 || p.EndTime > 24*time.Hour {
		errList = append(errList, errors.New("window times must be within a day"))
	}
	if p.EndTime != 0 && p.EndTime <= p.StartTime {
		errList = append(errList, errors.New("window end must be after window start"))
	}
	if p.FrequencyDays < 0 {
		errList = append(errList, errors.New("frequency days must not be negative"))
	}
	if len(errList) > 0 {
		return errors.Wrap(errs.InvalidArgument, errors.Join(errList...).Error())
	}
	return nil
}

// ParseClock parses "HH:MM" into an offset from midnight. "24:00" is accepted as end of day.
func ParseClock(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, errors.Wrapf(errs.InvalidArgument, "invalid clock %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, errors.Wrapf(errs.InvalidArgument, "invalid clock %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
