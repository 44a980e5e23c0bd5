// Package vip decides whether an account qualifies for its next VIP tier.
package vip

import (
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Evaluate reports whether teamSize and teamAssets meet the thresholds of tier currentVIPLevel+1.
// It returns false when the table has no such tier.
func Evaluate(teamSize int64, teamAssets decimal.Decimal, currentVIPLevel int32, tiers []entity.VIPTier) bool {
	next, ok := NextTier(currentVIPLevel, tiers)
	if !ok {
		return false
	}
	return teamSize >= next.RequiredTeamSize && teamAssets.GreaterThanOrEqual(next.RequiredTeamAssets)
}

// NextTier returns the tier row for currentVIPLevel+1.
func NextTier(currentVIPLevel int32, tiers []entity.VIPTier) (entity.VIPTier, bool) {
	return lo.Find(tiers, func(t entity.VIPTier) bool {
		return t.Level == currentVIPLevel+1
	})
}
