package memory

import (
	"strings"

	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
)

// Callers may hand in strings that alias a reused request buffer, so every
// string that becomes a map key or stored field is copied on write.

func cloneAccount(a *entity.Account) entity.Account {
	stored := *a
	stored.ID = strings.Clone(a.ID)
	for i, parent := range a.ReferralParents {
		stored.ReferralParents[i] = strings.Clone(parent)
	}
	return stored
}

func cloneRechargeEvent(e *entity.RechargeEvent) entity.RechargeEvent {
	stored := *e
	stored.ID = strings.Clone(e.ID)
	stored.AccountID = strings.Clone(e.AccountID)
	return stored
}

func cloneWithdrawalRequest(r *entity.WithdrawalRequest) entity.WithdrawalRequest {
	stored := *r
	stored.AccountID = strings.Clone(r.AccountID)
	return stored
}

func clonePayoutDestination(d *entity.PayoutDestination) entity.PayoutDestination {
	stored := *d
	stored.AccountID = strings.Clone(d.AccountID)
	stored.BankName = strings.Clone(d.BankName)
	stored.AccountName = strings.Clone(d.AccountName)
	stored.AccountNumber = strings.Clone(d.AccountNumber)
	return stored
}

func cloneProductHolding(h *entity.ProductHolding) entity.ProductHolding {
	stored := *h
	stored.ID = strings.Clone(h.ID)
	stored.AccountID = strings.Clone(h.AccountID)
	stored.ProductID = strings.Clone(h.ProductID)
	return stored
}

func cloneNotification(n *entity.Notification) entity.Notification {
	stored := *n
	stored.AccountID = strings.Clone(n.AccountID)
	stored.SourceAccountID = strings.Clone(n.SourceAccountID)
	stored.RechargeEventID = strings.Clone(n.RechargeEventID)
	stored.Message = strings.Clone(n.Message)
	return stored
}
