// Package memory is an in-process LedgerDataGateway. Transactions are serialized by a single lock held from
// BeginLedgerTx until Commit or Rollback, which gives the same isolation as row locks taken on every row.
package memory

import (
	"sync"

	"github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/google/uuid"
)

var _ datagateway.LedgerDataGatewayWithTx = (*Repository)(nil)

type state struct {
	accounts      map[string]entity.Account
	recharges     map[string]entity.RechargeEvent
	withdrawals   map[uuid.UUID]entity.WithdrawalRequest
	destinations  map[string]entity.PayoutDestination
	holdings      map[string]entity.ProductHolding
	rateConfigs   []entity.RateConfig
	notifications []entity.Notification
}

func newState() *state {
	return &state{
		accounts:     make(map[string]entity.Account),
		recharges:    make(map[string]entity.RechargeEvent),
		withdrawals:  make(map[uuid.UUID]entity.WithdrawalRequest),
		destinations: make(map[string]entity.PayoutDestination),
		holdings:     make(map[string]entity.ProductHolding),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:      make(map[string]entity.Account, len(s.accounts)),
		recharges:     make(map[string]entity.RechargeEvent, len(s.recharges)),
		withdrawals:   make(map[uuid.UUID]entity.WithdrawalRequest, len(s.withdrawals)),
		destinations:  make(map[string]entity.PayoutDestination, len(s.destinations)),
		holdings:      make(map[string]entity.ProductHolding, len(s.holdings)),
		rateConfigs:   append([]entity.RateConfig(nil), s.rateConfigs...),
		notifications: append([]entity.Notification(nil), s.notifications...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.recharges {
		c.recharges[k] = v
	}
	for k, v := range s.withdrawals {
		c.withdrawals[k] = v
	}
	for k, v := range s.destinations {
		c.destinations[k] = v
	}
	for k, v := range s.holdings {
		c.holdings[k] = v
	}
	return c
}

type store struct {
	mu      sync.Mutex
	current *state
}

type Repository struct {
	store *store
	// staged is non-nil while a transaction is open; reads and writes go to it and it replaces current on Commit.
	staged *state
	closed bool
}

func NewRepository() *Repository {
	return &Repository{
		store: &store{current: newState()},
	}
}

// view runs fn against the transaction's staged state, or against the committed state under the lock.
func (r *Repository) view(fn func(s *state) error) error {
	if r.staged != nil {
		return fn(r.staged)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.current)
}

// update is like view but writes outside a transaction are committed immediately.
func (r *Repository) update(fn func(s *state) error) error {
	if r.staged != nil {
		return fn(r.staged)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	next := r.store.current.clone()
	if err := fn(next); err != nil {
		return err
	}
	r.store.current = next
	return nil
}
