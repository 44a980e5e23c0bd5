package memory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
)

var ErrTxAlreadyExists = errors.New("Transaction already exists. Call Commit() or Rollback() first.")

func (r *Repository) BeginLedgerTx(ctx context.Context) (datagateway.LedgerDataGatewayWithTx, error) {
	if r.staged != nil {
		return nil, errors.WithStack(ErrTxAlreadyExists)
	}
	r.store.mu.Lock()
	return &Repository{
		store:  r.store,
		staged: r.store.current.clone(),
	}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.staged == nil || r.closed {
		return nil
	}
	r.store.current = r.staged
	r.release()
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	if r.staged == nil || r.closed {
		return nil
	}
	r.release()
	return nil
}

func (r *Repository) release() {
	r.closed = true
	r.store.mu.Unlock()
}
