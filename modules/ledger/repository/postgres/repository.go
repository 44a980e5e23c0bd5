package postgres

import (
	"github.com/gaze-network/commission-ledger/internal/postgres"
	"github.com/gaze-network/commission-ledger/modules/ledger/datagateway"
	"github.com/gaze-network/commission-ledger/modules/ledger/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.LedgerDataGatewayWithTx = (*Repository)(nil)

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
	tx      pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}
