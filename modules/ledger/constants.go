package ledger

const (
	Version = "v0.1.0"

	// DBVersion is the latest schema migration of the ledger module.
	DBVersion = 1
)
