// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on a specific storage provider.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK and nested calls.
//
// The PostgreSQL implementation lives in infrastructure/storage/postgres,
// the in-memory one in infrastructure/storage/memory.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pinger reports storage availability for readiness probes.
type Pinger interface {
	Ping(ctx context.Context) error
}
