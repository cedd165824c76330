// Package memory provides the in-memory storage provider. It enforces the
// same unique, foreign key and cascade rules as the PostgreSQL schema and
// reports violations under the same constraint names.
package memory

import (
	"context"
	"maps"
	"sync"

	"carrest/internal/core/id"
	"carrest/internal/core/tx"
	"carrest/internal/domain/audit"
)

// catalogTable holds one name-unique catalog.
type catalogTable struct {
	name             string
	uniqueConstraint string
	seq              id.ID
	rows             map[id.ID]string

	// ref selects the car column pointing at this table
	ref func(carRow) id.ID
}

func newCatalogTable(name, uniqueConstraint string, ref func(carRow) id.ID) *catalogTable {
	return &catalogTable{
		name:             name,
		uniqueConstraint: uniqueConstraint,
		rows:             make(map[id.ID]string),
		ref:              ref,
	}
}

func (t *catalogTable) clone() *catalogTable {
	c := *t
	c.rows = maps.Clone(t.rows)
	return &c
}

func (t *catalogTable) nameTaken(name string, except id.ID) bool {
	for rowID, n := range t.rows {
		if n == name && rowID != except {
			return true
		}
	}
	return false
}

type carRow struct {
	id             id.ID
	year           int
	manufacturerID id.ID
	carModelID     id.ID
	categoryID     id.ID
}

// Store is the shared state behind all memory repositories.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	manufacturers *catalogTable
	categories    *catalogTable
	carModels     *catalogTable

	cars   map[id.ID]carRow
	carSeq id.ID

	audit []audit.Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		manufacturers: newCatalogTable("manufacturers", "uq_manufacturers_name",
			func(r carRow) id.ID { return r.manufacturerID }),
		categories: newCatalogTable("categories", "uq_categories_name",
			func(r carRow) id.ID { return r.categoryID }),
		carModels: newCatalogTable("car_models", "uq_car_models_name",
			func(r carRow) id.ID { return r.carModelID }),
		cars: make(map[id.ID]carRow),
	}
}

// Ping implements tx.Pinger. The memory store is always ready.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// cascade removes cars referencing a deleted catalog row. Caller holds mu.
func (s *Store) cascade(t *catalogTable, rowID id.ID) {
	for carID, row := range s.cars {
		if t.ref(row) == rowID {
			delete(s.cars, carID)
		}
	}
}

type snapshot struct {
	manufacturers *catalogTable
	categories    *catalogTable
	carModels     *catalogTable
	cars          map[id.ID]carRow
	carSeq        id.ID
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot{
		manufacturers: s.manufacturers.clone(),
		categories:    s.categories.clone(),
		carModels:     s.carModels.clone(),
		cars:          maps.Clone(s.cars),
		carSeq:        s.carSeq,
	}
}

// restore rolls tables back. Sequences keep advancing like identity columns.
func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manufacturers.rows = snap.manufacturers.rows
	s.categories.rows = snap.categories.rows
	s.carModels.rows = snap.carModels.rows
	s.cars = snap.cars
}

// Compile-time check that TxManager implements tx.Manager interface.
var _ tx.Manager = (*TxManager)(nil)

// TxManager serializes transactions and restores a snapshot on failure.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager over store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

type txKey struct{}

// RunInTransaction executes fn within a transaction.
// Nested calls reuse the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}
