package memory

import (
	"context"
	"slices"

	"carrest/internal/core/id"
	"carrest/internal/domain/audit"
)

var _ audit.Store = (*AuditStore)(nil)

// AuditStore keeps audit entries in the shared Store.
type AuditStore struct {
	store *Store
}

// NewAuditStore creates an in-memory audit store.
func NewAuditStore(store *Store) *AuditStore {
	return &AuditStore{store: store}
}

func (a *AuditStore) Record(ctx context.Context, entry audit.Entry) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	a.store.audit = append(a.store.audit, entry)
	return nil
}

// History returns the newest entries first.
func (a *AuditStore) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	entries := make([]audit.Entry, 0)
	for _, e := range slices.Backward(a.store.audit) {
		if e.EntityType != entityType || e.EntityID != entityID {
			continue
		}
		entries = append(entries, e)
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}
