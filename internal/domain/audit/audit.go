// Package audit records who changed which entity, and how, after each
// committed write.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	appctx "carrest/internal/core/context"
	"carrest/internal/core/entity"
	"carrest/internal/core/id"
	"carrest/internal/domain"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entity types, as used in the /audit/{entityType}/{id} route.
const (
	EntityCars          = "cars"
	EntityCarModels     = "car-models"
	EntityCategories    = "categories"
	EntityManufacturers = "manufacturers"
)

// DefaultHistoryLimit bounds History when the caller passes no limit.
const DefaultHistoryLimit = 50

// Entry is a single audit log record.
type Entry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	Action     Action          `db:"action" json:"action"`
	UserEmail  string          `db:"user_email" json:"userEmail,omitempty"`
	Snapshot   json.RawMessage `db:"snapshot" json:"snapshot"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Store persists and reads audit entries.
type Store interface {
	Record(ctx context.Context, entry Entry) error
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Recorder turns lifecycle events into audit entries.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder creates a Recorder backed by store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Record stores snapshot, marshalled to JSON, under the given action.
// The principal email is taken from ctx.
func (r *Recorder) Record(ctx context.Context, entityType string, action Action, entityID id.ID, snapshot any) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", entityType, err)
	}

	entry := Entry{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserEmail:  appctx.GetEmail(ctx),
		Snapshot:   raw,
		CreatedAt:  r.now().UTC(),
	}
	if err := r.store.Record(ctx, entry); err != nil {
		return fmt.Errorf("record %s %s: %w", action, entityType, err)
	}
	return nil
}

// History returns the newest entries for one entity.
func (r *Recorder) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return r.store.History(ctx, entityType, entityID, limit)
}

// Attach registers after-hooks so every committed create, update and delete
// of T is recorded. snapshot renders the stored JSON shape of T.
func Attach[T entity.Identifiable, S any](r *Recorder, hooks *domain.HookRegistry[T], entityType string, snapshot func(T) S) {
	hooks.OnAfterCreate(func(ctx context.Context, e T) error {
		return r.Record(ctx, entityType, ActionCreate, e.GetID(), snapshot(e))
	})
	hooks.OnAfterUpdate(func(ctx context.Context, e T) error {
		return r.Record(ctx, entityType, ActionUpdate, e.GetID(), snapshot(e))
	})
	hooks.OnAfterDelete(func(ctx context.Context, e T) error {
		return r.Record(ctx, entityType, ActionDelete, e.GetID(), snapshot(e))
	})
}

// AttachCascade records a delete entry of dependentType for every dependent
// row that storage removes together with a T. Dependents are collected
// before the delete and recorded after it commits.
func AttachCascade[T entity.Identifiable, D entity.Identifiable, S any](
	r *Recorder,
	hooks *domain.HookRegistry[T],
	dependentType string,
	dependents func(ctx context.Context, parentID id.ID) ([]D, error),
	snapshot func(D) S,
) {
	var (
		mu      sync.Mutex
		pending = make(map[id.ID][]D)
	)

	hooks.OnBeforeDelete(func(ctx context.Context, e T) error {
		rows, err := dependents(ctx, e.GetID())
		if err != nil {
			return fmt.Errorf("list %s dependents: %w", dependentType, err)
		}
		mu.Lock()
		pending[e.GetID()] = rows
		mu.Unlock()
		return nil
	})

	hooks.OnAfterDelete(func(ctx context.Context, e T) error {
		mu.Lock()
		rows := pending[e.GetID()]
		delete(pending, e.GetID())
		mu.Unlock()

		var errs []error
		for _, d := range rows {
			if err := r.Record(ctx, dependentType, ActionDelete, d.GetID(), snapshot(d)); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// IsKnownEntityType reports whether entityType names an audited resource.
func IsKnownEntityType(entityType string) bool {
	switch entityType {
	case EntityCars, EntityCarModels, EntityCategories, EntityManufacturers:
		return true
	}
	return false
}
