package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"carrest/internal/core/id"
	"carrest/internal/domain/audit"
)

const auditTable = "audit_log"

// CompressionAlgo specifies the compression algorithm used for a snapshot.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the snapshot size above which zstd is applied.
const DefaultCompressThreshold = 4 * 1024

// auditRow is the storage shape of audit.Entry.
type auditRow struct {
	audit.Entry
	SnapshotCompressed []byte          `db:"snapshot_compressed"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo"`
}

// Compile-time check that AuditStore implements audit.Store.
var _ audit.Store = (*AuditStore)(nil)

// AuditStore keeps audit entries in PostgreSQL; large snapshots are zstd-compressed.
type AuditStore struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditStore creates a new audit store. threshold <= 0 selects the default.
func NewAuditStore(txManager *TxManager, threshold int) (*AuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}

	return &AuditStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: threshold,
	}, nil
}

func (s *AuditStore) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Record inserts one entry.
func (s *AuditStore) Record(ctx context.Context, entry audit.Entry) error {
	row := s.compress(entry)

	sql, args, err := s.builder().
		Insert(auditTable).
		SetMap(map[string]any{
			"id":                  row.ID,
			"entity_type":         row.EntityType,
			"entity_id":           row.EntityID,
			"action":              row.Action,
			"user_email":          row.UserEmail,
			"snapshot":            row.Snapshot,
			"snapshot_compressed": row.SnapshotCompressed,
			"compression_algo":    row.CompressionAlgo,
			"created_at":          row.CreatedAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", auditTable, err)
	}
	return nil
}

// History returns the newest entries for one entity.
func (s *AuditStore) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	sql, args, err := s.builder().
		Select("id", "entity_type", "entity_id", "action", "user_email",
			"snapshot", "snapshot_compressed", "compression_algo", "created_at").
		From(auditTable).
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, r := range rows {
		e, err := s.decompress(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *AuditStore) compress(e audit.Entry) auditRow {
	row := auditRow{Entry: e, CompressionAlgo: CompressionNone}
	if len(e.Snapshot) > s.compressThreshold {
		row.SnapshotCompressed = s.encoder.EncodeAll(e.Snapshot, nil)
		row.Snapshot = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row
}

func (s *AuditStore) decompress(r auditRow) (audit.Entry, error) {
	e := r.Entry
	if r.CompressionAlgo == CompressionZstd && len(r.SnapshotCompressed) > 0 {
		decompressed, err := s.decoder.DecodeAll(r.SnapshotCompressed, nil)
		if err != nil {
			return audit.Entry{}, fmt.Errorf("decompress snapshot: %w", err)
		}
		e.Snapshot = decompressed
	}
	return e, nil
}
