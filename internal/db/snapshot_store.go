package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SnapshotStore persists the last known JSON value of each named queue or
// collection so the UI has data immediately on reload, before the live
// channel re-establishes. It is a derived, time-lagged mirror and never
// the source of truth once the channel is connected.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates a new snapshot store from a base store
func NewSnapshotStore(store *Store) *SnapshotStore {
	if store == nil {
		return nil
	}
	return &SnapshotStore{db: store.DB()}
}

// Save upserts the serialized value for key
func (ss *SnapshotStore) Save(ctx context.Context, key, value string) error {
	if ss == nil || ss.db == nil {
		return fmt.Errorf("snapshot store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("snapshot key cannot be empty")
	}
	_, err := ss.db.ExecContext(ctx, `INSERT INTO snapshots(key, value, updated_at)
VALUES(?,?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
`, key, value, time.Now().Unix())
	return err
}

// Load returns the serialized value for key if present
func (ss *SnapshotStore) Load(ctx context.Context, key string) (string, bool, error) {
	if ss == nil || ss.db == nil {
		return "", false, fmt.Errorf("snapshot store not initialized")
	}
	var out string
	err := ss.db.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key=?`, key).Scan(&out)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// Delete removes the stored value for key
func (ss *SnapshotStore) Delete(ctx context.Context, key string) error {
	if ss == nil || ss.db == nil {
		return fmt.Errorf("snapshot store not initialized")
	}
	_, err := ss.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key=?`, key)
	return err
}

// Clear removes all stored snapshots
func (ss *SnapshotStore) Clear(ctx context.Context) error {
	if ss == nil || ss.db == nil {
		return fmt.Errorf("snapshot store not initialized")
	}
	_, err := ss.db.ExecContext(ctx, `DELETE FROM snapshots`)
	return err
}

// SavePageToken caches a continuation token for (label, query, page)
func (ss *SnapshotStore) SavePageToken(ctx context.Context, labelID, query string, pageIndex int, token string) error {
	if ss == nil || ss.db == nil {
		return fmt.Errorf("snapshot store not initialized")
	}
	if strings.TrimSpace(labelID) == "" {
		return fmt.Errorf("labelID cannot be empty")
	}
	_, err := ss.db.ExecContext(ctx, `INSERT INTO page_tokens(label_id, query, page_index, token, updated_at)
VALUES(?,?,?,?,?)
ON CONFLICT(label_id, query, page_index) DO UPDATE SET token=excluded.token, updated_at=excluded.updated_at;
`, labelID, query, pageIndex, token, time.Now().Unix())
	return err
}

// LoadPageToken returns a cached continuation token if present
func (ss *SnapshotStore) LoadPageToken(ctx context.Context, labelID, query string, pageIndex int) (string, bool, error) {
	if ss == nil || ss.db == nil {
		return "", false, fmt.Errorf("snapshot store not initialized")
	}
	var out string
	err := ss.db.QueryRowContext(ctx, `SELECT token FROM page_tokens WHERE label_id=? AND query=? AND page_index=?`,
		labelID, query, pageIndex).Scan(&out)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// ClearPageTokens drops all cached tokens for a label (any query)
func (ss *SnapshotStore) ClearPageTokens(ctx context.Context, labelID string) error {
	if ss == nil || ss.db == nil {
		return fmt.Errorf("snapshot store not initialized")
	}
	_, err := ss.db.ExecContext(ctx, `DELETE FROM page_tokens WHERE label_id=?`, labelID)
	return err
}
