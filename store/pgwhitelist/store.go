package pgwhitelist

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/botguard/botguard/whitelist"
)

// Store implements whitelist.EntryStore against a Postgres pool.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool. Use Connect to build one.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Save(ctx context.Context, entry whitelist.Entry) error {
	const q = `
		INSERT INTO whitelist_entries (id, entry_type, value, reason, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			entry_type = EXCLUDED.entry_type,
			value      = EXCLUDED.value,
			reason     = EXCLUDED.reason,
			expires_at = EXCLUDED.expires_at`

	var expiresAt *time.Time
	if !entry.ExpiresAt.IsZero() {
		expiresAt = &entry.ExpiresAt
	}
	_, err := s.pool.Exec(ctx, q, entry.ID, string(entry.Type), entry.Value, entry.Reason, entry.CreatedAt, expiresAt)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM whitelist_entries WHERE id = $1`, id)
	return err
}

func (s *Store) LoadAll(ctx context.Context) ([]whitelist.Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, entry_type, value, reason, created_at, expires_at FROM whitelist_entries`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []whitelist.Entry
	for rows.Next() {
		var (
			e         whitelist.Entry
			entryType string
			expiresAt *time.Time
		)
		if err := rows.Scan(&e.ID, &entryType, &e.Value, &e.Reason, &e.CreatedAt, &expiresAt); err != nil {
			return nil, err
		}
		e.Type = whitelist.BypassType(entryType)
		if expiresAt != nil {
			e.ExpiresAt = *expiresAt
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM whitelist_entries WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Hydrate loads every persisted entry into m via whitelist.Manager.Restore.
func Hydrate(ctx context.Context, store *Store, m *whitelist.Manager) error {
	entries, err := store.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		m.Restore(e)
	}
	return nil
}
