package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQLKV persists keys as rows of the `collections` table created by
// database.Migrate. The version column doubles as an optimistic lock.
type MySQLKV struct {
	db     *sql.DB
	prefix string
}

// NewMySQLKV wraps an open pool. prefix is prepended to every row name.
func NewMySQLKV(db *sql.DB, prefix string) *MySQLKV {
	return &MySQLKV{db: db, prefix: prefix}
}

func (m *MySQLKV) name(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + ":" + k
}

func (m *MySQLKV) Get(ctx context.Context, key string) ([]byte, int64, error) {
	const q = "SELECT payload, version FROM collections WHERE name = ?"
	var (
		payload []byte
		version int64
	)
	err := m.db.QueryRowContext(ctx, q, m.name(key)).Scan(&payload, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return payload, version, nil
}

func (m *MySQLKV) Put(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	if expected == 0 {
		const qInsert = "INSERT INTO collections (name, payload, version) VALUES (?, ?, 1)"
		if _, err := m.db.ExecContext(ctx, qInsert, m.name(key), value); err != nil {
			var me *mysql.MySQLError
			if errors.As(err, &me) && me.Number == 1062 {
				return 0, ErrVersionConflict // someone created the row first
			}
			return 0, err
		}
		return 1, nil
	}
	const qUpdate = `UPDATE collections
	           SET payload = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
	           WHERE name = ? AND version = ?`
	res, err := m.db.ExecContext(ctx, qUpdate, value, m.name(key), expected)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrVersionConflict
	}
	return expected + 1, nil
}

func (m *MySQLKV) Delete(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", m.name(key))
	return err
}
