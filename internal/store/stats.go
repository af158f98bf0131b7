package store

import (
	"context"
	"database/sql"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string `json:"db_path"`
	DBSizeBytes int64  `json:"db_size_bytes"`
	Keys        int    `json:"keys"`
	ValueBytes  int64  `json:"value_bytes"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Stats returns database statistics.
func (s *SQLiteSlot) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	var size sql.NullInt64
	var updated sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(LENGTH(value)), MAX(updated_at) FROM slots`).Scan(&st.Keys, &size, &updated)
	if err != nil {
		return st, err
	}
	st.ValueBytes = size.Int64
	st.UpdatedAt = updated.String

	return st, nil
}
