package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore persists records as JSON blobs keyed by the namespaced
// result key, one row per (kind, id). Works against sqlite and
// postgres through database/sql.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Put(ctx context.Context, rec Record) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %v", ErrPersistence, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO results (key,kind,user_id,record_json,recorded_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (key) DO UPDATE SET kind=EXCLUDED.kind, user_id=EXCLUDED.user_id, record_json=EXCLUDED.record_json, recorded_at=EXCLUDED.recorded_at`,
		rec.Key(), string(rec.Kind), rec.UserID, string(buf), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT record_json FROM results WHERE key=$1`, key)
	var buf string
	if err := row.Scan(&buf); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(buf), &rec); err != nil {
		return Record{}, false, fmt.Errorf("%w: unmarshal record: %v", ErrPersistence, err)
	}
	return rec, true, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record_json FROM results`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var buf string
		if err := rows.Scan(&buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(buf), &rec); err != nil {
			return nil, fmt.Errorf("%w: unmarshal record: %v", ErrPersistence, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return out, nil
}
