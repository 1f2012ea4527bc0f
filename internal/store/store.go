package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/erazemk/popis/internal/db"
)

// ErrDuplicate is returned when an insert or update violates a unique key.
var ErrDuplicate = errors.New("duplicate key")

// Store is the item record store. It is constructed once at startup around
// an open database and is safe for concurrent use.
type Store struct {
	db *db.DB
}

// New returns a Store backed by database.
func New(database *db.DB) *Store {
	return &Store{db: database}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// wrapWrite wraps a write error, translating unique violations to ErrDuplicate.
func wrapWrite(op string, err error) error {
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// insertActivity appends an audit entry. Snapshots are stored as JSON.
func insertActivity(ctx context.Context, q db.Querier, itemID *int64, action string, userID *int64, oldValues, newValues any) error {
	oldJSON, err := snapshot(oldValues)
	if err != nil {
		return err
	}
	newJSON, err := snapshot(newValues)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO activity_logs (item_id, action, user_id, old_values, new_values)
		 VALUES (?, ?, ?, ?, ?)`,
		nullableInt(itemID), action, nullableInt(userID), oldJSON, newJSON,
	)
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

func snapshot(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding activity snapshot: %w", err)
	}
	return string(data), nil
}

func rawJSON(s sql.NullString) json.RawMessage {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.RawMessage(s.String)
}
