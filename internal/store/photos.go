package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SetItemPhoto stores or replaces an item's photo.
func (s *Store) SetItemPhoto(ctx context.Context, itemID int64, data []byte, mime string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO item_photos (item_id, data, mime) VALUES (?, ?, ?)
		 ON CONFLICT (item_id) DO UPDATE
		 SET data = excluded.data, mime = excluded.mime, updated_at = CURRENT_TIMESTAMP`,
		itemID, data, mime,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo and MIME type, or nil data if none.
func (s *Store) GetItemPhoto(ctx context.Context, itemID int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, mime FROM item_photos WHERE item_id = ?`, itemID,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return data, mime, nil
}
