package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/popis/internal/model"
)

// ListActivity returns the most recent activity entries, newest first.
// When itemID is positive only that item's entries are returned.
func (s *Store) ListActivity(ctx context.Context, itemID int64, limit int) ([]model.Activity, error) {
	query := `SELECT a.id, a.item_id, a.action, a.user_id, a.old_values, a.new_values, a.created_at,
	                 i.item_name, u.username
	          FROM activity_logs a
	          LEFT JOIN inventory_items i ON i.id = a.item_id
	          LEFT JOIN users u ON u.id = a.user_id`
	var args []any

	if itemID > 0 {
		query += ` WHERE a.item_id = ?`
		args = append(args, itemID)
	}
	query += ` ORDER BY a.created_at DESC, a.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	var entries []model.Activity
	for rows.Next() {
		var (
			a                    model.Activity
			oldValues, newValues sql.NullString
			itemName, username   sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ItemID, &a.Action, &a.UserID, &oldValues, &newValues, &a.CreatedAt,
			&itemName, &username); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		a.OldValues = rawJSON(oldValues)
		a.NewValues = rawJSON(newValues)
		a.ItemName = itemName.String
		a.Username = username.String
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
