package store

import (
	"context"
	"fmt"

	"github.com/erazemk/popis/internal/model"
)

// RecentActivityLimit is the number of activity entries included in stats.
const RecentActivityLimit = 10

// GetStats returns item counts by status and category plus recent activity.
func (s *Store) GetStats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM inventory_items`,
		model.ItemStatusAvailable, model.ItemStatusAssigned,
		model.ItemStatusMaintenance, model.ItemStatusRetired,
	).Scan(&stats.TotalItems, &stats.Available, &stats.Assigned, &stats.Maintenance, &stats.Retired)
	if err != nil {
		return nil, fmt.Errorf("counting items by status: %w", err)
	}

	breakdown, err := s.categoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	stats.CategoryBreakdown = breakdown

	recent, err := s.ListActivity(ctx, 0, RecentActivityLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []model.Activity{}
	}
	stats.RecentActivity = recent

	return stats, nil
}

func (s *Store) categoryBreakdown(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.name, COUNT(i.id)
		 FROM categories c
		 LEFT JOIN inventory_items i ON i.category_id = c.id
		 GROUP BY c.id, c.name
		 ORDER BY COUNT(i.id) DESC, c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting items by category: %w", err)
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.Name, &cc.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}
