package store

import (
	"context"
	"fmt"

	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/model"
)

// Every transition below is a single UPDATE whose WHERE clause carries both
// the item id and the required prior status. Zero affected rows means the
// item is missing or in the wrong state; the transition then reports false
// and nothing else is written. Concurrent callers racing on the same item
// cannot both match.

// clearAssignment resets the cached current-assignment columns.
const clearAssignment = `assigned_to_name = NULL, employee_id = NULL, department = NULL,
	assignee_email = NULL, assignee_phone = NULL, assigned_at = NULL, expected_return_date = NULL`

// appendNotes appends a line to the item's notes. Its arguments are the
// line and the line prefixed with a newline.
const appendNotes = `notes = CASE WHEN notes IS NULL OR notes = '' THEN ? ELSE notes || ? END`

// guardedUpdate runs a conditional UPDATE and reports whether a row matched.
func guardedUpdate(ctx context.Context, tx *db.Tx, op, query string, args ...any) (bool, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: reading affected rows: %w", op, err)
	}
	return n > 0, nil
}

// CheckoutItem assigns an available item and opens an assignment record.
func (s *Store) CheckoutItem(ctx context.Context, id int64, in model.CheckoutInput, actor *int64) (bool, error) {
	ok := false
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		matched, err := guardedUpdate(ctx, tx, "checking out item",
			`UPDATE inventory_items
			 SET status = ?, assigned_to_name = ?, employee_id = ?, department = ?,
			     assignee_email = ?, assignee_phone = ?, assigned_at = CURRENT_TIMESTAMP,
			     expected_return_date = ?, disposal_reason = NULL, disposed_by = NULL, disposed_at = NULL,
			     updated_by = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND status = ?`,
			model.ItemStatusAssigned, in.AssignedToName, nullable(in.EmployeeID), nullable(in.Department),
			nullable(in.Email), nullable(in.Phone), nullable(in.ExpectedReturnDate),
			nullableInt(actor), id, model.ItemStatusAvailable,
		)
		if err != nil || !matched {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_assignments (
				item_id, assigned_to_name, employee_id, department, email, phone,
				expected_return_date, notes, status, assigned_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, in.AssignedToName, nullable(in.EmployeeID), nullable(in.Department),
			nullable(in.Email), nullable(in.Phone), nullable(in.ExpectedReturnDate),
			nullable(in.Notes), model.AssignmentActive, nullableInt(actor),
		); err != nil {
			return wrapWrite("opening assignment", err)
		}

		ok = true
		return insertActivity(ctx, tx, &id, model.ActionCheckout, actor,
			map[string]string{"status": model.ItemStatusAvailable},
			map[string]string{
				"status":           model.ItemStatusAssigned,
				"assigned_to_name": in.AssignedToName,
				"department":       in.Department,
			},
		)
	})
	return ok, err
}

// CheckinItem returns an assigned item to stock, closes its active
// assignment and records the return condition.
func (s *Store) CheckinItem(ctx context.Context, id int64, in model.CheckinInput, actor *int64) (bool, error) {
	query := `UPDATE inventory_items
		SET status = ?, condition_status = ?, ` + clearAssignment + `,
		    updated_by = ?, updated_at = CURRENT_TIMESTAMP`
	args := []any{model.ItemStatusAvailable, in.ReturnCondition, nullableInt(actor)}
	if in.ReturnNotes != "" {
		line := "Returned: " + in.ReturnNotes
		query += ", " + appendNotes
		args = append(args, line, "\n"+line)
	}
	query += ` WHERE id = ? AND status = ?`
	args = append(args, id, model.ItemStatusAssigned)

	ok := false
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		before, err := getItem(ctx, tx, id)
		if err != nil {
			return err
		}

		matched, err := guardedUpdate(ctx, tx, "checking in item", query, args...)
		if err != nil || !matched {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE item_assignments
			 SET status = ?, returned_at = CURRENT_TIMESTAMP, return_condition = ?,
			     return_notes = ?, returned_by = ?
			 WHERE item_id = ? AND status = ?`,
			model.AssignmentReturned, in.ReturnCondition, nullable(in.ReturnNotes),
			nullableInt(actor), id, model.AssignmentActive,
		); err != nil {
			return fmt.Errorf("closing assignment: %w", err)
		}

		old := map[string]string{"status": model.ItemStatusAssigned}
		if before != nil {
			old["assigned_to_name"] = before.AssignedToName
			old["condition"] = before.Condition
		}

		ok = true
		return insertActivity(ctx, tx, &id, model.ActionCheckin, actor, old, map[string]string{
			"status":    model.ItemStatusAvailable,
			"condition": in.ReturnCondition,
		})
	})
	return ok, err
}

// DisposeItem retires an item that is not already retired. An active
// assignment is closed as part of the disposal.
func (s *Store) DisposeItem(ctx context.Context, id int64, in model.DisposeInput, actor *int64) (bool, error) {
	ok := false
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		before, err := getItem(ctx, tx, id)
		if err != nil {
			return err
		}

		matched, err := guardedUpdate(ctx, tx, "disposing item",
			`UPDATE inventory_items
			 SET status = ?, disposal_reason = ?, disposed_by = ?, disposed_at = CURRENT_TIMESTAMP,
			     `+clearAssignment+`, updated_by = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND status <> ?`,
			model.ItemStatusRetired, nullable(in.DisposalReason), nullable(in.DisposedBy),
			nullableInt(actor), id, model.ItemStatusRetired,
		)
		if err != nil || !matched {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE item_assignments
			 SET status = ?, returned_at = CURRENT_TIMESTAMP, return_notes = ?, returned_by = ?
			 WHERE item_id = ? AND status = ?`,
			model.AssignmentReturned, "item disposed", nullableInt(actor), id, model.AssignmentActive,
		); err != nil {
			return fmt.Errorf("closing assignment: %w", err)
		}

		old := map[string]string{}
		if before != nil {
			old["status"] = before.Status
		}

		ok = true
		return insertActivity(ctx, tx, &id, model.ActionDispose, actor, old, map[string]string{
			"status":          model.ItemStatusRetired,
			"disposal_reason": in.DisposalReason,
			"disposed_by":     in.DisposedBy,
		})
	})
	return ok, err
}

// StartMaintenance moves an available item into maintenance.
func (s *Store) StartMaintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64) (bool, error) {
	return s.maintenance(ctx, id, in, actor,
		model.ItemStatusAvailable, model.ItemStatusMaintenance, model.ActionMaintenanceStart, "")
}

// EndMaintenance returns an item from maintenance to stock, optionally
// updating its condition.
func (s *Store) EndMaintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64) (bool, error) {
	return s.maintenance(ctx, id, in, actor,
		model.ItemStatusMaintenance, model.ItemStatusAvailable, model.ActionMaintenanceEnd, in.Condition)
}

func (s *Store) maintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64, from, to, action, condition string) (bool, error) {
	query := `UPDATE inventory_items SET status = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP`
	args := []any{to, nullableInt(actor)}
	if condition != "" {
		query += ", condition_status = ?"
		args = append(args, condition)
	}
	if in.Notes != "" {
		line := "Maintenance: " + in.Notes
		query += ", " + appendNotes
		args = append(args, line, "\n"+line)
	}
	query += ` WHERE id = ? AND status = ?`
	args = append(args, id, from)

	ok := false
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		matched, err := guardedUpdate(ctx, tx, "changing maintenance status", query, args...)
		if err != nil || !matched {
			return err
		}

		next := map[string]string{"status": to}
		if condition != "" {
			next["condition"] = condition
		}
		if in.Notes != "" {
			next["notes"] = in.Notes
		}

		ok = true
		return insertActivity(ctx, tx, &id, action, actor, map[string]string{"status": from}, next)
	})
	return ok, err
}
