package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/popis/internal/model"
)

// ListAssignments returns the assignment history of an item, newest first.
func (s *Store) ListAssignments(ctx context.Context, itemID int64) ([]model.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, assigned_to_name, employee_id, department, email, phone,
		        assigned_at, expected_return_date, notes, status,
		        returned_at, return_condition, return_notes, assigned_by, returned_by
		 FROM item_assignments
		 WHERE item_id = ?
		 ORDER BY assigned_at DESC, id DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var (
			a                                             model.Assignment
			employeeID, department, email, phone          sql.NullString
			expectedReturn, notes, returnCond, returnNote sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ItemID, &a.AssignedToName, &employeeID, &department, &email, &phone,
			&a.AssignedAt, &expectedReturn, &notes, &a.Status,
			&a.ReturnedAt, &returnCond, &returnNote, &a.AssignedBy, &a.ReturnedBy); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		a.EmployeeID = employeeID.String
		a.Department = department.String
		a.Email = email.String
		a.Phone = phone.String
		a.ExpectedReturnDate = expectedReturn.String
		a.Notes = notes.String
		a.ReturnCondition = returnCond.String
		a.ReturnNotes = returnNote.String
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
