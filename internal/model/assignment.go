package model

import "time"

// Assignment is one checkout episode of an item. Rows are appended on
// checkout and closed on checkin; they are never removed while the item exists.
type Assignment struct {
	ID                 int64      `json:"id"`
	ItemID             int64      `json:"item_id"`
	AssignedToName     string     `json:"assigned_to_name"`
	EmployeeID         string     `json:"employee_id,omitempty"`
	Department         string     `json:"department,omitempty"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	AssignedAt         time.Time  `json:"assigned_at"`
	ExpectedReturnDate string     `json:"expected_return_date,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	Status             string     `json:"status"`
	ReturnedAt         *time.Time `json:"returned_at,omitempty"`
	ReturnCondition    string     `json:"return_condition,omitempty"`
	ReturnNotes        string     `json:"return_notes,omitempty"`
	AssignedBy         *int64     `json:"assigned_by,omitempty"`
	ReturnedBy         *int64     `json:"returned_by,omitempty"`
}

// Assignment statuses.
const (
	AssignmentActive   = "active"
	AssignmentReturned = "returned"
)
