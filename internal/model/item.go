package model

import "time"

// Item is one tracked piece of equipment.
type Item struct {
	ID           int64  `json:"id"`
	AssetTag     string `json:"asset_tag"`
	SerialNumber string `json:"serial_number"`
	ItemName     string `json:"item_name"`
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	CategoryID   *int64 `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Status       string `json:"status"`
	Condition    string `json:"condition"`
	Location     string `json:"location,omitempty"`

	// Technical specs.
	Processor       string `json:"processor,omitempty"`
	RAM             string `json:"ram,omitempty"`
	Storage         string `json:"storage,omitempty"`
	OperatingSystem string `json:"operating_system,omitempty"`
	Hostname        string `json:"hostname,omitempty"`
	MACAddress      string `json:"mac_address,omitempty"`
	IPAddress       string `json:"ip_address,omitempty"`

	// Procurement.
	PurchaseDate   string   `json:"purchase_date,omitempty"`
	PurchasePrice  *float64 `json:"purchase_price,omitempty"`
	Supplier       string   `json:"supplier,omitempty"`
	WarrantyPeriod string   `json:"warranty_period,omitempty"`
	Description    string   `json:"description,omitempty"`
	Notes          string   `json:"notes,omitempty"`

	// Current assignment, set only while Status is assigned.
	AssignedToName     string     `json:"assigned_to_name,omitempty"`
	EmployeeID         string     `json:"employee_id,omitempty"`
	Department         string     `json:"department,omitempty"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	AssignedAt         *time.Time `json:"assigned_at,omitempty"`
	ExpectedReturnDate string     `json:"expected_return_date,omitempty"`

	// Disposal, set only while Status is retired.
	DisposalReason string     `json:"disposal_reason,omitempty"`
	DisposedBy     string     `json:"disposed_by,omitempty"`
	DisposedAt     *time.Time `json:"disposed_at,omitempty"`

	CreatedBy *int64    `json:"created_by,omitempty"`
	UpdatedBy *int64    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item statuses.
const (
	ItemStatusAvailable   = "available"
	ItemStatusAssigned    = "assigned"
	ItemStatusMaintenance = "maintenance"
	ItemStatusRetired     = "retired"
)

// Item conditions.
const (
	ConditionNew       = "new"
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// ItemStatuses lists every status in lifecycle order.
var ItemStatuses = []string{ItemStatusAvailable, ItemStatusAssigned, ItemStatusMaintenance, ItemStatusRetired}

// ValidStatus reports whether s is a known item status.
func ValidStatus(s string) bool {
	switch s {
	case ItemStatusAvailable, ItemStatusAssigned, ItemStatusMaintenance, ItemStatusRetired:
		return true
	}
	return false
}

// ValidCondition reports whether c is a known item condition.
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}
