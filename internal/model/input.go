package model

// ItemInput holds the attributes of a new item as supplied by a client.
// Either ItemName or Name may carry the item's name.
type ItemInput struct {
	ItemName        string   `json:"item_name"`
	Name            string   `json:"name"`
	SerialNumber    string   `json:"serial_number"`
	AssetTag        string   `json:"asset_tag"`
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	CategoryID      *int64   `json:"category_id"`
	Category        string   `json:"category"`
	Status          string   `json:"status"`
	Condition       string   `json:"condition"`
	Location        string   `json:"location"`
	Processor       string   `json:"processor"`
	RAM             string   `json:"ram"`
	Storage         string   `json:"storage"`
	OperatingSystem string   `json:"operating_system"`
	Hostname        string   `json:"hostname"`
	MACAddress      string   `json:"mac_address"`
	IPAddress       string   `json:"ip_address"`
	PurchaseDate    string   `json:"purchase_date"`
	PurchasePrice   *float64 `json:"purchase_price"`
	Supplier        string   `json:"supplier"`
	WarrantyPeriod  string   `json:"warranty_period"`
	Description     string   `json:"description"`
	Notes           string   `json:"notes"`
}

// ItemPatch is a partial update of an item's descriptive attributes. Nil
// fields are left unchanged. Identity, status, assignment and disposal
// attributes are not patchable; they change only through lifecycle
// transitions. A CategoryID of 0 clears the category.
type ItemPatch struct {
	ItemName        *string  `json:"item_name"`
	Brand           *string  `json:"brand"`
	Model           *string  `json:"model"`
	CategoryID      *int64   `json:"category_id"`
	Location        *string  `json:"location"`
	Condition       *string  `json:"condition"`
	Processor       *string  `json:"processor"`
	RAM             *string  `json:"ram"`
	Storage         *string  `json:"storage"`
	OperatingSystem *string  `json:"operating_system"`
	Hostname        *string  `json:"hostname"`
	MACAddress      *string  `json:"mac_address"`
	IPAddress       *string  `json:"ip_address"`
	PurchaseDate    *string  `json:"purchase_date"`
	PurchasePrice   *float64 `json:"purchase_price"`
	Supplier        *string  `json:"supplier"`
	WarrantyPeriod  *string  `json:"warranty_period"`
	Description     *string  `json:"description"`
	Notes           *string  `json:"notes"`
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p == ItemPatch{}
}

// CheckoutInput assigns an available item to a person.
type CheckoutInput struct {
	AssignedToName     string `json:"assigned_to_name"`
	EmployeeID         string `json:"employee_id"`
	Department         string `json:"department"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	ExpectedReturnDate string `json:"expected_return_date"`
	Notes              string `json:"assignment_notes"`
}

// CheckinInput returns an assigned item to stock.
type CheckinInput struct {
	ReturnCondition string `json:"return_condition"`
	ReturnNotes     string `json:"return_notes"`
}

// DisposeInput retires an item.
type DisposeInput struct {
	DisposalReason string `json:"disposal_reason"`
	DisposedBy     string `json:"disposed_by"`
}

// MaintenanceInput moves an item into or out of maintenance. Condition is
// only applied when leaving maintenance.
type MaintenanceInput struct {
	Notes     string `json:"notes"`
	Condition string `json:"condition"`
}

// ItemFilter selects a page of items. Filters combine with AND.
type ItemFilter struct {
	Status       string
	CategoryID   int64
	CategoryName string
	Search       string
	Page         int
	Limit        int
}
