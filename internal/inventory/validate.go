package inventory

import (
	"net"
	"net/mail"
	"strings"
	"time"

	"github.com/erazemk/popis/internal/model"
)

const (
	dateLayout   = "2006-01-02"
	maxTextLen   = 255
	maxNotesLen  = 4000
	maxAssetTag  = 64
	maxSerialLen = 128
)

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func trimPtr(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func checkLen(field, v string, limit int) error {
	if len(v) > limit {
		return invalid(field, "must be at most %d characters", limit)
	}
	return nil
}

func checkDate(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return nil
}

func checkMAC(v string) error {
	if v == "" {
		return nil
	}
	if _, err := net.ParseMAC(v); err != nil {
		return invalid("mac_address", "is not a valid MAC address")
	}
	return nil
}

func checkIP(v string) error {
	if v == "" {
		return nil
	}
	if net.ParseIP(v) == nil {
		return invalid("ip_address", "is not a valid IP address")
	}
	return nil
}

func checkEmail(v string) error {
	if v == "" {
		return nil
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return invalid("email", "is not a valid email address")
	}
	return nil
}

func checkCondition(field, v string) error {
	if v != "" && !model.ValidCondition(v) {
		return invalid(field, "must be one of new, excellent, good, fair, poor")
	}
	return nil
}

func checkPrice(v *float64) error {
	if v != nil && *v < 0 {
		return invalid("purchase_price", "must not be negative")
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// normalizeItem trims in, applies defaults and checks every field except
// the category reference.
func normalizeItem(in *model.ItemInput) error {
	trim(&in.ItemName, &in.Name, &in.SerialNumber, &in.AssetTag, &in.Brand, &in.Model,
		&in.Category, &in.Status, &in.Condition, &in.Location,
		&in.Processor, &in.RAM, &in.Storage, &in.OperatingSystem, &in.Hostname,
		&in.MACAddress, &in.IPAddress, &in.PurchaseDate, &in.Supplier, &in.WarrantyPeriod)

	if in.ItemName == "" {
		in.ItemName = in.Name
	}
	if in.ItemName == "" {
		return invalid("item_name", "is required")
	}
	if in.SerialNumber == "" {
		return invalid("serial_number", "is required")
	}

	if in.Status == "" {
		in.Status = model.ItemStatusAvailable
	}
	if in.Status != model.ItemStatusAvailable && in.Status != model.ItemStatusMaintenance {
		return invalid("status", "new items must be available or maintenance")
	}
	if in.Condition == "" {
		in.Condition = model.ConditionGood
	}

	return firstError(
		checkLen("item_name", in.ItemName, maxTextLen),
		checkLen("serial_number", in.SerialNumber, maxSerialLen),
		checkLen("asset_tag", in.AssetTag, maxAssetTag),
		checkLen("brand", in.Brand, maxTextLen),
		checkLen("model", in.Model, maxTextLen),
		checkLen("location", in.Location, maxTextLen),
		checkLen("description", in.Description, maxNotesLen),
		checkLen("notes", in.Notes, maxNotesLen),
		checkCondition("condition", in.Condition),
		checkMAC(in.MACAddress),
		checkIP(in.IPAddress),
		checkDate("purchase_date", in.PurchaseDate),
		checkPrice(in.PurchasePrice),
	)
}

func normalizePatch(p *model.ItemPatch) error {
	if p.Empty() {
		return invalid("", "no fields to update")
	}

	trimPtr(p.ItemName, p.Brand, p.Model, p.Location, p.Condition,
		p.Processor, p.RAM, p.Storage, p.OperatingSystem, p.Hostname,
		p.MACAddress, p.IPAddress, p.PurchaseDate, p.Supplier, p.WarrantyPeriod)

	str := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}

	if p.ItemName != nil && *p.ItemName == "" {
		return invalid("item_name", "must not be empty")
	}
	if p.Condition != nil && *p.Condition == "" {
		return invalid("condition", "must not be empty")
	}
	if p.CategoryID != nil && *p.CategoryID < 0 {
		return invalid("category_id", "must not be negative")
	}

	return firstError(
		checkLen("item_name", str(p.ItemName), maxTextLen),
		checkLen("brand", str(p.Brand), maxTextLen),
		checkLen("model", str(p.Model), maxTextLen),
		checkLen("location", str(p.Location), maxTextLen),
		checkLen("description", str(p.Description), maxNotesLen),
		checkLen("notes", str(p.Notes), maxNotesLen),
		checkCondition("condition", str(p.Condition)),
		checkMAC(str(p.MACAddress)),
		checkIP(str(p.IPAddress)),
		checkDate("purchase_date", str(p.PurchaseDate)),
		checkPrice(p.PurchasePrice),
	)
}

func normalizeCheckout(in *model.CheckoutInput) error {
	trim(&in.AssignedToName, &in.EmployeeID, &in.Department, &in.Email, &in.Phone, &in.ExpectedReturnDate)
	if in.AssignedToName == "" {
		return invalid("assigned_to_name", "is required")
	}
	return firstError(
		checkLen("assigned_to_name", in.AssignedToName, maxTextLen),
		checkLen("department", in.Department, maxTextLen),
		checkLen("phone", in.Phone, 64),
		checkLen("assignment_notes", in.Notes, maxNotesLen),
		checkEmail(in.Email),
		checkDate("expected_return_date", in.ExpectedReturnDate),
	)
}

func normalizeCheckin(in *model.CheckinInput) error {
	trim(&in.ReturnCondition, &in.ReturnNotes)
	if in.ReturnCondition == "" {
		in.ReturnCondition = model.ConditionGood
	}
	return firstError(
		checkCondition("return_condition", in.ReturnCondition),
		checkLen("return_notes", in.ReturnNotes, maxNotesLen),
	)
}

func normalizeDispose(in *model.DisposeInput) error {
	trim(&in.DisposalReason, &in.DisposedBy)
	return firstError(
		checkLen("disposal_reason", in.DisposalReason, maxNotesLen),
		checkLen("disposed_by", in.DisposedBy, maxTextLen),
	)
}

func normalizeMaintenance(in *model.MaintenanceInput) error {
	trim(&in.Notes, &in.Condition)
	return firstError(
		checkCondition("condition", in.Condition),
		checkLen("notes", in.Notes, maxNotesLen),
	)
}
