package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/model"
)

const itemColumns = `i.id, i.asset_tag, i.serial_number, i.item_name, i.brand, i.model,
	i.category_id, c.name, i.status, i.condition_status, i.location,
	i.processor, i.ram, i.storage, i.operating_system, i.hostname, i.mac_address, i.ip_address,
	i.purchase_date, i.purchase_price, i.supplier, i.warranty_period, i.description, i.notes,
	i.assigned_to_name, i.employee_id, i.department, i.assignee_email, i.assignee_phone,
	i.assigned_at, i.expected_return_date,
	i.disposal_reason, i.disposed_by, i.disposed_at,
	i.created_by, i.updated_by, i.created_at, i.updated_at`

const itemFrom = ` FROM inventory_items i LEFT JOIN categories c ON c.id = i.category_id`

func scanItem(s rowScanner) (*model.Item, error) {
	var (
		it                                                model.Item
		brand, mdl, categoryName, location                sql.NullString
		processor, ram, storage, osName, hostname, mac, ip sql.NullString
		purchaseDate, supplier, warranty, desc, notes     sql.NullString
		assignee, employeeID, department, email, phone    sql.NullString
		expectedReturn, disposalReason, disposedBy        sql.NullString
		price                                             sql.NullFloat64
	)

	err := s.Scan(&it.ID, &it.AssetTag, &it.SerialNumber, &it.ItemName, &brand, &mdl,
		&it.CategoryID, &categoryName, &it.Status, &it.Condition, &location,
		&processor, &ram, &storage, &osName, &hostname, &mac, &ip,
		&purchaseDate, &price, &supplier, &warranty, &desc, &notes,
		&assignee, &employeeID, &department, &email, &phone,
		&it.AssignedAt, &expectedReturn,
		&disposalReason, &disposedBy, &it.DisposedAt,
		&it.CreatedBy, &it.UpdatedBy, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}

	it.Brand = brand.String
	it.Model = mdl.String
	it.CategoryName = categoryName.String
	it.Location = location.String
	it.Processor = processor.String
	it.RAM = ram.String
	it.Storage = storage.String
	it.OperatingSystem = osName.String
	it.Hostname = hostname.String
	it.MACAddress = mac.String
	it.IPAddress = ip.String
	it.PurchaseDate = purchaseDate.String
	if price.Valid {
		it.PurchasePrice = &price.Float64
	}
	it.Supplier = supplier.String
	it.WarrantyPeriod = warranty.String
	it.Description = desc.String
	it.Notes = notes.String
	it.AssignedToName = assignee.String
	it.EmployeeID = employeeID.String
	it.Department = department.String
	it.Email = email.String
	it.Phone = phone.String
	it.ExpectedReturnDate = expectedReturn.String
	it.DisposalReason = disposalReason.String
	it.DisposedBy = disposedBy.String
	return &it, nil
}

// CreateItem inserts a new item and records the creation. in must already
// be validated; the item's asset tag is taken from assetTag.
func (s *Store) CreateItem(ctx context.Context, in model.ItemInput, assetTag string, actor *int64) (*model.Item, error) {
	var id int64
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO inventory_items (
				asset_tag, serial_number, item_name, brand, model, category_id,
				status, condition_status, location,
				processor, ram, storage, operating_system, hostname, mac_address, ip_address,
				purchase_date, purchase_price, supplier, warranty_period, description, notes,
				search_text, created_by, updated_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			assetTag, in.SerialNumber, in.ItemName, nullable(in.Brand), nullable(in.Model), nullableInt(in.CategoryID),
			in.Status, in.Condition, nullable(in.Location),
			nullable(in.Processor), nullable(in.RAM), nullable(in.Storage), nullable(in.OperatingSystem),
			nullable(in.Hostname), nullable(in.MACAddress), nullable(in.IPAddress),
			nullable(in.PurchaseDate), nullableFloat(in.PurchasePrice), nullable(in.Supplier),
			nullable(in.WarrantyPeriod), nullable(in.Description), nullable(in.Notes),
			searchText(in.ItemName, in.Brand, in.Model, in.SerialNumber), nullableInt(actor), nullableInt(actor),
		).Scan(&id)
		if err != nil {
			return wrapWrite("creating item", err)
		}

		return insertActivity(ctx, tx, &id, model.ActionCreate, actor, nil, map[string]any{
			"asset_tag":     assetTag,
			"serial_number": in.SerialNumber,
			"item_name":     in.ItemName,
			"status":        in.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	return getItem(ctx, s.db, id)
}

func getItem(ctx context.Context, q db.Querier, id int64) (*model.Item, error) {
	item, err := scanItem(q.QueryRowContext(ctx,
		`SELECT `+itemColumns+itemFrom+` WHERE i.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns one page of items matching f, newest first, together
// with the total number of matching items. f.Page and f.Limit must be positive.
func (s *Store) ListItems(ctx context.Context, f model.ItemFilter) ([]model.Item, int, error) {
	where := []string{"1=1"}
	var args []any

	if f.Status != "" {
		where = append(where, "i.status = ?")
		args = append(args, f.Status)
	}
	if f.CategoryID > 0 {
		where = append(where, "i.category_id = ?")
		args = append(args, f.CategoryID)
	} else if f.CategoryName != "" {
		where = append(where, "c.name_key = ?")
		args = append(args, categoryKey(f.CategoryName))
	}
	if f.Search != "" {
		where = append(where, `i.search_text LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(f.Search))+"%")
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+itemFrom+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}
	if f.Page-1 >= (total+f.Limit-1)/f.Limit {
		return nil, total, nil
	}

	pageArgs := append(append([]any{}, args...), f.Limit, (f.Page-1)*f.Limit)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+itemFrom+cond+
			` ORDER BY i.created_at DESC, i.id DESC LIMIT ? OFFSET ?`,
		pageArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

// searchText is the lowercased text matched by ListItems searches. Fields
// are separated so a pattern cannot match across two of them.
func searchText(fields ...string) string {
	return strings.ToLower(strings.Join(fields, "\x1f"))
}

// escapeLike escapes LIKE wildcards so that s matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// UpdateItem applies a validated patch. It reports false if the item does not exist.
func (s *Store) UpdateItem(ctx context.Context, id int64, p model.ItemPatch, actor *int64) (bool, error) {
	type assignment struct {
		expr string
		val  any
	}
	var sets []assignment
	str := func(expr string, v *string) {
		if v != nil {
			sets = append(sets, assignment{expr, nullable(*v)})
		}
	}

	str("item_name = ?", p.ItemName)
	str("brand = ?", p.Brand)
	str("model = ?", p.Model)
	if p.CategoryID != nil {
		var v any
		if *p.CategoryID > 0 {
			v = *p.CategoryID
		}
		sets = append(sets, assignment{"category_id = ?", v})
	}
	str("location = ?", p.Location)
	str("condition_status = ?", p.Condition)
	str("processor = ?", p.Processor)
	str("ram = ?", p.RAM)
	str("storage = ?", p.Storage)
	str("operating_system = ?", p.OperatingSystem)
	str("hostname = ?", p.Hostname)
	str("mac_address = ?", p.MACAddress)
	str("ip_address = ?", p.IPAddress)
	str("purchase_date = ?", p.PurchaseDate)
	if p.PurchasePrice != nil {
		sets = append(sets, assignment{"purchase_price = ?", *p.PurchasePrice})
	}
	str("supplier = ?", p.Supplier)
	str("warranty_period = ?", p.WarrantyPeriod)
	str("description = ?", p.Description)
	str("notes = ?", p.Notes)

	if len(sets) == 0 {
		return false, fmt.Errorf("updating item: empty patch")
	}

	found := false
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		before, err := getItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if before == nil {
			return nil
		}

		name, brand, mdl := before.ItemName, before.Brand, before.Model
		if p.ItemName != nil {
			name = *p.ItemName
		}
		if p.Brand != nil {
			brand = *p.Brand
		}
		if p.Model != nil {
			mdl = *p.Model
		}

		exprs := make([]string, 0, len(sets)+3)
		args := make([]any, 0, len(sets)+3)
		for _, a := range sets {
			exprs = append(exprs, a.expr)
			args = append(args, a.val)
		}
		exprs = append(exprs, "search_text = ?", "updated_by = ?", "updated_at = CURRENT_TIMESTAMP")
		args = append(args, searchText(name, brand, mdl, before.SerialNumber), nullableInt(actor), id)

		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory_items SET `+strings.Join(exprs, ", ")+` WHERE id = ?`,
			args...,
		); err != nil {
			return wrapWrite("updating item", err)
		}

		found = true
		return insertActivity(ctx, tx, &id, model.ActionUpdate, actor, before, p)
	})
	return found, err
}

// DeleteItem permanently removes an item along with its assignment history
// and photo. Activity entries are kept. It reports false if the item does
// not exist.
func (s *Store) DeleteItem(ctx context.Context, id int64, actor *int64) (bool, error) {
	found := false
	err := s.db.WithTx(ctx, func(tx *db.Tx) error {
		before, err := getItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if before == nil {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}

		found = true
		return insertActivity(ctx, tx, &id, model.ActionDelete, actor, before, nil)
	})
	return found, err
}
