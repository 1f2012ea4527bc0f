// Package inventory implements the item lifecycle: validation, asset tags,
// guarded status transitions and the filtered item listing.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/popis/internal/imaging"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// Store is the record store the service runs against. *store.Store
// implements it.
type Store interface {
	CreateItem(ctx context.Context, in model.ItemInput, assetTag string, actor *int64) (*model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	ListItems(ctx context.Context, f model.ItemFilter) ([]model.Item, int, error)
	UpdateItem(ctx context.Context, id int64, p model.ItemPatch, actor *int64) (bool, error)
	DeleteItem(ctx context.Context, id int64, actor *int64) (bool, error)

	CheckoutItem(ctx context.Context, id int64, in model.CheckoutInput, actor *int64) (bool, error)
	CheckinItem(ctx context.Context, id int64, in model.CheckinInput, actor *int64) (bool, error)
	DisposeItem(ctx context.Context, id int64, in model.DisposeInput, actor *int64) (bool, error)
	StartMaintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64) (bool, error)
	EndMaintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64) (bool, error)

	ListAssignments(ctx context.Context, itemID int64) ([]model.Assignment, error)
	ListActivity(ctx context.Context, itemID int64, limit int) ([]model.Activity, error)

	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)

	GetStats(ctx context.Context) (*model.Stats, error)

	SetItemPhoto(ctx context.Context, itemID int64, data []byte, mime string) error
	GetItemPhoto(ctx context.Context, itemID int64) ([]byte, string, error)
}

// Listing limits.
const (
	DefaultPage     = 1
	DefaultLimit    = 50
	MaxLimit        = 500
	DefaultActivity = 50
)

// Service is the lifecycle controller.
type Service struct {
	store     Store
	log       *zap.SugaredLogger
	tagPrefix string
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithAssetTagPrefix sets the prefix of generated asset tags.
func WithAssetTagPrefix(prefix string) Option {
	return func(s *Service) { s.tagPrefix = prefix }
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Service) { s.log = log }
}

// NewService returns a Service over st.
func NewService(st Store, opts ...Option) *Service {
	s := &Service{
		store:     st,
		log:       zap.NewNop().Sugar(),
		tagPrefix: "AST",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ItemPage is one page of a filtered listing.
type ItemPage struct {
	Items      []model.Item `json:"items"`
	Pagination Pagination   `json:"pagination"`
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListParams are the raw listing filters. Zero Page and Limit select the
// defaults. Category is a category id or name.
type ListParams struct {
	Status   string
	Category string
	Search   string
	Page     int
	Limit    int
}

// ItemHistory is an item with its assignment episodes and audit trail.
type ItemHistory struct {
	Item        *model.Item        `json:"item"`
	Assignments []model.Assignment `json:"assignments"`
	Activity    []model.Activity   `json:"activity"`
}

func actorField(actor *int64) any {
	if actor == nil {
		return "anonymous"
	}
	return *actor
}

// Create validates in and inserts a new item. A missing asset tag is generated.
func (s *Service) Create(ctx context.Context, in model.ItemInput, actor *int64) (*model.Item, error) {
	if err := normalizeItem(&in); err != nil {
		return nil, err
	}
	if err := s.resolveCategory(ctx, &in); err != nil {
		return nil, err
	}

	tag := in.AssetTag
	if tag == "" {
		var err error
		if tag, err = NewAssetTag(s.tagPrefix, s.now()); err != nil {
			return nil, err
		}
	}

	item, err := s.store.CreateItem(ctx, in, tag, actor)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, conflict("an item with this serial number or asset tag already exists")
	}
	if err != nil {
		return nil, err
	}

	s.log.Infow("item created", "item_id", item.ID, "asset_tag", item.AssetTag, "actor", actorField(actor))
	return item, nil
}

// resolveCategory turns a category name or id into a checked CategoryID.
func (s *Service) resolveCategory(ctx context.Context, in *model.ItemInput) error {
	if in.CategoryID != nil {
		c, err := s.store.GetCategory(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return invalid("category_id", "unknown category %d", *in.CategoryID)
		}
		return nil
	}
	if in.Category == "" {
		return nil
	}

	var (
		c   *model.Category
		err error
	)
	if id, perr := strconv.ParseInt(in.Category, 10, 64); perr == nil {
		c, err = s.store.GetCategory(ctx, id)
	} else {
		c, err = s.store.GetCategoryByName(ctx, in.Category)
	}
	if err != nil {
		return err
	}
	if c == nil {
		return invalid("category", "unknown category %q", in.Category)
	}
	in.CategoryID = &c.ID
	return nil
}

// Get returns an item by id.
func (s *Service) Get(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound("item not found")
	}
	return item, nil
}

// List returns one page of items matching p, newest first.
func (s *Service) List(ctx context.Context, p ListParams) (*ItemPage, error) {
	f := model.ItemFilter{
		Status: strings.TrimSpace(p.Status),
		Search: strings.TrimSpace(p.Search),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	switch {
	case f.Page == 0:
		f.Page = DefaultPage
	case f.Page < 0:
		return nil, invalid("page", "must be a positive integer")
	}
	switch {
	case f.Limit == 0:
		f.Limit = DefaultLimit
	case f.Limit < 0:
		return nil, invalid("limit", "must be a positive integer")
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}

	if f.Status != "" && !model.ValidStatus(f.Status) {
		return nil, invalid("status", "must be one of %s", strings.Join(model.ItemStatuses, ", "))
	}

	if category := strings.TrimSpace(p.Category); category != "" {
		if id, err := strconv.ParseInt(category, 10, 64); err == nil {
			f.CategoryID = id
		} else {
			f.CategoryName = category
		}
	}

	items, total, err := s.store.ListItems(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}

	return &ItemPage{
		Items: items,
		Pagination: Pagination{
			Page:  f.Page,
			Limit: f.Limit,
			Total: total,
			Pages: (total + f.Limit - 1) / f.Limit,
		},
	}, nil
}

// Update applies a partial update and returns the updated item.
func (s *Service) Update(ctx context.Context, id int64, p model.ItemPatch, actor *int64) (*model.Item, error) {
	if err := normalizePatch(&p); err != nil {
		return nil, err
	}
	if p.CategoryID != nil && *p.CategoryID > 0 {
		c, err := s.store.GetCategory(ctx, *p.CategoryID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, invalid("category_id", "unknown category %d", *p.CategoryID)
		}
	}

	ok, err := s.store.UpdateItem(ctx, id, p, actor)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, conflict("update conflicts with an existing item")
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("item not found")
	}

	s.log.Infow("item updated", "item_id", id, "actor", actorField(actor))
	return s.Get(ctx, id)
}

// Delete permanently removes an item in any state.
func (s *Service) Delete(ctx context.Context, id int64, actor *int64) error {
	ok, err := s.store.DeleteItem(ctx, id, actor)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("item not found")
	}
	s.log.Infow("item deleted", "item_id", id, "actor", actorField(actor))
	return nil
}

// transitioned re-reads an item after a successful guarded transition.
func (s *Service) transitioned(ctx context.Context, id int64, ok bool, err error, failure, event string, actor *int64) (*model.Item, error) {
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("%s", failure)
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Infow(event, "item_id", id, "asset_tag", item.AssetTag, "status", item.Status, "actor", actorField(actor))
	return item, nil
}

// Checkout assigns an available item.
func (s *Service) Checkout(ctx context.Context, id int64, in model.CheckoutInput, actor *int64) (*model.Item, error) {
	if err := normalizeCheckout(&in); err != nil {
		return nil, err
	}
	ok, err := s.store.CheckoutItem(ctx, id, in, actor)
	return s.transitioned(ctx, id, ok, err, "item not found or not available", "item checked out", actor)
}

// Checkin returns an assigned item to stock. The return condition defaults
// to good.
func (s *Service) Checkin(ctx context.Context, id int64, in model.CheckinInput, actor *int64) (*model.Item, error) {
	if err := normalizeCheckin(&in); err != nil {
		return nil, err
	}
	ok, err := s.store.CheckinItem(ctx, id, in, actor)
	return s.transitioned(ctx, id, ok, err, "item not found or not assigned", "item checked in", actor)
}

// Dispose retires an item that is not already retired.
func (s *Service) Dispose(ctx context.Context, id int64, in model.DisposeInput, actor *int64) (*model.Item, error) {
	if err := normalizeDispose(&in); err != nil {
		return nil, err
	}
	ok, err := s.store.DisposeItem(ctx, id, in, actor)
	return s.transitioned(ctx, id, ok, err, "item not found or already retired", "item disposed", actor)
}

// StartMaintenance moves an available item into maintenance.
func (s *Service) StartMaintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64) (*model.Item, error) {
	if err := normalizeMaintenance(&in); err != nil {
		return nil, err
	}
	ok, err := s.store.StartMaintenance(ctx, id, in, actor)
	return s.transitioned(ctx, id, ok, err, "item not found or not available", "item sent to maintenance", actor)
}

// EndMaintenance returns an item from maintenance to stock.
func (s *Service) EndMaintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64) (*model.Item, error) {
	if err := normalizeMaintenance(&in); err != nil {
		return nil, err
	}
	ok, err := s.store.EndMaintenance(ctx, id, in, actor)
	return s.transitioned(ctx, id, ok, err, "item not found or not in maintenance", "item released from maintenance", actor)
}

// History returns an item with its assignment episodes and activity.
func (s *Service) History(ctx context.Context, id int64) (*ItemHistory, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.ListAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	activity, err := s.store.ListActivity(ctx, id, MaxLimit)
	if err != nil {
		return nil, err
	}

	h := &ItemHistory{Item: item, Assignments: assignments, Activity: activity}
	if h.Assignments == nil {
		h.Assignments = []model.Assignment{}
	}
	if h.Activity == nil {
		h.Activity = []model.Activity{}
	}
	return h, nil
}

// Activity returns the most recent activity across all items. A zero limit
// selects the default.
func (s *Service) Activity(ctx context.Context, limit int) ([]model.Activity, error) {
	switch {
	case limit == 0:
		limit = DefaultActivity
	case limit < 0:
		return nil, invalid("limit", "must be a positive integer")
	case limit > MaxLimit:
		limit = MaxLimit
	}
	entries, err := s.store.ListActivity(ctx, 0, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.Activity{}
	}
	return entries, nil
}

// Categories lists all categories.
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// CreateCategory adds a category with a unique name.
func (s *Service) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if err := firstError(checkLen("name", name, maxTextLen), checkLen("description", description, maxNotesLen)); err != nil {
		return nil, err
	}

	c, err := s.store.CreateCategory(ctx, name, description)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, conflict("category %q already exists", name)
	}
	return c, err
}

// Stats returns counts by status and category plus recent activity.
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	return s.store.GetStats(ctx)
}

// SetPhoto normalizes and stores an item's photo.
func (s *Service) SetPhoto(ctx context.Context, id int64, r io.Reader) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	photo, err := imaging.Normalize(r)
	switch {
	case errors.Is(err, imaging.ErrUnsupported), errors.Is(err, imaging.ErrTooLarge):
		return invalid("photo", "%s", err.Error())
	case err != nil:
		return invalid("photo", "could not be processed")
	}

	if err := s.store.SetItemPhoto(ctx, id, photo.Data, photo.MIME); err != nil {
		return fmt.Errorf("storing photo: %w", err)
	}
	s.log.Infow("item photo updated", "item_id", id, "width", photo.Width, "height", photo.Height)
	return nil
}

// Photo returns an item's photo and its MIME type.
func (s *Service) Photo(ctx context.Context, id int64) ([]byte, string, error) {
	data, mime, err := s.store.GetItemPhoto(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		return nil, "", notFound("photo not found")
	}
	return data, mime, nil
}
