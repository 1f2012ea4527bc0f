package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/popis/internal/auth"
	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

const testJWTSecret = "test-secret"

type testServer struct {
	*httptest.Server
	store *store.Store
}

func setupTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()
	st := store.New(db.NewTestDB(t))
	router := NewRouter(Options{
		Inventory:    inventory.NewService(st),
		Users:        st,
		Health:       st,
		JWTSecret:    testJWTSecret,
		AuthRequired: authRequired,
		Version:      "test",
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{Server: server, store: st}
}

// createUser stores an account and returns a token for it.
func (s *testServer) createUser(t *testing.T, username, role string) string {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	_, err = s.store.CreateUser(context.Background(), username, "", "", hash, role)
	require.NoError(t, err)

	var resp loginResponse
	status := s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": username, "password": "password123"}, &resp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// do sends a JSON request and decodes the response into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) createItem(t *testing.T, name, serial string) model.Item {
	t.Helper()
	var item model.Item
	status := s.do(t, http.MethodPost, "/api/inventory/items", "",
		map[string]string{"item_name": name, "serial_number": serial}, &item)
	require.Equal(t, http.StatusCreated, status)
	return item
}

func itemPath(id int64, suffix string) string {
	return fmt.Sprintf("/api/inventory/items/%d%s", id, suffix)
}

func TestCheckoutCheckinScenario(t *testing.T) {
	s := setupTestServer(t, false)

	created := s.createItem(t, "Dell Monitor 27", "DEL001")
	assert.Equal(t, model.ItemStatusAvailable, created.Status)
	assert.NotEmpty(t, created.AssetTag)

	var item model.Item
	status := s.do(t, http.MethodPost, itemPath(created.ID, "/checkout"), "",
		map[string]string{"assigned_to_name": "John Doe", "department": "IT"}, &item)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.ItemStatusAssigned, item.Status)
	assert.Equal(t, "John Doe", item.AssignedToName)
	assert.Equal(t, "IT", item.Department)

	var errResp errorBody
	status = s.do(t, http.MethodPost, itemPath(created.ID, "/checkout"), "",
		map[string]string{"assigned_to_name": "Jane Roe"}, &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, errResp.Error)

	var returned model.Item
	status = s.do(t, http.MethodPost, itemPath(created.ID, "/checkin"), "",
		map[string]string{"return_condition": "good"}, &returned)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.ItemStatusAvailable, returned.Status)
	assert.Empty(t, returned.AssignedToName)
	assert.Empty(t, returned.Department)

	var history inventory.ItemHistory
	status = s.do(t, http.MethodGet, itemPath(created.ID, "/history"), "", nil, &history)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, history.Assignments, 1)
	assert.Equal(t, model.AssignmentReturned, history.Assignments[0].Status)
	assert.Len(t, history.Activity, 3)
}

func TestCheckinWithoutBody(t *testing.T) {
	s := setupTestServer(t, false)
	created := s.createItem(t, "ThinkPad", "TP-1")

	status := s.do(t, http.MethodPost, itemPath(created.ID, "/checkout"), "",
		map[string]string{"assigned_to_name": "John Doe"}, nil)
	require.Equal(t, http.StatusOK, status)

	var item model.Item
	status = s.do(t, http.MethodPost, itemPath(created.ID, "/checkin"), "", nil, &item)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.ConditionGood, item.Condition)
}

func TestConcurrentCheckoutHasOneWinner(t *testing.T) {
	s := setupTestServer(t, false)
	created := s.createItem(t, "Dock", "DOCK-1")

	const n = 8
	statuses := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := fmt.Sprintf(`{"assigned_to_name": "user %d"}`, i)
			resp, err := http.Post(s.URL+itemPath(created.ID, "/checkout"), "application/json",
				bytes.NewBufferString(body))
			if err != nil {
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	ok := 0
	for _, status := range statuses {
		if status == http.StatusOK {
			ok++
		} else {
			assert.Equal(t, http.StatusNotFound, status)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestCreateItemErrors(t *testing.T) {
	s := setupTestServer(t, false)
	s.createItem(t, "Monitor", "SER-1")

	tests := []struct {
		name   string
		body   any
		status int
		field  string
	}{
		{"missing serial", map[string]string{"item_name": "Monitor"}, http.StatusBadRequest, "serial_number"},
		{"missing name", map[string]string{"serial_number": "SER-2"}, http.StatusBadRequest, "item_name"},
		{"duplicate serial", map[string]string{"item_name": "Other", "serial_number": "SER-1"}, http.StatusConflict, ""},
		{"unknown field", map[string]string{"item_name": "X", "serial_number": "SER-3", "colour": "red"}, http.StatusBadRequest, ""},
		{"malformed json", `{"item_name":`, http.StatusBadRequest, ""},
		{"wrong type", `{"item_name": 5, "serial_number": "SER-4"}`, http.StatusBadRequest, ""},
		{"bad mac", map[string]string{"item_name": "X", "serial_number": "SER-5", "mac_address": "zz"}, http.StatusBadRequest, "mac_address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp errorBody
			status := s.do(t, http.MethodPost, "/api/inventory/items", "", tt.body, &resp)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.field, resp.Field)
		})
	}

	var page inventory.ItemPage
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/inventory/items", "", nil, &page))
	assert.Equal(t, 1, page.Pagination.Total)
}

func TestCreateItemWithName(t *testing.T) {
	s := setupTestServer(t, false)

	var item model.Item
	status := s.do(t, http.MethodPost, "/api/inventory/items", "", map[string]any{
		"name":          "Cisco Switch",
		"serial_number": "CSC-1",
		"category":      "Networking",
		"status":        "maintenance",
	}, &item)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Cisco Switch", item.ItemName)
	assert.Equal(t, "Networking", item.CategoryName)
	assert.Equal(t, model.ItemStatusMaintenance, item.Status)
}

func TestUpdateItem(t *testing.T) {
	s := setupTestServer(t, false)
	created := s.createItem(t, "Laptop", "LAP-1")

	var item model.Item
	status := s.do(t, http.MethodPut, itemPath(created.ID, ""), "",
		map[string]string{"location": "Room 101", "brand": "Lenovo"}, &item)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Room 101", item.Location)
	assert.Equal(t, "Lenovo", item.Brand)
	assert.Equal(t, model.ItemStatusAvailable, item.Status)

	var resp errorBody
	status = s.do(t, http.MethodPut, itemPath(created.ID, ""), "",
		map[string]string{"status": model.ItemStatusRetired}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Error, "status")

	status = s.do(t, http.MethodPut, itemPath(created.ID, ""), "", map[string]string{}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)

	status = s.do(t, http.MethodPut, itemPath(9999, ""), "", map[string]string{"location": "x"}, &resp)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteItem(t *testing.T) {
	s := setupTestServer(t, false)
	created := s.createItem(t, "Printer", "PRN-1")

	var msg map[string]string
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, itemPath(created.ID, ""), "", nil, &msg))
	assert.Equal(t, "item deleted", msg["message"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, itemPath(created.ID, ""), "", nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, itemPath(created.ID, ""), "", nil, nil))
}

func TestInvalidItemID(t *testing.T) {
	s := setupTestServer(t, false)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/inventory/items/abc", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/inventory/items/0", "", nil, nil))
}

func TestDisposeItem(t *testing.T) {
	s := setupTestServer(t, false)
	created := s.createItem(t, "Old Phone", "PH-1")

	var resp struct {
		Message string     `json:"message"`
		Item    model.Item `json:"item"`
	}
	status := s.do(t, http.MethodPut, itemPath(created.ID, "/dispose"), "",
		map[string]string{"disposal_reason": "broken", "disposed_by": "IT"}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "item disposed", resp.Message)
	assert.Equal(t, model.ItemStatusRetired, resp.Item.Status)
	assert.Equal(t, "broken", resp.Item.DisposalReason)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, itemPath(created.ID, "/dispose"), "", nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, itemPath(created.ID, "/checkout"), "",
		map[string]string{"assigned_to_name": "John Doe"}, nil))
}

func TestMaintenanceRoundTrip(t *testing.T) {
	s := setupTestServer(t, false)
	created := s.createItem(t, "Projector", "PRJ-1")

	var item model.Item
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, itemPath(created.ID, "/maintenance"), "",
		map[string]string{"notes": "lamp replacement"}, &item))
	assert.Equal(t, model.ItemStatusMaintenance, item.Status)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, itemPath(created.ID, "/checkout"), "",
		map[string]string{"assigned_to_name": "John Doe"}, nil))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, itemPath(created.ID, "/release"), "", nil, &item))
	assert.Equal(t, model.ItemStatusAvailable, item.Status)
	assert.Contains(t, item.Notes, "lamp replacement")
}

func TestListItems(t *testing.T) {
	s := setupTestServer(t, false)
	for i := range 7 {
		s.createItem(t, fmt.Sprintf("Monitor %d", i), fmt.Sprintf("MON-%d", i))
	}
	laptop := s.createItem(t, "Laptop", "LAP-1")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, itemPath(laptop.ID, "/checkout"), "",
		map[string]string{"assigned_to_name": "John Doe"}, nil))

	var page inventory.ItemPage
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/inventory/items?limit=3&page=2", "", nil, &page))
	assert.Equal(t, inventory.Pagination{Page: 2, Limit: 3, Total: 8, Pages: 3}, page.Pagination)
	assert.Len(t, page.Items, 3)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/inventory/items?status=assigned", "", nil, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, laptop.ID, page.Items[0].ID)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/inventory/items?search=monitor+3", "", nil, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Monitor 3", page.Items[0].ItemName)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/inventory/items?page=9", "", nil, &page))
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	for _, query := range []string{"page=0", "limit=-1", "limit=abc", "status=lost"} {
		var resp errorBody
		assert.Equal(t, http.StatusBadRequest,
			s.do(t, http.MethodGet, "/api/inventory/items?"+query, "", nil, &resp), query)
		assert.NotEmpty(t, resp.Field, query)
	}
}

func TestCategoriesStatsAndActivity(t *testing.T) {
	s := setupTestServer(t, false)

	var categories []model.Category
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/inventory/categories", "", nil, &categories))
	assert.NotEmpty(t, categories)

	var category model.Category
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/inventory/categories", "",
		map[string]string{"name": "Audio", "description": "Headsets"}, &category))
	assert.Equal(t, "Audio", category.Name)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/inventory/categories", "",
		map[string]string{"name": "Audio"}, nil))
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/inventory/categories", "",
		map[string]string{"name": "computers"}, nil))

	item := s.createItem(t, "Headset", "HS-1")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, itemPath(item.ID, "/checkout"), "",
		map[string]string{"assigned_to_name": "John Doe"}, nil))
	s.createItem(t, "Keyboard", "KB-1")

	for _, path := range []string{"/api/inventory/stats", "/api/dashboard/stats"} {
		var stats model.Stats
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, "", nil, &stats))
		assert.Equal(t, 2, stats.TotalItems, path)
		assert.Equal(t, 1, stats.Assigned, path)
		assert.Equal(t, 1, stats.Available, path)
		assert.NotEmpty(t, stats.RecentActivity, path)
	}

	var activity []model.Activity
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/inventory/activity?limit=2", "", nil, &activity))
	require.Len(t, activity, 2)
	assert.Equal(t, model.ActionCreate, activity[0].Action)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/inventory/activity?limit=0", "", nil, nil))
}

func pngUpload(t *testing.T, field string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := range 40 {
		for y := range 20 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestItemPhoto(t *testing.T) {
	s := setupTestServer(t, false)
	item := s.createItem(t, "Tablet", "TAB-1")

	resp, err := http.Get(s.URL + itemPath(item.ID, "/photo"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, contentType := pngUpload(t, "photo")
	req, err := http.NewRequest(http.MethodPut, s.URL+itemPath(item.ID, "/photo"), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.URL + itemPath(item.ID, "/photo"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	body, contentType = pngUpload(t, "file")
	req, err = http.NewRequest(http.MethodPut, s.URL+itemPath(item.ID, "/photo"), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	s := setupTestServer(t, true)
	userToken := s.createUser(t, "viewer", model.RoleUser)
	managerToken := s.createUser(t, "manager", model.RoleManager)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/inventory/items", "", nil, nil))
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/inventory/items", userToken, nil, nil))

	body := map[string]string{"item_name": "Monitor", "serial_number": "MON-1"}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/inventory/items", userToken, body, nil))

	var item model.Item
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/inventory/items", managerToken, body, &item))
	require.NotNil(t, item.CreatedBy)

	var history inventory.ItemHistory
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, itemPath(item.ID, "/history"), userToken, nil, &history))
	require.NotEmpty(t, history.Activity)
	require.NotNil(t, history.Activity[0].UserID)
	assert.Equal(t, *item.CreatedBy, *history.Activity[0].UserID)
}

func TestOptionalAuth(t *testing.T) {
	s := setupTestServer(t, false)
	token := s.createUser(t, "manager", model.RoleManager)

	var item model.Item
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/inventory/items", token,
		map[string]string{"item_name": "Monitor", "serial_number": "MON-1"}, &item))
	assert.NotNil(t, item.CreatedBy)

	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodGet, "/api/inventory/items", "not-a-token", nil, nil))
}

func TestLoginAndLogout(t *testing.T) {
	s := setupTestServer(t, false)
	token := s.createUser(t, "admin", model.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "admin", "password": "wrong"}, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "nobody", "password": "password123"}, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "admin"}, nil))

	var profile model.User
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/auth/profile", token, nil, &profile))
	assert.Equal(t, "admin", profile.Username)
	assert.Equal(t, model.RoleAdmin, profile.Role)

	var verify map[string]any
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/auth/verify", token, nil, &verify))
	assert.Equal(t, true, verify["valid"])

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/auth/logout", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/profile", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/verify", "", nil, nil))
}

func TestChangePassword(t *testing.T) {
	s := setupTestServer(t, false)
	token := s.createUser(t, "alice", model.RoleUser)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPut, "/api/auth/password", token,
		map[string]string{"current_password": "wrong-password", "new_password": "newpassword"}, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/auth/password", token,
		map[string]string{"current_password": "password123", "new_password": "short"}, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/auth/password", token,
		map[string]string{"current_password": "password123", "new_password": "newpassword"}, nil))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "alice", "password": "newpassword"}, nil))
}

func TestUserManagement(t *testing.T) {
	s := setupTestServer(t, false)
	adminToken := s.createUser(t, "admin", model.RoleAdmin)
	userToken := s.createUser(t, "bob", model.RoleUser)

	register := map[string]string{"username": "carol", "password": "password123", "full_name": "Carol"}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/auth/register", userToken, register, nil))

	var created model.User
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/auth/register", adminToken, register, &created))
	assert.Equal(t, model.RoleUser, created.Role)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/auth/register", adminToken, register, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/auth/register", adminToken,
		map[string]string{"username": "dave", "password": "password123", "role": "root"}, nil))

	var users []model.User
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/users", adminToken, nil, &users))
	assert.Len(t, users, 3)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/users", userToken, nil, nil))

	var profile model.User
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/auth/profile", adminToken, nil, &profile))
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", profile.ID), adminToken, nil, nil))

	path := fmt.Sprintf("/api/users/%d", created.ID)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, adminToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, adminToken, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "carol", "password": "password123"}, nil))
}

func TestSystemRoutes(t *testing.T) {
	s := setupTestServer(t, false)

	var health map[string]any
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])

	var index map[string]any
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/", "", nil, &index))
	assert.Equal(t, "popis", index["name"])
	assert.Equal(t, "test", index["version"])

	var resp errorBody
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/nothing", "", nil, &resp))
	assert.Equal(t, "route not found", resp.Error)

	assert.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodPatch, "/api/inventory/items", "", nil, &resp))
	assert.Equal(t, "method not allowed", resp.Error)
}

func TestHealthUnavailable(t *testing.T) {
	database := db.NewTestDB(t)
	st := store.New(database)
	server := httptest.NewServer(NewRouter(Options{Inventory: inventory.NewService(st), Users: st, Health: st}))
	t.Cleanup(server.Close)

	require.NoError(t, database.Close())

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
