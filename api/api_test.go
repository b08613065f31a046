package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderthegreat96/mongo-cdc-seeder/config"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/driver"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/generator"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/seeder"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	counts   map[string]int
	err      error
	inserted []interface{}
	emails   map[string]bool
	userIDs  map[string]bool
	rows     []map[string]interface{}
}

func (f *fakeStore) InsertOne(_ context.Context, table string, doc interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.counts[table]++
	f.inserted = append(f.inserted, doc)
	return fmt.Sprintf("%s-%d", table, f.counts[table]), nil
}

func (f *fakeStore) Find(_ context.Context, table string, _ map[string]interface{}, page, perPage int) (*driver.Results, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &driver.Results{
		Table:      table,
		Count:      int64(len(f.rows)),
		Results:    f.rows,
		Pagination: driver.Pagination{TotalPages: 1, CurrentPage: page, NextPage: 1, PrevPage: 1, LastPage: 1, PerPage: perPage},
	}, nil
}

func (f *fakeStore) FindByID(_ context.Context, table, id string) (map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.userIDs[id] {
		return nil, &driver.MongoError{Code: http.StatusNotFound, Table: table, Operation: "find", Err: fmt.Errorf("%w: %s", driver.ErrNotFound, id)}
	}
	return map[string]interface{}{"_id": id}, nil
}

func (f *fakeStore) Exists(_ context.Context, _ string, filter map[string]interface{}) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	email, _ := filter["email"].(string)
	return f.emails[email], nil
}

func (f *fakeStore) InsertMany(_ context.Context, table string, docs []interface{}) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, len(docs))
	for i := range docs {
		f.counts[table]++
		ids[i] = fmt.Sprintf("%s-%d", table, f.counts[table])
	}
	return ids, nil
}

func (f *fakeStore) Count(_ context.Context, table string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(f.counts[table]), nil
}

func (f *fakeStore) Recent(_ context.Context, table string, limit int) ([]map[string]interface{}, error) {
	if table == "users" && limit > 0 {
		return []map[string]interface{}{{"_id": "u1", "name": "Alice Johnson", "email": "alice.johnson@example.com", "age": 32}}, nil
	}
	return nil, nil
}

func newTestServer(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mongo: config.Mongo{Database: "testdb", UsersTable: "users", OrdersTable: "orders"},
		Seed:  config.Seed{SampleUsers: 3, SampleOrders: 3, BulkUsers: 10, BulkOrders: 15, Recent: 3, MaxCount: 1000},
	}
	s := seeder.New(store, generator.New(generator.WithSeed(1)), cfg).SetLogger(log.New(io.Discard, "", 0))
	srv := NewServer(s, store, cfg.Mongo.Database)
	srv.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return srv.Router()
}

func do(t *testing.T, router *gin.Engine, method, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	return send(t, router, method, target, "")
}

func send(t *testing.T, router *gin.Engine, method, target, payload string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reqBody io.Reader
	if payload != "" {
		reqBody = strings.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestCreateSampleUsers(t *testing.T) {
	router := newTestServer(&fakeStore{counts: map[string]int{}})

	rec, body := do(t, router, http.MethodPost, "/api/data/users/sample?count=2")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.Equal(t, rec.Header().Get(requestIDHeader), body["request_id"])
	assert.Equal(t, "users", body["mode"])

	users := body["users"].(map[string]interface{})
	assert.Equal(t, float64(2), users["count"])
	assert.Equal(t, []interface{}{"users-1", "users-2"}, users["ids"])
	assert.NotContains(t, body, "orders")
}

func TestCreateSampleUsersClampsToCatalog(t *testing.T) {
	router := newTestServer(&fakeStore{counts: map[string]int{}})

	rec, body := do(t, router, http.MethodPost, "/api/data/users/sample?count=100")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(generator.CatalogSize()), body["users"].(map[string]interface{})["count"])
}

func TestCreateSampleOrdersDefaultCount(t *testing.T) {
	router := newTestServer(&fakeStore{counts: map[string]int{}})

	rec, body := do(t, router, http.MethodPost, "/api/data/orders/sample")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(3), body["orders"].(map[string]interface{})["count"])
}

func TestCreateBulk(t *testing.T) {
	store := &fakeStore{counts: map[string]int{}}
	router := newTestServer(store)

	rec, body := do(t, router, http.MethodPost, "/api/data/bulk?users=4&orders=0")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(4), body["users"].(map[string]interface{})["count"])
	assert.Equal(t, float64(0), body["orders"].(map[string]interface{})["count"])
	assert.Equal(t, 4, store.counts["users"])
}

func TestBadCounts(t *testing.T) {
	router := newTestServer(&fakeStore{counts: map[string]int{}})

	tests := []string{
		"/api/data/orders/sample?count=-1",
		"/api/data/orders/sample?count=three",
		"/api/data/bulk?users=-2",
		"/api/data/users/sample?count=-1",
		"/api/data/users/sample?count=1001",
		"/api/data/bulk?users=2000000000",
		"/api/data/bulk?users=1&orders=1001",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rec, body := do(t, router, http.MethodPost, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["status"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestStoreErrors(t *testing.T) {
	mongoErr := &driver.MongoError{Code: http.StatusServiceUnavailable, Operation: "ping", Err: errors.New("no reachable servers")}

	rec, body := do(t, newTestServer(&fakeStore{counts: map[string]int{}, err: mongoErr}), http.MethodPost, "/api/data/orders/sample")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, body["error"], "no reachable servers")

	rec, _ = do(t, newTestServer(&fakeStore{counts: map[string]int{}, err: errors.New("boom")}), http.MethodGet, "/api/data/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStats(t *testing.T) {
	router := newTestServer(&fakeStore{counts: map[string]int{"users": 5, "orders": 7}})

	req := httptest.NewRequest(http.MethodGet, "/api/data/stats", nil)
	req.Header.Set(requestIDHeader, "trace-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-1", rec.Header().Get(requestIDHeader))
	assert.Contains(t, rec.Body.String(), `"counts":{"users":5,"orders":7}`)
	assert.Contains(t, rec.Body.String(), `"recent_users":[{"_id":"u1","name":"Alice Johnson","email":"alice.johnson@example.com"}]`)

	rec, _ = do(t, router, http.MethodGet, "/api/data/stats?recent=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBadCountsUseDefaultMaxWhenUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{counts: map[string]int{}}
	cfg := &config.Config{
		Mongo: config.Mongo{Database: "testdb", UsersTable: "users", OrdersTable: "orders"},
		Seed:  config.Seed{BulkUsers: 1},
	}
	s := seeder.New(store, generator.New(generator.WithSeed(1)), cfg).SetLogger(log.New(io.Discard, "", 0))
	router := NewServer(s, store, "testdb").Router()

	rec, body := do(t, router, http.MethodPost, fmt.Sprintf("/api/data/bulk?users=%d", defaultMaxCount+1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "users must not exceed 10000")
	assert.Zero(t, store.counts["users"])
}

func TestCreateUser(t *testing.T) {
	store := &fakeStore{counts: map[string]int{}, emails: map[string]bool{"taken@example.com": true}}
	router := newTestServer(store)

	rec, body := send(t, router, http.MethodPost, "/api/data/users",
		`{"name":"Dana White","email":"dana@example.com","age":30,"department":"Sales","skills":["negotiation"],"salary":70000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "users-1", body["id"])
	assert.Equal(t, "users", body["table"])

	doc := body["document"].(map[string]interface{})
	assert.Equal(t, "dana@example.com", doc["email"])
	assert.Equal(t, true, doc["active"])
	assert.Equal(t, "2025-03-14T09:30:00Z", doc["created_at"])

	require.Len(t, store.inserted, 1)
	user := store.inserted[0].(generator.User)
	assert.Equal(t, []string{"negotiation"}, user.Skills)
	assert.Equal(t, 70000, user.Salary)
}

func TestCreateUserRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		errText string
	}{
		{"invalid email", `{"name":"Dana","email":"not-an-email","age":30}`, "Email"},
		{"missing name", `{"email":"dana@example.com","age":30}`, "Name"},
		{"under age", `{"name":"Dana","email":"dana@example.com","age":12}`, "Age"},
		{"malformed body", `{"name":`, ""},
		{"duplicate email", `{"name":"Dana","email":"taken@example.com","age":30}`, "User with email taken@example.com already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{counts: map[string]int{}, emails: map[string]bool{"taken@example.com": true}}
			rec, body := send(t, newTestServer(store), http.MethodPost, "/api/data/users", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["status"])
			assert.Contains(t, body["error"], tt.errText)
			assert.Empty(t, store.inserted)
		})
	}
}

func TestCreateOrder(t *testing.T) {
	store := &fakeStore{counts: map[string]int{}, userIDs: map[string]bool{"u-1": true}}
	router := newTestServer(store)

	rec, body := send(t, router, http.MethodPost, "/api/data/orders",
		`{"user_id":"u-1","product_name":"Desk Lamp","quantity":3,"unit_price":"19.99","shipping_address":{"street":"1 Main St","city":"Austin","state":"TX","zip_code":"78701"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "orders-1", body["id"])

	require.Len(t, store.inserted, 1)
	order := store.inserted[0].(generator.Order)
	assert.Regexp(t, `^ORD-20250314-[0-9A-F]{8}$`, order.OrderID)
	assert.Equal(t, "u-1", order.CustomerID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "59.97", order.TotalPrice.StringFixed(2))
	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "Austin", order.ShippingAddress.City)
}

func TestCreateOrderRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		errText string
	}{
		{"unknown user", `{"user_id":"ghost","product_name":"Desk Lamp","quantity":1,"unit_price":"5.00"}`, "User with ID ghost not found"},
		{"zero quantity", `{"user_id":"u-1","product_name":"Desk Lamp","quantity":0,"unit_price":"5.00"}`, "Quantity"},
		{"negative price", `{"user_id":"u-1","product_name":"Desk Lamp","quantity":1,"unit_price":"-5"}`, "unit_price must be positive"},
		{"sub-cent price", `{"user_id":"u-1","product_name":"Desk Lamp","quantity":1,"unit_price":"5.001"}`, "unit_price must have at most 2 fractional digits"},
		{"unknown status", `{"user_id":"u-1","product_name":"Desk Lamp","quantity":1,"unit_price":"5","status":"lost"}`, "Status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{counts: map[string]int{}, userIDs: map[string]bool{"u-1": true}}
			rec, body := send(t, newTestServer(store), http.MethodPost, "/api/data/orders", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, body["error"], tt.errText)
			assert.Empty(t, store.inserted)
		})
	}
}

func TestListUsers(t *testing.T) {
	store := &fakeStore{counts: map[string]int{}, rows: []map[string]interface{}{
		{"_id": "u-1", "name": "Alice Johnson"},
		{"_id": "u-2", "name": "Bob Smith"},
	}}
	router := newTestServer(store)

	rec, body := do(t, router, http.MethodGet, "/api/data/users?page=1&per_page=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "users", body["table"])
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["results"], 2)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(5), pagination["per_page"])
	assert.Equal(t, float64(1), pagination["current_page"])

	rec, body = do(t, router, http.MethodGet, "/api/data/orders")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "orders", body["table"])

	rec, _ = do(t, router, http.MethodGet, "/api/data/users?page=two")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
