package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
)

// ---- fakes ----

type fakeUsers struct{ byEmail map[string]*auth.User }

func (f *fakeUsers) CreateUser(ctx context.Context, u *auth.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return auth.ErrEmailTaken
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) UserByEmail(ctx context.Context, email string) (*auth.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) UserByID(ctx context.Context, id string) (*auth.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

type fakeTokens struct{ byToken map[string]auth.Identity }

func (f *fakeTokens) Issue(ctx context.Context, id auth.Identity) (string, error) {
	tok := "tok-" + id.UserID
	f.byToken[tok] = id
	return tok, nil
}

func (f *fakeTokens) Resolve(ctx context.Context, token string) (auth.Identity, error) {
	id, ok := f.byToken[token]
	if !ok {
		return auth.Identity{}, auth.ErrTokenUnknown
	}
	return id, nil
}

func (f *fakeTokens) Revoke(ctx context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

type fakeCatalog struct{ products map[string]*catalog.Product }

func (s *fakeCatalog) List(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeCatalog) Get(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeCatalog) Create(ctx context.Context, p *catalog.Product) error {
	s.products[p.ID] = p
	return nil
}

func (s *fakeCatalog) Update(ctx context.Context, id string, upd catalog.Update) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	cp := *p
	return &cp, nil
}

func (s *fakeCatalog) Delete(ctx context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

type fakeOrderStore struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
	orders   map[string]*orders.Order
	now      time.Time
}

func (m *fakeOrderStore) CreateOrder(ctx context.Context, userID string, items []orders.ItemInput) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resolve := func(_ context.Context, id string) (*catalog.Product, error) {
		p, ok := m.products[id]
		if !ok {
			return nil, catalog.ErrProductNotFound
		}
		cp := *p
		return &cp, nil
	}
	lines, total, err := orders.Assemble(ctx, resolve, items)
	if err != nil {
		return nil, err
	}
	m.now = m.now.Add(time.Second)
	o := &orders.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		TotalPrice: total,
		Status:     orders.StatusPending,
		CreatedAt:  m.now,
	}
	for i, ln := range lines {
		m.products[ln.Product.ID].Stock -= ln.Quantity
		o.Items = append(o.Items, orders.OrderItem{
			ID:              int64(i + 1),
			OrderID:         o.ID,
			ProductID:       ln.Product.ID,
			Quantity:        ln.Quantity,
			PriceAtPurchase: ln.PriceAtPurchase,
		})
	}
	m.orders[o.ID] = o
	return o, nil
}

func (m *fakeOrderStore) CancelOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	if !orders.CanTransition(o.Status, orders.StatusCancelled) {
		return nil, &orders.InvalidStateError{Current: o.Status}
	}
	for _, it := range o.Items {
		if p, ok := m.products[it.ProductID]; ok {
			p.Stock += it.Quantity
		}
	}
	o.Status = orders.StatusCancelled
	return o, nil
}

func (m *fakeOrderStore) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return o, nil
}

func (m *fakeOrderStore) ListByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []orders.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// ---- setup ----

type testEnv struct {
	mux   http.Handler
	store *fakeOrderStore
	cat   *fakeCatalog
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*testEnv, *auth.Service) {
	t.Helper()
	users := &fakeUsers{byEmail: map[string]*auth.User{
		"alice@example.com": {ID: "alice", Name: "Alice", Email: "alice@example.com"},
		"admin@example.com": {ID: "admin", Name: "Admin User", Email: "admin@example.com", IsAdmin: true},
		"bob@example.com":   {ID: "bob", Name: "Bob", Email: "bob@example.com"},
	}}
	tokens := &fakeTokens{byToken: map[string]auth.Identity{
		"tok-alice": {UserID: "alice"},
		"tok-bob":   {UserID: "bob"},
		"tok-admin": {UserID: "admin", IsAdmin: true},
	}}
	authSvc := &auth.Service{Users: users, Tokens: tokens, BcryptCost: bcrypt.MinCost}

	cat := &fakeCatalog{products: map[string]*catalog.Product{
		"p1": {ID: "p1", Name: "Laptop", Price: dec("999.99"), Stock: 50},
	}}
	store := &fakeOrderStore{
		products: cat.products,
		orders:   map[string]*orders.Order{},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	r := NewRouter()
	Mount(r, authSvc,
		&AuthHandler{Svc: authSvc},
		&ProductsHandler{Svc: &catalog.Service{Store: cat}},
		&OrdersHandler{Svc: &orders.Service{Store: store}},
	)
	return &testEnv{mux: r, store: store, cat: cat}, authSvc
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

// ---- tests ----

func TestCreateOrderEndpoint(t *testing.T) {
	env, _ := setup(t)

	rec := env.do(t, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"p1","quantity":5}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Order created successfully", body["message"])
	order := body["order"].(map[string]any)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "4999.95", order["total_price"])
	assert.Equal(t, 45, env.cat.products["p1"].Stock)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env, _ := setup(t)

	rec := env.do(t, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"p1","quantity":51}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "insufficient stock")
	assert.Equal(t, 50, env.cat.products["p1"].Stock, "no partial decrement")
}

func TestCreateOrderEmptyItems(t *testing.T) {
	env, _ := setup(t)

	rec := env.do(t, http.MethodPost, "/orders", "tok-alice", `{"items":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	env, _ := setup(t)

	rec := env.do(t, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"nope","quantity":1}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrdersRequireAuthentication(t *testing.T) {
	env, _ := setup(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/orders", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/orders", "bad-token", `{"items":[]}`).Code)
}

func TestShowAndCancelOrderForbiddenForNonOwner(t *testing.T) {
	env, _ := setup(t)

	rec := env.do(t, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"p1","quantity":1}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decode(t, rec)["order"].(map[string]any)["id"].(string)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/orders/"+orderID, "tok-bob", "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPatch, "/orders/"+orderID+"/cancel", "tok-bob", "").Code)
	assert.Equal(t, 49, env.cat.products["p1"].Stock, "stock untouched by forbidden cancel")
}

func TestCancelOrderLifecycle(t *testing.T) {
	env, _ := setup(t)

	rec := env.do(t, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"p1","quantity":5}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decode(t, rec)["order"].(map[string]any)["id"].(string)

	rec = env.do(t, http.MethodPatch, "/orders/"+orderID+"/cancel", "tok-alice", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Order cancelled successfully", body["message"])
	assert.Equal(t, "cancelled", body["order"].(map[string]any)["status"])
	assert.Equal(t, 50, env.cat.products["p1"].Stock)

	// second cancel: invalid state
	rec = env.do(t, http.MethodPatch, "/orders/"+orderID+"/cancel", "tok-alice", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "cancelled")
}

func TestListOrdersOnlyOwn(t *testing.T) {
	env, _ := setup(t)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"p1","quantity":1}]}`).Code)

	rec := env.do(t, http.MethodGet, "/orders", "tok-bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["orders"])

	rec = env.do(t, http.MethodGet, "/orders", "tok-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["orders"], 1)
}

func TestProductsPublicReads(t *testing.T) {
	env, _ := setup(t)

	rec := env.do(t, http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["products"], 1)

	rec = env.do(t, http.MethodGet, "/products/p1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Laptop", decode(t, rec)["product"].(map[string]any)["name"])

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/products/nope", "", "").Code)
}

func TestProductWritesRequireAdmin(t *testing.T) {
	env, _ := setup(t)

	body := `{"name":"Tablet","price":"449.99","stock":30}`
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/products", "tok-alice", body).Code)

	rec := env.do(t, http.MethodPost, "/products", "tok-admin", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Product created successfully", decode(t, rec)["message"])

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, "/products/p1", "tok-alice", "").Code)
}

func TestProductPartialUpdate(t *testing.T) {
	env, _ := setup(t)

	rec := env.do(t, http.MethodPut, "/products/p1", "tok-admin", `{"price":"899.99"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p := decode(t, rec)["product"].(map[string]any)
	assert.Equal(t, "Laptop", p["name"], "name unchanged")
	assert.Equal(t, "899.99", p["price"])
	assert.Equal(t, float64(50), p["stock"], "stock unchanged")
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	env, authSvc := setup(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "",
		`{"name":"Carol","email":"carol@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	rec = env.do(t, http.MethodGet, "/user", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "carol@example.com", decode(t, rec)["user"].(map[string]any)["email"])

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/auth/logout", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/user", token, "").Code)

	_, err := authSvc.Identify(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrTokenUnknown)
}
