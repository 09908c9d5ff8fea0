package orders

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
)

// memStore implements Store in memory with the same composition as the pgx
// repo: one lock around assemble + decrement, status re-check before restore.
type memStore struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
	orders   map[string]*Order
	seq      int64
	now      time.Time
}

func newMemStore(products ...*catalog.Product) *memStore {
	m := &memStore{
		products: map[string]*catalog.Product{},
		orders:   map[string]*Order{},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) CreateOrder(ctx context.Context, userID string, items []ItemInput) (*Order, error) {
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
	lines, total, err := Assemble(ctx, resolve, items)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		TotalPrice: total,
		Status:     StatusPending,
		CreatedAt:  m.tick(),
	}
	for _, ln := range lines {
		m.products[ln.Product.ID].Stock -= ln.Quantity
		m.seq++
		o.Items = append(o.Items, OrderItem{
			ID:              m.seq,
			OrderID:         o.ID,
			ProductID:       ln.Product.ID,
			Quantity:        ln.Quantity,
			PriceAtPurchase: ln.PriceAtPurchase,
		})
	}
	m.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (m *memStore) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return nil, &InvalidStateError{Current: o.Status}
	}
	for _, it := range o.Items {
		if p, ok := m.products[it.ProductID]; ok {
			p.Stock += it.Quantity
		}
	}
	o.Status = StatusCancelled
	o.UpdatedAt = m.tick()
	return cloneOrder(o), nil
}

func (m *memStore) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *cloneOrder(o))
		}
	}
	// newest first
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func cloneOrder(o *Order) *Order {
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	return &cp
}
