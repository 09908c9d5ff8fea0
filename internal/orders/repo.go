package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
)

// Store is the order persistence collaborator. Creation and cancellation are
// each one atomic unit against the database.
type Store interface {
	CreateOrder(ctx context.Context, userID string, items []ItemInput) (*Order, error)
	CancelOrder(ctx context.Context, orderID string) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type Repo struct{ DB *pgxpool.Pool }

// CreateOrder validates stock under row locks, then inserts the order header,
// its items and the stock decrements in one transaction. Any failure rolls
// everything back; no partial state is ever visible.
func (r *Repo) CreateOrder(ctx context.Context, userID string, items []ItemInput) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	resolve := func(ctx context.Context, id string) (*catalog.Product, error) {
		return catalog.GetForUpdate(ctx, tx, id)
	}
	lines, total, err := Assemble(ctx, resolve, items)
	if err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, total_price, status)
		VALUES ($1, $2, $3, $4)`,
		orderID, userID, total, StatusPending,
	)
	if err != nil {
		return nil, err
	}

	for _, ln := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, quantity, price_at_purchase)
			VALUES ($1, $2, $3, $4)`,
			orderID, ln.Product.ID, ln.Quantity, ln.PriceAtPurchase,
		)
		if err != nil {
			return nil, err
		}
		if err := catalog.DecrementStock(ctx, tx, ln.Product.ID, ln.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, orderID)
}

// CancelOrder restores every line's stock and flips the status, all or
// nothing. The status is re-checked under the order row lock so a concurrent
// double-cancel restores stock exactly once.
func (r *Repo) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if !CanTransition(status, StatusCancelled) {
		return nil, &InvalidStateError{Current: status}
	}

	rows, err := tx.Query(ctx, `SELECT product_id, quantity FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	type line struct {
		pid string
		qty int
	}
	var restores []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.pid, &l.qty); err != nil {
			rows.Close()
			return nil, err
		}
		restores = append(restores, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, l := range restores {
		if err := catalog.IncrementStock(ctx, tx, l.pid, l.qty); err != nil {
			return nil, err
		}
	}
	_, err = tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, orderID, StatusCancelled)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, orderID)
}

func (r *Repo) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	var u auth.User
	err := r.DB.QueryRow(ctx, `
		SELECT o.id, o.user_id, o.total_price, o.status, o.created_at, o.updated_at,
		       u.id, u.name, u.email, u.is_admin, u.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id=$1`, orderID).
		Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.CreatedAt, &o.UpdatedAt,
			&u.ID, &u.Name, &u.Email, &u.IsAdmin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o.User = &u

	byOrder, err := r.loadItems(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}
	o.Items = byOrder[orderID]
	return &o, nil
}

// ListByUser returns the caller's orders newest first, each materialized with
// items and products via one batch fetch. No pagination at this scale.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, total_price, status, created_at, updated_at
		FROM orders WHERE user_id=$1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	var ids []string
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	byOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = byOrder[out[i].ID]
	}
	return out, nil
}

// loadItems batch-fetches items for a set of orders with their products in a
// single query. The product join is LEFT so lines survive catalog deletions.
func (r *Repo) loadItems(ctx context.Context, orderIDs []string) (map[string][]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, i.quantity, i.price_at_purchase,
		       p.id, p.name, p.price, p.stock, p.created_at, p.updated_at
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOrder := map[string][]OrderItem{}
	for rows.Next() {
		var it OrderItem
		var pID, pName *string
		var pPrice *decimal.Decimal
		var pStock *int
		var pCreated, pUpdated *time.Time
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase,
			&pID, &pName, &pPrice, &pStock, &pCreated, &pUpdated); err != nil {
			return nil, err
		}
		if pID != nil {
			it.Product = &catalog.Product{
				ID:        *pID,
				Name:      *pName,
				Price:     *pPrice,
				Stock:     *pStock,
				CreatedAt: *pCreated,
				UpdatedAt: *pUpdated,
			}
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, rows.Err()
}
