package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
)

type Order struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     Status          `json:"status"` // see status.go
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Items      []OrderItem     `json:"items"`
	User       *auth.User      `json:"user,omitempty"`
}

type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         string          `json:"order_id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	// Product is the live catalog row, nil when it has since been deleted.
	// PriceAtPurchase stays authoritative for historical totals either way.
	Product *catalog.Product `json:"product,omitempty"`
}

// ItemInput is one requested line of an order: product plus quantity.
type ItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OwnedBy is the authorization predicate for order access.
func (o *Order) OwnedBy(userID string) bool { return o.UserID == userID }
