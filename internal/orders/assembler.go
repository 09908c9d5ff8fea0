package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
)

// ProductResolver looks up one product. Inside order creation it runs against
// rows locked for the transaction; in tests it can be a plain map lookup.
type ProductResolver func(ctx context.Context, productID string) (*catalog.Product, error)

// Line is one validated order line with its price snapshot.
type Line struct {
	Product         *catalog.Product
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

// Assemble validates the requested items against the catalog and computes the
// order total. It mutates nothing: lines are validated in input order and the
// first violation aborts the whole assembly.
func Assemble(ctx context.Context, resolve ProductResolver, items []ItemInput) ([]Line, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, ErrNoItems
	}

	lines := make([]Line, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w: quantity must be at least 1 for product %s", ErrInvalidItems, it.ProductID)
		}
		p, err := resolve(ctx, it.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if p.Stock < it.Quantity {
			return nil, decimal.Zero, &InsufficientStockError{
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   it.Quantity,
			}
		}
		lines = append(lines, Line{Product: p, Quantity: it.Quantity, PriceAtPurchase: p.Price})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return lines, total, nil
}
