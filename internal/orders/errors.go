package orders

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNoItems       = errors.New("order must contain at least one item")
	ErrInvalidItems  = errors.New("invalid order items")
)

// InsufficientStockError reports the first line whose requested quantity
// exceeds the available stock, in input order.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product: %s. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

// InvalidStateError rejects a lifecycle transition from the current status.
type InvalidStateError struct {
	Current Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot cancel order: order status is %s", e.Current)
}
