package orders

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
)

// Service coordinates the order lifecycle: it validates what can be checked
// before opening a transaction, delegates the atomic work to the store, and
// publishes events after commit. A failed creation is never retried here;
// the caller retries as a new request.
type Service struct {
	Store  Store
	Events *Publisher
}

func (s *Service) Create(ctx context.Context, ident auth.Identity, items []ItemInput, traceID string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	o, err := s.Store.CreateOrder(ctx, ident.UserID, items)
	if err != nil {
		return nil, err
	}
	s.Events.OrderCreated(o, traceID)
	return o, nil
}

func (s *Service) List(ctx context.Context, ident auth.Identity) ([]Order, error) {
	return s.Store.ListByUser(ctx, ident.UserID)
}

func (s *Service) Get(ctx context.Context, ident auth.Identity, orderID string) (*Order, error) {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(ident.UserID) {
		return nil, fmt.Errorf("%w: you can only view your own orders", auth.ErrForbidden)
	}
	return o, nil
}

func (s *Service) Cancel(ctx context.Context, ident auth.Identity, orderID, traceID string) (*Order, error) {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(ident.UserID) {
		return nil, fmt.Errorf("%w: you can only cancel your own orders", auth.ErrForbidden)
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return nil, &InvalidStateError{Current: o.Status}
	}

	// The store re-checks the status under the row lock; this early check
	// just keeps obviously dead requests out of a transaction.
	cancelled, err := s.Store.CancelOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.Events.OrderCancelled(cancelled, traceID)
	return cancelled, nil
}
