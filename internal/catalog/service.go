package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
)

// Service fronts the catalog store with the admin predicate and the
// read-through cache. Reads are open to everyone; writes require an admin
// identity and invalidate the affected cache entries.
type Service struct {
	Store Store
	Cache *Cache
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	if ps, ok := s.Cache.List(ctx); ok {
		return ps, nil
	}
	ps, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.SetList(ctx, ps)
	return ps, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if p, ok := s.Cache.Product(ctx, id); ok {
		return p, nil
	}
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Cache.SetProduct(ctx, p)
	return p, nil
}

func (s *Service) Create(ctx context.Context, ident auth.Identity, np NewProduct) (*Product, error) {
	if !CanManage(ident) {
		return nil, fmt.Errorf("%w: admin access required", auth.ErrForbidden)
	}
	if err := np.Validate(); err != nil {
		return nil, err
	}
	p := &Product{
		ID:    uuid.NewString(),
		Name:  np.Name,
		Price: np.Price,
		Stock: np.Stock,
	}
	if err := s.Store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, p.ID)
	return p, nil
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id string, upd Update) (*Product, error) {
	if !CanManage(ident) {
		return nil, fmt.Errorf("%w: admin access required", auth.ErrForbidden)
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	p, err := s.Store.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, id)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, ident auth.Identity, id string) error {
	if !CanManage(ident) {
		return fmt.Errorf("%w: admin access required", auth.ErrForbidden)
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, id)
	return nil
}
