package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanManage is the authorization predicate for catalog writes.
func CanManage(id auth.Identity) bool { return id.IsAdmin }

type NewProduct struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func (np NewProduct) Validate() error {
	if np.Name == "" || len(np.Name) > 255 {
		return fmt.Errorf("%w: name is required and must be at most 255 characters", ErrInvalidProduct)
	}
	if np.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if np.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}

// Update is a partial field set; nil fields are left untouched.
type Update struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock"`
}

func (u Update) Empty() bool {
	return u.Name == nil && u.Price == nil && u.Stock == nil
}

func (u Update) Validate() error {
	if u.Name != nil && (*u.Name == "" || len(*u.Name) > 255) {
		return fmt.Errorf("%w: name must be non-empty and at most 255 characters", ErrInvalidProduct)
	}
	if u.Price != nil && u.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if u.Stock != nil && *u.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}
