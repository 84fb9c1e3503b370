package catalog

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidInput = errors.New("invalid product")
	ErrForbidden    = errors.New("not the owner of this business")
)

// Repository defines the interface for storefront product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f Filter) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	SetInventory(ctx context.Context, id string, inventory int) error
}
