package business

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("business profile not found")
	ErrInvalidInput = errors.New("invalid business profile")
	ErrForbidden    = errors.New("not the owner of this business")
)

// Repository defines the interface for business profile storage.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Profile, error)
	Update(ctx context.Context, p *Profile) error
}
