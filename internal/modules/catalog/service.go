package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/danasys-storefront/internal/modules/cart"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCurrency is applied to products created without one.
const DefaultCurrency = "ZMW"

// Owners answers whether a user manages a business profile.
type Owners interface {
	IsOwner(ctx context.Context, businessID, userID string) (bool, error)
}

// Service defines catalog business logic. It also resolves cart product
// IDs for the session cart.
type Service interface {
	CreateProduct(ctx context.Context, userID string, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, f Filter) ([]*Product, error)
	UpdateProduct(ctx context.Context, userID, id string, req ProductRequest) (*Product, error)
	SetInventory(ctx context.Context, userID, id string, inventory int) (*Product, error)
	LookupProduct(ctx context.Context, id string) (cart.Product, error)
}

type service struct {
	repo   Repository
	owners Owners
	logger *zap.Logger
}

func NewService(repo Repository, owners Owners, logger *zap.Logger) Service {
	return &service{repo: repo, owners: owners, logger: logger}
}

func validate(req ProductRequest) error {
	var problems []string
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if req.Price < 0 || req.MRP < 0 {
		problems = append(problems, "price and mrp must not be negative")
	}
	if req.Price > req.MRP {
		problems = append(problems, "price must not exceed mrp")
	}
	if req.Inventory < 0 {
		problems = append(problems, "inventory must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func (s *service) authorize(ctx context.Context, businessID, userID string) error {
	ok, err := s.owners.IsOwner(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, userID string, req ProductRequest) (*Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	businessID, err := uuid.Parse(req.BusinessProfileID)
	if err != nil {
		return nil, fmt.Errorf("%w: business_profile_id: %v", ErrInvalidInput, err)
	}
	if err := s.authorize(ctx, businessID.String(), userID); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	p := &Product{
		ID:                uuid.New(),
		BusinessProfileID: businessID,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Category:          req.Category,
		Unit:              req.Unit,
		ImageURL:          req.ImageURL,
		Price:             req.Price,
		MRP:               req.MRP,
		Inventory:         req.Inventory,
		Currency:          currency,
		IsActive:          req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", p.ID.String()), zap.String("business_id", businessID.String()))
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, f Filter) ([]*Product, error) {
	return s.repo.List(ctx, f)
}

func (s *service) UpdateProduct(ctx context.Context, userID, id string, req ProductRequest) (*Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, p.BusinessProfileID.String(), userID); err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Category = req.Category
	p.Unit = req.Unit
	p.ImageURL = req.ImageURL
	p.Price = req.Price
	p.MRP = req.MRP
	p.Inventory = req.Inventory
	if req.Currency != "" {
		p.Currency = req.Currency
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) SetInventory(ctx context.Context, userID, id string, inventory int) (*Product, error) {
	if inventory < 0 {
		return nil, fmt.Errorf("%w: inventory must not be negative", ErrInvalidInput)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, p.BusinessProfileID.String(), userID); err != nil {
		return nil, err
	}
	if err := s.repo.SetInventory(ctx, id, inventory); err != nil {
		return nil, err
	}
	p.Inventory = inventory
	return p, nil
}

// LookupProduct returns the cart descriptor of an active product.
func (s *service) LookupProduct(ctx context.Context, id string) (cart.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return cart.Product{}, fmt.Errorf("%w: %s", cart.ErrUnknownProduct, id)
	}
	if err != nil {
		return cart.Product{}, err
	}
	if !p.IsActive {
		return cart.Product{}, fmt.Errorf("%w: %s is inactive", cart.ErrUnknownProduct, id)
	}
	return p.ToCartProduct(), nil
}
