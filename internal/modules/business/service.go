package business

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var themeColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Service interface {
	CreateProfile(ctx context.Context, ownerID string, req ProfileRequest) (*Profile, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Profile, error)
	UpdateProfile(ctx context.Context, ownerID, id string, req ProfileRequest) (*Profile, error)
	// IsOwner reports whether userID manages the profile businessID.
	// An unknown profile is not an error; nobody owns it.
	IsOwner(ctx context.Context, businessID, userID string) (bool, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func validate(req *ProfileRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.ThemeColor != "" && !themeColor.MatchString(req.ThemeColor) {
		return fmt.Errorf("%w: theme_color must look like #RRGGBB", ErrInvalidInput)
	}
	return nil
}

func (s *service) CreateProfile(ctx context.Context, ownerID string, req ProfileRequest) (*Profile, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: owner: %v", ErrInvalidInput, err)
	}

	p := &Profile{
		ID:         uuid.New(),
		OwnerID:    owner,
		Name:       req.Name,
		Category:   req.Category,
		Address:    req.Address,
		Phone:      req.Phone,
		ThemeColor: req.ThemeColor,
		IsActive:   true,
	}
	if p.ThemeColor == "" {
		p.ThemeColor = DefaultThemeColor
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("business profile created", zap.String("business_id", p.ID.String()), zap.String("owner_id", ownerID))
	return p, nil
}

func (s *service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]*Profile, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) UpdateProfile(ctx context.Context, ownerID, id string, req ProfileRequest) (*Profile, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID.String() != ownerID {
		return nil, ErrForbidden
	}

	p.Name = req.Name
	p.Category = req.Category
	p.Address = req.Address
	p.Phone = req.Phone
	if req.ThemeColor != "" {
		p.ThemeColor = req.ThemeColor
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) IsOwner(ctx context.Context, businessID, userID string) (bool, error) {
	p, err := s.repo.GetByID(ctx, businessID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.OwnerID.String() == userID, nil
}
