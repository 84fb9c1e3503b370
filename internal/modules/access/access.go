package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/georgemunganga/danasys-storefront/internal/modules/mode"
	"github.com/georgemunganga/danasys-storefront/internal/modules/user"
	"github.com/georgemunganga/danasys-storefront/internal/modules/wallet"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrLoginRequired      = fmt.Errorf("%w: login required", mode.ErrSwitchForbidden)
	ErrActivationRequired = fmt.Errorf("%w: business activation required", mode.ErrSwitchForbidden)
	ErrNotActivated       = errors.New("business not activated")
	ErrAlreadyActivated   = errors.New("business already activated")
)

// DashboardKey is the menu entry every business user sees.
const DashboardKey = "Dashboard"

// Activation records a user's one-time business activation.
type Activation struct {
	UserID        uuid.UUID  `json:"user_id"`
	Fee           float64    `json:"fee"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	ActivatedAt   time.Time  `json:"activated_at"`
}

// ActivationRepository stores activations.
type ActivationRepository interface {
	// Get returns ErrNotActivated when userID has no activation.
	Get(ctx context.Context, userID string) (*Activation, error)
	// Create returns ErrAlreadyActivated when userID already has one.
	Create(ctx context.Context, a *Activation) error
}

// Payer debits and refunds wallets.
type Payer interface {
	Pay(ctx context.Context, userID string, amount float64, purpose wallet.Purpose, reference string) (*wallet.Transaction, error)
	Refund(ctx context.Context, userID string, amount float64, reference string) (*wallet.Transaction, error)
}

// RoleGranter adds a role to a user account.
type RoleGranter interface {
	GrantRole(ctx context.Context, id, role string) (*user.User, error)
}

// Service applies the access policy. It satisfies mode.Gate.
type Service struct {
	policy *Policy
	repo   ActivationRepository
	payer  Payer
	roles  RoleGranter
	logger *zap.Logger
}

func NewService(policy *Policy, repo ActivationRepository, payer Payer, roles RoleGranter, logger *zap.Logger) *Service {
	return &Service{policy: policy, repo: repo, payer: payer, roles: roles, logger: logger}
}

// IsSuperadmin reports whether p holds any configured superadmin role.
func (s *Service) IsSuperadmin(p auth.Principal) bool {
	return p.HasRole(s.policy.SuperadminRoles...)
}

// Menu returns the business side menu for p in display order. available
// names the entries enabled for the business; when empty every entry is.
// Role-restricted entries are dropped for principals without the role, and
// the dashboard is always present.
func (s *Service) Menu(p auth.Principal, available []string) []MenuItem {
	enabled := make(map[string]bool, len(available))
	for _, key := range available {
		enabled[key] = true
	}

	items := []MenuItem{}
	hasDashboard := false
	for _, item := range s.policy.Menu {
		if len(available) > 0 && !enabled[item.Key] && !item.Always {
			continue
		}
		if len(item.Roles) > 0 && !p.HasRole(item.Roles...) {
			continue
		}
		hasDashboard = hasDashboard || item.Key == DashboardKey
		items = append(items, item)
	}
	if !hasDashboard {
		items = append([]MenuItem{{Key: DashboardKey, Label: "Dashboard", Route: "/business"}}, items...)
	}
	return items
}

// CanSwitch allows anyone into user mode. Business mode needs a logged-in
// principal who is a superadmin or has completed activation.
func (s *Service) CanSwitch(ctx context.Context, p auth.Principal, target mode.Mode) error {
	if target != mode.Business {
		return nil
	}
	if p.UserID == "" {
		return ErrLoginRequired
	}
	if s.IsSuperadmin(p) {
		return nil
	}
	_, err := s.repo.Get(ctx, p.UserID)
	if errors.Is(err, ErrNotActivated) {
		return ErrActivationRequired
	}
	return err
}

// Status returns p's activation, or ErrNotActivated.
func (s *Service) Status(ctx context.Context, p auth.Principal) (*Activation, error) {
	if p.UserID == "" {
		return nil, ErrLoginRequired
	}
	return s.repo.Get(ctx, p.UserID)
}

// Activate charges the activation fee to p's wallet and records the
// activation. Activating twice returns the first activation unchanged.
// Superadmins are activated free of charge.
func (s *Service) Activate(ctx context.Context, p auth.Principal) (*Activation, error) {
	if p.UserID == "" {
		return nil, ErrLoginRequired
	}
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	existing, err := s.repo.Get(ctx, p.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotActivated) {
		return nil, err
	}

	a := &Activation{UserID: id, ActivatedAt: time.Now()}
	fee := s.policy.Activation.Fee
	if !s.IsSuperadmin(p) && fee > 0 {
		tx, err := s.payer.Pay(ctx, p.UserID, fee, wallet.PurposeActivationFee, "business-activation")
		if err != nil {
			return nil, err
		}
		a.Fee = fee
		a.TransactionID = &tx.ID
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.refund(ctx, a)
		if errors.Is(err, ErrAlreadyActivated) {
			return s.repo.Get(ctx, p.UserID)
		}
		return nil, err
	}

	if _, err := s.roles.GrantRole(ctx, p.UserID, user.RoleBusiness); err != nil {
		s.logger.Warn("business role grant failed", zap.String("user_id", p.UserID), zap.Error(err))
	}
	s.logger.Info("business activated", zap.String("user_id", p.UserID), zap.Float64("fee", a.Fee))
	return a, nil
}

func (s *Service) refund(ctx context.Context, a *Activation) {
	if a.TransactionID == nil {
		return
	}
	if _, err := s.payer.Refund(ctx, a.UserID.String(), a.Fee, a.TransactionID.String()); err != nil {
		s.logger.Error("activation fee refund failed",
			zap.String("user_id", a.UserID.String()), zap.String("transaction_id", a.TransactionID.String()), zap.Error(err))
	}
}
