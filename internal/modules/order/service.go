package order

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/georgemunganga/danasys-storefront/internal/modules/cart"
	"github.com/georgemunganga/danasys-storefront/internal/modules/wallet"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Payer debits and refunds customer wallets.
type Payer interface {
	Pay(ctx context.Context, userID string, amount float64, purpose wallet.Purpose, reference string) (*wallet.Transaction, error)
	Refund(ctx context.Context, userID string, amount float64, reference string) (*wallet.Transaction, error)
}

// Owners answers whether a user manages a business profile.
type Owners interface {
	IsOwner(ctx context.Context, businessID, userID string) (bool, error)
}

// Service defines checkout and order management.
type Service interface {
	// Checkout turns a cart snapshot into a PLACED order for customerID.
	Checkout(ctx context.Context, customerID string, c cart.State, req CheckoutRequest) (*Order, error)

	// GetOrder returns an order visible to actorID.
	GetOrder(ctx context.Context, actorID, id string) (*Order, error)

	// Track returns an order and its status timeline.
	Track(ctx context.Context, actorID, id string) (*Tracking, error)

	// History lists the orders customerID placed, newest first.
	History(ctx context.Context, customerID string) ([]*Order, error)

	// ListBusinessOrders lists a business's orders. status may be a single
	// status, "active" for every non-terminal one, or empty for all.
	ListBusinessOrders(ctx context.Context, actorID, businessID, status string) ([]*Order, error)

	// UpdateStatus advances an order along the fulfilment state machine.
	UpdateStatus(ctx context.Context, actorID, id string, req UpdateStatusRequest) (*Order, error)

	// Cancel cancels a PLACED or CONFIRMED order and refunds a wallet payment.
	Cancel(ctx context.Context, actorID, id string) (*Order, error)
}

type service struct {
	repo   Repository
	payer  Payer
	owners Owners
	logger *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, payer Payer, owners Owners, logger *zap.Logger) Service {
	return &service{repo: repo, payer: payer, owners: owners, logger: logger}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusPlaced:         {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPacked, StatusCancelled},
	StatusPacked:         {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// sourcesOf lists the statuses an order may leave for next. Terminal
// statuses have no transitions, so the active ones are enough.
func sourcesOf(next Status) []Status {
	var from []Status
	for _, st := range ActiveStatuses {
		if CanTransition(st, next) {
			from = append(from, st)
		}
	}
	return from
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *service) Checkout(ctx context.Context, customerID string, c cart.State, req CheckoutRequest) (*Order, error) {
	if c.Empty() {
		return nil, ErrEmptyCart
	}
	customer, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: customer id: %v", ErrInvalidRequest, err)
	}
	business, err := uuid.Parse(c.SellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: seller %q: %v", ErrInvalidRequest, c.SellerID, err)
	}
	if req.DeliveryFee < 0 {
		return nil, fmt.Errorf("%w: delivery_fee must not be negative", ErrInvalidRequest)
	}
	method := PaymentMethod(strings.ToUpper(req.PaymentMethod))
	switch method {
	case "":
		method = PaymentCOD
	case PaymentCOD, PaymentWallet:
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, req.PaymentMethod)
	}

	o := &Order{
		ID:                uuid.New(),
		OrderNumber:       generateOrderNumber(),
		CustomerID:        customer,
		BusinessProfileID: business,
		Status:            StatusPlaced,
		PaymentMethod:     method,
		PaymentStatus:     PaymentPending,
		Subtotal:          round2(c.TotalAmount),
		Discount:          round2(c.Discount),
		DeliveryFee:       round2(req.DeliveryFee),
		Total:             round2(c.BillAmount + req.DeliveryFee),
		Currency:          wallet.DefaultCurrency,
		DeliveryAddress:   req.DeliveryAddress,
		Notes:             req.Notes,
	}
	for _, line := range c.Items {
		pid, err := uuid.Parse(line.Product.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: product %q: %v", ErrInvalidRequest, line.Product.ID, err)
		}
		o.Items = append(o.Items, &OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: pid,
			Name:      line.Product.Name,
			Unit:      line.Product.Unit,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			MRP:       line.Product.MRP,
			LineTotal: round2(line.BillPrice),
		})
	}

	if method == PaymentWallet {
		tx, err := s.payer.Pay(ctx, customerID, o.Total, wallet.PurposeOrderPayment, o.OrderNumber)
		if err != nil {
			return nil, err
		}
		o.PaymentStatus = PaymentPaid
		o.PaymentRef = tx.ID.String()
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		if o.PaymentStatus == PaymentPaid {
			s.refund(ctx, o)
		}
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.logger.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.String("business_id", o.BusinessProfileID.String()),
		zap.Float64("total", o.Total),
		zap.String("payment_method", string(method)))
	return o, nil
}

// authorize returns the order when actorID is its customer or runs its business.
func (s *service) authorize(ctx context.Context, actorID, id string, customerAllowed bool) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerAllowed && o.CustomerID.String() == actorID {
		return o, nil
	}
	ok, err := s.owners.IsOwner(ctx, o.BusinessProfileID.String(), actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, actorID, id string) (*Order, error) {
	return s.authorize(ctx, actorID, id, true)
}

func (s *service) Track(ctx context.Context, actorID, id string) (*Tracking, error) {
	o, err := s.authorize(ctx, actorID, id, true)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.Events(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Tracking{Order: o, Events: events}, nil
}

func (s *service) History(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) ListBusinessOrders(ctx context.Context, actorID, businessID, status string) ([]*Order, error) {
	ok, err := s.owners.IsOwner(ctx, businessID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	var statuses []Status
	switch st := Status(strings.ToUpper(status)); {
	case st == "":
	case st == "ACTIVE":
		statuses = ActiveStatuses
	case validTransitions[st] != nil:
		statuses = []Status{st}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	return s.repo.ListByBusiness(ctx, businessID, statuses)
}

func (s *service) UpdateStatus(ctx context.Context, actorID, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.authorize(ctx, actorID, id, false)
	if err != nil {
		return nil, err
	}
	next := Status(strings.ToUpper(req.Status))
	if next == StatusCancelled {
		return s.cancel(ctx, o, req.Note)
	}
	if !CanTransition(o.Status, next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next, sourcesOf(next), req.Note); err != nil {
		return nil, err
	}
	if next == StatusDelivered && o.PaymentMethod == PaymentCOD {
		if err := s.repo.UpdatePayment(ctx, id, PaymentPaid, "COD"); err != nil {
			return nil, err
		}
		o.PaymentStatus = PaymentPaid
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return o, nil
}

func (s *service) Cancel(ctx context.Context, actorID, id string) (*Order, error) {
	o, err := s.authorize(ctx, actorID, id, true)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, o, "cancelled by "+actorID)
}

func (s *service) cancel(ctx context.Context, o *Order, note string) (*Order, error) {
	if !CanTransition(o.Status, StatusCancelled) {
		return nil, fmt.Errorf("%w: only PLACED or CONFIRMED orders can be cancelled (current: %s)", ErrInvalidTransition, o.Status)
	}
	// Refunds follow only an update that actually moved the order.
	if err := s.repo.UpdateStatus(ctx, o.ID.String(), StatusCancelled, sourcesOf(StatusCancelled), note); err != nil {
		return nil, err
	}
	o.Status = StatusCancelled
	if o.PaymentStatus == PaymentPaid {
		if tx := s.refund(ctx, o); tx != nil {
			if err := s.repo.UpdatePayment(ctx, o.ID.String(), PaymentRefunded, tx.ID.String()); err != nil {
				return nil, err
			}
			o.PaymentStatus = PaymentRefunded
			o.PaymentRef = tx.ID.String()
		}
	}
	return o, nil
}

func (s *service) refund(ctx context.Context, o *Order) *wallet.Transaction {
	tx, err := s.payer.Refund(ctx, o.CustomerID.String(), o.Total, o.OrderNumber)
	if err != nil {
		s.logger.Error("order refund failed", zap.String("order_number", o.OrderNumber), zap.Error(err))
		return nil
	}
	return tx
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXXXXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
