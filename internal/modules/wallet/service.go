package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines wallet business logic.
type Service interface {
	Balance(ctx context.Context, userID string) (*Balance, error)
	Transactions(ctx context.Context, userID string) ([]*Transaction, error)
	AddMoney(ctx context.Context, userID string, req AddMoneyRequest) (*Transaction, error)
	Verify(ctx context.Context, userID, txID string) (*Transaction, error)
	Withdraw(ctx context.Context, userID string, req WithdrawRequest) (*Transaction, error)
	Transfer(ctx context.Context, fromUserID string, req TransferRequest) (*Transaction, error)
	// Pay debits userID for an in-platform purchase identified by reference.
	Pay(ctx context.Context, userID string, amount float64, purpose Purpose, reference string) (*Transaction, error)
	// Refund credits back a previous Pay for reference.
	Refund(ctx context.Context, userID string, amount float64, reference string) (*Transaction, error)
}

type service struct {
	repo     Repository
	gateway  Gateway
	provider Provider
	logger   *zap.Logger
}

func NewService(repo Repository, gateway Gateway, provider Provider, logger *zap.Logger) Service {
	return &service{repo: repo, gateway: gateway, provider: provider, logger: logger}
}

func newEntry(userID uuid.UUID, kind Kind, purpose Purpose, amount float64, reference string) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Purpose:   purpose,
		Amount:    amount,
		Currency:  DefaultCurrency,
		Reference: reference,
	}
}

func parseArgs(userID string, amount float64) (uuid.UUID, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user id: %v", ErrInvalidRequest, err)
	}
	if amount <= 0 {
		return uuid.Nil, fmt.Errorf("%w: %.2f", ErrInvalidAmount, amount)
	}
	return id, nil
}

func (s *service) Balance(ctx context.Context, userID string) (*Balance, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user id: %v", ErrInvalidRequest, err)
	}
	amount, err := s.repo.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{UserID: id, Amount: amount, Currency: DefaultCurrency}, nil
}

func (s *service) Transactions(ctx context.Context, userID string) ([]*Transaction, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("%w: user id: %v", ErrInvalidRequest, err)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) AddMoney(ctx context.Context, userID string, req AddMoneyRequest) (*Transaction, error) {
	id, err := parseArgs(userID, req.Amount)
	if err != nil {
		return nil, err
	}
	t := newEntry(id, KindCredit, PurposeTopUp, req.Amount, "")

	resp, err := s.gateway.Collect(ctx, GatewayRequest{
		Reference: t.ID.String(),
		Amount:    req.Amount,
		Currency:  t.Currency,
		Account:   req.PhoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway collection failed: %w", err)
	}
	t.ProviderRef = resp.ProviderRef

	switch NormaliseStatus(s.provider, resp.ProviderStatus) {
	case StatusCompleted:
		err = s.repo.Apply(ctx, t)
	case StatusFailed:
		return nil, fmt.Errorf("gateway rejected collection %s", resp.ProviderRef)
	default:
		err = s.repo.Record(ctx, t)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("wallet top-up", zap.String("user_id", userID), zap.Float64("amount", req.Amount),
		zap.String("provider_ref", resp.ProviderRef), zap.String("status", string(t.Status)))
	return t, nil
}

func (s *service) Verify(ctx context.Context, userID, txID string) (*Transaction, error) {
	if _, err := uuid.Parse(txID); err != nil {
		return nil, ErrNotFound
	}
	t, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if t.UserID.String() != userID {
		return nil, ErrNotFound
	}
	if t.Status != StatusPending {
		return t, nil
	}

	resp, err := s.gateway.Verify(ctx, t.ProviderRef)
	if err != nil {
		return nil, fmt.Errorf("gateway verification failed: %w", err)
	}
	status := NormaliseStatus(s.provider, resp.ProviderStatus)
	if status == StatusPending {
		return t, nil
	}
	return s.repo.Settle(ctx, txID, status)
}

func (s *service) Withdraw(ctx context.Context, userID string, req WithdrawRequest) (*Transaction, error) {
	id, err := parseArgs(userID, req.Amount)
	if err != nil {
		return nil, err
	}
	if req.AccountNumber == "" {
		return nil, fmt.Errorf("%w: account_number is required", ErrInvalidRequest)
	}

	t := newEntry(id, KindDebit, PurposeWithdrawal, req.Amount, req.AccountNumber)
	if err := s.repo.Apply(ctx, t); err != nil {
		return nil, err
	}

	resp, err := s.gateway.Disburse(ctx, GatewayRequest{
		Reference: t.ID.String(),
		Amount:    req.Amount,
		Currency:  t.Currency,
		Account:   req.AccountNumber,
	})
	if err == nil && NormaliseStatus(s.provider, resp.ProviderStatus) != StatusFailed {
		t.ProviderRef = resp.ProviderRef
		return t, nil
	}

	reversal := newEntry(id, KindCredit, PurposeReversal, req.Amount, t.ID.String())
	if rerr := s.repo.Apply(ctx, reversal); rerr != nil {
		s.logger.Error("withdrawal reversal failed", zap.String("transaction_id", t.ID.String()), zap.Error(rerr))
	}
	if err != nil {
		return nil, fmt.Errorf("gateway disbursement failed: %w", err)
	}
	return nil, fmt.Errorf("gateway rejected disbursement %s", resp.ProviderRef)
}

func (s *service) Transfer(ctx context.Context, fromUserID string, req TransferRequest) (*Transaction, error) {
	from, err := parseArgs(fromUserID, req.Amount)
	if err != nil {
		return nil, err
	}
	to, err := uuid.Parse(req.ToUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: to_user_id: %v", ErrInvalidRequest, err)
	}
	if to == from {
		return nil, ErrSelfTransfer
	}

	out := newEntry(from, KindDebit, PurposeTransferOut, req.Amount, to.String())
	in := newEntry(to, KindCredit, PurposeTransferIn, req.Amount, from.String())
	if err := s.repo.Apply(ctx, out, in); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Pay(ctx context.Context, userID string, amount float64, purpose Purpose, reference string) (*Transaction, error) {
	id, err := parseArgs(userID, amount)
	if err != nil {
		return nil, err
	}
	t := newEntry(id, KindDebit, purpose, amount, reference)
	if err := s.repo.Apply(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Refund(ctx context.Context, userID string, amount float64, reference string) (*Transaction, error) {
	id, err := parseArgs(userID, amount)
	if err != nil {
		return nil, err
	}
	t := newEntry(id, KindCredit, PurposeReversal, amount, reference)
	if err := s.repo.Apply(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
