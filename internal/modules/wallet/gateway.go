package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Provider names a money-movement gateway.
type Provider string

const (
	ProviderSandbox Provider = "SANDBOX"
	ProviderMTNMomo Provider = "MTN_MOMO"
	ProviderAirtel  Provider = "AIRTEL_MONEY"
)

// GatewayRequest asks a provider to collect or disburse money.
type GatewayRequest struct {
	Reference string
	Amount    float64
	Currency  string
	Account   string // MSISDN or bank account
}

// GatewayResponse is the provider's view of a request.
type GatewayResponse struct {
	ProviderRef    string
	ProviderStatus string
}

// Gateway is the provider-agnostic interface every money adapter implements.
type Gateway interface {
	// Collect pulls money from the customer into the platform.
	Collect(ctx context.Context, req GatewayRequest) (*GatewayResponse, error)
	// Disburse pushes money from the platform to the customer.
	Disburse(ctx context.Context, req GatewayRequest) (*GatewayResponse, error)
	// Verify polls the current status of providerRef.
	Verify(ctx context.Context, providerRef string) (*GatewayResponse, error)
}

// sandboxGateway settles collections either immediately or on the first
// Verify, depending on deferred.
type sandboxGateway struct {
	mu       sync.Mutex
	deferred bool
	pending  map[string]bool
}

// NewSandboxGateway returns an in-process gateway for development. With
// deferred set, collections stay PENDING until verified once.
func NewSandboxGateway(deferred bool) Gateway {
	return &sandboxGateway{deferred: deferred, pending: make(map[string]bool)}
}

func (g *sandboxGateway) Collect(_ context.Context, req GatewayRequest) (*GatewayResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: %.2f", ErrInvalidAmount, req.Amount)
	}
	ref := "SBX-" + uuid.NewString()
	if !g.deferred {
		return &GatewayResponse{ProviderRef: ref, ProviderStatus: "SUCCESSFUL"}, nil
	}
	g.mu.Lock()
	g.pending[ref] = true
	g.mu.Unlock()
	return &GatewayResponse{ProviderRef: ref, ProviderStatus: "PENDING"}, nil
}

func (g *sandboxGateway) Disburse(_ context.Context, req GatewayRequest) (*GatewayResponse, error) {
	if req.Account == "" {
		return nil, fmt.Errorf("account is required for disbursement")
	}
	return &GatewayResponse{ProviderRef: "SBX-" + uuid.NewString(), ProviderStatus: "SUCCESSFUL"}, nil
}

func (g *sandboxGateway) Verify(_ context.Context, providerRef string) (*GatewayResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, providerRef)
	return &GatewayResponse{ProviderRef: providerRef, ProviderStatus: "SUCCESSFUL"}, nil
}

// NormaliseStatus maps provider status strings to ledger statuses.
func NormaliseStatus(provider Provider, providerStatus string) Status {
	s := strings.ToUpper(providerStatus)
	switch provider {
	case ProviderAirtel:
		switch s {
		case "TS": // transaction successful
			return StatusCompleted
		case "TF": // transaction failed
			return StatusFailed
		default:
			return StatusPending
		}
	default:
		switch s {
		case "SUCCESSFUL", "COMPLETED":
			return StatusCompleted
		case "FAILED", "REJECTED":
			return StatusFailed
		default:
			return StatusPending
		}
	}
}
