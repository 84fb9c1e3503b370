package wallet

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is used when a request names none.
const DefaultCurrency = "ZMW"

// Kind is the direction of a ledger entry.
type Kind string

const (
	KindCredit Kind = "CREDIT"
	KindDebit  Kind = "DEBIT"
)

// Purpose records why money moved.
type Purpose string

const (
	PurposeTopUp         Purpose = "TOP_UP"
	PurposeWithdrawal    Purpose = "WITHDRAWAL"
	PurposeTransferIn    Purpose = "TRANSFER_IN"
	PurposeTransferOut   Purpose = "TRANSFER_OUT"
	PurposeOrderPayment  Purpose = "ORDER_PAYMENT"
	PurposeActivationFee Purpose = "ACTIVATION_FEE"
	PurposeReversal      Purpose = "REVERSAL"
)

// Status is the lifecycle of a ledger entry. Only COMPLETED entries count
// towards the balance.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Transaction is one entry in a user's wallet ledger.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Kind        Kind      `json:"kind"`
	Purpose     Purpose   `json:"purpose"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Reference   string    `json:"reference,omitempty"`
	ProviderRef string    `json:"provider_ref,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// signed is the amount's effect on the balance.
func (t *Transaction) signed() float64 {
	if t.Kind == KindDebit {
		return -t.Amount
	}
	return t.Amount
}

// Balance is the spendable amount of one wallet.
type Balance struct {
	UserID   uuid.UUID `json:"user_id"`
	Amount   float64   `json:"balance"`
	Currency string    `json:"currency"`
}

// AddMoneyRequest tops a wallet up through the configured gateway.
type AddMoneyRequest struct {
	Amount      float64 `json:"amount"`
	PhoneNumber string  `json:"phone_number,omitempty"`
}

// WithdrawRequest pays wallet money out to a bank or mobile account.
type WithdrawRequest struct {
	Amount        float64 `json:"amount"`
	AccountNumber string  `json:"account_number"`
}

// TransferRequest moves money to another user's wallet.
type TransferRequest struct {
	ToUserID string  `json:"to_user_id"`
	Amount   float64 `json:"amount"`
}
