package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentIntentRecord tracks the processor-side intent of an order. One per order,
// reused across retries.
type PaymentIntentRecord struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	IntentID   string
	Amount     Money
	Successful bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentAttempt is an append-only audit entry. (Processor, ExternalRef) is unique.
type PaymentAttempt struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Processor   ProcessorKind
	ExternalRef string
	Successful  bool
	Amount      Money
	RawResponse []byte

	CreatedAt time.Time
}

// Customer maps an owner to its processor-side customer.
type Customer struct {
	OwnerID             string
	ProcessorCustomerID string
}

type SavedPaymentMethod struct {
	ID       string `json:"method_id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
}

type IntentStatus string

const (
	IntentStatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentStatusRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentStatusRequiresAction        IntentStatus = "requires_action"
	IntentStatusProcessing            IntentStatus = "processing"
	IntentStatusRequiresCapture       IntentStatus = "requires_capture"
	IntentStatusCanceled              IntentStatus = "canceled"
	IntentStatusSucceeded             IntentStatus = "succeeded"
)

// Reusable reports whether the intent can still have its amount changed.
func (s IntentStatus) Reusable() bool {
	switch s {
	case IntentStatusRequiresPaymentMethod, IntentStatusRequiresConfirmation, IntentStatusRequiresAction:
		return true
	default:
		return false
	}
}

// Intent is the processor's view of a payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       Money
	Status       IntentStatus
}

type IntentRequest struct {
	Amount     Money
	CustomerID string
	// OrderID is stored in the intent metadata.
	OrderID uuid.UUID
	// PaymentMethodID, when set together with OffSession, confirms the intent immediately.
	PaymentMethodID string
	OffSession      bool
	IdempotencyKey  string
}
