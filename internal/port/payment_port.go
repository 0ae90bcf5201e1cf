package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type PaymentRepository interface {
	UpsertIntent(ctx context.Context, record domain.PaymentIntentRecord) (domain.PaymentIntentRecord, error)
	GetIntentByOrder(ctx context.Context, orderID uuid.UUID) (domain.PaymentIntentRecord, error)
	GetIntentByIntentID(ctx context.Context, intentID string) (domain.PaymentIntentRecord, error)
	LockIntentByIntentID(ctx context.Context, intentID string) (domain.PaymentIntentRecord, error)
	MarkIntentSuccessful(ctx context.Context, intentID string) error

	// InsertAttempt returns inserted=false when an attempt with the same processor and
	// external reference already exists.
	InsertAttempt(ctx context.Context, attempt domain.PaymentAttempt) (inserted bool, err error)
	GetAttemptByExternalRef(ctx context.Context, processor domain.ProcessorKind, externalRef string) (domain.PaymentAttempt, error)
	ListAttempts(ctx context.Context, orderID uuid.UUID) ([]domain.PaymentAttempt, error)

	GetCustomer(ctx context.Context, ownerID string) (domain.Customer, error)
	// InsertCustomer keeps an existing mapping and returns the stored one.
	InsertCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error)
}

// PaymentProcessor is the external processor the gateway adapter drives.
type PaymentProcessor interface {
	CreateCustomer(ctx context.Context, ownerID, email string) (string, error)
	CreateIntent(ctx context.Context, req domain.IntentRequest) (domain.Intent, error)
	UpdateIntentAmount(ctx context.Context, intentID string, amount domain.Money) (domain.Intent, error)
	// ConfirmIntent charges an existing intent off-session with a saved payment method.
	ConfirmIntent(ctx context.Context, intentID, paymentMethodID, idempotencyKey string) (domain.Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (domain.Intent, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]domain.SavedPaymentMethod, error)
}

// EventVerifier authenticates inbound processor notifications.
type EventVerifier interface {
	Verify(payload []byte, signatureHeader string) (domain.Event, error)
}

// PurchaseVerifier independently confirms a purchase reported by the alternate processor.
type PurchaseVerifier interface {
	VerifyPurchase(ctx context.Context, purchaseID string) (domain.Money, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error
}
