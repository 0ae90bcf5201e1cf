package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderRepository interface {
	// GetOrCreateOpenOrder returns the owner's single open order, creating it if needed.
	GetOrCreateOpenOrder(ctx context.Context, ownerID string) (domain.Order, error)

	// GetOpenOrder returns the owner's open order without creating or locking it.
	GetOpenOrder(ctx context.Context, ownerID string) (domain.Order, error)

	// LockOpenOrder locks and returns the owner's open order, ErrOrderNotFound if there is none.
	LockOpenOrder(ctx context.Context, ownerID string) (domain.Order, error)
	LockOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	// GetLatestPlacedOrder returns the owner's most recently placed order.
	GetLatestPlacedOrder(ctx context.Context, ownerID string) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	AddOrMergeItem(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) (uuid.UUID, error)
	IncreaseItem(ctx context.Context, orderID, itemID uuid.UUID) error
	// DecreaseItem returns removed=true when the item was deleted instead of decremented.
	DecreaseItem(ctx context.Context, orderID, itemID uuid.UUID) (removed bool, err error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error

	SetAddresses(ctx context.Context, orderID uuid.UUID, shippingID, billingID *uuid.UUID) error

	// PlaceOrder flips an open order to placed. placed=false means it was already placed.
	PlaceOrder(ctx context.Context, orderID uuid.UUID, orderedDate time.Time) (placed bool, err error)
}
