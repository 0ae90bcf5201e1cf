package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrCreateOpenOrder(ctx context.Context, ownerID string) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, errors.New("ownerID is empty")
	}

	return withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		// ErrNoRows means another request already holds the open order, the partial unique index
		// orders_open_owner_uidx makes the insert a no-op.
		if _, err := q.InsertOpenOrder(ctx, ownerID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, storageError("q.InsertOpenOrder", err)
		}

		dbOrder, err := q.GetOpenOrderByOwner(ctx, ownerID)
		if err != nil {
			return domain.Order{}, dbError("q.GetOpenOrderByOwner", err, domain.ErrOrderNotFound)
		}

		return loadOrder(ctx, q, dbOrder)
	})
}

func (r *orderRepository) GetOpenOrder(ctx context.Context, ownerID string) (domain.Order, error) {
	return withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOpenOrderByOwner(ctx, ownerID)
		if err != nil {
			return domain.Order{}, dbError("q.GetOpenOrderByOwner", err, domain.ErrOrderNotFound)
		}

		return loadOrder(ctx, q, dbOrder)
	})
}

func (r *orderRepository) LockOpenOrder(ctx context.Context, ownerID string) (domain.Order, error) {
	return withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOpenOrderByOwnerForUpdate(ctx, ownerID)
		if err != nil {
			return domain.Order{}, dbError("q.GetOpenOrderByOwnerForUpdate", err, domain.ErrOrderNotFound)
		}

		return loadOrder(ctx, q, dbOrder)
	})
}

func (r *orderRepository) LockOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return domain.Order{}, dbError("q.GetOrderForUpdate", err, domain.ErrOrderNotFound)
		}

		return loadOrder(ctx, q, dbOrder)
	})
}

func (r *orderRepository) GetLatestPlacedOrder(ctx context.Context, ownerID string) (domain.Order, error) {
	return withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetLatestPlacedOrderByOwner(ctx, ownerID)
		if err != nil {
			return domain.Order{}, dbError("q.GetLatestPlacedOrderByOwner", err, domain.ErrOrderNotFound)
		}

		return loadOrder(ctx, q, dbOrder)
	})
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			return domain.Order{}, dbError("q.GetOrder", err, domain.ErrOrderNotFound)
		}

		return loadOrder(ctx, q, dbOrder)
	})
}

func (r *orderRepository) AddOrMergeItem(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) (uuid.UUID, error) {
	if item.Quantity < 1 {
		return uuid.Nil, fmt.Errorf("quantity[%d] is less than 1", item.Quantity)
	}
	if item.Quantity > math.MaxInt32 {
		return uuid.Nil, fmt.Errorf("quantity[%d] is out of range", item.Quantity)
	}

	itemID, err := r.q.UpsertOrderItem(ctx, db.UpsertOrderItemParams{
		OrderID:   orderID,
		ProductID: item.ProductID,
		Colour:    item.Colour,
		Size:      item.Size,
		Quantity:  int32(item.Quantity),
	})
	if err != nil {
		return uuid.Nil, storageError("q.UpsertOrderItem", err)
	}

	return itemID, nil
}

func (r *orderRepository) IncreaseItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	cmdTag, err := r.q.IncrementOrderItem(ctx, db.IncrementOrderItemParams{ID: itemID, OrderID: orderID})
	if err != nil {
		return storageError("q.IncrementOrderItem", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.IncrementOrderItem: %w", domain.ErrOrderItemNotFound)
	}

	return nil
}

func (r *orderRepository) DecreaseItem(ctx context.Context, orderID, itemID uuid.UUID) (bool, error) {
	return withTx(ctx, r.dbtx, func(q *db.Queries) (bool, error) {
		dbItem, err := q.GetOrderItemForUpdate(ctx, db.GetOrderItemForUpdateParams{ID: itemID, OrderID: orderID})
		if err != nil {
			return false, dbError("q.GetOrderItemForUpdate", err, domain.ErrOrderItemNotFound)
		}

		if dbItem.Quantity <= 1 {
			if _, err := q.DeleteOrderItem(ctx, db.DeleteOrderItemParams{ID: itemID, OrderID: orderID}); err != nil {
				return false, storageError("q.DeleteOrderItem", err)
			}
			return true, nil
		}

		if _, err := q.DecrementOrderItem(ctx, db.DecrementOrderItemParams{ID: itemID, OrderID: orderID}); err != nil {
			return false, storageError("q.DecrementOrderItem", err)
		}

		return false, nil
	})
}

func (r *orderRepository) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	cmdTag, err := r.q.DeleteOrderItem(ctx, db.DeleteOrderItemParams{ID: itemID, OrderID: orderID})
	if err != nil {
		return storageError("q.DeleteOrderItem", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteOrderItem: %w", domain.ErrOrderItemNotFound)
	}

	return nil
}

func (r *orderRepository) SetAddresses(ctx context.Context, orderID uuid.UUID, shippingID, billingID *uuid.UUID) error {
	cmdTag, err := r.q.SetOrderAddresses(ctx, db.SetOrderAddressesParams{
		ID:                orderID,
		ShippingAddressID: shippingID,
		BillingAddressID:  billingID,
	})
	if err != nil {
		return storageError("q.SetOrderAddresses", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.SetOrderAddresses: %w", domain.ErrOrderNotFound)
	}

	return nil
}

func (r *orderRepository) PlaceOrder(ctx context.Context, orderID uuid.UUID, orderedDate time.Time) (bool, error) {
	if orderedDate.IsZero() {
		return false, errors.New("orderedDate is zero")
	}

	cmdTag, err := r.q.PlaceOrder(ctx, db.PlaceOrderParams{
		ID:          orderID,
		OrderedDate: lo.ToPtr(orderedDate.UTC()),
	})
	if err != nil {
		return false, storageError("q.PlaceOrder", err)
	}

	return cmdTag.RowsAffected() == 1, nil
}

func loadOrder(ctx context.Context, q *db.Queries, dbOrder db.Order) (domain.Order, error) {
	dbOrderItems, err := q.GetOrderItems(ctx, dbOrder.ID)
	if err != nil {
		return domain.Order{}, storageError("q.GetOrderItems", err)
	}

	order, err := mapDBOrderToDomain(dbOrder, dbOrderItems)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapDBOrderToDomain: %w", err)
	}

	return order, nil
}

func mapGetOrderItemsRowToDomain(row db.GetOrderItemsRow) (domain.OrderItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderItem{
		ID:        row.ID,
		ProductID: row.ProductID,
		Title:     row.Title,
		Colour:    row.Colour,
		Size:      row.Size,
		Quantity:  int(row.Quantity),
		UnitPrice: domain.NewMoney(row.PriceMinor, parsedCurrency),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderItems []db.GetOrderItemsRow) (domain.Order, error) {
	var items []domain.OrderItem

	for _, row := range dbOrderItems {
		item, err := mapGetOrderItemsRowToDomain(row)
		if err != nil {
			return domain.Order{}, fmt.Errorf("mapGetOrderItemsRowToDomain: %w", err)
		}
		items = append(items, item)
	}

	return domain.Order{
		ID:                dbOrder.ID,
		OwnerID:           dbOrder.OwnerID,
		Ordered:           dbOrder.Ordered,
		OrderedDate:       dbOrder.OrderedDate,
		ShippingAddressID: dbOrder.ShippingAddressID,
		BillingAddressID:  dbOrder.BillingAddressID,
		Items:             items,
		CreatedAt:         dbOrder.CreatedAt,
		UpdatedAt:         dbOrder.UpdatedAt,
	}, nil
}
