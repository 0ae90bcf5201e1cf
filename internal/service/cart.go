package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

// CartService owns the open order of each owner and its line items.
type CartService struct {
	store    port.Transactor
	orders   port.OrderRepository
	products port.ProductRepository
	currency currency.Unit
}

func NewCart(store port.Transactor, orders port.OrderRepository, products port.ProductRepository, cur currency.Unit) *CartService {
	return &CartService{
		store:    store,
		orders:   orders,
		products: products,
		currency: cur,
	}
}

// ResolveOpenOrder returns the owner's open order, creating an empty one on first use.
func (s *CartService) ResolveOpenOrder(ctx context.Context, ownerID string) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, domain.NewValidationError("owner", "is empty")
	}

	order, err := s.orders.GetOrCreateOpenOrder(ctx, ownerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrCreateOpenOrder: %w", err)
	}

	return order, nil
}

type AddItemRequest struct {
	ProductID uuid.UUID
	Colour    string
	Size      string
	Quantity  int
}

// AddOrMerge adds the variant to the open order, or bumps the quantity of the matching item.
func (s *CartService) AddOrMerge(ctx context.Context, ownerID string, req AddItemRequest) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, domain.NewValidationError("owner", "is empty")
	}
	if req.Quantity < 1 {
		return domain.Order{}, domain.NewValidationError("quantity", "must be at least 1")
	}
	if req.Quantity > domain.MaxItemQuantity {
		return domain.Order{}, domain.NewValidationError("quantity", fmt.Sprintf("must be at most %d", domain.MaxItemQuantity))
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.Order{}, domain.NewValidationError("product_id", "unknown product")
		}
		return domain.Order{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	if !product.HasVariant(req.Colour, req.Size) {
		return domain.Order{}, domain.NewValidationError("variant", fmt.Sprintf("colour %q size %q is not offered", req.Colour, req.Size))
	}

	if product.Price.Currency != s.currency {
		return domain.Order{}, domain.NewValidationError("product_id", "priced in "+product.Price.Currency.String())
	}

	var order domain.Order

	err = s.store.InTx(ctx, func(repos port.Repositories) error {
		if _, err := repos.Orders.GetOrCreateOpenOrder(ctx, ownerID); err != nil {
			return fmt.Errorf("orders.GetOrCreateOpenOrder: %w", err)
		}

		// the row lock keeps a concurrent placement from sealing the order under us
		open, err := repos.Orders.LockOpenOrder(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("orders.LockOpenOrder: %w", err)
		}

		if _, err := repos.Orders.AddOrMergeItem(ctx, open.ID, domain.OrderItem{
			ProductID: product.ID,
			Colour:    req.Colour,
			Size:      req.Size,
			Quantity:  req.Quantity,
		}); err != nil {
			return fmt.Errorf("orders.AddOrMergeItem: %w", err)
		}

		order, err = repos.Orders.GetOrder(ctx, open.ID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (s *CartService) Increase(ctx context.Context, ownerID string, itemID uuid.UUID) (domain.Order, error) {
	return s.mutateItem(ctx, ownerID, func(orders port.OrderRepository, orderID uuid.UUID) error {
		if err := orders.IncreaseItem(ctx, orderID, itemID); err != nil {
			return fmt.Errorf("orders.IncreaseItem: %w", err)
		}
		return nil
	})
}

// Decrease removes the item once its quantity would drop below 1.
func (s *CartService) Decrease(ctx context.Context, ownerID string, itemID uuid.UUID) (domain.Order, error) {
	return s.mutateItem(ctx, ownerID, func(orders port.OrderRepository, orderID uuid.UUID) error {
		if _, err := orders.DecreaseItem(ctx, orderID, itemID); err != nil {
			return fmt.Errorf("orders.DecreaseItem: %w", err)
		}
		return nil
	})
}

func (s *CartService) Remove(ctx context.Context, ownerID string, itemID uuid.UUID) (domain.Order, error) {
	return s.mutateItem(ctx, ownerID, func(orders port.OrderRepository, orderID uuid.UUID) error {
		if err := orders.RemoveItem(ctx, orderID, itemID); err != nil {
			return fmt.Errorf("orders.RemoveItem: %w", err)
		}
		return nil
	})
}

// GetOrder returns one of the owner's orders, open or placed. Orders of other owners are not found.
func (s *CartService) GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if order.OwnerID != ownerID {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", domain.ErrOrderNotFound)
	}

	return order, nil
}

// mutateItem runs fn against the caller's locked open order. Items of any other order,
// including the caller's placed ones, are reported as not found.
func (s *CartService) mutateItem(ctx context.Context, ownerID string, fn func(orders port.OrderRepository, orderID uuid.UUID) error) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, domain.NewValidationError("owner", "is empty")
	}

	var order domain.Order

	err := s.store.InTx(ctx, func(repos port.Repositories) error {
		open, err := repos.Orders.LockOpenOrder(ctx, ownerID)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				return fmt.Errorf("orders.LockOpenOrder: %w", domain.ErrOrderItemNotFound)
			}
			return fmt.Errorf("orders.LockOpenOrder: %w", err)
		}

		if err := fn(repos.Orders, open.ID); err != nil {
			return err
		}

		order, err = repos.Orders.GetOrder(ctx, open.ID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

// GetProductBySlug returns one product with the colours and sizes it can be added to the cart in.
func (s *CartService) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	if slug == "" {
		return domain.Product{}, domain.NewValidationError("slug", "is empty")
	}

	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProductBySlug: %w", err)
	}

	return product, nil
}

// ListProducts is the catalog lookup used by the storefront, filtered by category when one is given.
func (s *CartService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.products.ListProducts(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("products.ListProducts: %w", err)
	}

	return products, nil
}
