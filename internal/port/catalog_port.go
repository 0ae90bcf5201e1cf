package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	// ListProducts returns all products, or those in category (primary or secondary) when it is not empty.
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
}

type AddressRepository interface {
	InsertAddress(ctx context.Context, address domain.Address) (domain.Address, error)
	GetAddress(ctx context.Context, addressID uuid.UUID) (domain.Address, error)
	ListAddresses(ctx context.Context, ownerID string, addressType domain.AddressType) ([]domain.Address, error)
}
