package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

type productRepository struct {
	q *db.Queries
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{q: db.New(pool)}
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	dbProduct, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, dbError("q.GetProduct", err, domain.ErrProductNotFound)
	}

	return mapDBProductToDomain(dbProduct)
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	if slug == "" {
		return domain.Product{}, errors.New("slug is empty")
	}

	dbProduct, err := r.q.GetProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, dbError("q.GetProductBySlug", err, domain.ErrProductNotFound)
	}

	return mapDBProductToDomain(dbProduct)
}

func (r *productRepository) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	var (
		dbProducts []db.Product
		err        error
	)

	if category == "" {
		dbProducts, err = r.q.ListProducts(ctx)
		if err != nil {
			return nil, storageError("q.ListProducts", err)
		}
	} else {
		dbProducts, err = r.q.ListProductsByCategory(ctx, category)
		if err != nil {
			return nil, storageError("q.ListProductsByCategory", err)
		}
	}

	var products []domain.Product
	for _, dbProduct := range dbProducts {
		product, err := mapDBProductToDomain(dbProduct)
		if err != nil {
			return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if product.Slug == "" {
		return uuid.Nil, errors.New("slug is empty")
	}

	productID, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		Slug:                product.Slug,
		Title:               product.Title,
		Description:         product.Description,
		PriceMinor:          product.Price.MinorUnits,
		PriceCurrency:       product.Price.Currency.String(),
		Colours:             emptySliceIfNil(product.Colours),
		Sizes:               emptySliceIfNil(product.Sizes),
		PrimaryCategory:     product.PrimaryCategory,
		SecondaryCategories: emptySliceIfNil(product.SecondaryCategories),
	})
	if err != nil {
		return uuid.Nil, storageError("q.InsertProduct", err)
	}

	return productID, nil
}

type addressRepository struct {
	q *db.Queries
}

func NewAddress(pool *pgxpool.Pool) port.AddressRepository {
	return &addressRepository{q: db.New(pool)}
}

func NewAddressWithTx(tx pgx.Tx) port.AddressRepository {
	return &addressRepository{q: db.New(tx)}
}

func (r *addressRepository) InsertAddress(ctx context.Context, address domain.Address) (domain.Address, error) {
	if err := address.Validate(); err != nil {
		return domain.Address{}, fmt.Errorf("address.Validate: %w", err)
	}

	dbAddress, err := r.q.InsertAddress(ctx, db.InsertAddressParams{
		OwnerID:      address.OwnerID,
		AddressType:  string(address.Type),
		AddressLine1: address.AddressLine1,
		AddressLine2: address.AddressLine2,
		ZipCode:      address.ZipCode,
		City:         address.City,
	})
	if err != nil {
		return domain.Address{}, storageError("q.InsertAddress", err)
	}

	return mapDBAddressToDomain(dbAddress)
}

func (r *addressRepository) GetAddress(ctx context.Context, addressID uuid.UUID) (domain.Address, error) {
	dbAddress, err := r.q.GetAddress(ctx, addressID)
	if err != nil {
		return domain.Address{}, dbError("q.GetAddress", err, domain.ErrAddressNotFound)
	}

	return mapDBAddressToDomain(dbAddress)
}

func (r *addressRepository) ListAddresses(ctx context.Context, ownerID string, addressType domain.AddressType) ([]domain.Address, error) {
	dbAddresses, err := r.q.ListAddresses(ctx, db.ListAddressesParams{
		OwnerID:     ownerID,
		AddressType: string(addressType),
	})
	if err != nil {
		return nil, storageError("q.ListAddresses", err)
	}

	var addresses []domain.Address
	for _, dbAddress := range dbAddresses {
		address, err := mapDBAddressToDomain(dbAddress)
		if err != nil {
			return nil, fmt.Errorf("mapDBAddressToDomain: %w", err)
		}
		addresses = append(addresses, address)
	}

	return addresses, nil
}

func mapDBProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:                  row.ID,
		Slug:                row.Slug,
		Title:               row.Title,
		Description:         row.Description,
		Price:               domain.NewMoney(row.PriceMinor, parsedCurrency),
		Colours:             row.Colours,
		Sizes:               row.Sizes,
		PrimaryCategory:     row.PrimaryCategory,
		SecondaryCategories: row.SecondaryCategories,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func mapDBAddressToDomain(row db.Address) (domain.Address, error) {
	addressType, err := domain.ToAddressType(row.AddressType)
	if err != nil {
		return domain.Address{}, fmt.Errorf("domain.ToAddressType[%s]: %w", row.AddressType, err)
	}

	return domain.Address{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		Type:         addressType,
		AddressLine1: row.AddressLine1,
		AddressLine2: row.AddressLine2,
		ZipCode:      row.ZipCode,
		City:         row.City,
		CreatedAt:    row.CreatedAt,
	}, nil
}

func emptySliceIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
