package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	return pgtest.StartPostgres(ctx)
}

func randomProduct(cur currency.Unit) domain.Product {
	return domain.Product{
		Slug:                gofakeit.UUID(),
		Title:               gofakeit.ProductName(),
		Description:         gofakeit.ProductDescription(),
		Price:               domain.NewMoney(int64(gofakeit.Number(100, 10000)), cur),
		Colours:             []string{"red", "blue"},
		Sizes:               []string{"S", "M", "L"},
		PrimaryCategory:     gofakeit.ProductCategory(),
		SecondaryCategories: []string{gofakeit.BeerStyle()},
	}
}

func randomAddress(ownerID string, addressType domain.AddressType) domain.Address {
	return domain.Address{
		OwnerID:      ownerID,
		Type:         addressType,
		AddressLine1: gofakeit.Street(),
		ZipCode:      gofakeit.Zip(),
		City:         gofakeit.City(),
	}
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

func assertItems(t *testing.T, expected, actual []domain.OrderItem) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.OrderItem{}, "ID", "CreatedAt"),
		cmpopts.SortSlices(func(a, b domain.OrderItem) bool {
			return a.Colour+a.Size < b.Colour+b.Size
		}),
		cmpopts.EquateEmpty(),
		currencyComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
