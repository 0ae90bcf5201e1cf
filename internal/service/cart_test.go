package service_test

import (
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *serviceSuite) TestAddOrMerge() {
	product := suite.insertProduct(1000)

	tests := []struct {
		name      string
		req       service.AddItemRequest
		wantError string
	}{
		{
			name: "offered variant: ok",
			req:  service.AddItemRequest{ProductID: product.ID, Colour: "red", Size: "M", Quantity: 1},
		},
		{
			name:      "unknown product: fail",
			req:       service.AddItemRequest{ProductID: uuid.New(), Colour: "red", Size: "M", Quantity: 1},
			wantError: "validation: product_id: unknown product",
		},
		{
			name:      "variant not offered: fail",
			req:       service.AddItemRequest{ProductID: product.ID, Colour: "green", Size: "M", Quantity: 1},
			wantError: `validation: variant: colour "green" size "M" is not offered`,
		},
		{
			name:      "zero quantity: fail",
			req:       service.AddItemRequest{ProductID: product.ID, Colour: "red", Size: "M", Quantity: 0},
			wantError: "validation: quantity: must be at least 1",
		},
		{
			name:      "quantity over the cap: fail",
			req:       service.AddItemRequest{ProductID: product.ID, Colour: "red", Size: "M", Quantity: domain.MaxItemQuantity + 1},
			wantError: "validation: quantity: must be at most 1000",
		},
		{
			name: "quantity at the cap: ok",
			req:  service.AddItemRequest{ProductID: product.ID, Colour: "red", Size: "M", Quantity: domain.MaxItemQuantity},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			order, err := suite.cart.AddOrMerge(t.Context(), newOwner(), tt.req)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)

			require.Len(t, order.Items, 1)
			assert.Equal(t, tt.req.Quantity, order.Items[0].Quantity)
		})
	}
}

func (suite *serviceSuite) TestAddOrMerge_SumsQuantities() {
	t := suite.T()
	ctx := t.Context()

	product := suite.insertProduct(250)

	for _, quantities := range [][]int{{1, 1}, {2, 3}, {7, 1, 4}} {
		owner := newOwner()

		want := 0
		var order domain.Order
		for _, q := range quantities {
			var err error
			order, err = suite.cart.AddOrMerge(ctx, owner, service.AddItemRequest{ProductID: product.ID, Colour: "blue", Size: "S", Quantity: q})
			require.NoError(t, err)
			want += q
		}

		require.Len(t, order.Items, 1)
		assert.Equal(t, want, order.Items[0].Quantity)
		assert.EqualValues(t, int64(want)*250, order.RawTotal())
	}
}

func (suite *serviceSuite) TestAddOrMerge_Concurrent() {
	t := suite.T()
	ctx := t.Context()

	product := suite.insertProduct(100)
	owner := newOwner()

	const workers = 10

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := suite.cart.AddOrMerge(ctx, owner, service.AddItemRequest{ProductID: product.ID, Colour: "red", Size: "S", Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	order, err := suite.cart.ResolveOpenOrder(ctx, owner)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, workers, order.Items[0].Quantity)
}

func (suite *serviceSuite) TestRawTotalAndReconstruction() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	assert.EqualValues(t, 2500, order.RawTotal())
	assert.Equal(t, "25.00", order.DisplayTotal(order.Items[0].UnitPrice.Currency).StringFixed(2))

	// decreasing the 2 x 10.00 line and re-reading reflects the new total
	var shirtID uuid.UUID
	for _, item := range order.Items {
		if item.Quantity == 2 {
			shirtID = item.ID
		}
	}

	order, err := suite.cart.Decrease(ctx, owner, shirtID)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, order.RawTotal())

	reloaded, err := suite.cart.GetOrder(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.RawTotal(), reloaded.RawTotal())
	assert.Len(t, reloaded.Items, 2)
}

func (suite *serviceSuite) TestDecrease() {
	product := suite.insertProduct(100)

	tests := []struct {
		name      string
		quantity  int
		wantItems int
		wantQty   int
	}{
		{name: "quantity 1 removes the item: ok", quantity: 1, wantItems: 0},
		{name: "quantity 2 keeps the item at 1: ok", quantity: 2, wantItems: 1, wantQty: 1},
		{name: "quantity 3 keeps the item at 2: ok", quantity: 3, wantItems: 1, wantQty: 2},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			owner := newOwner()

			order, err := suite.cart.AddOrMerge(ctx, owner, service.AddItemRequest{ProductID: product.ID, Colour: "red", Size: "M", Quantity: tt.quantity})
			require.NoError(t, err)

			order, err = suite.cart.Decrease(ctx, owner, order.Items[0].ID)
			require.NoError(t, err)

			require.Len(t, order.Items, tt.wantItems)
			if tt.wantItems > 0 {
				assert.Equal(t, tt.wantQty, order.Items[0].Quantity)
			}
		})
	}
}

func (suite *serviceSuite) TestItemOfAnotherOwner() {
	t := suite.T()
	ctx := t.Context()

	product := suite.insertProduct(100)

	alice, bob := newOwner(), newOwner()

	aliceOrder, err := suite.cart.AddOrMerge(ctx, alice, service.AddItemRequest{ProductID: product.ID, Colour: "red", Size: "M", Quantity: 2})
	require.NoError(t, err)
	itemID := aliceOrder.Items[0].ID

	// bob has no open order yet
	_, err = suite.cart.Increase(ctx, bob, itemID)
	assert.ErrorIs(t, err, domain.ErrOrderItemNotFound)

	_, err = suite.cart.ResolveOpenOrder(ctx, bob)
	require.NoError(t, err)

	_, err = suite.cart.Increase(ctx, bob, itemID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = suite.cart.Decrease(ctx, bob, itemID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = suite.cart.Remove(ctx, bob, itemID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = suite.cart.GetOrder(ctx, bob, aliceOrder.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	untouched, err := suite.cart.GetOrder(ctx, alice, aliceOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, untouched.Items[0].Quantity)
}

func (suite *serviceSuite) TestPlacedOrderItemsAreSealed() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	placed, err := suite.orders.PlaceOrder(ctx, order.ID, order.CreatedAt)
	require.NoError(t, err)
	require.True(t, placed)

	_, err = suite.cart.Increase(ctx, owner, order.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrOrderItemNotFound)

	next, err := suite.cart.ResolveOpenOrder(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, next.ID)
	assert.Empty(t, next.Items)

	receipt, err := suite.cart.GetOrder(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatePlaced, receipt.State())
	assert.EqualValues(t, 2500, receipt.RawTotal())
}

func (suite *serviceSuite) TestListProducts() {
	t := suite.T()

	suite.insertProduct(100)
	suite.insertProduct(200)

	products, err := suite.cart.ListProducts(t.Context(), "shirts")
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = suite.cart.ListProducts(t.Context(), "hats")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func (suite *serviceSuite) TestGetProductBySlug() {
	t := suite.T()
	ctx := t.Context()

	product := suite.insertProduct(100)

	actual, err := suite.cart.GetProductBySlug(ctx, product.Slug)
	require.NoError(t, err)
	assert.Equal(t, product.ID, actual.ID)
	assert.True(t, actual.HasVariant("red", "M"))

	_, err = suite.cart.GetProductBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = suite.cart.GetProductBySlug(ctx, "")
	require.EqualError(t, err, "validation: slug: is empty")
}
