package service_test

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddress() *domain.Address {
	return &domain.Address{
		AddressLine1: "1 Main St",
		ZipCode:      "10115",
		City:         "Berlin",
	}
}

func (suite *serviceSuite) TestSetAddresses() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	suite.fillCart(owner)

	savedBilling, err := suite.addresses.InsertAddress(ctx, domain.Address{
		OwnerID:      owner,
		Type:         domain.AddressTypeBilling,
		AddressLine1: "2 Side St",
		ZipCode:      "10117",
		City:         "Berlin",
	})
	require.NoError(t, err)

	order, err := suite.checkout.SetAddresses(ctx, owner,
		service.AddressChoice{New: newAddress()},
		service.AddressChoice{SelectedID: &savedBilling.ID})
	require.NoError(t, err)

	require.NotNil(t, order.ShippingAddressID)
	require.NotNil(t, order.BillingAddressID)
	assert.Equal(t, savedBilling.ID, *order.BillingAddressID)

	shipping, err := suite.checkout.SavedAddresses(ctx, owner, domain.AddressTypeShipping)
	require.NoError(t, err)
	require.Len(t, shipping, 1)
	assert.Equal(t, *order.ShippingAddressID, shipping[0].ID)
	assert.Equal(t, owner, shipping[0].OwnerID)
}

func (suite *serviceSuite) TestSetAddresses_Rejected() {
	ctx := suite.T().Context()

	stranger := newOwner()
	foreign, err := suite.addresses.InsertAddress(ctx, domain.Address{
		OwnerID:      stranger,
		Type:         domain.AddressTypeShipping,
		AddressLine1: "3 Far St",
		ZipCode:      "20095",
		City:         "Hamburg",
	})
	suite.Require().NoError(err)

	tests := []struct {
		name      string
		shipping  func(owner string) service.AddressChoice
		billing   service.AddressChoice
		noCart    bool
		wantError error
	}{
		{
			name:      "nothing chosen: fail",
			shipping:  func(string) service.AddressChoice { return service.AddressChoice{} },
			billing:   service.AddressChoice{New: newAddress()},
			wantError: domain.ErrValidation,
		},
		{
			name: "both selected and new: fail",
			shipping: func(string) service.AddressChoice {
				return service.AddressChoice{SelectedID: lo.ToPtr(uuid.New()), New: newAddress()}
			},
			billing:   service.AddressChoice{New: newAddress()},
			wantError: domain.ErrValidation,
		},
		{
			name: "incomplete new address: fail",
			shipping: func(string) service.AddressChoice {
				return service.AddressChoice{New: &domain.Address{AddressLine1: "x"}}
			},
			billing:   service.AddressChoice{New: newAddress()},
			wantError: domain.ErrValidation,
		},
		{
			name: "address of another owner: not found",
			shipping: func(string) service.AddressChoice {
				return service.AddressChoice{SelectedID: &foreign.ID}
			},
			billing:   service.AddressChoice{New: newAddress()},
			wantError: domain.ErrAddressNotFound,
		},
		{
			name: "billing address used as shipping: fail",
			shipping: func(owner string) service.AddressChoice {
				billing, err := suite.addresses.InsertAddress(ctx, domain.Address{
					OwnerID: owner, Type: domain.AddressTypeBilling, AddressLine1: "4 Elm St", ZipCode: "1", City: "Bonn",
				})
				suite.Require().NoError(err)
				return service.AddressChoice{SelectedID: &billing.ID}
			},
			billing:   service.AddressChoice{New: newAddress()},
			wantError: domain.ErrValidation,
		},
		{
			name:      "no open order: not found",
			shipping:  func(string) service.AddressChoice { return service.AddressChoice{New: newAddress()} },
			billing:   service.AddressChoice{New: newAddress()},
			noCart:    true,
			wantError: domain.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			owner := newOwner()
			if !tt.noCart {
				suite.fillCart(owner)
			}

			_, err := suite.checkout.SetAddresses(ctx, owner, tt.shipping(owner), tt.billing)
			require.ErrorIs(t, err, tt.wantError)

			// nothing is attached, and a rejected new address is rolled back
			if !tt.noCart {
				order, err := suite.orders.GetOpenOrder(ctx, owner)
				require.NoError(t, err)
				assert.Nil(t, order.ShippingAddressID)
			}

			saved, err := suite.checkout.SavedAddresses(ctx, owner, domain.AddressTypeShipping)
			require.NoError(t, err)
			assert.Empty(t, saved)
		})
	}
}
