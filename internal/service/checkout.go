package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// AddressChoice picks a saved address by SelectedID or creates New. Exactly one must be set.
type AddressChoice struct {
	SelectedID *uuid.UUID
	New        *domain.Address
}

type CheckoutService struct {
	store     port.Transactor
	addresses port.AddressRepository
}

func NewCheckout(store port.Transactor, addresses port.AddressRepository) *CheckoutService {
	return &CheckoutService{
		store:     store,
		addresses: addresses,
	}
}

// SavedAddresses lists the owner's addresses of one type, newest first.
func (s *CheckoutService) SavedAddresses(ctx context.Context, ownerID string, addressType domain.AddressType) ([]domain.Address, error) {
	addresses, err := s.addresses.ListAddresses(ctx, ownerID, addressType)
	if err != nil {
		return nil, fmt.Errorf("addresses.ListAddresses: %w", err)
	}

	return addresses, nil
}

// SetAddresses attaches shipping and billing addresses to the owner's open order.
func (s *CheckoutService) SetAddresses(ctx context.Context, ownerID string, shipping, billing AddressChoice) (domain.Order, error) {
	if err := validateChoice("shipping", shipping); err != nil {
		return domain.Order{}, err
	}
	if err := validateChoice("billing", billing); err != nil {
		return domain.Order{}, err
	}

	var order domain.Order

	err := s.store.InTx(ctx, func(repos port.Repositories) error {
		open, err := repos.Orders.LockOpenOrder(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("orders.LockOpenOrder: %w", err)
		}

		shippingID, err := resolveAddress(ctx, repos.Addresses, ownerID, domain.AddressTypeShipping, shipping)
		if err != nil {
			return fmt.Errorf("resolveAddress[shipping]: %w", err)
		}

		billingID, err := resolveAddress(ctx, repos.Addresses, ownerID, domain.AddressTypeBilling, billing)
		if err != nil {
			return fmt.Errorf("resolveAddress[billing]: %w", err)
		}

		if err := repos.Orders.SetAddresses(ctx, open.ID, &shippingID, &billingID); err != nil {
			return fmt.Errorf("orders.SetAddresses: %w", err)
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

func validateChoice(field string, choice AddressChoice) error {
	switch {
	case choice.SelectedID == nil && choice.New == nil:
		return domain.NewValidationError(field, "select a saved address or enter a new one")
	case choice.SelectedID != nil && choice.New != nil:
		return domain.NewValidationError(field, "cannot both select and enter an address")
	case choice.New != nil:
		if err := choice.New.Validate(); err != nil {
			return domain.NewValidationError(field, err.Error())
		}
	}

	return nil
}

func resolveAddress(ctx context.Context, addresses port.AddressRepository, ownerID string, addressType domain.AddressType, choice AddressChoice) (uuid.UUID, error) {
	if choice.SelectedID != nil {
		address, err := addresses.GetAddress(ctx, *choice.SelectedID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("addresses.GetAddress: %w", err)
		}

		// someone else's address is indistinguishable from a missing one
		if address.OwnerID != ownerID {
			return uuid.Nil, domain.ErrAddressNotFound
		}
		if address.Type != addressType {
			return uuid.Nil, domain.NewValidationError(string(addressType), "address is of type "+string(address.Type))
		}

		return address.ID, nil
	}

	address := *choice.New
	address.OwnerID = ownerID
	address.Type = addressType

	created, err := addresses.InsertAddress(ctx, address)
	if err != nil {
		return uuid.Nil, fmt.Errorf("addresses.InsertAddress: %w", err)
	}

	return created.ID, nil
}
