package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Order is an open cart until it is placed, after which it is a permanent receipt.
type Order struct {
	ID                uuid.UUID
	OwnerID           string
	Ordered           bool
	OrderedDate       *time.Time
	ShippingAddressID *uuid.UUID
	BillingAddressID  *uuid.UUID
	Items             []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxItemQuantity caps the quantity a single cart request may add.
const MaxItemQuantity = 1000

type OrderItem struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Title     string
	Colour    string
	Size      string
	Quantity  int
	UnitPrice Money

	CreatedAt time.Time
}

func (o Order) State() OrderState {
	if o.Ordered {
		return OrderStatePlaced
	}
	return OrderStateOpen
}

// RawTotal sums quantity*unit price over the current items, in minor units of cur.
// It is recomputed on every call and never cached.
func (o Order) RawTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal().MinorUnits
	}
	return total
}

// DisplayTotal is RawTotal in major units of cur.
func (o Order) DisplayTotal(cur currency.Unit) decimal.Decimal {
	return NewMoney(o.RawTotal(), cur).Decimal()
}

func (o Order) Item(itemID uuid.UUID) (OrderItem, bool) {
	for _, item := range o.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return OrderItem{}, false
}

func (i OrderItem) Subtotal() Money {
	return i.UnitPrice.Mul(int64(i.Quantity))
}
