package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type itemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Colour    string    `json:"colour"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	Subtotal  int64     `json:"subtotal"`
}

type orderResponse struct {
	ID                uuid.UUID      `json:"id"`
	State             string         `json:"state"`
	OrderedDate       *time.Time     `json:"ordered_date,omitempty"`
	ShippingAddressID *uuid.UUID     `json:"shipping_address_id,omitempty"`
	BillingAddressID  *uuid.UUID     `json:"billing_address_id,omitempty"`
	Items             []itemResponse `json:"items"`
	RawTotal          int64          `json:"raw_total"`
	DisplayTotal      string         `json:"display_total"`
	Currency          string         `json:"currency"`
}

func toOrderResponse(order domain.Order, cur currency.Unit) orderResponse {
	return orderResponse{
		ID:                order.ID,
		State:             string(order.State()),
		OrderedDate:       order.OrderedDate,
		ShippingAddressID: order.ShippingAddressID,
		BillingAddressID:  order.BillingAddressID,
		Items: lo.Map(order.Items, func(item domain.OrderItem, _ int) itemResponse {
			return itemResponse{
				ID:        item.ID,
				ProductID: item.ProductID,
				Title:     item.Title,
				Colour:    item.Colour,
				Size:      item.Size,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice.MinorUnits,
				Subtotal:  item.Subtotal().MinorUnits,
			}
		}),
		RawTotal:     order.RawTotal(),
		DisplayTotal: order.DisplayTotal(cur).StringFixed(int32(domain.Scale(cur))),
		Currency:     cur.String(),
	}
}

type productResponse struct {
	ID                  uuid.UUID `json:"id"`
	Slug                string    `json:"slug"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Price               int64     `json:"price"`
	DisplayPrice        string    `json:"display_price"`
	Currency            string    `json:"currency"`
	Colours             []string  `json:"colours"`
	Sizes               []string  `json:"sizes"`
	PrimaryCategory     string    `json:"primary_category"`
	SecondaryCategories []string  `json:"secondary_categories"`
}

func toProductResponse(p domain.Product, _ int) productResponse {
	return productResponse{
		ID:                  p.ID,
		Slug:                p.Slug,
		Title:               p.Title,
		Description:         p.Description,
		Price:               p.Price.MinorUnits,
		DisplayPrice:        p.Price.Decimal().StringFixed(int32(domain.Scale(p.Price.Currency))),
		Currency:            p.Price.Currency.String(),
		Colours:             p.Colours,
		Sizes:               p.Sizes,
		PrimaryCategory:     p.PrimaryCategory,
		SecondaryCategories: p.SecondaryCategories,
	}
}

type addressResponse struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	AddressLine1 string    `json:"address_line_1"`
	AddressLine2 string    `json:"address_line_2,omitempty"`
	ZipCode      string    `json:"zip_code"`
	City         string    `json:"city"`
}

func toAddressResponse(a domain.Address, _ int) addressResponse {
	return addressResponse{
		ID:           a.ID,
		Type:         string(a.Type),
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		ZipCode:      a.ZipCode,
		City:         a.City,
	}
}

type intentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

func toIntentResponse(intent domain.Intent) intentResponse {
	return intentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount.MinorUnits,
		Currency:     intent.Amount.Currency.String(),
		Status:       string(intent.Status),
	}
}
