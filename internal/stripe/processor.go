// Package stripe adapts the card processor API to port.PaymentProcessor.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"golang.org/x/text/currency"
)

type processor struct {
	sc *client.API
}

// New wraps an explicitly configured client. The package level stripe.Key is never used.
func New(sc *client.API) port.PaymentProcessor {
	return &processor{sc: sc}
}

func (p *processor) CreateCustomer(ctx context.Context, ownerID, email string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	params.SetIdempotencyKey("customer-" + ownerID)
	params.AddMetadata("owner_id", ownerID)
	if email != "" {
		params.Email = stripe.String(email)
	}

	customer, err := p.sc.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("sc.Customers.New: %w", mapError(err))
	}

	return customer.ID, nil
}

func (p *processor) CreateIntent(ctx context.Context, req domain.IntentRequest) (domain.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount.MinorUnits),
		Currency: stripe.String(toStripeCurrency(req.Amount.Currency)),
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID.String())

	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}

	if req.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(req.PaymentMethodID)
		params.Confirm = stripe.Bool(true)
		params.OffSession = stripe.Bool(req.OffSession)
	} else {
		params.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		}
	}

	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := p.sc.PaymentIntents.New(params)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("sc.PaymentIntents.New: %w", mapError(err))
	}

	return mapIntentToDomain(pi)
}

func (p *processor) UpdateIntentAmount(ctx context.Context, intentID string, amount domain.Money) (domain.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.MinorUnits),
		Currency: stripe.String(toStripeCurrency(amount.Currency)),
	}
	params.Context = ctx

	pi, err := p.sc.PaymentIntents.Update(intentID, params)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("sc.PaymentIntents.Update: %w", mapError(err))
	}

	return mapIntentToDomain(pi)
}

func (p *processor) ConfirmIntent(ctx context.Context, intentID, paymentMethodID, idempotencyKey string) (domain.Intent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
		OffSession:    stripe.Bool(true),
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}

	pi, err := p.sc.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("sc.PaymentIntents.Confirm: %w", mapError(err))
	}

	return mapIntentToDomain(pi)
}

func (p *processor) RetrieveIntent(ctx context.Context, intentID string) (domain.Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.sc.PaymentIntents.Get(intentID, params)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("sc.PaymentIntents.Get: %w", mapError(err))
	}

	return mapIntentToDomain(pi)
}

// ListPaymentMethods returns the customer's cards in the order the processor lists them.
func (p *processor) ListPaymentMethods(ctx context.Context, customerID string) ([]domain.SavedPaymentMethod, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	var methods []domain.SavedPaymentMethod

	iter := p.sc.PaymentMethods.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		if pm.Card == nil {
			continue
		}

		methods = append(methods, domain.SavedPaymentMethod{
			ID:       pm.ID,
			Brand:    string(pm.Card.Brand),
			Last4:    pm.Card.Last4,
			ExpMonth: pm.Card.ExpMonth,
			ExpYear:  pm.Card.ExpYear,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("sc.PaymentMethods.List: %w", mapError(err))
	}

	return methods, nil
}

// mapError keeps processor rejections as domain.ProcessorError and passes anything else through.
func mapError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}

	pe := &domain.ProcessorError{
		Code:    string(se.Code),
		Type:    string(se.Type),
		Message: se.Msg,
	}
	if se.PaymentIntent != nil {
		pe.IntentID = se.PaymentIntent.ID
	}

	return pe
}

func mapIntentToDomain(pi *stripe.PaymentIntent) (domain.Intent, error) {
	cur, err := currency.ParseISO(strings.ToUpper(string(pi.Currency)))
	if err != nil {
		return domain.Intent{}, fmt.Errorf("currency[%s] is not valid: %w", pi.Currency, err)
	}

	return domain.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       domain.NewMoney(pi.Amount, cur),
		Status:       domain.IntentStatus(pi.Status),
	}, nil
}

func toStripeCurrency(cur currency.Unit) string {
	return strings.ToLower(cur.String())
}
