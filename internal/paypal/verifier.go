package paypal

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/plutov/paypal/v4"
	"golang.org/x/text/currency"
)

const statusCompleted = "COMPLETED"

type verifier struct {
	client *paypal.Client

	mu            sync.Mutex
	authenticated bool
}

// NewVerifier confirms purchases against the processor with client credentials.
// baseURL is paypal.APIBaseSandBox or paypal.APIBaseLive.
func NewVerifier(clientID, secret, baseURL string) (port.PurchaseVerifier, error) {
	c, err := paypal.NewClient(clientID, secret, baseURL)
	if err != nil {
		return nil, fmt.Errorf("paypal.NewClient: %w", err)
	}

	return &verifier{client: c}, nil
}

// VerifyPurchase returns the captured amount of a completed purchase. Purchases that are not
// completed, or that carry no amount, fail with domain.ErrVerification.
func (v *verifier) VerifyPurchase(ctx context.Context, purchaseID string) (domain.Money, error) {
	if err := v.authenticate(ctx); err != nil {
		return domain.Money{}, err
	}

	order, err := v.client.GetOrder(ctx, purchaseID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("client.GetOrder[%s]: %w", purchaseID, err)
	}

	if order.Status != statusCompleted {
		return domain.Money{}, fmt.Errorf("%w: purchase %s is %s", domain.ErrVerification, purchaseID, order.Status)
	}

	if len(order.PurchaseUnits) == 0 || order.PurchaseUnits[0].Amount == nil {
		return domain.Money{}, fmt.Errorf("%w: purchase %s has no amount", domain.ErrVerification, purchaseID)
	}

	amount := order.PurchaseUnits[0].Amount

	cur, err := currency.ParseISO(amount.Currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%w: purchase %s currency[%s]: %v", domain.ErrVerification, purchaseID, amount.Currency, err)
	}

	minor, err := domain.ParseMinorUnits(amount.Value, cur)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%w: purchase %s: %v", domain.ErrVerification, purchaseID, err)
	}

	return domain.NewMoney(minor, cur), nil
}

// authenticate fetches the first access token, the client renews it on its own afterwards.
func (v *verifier) authenticate(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.authenticated {
		return nil
	}

	if _, err := v.client.GetAccessToken(ctx); err != nil {
		return fmt.Errorf("client.GetAccessToken: %w", err)
	}

	v.authenticated = true

	return nil
}
