package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

const codeVerificationUnavailable = "verification_unavailable"

// Reconciler flips an open order to placed exactly once, from either the synchronous
// confirmation callback or a verified processor event. Both paths lock the order row
// before anything else and treat an already placed order as a successful no-op.
type Reconciler struct {
	store     port.Transactor
	verifier  port.PurchaseVerifier
	publisher port.EventPublisher
	currency  currency.Unit
	logger    *slog.Logger
	now       func() time.Time
}

// NewReconciler builds a Reconciler. With a nil verifier every synchronous confirmation is refused,
// since the callback body alone does not prove a payment.
func NewReconciler(store port.Transactor, verifier port.PurchaseVerifier, publisher port.EventPublisher,
	cur currency.Unit, l *slog.Logger) *Reconciler {
	return &Reconciler{
		store:     store,
		verifier:  verifier,
		publisher: publisher,
		currency:  cur,
		logger:    l,
		now:       time.Now,
	}
}

type confirmationPayload struct {
	ID            string `json:"id"`
	PurchaseUnits []struct {
		Amount struct {
			Value        string `json:"value"`
			CurrencyCode string `json:"currency_code"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

// ConfirmSynchronous handles the alternate processor's confirmation callback for the owner's open order.
// A confirmation that was already recorded is accepted again without side effects.
func (r *Reconciler) ConfirmSynchronous(ctx context.Context, ownerID string, rawBody []byte) error {
	purchaseID, amount, err := r.parseConfirmation(rawBody)
	if err != nil {
		return err
	}

	if r.verifier == nil {
		return &domain.PaymentError{
			Code:    codeVerificationUnavailable,
			Message: "purchase " + purchaseID + " cannot be verified with the processor",
		}
	}

	verified, err := r.verifier.VerifyPurchase(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("verifier.VerifyPurchase: %w", err)
	}
	if verified != amount {
		return fmt.Errorf("%w: purchase %s captured %s, callback claims %s", domain.ErrVerification, purchaseID, verified, amount)
	}

	var placed *domain.OrderPlaced

	err = r.store.InTx(ctx, func(repos port.Repositories) error {
		_, err := repos.Payments.GetAttemptByExternalRef(ctx, domain.ProcessorPayPal, purchaseID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrPaymentAttemptNotFound) {
			return fmt.Errorf("payments.GetAttemptByExternalRef: %w", err)
		}

		open, err := repos.Orders.GetOpenOrder(ctx, ownerID)
		if errors.Is(err, domain.ErrOrderNotFound) {
			return r.confirmPlaced(ctx, repos.Orders, ownerID, amount)
		}
		if err != nil {
			return fmt.Errorf("orders.GetOpenOrder: %w", err)
		}

		order, err := repos.Orders.LockOrder(ctx, open.ID)
		if err != nil {
			return fmt.Errorf("orders.LockOrder: %w", err)
		}

		// a concurrent event placed it while we waited for the lock
		if order.Ordered {
			return nil
		}

		if total := domain.NewMoney(order.RawTotal(), r.currency); total != amount {
			return fmt.Errorf("%w: order total %s, purchase %s", domain.ErrVerification, total, amount)
		}

		orderedDate := r.now().UTC().Truncate(24 * time.Hour)

		ok, err := repos.Orders.PlaceOrder(ctx, order.ID, orderedDate)
		if err != nil {
			return fmt.Errorf("orders.PlaceOrder: %w", err)
		}
		if !ok {
			return nil
		}

		if _, err := repos.Payments.InsertAttempt(ctx, domain.PaymentAttempt{
			OrderID:     order.ID,
			Processor:   domain.ProcessorPayPal,
			ExternalRef: purchaseID,
			Successful:  true,
			Amount:      amount,
			RawResponse: rawBody,
		}); err != nil {
			return fmt.Errorf("payments.InsertAttempt: %w", err)
		}

		placed = &domain.OrderPlaced{
			OrderID:     order.ID.String(),
			OwnerID:     order.OwnerID,
			Processor:   domain.ProcessorPayPal,
			AmountMinor: amount.MinorUnits,
			Currency:    amount.Currency.String(),
			OrderedDate: orderedDate,
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.publish(ctx, placed)

	return nil
}

// confirmPlaced accepts a confirmation that arrives after the owner's order was placed by the other
// path. It matches when the latest placed order carries the confirmed amount.
func (r *Reconciler) confirmPlaced(ctx context.Context, orders port.OrderRepository, ownerID string, amount domain.Money) error {
	placed, err := orders.GetLatestPlacedOrder(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("orders.GetLatestPlacedOrder: %w", err)
	}

	if total := domain.NewMoney(placed.RawTotal(), r.currency); total != amount {
		return fmt.Errorf("orders.GetOpenOrder: %w", domain.ErrOrderNotFound)
	}

	logger.FromContext(ctx, r.logger).Info("confirmation for already placed order",
		slog.String(logger.OrderID, placed.ID.String()))

	return nil
}

func (r *Reconciler) parseConfirmation(rawBody []byte) (string, domain.Money, error) {
	var payload confirmationPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return "", domain.Money{}, domain.NewValidationError("body", "is not valid json")
	}

	if strings.TrimSpace(payload.ID) == "" {
		return "", domain.Money{}, domain.NewValidationError("id", "is required")
	}

	unit, ok := lo.First(payload.PurchaseUnits)
	if !ok || unit.Amount.Value == "" {
		return "", domain.Money{}, domain.NewValidationError("purchase_units[0].amount.value", "is required")
	}

	cur := r.currency
	if unit.Amount.CurrencyCode != "" {
		parsed, err := currency.ParseISO(unit.Amount.CurrencyCode)
		if err != nil || parsed != r.currency {
			return "", domain.Money{}, domain.NewValidationError("purchase_units[0].amount.currency_code", "must be "+r.currency.String())
		}
		cur = parsed
	}

	minor, err := domain.ParseMinorUnits(unit.Amount.Value, cur)
	if err != nil {
		return "", domain.Money{}, domain.NewValidationError("purchase_units[0].amount.value", err.Error())
	}

	return payload.ID, domain.NewMoney(minor, cur), nil
}

// HandleEvent applies a verified processor event. Only payment_intent.succeeded is understood,
// any other kind is rejected with domain.ErrUnhandledEvent and changes nothing.
func (r *Reconciler) HandleEvent(ctx context.Context, event domain.Event) error {
	if event.Type != domain.EventPaymentIntentSucceeded {
		return fmt.Errorf("%w: %s", domain.ErrUnhandledEvent, event.Type)
	}

	if event.IntentID == "" {
		return fmt.Errorf("event %s: %w", event.ID, domain.ErrMalformedPayload)
	}

	var placed *domain.OrderPlaced

	err := r.store.InTx(ctx, func(repos port.Repositories) error {
		record, err := repos.Payments.GetIntentByIntentID(ctx, event.IntentID)
		if err != nil {
			return fmt.Errorf("payments.GetIntentByIntentID: %w", err)
		}

		order, err := repos.Orders.LockOrder(ctx, record.OrderID)
		if err != nil {
			return fmt.Errorf("orders.LockOrder: %w", err)
		}

		record, err = repos.Payments.LockIntentByIntentID(ctx, event.IntentID)
		if err != nil {
			return fmt.Errorf("payments.LockIntentByIntentID: %w", err)
		}

		if err := repos.Payments.MarkIntentSuccessful(ctx, record.IntentID); err != nil {
			return fmt.Errorf("payments.MarkIntentSuccessful: %w", err)
		}

		if order.Ordered {
			return nil
		}

		orderedDate := r.now().UTC()

		ok, err := repos.Orders.PlaceOrder(ctx, order.ID, orderedDate)
		if err != nil {
			return fmt.Errorf("orders.PlaceOrder: %w", err)
		}
		if !ok {
			return nil
		}

		if _, err := repos.Payments.InsertAttempt(ctx, domain.PaymentAttempt{
			OrderID:     order.ID,
			Processor:   domain.ProcessorStripe,
			ExternalRef: event.ID,
			Successful:  true,
			Amount:      record.Amount,
			RawResponse: event.Raw,
		}); err != nil {
			return fmt.Errorf("payments.InsertAttempt: %w", err)
		}

		placed = &domain.OrderPlaced{
			OrderID:     order.ID.String(),
			OwnerID:     order.OwnerID,
			Processor:   domain.ProcessorStripe,
			AmountMinor: record.Amount.MinorUnits,
			Currency:    record.Amount.Currency.String(),
			OrderedDate: orderedDate,
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.publish(ctx, placed)

	return nil
}

func (r *Reconciler) publish(ctx context.Context, event *domain.OrderPlaced) {
	if event == nil {
		return
	}

	log := logger.FromContext(ctx, r.logger).With(
		slog.String(logger.OrderID, event.OrderID),
		slog.String("processor", string(event.Processor)))

	log.Info("order placed")

	if r.publisher == nil {
		return
	}

	if err := r.publisher.PublishOrderPlaced(ctx, *event); err != nil {
		log.Error("publish order placed", slog.String(logger.Error, err.Error()))
	}
}
