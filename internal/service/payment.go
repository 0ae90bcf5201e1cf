package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

const codeAuthenticationRequired = "authentication_required"

// PaymentService bridges an open order to the card processor. Placement itself only happens
// through the Reconciler.
type PaymentService struct {
	orders    port.OrderRepository
	payments  port.PaymentRepository
	processor port.PaymentProcessor
	currency  currency.Unit
	logger    *slog.Logger
}

func NewPayment(orders port.OrderRepository, payments port.PaymentRepository, processor port.PaymentProcessor,
	cur currency.Unit, l *slog.Logger) *PaymentService {
	return &PaymentService{
		orders:    orders,
		payments:  payments,
		processor: processor,
		currency:  cur,
		logger:    l,
	}
}

// BeginIntent creates or refreshes the processor intent for the owner's open order. An intent that can
// still change is reused with the current total, otherwise a new one replaces it.
func (s *PaymentService) BeginIntent(ctx context.Context, ownerID string) (domain.Intent, error) {
	order, amount, err := s.chargeableOrder(ctx, ownerID)
	if err != nil {
		return domain.Intent{}, err
	}

	customer, err := s.ensureCustomer(ctx, ownerID)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("s.ensureCustomer: %w", err)
	}

	previousID := "none"

	record, err := s.payments.GetIntentByOrder(ctx, order.ID)
	switch {
	case err == nil:
		intent, reused, err := s.reuseIntent(ctx, record, amount)
		if err != nil {
			return domain.Intent{}, err
		}
		if reused {
			return intent, nil
		}
		previousID = record.IntentID
	case errors.Is(err, domain.ErrPaymentIntentNotFound):
	default:
		return domain.Intent{}, fmt.Errorf("payments.GetIntentByOrder: %w", err)
	}

	intent, err := s.processor.CreateIntent(ctx, domain.IntentRequest{
		Amount:         amount,
		CustomerID:     customer.ProcessorCustomerID,
		OrderID:        order.ID,
		IdempotencyKey: fmt.Sprintf("intent-%s-%d-%s", order.ID, amount.MinorUnits, previousID),
	})
	if err != nil {
		return domain.Intent{}, paymentError(err)
	}

	if err := s.recordIntent(ctx, order, intent); err != nil {
		return domain.Intent{}, err
	}

	return intent, nil
}

func (s *PaymentService) reuseIntent(ctx context.Context, record domain.PaymentIntentRecord, amount domain.Money) (domain.Intent, bool, error) {
	intent, err := s.processor.RetrieveIntent(ctx, record.IntentID)
	if err != nil {
		return domain.Intent{}, false, paymentError(err)
	}

	switch {
	case record.Successful, intent.Status == domain.IntentStatusSucceeded,
		intent.Status == domain.IntentStatusProcessing, intent.Status == domain.IntentStatusRequiresCapture:
		return domain.Intent{}, false, &domain.PaymentError{
			Code:    "payment_in_progress",
			Message: fmt.Sprintf("intent %s is %s", intent.ID, intent.Status),
		}
	case !intent.Status.Reusable():
		return domain.Intent{}, false, nil
	}

	if intent.Amount != amount {
		intent, err = s.processor.UpdateIntentAmount(ctx, record.IntentID, amount)
		if err != nil {
			return domain.Intent{}, false, paymentError(err)
		}
	}

	if _, err := s.payments.UpsertIntent(ctx, domain.PaymentIntentRecord{
		OrderID:  record.OrderID,
		IntentID: intent.ID,
		Amount:   amount,
	}); err != nil {
		return domain.Intent{}, false, fmt.Errorf("payments.UpsertIntent: %w", err)
	}

	return intent, true, nil
}

// ConfirmWithSavedMethod charges a saved payment method off-session. An intent the order already has is
// confirmed in place while it can still change and refused once it is being paid. When the processor asks
// for step-up authentication the intent is re-fetched and an AuthenticationRequiredError is returned.
func (s *PaymentService) ConfirmWithSavedMethod(ctx context.Context, ownerID, methodID string) (domain.Intent, error) {
	if methodID == "" {
		return domain.Intent{}, domain.NewValidationError("method_id", "is empty")
	}

	order, amount, err := s.chargeableOrder(ctx, ownerID)
	if err != nil {
		return domain.Intent{}, err
	}

	customer, err := s.ensureCustomer(ctx, ownerID)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("s.ensureCustomer: %w", err)
	}

	existing, err := s.liveIntent(ctx, order.ID, amount)
	if err != nil {
		return domain.Intent{}, err
	}

	var intent domain.Intent
	if existing != nil {
		intent, err = s.processor.ConfirmIntent(ctx, existing.ID, methodID,
			fmt.Sprintf("confirm-%s-%s-%s-%d", order.ID, existing.ID, methodID, amount.MinorUnits))
	} else {
		intent, err = s.processor.CreateIntent(ctx, domain.IntentRequest{
			Amount:          amount,
			CustomerID:      customer.ProcessorCustomerID,
			OrderID:         order.ID,
			PaymentMethodID: methodID,
			OffSession:      true,
			IdempotencyKey:  fmt.Sprintf("confirm-%s-%s-%d", order.ID, methodID, amount.MinorUnits),
		})
	}
	if err == nil {
		if err := s.recordIntent(ctx, order, intent); err != nil {
			return domain.Intent{}, err
		}
		return intent, nil
	}

	var pe *domain.ProcessorError
	if !errors.As(err, &pe) || pe.Code != codeAuthenticationRequired {
		return domain.Intent{}, paymentError(err)
	}

	log := logger.FromContext(ctx, s.logger)
	log.Warn("off-session payment requires authentication",
		slog.String(logger.OrderID, order.ID.String()),
		slog.String("intent_id", pe.IntentID))

	authErr := &domain.AuthenticationRequiredError{
		PaymentError: domain.PaymentError{Code: pe.Code, Message: pe.Message},
		IntentID:     pe.IntentID,
	}

	if pe.IntentID == "" {
		return domain.Intent{}, authErr
	}

	intent, err = s.processor.RetrieveIntent(ctx, pe.IntentID)
	if err != nil {
		return domain.Intent{}, paymentError(err)
	}

	authErr.IntentStatus = intent.Status
	authErr.ClientSecret = intent.ClientSecret

	// the webhook for a later successful authentication has to find this intent
	if err := s.recordIntent(ctx, order, intent); err != nil {
		return domain.Intent{}, err
	}

	return domain.Intent{}, authErr
}

// liveIntent returns the order's intent when it can still be confirmed, nil when there is none or it
// ended without payment.
func (s *PaymentService) liveIntent(ctx context.Context, orderID uuid.UUID, amount domain.Money) (*domain.Intent, error) {
	record, err := s.payments.GetIntentByOrder(ctx, orderID)
	if errors.Is(err, domain.ErrPaymentIntentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("payments.GetIntentByOrder: %w", err)
	}

	intent, reused, err := s.reuseIntent(ctx, record, amount)
	if err != nil {
		return nil, err
	}
	if !reused {
		return nil, nil
	}

	return &intent, nil
}

// ListSavedMethods is a passthrough to the processor. An owner without a processor customer has no methods.
func (s *PaymentService) ListSavedMethods(ctx context.Context, ownerID string) ([]domain.SavedPaymentMethod, error) {
	customer, err := s.payments.GetCustomer(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("payments.GetCustomer: %w", err)
	}

	methods, err := s.processor.ListPaymentMethods(ctx, customer.ProcessorCustomerID)
	if err != nil {
		return nil, paymentError(err)
	}

	return methods, nil
}

// ensureCustomer returns the owner's processor customer, creating it first if needed. Creation is
// idempotent on the processor side and the stored mapping keeps the first writer.
func (s *PaymentService) ensureCustomer(ctx context.Context, ownerID string) (domain.Customer, error) {
	customer, err := s.payments.GetCustomer(ctx, ownerID)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		return domain.Customer{}, fmt.Errorf("payments.GetCustomer: %w", err)
	}

	customerID, err := s.processor.CreateCustomer(ctx, ownerID, "")
	if err != nil {
		return domain.Customer{}, paymentError(err)
	}

	customer, err = s.payments.InsertCustomer(ctx, domain.Customer{
		OwnerID:             ownerID,
		ProcessorCustomerID: customerID,
	})
	if err != nil {
		return domain.Customer{}, fmt.Errorf("payments.InsertCustomer: %w", err)
	}

	return customer, nil
}

func (s *PaymentService) chargeableOrder(ctx context.Context, ownerID string) (domain.Order, domain.Money, error) {
	if ownerID == "" {
		return domain.Order{}, domain.Money{}, domain.NewValidationError("owner", "is empty")
	}

	order, err := s.orders.GetOrCreateOpenOrder(ctx, ownerID)
	if err != nil {
		return domain.Order{}, domain.Money{}, fmt.Errorf("orders.GetOrCreateOpenOrder: %w", err)
	}

	if len(order.Items) == 0 {
		return domain.Order{}, domain.Money{}, domain.NewValidationError("cart", "is empty")
	}

	return order, domain.NewMoney(order.RawTotal(), s.currency), nil
}

func (s *PaymentService) recordIntent(ctx context.Context, order domain.Order, intent domain.Intent) error {
	if _, err := s.payments.UpsertIntent(ctx, domain.PaymentIntentRecord{
		OrderID:  order.ID,
		IntentID: intent.ID,
		Amount:   intent.Amount,
	}); err != nil {
		return fmt.Errorf("payments.UpsertIntent: %w", err)
	}

	return nil
}

// paymentError turns a processor rejection into a PaymentError keeping the processor's code.
// Transport and other failures pass through unchanged.
func paymentError(err error) error {
	var pe *domain.ProcessorError
	if errors.As(err, &pe) {
		return &domain.PaymentError{Code: pe.Code, Message: pe.Message}
	}
	return err
}
