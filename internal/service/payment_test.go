package service_test

import (
	"fmt"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *serviceSuite) TestBeginIntent_EmptyCart() {
	t := suite.T()

	_, err := suite.payment.BeginIntent(t.Context(), newOwner())
	require.EqualError(t, err, "validation: cart: is empty")
	assert.Empty(t, suite.processor.requests)
}

func (suite *serviceSuite) TestBeginIntent_CreatesAndReuses() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	first, err := suite.payment.BeginIntent(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2500, first.Amount.MinorUnits)
	assert.NotEmpty(t, first.ClientSecret)

	req := suite.processor.lastRequest()
	assert.Equal(t, order.ID, req.OrderID)
	assert.Equal(t, "cus_"+owner, req.CustomerID)
	assert.Equal(t, fmt.Sprintf("intent-%s-2500-none", order.ID), req.IdempotencyKey)

	customer, err := suite.payments.GetCustomer(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "cus_"+owner, customer.ProcessorCustomerID)

	// unchanged cart: same intent, no processor writes
	again, err := suite.payment.BeginIntent(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, suite.processor.requests, 1)
	assert.Zero(t, suite.processor.updates)

	// changed cart: same intent with the new amount
	_, err = suite.cart.Increase(ctx, owner, order.Items[0].ID)
	require.NoError(t, err)

	updated, err := suite.payment.BeginIntent(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, 1, suite.processor.updates)

	record, err := suite.payments.GetIntentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, record.IntentID)
	assert.Equal(t, updated.Amount.MinorUnits, record.Amount.MinorUnits)
}

func (suite *serviceSuite) TestBeginIntent_ReplacesCanceled() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	first, err := suite.payment.BeginIntent(ctx, owner)
	require.NoError(t, err)

	suite.processor.setStatus(first.ID, domain.IntentStatusCanceled)

	second, err := suite.payment.BeginIntent(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, fmt.Sprintf("intent-%s-2500-%s", order.ID, first.ID), suite.processor.lastRequest().IdempotencyKey)

	record, err := suite.payments.GetIntentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, record.IntentID)
}

func (suite *serviceSuite) TestBeginIntent_InProgress() {
	for _, status := range []domain.IntentStatus{
		domain.IntentStatusSucceeded,
		domain.IntentStatusProcessing,
		domain.IntentStatusRequiresCapture,
	} {
		suite.Run(string(status), func() {
			t := suite.T()
			ctx := t.Context()

			owner := newOwner()
			suite.fillCart(owner)

			first, err := suite.payment.BeginIntent(ctx, owner)
			require.NoError(t, err)

			suite.processor.setStatus(first.ID, status)

			_, err = suite.payment.BeginIntent(ctx, owner)

			var pe *domain.PaymentError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "payment_in_progress", pe.Code)
		})
	}
}

func (suite *serviceSuite) TestConfirmWithSavedMethod() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	intent, err := suite.payment.ConfirmWithSavedMethod(ctx, owner, "pm_card")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusSucceeded, intent.Status)

	req := suite.processor.lastRequest()
	assert.True(t, req.OffSession)
	assert.Equal(t, "pm_card", req.PaymentMethodID)
	assert.True(t, strings.HasPrefix(req.IdempotencyKey, "confirm-"+order.ID.String()))

	record, err := suite.payments.GetIntentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, intent.ID, record.IntentID)

	_, err = suite.payment.ConfirmWithSavedMethod(ctx, owner, "")
	require.EqualError(t, err, "validation: method_id: is empty")
}

func (suite *serviceSuite) TestConfirmWithSavedMethod_ConfirmsExistingIntent() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	begun, err := suite.payment.BeginIntent(ctx, owner)
	require.NoError(t, err)

	intent, err := suite.payment.ConfirmWithSavedMethod(ctx, owner, "pm_card")
	require.NoError(t, err)
	assert.Equal(t, begun.ID, intent.ID)
	assert.Equal(t, domain.IntentStatusSucceeded, intent.Status)

	assert.Len(t, suite.processor.requests, 1, "no second intent is created")
	assert.Equal(t, []string{begun.ID}, suite.processor.confirms)

	record, err := suite.payments.GetIntentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, begun.ID, record.IntentID)
}

// An intent already paid on the client keeps its record, so its webhook still places the order.
func (suite *serviceSuite) TestConfirmWithSavedMethod_IntentAlreadyPaid() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	begun, err := suite.payment.BeginIntent(ctx, owner)
	require.NoError(t, err)

	suite.processor.setStatus(begun.ID, domain.IntentStatusSucceeded)

	_, err = suite.payment.ConfirmWithSavedMethod(ctx, owner, "pm_card")

	var pe *domain.PaymentError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "payment_in_progress", pe.Code)
	assert.Len(t, suite.processor.requests, 1)
	assert.Empty(t, suite.processor.confirms)

	record, err := suite.payments.GetIntentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, begun.ID, record.IntentID)

	require.NoError(t, suite.reconciler.HandleEvent(ctx, succeededEvent("evt_paid", begun.ID)))

	placed, err := suite.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatePlaced, placed.State())
}

func (suite *serviceSuite) TestConfirmWithSavedMethod_AuthenticationRequired() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	suite.processor.CreateIntentFunc = func(req domain.IntentRequest) (domain.Intent, error) {
		suite.processor.intents["pi_3ds"] = domain.Intent{
			ID:           "pi_3ds",
			ClientSecret: "pi_3ds_secret",
			Amount:       req.Amount,
			Status:       domain.IntentStatusRequiresPaymentMethod,
		}
		return domain.Intent{}, &domain.ProcessorError{
			Code:     "authentication_required",
			Type:     "card_error",
			Message:  "This payment requires authentication.",
			IntentID: "pi_3ds",
		}
	}

	_, err := suite.payment.ConfirmWithSavedMethod(ctx, owner, "pm_card")

	var authErr *domain.AuthenticationRequiredError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	assert.True(t, authErr.Retriable())
	assert.Equal(t, "pi_3ds", authErr.IntentID)
	assert.Equal(t, domain.IntentStatusRequiresPaymentMethod, authErr.IntentStatus)
	assert.Equal(t, "pi_3ds_secret", authErr.ClientSecret)

	// the webhook for the later authentication must resolve this intent
	record, err := suite.payments.GetIntentByIntentID(ctx, "pi_3ds")
	require.NoError(t, err)
	assert.Equal(t, order.ID, record.OrderID)
}

func (suite *serviceSuite) TestConfirmWithSavedMethod_Declined() {
	t := suite.T()

	owner := newOwner()
	suite.fillCart(owner)

	suite.processor.CreateIntentFunc = func(domain.IntentRequest) (domain.Intent, error) {
		return domain.Intent{}, &domain.ProcessorError{Code: "card_declined", Type: "card_error", Message: "Your card was declined."}
	}

	_, err := suite.payment.ConfirmWithSavedMethod(t.Context(), owner, "pm_card")

	var pe *domain.PaymentError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "card_declined", pe.Code)
	assert.NotErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func (suite *serviceSuite) TestListSavedMethods() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()

	methods, err := suite.payment.ListSavedMethods(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, methods)

	suite.fillCart(owner)
	_, err = suite.payment.BeginIntent(ctx, owner)
	require.NoError(t, err)

	methods, err = suite.payment.ListSavedMethods(ctx, owner)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "4242", methods[0].Last4)
}
