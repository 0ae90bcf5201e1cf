package service_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func paypalBody(id, value string) []byte {
	return []byte(fmt.Sprintf(`{"id":%q,"status":"COMPLETED","purchase_units":[{"amount":{"value":%q,"currency_code":"USD"}}]}`, id, value))
}

func succeededEvent(eventID, intentID string) domain.Event {
	return domain.Event{
		ID:       eventID,
		Type:     domain.EventPaymentIntentSucceeded,
		IntentID: intentID,
		Raw:      []byte(fmt.Sprintf(`{"id":%q,"type":"payment_intent.succeeded","data":{"object":{"id":%q}}}`, eventID, intentID)),
	}
}

// readyForStripe fills a cart and starts its intent, returning the open order and the intent id.
func (suite *serviceSuite) readyForStripe(owner string) (domain.Order, string) {
	order := suite.fillCart(owner)

	intent, err := suite.payment.BeginIntent(suite.T().Context(), owner)
	suite.Require().NoError(err)

	return order, intent.ID
}

func (suite *serviceSuite) TestHandleEvent() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order, intentID := suite.readyForStripe(owner)

	before := time.Now()
	require.NoError(t, suite.reconciler.HandleEvent(ctx, succeededEvent("evt_1", intentID)))

	placed, err := suite.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatePlaced, placed.State())
	require.NotNil(t, placed.OrderedDate)
	assert.WithinDuration(t, before, *placed.OrderedDate, time.Minute)

	record, err := suite.payments.GetIntentByIntentID(ctx, intentID)
	require.NoError(t, err)
	assert.True(t, record.Successful)

	attempts, err := suite.payments.ListAttempts(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, domain.ProcessorStripe, attempts[0].Processor)
	assert.Equal(t, "evt_1", attempts[0].ExternalRef)
	assert.True(t, attempts[0].Successful)
	assert.EqualValues(t, 2500, attempts[0].Amount.MinorUnits)

	events := suite.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, order.ID.String(), events[0].OrderID)
	assert.Equal(t, domain.ProcessorStripe, events[0].Processor)
	assert.EqualValues(t, 2500, events[0].AmountMinor)

	// the owner starts over with a fresh cart
	next, err := suite.cart.ResolveOpenOrder(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, next.ID)
}

func (suite *serviceSuite) TestHandleEvent_Redelivery() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order, intentID := suite.readyForStripe(owner)

	require.NoError(t, suite.reconciler.HandleEvent(ctx, succeededEvent("evt_1", intentID)))

	first, err := suite.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	// the same event twice, then a distinct event for the same intent
	require.NoError(t, suite.reconciler.HandleEvent(ctx, succeededEvent("evt_1", intentID)))
	require.NoError(t, suite.reconciler.HandleEvent(ctx, succeededEvent("evt_2", intentID)))

	again, err := suite.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, first.OrderedDate.Equal(*again.OrderedDate))

	attempts, err := suite.payments.ListAttempts(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
	assert.Len(t, suite.publisher.published(), 1)
}

func (suite *serviceSuite) TestHandleEvent_Rejected() {
	owner := newOwner()
	order, intentID := suite.readyForStripe(owner)

	tests := []struct {
		name      string
		event     domain.Event
		wantError error
	}{
		{
			name:      "unrecognized kind: rejected",
			event:     domain.Event{ID: "evt_r", Type: "charge.refunded", IntentID: intentID},
			wantError: domain.ErrUnhandledEvent,
		},
		{
			name:      "no intent id: malformed",
			event:     domain.Event{ID: "evt_m", Type: domain.EventPaymentIntentSucceeded},
			wantError: domain.ErrMalformedPayload,
		},
		{
			name:      "unknown intent: not found",
			event:     succeededEvent("evt_u", "pi_unknown"),
			wantError: domain.ErrPaymentIntentNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			err := suite.reconciler.HandleEvent(ctx, tt.event)
			require.ErrorIs(t, err, tt.wantError)

			actual, err := suite.orders.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.OrderStateOpen, actual.State())
		})
	}

	assert.Empty(suite.T(), suite.publisher.published())
}

func (suite *serviceSuite) TestConfirmSynchronous() {
	t := suite.T()
	ctx := t.Context()

	owner := newOwner()
	order := suite.fillCart(owner)

	body := paypalBody("PAY-1", "25.00")
	require.NoError(t, suite.reconciler.ConfirmSynchronous(ctx, owner, body))

	placed, err := suite.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatePlaced, placed.State())
	require.NotNil(t, placed.OrderedDate)
	assert.True(t, placed.OrderedDate.Equal(placed.OrderedDate.UTC().Truncate(24*time.Hour)), "ordered date is a calendar date")

	attempts, err := suite.payments.ListAttempts(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, domain.ProcessorPayPal, attempts[0].Processor)
	assert.Equal(t, "PAY-1", attempts[0].ExternalRef)
	assert.Equal(t, body, attempts[0].RawResponse)

	// replaying the callback is a successful no-op
	require.NoError(t, suite.reconciler.ConfirmSynchronous(ctx, owner, body))

	attempts, err = suite.payments.ListAttempts(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
	assert.Len(t, suite.publisher.published(), 1)
}

func (suite *serviceSuite) TestConfirmSynchronous_Rejected() {
	tests := []struct {
		name      string
		body      []byte
		captured  domain.Money
		noCart    bool
		wantError error
	}{
		{
			name:      "amount differs from the order total: fail",
			body:      paypalBody("PAY-2", "20.00"),
			captured:  domain.NewMoney(2000, currency.USD),
			wantError: domain.ErrVerification,
		},
		{
			name:      "processor captured less than claimed: fail",
			body:      paypalBody("PAY-3", "25.00"),
			captured:  domain.NewMoney(100, currency.USD),
			wantError: domain.ErrVerification,
		},
		{
			name:      "not json: fail",
			body:      []byte(`{`),
			wantError: domain.ErrValidation,
		},
		{
			name:      "no purchase units: fail",
			body:      []byte(`{"id":"PAY-4","purchase_units":[]}`),
			wantError: domain.ErrValidation,
		},
		{
			name:      "too many fraction digits: fail",
			body:      paypalBody("PAY-5", "25.001"),
			wantError: domain.ErrValidation,
		},
		{
			name:      "no open order: not found",
			body:      paypalBody("PAY-6", "25.00"),
			captured:  domain.NewMoney(2500, currency.USD),
			noCart:    true,
			wantError: domain.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			owner := newOwner()

			var orderID uuid.UUID
			if !tt.noCart {
				orderID = suite.fillCart(owner).ID
			}

			suite.purchases.VerifyFunc = func(string) (domain.Money, error) { return tt.captured, nil }

			err := suite.reconciler.ConfirmSynchronous(ctx, owner, tt.body)
			require.ErrorIs(t, err, tt.wantError)

			if !tt.noCart {
				actual, err := suite.orders.GetOrder(ctx, orderID)
				require.NoError(t, err)
				assert.Equal(t, domain.OrderStateOpen, actual.State())
			}
		})
	}
}

func (suite *serviceSuite) TestConfirmSynchronous_VerifierUnavailable() {
	t := suite.T()

	owner := newOwner()
	suite.fillCart(owner)

	unavailable := errors.New("paypal unavailable")
	suite.purchases.VerifyFunc = func(string) (domain.Money, error) { return domain.Money{}, unavailable }

	err := suite.reconciler.ConfirmSynchronous(t.Context(), owner, paypalBody("PAY-7", "25.00"))
	require.ErrorIs(t, err, unavailable)
}

func (suite *serviceSuite) TestConfirmSynchronous_WithoutVerifier() {
	t := suite.T()
	ctx := t.Context()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	reconciler := service.NewReconciler(repository.NewStore(suite.pool), nil, suite.publisher, currency.USD, l)

	owner := newOwner()
	order := suite.fillCart(owner)

	err := reconciler.ConfirmSynchronous(ctx, owner, []byte(`{"id":"made-up","purchase_units":[{"amount":{"value":"25.00"}}]}`))

	var pe *domain.PaymentError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "verification_unavailable", pe.Code)

	actual, err := suite.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStateOpen, actual.State())

	attempts, err := suite.payments.ListAttempts(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)
	assert.Empty(t, suite.publisher.published())
}

// A synchronous confirmation and a webhook racing for the same order flip it once and record one attempt.
func (suite *serviceSuite) TestSynchronousAndWebhookRace() {
	for i := range 5 {
		suite.Run(fmt.Sprintf("round %d", i), func() {
			t := suite.T()
			ctx := t.Context()

			owner := newOwner()
			order, intentID := suite.readyForStripe(owner)

			var (
				wg                sync.WaitGroup
				syncErr, eventErr error
			)

			wg.Add(2)
			go func() {
				defer wg.Done()
				syncErr = suite.reconciler.ConfirmSynchronous(ctx, owner, paypalBody(fmt.Sprintf("PAY-R%d", i), "25.00"))
			}()
			go func() {
				defer wg.Done()
				eventErr = suite.reconciler.HandleEvent(ctx, succeededEvent(fmt.Sprintf("evt_r%d", i), intentID))
			}()
			wg.Wait()

			require.NoError(t, syncErr)
			require.NoError(t, eventErr)

			placed, err := suite.orders.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.OrderStatePlaced, placed.State())

			attempts, err := suite.payments.ListAttempts(ctx, order.ID)
			require.NoError(t, err)
			assert.Len(t, attempts, 1)
		})
	}

	assert.Len(suite.T(), suite.publisher.published(), 5)
}
