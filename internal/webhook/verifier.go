package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/stripe/stripe-go/v81/webhook"
)

// MaxBodyBytes caps inbound notification bodies.
const MaxBodyBytes = int64(65536)

var signatureErrors = []error{
	webhook.ErrNotSigned,
	webhook.ErrInvalidHeader,
	webhook.ErrNoValidSignature,
	webhook.ErrTooOld,
}

type verifier struct {
	secret    string
	tolerance time.Duration
}

// NewVerifier checks notifications signed with secret. A zero tolerance uses the processor default.
func NewVerifier(secret string, tolerance time.Duration) port.EventVerifier {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}

	return &verifier{
		secret:    secret,
		tolerance: tolerance,
	}
}

// Verify checks the signature over the exact payload bytes before decoding anything.
// Signature failures wrap domain.ErrSignatureMismatch, undecodable payloads wrap
// domain.ErrMalformedPayload.
func (v *verifier) Verify(payload []byte, signatureHeader string) (domain.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		for _, sigErr := range signatureErrors {
			if errors.Is(err, sigErr) {
				return domain.Event{}, fmt.Errorf("%w: %v", domain.ErrSignatureMismatch, err)
			}
		}
		return domain.Event{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if event.ID == "" || event.Type == "" {
		return domain.Event{}, fmt.Errorf("%w: event id or type is missing", domain.ErrMalformedPayload)
	}

	result := domain.Event{
		ID:   event.ID,
		Type: domain.EventType(event.Type),
		Raw:  payload,
	}

	if strings.HasPrefix(string(event.Type), "payment_intent.") {
		if event.Data == nil {
			return domain.Event{}, fmt.Errorf("%w: event %s has no data", domain.ErrMalformedPayload, event.ID)
		}

		var object struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &object); err != nil || object.ID == "" {
			return domain.Event{}, fmt.Errorf("%w: event %s has no payment intent id", domain.ErrMalformedPayload, event.ID)
		}

		result.IntentID = object.ID
	}

	return result, nil
}
