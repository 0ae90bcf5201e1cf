package domain

import "time"

// EventType is the kind of a verified processor notification.
type EventType string

const EventPaymentIntentSucceeded EventType = "payment_intent.succeeded"

// Event is a processor notification whose signature has been verified.
type Event struct {
	ID       string
	Type     EventType
	IntentID string
	Raw      []byte
}

// OrderPlaced is published after an order transitions to placed.
type OrderPlaced struct {
	OrderID     string        `json:"order_id"`
	OwnerID     string        `json:"owner_id"`
	Processor   ProcessorKind `json:"processor"`
	AmountMinor int64         `json:"amount_minor"`
	Currency    string        `json:"currency"`
	OrderedDate time.Time     `json:"ordered_date"`
}
