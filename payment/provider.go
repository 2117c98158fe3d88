package payment

import "context"

// Metadata keys attached to every payment intent so webhook events can be
// correlated back to the order that opened them.
const (
	MetadataOrderID       = "orderId"
	MetadataCustomerEmail = "customerEmail"
)

// EventType identifies the webhook event kinds settlement acts on. Every
// other type passes through verification and is acknowledged untouched.
type EventType string

const (
	EventPaymentSucceeded EventType = "payment_intent.succeeded"
	EventPaymentFailed    EventType = "payment_intent.payment_failed"
)

// Event is the processor-neutral view of a verified webhook delivery: the
// event kind plus the correlation metadata attached at intent creation.
// OrderID is empty when the intent carried no order metadata.
type Event struct {
	Type     EventType
	IntentID string
	OrderID  string
}

// Intent is the processor handle returned from intent creation. The client
// secret goes back to the buyer's client to confirm the payment out-of-band.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentRequest describes the charge to open. Amount is in the currency's
// minor unit.
type IntentRequest struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Provider is the payment-processor collaborator: intent creation plus
// webhook signature verification.
type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	VerifyWebhook(payload []byte, signature string) (Event, error)
}
