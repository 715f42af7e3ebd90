// Package payment adapts the external payment provider.  The rest of the
// service depends only on Gateway and WebhookParser, so tests can swap in
// a fake provider.
package payment

import (
	"context"
	"errors"
)

// IntentRequest describes a charge for one event.  Amount and
// ApplicationFee are in minor currency units; Destination is the
// connected account that receives the funds minus the fee.
type IntentRequest struct {
	Amount         int64
	Currency       string
	ApplicationFee int64
	Destination    string
	EventID        uint64
	UserID         uint64 // 0 for anonymous checkouts
}

// Intent is the provider-side handle the client confirms the card
// payment against.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway creates payment intents.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
}

// Webhook event types the service reacts to.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// WebhookEvent is the verified, provider-neutral view of a webhook call.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string // empty for events that are not about a payment intent
}

// ErrInvalidSignature is returned when a webhook payload does not verify.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookParser verifies and decodes webhook payloads.
type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (WebhookEvent, error)
}
