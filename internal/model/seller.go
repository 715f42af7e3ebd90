package model

// Seller maps an event to the connected Stripe account that receives the
// transfer for its tickets.
type Seller struct {
    ID              uint64  `json:"id"`
    EventID         *uint64 `json:"event_id"`
    StripeAccountID string  `json:"stripe_account_id"`
}
