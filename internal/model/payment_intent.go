package model

import "time"

// Payment intent lifecycle as tracked locally.  created → succeeded →
// fulfilled is the happy path; succeeded without fulfilled after the grace
// period means the buyer was charged but no order was stored.
const (
    IntentCreated   = "created"
    IntentSucceeded = "succeeded"
    IntentFailed    = "failed"
    IntentFulfilled = "fulfilled"
)

// PaymentIntent is the server-side record of a checkout attempt, written
// when the provider intent is created and advanced by the webhook and the
// order writer.
type PaymentIntent struct {
    ID                 uint64    `json:"id"`
    IntentID           string    `json:"intent_id"`
    EventID            *uint64   `json:"event_id"`
    UserID             *uint64   `json:"user_id"`
    Amount             int64     `json:"amount"`
    ApplicationFee     int64     `json:"application_fee"`
    DestinationAccount string    `json:"destination_account"`
    Status             string    `json:"status"`
    OrderID            *uint64   `json:"order_id"`
    CreatedAt          time.Time `json:"created_at"`
    UpdatedAt          time.Time `json:"updated_at"`
}
