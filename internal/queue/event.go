// Package queue defines message payloads exchanged over the message broker
// and the publishers and consumers that move them.  Jobs carry everything a
// consumer needs to send a notification without querying the primary
// database.
package queue

import (
    "context"
    "encoding/json"
    "fmt"
)

// Job kinds.
const (
    KindOrderConfirmed = "order.confirmed"
    KindUserRegistered = "user.registered"
)

// Job is the envelope published for every background notification.
// Exactly one payload field is set, matching Kind.
type Job struct {
    Kind  string             `json:"kind"`
    Order *OrderConfirmedJob `json:"order,omitempty"`
    User  *UserRegisteredJob `json:"user,omitempty"`
}

// OrderConfirmedJob is published after an order is stored.  The consumer
// emails the buyer a confirmation with a PDF receipt attached.
type OrderConfirmedJob struct {
    OrderID        uint64 `json:"order_id"`
    OrderNumber    string `json:"order_number"`
    EventTitle     string `json:"event_title"`
    EventDate      string `json:"event_date"` // YYYY-MM-DD
    EventLocation  string `json:"event_location"`
    EventStartTime string `json:"event_start_time"`
    EventEndTime   string `json:"event_end_time"`
    FirstName      string `json:"first_name"`
    LastName       string `json:"last_name"`
    Email          string `json:"email"`
    PhoneNumber    string `json:"phone_number"`
    TShirtSize     string `json:"t_shirt_size"`
    Total          int64  `json:"total"`
    PurchasedAt    string `json:"purchased_at"` // RFC 3339, UTC
}

// UserRegisteredJob is published after a successful registration.
type UserRegisteredJob struct {
    UserID   uint64 `json:"user_id"`
    Username string `json:"username"`
    Email    string `json:"email"`
}

// NewOrderConfirmed wraps an order payload.
func NewOrderConfirmed(o OrderConfirmedJob) Job { return Job{Kind: KindOrderConfirmed, Order: &o} }

// NewUserRegistered wraps a registration payload.
func NewUserRegistered(u UserRegisteredJob) Job { return Job{Kind: KindUserRegistered, User: &u} }

// Handler processes one decoded job.  A returned error rejects the
// message without requeueing it.
type Handler func(ctx context.Context, job Job) error

// Publisher sends jobs to the broker.
type Publisher interface {
    Publish(ctx context.Context, job Job) error
}

// NopPublisher drops every job.  It is used when JOB_BROKER=none.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Job) error { return nil }

// decodeJob validates the envelope so handlers can rely on the payload
// matching the kind.
func decodeJob(body []byte) (Job, error) {
    var job Job
    if err := json.Unmarshal(body, &job); err != nil {
        return job, fmt.Errorf("unmarshal: %w", err)
    }
    switch {
    case job.Kind == KindOrderConfirmed && job.Order != nil:
    case job.Kind == KindUserRegistered && job.User != nil:
    default:
        return job, fmt.Errorf("unknown or incomplete job kind %q", job.Kind)
    }
    return job, nil
}
