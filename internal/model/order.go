package model

import "time"

// Order is a completed purchase.  OrderNumber is either the payment
// provider's intent id or a random token for admin-entered orders.
// EventID becomes nil when the event is deleted; UserID is nil for rows
// whose buyer account was removed.  Total is in minor currency units.
type Order struct {
    ID          uint64    `json:"id"`
    OrderNumber string    `json:"order_number"`
    EventID     *uint64   `json:"event_id"`
    Total       int64     `json:"total"`
    FirstName   string    `json:"first_name"`
    LastName    string    `json:"last_name"`
    Email       string    `json:"email"`
    PhoneNumber string    `json:"phone_number"`
    TShirtSize  string    `json:"t_shirt_size"`
    CreatedAt   time.Time `json:"created_at"`
    UserID      *uint64   `json:"user_id"`

    // EventTitle is filled by listing queries that join events.
    EventTitle *string `json:"event_title,omitempty"`
}

// BuyerName joins first and last name for display.
func (o Order) BuyerName() string {
    if o.LastName == "" {
        return o.FirstName
    }
    return o.FirstName + " " + o.LastName
}

// ReceiptOrder is an order together with the event fields printed on its
// receipt.  Event fields are empty when the event has been deleted.
type ReceiptOrder struct {
    Order
    EventDate      time.Time
    EventLocation  string
    EventStartTime string
    EventEndTime   string
}
