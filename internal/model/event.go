package model

import "time"

// Event is a ticketed happening.  Price is in minor currency units.  Date
// holds only the calendar day; StartTime and EndTime are wall-clock
// "HH:MM:SS" strings as stored in the TIME columns.  Description is
// sanitized rich text.
type Event struct {
    ID          uint64    `json:"id"`
    Title       string    `json:"title"`
    Date        time.Time `json:"date"`
    StartTime   string    `json:"start_time"`
    EndTime     string    `json:"end_time"`
    Location    string    `json:"location"`
    Price       int64     `json:"price"`
    ImageURL    string    `json:"image_url"`
    Description string    `json:"description"`
    CreatedAt   time.Time `json:"created_at"`
}

// EventWithAdmins is the superadmin listing row: an event plus the
// usernames of every admin assigned to it.
type EventWithAdmins struct {
    Event
    AdminUsernames []string `json:"admin_usernames"`
}
