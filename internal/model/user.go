package model

import "time"

// Role names carried in the JWT "role" claim.  Each principal type lives in
// its own table, so the role also tells the guard which table the subject
// id refers to.
const (
    RoleUser       = "USER"
    RoleAdmin      = "ADMIN"
    RoleSuperadmin = "SUPERADMIN"
)

// User is an end customer, stored in the `users` table.  Username is
// always lower-case.
type User struct {
    ID           uint64    `json:"id"`
    Username     string    `json:"username"`
    PasswordHash string    `json:"-"`
    Email        string    `json:"email"`
    PhoneNumber  string    `json:"phone_number"`
    Address      string    `json:"address"`
    CreatedAt    time.Time `json:"created_at"`
}

// Admin is an event organiser whose reach is limited to the events listed
// for it in `admin_events`.
type Admin struct {
    ID           uint64    `json:"id"`
    Username     string    `json:"username"`
    PasswordHash string    `json:"-"`
    EventIDs     []uint64  `json:"event_ids"`
    CreatedAt    time.Time `json:"created_at"`
}

// Superadmin is an unscoped operator account.
type Superadmin struct {
    ID           uint64    `json:"id"`
    Username     string    `json:"username"`
    PasswordHash string    `json:"-"`
    CreatedAt    time.Time `json:"created_at"`
}

// Credential is the subset of any principal row needed to log in.
type Credential struct {
    ID           uint64
    Username     string
    PasswordHash string
}
