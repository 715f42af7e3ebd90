package middleware

// identity.go defines helper functions shared across middleware files and
// handlers for reading the principal that JWTAuth stored in the Echo
// context.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated principal id and whether one is set.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get("user_id").(uint64)
    return id, ok && id != 0
}

// Role returns the authenticated principal's role or "".
func Role(c echo.Context) string {
    r, _ := c.Get("role").(string)
    return r
}

// AdminEventIDs returns the event ids resolved by RequireAdminEvents.
func AdminEventIDs(c echo.Context) []uint64 {
    ids, _ := c.Get(adminEventsKey).([]uint64)
    return ids
}

// userID renders the principal for cache and rate limit keys.  It
// returns "guest" when no user is authenticated.
func userID(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return Role(c) + ":" + strconv.FormatUint(id, 10)
    }
    return "guest"
}
