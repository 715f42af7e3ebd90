package middleware

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog/log"
)

const adminEventsKey = "admin_event_ids"

// AdminEventLookup resolves the events an admin may manage.
type AdminEventLookup interface {
    EventIDs(ctx context.Context, adminID uint64) ([]uint64, error)
}

// RequireAdminEvents loads the calling admin's event ids and stores them
// in the context for AdminEventIDs.  An admin with no assigned events is
// not provisioned and receives 403.  It must run after JWTAuth and
// RequireRole(ADMIN).
func RequireAdminEvents(lookup AdminEventLookup) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            adminID, ok := UserID(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            ids, err := lookup.EventIDs(ctx, adminID)
            if err != nil {
                log.Error().Err(err).Uint64("admin_id", adminID).Msg("load admin events")
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
            }
            if len(ids) == 0 {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "admin not provisioned"})
            }
            c.Set(adminEventsKey, ids)
            return next(c)
        }
    }
}
