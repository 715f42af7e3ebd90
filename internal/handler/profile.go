package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/middleware"
)

// ProfileHandler returns the signed-in user's account and order history.
type ProfileHandler struct {
	Users  UserDirectory
	Orders OrderStore
}

func NewProfileHandler(users UserDirectory, orders OrderStore) *ProfileHandler {
	return &ProfileHandler{Users: users, Orders: orders}
}

// Get responds with {"user": {...}, "orders": [...]}; 404 once the account
// has been deleted.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	orders, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u, "orders": orders})
}
