package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// RegisterUser registers end-user endpoints.  All routes require a valid
// JWT and the USER role.
func RegisterUser(e *echo.Echo, d Deps) {
	user := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleUser),
	}
	e.GET("/api/user/profile", d.Profile.Get, user...)
	e.POST("/api/orders", d.Orders.Create, user...)
}
