package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// RegisterSuperadmin registers the unrestricted management endpoints
// under /api/superadmin.  The login route lives on the root router.
func RegisterSuperadmin(e *echo.Echo, d Deps) {
	auth := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleSuperadmin),
	}
	g := e.Group("/api/superadmin", auth...)

	// ---- Accounts ----
	g.GET("/users", d.Superadmin.ListUsers)
	g.DELETE("/users/:id", d.Superadmin.DeleteUser)
	g.GET("/admins", d.Superadmin.ListAdmins)
	g.POST("/create-admin", d.Superadmin.CreateAdmin)
	g.DELETE("/admins/:id", d.Superadmin.DeleteAdmin)

	// ---- Events ----
	g.GET("/events", d.Events.ListWithAdmins)
	g.POST("/events", d.Events.Create)
	g.DELETE("/events/:id", d.Events.Delete)

	// ---- Sellers ----
	g.GET("/sellers", d.Superadmin.ListSellers)
	g.POST("/sellers", d.Superadmin.CreateSeller)
	g.DELETE("/sellers/:id", d.Superadmin.DeleteSeller)
	// older clients post sellers outside the namespace
	e.POST("/api/sellers", d.Superadmin.CreateSeller, auth...)

	// ---- Orders ----
	g.GET("/orders", d.Orders.SuperadminList)
	g.DELETE("/orders/:id", d.Orders.SuperadminDelete)

	// ---- Payments ----
	g.GET("/reconciliation", d.Payments.Reconciliation)
}
