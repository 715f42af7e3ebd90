package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// RegisterAdmin registers the scoped admin endpoints.  Every route needs
// an ADMIN token and runs with the admin's event ids loaded, so handlers
// only ever see orders and events in that set.
//
// The /api/orders and /api/events paths are shared with user and public
// routes, so the chain is attached per route rather than to a group.
func RegisterAdmin(e *echo.Echo, d Deps) {
	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
		middleware.RequireAdminEvents(d.AdminEvents),
	}

	e.GET("/api/admin/events", d.Events.AdminEvents, admin...)
	e.POST("/api/admin/orders", d.Orders.AdminCreate, admin...)

	e.PUT("/api/events/:id", d.Events.UpdateDescription, admin...)

	e.GET("/api/orders", d.Orders.AdminList, admin...)
	e.DELETE("/api/orders", d.Orders.AdminClear, admin...)
	e.DELETE("/api/orders/:id", d.Orders.AdminDelete, admin...)
	e.GET("/api/orders/download", d.Orders.DownloadCSV, admin...)
	e.GET("/api/orders/:orderNumber/download", d.Orders.DownloadReceipt, admin...)
}
