package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/notify"
)

// Deps carries everything the routes need.  Handlers are built by the
// caller so tests can wire them to in-memory stores.
type Deps struct {
	JWTSecret   string
	CORSOrigins []string
	Logger      zerolog.Logger

	DB           handler.Pinger
	Cache        *middleware.ResponseCache // nil disables response caching
	LoginLimiter echo.MiddlewareFunc       // nil means unlimited
	AdminEvents  middleware.AdminEventLookup
	Hub          *notify.Hub

	Auth       *handler.AuthHandler
	Events     *handler.EventHandler
	Orders     *handler.OrderHandler
	Profile    *handler.ProfileHandler
	Payments   *handler.PaymentHandler
	Superadmin *handler.SuperadminHandler
}

// New builds the Echo instance with the shared middleware stack and every
// API route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, d)
	RegisterAuth(e, d)
	RegisterPublic(e, d)
	RegisterUser(e, d)
	RegisterAdmin(e, d)
	RegisterSuperadmin(e, d)
	return e
}

// RegisterRoutes registers the infrastructure endpoints: the health check
// and the live notification socket.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))
	if d.Hub != nil {
		e.GET("/ws", notify.Handler(d.Hub, d.CORSOrigins))
	}
}

// RegisterAuth registers registration and the three login endpoints,
// each behind the login rate limiter.
func RegisterAuth(e *echo.Echo, d Deps) {
	var limit []echo.MiddlewareFunc
	if d.LoginLimiter != nil {
		limit = append(limit, d.LoginLimiter)
	}
	e.POST("/api/user/register", d.Auth.Register, limit...)
	e.POST("/api/user/login", d.Auth.UserLogin, limit...)
	e.POST("/api/admin/login", d.Auth.AdminLogin, limit...)
	e.POST("/api/superadmin/login", d.Auth.SuperadminLogin, limit...)
}

// RegisterPublic registers unauthenticated endpoints.  Event reads go
// through the response cache when one is configured.
func RegisterPublic(e *echo.Echo, d Deps) {
	var cached []echo.MiddlewareFunc
	if d.Cache != nil {
		cached = append(cached, d.Cache.Middleware())
	}
	e.GET("/api/events", d.Events.List, cached...)
	e.GET("/api/events/:id", d.Events.Get, cached...)

	// Anonymous checkouts are allowed; a valid token links the intent to
	// the user.
	e.POST("/api/create-payment-intent", d.Payments.CreateIntent, middleware.OptionalJWTAuth(d.JWTSecret))
	// Authenticated by the provider's signature header, not a JWT.
	e.POST("/api/stripe/webhook", d.Payments.Webhook)
}
