package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/payment"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// maxWebhookBody caps webhook payloads; provider events are a few KB.
const maxWebhookBody = 64 << 10

// PaymentHandler serves payment intent creation, the provider webhook and
// the reconciliation report.
type PaymentHandler struct {
	Checkout *service.CheckoutService
	Webhooks payment.WebhookParser
	Grace    time.Duration
}

func NewPaymentHandler(checkout *service.CheckoutService, webhooks payment.WebhookParser, grace time.Duration) *PaymentHandler {
	return &PaymentHandler{Checkout: checkout, Webhooks: webhooks, Grace: grace}
}

type intentReq struct {
	Amount  int64  `json:"amount"`
	EventID uint64 `json:"eventId"`
}

// CreateIntent asks the provider for a payment intent and returns its
// client secret.  The caller may be anonymous; a valid USER token attaches
// the user to the pending intent.  Admin and superadmin ids live in other
// tables and are never recorded.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req intentReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	var uid uint64
	if middleware.Role(c) == model.RoleUser {
		uid, _ = middleware.UserID(c)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	res, err := h.Checkout.CreatePaymentIntent(ctx, req.Amount, req.EventID, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"client_secret": res.ClientSecret})
}

// Webhook receives provider events.  The raw body is needed for signature
// verification, so it is read before any binding.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	ev, err := h.Webhooks.ParseWebhook(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		if !errors.Is(err, payment.ErrInvalidSignature) {
			log.Warn().Err(err).Msg("webhook: payload rejected")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook")
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Checkout.HandleWebhook(ctx, ev); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// Reconciliation lists charges that succeeded without an order.
func (h *PaymentHandler) Reconciliation(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	intents, err := h.Checkout.Unreconciled(ctx, h.Grace)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, intents)
}
