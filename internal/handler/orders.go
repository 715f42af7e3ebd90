package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/receipt"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/service"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

// OrderHandler serves checkout order submission, admin-entered orders and
// the admin order dashboard.
type OrderHandler struct {
	Writer   *service.OrderWriter
	Orders   OrderStore
	Brand    string
	Currency string
}

func NewOrderHandler(writer *service.OrderWriter, orders OrderStore, brand, currency string) *OrderHandler {
	return &OrderHandler{Writer: writer, Orders: orders, Brand: brand, Currency: currency}
}

// ----- DTOs -----

type buyerForm struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	TShirtSize  string `json:"tShirtSize"`
}

type orderReq struct {
	OrderNumber string `json:"orderNumber"`
	Event       *struct {
		ID uint64 `json:"id"`
	} `json:"event"`
	Total    int64      `json:"total"`
	FormData *buyerForm `json:"formData"`
}

type adminOrderReq struct {
	buyerForm
	Total   *int64 `json:"total"`
	EventID uint64 `json:"eventId"`
}

// Create stores the order a user submits after the provider confirmed the
// card payment.  The order number is the provider's intent id.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req orderReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.OrderNumber) == "" || req.Event == nil || req.Total <= 0 || req.FormData == nil {
		return fail(c, service.ErrInvalidOrder)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	o, err := h.Writer.Place(ctx, service.PlaceOrderInput{
		OrderNumber: req.OrderNumber,
		EventID:     req.Event.ID,
		Total:       req.Total,
		FirstName:   req.FormData.FirstName,
		LastName:    req.FormData.LastName,
		Email:       req.FormData.Email,
		PhoneNumber: req.FormData.PhoneNumber,
		TShirtSize:  req.FormData.TShirtSize,
		UserID:      uid,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// AdminCreate records an order taken by an admin outside the online
// checkout, for example a cash sale at the door.
func (h *OrderHandler) AdminCreate(c echo.Context) error {
	var req adminOrderReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	f := req.buyerForm
	if f.FirstName == "" || f.LastName == "" || f.Email == "" || f.PhoneNumber == "" ||
		f.TShirtSize == "" || req.Total == nil || req.EventID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	if !inScope(middleware.AdminEventIDs(c), req.EventID) {
		return fail(c, repository.ErrForbidden)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	o, err := h.Writer.Place(ctx, service.PlaceOrderInput{
		OrderNumber: utils.NewOrderNumber(),
		EventID:     req.EventID,
		Total:       *req.Total,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		TShirtSize:  f.TShirtSize,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// AdminList returns the orders of the admin's events.
func (h *OrderHandler) AdminList(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByEvents(ctx, middleware.AdminEventIDs(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// AdminDelete removes one order of the admin's events.
func (h *OrderHandler) AdminDelete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Orders.DeleteInEvents(ctx, id, middleware.AdminEventIDs(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order deleted"})
}

// AdminClear removes every order of the admin's events.
func (h *OrderHandler) AdminClear(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	n, err := h.Orders.DeleteByEvents(ctx, middleware.AdminEventIDs(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "All orders for the event have been cleared",
		"deleted": n,
	})
}

var csvHeader = []string{
	"id", "order_number", "event_id", "event_title", "total", "first_name", "last_name",
	"email", "phone_number", "t_shirt_size", "created_at", "user_id",
}

// DownloadCSV exports the admin's orders as orders.csv.
func (h *OrderHandler) DownloadCSV(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByEvents(ctx, middleware.AdminEventIDs(c))
	if err != nil {
		return fail(c, err)
	}
	body, err := ordersCSV(orders)
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}

func ordersCSV(orders []model.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := w.Write([]string{
			strconv.FormatUint(o.ID, 10),
			o.OrderNumber,
			optID(o.EventID),
			optString(o.EventTitle),
			strconv.FormatInt(o.Total, 10),
			o.FirstName,
			o.LastName,
			o.Email,
			o.PhoneNumber,
			o.TShirtSize,
			o.CreatedAt.UTC().Format(time.RFC3339),
			optID(o.UserID),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DownloadReceipt renders the PDF receipt of an order in the admin's
// events.
func (h *OrderHandler) DownloadReceipt(c echo.Context) error {
	number := strings.TrimSpace(c.Param("orderNumber"))
	if number == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid orderNumber")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	ro, err := h.Orders.ReceiptByNumber(ctx, number, middleware.AdminEventIDs(c))
	if err != nil {
		return fail(c, err)
	}
	pdf, err := receipt.Render(receipt.FromOrder(ro, h.Brand, h.Currency))
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="receipt-`+ro.OrderNumber+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// SuperadminList returns every order with its event title.
func (h *OrderHandler) SuperadminList(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	orders, err := h.Orders.ListAll(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// SuperadminDelete removes any order.
func (h *OrderHandler) SuperadminDelete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Orders.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order deleted"})
}

func inScope(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func optID(p *uint64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatUint(*p, 10)
}

func optString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
