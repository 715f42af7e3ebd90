package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// EventHandler serves public event reads and event writes for admins and
// superadmins.
type EventHandler struct {
	Events EventReader
	Writer *service.EventService
}

func NewEventHandler(events EventReader, writer *service.EventService) *EventHandler {
	return &EventHandler{Events: events, Writer: writer}
}

type createEventReq struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

type descriptionReq struct {
	Description string `json:"description"`
}

// List returns every event, soonest first.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// Get returns one event or 404.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// UpdateDescription lets an admin edit the description of one of its
// events.
func (h *EventHandler) UpdateDescription(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req descriptionReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Writer.UpdateDescription(ctx, id, req.Description, middleware.AdminEventIDs(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "description updated"})
}

// AdminEvents lists the event ids of the calling admin.
func (h *EventHandler) AdminEvents(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"event_id": middleware.AdminEventIDs(c)})
}

// ListWithAdmins is the superadmin overview: events with the usernames of
// their admins.
func (h *EventHandler) ListWithAdmins(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	events, err := h.Events.ListWithAdmins(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// Create adds an event.
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	ev, err := h.Writer.Create(ctx, service.EventInput{
		Title:       req.Title,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

// Delete removes an event; its orders and sellers are kept with a null
// event.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Writer.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "event deleted"})
}
