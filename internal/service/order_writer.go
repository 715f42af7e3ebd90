package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/notify"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// PlaceOrderInput is a validated-on-entry order request.  UserID is 0
// for orders entered by an admin.
type PlaceOrderInput struct {
	OrderNumber string
	EventID     uint64
	Total       int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	TShirtSize  string
	UserID      uint64
}

func (in *PlaceOrderInput) normalize() error {
	in.OrderNumber = strings.TrimSpace(in.OrderNumber)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.TShirtSize = strings.TrimSpace(in.TShirtSize)
	if in.OrderNumber == "" || in.EventID == 0 || in.Total < 0 ||
		in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return ErrInvalidOrder
	}
	return nil
}

// OrderWriter persists orders and fires their side effects.  Side effects
// are best effort: they run after the insert, their failures are logged
// and never undo or fail the order.
type OrderWriter struct {
	orders  OrderStore
	events  EventStore
	intents IntentStore
	broker  notify.Broker
	jobs    queue.Publisher
}

func NewOrderWriter(orders OrderStore, events EventStore, intents IntentStore, broker notify.Broker, jobs queue.Publisher) *OrderWriter {
	return &OrderWriter{orders: orders, events: events, intents: intents, broker: broker, jobs: jobs}
}

// Place stores the order and returns the persisted row.  There is no
// idempotency check: placing the same order number twice creates two
// rows.
func (w *OrderWriter) Place(ctx context.Context, in PlaceOrderInput) (model.Order, error) {
	if err := in.normalize(); err != nil {
		return model.Order{}, err
	}
	ev, err := w.events.GetByID(ctx, in.EventID)
	if err != nil {
		return model.Order{}, err
	}

	eventID := in.EventID
	o := model.Order{
		OrderNumber: in.OrderNumber,
		EventID:     &eventID,
		Total:       in.Total,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		TShirtSize:  in.TShirtSize,
	}
	if in.UserID != 0 {
		uid := in.UserID
		o.UserID = &uid
	}
	if err := w.orders.Create(ctx, &o); err != nil {
		return model.Order{}, err
	}
	title := ev.Title
	o.EventTitle = &title

	w.afterPlace(ctx, o, ev)
	return o, nil
}

func (w *OrderWriter) afterPlace(ctx context.Context, o model.Order, ev model.Event) {
	logger := log.With().Uint64("order_id", o.ID).Str("order_number", o.OrderNumber).Logger()

	if err := w.broker.Publish(ctx, notify.Message{Type: notify.TypeOrderCreated, Data: o}); err != nil {
		logger.Warn().Err(err).Msg("order: broadcast failed")
	}

	job := queue.NewOrderConfirmed(queue.OrderConfirmedJob{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		EventTitle:     ev.Title,
		EventDate:      ev.Date.Format("2006-01-02"),
		EventLocation:  ev.Location,
		EventStartTime: ev.StartTime,
		EventEndTime:   ev.EndTime,
		FirstName:      o.FirstName,
		LastName:       o.LastName,
		Email:          o.Email,
		PhoneNumber:    o.PhoneNumber,
		TShirtSize:     o.TShirtSize,
		Total:          o.Total,
		PurchasedAt:    o.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err := w.jobs.Publish(ctx, job); err != nil {
		logger.Warn().Err(err).Msg("order: confirmation job not queued")
	}

	var uid uint64
	if o.UserID != nil {
		uid = *o.UserID
	}
	err := w.intents.MarkFulfilled(ctx, o.OrderNumber, o.ID, uid)
	switch {
	case errors.Is(err, repository.ErrIntentNotFound):
		// admin orders, untracked payments, and intents that are closed or
		// belong to another user
	case err != nil:
		logger.Warn().Err(err).Msg("order: pending intent not marked fulfilled")
	}
}
