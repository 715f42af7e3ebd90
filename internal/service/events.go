package service

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/notify"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// EventService writes events.  Descriptions are rich text from an editor
// and are sanitized before storage; every write purges the public read
// cache.
type EventService struct {
	events EventStore
	cache  CachePurger
	broker notify.Broker
	policy *bluemonday.Policy
}

func NewEventService(events EventStore, cache CachePurger, broker notify.Broker) *EventService {
	return &EventService{events: events, cache: cache, broker: broker, policy: bluemonday.UGCPolicy()}
}

// Sanitize strips scripts, event handlers and other unsafe markup.
func (s *EventService) Sanitize(html string) string {
	return strings.TrimSpace(s.policy.Sanitize(html))
}

// EventInput is the superadmin create form.  Date is YYYY-MM-DD and the
// times are HH:MM or HH:MM:SS.
type EventInput struct {
	Title       string
	Date        string
	StartTime   string
	EndTime     string
	Location    string
	Price       int64
	ImageURL    string
	Description string
}

func parseClock(v string) (string, bool) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
			return t.Format("15:04:05"), true
		}
	}
	return "", false
}

// Create validates and stores a new event, then announces it.
func (s *EventService) Create(ctx context.Context, in EventInput) (model.Event, error) {
	e := model.Event{
		Title:       strings.TrimSpace(in.Title),
		Location:    strings.TrimSpace(in.Location),
		Price:       in.Price,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Description: s.Sanitize(in.Description),
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(in.Date))
	if err != nil {
		return model.Event{}, ErrInvalidInput
	}
	e.Date = date
	var ok1, ok2 bool
	e.StartTime, ok1 = parseClock(in.StartTime)
	e.EndTime, ok2 = parseClock(in.EndTime)
	if !ok1 || !ok2 || e.Title == "" || e.Location == "" || e.ImageURL == "" || e.Description == "" || e.Price < 0 {
		return model.Event{}, ErrInvalidInput
	}
	if err := s.events.Create(ctx, &e); err != nil {
		return model.Event{}, err
	}
	s.purge(ctx)
	if err := s.broker.Publish(ctx, notify.Message{Type: notify.TypeEventCreated, Data: e}); err != nil {
		log.Warn().Err(err).Uint64("event_id", e.ID).Msg("event: broadcast failed")
	}
	return e, nil
}

// UpdateDescription replaces the description of an event in scope.  A nil
// scope means unrestricted.
func (s *EventService) UpdateDescription(ctx context.Context, id uint64, description string, scope []uint64) error {
	if scope != nil && !containsID(scope, id) {
		return repository.ErrForbidden
	}
	clean := s.Sanitize(description)
	if clean == "" {
		return ErrInvalidInput
	}
	if err := s.events.UpdateDescription(ctx, id, clean); err != nil {
		return err
	}
	s.purge(ctx)
	return nil
}

// Delete removes an event and detaches everything that referenced it.
func (s *EventService) Delete(ctx context.Context, id uint64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.purge(ctx)
	return nil
}

func (s *EventService) purge(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Purge(ctx); err != nil {
		log.Warn().Err(err).Msg("event: cache purge failed")
	}
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
