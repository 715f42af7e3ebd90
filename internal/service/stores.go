package service

import (
	"context"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// The interfaces below are the slices of the repositories each service
// needs.  The repository package satisfies them; tests use fakes.

type SellerLookup interface {
	AccountForEvent(ctx context.Context, eventID uint64) (string, error)
}

type IntentStore interface {
	Create(ctx context.Context, p *model.PaymentIntent) error
	UpdateStatus(ctx context.Context, intentID, status string) error
	MarkFulfilled(ctx context.Context, intentID string, orderID, userID uint64) error
	ListUnreconciled(ctx context.Context, olderThan time.Time) ([]model.PaymentIntent, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
}

type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	UpdateDescription(ctx context.Context, id uint64, description string) error
	Delete(ctx context.Context, id uint64) error
}

type UserStore interface {
	Create(ctx context.Context, u model.User) (uint64, error)
	CredentialByUsername(ctx context.Context, username string) (model.Credential, error)
}

type CredentialStore interface {
	CredentialByUsername(ctx context.Context, username string) (model.Credential, error)
}

// CachePurger drops cached public reads after a write.
type CachePurger interface {
	Purge(ctx context.Context) error
}
