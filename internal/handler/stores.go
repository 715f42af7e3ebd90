package handler

import (
	"context"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// Read-side store interfaces.  Writes with side effects go through the
// service package; these cover the plain queries and deletes the handlers
// run directly.  The repository types satisfy them.

type EventReader interface {
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	ListWithAdmins(ctx context.Context) ([]model.EventWithAdmins, error)
}

type OrderStore interface {
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Order, error)
	ListByEvents(ctx context.Context, eventIDs []uint64) ([]model.Order, error)
	ReceiptByNumber(ctx context.Context, number string, scope []uint64) (model.ReceiptOrder, error)
	Delete(ctx context.Context, id uint64) error
	DeleteInEvents(ctx context.Context, id uint64, eventIDs []uint64) error
	DeleteByEvents(ctx context.Context, eventIDs []uint64) (int64, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint64) error
}

type AdminDirectory interface {
	Create(ctx context.Context, username, passwordHash string, eventIDs []uint64) (uint64, error)
	List(ctx context.Context) ([]model.Admin, error)
	Delete(ctx context.Context, id uint64) error
}

type SellerStore interface {
	Create(ctx context.Context, eventID uint64, accountID string) (model.Seller, error)
	List(ctx context.Context) ([]model.Seller, error)
	Delete(ctx context.Context, id uint64) error
}
