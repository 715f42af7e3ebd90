package handler_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// memDB is an in-memory stand-in for the MySQL schema.  Each table type
// below is a view over it implementing the repository methods the
// handlers and services call.
type memDB struct {
	mu          sync.Mutex
	seq         uint64
	users       map[uint64]model.User
	admins      map[uint64]model.Admin
	superadmins map[uint64]model.Superadmin
	events      map[uint64]model.Event
	orders      map[uint64]model.Order
	sellers     map[uint64]model.Seller
	intents     map[string]model.PaymentIntent
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[uint64]model.User{},
		admins:      map[uint64]model.Admin{},
		superadmins: map[uint64]model.Superadmin{},
		events:      map[uint64]model.Event{},
		orders:      map[uint64]model.Order{},
		sellers:     map[uint64]model.Seller{},
		intents:     map[string]model.PaymentIntent{},
	}
}

func (db *memDB) nextID() uint64 {
	db.seq++
	return db.seq
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func contains(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ---- users ----

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, u model.User) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u.Username = repository.NormalizeUsername(u.Username)
	for _, other := range s.db.users {
		if other.Username == u.Username {
			return 0, repository.ErrUsernameExists
		}
	}
	u.ID = s.db.nextID()
	u.CreatedAt = time.Now().UTC()
	s.db.users[u.ID] = u
	return u.ID, nil
}

func (s memUsers) CredentialByUsername(_ context.Context, username string) (model.Credential, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	username = repository.NormalizeUsername(username)
	for _, u := range s.db.users {
		if u.Username == username {
			return model.Credential{ID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash}, nil
		}
	}
	return model.Credential{}, repository.ErrUserNotFound
}

func (s memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s memUsers) List(context.Context) ([]model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.User{}
	for _, id := range sortedKeys(s.db.users) {
		out = append(out, s.db.users[id])
	}
	return out, nil
}

func (s memUsers) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for oid, o := range s.db.orders {
		if o.UserID != nil && *o.UserID == id {
			o.UserID = nil
			s.db.orders[oid] = o
		}
	}
	delete(s.db.users, id)
	return nil
}

// ---- admins ----

type memAdmins struct{ db *memDB }

func (s memAdmins) Create(_ context.Context, username, hash string, eventIDs []uint64) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.admins {
		if a.Username == username {
			return 0, repository.ErrUsernameExists
		}
	}
	id := s.db.nextID()
	ids := []uint64{}
	for _, e := range eventIDs {
		if !contains(ids, e) {
			ids = append(ids, e)
		}
	}
	s.db.admins[id] = model.Admin{ID: id, Username: username, PasswordHash: hash, EventIDs: ids, CreatedAt: time.Now().UTC()}
	return id, nil
}

func (s memAdmins) CredentialByUsername(_ context.Context, username string) (model.Credential, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.admins {
		if a.Username == username {
			return model.Credential{ID: a.ID, Username: a.Username, PasswordHash: a.PasswordHash}, nil
		}
	}
	return model.Credential{}, repository.ErrAdminNotFound
}

func (s memAdmins) EventIDs(_ context.Context, adminID uint64) ([]uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return append([]uint64(nil), s.db.admins[adminID].EventIDs...), nil
}

func (s memAdmins) List(context.Context) ([]model.Admin, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Admin{}
	for _, id := range sortedKeys(s.db.admins) {
		out = append(out, s.db.admins[id])
	}
	return out, nil
}

func (s memAdmins) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.admins[id]; !ok {
		return repository.ErrAdminNotFound
	}
	delete(s.db.admins, id)
	return nil
}

// ---- superadmins ----

type memSuperadmins struct{ db *memDB }

func (s memSuperadmins) add(username, hash string) uint64 {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	id := s.db.nextID()
	s.db.superadmins[id] = model.Superadmin{ID: id, Username: username, PasswordHash: hash}
	return id
}

func (s memSuperadmins) CredentialByUsername(_ context.Context, username string) (model.Credential, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.superadmins {
		if a.Username == username {
			return model.Credential{ID: a.ID, Username: a.Username, PasswordHash: a.PasswordHash}, nil
		}
	}
	return model.Credential{}, repository.ErrNotFound
}

// ---- events ----

type memEvents struct{ db *memDB }

func (s memEvents) Create(_ context.Context, e *model.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e.ID = s.db.nextID()
	e.CreatedAt = time.Now().UTC()
	s.db.events[e.ID] = *e
	return nil
}

func (s memEvents) GetByID(_ context.Context, id uint64) (model.Event, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e, ok := s.db.events[id]
	if !ok {
		return model.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (s memEvents) List(context.Context) ([]model.Event, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Event{}
	for _, id := range sortedKeys(s.db.events) {
		out = append(out, s.db.events[id])
	}
	return out, nil
}

func (s memEvents) ListWithAdmins(context.Context) ([]model.EventWithAdmins, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.EventWithAdmins{}
	for _, id := range sortedKeys(s.db.events) {
		row := model.EventWithAdmins{Event: s.db.events[id], AdminUsernames: []string{}}
		for _, aid := range sortedKeys(s.db.admins) {
			if contains(s.db.admins[aid].EventIDs, id) {
				row.AdminUsernames = append(row.AdminUsernames, s.db.admins[aid].Username)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s memEvents) UpdateDescription(_ context.Context, id uint64, description string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e, ok := s.db.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	e.Description = description
	s.db.events[id] = e
	return nil
}

func (s memEvents) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	for k, o := range s.db.orders {
		if o.EventID != nil && *o.EventID == id {
			o.EventID = nil
			s.db.orders[k] = o
		}
	}
	for k, sl := range s.db.sellers {
		if sl.EventID != nil && *sl.EventID == id {
			sl.EventID = nil
			s.db.sellers[k] = sl
		}
	}
	for k, a := range s.db.admins {
		kept := []uint64{}
		for _, e := range a.EventIDs {
			if e != id {
				kept = append(kept, e)
			}
		}
		a.EventIDs = kept
		s.db.admins[k] = a
	}
	delete(s.db.events, id)
	return nil
}

// ---- orders ----

type memOrders struct{ db *memDB }

func (s memOrders) Create(_ context.Context, o *model.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o.ID = s.db.nextID()
	o.CreatedAt = time.Now().UTC().Truncate(time.Second)
	stored := *o
	stored.EventTitle = nil
	s.db.orders[o.ID] = stored
	return nil
}

// withTitle must be called with the lock held.
func (s memOrders) withTitle(o model.Order) model.Order {
	o.EventTitle = nil
	if o.EventID != nil {
		if e, ok := s.db.events[*o.EventID]; ok {
			title := e.Title
			o.EventTitle = &title
		}
	}
	return o
}

func (s memOrders) filter(keep func(model.Order) bool) []model.Order {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Order{}
	for _, id := range sortedKeys(s.db.orders) {
		if o := s.db.orders[id]; keep(o) {
			out = append(out, s.withTitle(o))
		}
	}
	return out
}

func (s memOrders) ListAll(context.Context) ([]model.Order, error) {
	return s.filter(func(model.Order) bool { return true }), nil
}

func (s memOrders) ListByUser(_ context.Context, userID uint64) ([]model.Order, error) {
	return s.filter(func(o model.Order) bool { return o.UserID != nil && *o.UserID == userID }), nil
}

func (s memOrders) ListByEvents(_ context.Context, eventIDs []uint64) ([]model.Order, error) {
	return s.filter(func(o model.Order) bool { return o.EventID != nil && contains(eventIDs, *o.EventID) }), nil
}

func (s memOrders) ReceiptByNumber(_ context.Context, number string, scope []uint64) (model.ReceiptOrder, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, id := range sortedKeys(s.db.orders) {
		o := s.db.orders[id]
		if o.OrderNumber != number {
			continue
		}
		if scope != nil && (o.EventID == nil || !contains(scope, *o.EventID)) {
			return model.ReceiptOrder{}, repository.ErrForbidden
		}
		ro := model.ReceiptOrder{Order: s.withTitle(o)}
		if o.EventID != nil {
			if e, ok := s.db.events[*o.EventID]; ok {
				ro.EventDate = e.Date
				ro.EventLocation = e.Location
				ro.EventStartTime = e.StartTime
				ro.EventEndTime = e.EndTime
			}
		}
		return ro, nil
	}
	return model.ReceiptOrder{}, repository.ErrOrderNotFound
}

func (s memOrders) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(s.db.orders, id)
	return nil
}

func (s memOrders) DeleteInEvents(_ context.Context, id uint64, eventIDs []uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if o.EventID == nil || !contains(eventIDs, *o.EventID) {
		return repository.ErrForbidden
	}
	delete(s.db.orders, id)
	return nil
}

func (s memOrders) DeleteByEvents(_ context.Context, eventIDs []uint64) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, o := range s.db.orders {
		if o.EventID != nil && contains(eventIDs, *o.EventID) {
			delete(s.db.orders, id)
			n++
		}
	}
	return n, nil
}

// ---- sellers ----

type memSellers struct{ db *memDB }

func (s memSellers) Create(_ context.Context, eventID uint64, accountID string) (model.Seller, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sl := model.Seller{ID: s.db.nextID(), EventID: &eventID, StripeAccountID: strings.TrimSpace(accountID)}
	s.db.sellers[sl.ID] = sl
	return sl, nil
}

func (s memSellers) List(context.Context) ([]model.Seller, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Seller{}
	for _, id := range sortedKeys(s.db.sellers) {
		out = append(out, s.db.sellers[id])
	}
	return out, nil
}

func (s memSellers) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.sellers[id]; !ok {
		return repository.ErrSellerNotFound
	}
	delete(s.db.sellers, id)
	return nil
}

func (s memSellers) AccountForEvent(_ context.Context, eventID uint64) (string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, id := range sortedKeys(s.db.sellers) {
		sl := s.db.sellers[id]
		if sl.EventID != nil && *sl.EventID == eventID {
			return sl.StripeAccountID, nil
		}
	}
	return "", repository.ErrSellerNotFound
}

// ---- payment intents ----

type memIntents struct{ db *memDB }

func (s memIntents) Create(_ context.Context, p *model.PaymentIntent) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p.ID = s.db.nextID()
	if p.Status == "" {
		p.Status = model.IntentCreated
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.db.intents[p.IntentID] = *p
	return nil
}

func (s memIntents) UpdateStatus(_ context.Context, intentID, status string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.intents[intentID]
	if !ok || p.Status == model.IntentFulfilled {
		return repository.ErrIntentNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	s.db.intents[intentID] = p
	return nil
}

func (s memIntents) MarkFulfilled(_ context.Context, intentID string, orderID, userID uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.intents[intentID]
	if !ok || p.OrderID != nil ||
		(p.Status != model.IntentCreated && p.Status != model.IntentSucceeded) ||
		(p.UserID != nil && *p.UserID != userID) {
		return repository.ErrIntentNotFound
	}
	p.Status = model.IntentFulfilled
	p.OrderID = &orderID
	s.db.intents[intentID] = p
	return nil
}

func (s memIntents) ListUnreconciled(_ context.Context, olderThan time.Time) ([]model.PaymentIntent, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.PaymentIntent{}
	for _, p := range s.db.intents {
		if p.Status == model.IntentSucceeded && p.OrderID == nil && p.UpdatedAt.Before(olderThan) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s memIntents) get(intentID string) model.PaymentIntent {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.intents[intentID]
}
