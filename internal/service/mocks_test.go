package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/event-ticketing/internal/mailer"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/notify"
	"github.com/iliyamo/event-ticketing/internal/payment"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// --- Mock Gateway ---

type mockGateway struct {
	calls    int
	createFn func(ctx context.Context, req payment.IntentRequest) (payment.Intent, error)
}

func (m *mockGateway) CreateIntent(ctx context.Context, req payment.IntentRequest) (payment.Intent, error) {
	m.calls++
	return m.createFn(ctx, req)
}

// --- Mock SellerLookup ---

type mockSellers map[uint64]string

func (m mockSellers) AccountForEvent(_ context.Context, eventID uint64) (string, error) {
	if acct, ok := m[eventID]; ok {
		return acct, nil
	}
	return "", repository.ErrSellerNotFound
}

// --- Mock IntentStore ---

type mockIntents struct {
	createFn    func(ctx context.Context, p *model.PaymentIntent) error
	updateFn    func(ctx context.Context, intentID, status string) error
	fulfilledFn func(ctx context.Context, intentID string, orderID, userID uint64) error
	listFn      func(ctx context.Context, olderThan time.Time) ([]model.PaymentIntent, error)
}

func (m *mockIntents) Create(ctx context.Context, p *model.PaymentIntent) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}
func (m *mockIntents) UpdateStatus(ctx context.Context, intentID, status string) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, intentID, status)
	}
	return nil
}
func (m *mockIntents) MarkFulfilled(ctx context.Context, intentID string, orderID, userID uint64) error {
	if m.fulfilledFn != nil {
		return m.fulfilledFn(ctx, intentID, orderID, userID)
	}
	return repository.ErrIntentNotFound
}
func (m *mockIntents) ListUnreconciled(ctx context.Context, olderThan time.Time) ([]model.PaymentIntent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, olderThan)
	}
	return nil, nil
}

// --- Mock EventStore ---

type mockEvents struct {
	createFn func(ctx context.Context, e *model.Event) error
	getFn    func(ctx context.Context, id uint64) (model.Event, error)
	updateFn func(ctx context.Context, id uint64, description string) error
	deleteFn func(ctx context.Context, id uint64) error
}

func (m *mockEvents) Create(ctx context.Context, e *model.Event) error { return m.createFn(ctx, e) }
func (m *mockEvents) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	return m.getFn(ctx, id)
}
func (m *mockEvents) UpdateDescription(ctx context.Context, id uint64, description string) error {
	return m.updateFn(ctx, id, description)
}
func (m *mockEvents) Delete(ctx context.Context, id uint64) error { return m.deleteFn(ctx, id) }

// --- Mock OrderStore ---

type mockOrders struct {
	createFn func(ctx context.Context, o *model.Order) error
}

func (m *mockOrders) Create(ctx context.Context, o *model.Order) error { return m.createFn(ctx, o) }

// --- Recording collaborators ---

type recordingBroker struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (b *recordingBroker) Publish(_ context.Context, msg notify.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
	return b.err
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []queue.Job
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, job queue.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, job)
	return p.err
}

type recordingSender struct {
	sent []mailer.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

type countingPurger struct{ n int }

func (p *countingPurger) Purge(context.Context) error {
	p.n++
	return nil
}
