package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/notify"
	"github.com/iliyamo/event-ticketing/internal/payment"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/router"
	"github.com/iliyamo/event-ticketing/internal/service"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

const (
	testSecret    = "handler-test-secret"
	testSignature = "t=1,v1=good"
)

// --- Fake payment provider ---

type fakeGateway struct {
	mu    sync.Mutex
	reqs  []payment.IntentRequest
	fails error
}

func (g *fakeGateway) CreateIntent(_ context.Context, req payment.IntentRequest) (payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fails != nil {
		return payment.Intent{}, g.fails
	}
	g.reqs = append(g.reqs, req)
	id := fmt.Sprintf("pi_test_%d", len(g.reqs))
	return payment.Intent{ID: id, ClientSecret: id + "_secret_x"}, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reqs)
}

// fakeWebhooks accepts JSON {"id","type","intent"} signed with
// testSignature.
type fakeWebhooks struct{}

func (fakeWebhooks) ParseWebhook(payload []byte, signature string) (payment.WebhookEvent, error) {
	if signature != testSignature {
		return payment.WebhookEvent{}, payment.ErrInvalidSignature
	}
	var body struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return payment.WebhookEvent{}, err
	}
	return payment.WebhookEvent{ID: body.ID, Type: body.Type, IntentID: body.Intent}, nil
}

// --- Server under test ---

type testServer struct {
	t   *testing.T
	e   *echo.Echo
	db  *memDB
	gw  *fakeGateway
	hub *notify.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := newMemDB()
	gw := &fakeGateway{}
	hub := notify.NewHub(32)

	users, admins, supers := memUsers{db}, memAdmins{db}, memSuperadmins{db}
	events, orders, sellers, intents := memEvents{db}, memOrders{db}, memSellers{db}, memIntents{db}

	auth := service.NewAuthService(users, admins, supers, queue.NopPublisher{}, service.AuthConfig{
		JWTSecret: testSecret, AccessTTLMin: 24 * 60, BcryptCost: 4,
	})
	eventSvc := service.NewEventService(events, nil, hub)
	writer := service.NewOrderWriter(orders, events, intents, hub, queue.NopPublisher{})
	checkout := service.NewCheckoutService(gw, sellers, intents, service.CheckoutConfig{
		Currency: "cad", ApplicationFee: 50, MinCharge: 50,
	})

	e := router.New(router.Deps{
		JWTSecret:   testSecret,
		CORSOrigins: []string{"*"},
		Logger:      zerolog.Nop(),
		AdminEvents: admins,
		Hub:         hub,

		Auth:       handler.NewAuthHandler(auth),
		Events:     handler.NewEventHandler(events, eventSvc),
		Orders:     handler.NewOrderHandler(writer, orders, "Banatcom", "cad"),
		Profile:    handler.NewProfileHandler(users, orders),
		Payments:   handler.NewPaymentHandler(checkout, fakeWebhooks{}, 15*time.Minute),
		Superadmin: handler.NewSuperadminHandler(users, admins, sellers, 4),
	})
	return &testServer{t: t, e: e, db: db, gw: gw, hub: hub}
}

// do sends a JSON request; body may be nil, a string or any value to
// encode.
func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	header := map[string]string{}
	if token != "" {
		header[echo.HeaderAuthorization] = "Bearer " + token
	}
	return s.send(method, path, body, header)
}

func (s *testServer) send(method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) token(id uint64, role string) string {
	s.t.Helper()
	tok, err := utils.NewAccessToken(testSecret, id, role, 60)
	require.NoError(s.t, err)
	return tok.Token
}

func (s *testServer) seedEvent(title string, price int64) uint64 {
	s.t.Helper()
	e := &model.Event{
		Title: title, Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "19:00:00", EndTime: "22:00:00", Location: "Main Hall",
		Price: price, ImageURL: "https://img/x.png", Description: "<p>fun</p>",
	}
	require.NoError(s.t, memEvents{s.db}.Create(context.Background(), e))
	return e.ID
}

func (s *testServer) seedAdmin(username string, eventIDs ...uint64) uint64 {
	s.t.Helper()
	hash, err := utils.HashPassword("Adm1n!pass", 4)
	require.NoError(s.t, err)
	id, err := memAdmins{s.db}.Create(context.Background(), username, hash, eventIDs)
	require.NoError(s.t, err)
	return id
}

func (s *testServer) seedOrder(eventID uint64, number string, total int64) uint64 {
	s.t.Helper()
	o := &model.Order{
		OrderNumber: number, EventID: &eventID, Total: total,
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", PhoneNumber: "555", TShirtSize: "M",
	}
	require.NoError(s.t, memOrders{s.db}.Create(context.Background(), o))
	return o.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}
