package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/notify"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

// TestCheckoutEndToEnd drives the whole purchase through the HTTP
// surface: the superadmin sets up an event, a user buys a ticket and sees
// it on their profile.
func TestCheckoutEndToEnd(t *testing.T) {
	s := newTestServer(t)
	hash, err := utils.HashPassword("R00t!pass", 4)
	require.NoError(t, err)
	memSuperadmins{s.db}.add("root", hash)

	login := func(path, username, password string) string {
		rec := s.do(http.MethodPost, path, map[string]string{"username": username, "password": password}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[tokenBody](t, rec).Token
	}
	root := login("/api/superadmin/login", "root", "R00t!pass")

	// Superadmin creates the event and its seller.
	rec := s.do(http.MethodPost, "/api/superadmin/events", map[string]any{
		"title": "Harbour Run", "date": "2025-07-12", "startTime": "08:00", "endTime": "11:00",
		"location": "Pier 4", "price": 2000, "imageUrl": "https://img/run.png",
		"description": `<p>5k along the water</p><script>steal()</script>`,
	}, root)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ev := decode[model.Event](t, rec)
	assert.Equal(t, "<p>5k along the water</p>", ev.Description)

	rec = s.do(http.MethodPost, "/api/superadmin/sellers", map[string]any{"eventId": ev.ID, "stripeAccountId": "acct_harbour"}, root)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/superadmin/create-admin", map[string]any{
		"username": "organiser", "password": "Adm1n!pass", "eventIds": []uint64{ev.ID},
	}, root)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The public listing shows it.
	rec = s.do(http.MethodGet, fmt.Sprintf("/api/events/%d", ev.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2000), decode[model.Event](t, rec).Price)

	// A user registers, logs in and pays.
	rec = s.do(http.MethodPost, "/api/user/register", registration("alice", "Str0ng!pw"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	user := login("/api/user/login", "alice", "Str0ng!pw")

	rec = s.do(http.MethodPost, "/api/create-payment-intent", map[string]any{"amount": ev.Price, "eventId": ev.ID}, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	secret := decode[map[string]string](t, rec)["client_secret"]
	intentID := strings.SplitN(secret, "_secret_", 2)[0]
	assert.Equal(t, "acct_harbour", s.gw.reqs[0].Destination)

	// The provider confirms the charge.
	rec = s.send(http.MethodPost, "/api/stripe/webhook",
		fmt.Sprintf(`{"id":"evt_1","type":"payment_intent.succeeded","intent":%q}`, intentID),
		map[string]string{"Stripe-Signature": testSignature})
	require.Equal(t, http.StatusOK, rec.Code)

	live, cancel := s.hub.Subscribe()
	defer cancel()

	// The client stores the order.
	rec = s.do(http.MethodPost, "/api/orders", map[string]any{
		"orderNumber": intentID,
		"event":       map[string]any{"id": ev.ID},
		"total":       ev.Price,
		"formData": map[string]string{
			"firstName": "Alice", "lastName": "Smith", "email": "alice@example.com",
			"phoneNumber": "555-0100", "tShirtSize": "S",
		},
	}, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[model.Order](t, rec)

	select {
	case raw := <-live:
		var msg struct {
			Type string      `json:"type"`
			Data model.Order `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, notify.TypeOrderCreated, msg.Type)
		assert.Equal(t, order.ID, msg.Data.ID)
	case <-time.After(time.Second):
		t.Fatal("order was not broadcast")
	}

	// The profile shows the purchase.
	rec = s.do(http.MethodGet, "/api/user/profile", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[struct {
		User   model.User    `json:"user"`
		Orders []model.Order `json:"orders"`
	}](t, rec)
	assert.Equal(t, "alice", profile.User.Username)
	require.Len(t, profile.Orders, 1)
	assert.Equal(t, int64(2000), profile.Orders[0].Total)
	assert.Equal(t, intentID, profile.Orders[0].OrderNumber)

	// The charge is reconciled.
	p := memIntents{s.db}.get(intentID)
	assert.Equal(t, model.IntentFulfilled, p.Status)
	require.NotNil(t, p.OrderID)
	assert.Equal(t, order.ID, *p.OrderID)

	// The organiser sees the order.
	admin := login("/api/admin/login", "organiser", "Adm1n!pass")
	rec = s.do(http.MethodGet, "/api/orders", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Order](t, rec), 1)
}

func TestSuperadminEventDeleteDetachesOrders(t *testing.T) {
	s := newTestServer(t)
	root := s.token(1, model.RoleSuperadmin)
	ev := s.seedEvent("Gala", 2000)
	order := s.seedOrder(ev, "pi_1", 2000)
	admin := s.seedAdmin("organiser", ev)

	rec := s.do(http.MethodGet, "/api/superadmin/events", nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]model.EventWithAdmins](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, []string{"organiser"}, listed[0].AdminUsernames)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/superadmin/events/%d", ev), nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, s.db.orders[order].EventID)
	assert.Empty(t, s.db.admins[admin].EventIDs)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, fmt.Sprintf("/api/superadmin/events/%d", ev), nil, root).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/api/events/%d", ev), nil, "").Code)
}

func TestSuperadminAccounts(t *testing.T) {
	s := newTestServer(t)
	root := s.token(1, model.RoleSuperadmin)
	ev := s.seedEvent("Gala", 2000)

	body := map[string]any{"username": "organiser", "password": "Adm1n!pass", "eventIds": []uint64{ev, ev}}
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/superadmin/create-admin", body, root).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/superadmin/create-admin", body, root).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/superadmin/create-admin",
		map[string]any{"username": "x", "password": "y"}, root).Code)

	rec := s.do(http.MethodGet, "/api/superadmin/admins", nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	admins := decode[[]model.Admin](t, rec)
	require.Len(t, admins, 1)
	assert.Equal(t, []uint64{ev}, admins[0].EventIDs)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, fmt.Sprintf("/api/superadmin/admins/%d", admins[0].ID), nil, root).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, fmt.Sprintf("/api/superadmin/admins/%d", admins[0].ID), nil, root).Code)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/user/register", registration("bob", "Str0ng!pw"), "").Code)
	rec = s.do(http.MethodGet, "/api/superadmin/users", nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]model.User](t, rec)
	require.Len(t, users, 1)
	assert.NotContains(t, rec.Body.String(), "password")

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, fmt.Sprintf("/api/superadmin/users/%d", users[0].ID), nil, root).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/user/profile", nil, s.token(users[0].ID, model.RoleUser)).Code)
}

func TestSellers(t *testing.T) {
	s := newTestServer(t)
	root := s.token(1, model.RoleSuperadmin)
	ev := s.seedEvent("Gala", 2000)

	rec := s.do(http.MethodPost, "/api/sellers", map[string]any{"eventId": ev, "stripeAccountId": " acct_9 "}, root)
	require.Equal(t, http.StatusCreated, rec.Code)
	seller := decode[model.Seller](t, rec)
	assert.Equal(t, "acct_9", seller.StripeAccountID)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/superadmin/sellers", map[string]any{"eventId": ev}, root).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/sellers", map[string]any{"eventId": ev, "stripeAccountId": "a"}, s.token(2, model.RoleUser)).Code)

	rec = s.do(http.MethodGet, "/api/superadmin/sellers", nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Seller](t, rec), 1)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, fmt.Sprintf("/api/superadmin/sellers/%d", seller.ID), nil, root).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, fmt.Sprintf("/api/superadmin/sellers/%d", seller.ID), nil, root).Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
