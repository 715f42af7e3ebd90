package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
)

func TestSellerAccountForEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT stripe_account_id FROM sellers").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"stripe_account_id"}).AddRow("acct_123"))
	mock.ExpectQuery("SELECT stripe_account_id FROM sellers").WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"stripe_account_id"}))

	repo := NewSellerRepo(db)
	acct, err := repo.AccountForEvent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "acct_123", acct)

	_, err = repo.AccountForEvent(context.Background(), 4)
	assert.ErrorIs(t, err, ErrSellerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerCreateTrimsAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO sellers").WithArgs(3, "acct_9").WillReturnResult(sqlmock.NewResult(2, 1))

	s, err := NewSellerRepo(db).Create(context.Background(), 3, " acct_9 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.ID)
	assert.Equal(t, "acct_9", s.StripeAccountID)
	assert.Equal(t, uint64(3), *s.EventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentIntentLifecycle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO payment_intents").
		WithArgs("pi_1", 3, nil, 4500, 50, "acct_1", model.IntentCreated).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE payment_intents SET status").
		WithArgs(model.IntentSucceeded, "pi_1", model.IntentFulfilled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payment_intents SET status").
		WithArgs(model.IntentFailed, "pi_gone", model.IntentFulfilled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE payment_intents SET status = \\?, order_id").
		WithArgs(model.IntentFulfilled, 21, "pi_1", model.IntentCreated, model.IntentSucceeded, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPaymentIntentRepo(db)
	eventID := uint64(3)
	p := &model.PaymentIntent{IntentID: "pi_1", EventID: &eventID, Amount: 4500, ApplicationFee: 50, DestinationAccount: "acct_1"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, model.IntentCreated, p.Status)

	require.NoError(t, repo.UpdateStatus(context.Background(), "pi_1", model.IntentSucceeded))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), "pi_gone", model.IntentFailed), ErrIntentNotFound)
	require.NoError(t, repo.MarkFulfilled(context.Background(), "pi_1", 21, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentIntentMarkFulfilledOnlyClaimsOpenOwnIntent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// failed, already fulfilled, or recorded for another user: no row matches
	mock.ExpectExec("WHERE intent_id = \\? AND order_id IS NULL AND status IN \\(\\?, \\?\\)\\s+AND \\(user_id IS NULL OR user_id = \\?\\)").
		WithArgs(model.IntentFulfilled, 30, "pi_other", model.IntentCreated, model.IntentSucceeded, 8).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPaymentIntentRepo(db)
	err = repo.MarkFulfilled(context.Background(), "pi_other", 30, 8)
	assert.ErrorIs(t, err, ErrIntentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentIntentListUnreconciled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	old := cutoff.Add(-time.Hour)
	mock.ExpectQuery("WHERE status = \\? AND order_id IS NULL").
		WithArgs(model.IntentSucceeded, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "intent_id", "event_id", "user_id", "amount",
			"application_fee", "destination_account", "status", "order_id", "created_at", "updated_at"}).
			AddRow(1, "pi_lost", 3, 7, 4500, 50, "acct_1", model.IntentSucceeded, nil, old, old))

	list, err := NewPaymentIntentRepo(db).ListUnreconciled(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pi_lost", list[0].IntentID)
	assert.Nil(t, list[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
