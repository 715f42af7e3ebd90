package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// PaymentIntentRepo tracks checkout attempts so that charges without a
// matching order can be found later.
type PaymentIntentRepo struct {
	db *sql.DB
}

func NewPaymentIntentRepo(db *sql.DB) *PaymentIntentRepo { return &PaymentIntentRepo{db: db} }

// Create inserts p.  Status defaults to created.
func (r *PaymentIntentRepo) Create(ctx context.Context, p *model.PaymentIntent) error {
	if p.Status == "" {
		p.Status = model.IntentCreated
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_intents (intent_id, event_id, user_id, amount, application_fee, destination_account, status)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.IntentID, p.EventID, p.UserID, p.Amount, p.ApplicationFee, p.DestinationAccount, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// UpdateStatus moves the intent to status unless it is already
// fulfilled.  ErrIntentNotFound is returned when no unfulfilled row has
// that intent id.
func (r *PaymentIntentRepo) UpdateStatus(ctx context.Context, intentID, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE payment_intents SET status = ? WHERE intent_id = ? AND status <> ?",
		status, intentID, model.IntentFulfilled)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, ErrIntentNotFound)
}

// MarkFulfilled links the intent to the order that was stored for it.
// Only an open intent (created or succeeded, no order yet) is claimed, and
// an intent recorded for a user can only be claimed by that user's order.
// userID is 0 for orders without a user.  ErrIntentNotFound covers every
// row that does not qualify.
func (r *PaymentIntentRepo) MarkFulfilled(ctx context.Context, intentID string, orderID, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment_intents SET status = ?, order_id = ?
         WHERE intent_id = ? AND order_id IS NULL AND status IN (?, ?)
           AND (user_id IS NULL OR user_id = ?)`,
		model.IntentFulfilled, orderID, intentID, model.IntentCreated, model.IntentSucceeded, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, ErrIntentNotFound)
}

// ListUnreconciled returns intents that succeeded at the provider before
// olderThan but never got an order.
func (r *PaymentIntentRepo) ListUnreconciled(ctx context.Context, olderThan time.Time) ([]model.PaymentIntent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, intent_id, event_id, user_id, amount, application_fee, destination_account, status, order_id, created_at, updated_at
         FROM payment_intents
         WHERE status = ? AND order_id IS NULL AND updated_at < ?
         ORDER BY updated_at`,
		model.IntentSucceeded, olderThan.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.PaymentIntent{}
	for rows.Next() {
		var p model.PaymentIntent
		if err := rows.Scan(&p.ID, &p.IntentID, &p.EventID, &p.UserID, &p.Amount, &p.ApplicationFee,
			&p.DestinationAccount, &p.Status, &p.OrderID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
