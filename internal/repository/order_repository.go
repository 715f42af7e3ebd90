package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// OrderRepo persists orders.  Listing queries LEFT JOIN events so rows
// whose event was deleted still appear, with a nil EventTitle.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `o.id, o.order_number, o.event_id, o.total, o.first_name, o.last_name,
       o.email, o.phone_number, o.t_shirt_size, o.created_at, o.user_id, e.title`

func scanOrder(s rowScanner, o *model.Order) error {
	return s.Scan(&o.ID, &o.OrderNumber, &o.EventID, &o.Total, &o.FirstName, &o.LastName,
		&o.Email, &o.PhoneNumber, &o.TShirtSize, &o.CreatedAt, &o.UserID, &o.EventTitle)
}

func (r *OrderRepo) list(ctx context.Context, where string, args ...any) ([]model.Order, error) {
	q := "SELECT " + orderColumns + " FROM orders o LEFT JOIN events e ON e.id = o.event_id"
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY o.created_at DESC, o.id DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Create inserts o stamped with the server's current UTC time and fills
// its ID and CreatedAt.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (order_number, event_id, total, first_name, last_name, email, phone_number, t_shirt_size, created_at, user_id)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderNumber, o.EventID, o.Total, o.FirstName, o.LastName, o.Email, o.PhoneNumber, o.TShirtSize, now, o.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	o.CreatedAt = now
	return nil
}

// ListAll returns every order with its event title.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, "")
}

// ListByUser returns the orders placed by userID.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	return r.list(ctx, "o.user_id = ?", userID)
}

// ListByEvents returns the orders whose event is one of eventIDs.  An
// empty set matches nothing.
func (r *OrderRepo) ListByEvents(ctx context.Context, eventIDs []uint64) ([]model.Order, error) {
	if len(eventIDs) == 0 {
		return []model.Order{}, nil
	}
	in, args := inClause(eventIDs)
	return r.list(ctx, "o.event_id IN ("+in+")", args...)
}

// ReceiptByNumber loads the order with the given number together with
// the event fields printed on a receipt.  If scope is non-nil the order's
// event must be one of its ids, otherwise ErrForbidden is returned.
func (r *OrderRepo) ReceiptByNumber(ctx context.Context, number string, scope []uint64) (model.ReceiptOrder, error) {
	const q = `SELECT ` + orderColumns + `, e.date, e.location, e.start_time, e.end_time
               FROM orders o LEFT JOIN events e ON e.id = o.event_id
               WHERE o.order_number = ?
               ORDER BY o.id LIMIT 1`
	var (
		ro                   model.ReceiptOrder
		date                 sql.NullTime
		loc, start, finished sql.NullString
	)
	o := &ro.Order
	err := r.db.QueryRowContext(ctx, q, number).Scan(&o.ID, &o.OrderNumber, &o.EventID, &o.Total,
		&o.FirstName, &o.LastName, &o.Email, &o.PhoneNumber, &o.TShirtSize, &o.CreatedAt, &o.UserID,
		&o.EventTitle, &date, &loc, &start, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return ro, ErrOrderNotFound
	}
	if err != nil {
		return ro, err
	}
	if scope != nil && (o.EventID == nil || !containsID(scope, *o.EventID)) {
		return model.ReceiptOrder{}, ErrForbidden
	}
	ro.EventDate = date.Time
	ro.EventLocation = loc.String
	ro.EventStartTime = start.String
	ro.EventEndTime = finished.String
	return ro, nil
}

// Delete removes an order regardless of its event.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, ErrOrderNotFound)
}

// DeleteInEvents removes an order only if its event is one of eventIDs.
// It returns ErrOrderNotFound for a missing order and ErrForbidden for an
// order outside the set.
func (r *OrderRepo) DeleteInEvents(ctx context.Context, id uint64, eventIDs []uint64) error {
	var eventID sql.NullInt64
	err := r.db.QueryRowContext(ctx, "SELECT event_id FROM orders WHERE id = ?", id).Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if !eventID.Valid || !containsID(eventIDs, uint64(eventID.Int64)) {
		return ErrForbidden
	}
	in, args := inClause(eventIDs)
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM orders WHERE id = ? AND event_id IN ("+in+")", append([]any{id}, args...)...)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, ErrOrderNotFound)
}

// DeleteByEvents removes every order of the given events and reports how
// many rows were deleted.
func (r *OrderRepo) DeleteByEvents(ctx context.Context, eventIDs []uint64) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	in, args := inClause(eventIDs)
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE event_id IN ("+in+")", args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
