// Package repository contains data access logic for events. Events are
// created by superadmins; scoped admins may only edit the description of
// events assigned to them.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// EventRepo manages persistence for events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `e.id, e.title, e.date, e.start_time, e.end_time, e.location, e.price, e.image_url, e.description, e.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner, e *model.Event) error {
	return s.Scan(&e.ID, &e.Title, &e.Date, &e.StartTime, &e.EndTime,
		&e.Location, &e.Price, &e.ImageURL, &e.Description, &e.CreatedAt)
}

// Create inserts e and fills its ID and CreatedAt.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (title, date, start_time, end_time, location, price, image_url, description)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Title, e.Date.Format("2006-01-02"), e.StartTime, e.EndTime,
		e.Location, e.Price, e.ImageURL, e.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM events WHERE id = ?", e.ID).Scan(&e.CreatedAt)
}

// GetByID returns the event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	var e model.Event
	row := r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events e WHERE e.id = ?", id)
	if err := scanEvent(row, &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, ErrEventNotFound
		}
		return e, err
	}
	return e, nil
}

// List returns all events ordered by date and start time.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events e ORDER BY e.date, e.start_time, e.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListWithAdmins returns every event with the usernames of the admins
// assigned to it.  Events without admins carry an empty list.
func (r *EventRepo) ListWithAdmins(ctx context.Context) ([]model.EventWithAdmins, error) {
	const q = `SELECT ` + eventColumns + `,
                      GROUP_CONCAT(a.username ORDER BY a.username SEPARATOR ',')
               FROM events e
               LEFT JOIN admin_events ae ON ae.event_id = e.id
               LEFT JOIN admins a ON a.id = ae.admin_id
               GROUP BY e.id
               ORDER BY e.date, e.start_time, e.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.EventWithAdmins{}
	for rows.Next() {
		var (
			ew    model.EventWithAdmins
			names sql.NullString
		)
		e := &ew.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.StartTime, &e.EndTime,
			&e.Location, &e.Price, &e.ImageURL, &e.Description, &e.CreatedAt, &names); err != nil {
			return nil, err
		}
		ew.AdminUsernames = []string{}
		if names.Valid && names.String != "" {
			ew.AdminUsernames = strings.Split(names.String, ",")
		}
		out = append(out, ew)
	}
	return out, rows.Err()
}

// UpdateDescription replaces the description of an event.
func (r *EventRepo) UpdateDescription(ctx context.Context, id uint64, description string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE events SET description = ? WHERE id = ?", description, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, ErrEventNotFound)
}

// Delete removes an event as one unit of work.  Orders, sellers and
// payment intents that reference it keep their rows with event_id set to
// NULL; admin_events rows for it are removed.  When the event does not
// exist ErrEventNotFound is returned and every step is rolled back.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	return database.WithTx(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, q := range []string{
			"UPDATE orders SET event_id = NULL WHERE event_id = ?",
			"UPDATE sellers SET event_id = NULL WHERE event_id = ?",
			"UPDATE payment_intents SET event_id = NULL WHERE event_id = ?",
			"DELETE FROM admin_events WHERE event_id = ?",
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res, ErrEventNotFound)
	})
}
