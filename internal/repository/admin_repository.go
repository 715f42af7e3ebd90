package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// AdminRepo manages admins and their admin_events assignments.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo constructs an AdminRepo.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// Create inserts the admin and one admin_events row per event id as a
// single unit of work.  Duplicate event ids are collapsed.  A username
// collision yields ErrUsernameExists and nothing is written.
func (r *AdminRepo) Create(ctx context.Context, username, passwordHash string, eventIDs []uint64) (uint64, error) {
	var adminID uint64
	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO admins (username, password_hash) VALUES (?, ?)",
			strings.TrimSpace(username), passwordHash)
		if err != nil {
			if database.IsDuplicateKey(err) {
				return ErrUsernameExists
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		adminID = uint64(id)
		seen := make(map[uint64]bool, len(eventIDs))
		for _, eid := range eventIDs {
			if seen[eid] {
				continue
			}
			seen[eid] = true
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO admin_events (admin_id, event_id) VALUES (?, ?)",
				adminID, eid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return adminID, nil
}

// CredentialByUsername fetches id and password hash for admin login.
// Admin usernames are matched exactly as stored.
func (r *AdminRepo) CredentialByUsername(ctx context.Context, username string) (model.Credential, error) {
	return credentialByUsername(ctx, r.db, "admins", strings.TrimSpace(username), ErrAdminNotFound)
}

// EventIDs returns the ids of the events assigned to adminID in ascending
// order.  An empty slice means the admin is not provisioned.
func (r *AdminRepo) EventIDs(ctx context.Context, adminID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT event_id FROM admin_events WHERE admin_id = ? ORDER BY event_id", adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List returns every admin together with the event ids assigned to it.
func (r *AdminRepo) List(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, created_at FROM admins ORDER BY id")
	if err != nil {
		return nil, err
	}
	admins := []model.Admin{}
	index := map[uint64]int{}
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		a.EventIDs = []uint64{}
		index[a.ID] = len(admins)
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	joins, err := r.db.QueryContext(ctx,
		"SELECT admin_id, event_id FROM admin_events ORDER BY admin_id, event_id")
	if err != nil {
		return nil, err
	}
	defer joins.Close()
	for joins.Next() {
		var adminID, eventID uint64
		if err := joins.Scan(&adminID, &eventID); err != nil {
			return nil, err
		}
		if i, ok := index[adminID]; ok {
			admins[i].EventIDs = append(admins[i].EventIDs, eventID)
		}
	}
	return admins, joins.Err()
}

// Delete removes the admin's event assignments and the admin row in one
// transaction.  ErrAdminNotFound is returned (and nothing is removed)
// when the admin does not exist.
func (r *AdminRepo) Delete(ctx context.Context, id uint64) error {
	return database.WithTx(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM admin_events WHERE admin_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM admins WHERE id = ?", id)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res, ErrAdminNotFound)
	})
}
