package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// SuperadminRepo reads and bootstraps superadmin accounts.  Superadmins
// are only created from the operator CLI.
type SuperadminRepo struct {
	db *sql.DB
}

func NewSuperadminRepo(db *sql.DB) *SuperadminRepo { return &SuperadminRepo{db: db} }

// Create inserts a superadmin with an already hashed password.
func (r *SuperadminRepo) Create(ctx context.Context, username, passwordHash string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO superadmins (username, password_hash) VALUES (?, ?)",
		strings.TrimSpace(username), passwordHash)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CredentialByUsername fetches id and password hash for superadmin login.
func (r *SuperadminRepo) CredentialByUsername(ctx context.Context, username string) (model.Credential, error) {
	return credentialByUsername(ctx, r.db, "superadmins", strings.TrimSpace(username), ErrNotFound)
}
