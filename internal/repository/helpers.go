package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inClause returns "?,?,?" for n placeholders and the ids as driver args.
func inClause(ids []uint64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

// credentialByUsername loads the id and hash of a principal from one of
// the three principal tables.  table is never user input.
func credentialByUsername(ctx context.Context, q querier, table, username string, notFound error) (model.Credential, error) {
	var c model.Credential
	err := q.QueryRowContext(ctx,
		"SELECT id, username, password_hash FROM "+table+" WHERE username = ? LIMIT 1",
		username).Scan(&c.ID, &c.Username, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return c, notFound
	}
	return c, err
}

// affectedOrNotFound turns a zero RowsAffected into notFound.
func affectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
