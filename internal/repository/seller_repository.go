package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// SellerRepo maps events to the connected payment account that receives
// their proceeds.
type SellerRepo struct {
	db *sql.DB
}

func NewSellerRepo(db *sql.DB) *SellerRepo { return &SellerRepo{db: db} }

// Create registers accountID as the seller of eventID.
func (r *SellerRepo) Create(ctx context.Context, eventID uint64, accountID string) (model.Seller, error) {
	accountID = strings.TrimSpace(accountID)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sellers (event_id, stripe_account_id) VALUES (?, ?)", eventID, accountID)
	if err != nil {
		return model.Seller{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Seller{}, err
	}
	return model.Seller{ID: uint64(id), EventID: &eventID, StripeAccountID: accountID}, nil
}

// List returns every seller row.
func (r *SellerRepo) List(ctx context.Context) ([]model.Seller, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, event_id, stripe_account_id FROM sellers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sellers := []model.Seller{}
	for rows.Next() {
		var s model.Seller
		if err := rows.Scan(&s.ID, &s.EventID, &s.StripeAccountID); err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}
	return sellers, rows.Err()
}

// Delete removes a seller row.
func (r *SellerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sellers WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, ErrSellerNotFound)
}

// AccountForEvent returns the payment account of the first seller
// registered for eventID, or ErrSellerNotFound.
func (r *SellerRepo) AccountForEvent(ctx context.Context, eventID uint64) (string, error) {
	var account string
	err := r.db.QueryRowContext(ctx,
		"SELECT stripe_account_id FROM sellers WHERE event_id = ? ORDER BY id LIMIT 1", eventID).Scan(&account)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSellerNotFound
	}
	return account, err
}
