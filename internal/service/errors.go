// Package service holds the business operations that span more than one
// repository or collaborator: checkout, order placement, accounts, event
// management and the background notification worker.
package service

import "errors"

var (
	// ErrInvalidAmount rejects a payment intent request before the
	// provider is called.
	ErrInvalidAmount = errors.New("invalid amount or event")
	// ErrProvider wraps payment provider failures.  Handlers report it
	// as a generic 500.
	ErrProvider = errors.New("payment provider error")
	// ErrInvalidOrder reports missing or malformed order fields.
	ErrInvalidOrder = errors.New("invalid order data")
	// ErrInvalidInput reports missing or malformed account or event fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrWeakPassword rejects a registration password.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so callers cannot probe for accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
