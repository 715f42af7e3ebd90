package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewOrderNumber returns an opaque order number for orders that were not
// paid through the payment provider (for example admin-entered sales).
// It is the 13 leading hex digits of a random UUID, matching the length of
// the tokens already in the orders table.
func NewOrderNumber() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
}
