package cart

import (
	"errors"

	"kantin-be/internal/menu"
)

// StorageKey is where the serialized cart lives in the local store.
const StorageKey = "restaurant_cart"

// MaxQuantity caps a single line.
const MaxQuantity = 99

var ErrCorruptCart = errors.New("stored cart is corrupt")

// OrderItem is one cart line. MenuItem is a snapshot taken when the line was
// added; later catalog edits do not reach it.
type OrderItem struct {
	MenuItem menu.MenuItem `json:"menuItem"`
	Quantity int           `json:"quantity"`
	Notes    string        `json:"notes,omitempty"`
}

func (o OrderItem) Subtotal() int64 {
	return o.MenuItem.Price * int64(o.Quantity)
}

func clamp(q int) int {
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
