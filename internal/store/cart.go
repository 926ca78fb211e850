package store

import (
	"context"
	"errors"

	"kantin-be/internal/cart"
	"kantin-be/internal/menu"
)

var ErrItemUnavailable = errors.New("menu item is not available")

// Cart mutations are local and synchronous. Each one writes the whole cart to
// the local store; a failed write is logged and the in-memory change stays.

func (s *Store) Cart() []cart.OrderItem {
	return s.cart.Items()
}

// AddToCart merges into an existing line. quantity <= 0 counts as 1.
func (s *Store) AddToCart(item menu.MenuItem, quantity int, notes string) {
	bestEffort(context.Background(), "persist cart", s.cart.Add(item, quantity, notes))
}

// AddToCartByID resolves id against the loaded menu first.
func (s *Store) AddToCartByID(id string, quantity int, notes string) error {
	item, ok := s.MenuItem(id)
	if !ok {
		return menu.ErrMenuItemNotFound
	}
	if !item.IsAvailable {
		return ErrItemUnavailable
	}
	s.AddToCart(item, quantity, notes)
	return nil
}

// UpdateCartItemQuantity removes the line when quantity <= 0.
func (s *Store) UpdateCartItemQuantity(menuItemID string, quantity int) {
	bestEffort(context.Background(), "persist cart", s.cart.UpdateQuantity(menuItemID, quantity))
}

func (s *Store) RemoveFromCart(menuItemID string) {
	bestEffort(context.Background(), "persist cart", s.cart.Remove(menuItemID))
}

func (s *Store) UpdateCartItemNotes(menuItemID, notes string) {
	bestEffort(context.Background(), "persist cart", s.cart.UpdateNotes(menuItemID, notes))
}

func (s *Store) ClearCart() {
	bestEffort(context.Background(), "persist cart", s.cart.Clear())
}

func (s *Store) CartTotal() int64 {
	return s.cart.Total()
}

func (s *Store) CartCount() int {
	return s.cart.Count()
}
