// Package cart holds the customer's order lines and keeps them in the local
// store after every change.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"kantin-be/internal/localstore"
	"kantin-be/internal/menu"
)

// Cart is safe for concurrent use. Mutations apply in memory first and then
// write the full cart through; the returned error only reports the write.
type Cart struct {
	mu    sync.Mutex
	items []OrderItem
	kv    localstore.KV
}

func New(kv localstore.KV) *Cart {
	return &Cart{kv: kv, items: []OrderItem{}}
}

// Restore replaces the in-memory cart with the stored one. A missing entry
// yields an empty cart and no error. A corrupt entry also yields an empty
// cart, and the error wraps ErrCorruptCart.
func (c *Cart) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []OrderItem{}

	raw, err := c.kv.Get(StorageKey)
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read cart: %w", err)
	}

	items, err := Unmarshal(raw)
	if err != nil {
		return err
	}
	c.items = items
	return nil
}

func (c *Cart) Items() []OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]OrderItem, len(c.items))
	copy(out, c.items)
	return out
}

// Add merges into an existing line for the same item, keeping its notes.
// A non-positive quantity counts as 1.
func (c *Cart) Add(item menu.MenuItem, quantity int, notes string) error {
	if quantity <= 0 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(item.ID); i >= 0 {
		c.items[i].Quantity = clamp(c.items[i].Quantity + quantity)
	} else {
		c.items = append(c.items, OrderItem{
			MenuItem: item,
			Quantity: clamp(quantity),
			Notes:    notes,
		})
	}
	return c.persist()
}

// UpdateQuantity removes the line when quantity <= 0.
func (c *Cart) UpdateQuantity(menuItemID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(menuItemID)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	} else {
		c.items[i].Quantity = clamp(quantity)
	}
	return c.persist()
}

func (c *Cart) Remove(menuItemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(menuItemID)
	if i < 0 {
		return nil
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return c.persist()
}

func (c *Cart) UpdateNotes(menuItemID, notes string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(menuItemID)
	if i < 0 {
		return nil
	}
	c.items[i].Notes = notes
	return c.persist()
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []OrderItem{}
	return c.persist()
}

// Total is recomputed on every call.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, it := range c.items {
		total += it.Subtotal()
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) indexOf(menuItemID string) int {
	for i, it := range c.items {
		if it.MenuItem.ID == menuItemID {
			return i
		}
	}
	return -1
}

// caller holds c.mu
func (c *Cart) persist() error {
	raw, err := Marshal(c.items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.kv.Set(StorageKey, raw); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}
