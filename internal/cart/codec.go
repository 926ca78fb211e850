package cart

import (
	"encoding/json"
	"fmt"
)

func Marshal(items []OrderItem) (string, error) {
	if items == nil {
		items = []OrderItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Unmarshal rejects anything that could not have been written by Marshal
// from a valid cart.
func Unmarshal(raw string) ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}

	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if it.MenuItem.ID == "" || it.Quantity < 1 {
			return nil, fmt.Errorf("%w: invalid line %d", ErrCorruptCart, i)
		}
		if seen[it.MenuItem.ID] {
			return nil, fmt.Errorf("%w: duplicate line for %s", ErrCorruptCart, it.MenuItem.ID)
		}
		seen[it.MenuItem.ID] = true
		items[i].Quantity = clamp(it.Quantity)
	}

	if items == nil {
		items = []OrderItem{}
	}
	return items, nil
}
