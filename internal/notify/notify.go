// Package notify mirrors submitted orders to side channels: a Telegram chat
// for the owner and a RabbitMQ exchange for the kitchen display.
package notify

import (
	"context"
	"errors"

	"kantin-be/internal/order"
)

type Notifier interface {
	NotifyOrder(ctx context.Context, h *order.Handoff) error
}

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyOrder(ctx context.Context, h *order.Handoff) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyOrder(ctx, h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OrderLine and OrderMessage are the wire shape of a mirrored order.
type OrderLine struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	Notes      string `json:"notes,omitempty"`
}

type OrderMessage struct {
	Ref           string      `json:"ref"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Items         []OrderLine `json:"items"`
	Total         int64       `json:"total"`
	CreatedAt     string      `json:"created_at"`
}

func toMessage(h *order.Handoff) OrderMessage {
	lines := make([]OrderLine, 0, len(h.Items))
	for _, it := range h.Items {
		lines = append(lines, OrderLine{
			MenuItemID: it.MenuItem.ID,
			Name:       it.MenuItem.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.MenuItem.Price,
			Notes:      it.Notes,
		})
	}
	return OrderMessage{
		Ref:           h.Ref,
		CustomerName:  h.Customer.Name,
		CustomerPhone: h.Customer.Phone,
		Notes:         h.Customer.Notes,
		Items:         lines,
		Total:         h.Total,
		CreatedAt:     h.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
