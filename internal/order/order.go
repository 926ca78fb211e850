// Package order turns a cart into a pre-filled WhatsApp message.
package order

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"kantin-be/internal/cart"
	"kantin-be/internal/settings"
	"kantin-be/internal/utils"
	"kantin-be/internal/validation"
)

const (
	PlaceholderOrderDetails = "{orderDetails}"
	PlaceholderTotalPrice   = "{totalPrice}"
)

var ErrEmptyCart = validation.Error{Field: "cart", Message: "cart is empty"}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

func (c Customer) Validate() error {
	return validation.Required("name", c.Name)
}

// Handoff is one submitted order as it left the kiosk.
type Handoff struct {
	Ref       string           `json:"ref"`
	Customer  Customer         `json:"customer"`
	Items     []cart.OrderItem `json:"items"`
	Total     int64            `json:"total"`
	Message   string           `json:"message"`
	Link      string           `json:"link"`
	CreatedAt time.Time        `json:"createdAt"`
}

// BuildOrderDetails renders one "• <qty>x <name> - <subtotal>" line per item.
func BuildOrderDetails(items []cart.OrderItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines,
			"• "+strconv.Itoa(it.Quantity)+"x "+it.MenuItem.Name+" - "+utils.FormatIDR(it.Subtotal()))
	}
	return strings.Join(lines, "\n")
}

func BuildMessage(tmpl string, c Customer, items []cart.OrderItem, total int64) string {
	body := strings.NewReplacer(
		PlaceholderOrderDetails, BuildOrderDetails(items),
		PlaceholderTotalPrice, utils.FormatIDR(total),
	).Replace(tmpl)

	var b strings.Builder
	b.WriteString("*Nama:* " + strings.TrimSpace(c.Name) + "\n")
	b.WriteString("*Telepon:* " + strings.TrimSpace(c.Phone) + "\n\n")
	b.WriteString(body)

	if notes := strings.TrimSpace(c.Notes); notes != "" {
		b.WriteString("\n\n*Catatan:* " + notes)
	}
	return b.String()
}

// BuildLink addresses the message to number on the click-to-chat host.
// Non-digits are dropped from the number.
func BuildLink(baseURL, number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return strings.TrimRight(baseURL, "/") + "/" + digits + "?text=" + text
}

// Prepare validates the customer and the cart and builds the handoff.
func Prepare(s settings.Settings, baseURL string, c Customer, items []cart.OrderItem) (*Handoff, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}

	msg := BuildMessage(s.WhatsAppMessage, c, items, total)
	return &Handoff{
		Ref:       utils.GenerateOrderRef(),
		Customer:  c,
		Items:     items,
		Total:     total,
		Message:   msg,
		Link:      BuildLink(baseURL, s.WhatsAppNumber, msg),
		CreatedAt: time.Now(),
	}, nil
}
