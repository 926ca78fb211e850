package settings

import (
	"strings"

	"kantin-be/internal/validation"
)

// Validate checks the fields an order handoff cannot work without.
func Validate(s Settings) error {
	return validation.First(
		validation.Required("restaurantName", s.RestaurantName),
		validation.Required("whatsappNumber", s.WhatsAppNumber),
		ValidateNumber(s.WhatsAppNumber),
	)
}

// ValidateNumber accepts an international number of digits with an optional
// leading "+". Empty input passes; Required covers that case.
func ValidateNumber(number string) error {
	for _, r := range strings.TrimPrefix(number, "+") {
		if r < '0' || r > '9' {
			return validation.Error{Field: "whatsappNumber", Message: "whatsappNumber must contain digits only"}
		}
	}
	return nil
}
