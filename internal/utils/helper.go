package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// FormatIDR renders an amount in rupiah with dot thousand separators,
// e.g. 1500000 -> "Rp 1.500.000".
func FormatIDR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	return sign + "Rp " + b.String()
}

// Ptr returns a pointer to v, for filling partial-update payloads.
func Ptr[T any](v T) *T {
	return &v
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{"error": message})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
