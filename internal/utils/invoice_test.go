package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderRef(t *testing.T) {
	ref := GenerateOrderRef()

	assert.True(t, strings.HasPrefix(ref, "ORD-"))

	parts := strings.Split(ref, "-")
	if assert.Len(t, parts, 5) {
		assert.Len(t, parts[1], 8, "date part YYYYMMDD")
		assert.Len(t, parts[2], 6, "time part HHMMSS")
		assert.Len(t, parts[3], 3, "milliseconds")
		assert.Len(t, parts[4], 4, "random suffix")
	}
}
