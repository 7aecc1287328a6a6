package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), parsed)
}

func TestParseDateEmptyIsAllowed(t *testing.T) {
	parsed, err := parseDate("")
	assert.NoError(t, err)
	assert.True(t, parsed.IsZero())
}

func TestParseDateRejectsMalformed(t *testing.T) {
	for _, input := range []string{"15-03-2026", "2026/03/15", "not-a-date"} {
		_, err := parseDate(input)
		assert.Error(t, err, input)
	}
}
