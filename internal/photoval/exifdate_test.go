package photoval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEXIFDateCanonicalForm(t *testing.T) {
	parsed, ok := ParseEXIFDate("2024:06:15 09:30:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.June, 15, 9, 30, 0, 0, time.Local), parsed)
}

func TestParseEXIFDateEmbeddedTimestamp(t *testing.T) {
	// Some writers append sub-second or offset noise; the pattern match
	// only needs the core timestamp.
	parsed, ok := ParseEXIFDate("2023:12:31 23:59:59.123")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.December, 31, 23, 59, 59, 0, time.Local), parsed)
}

func TestParseEXIFDateFallbacks(t *testing.T) {
	parsed, ok := ParseEXIFDate("2024-06-15T09:30:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.June, 15, 9, 30, 0, 0, time.Local), parsed)

	parsed, ok = ParseEXIFDate("2024-06-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.Local), parsed)
}

func TestParseEXIFDateUnparseable(t *testing.T) {
	for _, input := range []string{"", "not a date", "15/06/2024", "2024:06 15"} {
		_, ok := ParseEXIFDate(input)
		assert.False(t, ok, input)
	}
}
