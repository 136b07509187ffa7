package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_UsesBusinessLocation(t *testing.T) {
	require.NoError(t, SetLocation("Asia/Kolkata"))
	defer SetLocation("UTC")

	// 2025-03-10 20:00 UTC = 2025-03-11 01:30 IST
	restore := SetNow(func() time.Time {
		return time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	})
	defer restore()

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Today())
}

func TestSetLocation_Invalid(t *testing.T) {
	assert.Error(t, SetLocation("Nowhere/Invalid"))
}

func TestDateHelpers(t *testing.T) {
	d := time.Date(2025, 1, 31, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), DateOf(d))
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), AddDays(d, 30))
	assert.Equal(t, 30, DaysBetween(d, AddDays(d, 30)))
	assert.Equal(t, -5, DaysBetween(d, AddDays(d, -5)))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(d))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("28/02/2025")
	assert.Error(t, err)

	empty, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestStartOfDay(t *testing.T) {
	require.NoError(t, SetLocation("Asia/Kolkata"))
	defer SetLocation("UTC")

	start := StartOfDay(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC), start.UTC())
}
