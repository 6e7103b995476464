package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	t.Run("HH:MM", func(t *testing.T) {
		ts, err := NewTimeStringFromString("10:30")
		require.NoError(t, err)
		assert.Equal(t, TimeString("10:30"), ts)
	})

	t.Run("HH:MM:SS from database", func(t *testing.T) {
		ts, err := NewTimeStringFromString("09:05:00")
		require.NoError(t, err)
		assert.Equal(t, TimeString("09:05"), ts)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := NewTimeStringFromString("25:00")
		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})
}

func TestTimeString_Arithmetic(t *testing.T) {
	ts := MustTimeString("23:00")

	next, err := ts.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:30"), next)

	_, err = ts.AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	assert.True(t, MustTimeString("09:00").IsBefore(MustTimeString("10:00")))
	assert.True(t, MustTimeString("10:00").IsAfter(MustTimeString("09:59")))
	assert.False(t, MustTimeString("10:00").IsBefore(MustTimeString("10:00")))
	assert.Equal(t, 600, MustTimeString("10:00").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:45"), ts)

	require.NoError(t, ts.Scan([]byte("07:15:00")))
	assert.Equal(t, TimeString("07:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	got := MustTimeString("10:00").On(date)

	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, loc), got)
}
