package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	_, err = NewTimeStringFromString("9:30")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = NewTimeStringFromString("10:60")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = NewTimeStringFromString("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("10:00").IsBefore("10:30"))
	assert.False(t, TimeString("10:30").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))

	assert.True(t, TimeString("18:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("10:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, "11:30", ts.String())

	ts, err = TimeString("23:00").AddMinutes(59)
	require.NoError(t, err)
	assert.Equal(t, "23:59", ts.String())
}

func TestTimeString_AddMinutes_CrossesMidnight(t *testing.T) {
	_, err := TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_MinutesSinceMidnight(t *testing.T) {
	minutes, err := TimeString("00:00").MinutesSinceMidnight()
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)

	minutes, err = TimeString("10:30").MinutesSinceMidnight()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)

	minutes, err = TimeString("23:59").MinutesSinceMidnight()
	require.NoError(t, err)
	assert.Equal(t, 1439, minutes)

	_, err = TimeString("bad").MinutesSinceMidnight()
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_On(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	moment, err := TimeString("14:30").On(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC), moment)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(2026, 9, 15, 12, 45, 0, 0, time.UTC)))
	assert.Equal(t, "12:45", ts.String())

	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, "10:30", ts.String())

	require.NoError(t, ts.Scan([]byte("08:15:00")))
	assert.Equal(t, "08:15", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.ErrorIs(t, ts.Scan(42), ErrScanFailed)
	assert.ErrorIs(t, ts.Scan("garbage"), ErrScanFailed)
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:30:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bad").Value()
	assert.Error(t, err)
}
