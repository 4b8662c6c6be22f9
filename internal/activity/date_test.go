package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	require.Equal(t, march15, d)
	require.Equal(t, "2024-03-15", d.String())

	_, err = ParseDate("15/03/2024")
	require.Error(t, err)
}

func TestDateOfIgnoresClock(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	d := DateOf(time.Date(2024, time.March, 15, 23, 59, 0, 0, loc))
	require.Equal(t, march15, d)
	require.True(t, d.SameMonth(Date{Year: 2024, Month: 3, Day: 1}))
	require.False(t, d.SameMonth(Date{Year: 2023, Month: 3, Day: 15}))
}

func TestDateOrdering(t *testing.T) {
	require.True(t, Date{Year: 2024, Month: 2, Day: 29}.Before(march15))
	require.False(t, march15.Before(march15))
	require.True(t, Date{}.IsZero())
}
