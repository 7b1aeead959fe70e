package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-09")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 9, d.Day())

	_, err = ParseDate("09/02/2026")
	assert.Error(t, err)
}

func TestWorkingDays(t *testing.T) {
	// Monday 2026-03-02 through Friday 2026-03-06
	start, _ := ParseDate("2026-03-02")
	end, _ := ParseDate("2026-03-06")
	assert.Equal(t, 5, WorkingDays(start, end))

	// across a weekend: Friday through Monday is two working days
	start, _ = ParseDate("2026-03-06")
	end, _ = ParseDate("2026-03-09")
	assert.Equal(t, 2, WorkingDays(start, end))

	// single weekend day
	sat, _ := ParseDate("2026-03-07")
	assert.Equal(t, 0, WorkingDays(sat, sat))

	// inverted range
	assert.Equal(t, 0, WorkingDays(end, start))
}
