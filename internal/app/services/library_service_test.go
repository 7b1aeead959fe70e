package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueFineOnTime(t *testing.T) {
	due := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("0.50")

	assert.Nil(t, OverdueFine(due, due, rate))
	assert.Nil(t, OverdueFine(due, due.AddDate(0, 0, -2), rate))
}

func TestOverdueFineWholeDays(t *testing.T) {
	due := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("0.50")

	fine := OverdueFine(due, due.AddDate(0, 0, 4), rate)
	require.NotNil(t, fine)
	assert.True(t, fine.Equal(decimal.NewFromInt(2)))
}

func TestOverdueFinePartialDayRoundsUp(t *testing.T) {
	due := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("0.50")

	fine := OverdueFine(due, due.Add(26*time.Hour), rate)
	require.NotNil(t, fine)
	assert.True(t, fine.Equal(decimal.NewFromInt(1)))
}
