package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campora/campora/internal/app/models"
)

func TestApplyAbsenceRate(t *testing.T) {
	summary := &models.AttendanceSummary{Total: 10, Present: 6, Late: 1, Absent: 3}
	applyAbsenceRate(summary, 0.25)

	assert.InDelta(t, 0.3, summary.AbsenceRate, 0.0001)
	assert.True(t, summary.Flagged)
}

func TestApplyAbsenceRateLateAndExcusedNotAbsent(t *testing.T) {
	summary := &models.AttendanceSummary{Total: 10, Present: 4, Late: 3, Excused: 2, Absent: 1}
	applyAbsenceRate(summary, 0.25)

	assert.InDelta(t, 0.1, summary.AbsenceRate, 0.0001)
	assert.False(t, summary.Flagged)
}

func TestApplyAbsenceRateAtThresholdNotFlagged(t *testing.T) {
	summary := &models.AttendanceSummary{Total: 4, Present: 3, Absent: 1}
	applyAbsenceRate(summary, 0.25)

	assert.InDelta(t, 0.25, summary.AbsenceRate, 0.0001)
	assert.False(t, summary.Flagged)
}

func TestApplyAbsenceRateNoSessions(t *testing.T) {
	summary := &models.AttendanceSummary{}
	applyAbsenceRate(summary, 0.25)

	assert.Equal(t, 0.0, summary.AbsenceRate)
	assert.False(t, summary.Flagged)
}
