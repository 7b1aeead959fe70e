package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campora/campora/internal/app/models"
)

func TestLetterFor(t *testing.T) {
	tests := []struct {
		score  float64
		letter string
	}{
		{100, "AA"},
		{90, "AA"},
		{89.9, "BA"},
		{85, "BA"},
		{80, "BB"},
		{75, "CB"},
		{70, "CC"},
		{65, "DC"},
		{60, "DD"},
		{59.9, "FD"},
		{50, "FD"},
		{49.9, "FF"},
		{0, "FF"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.letter, LetterFor(tc.score), "score %.1f", tc.score)
	}
}

func TestPointsFor(t *testing.T) {
	assert.Equal(t, 4.0, PointsFor("AA"))
	assert.Equal(t, 3.5, PointsFor("BA"))
	assert.Equal(t, 1.0, PointsFor("DD"))
	assert.Equal(t, 0.5, PointsFor("FD"))
	assert.Equal(t, 0.0, PointsFor("FF"))
	assert.Equal(t, 0.0, PointsFor("unknown"))
}

func TestIsPassing(t *testing.T) {
	assert.True(t, IsPassing("AA"))
	assert.True(t, IsPassing("DD"))
	assert.False(t, IsPassing("FD"))
	assert.False(t, IsPassing("FF"))
}

// The prerequisite query excludes models.FailingLetters; keep that set in
// step with IsPassing for every letter on the scale.
func TestFailingLettersMatchIsPassing(t *testing.T) {
	letters := []string{"AA", "BA", "BB", "CB", "CC", "DC", "DD", "FD", "FF"}
	for _, letter := range letters {
		failing := false
		for _, f := range models.FailingLetters {
			if f == letter {
				failing = true
			}
		}
		assert.Equal(t, !failing, IsPassing(letter), "letter %s", letter)
	}
}

func TestFinalScore(t *testing.T) {
	components := []*models.GradeComponent{
		{ID: 1, Name: "Midterm", Weight: 40, MaxScore: 100},
		{ID: 2, Name: "Final", Weight: 60, MaxScore: 50},
	}
	entries := []*models.GradeEntry{
		{ComponentID: 1, Score: 80},
		{ComponentID: 2, Score: 45},
	}

	// 80/100*40 + 45/50*60 = 32 + 54
	assert.InDelta(t, 86.0, FinalScore(components, entries), 0.0001)
}

func TestFinalScoreMissingEntryCountsZero(t *testing.T) {
	components := []*models.GradeComponent{
		{ID: 1, Weight: 40, MaxScore: 100},
		{ID: 2, Weight: 60, MaxScore: 100},
	}
	entries := []*models.GradeEntry{
		{ComponentID: 1, Score: 100},
	}

	assert.InDelta(t, 40.0, FinalScore(components, entries), 0.0001)
}

func TestFinalScoreSkipsZeroMaxComponent(t *testing.T) {
	components := []*models.GradeComponent{
		{ID: 1, Weight: 100, MaxScore: 0},
	}
	entries := []*models.GradeEntry{
		{ComponentID: 1, Score: 50},
	}

	assert.Equal(t, 0.0, FinalScore(components, entries))
}

func TestWeightsComplete(t *testing.T) {
	assert.True(t, WeightsComplete([]*models.GradeComponent{
		{Weight: 40}, {Weight: 60},
	}))
	assert.True(t, WeightsComplete([]*models.GradeComponent{
		{Weight: 33.3333}, {Weight: 33.3333}, {Weight: 33.3334},
	}))
	assert.False(t, WeightsComplete([]*models.GradeComponent{
		{Weight: 40}, {Weight: 50},
	}))
	assert.False(t, WeightsComplete([]*models.GradeComponent{
		{Weight: 60}, {Weight: 60},
	}))
	assert.False(t, WeightsComplete(nil))
}

func TestSemesterGPA(t *testing.T) {
	lines := []models.TranscriptLine{
		{Credits: 3, GradePoints: 4.0},
		{Credits: 4, GradePoints: 2.0},
		{Credits: 3, GradePoints: 3.0},
	}

	gpa, credits := SemesterGPA(lines)
	assert.Equal(t, 10, credits)
	assert.InDelta(t, 2.9, gpa, 0.0001)
}

func TestSemesterGPAEmpty(t *testing.T) {
	gpa, credits := SemesterGPA(nil)
	assert.Equal(t, 0, credits)
	assert.Equal(t, 0.0, gpa)
}

func TestCumulativeGPA(t *testing.T) {
	semesters := []models.TranscriptSemester{
		{Lines: []models.TranscriptLine{
			{Credits: 3, GradePoints: 4.0},
			{Credits: 3, GradePoints: 2.0},
		}},
		{Lines: []models.TranscriptLine{
			{Credits: 6, GradePoints: 3.0},
		}},
	}

	gpa, credits := CumulativeGPA(semesters)
	assert.Equal(t, 12, credits)
	assert.InDelta(t, 3.0, gpa, 0.0001)
}
