package services

import "github.com/campora/campora/internal/app/models"

// weightTolerance absorbs float drift when checking that weights total 100.
const weightTolerance = 0.001

// LetterFor buckets a 0-100 final score into a letter grade.
func LetterFor(score float64) string {
	switch {
	case score >= 90:
		return "AA"
	case score >= 85:
		return "BA"
	case score >= 80:
		return "BB"
	case score >= 75:
		return "CB"
	case score >= 70:
		return "CC"
	case score >= 65:
		return "DC"
	case score >= 60:
		return "DD"
	case score >= 50:
		return "FD"
	default:
		return "FF"
	}
}

// PointsFor maps a letter grade to 4.0-scale grade points.
func PointsFor(letter string) float64 {
	switch letter {
	case "AA":
		return 4.0
	case "BA":
		return 3.5
	case "BB":
		return 3.0
	case "CB":
		return 2.5
	case "CC":
		return 2.0
	case "DC":
		return 1.5
	case "DD":
		return 1.0
	case "FD":
		return 0.5
	default:
		return 0.0
	}
}

// IsPassing reports whether a letter grade passes the course. DD or better.
func IsPassing(letter string) bool {
	return PointsFor(letter) >= 1.0
}

// FinalScore computes the weighted final score from components and entries.
// Components without an entry count as zero; the result assumes weights have
// already been validated to total 100.
func FinalScore(components []*models.GradeComponent, entries []*models.GradeEntry) float64 {
	scores := make(map[int64]float64, len(entries))
	for _, entry := range entries {
		scores[entry.ComponentID] = entry.Score
	}

	var total float64
	for _, component := range components {
		if component.MaxScore <= 0 {
			continue
		}
		total += scores[component.ID] / component.MaxScore * component.Weight
	}
	return total
}

// WeightsComplete reports whether component weights total 100.
func WeightsComplete(components []*models.GradeComponent) bool {
	var total float64
	for _, component := range components {
		total += component.Weight
	}
	return total > 100-weightTolerance && total < 100+weightTolerance
}

// SemesterGPA computes Σ(points×credits)/Σcredits over the semester's lines.
func SemesterGPA(lines []models.TranscriptLine) (gpa float64, credits int) {
	var weighted float64
	for _, line := range lines {
		weighted += line.GradePoints * float64(line.Credits)
		credits += line.Credits
	}
	if credits == 0 {
		return 0, 0
	}
	return weighted / float64(credits), credits
}

// CumulativeGPA computes the credit-weighted GPA across semesters.
func CumulativeGPA(semesters []models.TranscriptSemester) (gpa float64, credits int) {
	var weighted float64
	for _, semester := range semesters {
		for _, line := range semester.Lines {
			weighted += line.GradePoints * float64(line.Credits)
			credits += line.Credits
		}
	}
	if credits == 0 {
		return 0, 0
	}
	return weighted / float64(credits), credits
}
