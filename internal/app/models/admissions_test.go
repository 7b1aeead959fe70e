package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{ApplicationSubmitted, ApplicationUnderReview, true},
		{ApplicationSubmitted, ApplicationAccepted, false},
		{ApplicationSubmitted, ApplicationRejected, false},
		{ApplicationUnderReview, ApplicationAccepted, true},
		{ApplicationUnderReview, ApplicationRejected, true},
		{ApplicationUnderReview, ApplicationWaitlisted, true},
		{ApplicationUnderReview, ApplicationSubmitted, false},
		{ApplicationWaitlisted, ApplicationUnderReview, true},
		{ApplicationWaitlisted, ApplicationAccepted, false},
		{ApplicationAccepted, ApplicationRejected, false},
		{ApplicationRejected, ApplicationUnderReview, false},
	}
	for _, tc := range tests {
		app := &Application{Status: tc.from}
		assert.Equal(t, tc.allowed, app.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
