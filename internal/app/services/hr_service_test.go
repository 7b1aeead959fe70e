package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campora/campora/internal/app/models"
)

func TestBalanceForPaidCarryover(t *testing.T) {
	annual := &models.LeaveType{Code: "ANNUAL", EntitlementDays: 20, Paid: true}

	carried, remaining := balanceFor(annual, 5, 12)
	assert.Equal(t, 8, carried)
	assert.Equal(t, 23, remaining)

	// fully used previous year carries nothing
	carried, remaining = balanceFor(annual, 0, 20)
	assert.Equal(t, 0, carried)
	assert.Equal(t, 20, remaining)

	// overdrawn previous year does not go negative
	carried, _ = balanceFor(annual, 0, 25)
	assert.Equal(t, 0, carried)
}

func TestBalanceForUnpaidHasNoCarryover(t *testing.T) {
	unpaid := &models.LeaveType{Code: "UNPAID", EntitlementDays: 30, Paid: false}

	carried, remaining := balanceFor(unpaid, 10, 30)
	assert.Equal(t, 0, carried)
	assert.Equal(t, 20, remaining)
}

// Two date-disjoint requests can each pass the filing-time check, so approval
// re-checks against the balance as already-approved days accumulate.
func TestApprovalDebitsBalanceForLaterRequests(t *testing.T) {
	annual := &models.LeaveType{Code: "ANNUAL", EntitlementDays: 20, Paid: true}
	first, second := 12, 12

	_, remaining := balanceFor(annual, 0, 20)
	assert.LessOrEqual(t, first, remaining)

	_, remaining = balanceFor(annual, first, 20)
	assert.Greater(t, second, remaining)
}
