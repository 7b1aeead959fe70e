package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/campora/campora/internal/app/models"
)

func TestPayslipForNoUnpaidLeave(t *testing.T) {
	employee := &models.Employee{
		ID:            7,
		TenantID:      1,
		MonthlySalary: decimal.NewFromInt(4400),
	}

	slip := PayslipFor(employee, 0)

	assert.Equal(t, int64(7), slip.EmployeeID)
	assert.True(t, slip.Gross.Equal(decimal.NewFromInt(4400)))
	assert.True(t, slip.Deductions.IsZero())
	assert.True(t, slip.Net.Equal(decimal.NewFromInt(4400)))
}

func TestPayslipForUnpaidLeaveDeduction(t *testing.T) {
	employee := &models.Employee{
		MonthlySalary: decimal.NewFromInt(4400),
	}

	// 4400/22 = 200 per day
	slip := PayslipFor(employee, 3)

	assert.True(t, slip.Deductions.Equal(decimal.NewFromInt(600)))
	assert.True(t, slip.Net.Equal(decimal.NewFromInt(3800)))
}

func TestPayslipForDeductionRounding(t *testing.T) {
	employee := &models.Employee{
		MonthlySalary: decimal.NewFromInt(5000),
	}

	// 5000/22 = 227.27 rounded to 2 places
	slip := PayslipFor(employee, 1)

	assert.True(t, slip.Deductions.Equal(decimal.RequireFromString("227.27")))
	assert.True(t, slip.Net.Equal(decimal.RequireFromString("4772.73")))
}

func TestPayslipForDeductionCappedAtGross(t *testing.T) {
	employee := &models.Employee{
		MonthlySalary: decimal.NewFromInt(2200),
	}

	slip := PayslipFor(employee, 40)

	assert.True(t, slip.Deductions.Equal(decimal.NewFromInt(2200)))
	assert.True(t, slip.Net.IsZero())
}
