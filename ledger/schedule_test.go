package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkane/savings-engine/ledger"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestGenerateSchedule_EscalatingAmounts(t *testing.T) {
	// GIVEN: A plan with base amount 5 over 3 days
	// WHEN: Generating the schedule
	// THEN: Day N owes N * base: 5, 10, 15

	plan := ledger.Plan{ID: "plan-1", BaseAmount: dec(5), Duration: 3}

	schedule := ledger.GenerateSchedule(plan)

	require.Len(t, schedule, 3)
	for i, p := range schedule {
		assert.Equal(t, i+1, p.Day)
		assert.True(t, p.Amount.Equal(dec(int64(5*(i+1)))), "day %d amount %s", p.Day, p.Amount)
		assert.False(t, p.Paid)
		assert.Nil(t, p.PaidDate)
	}
}

func TestGenerateSchedule_NonPositiveDuration(t *testing.T) {
	assert.Nil(t, ledger.GenerateSchedule(ledger.Plan{BaseAmount: dec(5), Duration: 0}))
	assert.Nil(t, ledger.GenerateSchedule(ledger.Plan{BaseAmount: dec(5), Duration: -2}))
}

func TestPlanTotal_TriangularSum(t *testing.T) {
	// base 5, duration 3 => 5+10+15 = 30
	plan := ledger.Plan{BaseAmount: dec(5), Duration: 3}
	assert.True(t, ledger.PlanTotal(plan).Equal(dec(30)))

	// base 100, duration 30 => 100 * 465 = 46500
	plan = ledger.Plan{BaseAmount: dec(100), Duration: 30}
	assert.True(t, ledger.PlanTotal(plan).Equal(dec(46500)))
}

func TestAdminEarnings_PercentageOfTotal(t *testing.T) {
	// GIVEN: base 5, duration 3 (total 30) and 50% admin share
	// THEN: Earnings are 15

	plan := ledger.Plan{BaseAmount: dec(5), Duration: 3, AdminPercentage: dec(50)}
	assert.True(t, ledger.AdminEarnings(plan).Equal(dec(15)))

	plan.AdminPercentage = decimal.Zero
	assert.True(t, ledger.AdminEarnings(plan).IsZero())
}
