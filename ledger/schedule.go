/*
schedule.go - Payment schedule generation

PURPOSE:
  Produces the deterministic day-by-day payment schedule for a plan.
  The schedule is the client's contract: one entry per day 1..Duration,
  each owing day * BaseAmount, all initially unpaid.

DETERMINISM:
  GenerateSchedule is pure and idempotent: the same plan always yields an
  identical schedule. It is re-invoked on plan renewal, which resets all
  payment state for that client.

SEE ALSO:
  - balance.go: Aggregates the schedule into expected/paid totals
  - engine: Invokes generation on client creation, plan change, renewal
*/
package ledger

import "github.com/shopspring/decimal"

// GenerateSchedule returns one Payment per day 1..plan.Duration with
// amount = day * plan.BaseAmount, unpaid. A non-positive duration yields
// an empty schedule.
func GenerateSchedule(plan Plan) []Payment {
	if plan.Duration <= 0 {
		return nil
	}
	payments := make([]Payment, 0, plan.Duration)
	for day := 1; day <= plan.Duration; day++ {
		payments = append(payments, Payment{
			Day:    day,
			Amount: plan.BaseAmount.Mul(decimal.NewFromInt(int64(day))),
		})
	}
	return payments
}

// PlanTotal is the sum of all scheduled amounts for the plan:
// baseAmount * (1 + 2 + ... + duration).
func PlanTotal(plan Plan) decimal.Decimal {
	total := decimal.Zero
	for _, p := range GenerateSchedule(plan) {
		total = total.Add(p.Amount)
	}
	return total
}

// AdminEarnings is the administrator's take on a fully funded plan:
// PlanTotal * AdminPercentage / 100.
func AdminEarnings(plan Plan) decimal.Decimal {
	return PlanTotal(plan).Mul(plan.AdminPercentage).Div(decimal.NewFromInt(100))
}
