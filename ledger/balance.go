/*
balance.go - Balance calculation from a client's ledger

PURPOSE:
  Pure functions answering "where does this client's money stand?".
  Every aggregate excludes reversed transactions entirely, so reversing a
  deposit/withdrawal/transfer removes exactly its amount from the totals
  and recomputation can never double-subtract.

THE RECONCILIATION IDENTITY:
  AvailableBalance = AmountPaid + TotalDeposits - TotalWithdrawals + NetTransfers

  This identity holds after any sequence of operations; it is the core
  testable property of the package.

REFERENTIAL POLICY:
  A client with no plan, or whose plan is missing from the catalog,
  contributes zero to expectation-based totals rather than failing.
  Callers that need strict behavior must check FindPlan themselves.

SEE ALSO:
  - schedule.go: Where the expected amounts come from
  - loan.go: Loan-side summaries (separate from available balance)
*/
package ledger

import "github.com/shopspring/decimal"

// TotalExpected is the sum of all scheduled payment amounts for the
// client's plan, or zero if the client is unassigned or the plan is
// missing from the catalog.
func TotalExpected(client Client, plans []Plan) decimal.Decimal {
	if !client.HasPlan() {
		return decimal.Zero
	}
	plan, ok := FindPlan(plans, client.PlanID)
	if !ok {
		return decimal.Zero
	}
	return PlanTotal(plan)
}

// AmountPaid sums the amounts of paid schedule entries.
func AmountPaid(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Paid {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// TotalDeposits sums non-reversed deposits.
func TotalDeposits(deposits []Deposit) decimal.Decimal {
	total := decimal.Zero
	for _, d := range deposits {
		if !d.Reversed {
			total = total.Add(d.Amount)
		}
	}
	return total
}

// TotalWithdrawals sums non-reversed withdrawals.
func TotalWithdrawals(withdrawals []Withdrawal) decimal.Decimal {
	total := decimal.Zero
	for _, w := range withdrawals {
		if !w.Reversed {
			total = total.Add(w.Amount)
		}
	}
	return total
}

// NetTransfers is the signed transfer sum for a client: outgoing
// transfers subtract, incoming add, reversed transfers are skipped.
func NetTransfers(transfers []Transfer, clientID ClientID) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transfers {
		if t.Reversed {
			continue
		}
		switch clientID {
		case t.FromClientID:
			total = total.Sub(t.Amount)
		case t.ToClientID:
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TransfersFor returns the client's view of the normalized transfer
// collection: every transfer where the client is sender or receiver.
func TransfersFor(transfers []Transfer, clientID ClientID) []Transfer {
	var out []Transfer
	for _, t := range transfers {
		if t.Involves(clientID) {
			out = append(out, t)
		}
	}
	return out
}

// AvailableBalance is what the client can withdraw right now:
// amount paid into the schedule, plus deposits, minus withdrawals,
// plus the signed transfer net.
func AvailableBalance(client Client, transfers []Transfer) decimal.Decimal {
	return AmountPaid(client.Payments).
		Add(TotalDeposits(client.Deposits)).
		Sub(TotalWithdrawals(client.Withdrawals)).
		Add(NetTransfers(transfers, client.ID))
}

// RemainingBalance is what the client still owes on the schedule:
// total expected minus amount paid.
func RemainingBalance(client Client, plans []Plan) decimal.Decimal {
	return TotalExpected(client, plans).Sub(AmountPaid(client.Payments))
}

// PlanCompleted reports whether every schedule entry is paid. A client
// without a plan is never completed.
func PlanCompleted(client Client) bool {
	if !client.HasPlan() {
		return false
	}
	for _, p := range client.Payments {
		if !p.Paid {
			return false
		}
	}
	return true
}

// ProgressPercent is amountPaid / totalExpected * 100, or zero when
// nothing is expected.
func ProgressPercent(client Client, plans []Plan) decimal.Decimal {
	expected := TotalExpected(client, plans)
	if !expected.IsPositive() {
		return decimal.Zero
	}
	return AmountPaid(client.Payments).Div(expected).Mul(decimal.NewFromInt(100))
}
