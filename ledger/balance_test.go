package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tkane/savings-engine/ledger"
)

func testClient() ledger.Client {
	plan := ledger.Plan{ID: "plan-1", BaseAmount: dec(5), Duration: 3}
	c := ledger.Client{
		ID:       "client-1",
		Name:     "Awa",
		PlanID:   plan.ID,
		Payments: ledger.GenerateSchedule(plan),
	}
	return c
}

func testPlans() []ledger.Plan {
	return []ledger.Plan{{ID: "plan-1", BaseAmount: dec(5), Duration: 3}}
}

func TestAmountPaid_OnlyPaidEntries(t *testing.T) {
	c := testClient()
	c.Payments[0].Paid = true // 5
	c.Payments[2].Paid = true // 15

	assert.True(t, ledger.AmountPaid(c.Payments).Equal(dec(20)))
}

func TestTotals_ExcludeReversed(t *testing.T) {
	// GIVEN: Two deposits and two withdrawals, one of each reversed
	// THEN: Only the live ones count

	deposits := []ledger.Deposit{
		{ID: "d1", Amount: dec(100)},
		{ID: "d2", Amount: dec(40), Reversed: true},
	}
	withdrawals := []ledger.Withdrawal{
		{ID: "w1", Amount: dec(30)},
		{ID: "w2", Amount: dec(25), Reversed: true},
	}

	assert.True(t, ledger.TotalDeposits(deposits).Equal(dec(100)))
	assert.True(t, ledger.TotalWithdrawals(withdrawals).Equal(dec(30)))
}

func TestNetTransfers_SignedPerClient(t *testing.T) {
	transfers := []ledger.Transfer{
		{ID: "t1", FromClientID: "a", ToClientID: "b", Amount: dec(50)},
		{ID: "t2", FromClientID: "b", ToClientID: "a", Amount: dec(20)},
		{ID: "t3", FromClientID: "a", ToClientID: "c", Amount: dec(10)},
	}

	assert.True(t, ledger.NetTransfers(transfers, "a").Equal(dec(-40)))
	assert.True(t, ledger.NetTransfers(transfers, "b").Equal(dec(30)))
	assert.True(t, ledger.NetTransfers(transfers, "c").Equal(dec(10)))
	assert.True(t, ledger.NetTransfers(transfers, "d").IsZero())
}

func TestNetTransfers_ReversalRestoresBothSides(t *testing.T) {
	// GIVEN: A transferred 50 to B, then the transfer is reversed
	// THEN: Both net positions return to zero

	now := time.Now()
	transfers := []ledger.Transfer{
		{ID: "t1", FromClientID: "a", ToClientID: "b", Amount: dec(50), Reversed: true, ReversalDate: &now},
	}

	assert.True(t, ledger.NetTransfers(transfers, "a").IsZero())
	assert.True(t, ledger.NetTransfers(transfers, "b").IsZero())
}

func TestTransfersFor_ClientView(t *testing.T) {
	transfers := []ledger.Transfer{
		{ID: "t1", FromClientID: "a", ToClientID: "b", Amount: dec(50)},
		{ID: "t2", FromClientID: "b", ToClientID: "c", Amount: dec(20)},
	}

	assert.Len(t, ledger.TransfersFor(transfers, "a"), 1)
	assert.Len(t, ledger.TransfersFor(transfers, "b"), 2)
	assert.Empty(t, ledger.TransfersFor(transfers, "x"))
}

func TestAvailableBalance_ReconciliationIdentity(t *testing.T) {
	// GIVEN: Paid 20 into the schedule, deposited 100, withdrew 30,
	//        sent 50 and received 20 via transfers
	// THEN: Available = 20 + 100 - 30 - 50 + 20 = 60

	c := testClient()
	c.Payments[0].Paid = true
	c.Payments[2].Paid = true
	c.Deposits = []ledger.Deposit{{ID: "d1", Amount: dec(100)}}
	c.Withdrawals = []ledger.Withdrawal{{ID: "w1", Amount: dec(30)}}
	transfers := []ledger.Transfer{
		{ID: "t1", FromClientID: c.ID, ToClientID: "other", Amount: dec(50)},
		{ID: "t2", FromClientID: "other", ToClientID: c.ID, Amount: dec(20)},
	}

	assert.True(t, ledger.AvailableBalance(c, transfers).Equal(dec(60)))
}

func TestRemainingBalance(t *testing.T) {
	c := testClient()
	c.Payments[0].Paid = true

	// 30 expected, 5 paid
	assert.True(t, ledger.RemainingBalance(c, testPlans()).Equal(dec(25)))
}

func TestTotalExpected_MissingPlanIsZero(t *testing.T) {
	c := testClient()
	c.PlanID = "ghost"
	assert.True(t, ledger.TotalExpected(c, testPlans()).IsZero())

	c.PlanID = ""
	assert.True(t, ledger.TotalExpected(c, testPlans()).IsZero())
}

func TestPlanCompleted(t *testing.T) {
	c := testClient()
	assert.False(t, ledger.PlanCompleted(c))

	for i := range c.Payments {
		c.Payments[i].Paid = true
	}
	assert.True(t, ledger.PlanCompleted(c))

	// A client without a plan is never completed, even with no pending entries.
	c.PlanID = ""
	assert.False(t, ledger.PlanCompleted(c))
}

func TestProgressPercent(t *testing.T) {
	c := testClient()
	c.Payments[0].Paid = true
	c.Payments[1].Paid = true

	// 15 of 30 => 50%
	assert.True(t, ledger.ProgressPercent(c, testPlans()).Equal(dec(50)))

	// No expectation => zero, not a division error
	c.PlanID = ""
	assert.True(t, ledger.ProgressPercent(c, testPlans()).Equal(decimal.Zero))
}
