/*
Package ledger provides the core entities and pure calculators of the
savings-club engine.

PURPOSE:
  This package contains the data model and the pure functions that derive
  money facts from it: the fixed-schedule savings plan ("grill"), the
  per-client payment schedule, deposits/withdrawals/transfers, and loans
  with simple interest. Nothing here mutates shared state - the engine
  package owns all mutation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Plan: A savings-schedule template (per-day base amount, duration)
  - Client: A member with a payment schedule and ledger sub-lists
  - Deposit/Withdrawal/Transfer: Dated money movements with reversal metadata
  - Loan/LoanPayment: Simple-interest loan with typed repayments

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal - no floating-point money
  2. Type Safety: Strong typing for IDs prevents mixing client/plan IDs
  3. Reversal over deletion: Transactions are flagged reversed, never removed
  4. Normalized transfers: A transfer is stored ONCE on the aggregate;
     per-client views are computed by filtering on from/to

SEE ALSO:
  - schedule.go: Payment schedule generation
  - balance.go: Balance calculation from a client's ledger
  - loan.go: Loan amortization summaries
*/
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ClientID string
type PlanID string
type LoanID string

// TxID identifies a deposit, withdrawal, transfer, or loan payment.
type TxID string

func NewClientID() ClientID { return ClientID(uuid.NewString()) }
func NewPlanID() PlanID     { return PlanID(uuid.NewString()) }
func NewLoanID() LoanID     { return LoanID(uuid.NewString()) }
func NewTxID() TxID         { return TxID(uuid.NewString()) }

// =============================================================================
// PLAN ("GRILL") - Savings-schedule template
// =============================================================================

// Plan defines a fixed savings schedule: the amount owed on day N is
// N * BaseAmount, for days 1..Duration. Amounts increase linearly with the
// day index; that is the observed product behavior, not an accident.
type Plan struct {
	ID              PlanID          `json:"id"`
	Name            string          `json:"name"`
	BaseAmount      decimal.Decimal `json:"baseAmount"`
	Duration        int             `json:"duration"`
	AdminPercentage decimal.Decimal `json:"adminPercentage"`
	Description     string          `json:"description,omitempty"`
}

// FindPlan resolves a plan by ID. The second return is false when the
// catalog has no such plan.
func FindPlan(plans []Plan, id PlanID) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// =============================================================================
// PAYMENT - One day of a client's schedule
// =============================================================================

// Payment is one day of a client's schedule. Amount is a pure function of
// (day, plan); only Paid and PaidDate change after generation.
type Payment struct {
	Day      int             `json:"day"`
	Amount   decimal.Decimal `json:"amount"`
	Paid     bool            `json:"paid"`
	PaidDate *time.Time      `json:"paidDate,omitempty"`
}

// =============================================================================
// MONEY MOVEMENTS - Deposits, withdrawals, transfers
// =============================================================================

// Deposit is money added to a client's available balance.
type Deposit struct {
	ID           TxID            `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Note         string          `json:"note,omitempty"`
	Reversed     bool            `json:"reversed,omitempty"`
	ReversalDate *time.Time      `json:"reversalDate,omitempty"`
	ReversalNote string          `json:"reversalNote,omitempty"`
}

// Withdrawal is money taken out of a client's available balance.
type Withdrawal struct {
	ID           TxID            `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Note         string          `json:"note,omitempty"`
	Reversed     bool            `json:"reversed,omitempty"`
	ReversalDate *time.Time      `json:"reversalDate,omitempty"`
	ReversalNote string          `json:"reversalNote,omitempty"`
}

// Transfer moves money between two clients. It is stored once, on the
// aggregate; NetTransfers computes each side's view.
type Transfer struct {
	ID           TxID            `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	FromClientID ClientID        `json:"fromClientId"`
	ToClientID   ClientID        `json:"toClientId"`
	Note         string          `json:"note,omitempty"`
	Reversed     bool            `json:"reversed,omitempty"`
	ReversalDate *time.Time      `json:"reversalDate,omitempty"`
	ReversalNote string          `json:"reversalNote,omitempty"`
}

// Involves reports whether the transfer touches the given client.
func (t Transfer) Involves(id ClientID) bool {
	return t.FromClientID == id || t.ToClientID == id
}

// =============================================================================
// LOAN - Simple (non-compounding) interest
// =============================================================================

type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
	LoanPaid     LoanStatus = "paid"
)

// Terminal reports whether the status admits no further transition.
func (s LoanStatus) Terminal() bool {
	return s == LoanRejected || s == LoanPaid
}

type LoanPaymentType string

const (
	PaymentPrincipal LoanPaymentType = "principal"
	PaymentInterest  LoanPaymentType = "interest"
)

// LoanPayment is a single repayment, partitioned by type so principal and
// interest are tracked separately.
type LoanPayment struct {
	ID     TxID            `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Type   LoanPaymentType `json:"type"`
}

// Loan carries a principal Amount and a simple interest rate in percent.
// Total interest owed is Amount * InterestRate / 100, independent of time.
type Loan struct {
	ID           LoanID          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	StartDate    time.Time       `json:"startDate"`
	DueDate      time.Time       `json:"dueDate"`
	Status       LoanStatus      `json:"status"`
	Payments     []LoanPayment   `json:"payments"`
	Note         string          `json:"note,omitempty"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a member of the savings club. Payments has exactly
// Plan.Duration entries when a plan is assigned, and is empty otherwise.
// Transfers are NOT stored here; see Transfer.
type Client struct {
	ID          ClientID     `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	PlanID      PlanID       `json:"planId,omitempty"`
	StartDate   time.Time    `json:"startDate"`
	Payments    []Payment    `json:"payments"`
	Withdrawals []Withdrawal `json:"withdrawals"`
	Deposits    []Deposit    `json:"deposits"`
	Loans       []Loan       `json:"loans"`
	Active      bool         `json:"isActive"`
}

// HasPlan reports whether the client is enrolled in a plan.
func (c Client) HasPlan() bool { return c.PlanID != "" }

// FindLoan resolves one of the client's loans by ID.
func (c Client) FindLoan(id LoanID) (Loan, bool) {
	for _, l := range c.Loans {
		if l.ID == id {
			return l, true
		}
	}
	return Loan{}, false
}
