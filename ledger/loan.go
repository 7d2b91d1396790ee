/*
loan.go - Loan amortization summaries

PURPOSE:
  Derives the full repayment picture of a simple-interest loan from its
  payment list. Interest never compounds: the total interest owed is fixed
  at principal * rate / 100 the moment the loan is created.

PAID TRANSITION:
  Summarize stays pure. The engine's dispatcher, not this helper, flips a
  loan to "paid" once a summary reports Settled().

SEE ALSO:
  - types.go: Loan and LoanPayment definitions
  - engine: AddLoanPayment wiring and the paid transition
*/
package ledger

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LoanSummary is the derived repayment state of a loan.
type LoanSummary struct {
	PrincipalPaid         decimal.Decimal `json:"principalPaid"`
	InterestPaid          decimal.Decimal `json:"interestPaid"`
	TotalInterestExpected decimal.Decimal `json:"totalInterestExpected"`
	RemainingPrincipal    decimal.Decimal `json:"remainingPrincipal"`
	RemainingInterest     decimal.Decimal `json:"remainingInterest"`
	TotalPaid             decimal.Decimal `json:"totalPaid"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	RemainingTotal        decimal.Decimal `json:"remainingTotal"`
	Progress              decimal.Decimal `json:"progress"`
}

// Settled reports whether both principal and interest are fully repaid.
func (s LoanSummary) Settled() bool {
	return s.RemainingPrincipal.IsZero() && s.RemainingInterest.IsZero()
}

// LoanTotalAmount is principal plus the fixed simple interest:
// amount + amount * rate / 100.
func LoanTotalAmount(loan Loan) decimal.Decimal {
	return loan.Amount.Add(loan.Amount.Mul(loan.InterestRate).Div(hundred))
}

// Summarize partitions the loan's payments by type and derives the
// remaining principal/interest, totals, and completion progress.
func Summarize(loan Loan) LoanSummary {
	principalPaid := decimal.Zero
	interestPaid := decimal.Zero
	for _, p := range loan.Payments {
		switch p.Type {
		case PaymentPrincipal:
			principalPaid = principalPaid.Add(p.Amount)
		case PaymentInterest:
			interestPaid = interestPaid.Add(p.Amount)
		}
	}

	totalInterest := loan.Amount.Mul(loan.InterestRate).Div(hundred)
	totalPaid := principalPaid.Add(interestPaid)
	totalAmount := loan.Amount.Add(totalInterest)

	progress := decimal.Zero
	if totalAmount.IsPositive() {
		progress = totalPaid.Div(totalAmount).Mul(hundred)
	}

	return LoanSummary{
		PrincipalPaid:         principalPaid,
		InterestPaid:          interestPaid,
		TotalInterestExpected: totalInterest,
		RemainingPrincipal:    loan.Amount.Sub(principalPaid),
		RemainingInterest:     totalInterest.Sub(interestPaid),
		TotalPaid:             totalPaid,
		TotalAmount:           totalAmount,
		RemainingTotal:        loan.Amount.Sub(principalPaid).Add(totalInterest.Sub(interestPaid)),
		Progress:              progress,
	}
}
