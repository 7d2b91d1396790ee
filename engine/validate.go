/*
validate.go - Precondition checks for every action

PURPOSE:
  The reducer is deliberately total and trusting; this file is where the
  trust is earned. Validate inspects an action against the current state
  and returns a typed error when the action must not be applied. It never
  mutates anything.

POLICY DECISIONS ENFORCED HERE:
  - Amounts must be strictly positive
  - Withdrawals and outgoing transfers cannot exceed available balance
  - Plan deletion is blocked while any client references the plan
  - Reversal is terminal: no second reversal
  - Loan repayments require an approved loan and are REJECTED (not
    clamped) when they exceed the remaining principal/interest
  - Loan status follows pending -> approved|rejected, approved -> paid
  - Tontine membership: unique order and client, order within range,
    group not full

SEE ALSO:
  - errors.go: The error taxonomy these checks produce
  - store.go: Runs Validate before Apply under the dispatch lock
*/
package engine

import (
	"github.com/shopspring/decimal"
	"github.com/tkane/savings-engine/ledger"
	"github.com/tkane/savings-engine/tontine"
)

// Validate reports why the action cannot be applied to the state, or nil.
func Validate(s State, action Action) error {
	switch a := action.(type) {
	case AddClient:
		if _, exists := s.FindClient(a.Client.ID); exists {
			return ErrDuplicateID
		}
		return validatePlanRef(s, a.Client.PlanID)

	case UpdateClient:
		if _, ok := s.FindClient(a.Client.ID); !ok {
			return ErrClientNotFound
		}
		return validatePlanRef(s, a.Client.PlanID)

	case DeleteClient:
		if _, ok := s.FindClient(a.ClientID); !ok {
			return ErrClientNotFound
		}

	case RenewClientPlan:
		client, ok := s.FindClient(a.ClientID)
		if !ok {
			return ErrClientNotFound
		}
		if !client.HasPlan() {
			return ErrPlanNotFound
		}
		if _, ok := ledger.FindPlan(s.Plans, client.PlanID); !ok {
			return ErrPlanNotFound
		}

	case AddPlan:
		if _, exists := ledger.FindPlan(s.Plans, a.Plan.ID); exists {
			return ErrDuplicateID
		}
		return validatePlan(a.Plan)

	case UpdatePlan:
		if _, ok := ledger.FindPlan(s.Plans, a.Plan.ID); !ok {
			return ErrPlanNotFound
		}
		return validatePlan(a.Plan)

	case DeletePlan:
		if _, ok := ledger.FindPlan(s.Plans, a.PlanID); !ok {
			return ErrPlanNotFound
		}
		if s.PlanReferenced(a.PlanID) {
			return ErrPlanInUse
		}

	case TogglePayment:
		client, ok := s.FindClient(a.ClientID)
		if !ok {
			return ErrClientNotFound
		}
		for _, p := range client.Payments {
			if p.Day == a.Day {
				return nil
			}
		}
		return ErrInvalidDay

	case AddDeposit:
		if _, ok := s.FindClient(a.ClientID); !ok {
			return ErrClientNotFound
		}
		return requirePositive(a.Deposit.Amount)

	case AddWithdrawal:
		client, ok := s.FindClient(a.ClientID)
		if !ok {
			return ErrClientNotFound
		}
		if err := requirePositive(a.Withdrawal.Amount); err != nil {
			return err
		}
		return requireAvailable(s, client, a.Withdrawal.Amount)

	case AddTransfer:
		from, ok := s.FindClient(a.Transfer.FromClientID)
		if !ok {
			return ErrClientNotFound
		}
		if _, ok := s.FindClient(a.Transfer.ToClientID); !ok {
			return ErrClientNotFound
		}
		if err := requirePositive(a.Transfer.Amount); err != nil {
			return err
		}
		return requireAvailable(s, from, a.Transfer.Amount)

	case ReverseTransaction:
		return validateReversal(s, a)

	case AddLoan:
		if _, ok := s.FindClient(a.ClientID); !ok {
			return ErrClientNotFound
		}
		if err := requirePositive(a.Loan.Amount); err != nil {
			return err
		}
		if a.Loan.InterestRate.IsNegative() {
			return ErrInvalidAmount
		}

	case DeleteLoan:
		// Deletion is allowed from any status; the UI warns on approved.
		_, err := findLoan(s, a.ClientID, a.LoanID)
		return err

	case UpdateLoanStatus:
		loan, err := findLoan(s, a.ClientID, a.LoanID)
		if err != nil {
			return err
		}
		return validateLoanTransition(loan.Status, a.Status)

	case AddLoanPayment:
		loan, err := findLoan(s, a.ClientID, a.LoanID)
		if err != nil {
			return err
		}
		return validateLoanPayment(loan, a.Payment)

	case AddTontineGroup:
		if _, exists := s.FindGroup(a.Group.ID); exists {
			return ErrDuplicateID
		}
		return validateGroup(a.Group)

	case UpdateTontineGroup:
		if _, ok := s.FindGroup(a.Group.ID); !ok {
			return ErrGroupNotFound
		}
		return validateGroup(a.Group)

	case DeleteTontineGroup:
		if _, ok := s.FindGroup(a.GroupID); !ok {
			return ErrGroupNotFound
		}

	case AddTontineMember:
		return validateNewMember(s, a)

	case UpdateTontineContribution:
		group, ok := s.FindGroup(a.GroupID)
		if !ok {
			return ErrGroupNotFound
		}
		member, ok := group.FindMember(a.MemberID)
		if !ok {
			return ErrMemberNotFound
		}
		for _, c := range member.Contributions {
			if c.ID == a.ContributionID {
				return nil
			}
		}
		return ErrContributionNotFound
	}

	return nil
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func requireAvailable(s State, client ledger.Client, amount decimal.Decimal) error {
	available := ledger.AvailableBalance(client, s.Transfers)
	if amount.GreaterThan(available) {
		return &InsufficientBalanceError{
			ClientID:  client.ID,
			Available: available,
			Requested: amount,
		}
	}
	return nil
}

func validatePlanRef(s State, id ledger.PlanID) error {
	if id == "" {
		return nil
	}
	if _, ok := ledger.FindPlan(s.Plans, id); !ok {
		return ErrPlanNotFound
	}
	return nil
}

func validatePlan(p ledger.Plan) error {
	if !p.BaseAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Duration < 1 || p.Duration > 90 {
		return ErrInvalidDuration
	}
	if p.AdminPercentage.IsNegative() || p.AdminPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidAmount
	}
	return nil
}

func validateReversal(s State, a ReverseTransaction) error {
	if a.Kind == KindTransfer {
		for _, t := range s.Transfers {
			if t.ID == a.TransactionID {
				if t.Reversed {
					return ErrAlreadyReversed
				}
				return nil
			}
		}
		return ErrTransactionNotFound
	}

	client, ok := s.FindClient(a.ClientID)
	if !ok {
		return ErrClientNotFound
	}

	switch a.Kind {
	case KindDeposit:
		for _, d := range client.Deposits {
			if d.ID == a.TransactionID {
				if d.Reversed {
					return ErrAlreadyReversed
				}
				return nil
			}
		}
	case KindWithdrawal:
		for _, w := range client.Withdrawals {
			if w.ID == a.TransactionID {
				if w.Reversed {
					return ErrAlreadyReversed
				}
				return nil
			}
		}
	}
	return ErrTransactionNotFound
}

func findLoan(s State, clientID ledger.ClientID, loanID ledger.LoanID) (ledger.Loan, error) {
	client, ok := s.FindClient(clientID)
	if !ok {
		return ledger.Loan{}, ErrClientNotFound
	}
	loan, ok := client.FindLoan(loanID)
	if !ok {
		return ledger.Loan{}, ErrLoanNotFound
	}
	return loan, nil
}

// validateLoanTransition enforces the loan lifecycle:
// pending -> approved|rejected, approved -> paid.
func validateLoanTransition(from, to ledger.LoanStatus) error {
	if from.Terminal() {
		return ErrLoanTerminal
	}
	switch from {
	case ledger.LoanPending:
		if to == ledger.LoanApproved || to == ledger.LoanRejected {
			return nil
		}
	case ledger.LoanApproved:
		if to == ledger.LoanPaid {
			return nil
		}
	}
	return ErrInvalidStatusTransition
}

// validateLoanPayment rejects (never clamps) a repayment exceeding the
// remaining principal/interest for its type.
func validateLoanPayment(loan ledger.Loan, payment ledger.LoanPayment) error {
	if loan.Status.Terminal() {
		return ErrLoanTerminal
	}
	if loan.Status != ledger.LoanApproved {
		return ErrLoanNotApproved
	}
	if err := requirePositive(payment.Amount); err != nil {
		return err
	}

	summary := ledger.Summarize(loan)
	remaining := summary.RemainingPrincipal
	if payment.Type == ledger.PaymentInterest {
		remaining = summary.RemainingInterest
	}
	if payment.Amount.GreaterThan(remaining) {
		return &ExcessLoanPaymentError{
			LoanID:    loan.ID,
			Type:      payment.Type,
			Remaining: remaining,
			Requested: payment.Amount,
		}
	}
	return nil
}

func validateGroup(g tontine.Group) error {
	if !g.ContributionAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.MemberCount < 2 {
		return ErrInvalidPayoutOrder
	}
	if !g.Interval.Valid() {
		return ErrInvalidInterval
	}
	if g.Interval == tontine.Custom && g.CustomDays <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

func validateNewMember(s State, a AddTontineMember) error {
	group, ok := s.FindGroup(a.GroupID)
	if !ok {
		return ErrGroupNotFound
	}
	if _, ok := s.FindClient(a.ClientID); !ok {
		return ErrClientNotFound
	}
	if len(group.Members) >= group.MemberCount {
		return ErrGroupFull
	}
	if a.PayoutOrder < 1 || a.PayoutOrder > group.MemberCount {
		return ErrInvalidPayoutOrder
	}
	for _, m := range group.Members {
		if m.PayoutOrder == a.PayoutOrder {
			return &tontine.DuplicateOrderError{GroupID: group.ID, Order: a.PayoutOrder}
		}
		if m.ClientID == a.ClientID {
			return &tontine.DuplicateMemberError{GroupID: group.ID, ClientID: a.ClientID}
		}
	}
	return nil
}
