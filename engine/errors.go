/*
errors.go - Typed errors returned by the validating dispatcher

PURPOSE:
  The pure reducer cannot fail, so every failure in this package comes
  from validation in Store.Dispatch. Sentinels support errors.Is; the
  structured errors carry the numbers a caller needs to build a useful
  message, and Unwrap to their sentinel.

USAGE:
  _, err := store.Dispatch(engine.AddWithdrawal{...})
  if errors.Is(err, engine.ErrInsufficientBalance) { ... }

  var short *engine.InsufficientBalanceError
  if errors.As(err, &short) { show(short.Available, short.Requested) }

SEE ALSO:
  - validate.go: Where these are produced
  - tontine: DuplicateOrderError / DuplicateMemberError pass through as-is
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tkane/savings-engine/ledger"
	"github.com/tkane/savings-engine/tontine"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned for zero or negative money amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrDuplicateID is returned when an add-style action reuses an ID.
	ErrDuplicateID = errors.New("id already exists")

	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrPlanNotFound is returned when a referenced plan doesn't exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrLoanNotFound is returned when a referenced loan doesn't exist.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrGroupNotFound is returned when a referenced tontine group doesn't exist.
	ErrGroupNotFound = errors.New("tontine group not found")

	// ErrMemberNotFound is returned when a referenced tontine member doesn't exist.
	ErrMemberNotFound = errors.New("tontine member not found")

	// ErrContributionNotFound is returned when a referenced contribution doesn't exist.
	ErrContributionNotFound = errors.New("tontine contribution not found")

	// ErrTransactionNotFound is returned when a reversal targets an
	// unknown deposit/withdrawal/transfer.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidDay is returned when a payment toggle targets a day
	// outside the client's schedule.
	ErrInvalidDay = errors.New("day outside payment schedule")

	// ErrInvalidDuration is returned for a plan duration outside 1..90 days.
	ErrInvalidDuration = errors.New("plan duration out of range")

	// ErrInsufficientBalance is returned when a withdrawal or outgoing
	// transfer exceeds the client's available balance.
	ErrInsufficientBalance = errors.New("insufficient available balance")

	// ErrPlanInUse blocks plan deletion while any client references it.
	ErrPlanInUse = errors.New("plan is referenced by a client")

	// ErrAlreadyReversed is returned when reversing a transaction twice.
	// Reversal is terminal; there is no un-reverse.
	ErrAlreadyReversed = errors.New("transaction already reversed")

	// ErrLoanTerminal is returned when acting on a paid or rejected loan.
	ErrLoanTerminal = errors.New("loan is in a terminal state")

	// ErrLoanNotApproved is returned when repaying a loan that is still
	// pending approval.
	ErrLoanNotApproved = errors.New("loan is not approved")

	// ErrInvalidStatusTransition is returned for a loan status change the
	// lifecycle does not allow.
	ErrInvalidStatusTransition = errors.New("invalid loan status transition")

	// ErrExcessLoanPayment is returned when a repayment exceeds the
	// remaining principal or interest for its type. Policy is REJECT,
	// not clamp.
	ErrExcessLoanPayment = errors.New("payment exceeds remaining loan balance")

	// ErrInvalidPayoutOrder is returned for a payout order outside
	// 1..MemberCount.
	ErrInvalidPayoutOrder = errors.New("payout order out of range")

	// ErrGroupFull is returned when adding a member to a full group.
	ErrGroupFull = errors.New("tontine group already has all members")

	// ErrInvalidInterval is returned for an unknown contribution interval.
	ErrInvalidInterval = errors.New("invalid contribution interval")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError details a balance shortage.
type InsufficientBalanceError struct {
	ClientID  ledger.ClientID
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for client %s: available %s, requested %s",
		e.ClientID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// ExcessLoanPaymentError details a rejected loan overpayment.
type ExcessLoanPaymentError struct {
	LoanID    ledger.LoanID
	Type      ledger.LoanPaymentType
	Remaining decimal.Decimal
	Requested decimal.Decimal
}

func (e *ExcessLoanPaymentError) Error() string {
	return fmt.Sprintf("loan %s: %s payment %s exceeds remaining %s",
		e.LoanID, e.Type, e.Requested, e.Remaining)
}

func (e *ExcessLoanPaymentError) Unwrap() error { return ErrExcessLoanPayment }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is the caller's fault (bad
// input or a precondition they could have checked).
func IsClientError(err error) bool {
	if errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrPlanInUse) ||
		errors.Is(err, ErrAlreadyReversed) ||
		errors.Is(err, ErrLoanTerminal) ||
		errors.Is(err, ErrLoanNotApproved) ||
		errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrExcessLoanPayment) ||
		errors.Is(err, ErrInvalidPayoutOrder) ||
		errors.Is(err, ErrGroupFull) ||
		errors.Is(err, ErrInvalidInterval) {
		return true
	}
	var dupOrder *tontine.DuplicateOrderError
	var dupMember *tontine.DuplicateMemberError
	return errors.As(err, &dupOrder) || errors.As(err, &dupMember)
}

// IsNotFound reports whether the error indicates a missing reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrLoanNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrContributionNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
