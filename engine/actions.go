/*
actions.go - The closed action union

PURPOSE:
  Every mutation of the aggregate is one of the variants below. The union
  is sealed (unexported marker method), so the reducer's type switch is
  the complete list of things that can happen to the state.

TIMESTAMPS:
  Actions that stamp dates (payment toggles, reversals) carry the time
  explicitly. The reducer never reads the clock; given the same state and
  action it always produces the same result.

SEE ALSO:
  - reducer.go: What each variant does
  - validate.go: What each variant requires
*/
package engine

import (
	"time"

	"github.com/tkane/savings-engine/ledger"
	"github.com/tkane/savings-engine/tontine"
)

// Action is one atomic state transition. The set of implementations in
// this file is the full vocabulary; external packages cannot add more.
type Action interface {
	isAction()
}

// =============================================================================
// CLIENT ACTIONS
// =============================================================================

// AddClient appends a client. Ledger sub-lists start empty; a payment
// schedule is generated when the client has a plan.
type AddClient struct {
	Client ledger.Client
}

// UpdateClient replaces a client by ID, preserving ledger sub-lists and
// regenerating the schedule only when the plan reference changed and
// resolves in the catalog.
type UpdateClient struct {
	Client ledger.Client
}

// DeleteClient removes a client by ID.
type DeleteClient struct {
	ClientID ledger.ClientID
}

// RenewClientPlan regenerates the client's full schedule from a new start
// date, clears withdrawals, and reactivates the client. Deposits, loans,
// and transfers carry over unchanged.
type RenewClientPlan struct {
	ClientID  ledger.ClientID
	StartDate time.Time
}

// =============================================================================
// PLAN CATALOG ACTIONS
// =============================================================================

type AddPlan struct {
	Plan ledger.Plan
}

type UpdatePlan struct {
	Plan ledger.Plan
}

// DeletePlan removes a plan from the catalog. The validating Store blocks
// it while any client references the plan.
type DeletePlan struct {
	PlanID ledger.PlanID
}

// =============================================================================
// LEDGER ACTIONS
// =============================================================================

// TogglePayment sets one schedule day's paid flag. At becomes the paid
// date when marking paid; unmarking clears the date.
type TogglePayment struct {
	ClientID ledger.ClientID
	Day      int
	Paid     bool
	At       time.Time
}

type AddDeposit struct {
	ClientID ledger.ClientID
	Deposit  ledger.Deposit
}

type AddWithdrawal struct {
	ClientID   ledger.ClientID
	Withdrawal ledger.Withdrawal
}

// AddTransfer appends to the normalized transfer collection; both clients
// see it through the computed per-client views.
type AddTransfer struct {
	Transfer ledger.Transfer
}

// TransactionKind selects which sub-list ReverseTransaction targets.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindTransfer   TransactionKind = "transfer"
)

// ReverseTransaction marks a deposit, withdrawal, or transfer reversed.
// Reversal is terminal; the amount is excluded from every aggregate from
// then on, but the record itself stays.
type ReverseTransaction struct {
	ClientID      ledger.ClientID // owner for deposits/withdrawals; ignored for transfers
	TransactionID ledger.TxID
	Kind          TransactionKind
	Note          string
	At            time.Time
}

// =============================================================================
// LOAN ACTIONS
// =============================================================================

type AddLoan struct {
	ClientID ledger.ClientID
	Loan     ledger.Loan
}

type DeleteLoan struct {
	ClientID ledger.ClientID
	LoanID   ledger.LoanID
}

type UpdateLoanStatus struct {
	ClientID ledger.ClientID
	LoanID   ledger.LoanID
	Status   ledger.LoanStatus
}

// AddLoanPayment appends a typed repayment. When the resulting summary is
// settled, the dispatcher flips an approved loan to paid.
type AddLoanPayment struct {
	ClientID ledger.ClientID
	LoanID   ledger.LoanID
	Payment  ledger.LoanPayment
}

// =============================================================================
// TONTINE ACTIONS
// =============================================================================

type AddTontineGroup struct {
	Group tontine.Group
}

type UpdateTontineGroup struct {
	Group tontine.Group
}

type DeleteTontineGroup struct {
	GroupID tontine.GroupID
}

// AddTontineMember admits a client at a payout order, generating their
// full contribution schedule and activating the group when it fills.
type AddTontineMember struct {
	GroupID     tontine.GroupID
	ClientID    ledger.ClientID
	PayoutOrder int
}

// UpdateTontineContribution marks a contribution paid or pending and
// applies the rotation rules (payout completion, group completion).
type UpdateTontineContribution struct {
	GroupID        tontine.GroupID
	MemberID       tontine.MemberID
	ContributionID tontine.ContributionID
	Status         tontine.ContributionStatus
}

// =============================================================================
// ADMIN & SNAPSHOT ACTIONS
// =============================================================================

type UpdateAdminProfile struct {
	Profile AdminProfile
}

type AddNotification struct {
	Notification Notification
}

type MarkNotificationRead struct {
	NotificationID NotificationID
}

type ClearNotifications struct{}

// LoadSnapshot replaces the whole aggregate, e.g. after a tenant switch
// or a backup restore.
type LoadSnapshot struct {
	State State
}

func (AddClient) isAction()                 {}
func (UpdateClient) isAction()              {}
func (DeleteClient) isAction()              {}
func (RenewClientPlan) isAction()           {}
func (AddPlan) isAction()                   {}
func (UpdatePlan) isAction()                {}
func (DeletePlan) isAction()                {}
func (TogglePayment) isAction()             {}
func (AddDeposit) isAction()                {}
func (AddWithdrawal) isAction()             {}
func (AddTransfer) isAction()               {}
func (ReverseTransaction) isAction()        {}
func (AddLoan) isAction()                   {}
func (DeleteLoan) isAction()                {}
func (UpdateLoanStatus) isAction()          {}
func (AddLoanPayment) isAction()            {}
func (AddTontineGroup) isAction()           {}
func (UpdateTontineGroup) isAction()        {}
func (DeleteTontineGroup) isAction()        {}
func (AddTontineMember) isAction()          {}
func (UpdateTontineContribution) isAction() {}
func (UpdateAdminProfile) isAction()        {}
func (AddNotification) isAction()           {}
func (MarkNotificationRead) isAction()      {}
func (ClearNotifications) isAction()        {}
func (LoadSnapshot) isAction()              {}
