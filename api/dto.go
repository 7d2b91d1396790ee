/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Response types returned to clients

VALIDATION:
  Request types carry validator/v10 struct tags for shape checks (required
  fields, formats). Business rules (balances, lifecycles, duplicates) are
  enforced by the engine and surface as typed errors.

SEE ALSO:
  - handlers.go: Uses these types
  - engine: The actions these requests become
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tkane/savings-engine/ledger"
	"github.com/tkane/savings-engine/tontine"
)

// =============================================================================
// CLIENT TYPES
// =============================================================================

// CreateClientRequest is the request to register a client.
type CreateClientRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	PlanID    string `json:"planId"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
}

// UpdateClientRequest is the request to update client details.
type UpdateClientRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	PlanID    string `json:"planId"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Active    bool   `json:"isActive"`
}

// RenewPlanRequest restarts a client's savings cycle.
type RenewPlanRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
}

// BalanceDTO is the computed financial summary for a client.
type BalanceDTO struct {
	ClientID         string          `json:"clientId"`
	TotalExpected    decimal.Decimal `json:"totalExpected"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	NetTransfers     decimal.Decimal `json:"netTransfers"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	ProgressPercent  decimal.Decimal `json:"progressPercent"`
	PlanCompleted    bool            `json:"planCompleted"`
}

// =============================================================================
// PLAN TYPES
// =============================================================================

// PlanRequest creates or updates a savings plan.
type PlanRequest struct {
	Name            string          `json:"name" validate:"required"`
	BaseAmount      decimal.Decimal `json:"baseAmount" validate:"required"`
	Duration        int             `json:"duration" validate:"required,min=1,max=90"`
	AdminPercentage decimal.Decimal `json:"adminPercentage"`
	Description     string          `json:"description"`
}

// PlanDTO is a plan with its derived totals.
type PlanDTO struct {
	ledger.Plan
	Total         decimal.Decimal `json:"total"`
	AdminEarnings decimal.Decimal `json:"adminEarnings"`
}

// =============================================================================
// LEDGER TYPES
// =============================================================================

// TogglePaymentRequest marks a schedule day paid or unpaid.
type TogglePaymentRequest struct {
	Paid bool `json:"paid"`
}

// TransactionRequest records a deposit or withdrawal.
type TransactionRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Note   string          `json:"note"`
}

// TransferRequest moves funds between two clients.
type TransferRequest struct {
	FromClientID string          `json:"fromClientId" validate:"required"`
	ToClientID   string          `json:"toClientId" validate:"required,nefield=FromClientID"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	Date         string          `json:"date" validate:"required,datetime=2006-01-02"`
	Note         string          `json:"note"`
}

// ReverseRequest voids a deposit, withdrawal, or transfer.
type ReverseRequest struct {
	ClientID      string `json:"clientId"`
	TransactionID string `json:"transactionId" validate:"required"`
	Kind          string `json:"kind" validate:"required,oneof=deposit withdrawal transfer"`
	Note          string `json:"note"`
}

// =============================================================================
// LOAN TYPES
// =============================================================================

// LoanRequest opens a loan application.
type LoanRequest struct {
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	InterestRate decimal.Decimal `json:"interestRate"`
	StartDate    string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	DueDate      string          `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Note         string          `json:"note"`
}

// LoanStatusRequest transitions a loan's lifecycle.
type LoanStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected paid"`
}

// LoanPaymentRequest records a typed repayment.
type LoanPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Type   string          `json:"type" validate:"required,oneof=principal interest"`
}

// LoanSummaryDTO is the amortization view of a loan.
type LoanSummaryDTO struct {
	LoanID string `json:"loanId"`
	Status string `json:"status"`
	ledger.LoanSummary
}

// =============================================================================
// TONTINE TYPES
// =============================================================================

// TontineGroupRequest creates or updates a rotation group.
type TontineGroupRequest struct {
	Name               string          `json:"name" validate:"required"`
	ContributionAmount decimal.Decimal `json:"contributionAmount" validate:"required"`
	MemberCount        int             `json:"memberCount" validate:"required,min=2"`
	Interval           string          `json:"interval" validate:"required"`
	CustomDays         int             `json:"customInterval"`
	StartDate          string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	Description        string          `json:"description"`
}

// AddMemberRequest admits a client into a group.
type AddMemberRequest struct {
	ClientID    string `json:"clientId" validate:"required"`
	PayoutOrder int    `json:"payoutOrder" validate:"required,min=1"`
}

// ContributionRequest marks a contribution paid or pending.
type ContributionRequest struct {
	Status string `json:"status" validate:"required,oneof=paid pending"`
}

// EligibilityDTO reports whether a member can receive their payout now.
type EligibilityDTO struct {
	MemberID   string    `json:"memberId"`
	Eligible   bool      `json:"eligible"`
	PayoutDate time.Time `json:"payoutDate"`
	HasPaidOut bool      `json:"hasPaidOut"`
}

// =============================================================================
// BACKUP / ADMIN TYPES
// =============================================================================

// BackupExportRequest asks for an encrypted snapshot.
type BackupExportRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// BackupExportDTO carries the encrypted envelope.
type BackupExportDTO struct {
	Data       string    `json:"data"`
	ExportedAt time.Time `json:"exportedAt"`
}

// BackupImportRequest restores a snapshot from an encrypted envelope.
type BackupImportRequest struct {
	Password string `json:"password" validate:"required"`
	Data     string `json:"data" validate:"required"`
}

// ProfileRequest updates the admin profile.
type ProfileRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"omitempty,email"`
	Role             string `json:"role"`
	Avatar           string `json:"avatar"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

// NotificationRequest publishes a notification.
type NotificationRequest struct {
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=info success warning error"`
	Link     string `json:"link"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPlanDTO(p ledger.Plan) PlanDTO {
	return PlanDTO{
		Plan:          p,
		Total:         ledger.PlanTotal(p),
		AdminEarnings: ledger.AdminEarnings(p),
	}
}

func toBalanceDTO(c ledger.Client, plans []ledger.Plan, transfers []ledger.Transfer) BalanceDTO {
	return BalanceDTO{
		ClientID:         string(c.ID),
		TotalExpected:    ledger.TotalExpected(c, plans),
		AmountPaid:       ledger.AmountPaid(c.Payments),
		TotalDeposits:    ledger.TotalDeposits(c.Deposits),
		TotalWithdrawals: ledger.TotalWithdrawals(c.Withdrawals),
		NetTransfers:     ledger.NetTransfers(transfers, c.ID),
		AvailableBalance: ledger.AvailableBalance(c, transfers),
		RemainingBalance: ledger.RemainingBalance(c, plans),
		ProgressPercent:  ledger.ProgressPercent(c, plans),
		PlanCompleted:    ledger.PlanCompleted(c),
	}
}

func toLoanSummaryDTO(l ledger.Loan) LoanSummaryDTO {
	return LoanSummaryDTO{
		LoanID:      string(l.ID),
		Status:      string(l.Status),
		LoanSummary: ledger.Summarize(l),
	}
}

func toEligibilityDTO(g tontine.Group, memberID tontine.MemberID, now time.Time) (EligibilityDTO, bool) {
	member, ok := g.FindMember(memberID)
	if !ok {
		return EligibilityDTO{}, false
	}
	return EligibilityDTO{
		MemberID:   string(member.ID),
		Eligible:   tontine.PayoutEligible(g, memberID, now),
		PayoutDate: member.PayoutDate,
		HasPaidOut: member.HasPaidOut,
	}, true
}
