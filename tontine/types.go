/*
Package tontine implements the rotating-savings group engine.

PURPOSE:
  A tontine is a rotating-savings group: N members each contribute a fixed
  amount every period, and each period one member (by payout order) takes
  the whole pot. This package generates contribution schedules, applies
  the rotation rules, and answers payout eligibility.

KEY CONCEPTS:
  - Group: contribution amount, member count, interval, rotation status
  - Member: a client with a fixed payout order and a full contribution list
  - Contribution: one period's fixed-amount obligation (pending or paid)

INVARIANTS:
  - Payout orders are unique within a group, 1..MemberCount
  - A client joins a group at most once
  - Every member carries a full MemberCount-length contribution list,
    regardless of their own payout order
  - pending -> active when the member list fills up
  - active -> completed when every member has been paid out

SEE ALSO:
  - interval.go: Date stepping
  - rotation.go: Schedule generation, membership, rotation transitions
*/
package tontine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tkane/savings-engine/ledger"
)

// =============================================================================
// IDENTIFIERS & STATUSES
// =============================================================================

type GroupID string
type MemberID string
type ContributionID string

func NewGroupID() GroupID               { return GroupID(uuid.NewString()) }
func NewMemberID() MemberID             { return MemberID(uuid.NewString()) }
func NewContributionID() ContributionID { return ContributionID(uuid.NewString()) }

type GroupStatus string

const (
	GroupPending   GroupStatus = "pending"
	GroupActive    GroupStatus = "active"
	GroupCompleted GroupStatus = "completed"
)

type ContributionStatus string

const (
	ContributionPending ContributionStatus = "pending"
	ContributionPaid    ContributionStatus = "paid"
)

// =============================================================================
// ENTITIES
// =============================================================================

// Contribution is one period's obligation for one member. Amount always
// equals the group's contribution amount.
type Contribution struct {
	ID           ContributionID     `json:"id"`
	Amount       decimal.Decimal    `json:"amount"`
	DueDate      time.Time          `json:"dueDate"`
	PeriodNumber int                `json:"periodNumber"`
	Status       ContributionStatus `json:"status"`
}

// Member is a client enrolled in a group with a fixed payout position.
type Member struct {
	ID            MemberID        `json:"id"`
	ClientID      ledger.ClientID `json:"clientId"`
	PayoutOrder   int             `json:"payoutOrder"`
	PayoutDate    time.Time       `json:"payoutDate"`
	HasPaidOut    bool            `json:"hasPaidOut"`
	Contributions []Contribution  `json:"contributions"`
}

// Group is a rotating-savings group definition plus its rotation state.
type Group struct {
	ID                 GroupID         `json:"id"`
	Name               string          `json:"name"`
	ContributionAmount decimal.Decimal `json:"contributionAmount"`
	MemberCount        int             `json:"memberCount"`
	Interval           Interval        `json:"interval"`
	CustomDays         int             `json:"customInterval,omitempty"`
	StartDate          time.Time       `json:"startDate"`
	Members            []Member        `json:"members"`
	Status             GroupStatus     `json:"status"`
	Description        string          `json:"description,omitempty"`
}

// FindMember resolves a member by ID.
func (g Group) FindMember(id MemberID) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// =============================================================================
// READ-SIDE AGGREGATES
// =============================================================================

// TotalContributions sums every paid contribution across all members.
func TotalContributions(g Group) decimal.Decimal {
	total := decimal.Zero
	for _, m := range g.Members {
		for _, c := range m.Contributions {
			if c.Status == ContributionPaid {
				total = total.Add(c.Amount)
			}
		}
	}
	return total
}

// MemberProgress is the member's paid-contribution ratio in percent.
func MemberProgress(m Member) decimal.Decimal {
	if len(m.Contributions) == 0 {
		return decimal.Zero
	}
	paid := 0
	for _, c := range m.Contributions {
		if c.Status == ContributionPaid {
			paid++
		}
	}
	return decimal.NewFromInt(int64(paid)).
		Div(decimal.NewFromInt(int64(len(m.Contributions)))).
		Mul(decimal.NewFromInt(100))
}

// Validate returns the structural problems of a group, empty when sound.
// Used by snapshot import and tests; the engine's dispatcher prevents
// these states from arising through normal actions.
func Validate(g Group) []string {
	var problems []string

	if len(g.Members) != g.MemberCount && g.Status != GroupPending {
		problems = append(problems, "member count does not match the required number of members")
	}

	orders := make(map[int]bool, len(g.Members))
	clients := make(map[ledger.ClientID]bool, len(g.Members))
	for _, m := range g.Members {
		if orders[m.PayoutOrder] {
			problems = append(problems, "duplicate payout orders found")
		}
		orders[m.PayoutOrder] = true
		if clients[m.ClientID] {
			problems = append(problems, "duplicate clients found")
		}
		clients[m.ClientID] = true
		if len(m.Contributions) != g.MemberCount {
			problems = append(problems, "invalid contribution count for member "+string(m.ID))
		}
	}

	return problems
}
