/*
rotation.go - Schedule generation, membership, and rotation transitions

PURPOSE:
  The mutation rules of the rotation: generating a member's contribution
  schedule, admitting members with unique payout orders, marking
  contributions paid, and deriving payout/completion state.

THE ROTATION RULE:
  A member with payout order P receives the pot once EVERY member has a
  paid contribution at period P. Marking any contribution re-evaluates
  that condition for the affected period. When all members have received
  their payout, the group is completed.

ELIGIBILITY VS MUTATION:
  PayoutEligible additionally gates on the calendar (now must be past the
  member's payout date). That check is advisory and read-only; the
  mutation path flips HasPaidOut on collective funding alone. The
  asymmetry is preserved from the observed product behavior.
*/
package tontine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tkane/savings-engine/ledger"
)

// =============================================================================
// ERRORS
// =============================================================================

// DuplicateOrderError signals that a payout order is already assigned.
type DuplicateOrderError struct {
	GroupID GroupID
	Order   int
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("payout order %d is already assigned in group %s", e.Order, e.GroupID)
}

// DuplicateMemberError signals that a client is already a group member.
type DuplicateMemberError struct {
	GroupID  GroupID
	ClientID ledger.ClientID
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("client %s is already a member of group %s", e.ClientID, e.GroupID)
}

// =============================================================================
// SCHEDULE GENERATION
// =============================================================================

// GenerateSchedule produces memberCount pending contributions, one per
// period 1..memberCount, with due dates advancing from start by the
// interval. Deterministic apart from the minted IDs.
func GenerateSchedule(start time.Time, amount decimal.Decimal, memberCount int, interval Interval, customDays int) []Contribution {
	contributions := make([]Contribution, 0, memberCount)
	date := start
	for period := 1; period <= memberCount; period++ {
		contributions = append(contributions, Contribution{
			ID:           NewContributionID(),
			Amount:       amount,
			DueDate:      date,
			PeriodNumber: period,
			Status:       ContributionPending,
		})
		date = interval.Next(date, customDays)
	}
	return contributions
}

// =============================================================================
// MEMBERSHIP
// =============================================================================

// AddMember admits a client at the given payout order. The member gets a
// full contribution schedule generated from the group's start date; their
// payout date is the due date of the period matching their order. When
// the member list reaches MemberCount the group activates.
func AddMember(g Group, clientID ledger.ClientID, order int) (Group, error) {
	for _, m := range g.Members {
		if m.PayoutOrder == order {
			return g, &DuplicateOrderError{GroupID: g.ID, Order: order}
		}
		if m.ClientID == clientID {
			return g, &DuplicateMemberError{GroupID: g.ID, ClientID: clientID}
		}
	}

	contributions := GenerateSchedule(g.StartDate, g.ContributionAmount, g.MemberCount, g.Interval, g.CustomDays)

	member := Member{
		ID:            NewMemberID(),
		ClientID:      clientID,
		PayoutOrder:   order,
		PayoutDate:    contributions[order-1].DueDate,
		Contributions: contributions,
	}

	g.Members = append(append([]Member(nil), g.Members...), member)
	if len(g.Members) == g.MemberCount && g.Status == GroupPending {
		g.Status = GroupActive
	}
	return g, nil
}

// =============================================================================
// ROTATION TRANSITIONS
// =============================================================================

// MarkContribution sets one contribution's status and re-derives the
// rotation state. If the change fully funds a period, the member whose
// payout order matches that period is marked paid out; if every member
// has been paid out, the group completes. Unknown member/contribution IDs
// leave the group unchanged.
func MarkContribution(g Group, memberID MemberID, contributionID ContributionID, status ContributionStatus) Group {
	period := 0
	members := make([]Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = m
		if m.ID != memberID {
			continue
		}
		contributions := make([]Contribution, len(m.Contributions))
		copy(contributions, m.Contributions)
		for j, c := range contributions {
			if c.ID == contributionID {
				contributions[j].Status = status
				period = c.PeriodNumber
			}
		}
		members[i].Contributions = contributions
	}
	g.Members = members

	if period == 0 {
		return g
	}

	if periodFullyFunded(g, period) {
		for i, m := range g.Members {
			if m.PayoutOrder == period {
				g.Members[i].HasPaidOut = true
			}
		}
		if allPaidOut(g) {
			g.Status = GroupCompleted
		}
	}
	return g
}

// periodFullyFunded reports whether every member has a paid contribution
// at the given period number.
func periodFullyFunded(g Group, period int) bool {
	for _, m := range g.Members {
		paid := false
		for _, c := range m.Contributions {
			if c.PeriodNumber == period && c.Status == ContributionPaid {
				paid = true
				break
			}
		}
		if !paid {
			return false
		}
	}
	return len(g.Members) > 0
}

func allPaidOut(g Group) bool {
	for _, m := range g.Members {
		if !m.HasPaidOut {
			return false
		}
	}
	return len(g.Members) > 0
}

// PayoutEligible is the advisory read-side check: the member exists, has
// not been paid out, their payout date has passed, and the cohort has
// fully funded their period.
func PayoutEligible(g Group, memberID MemberID, now time.Time) bool {
	member, ok := g.FindMember(memberID)
	if !ok || member.HasPaidOut {
		return false
	}
	if !now.After(member.PayoutDate) {
		return false
	}
	return periodFullyFunded(g, member.PayoutOrder)
}
