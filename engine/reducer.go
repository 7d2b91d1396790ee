/*
reducer.go - The pure, total state transition function

PURPOSE:
  Apply computes the next aggregate state for an action. It is total:
  every action yields a well-formed state, and anything that doesn't match
  (unknown IDs, impossible membership) leaves the state unchanged rather
  than failing. Precondition checking lives in validate.go; this file
  trusts its input.

PURITY:
  Apply never reads the clock, never generates IDs, and never aliases its
  input (it works on a deep clone). Given the same state and action it
  returns the same result, which is what makes the transition semantics
  directly testable.

SEE ALSO:
  - validate.go: The checks that run before Apply in Store.Dispatch
  - ledger.GenerateSchedule / tontine.MarkContribution: The pure helpers
    the transitions delegate to
*/
package engine

import (
	"github.com/tkane/savings-engine/ledger"
	"github.com/tkane/savings-engine/tontine"
)

// Apply returns the state after the action. Pure and total; no-op matches
// return an unchanged (but freshly cloned) state.
func Apply(s State, action Action) State {
	next := s.Clone()

	switch a := action.(type) {
	case AddClient:
		client := a.Client
		client.Payments = nil
		client.Withdrawals = nil
		client.Deposits = nil
		client.Loans = nil
		if plan, ok := ledger.FindPlan(next.Plans, client.PlanID); ok {
			client.Payments = ledger.GenerateSchedule(plan)
		}
		next.Clients = append(next.Clients, client)

	case UpdateClient:
		for i, existing := range next.Clients {
			if existing.ID != a.Client.ID {
				continue
			}
			updated := a.Client
			updated.Withdrawals = existing.Withdrawals
			updated.Deposits = existing.Deposits
			updated.Loans = existing.Loans
			updated.Payments = existing.Payments
			if updated.PlanID != existing.PlanID {
				updated.Payments = nil
				if plan, ok := ledger.FindPlan(next.Plans, updated.PlanID); ok {
					updated.Payments = ledger.GenerateSchedule(plan)
				}
			}
			next.Clients[i] = updated
		}

	case DeleteClient:
		next.Clients = deleteClient(next.Clients, a.ClientID)

	case RenewClientPlan:
		for i, c := range next.Clients {
			if c.ID != a.ClientID {
				continue
			}
			plan, ok := ledger.FindPlan(next.Plans, c.PlanID)
			if !ok {
				continue
			}
			c.StartDate = a.StartDate
			c.Payments = ledger.GenerateSchedule(plan)
			c.Withdrawals = nil
			c.Active = true
			next.Clients[i] = c
		}

	case AddPlan:
		next.Plans = append(next.Plans, a.Plan)

	case UpdatePlan:
		for i, p := range next.Plans {
			if p.ID == a.Plan.ID {
				next.Plans[i] = a.Plan
			}
		}

	case DeletePlan:
		plans := next.Plans[:0]
		for _, p := range next.Plans {
			if p.ID != a.PlanID {
				plans = append(plans, p)
			}
		}
		next.Plans = plans

	case TogglePayment:
		for i, c := range next.Clients {
			if c.ID != a.ClientID {
				continue
			}
			for j, p := range c.Payments {
				if p.Day != a.Day {
					continue
				}
				p.Paid = a.Paid
				p.PaidDate = nil
				if a.Paid {
					at := a.At
					p.PaidDate = &at
				}
				next.Clients[i].Payments[j] = p
			}
		}

	case AddDeposit:
		for i, c := range next.Clients {
			if c.ID == a.ClientID {
				next.Clients[i].Deposits = append(c.Deposits, a.Deposit)
			}
		}

	case AddWithdrawal:
		for i, c := range next.Clients {
			if c.ID == a.ClientID {
				next.Clients[i].Withdrawals = append(c.Withdrawals, a.Withdrawal)
			}
		}

	case AddTransfer:
		next.Transfers = append(next.Transfers, a.Transfer)

	case ReverseTransaction:
		next = applyReversal(next, a)

	case AddLoan:
		for i, c := range next.Clients {
			if c.ID == a.ClientID {
				next.Clients[i].Loans = append(c.Loans, a.Loan)
			}
		}

	case DeleteLoan:
		for i, c := range next.Clients {
			if c.ID != a.ClientID {
				continue
			}
			loans := c.Loans[:0]
			for _, l := range c.Loans {
				if l.ID != a.LoanID {
					loans = append(loans, l)
				}
			}
			next.Clients[i].Loans = loans
		}

	case UpdateLoanStatus:
		for i, c := range next.Clients {
			if c.ID != a.ClientID {
				continue
			}
			for j, l := range c.Loans {
				if l.ID == a.LoanID {
					next.Clients[i].Loans[j].Status = a.Status
				}
			}
		}

	case AddLoanPayment:
		for i, c := range next.Clients {
			if c.ID != a.ClientID {
				continue
			}
			for j, l := range c.Loans {
				if l.ID == a.LoanID {
					next.Clients[i].Loans[j].Payments = append(l.Payments, a.Payment)
				}
			}
		}

	case AddTontineGroup:
		next.TontineGroups = append(next.TontineGroups, a.Group)

	case UpdateTontineGroup:
		for i, g := range next.TontineGroups {
			if g.ID == a.Group.ID {
				next.TontineGroups[i] = a.Group
			}
		}

	case DeleteTontineGroup:
		groups := next.TontineGroups[:0]
		for _, g := range next.TontineGroups {
			if g.ID != a.GroupID {
				groups = append(groups, g)
			}
		}
		next.TontineGroups = groups

	case AddTontineMember:
		for i, g := range next.TontineGroups {
			if g.ID != a.GroupID {
				continue
			}
			// Validation runs beforehand; a duplicate slipping through is
			// a no-op here.
			if updated, err := tontine.AddMember(g, a.ClientID, a.PayoutOrder); err == nil {
				next.TontineGroups[i] = updated
			}
		}

	case UpdateTontineContribution:
		for i, g := range next.TontineGroups {
			if g.ID == a.GroupID {
				next.TontineGroups[i] = tontine.MarkContribution(g, a.MemberID, a.ContributionID, a.Status)
			}
		}

	case UpdateAdminProfile:
		next.AdminProfile = a.Profile

	case AddNotification:
		next.Notifications = append([]Notification{a.Notification}, next.Notifications...)

	case MarkNotificationRead:
		for i, n := range next.Notifications {
			if n.ID == a.NotificationID {
				next.Notifications[i].Read = true
			}
		}

	case ClearNotifications:
		next.Notifications = nil

	case LoadSnapshot:
		next = a.State.Clone()
	}

	return next
}

func deleteClient(clients []ledger.Client, id ledger.ClientID) []ledger.Client {
	out := clients[:0]
	for _, c := range clients {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// applyReversal stamps reversal metadata on the matching record. Deposits
// and withdrawals live on the owning client; transfers live on the
// aggregate, so one stamp covers both sides.
func applyReversal(s State, a ReverseTransaction) State {
	at := a.At

	switch a.Kind {
	case KindTransfer:
		for i, t := range s.Transfers {
			if t.ID == a.TransactionID {
				s.Transfers[i].Reversed = true
				s.Transfers[i].ReversalDate = &at
				s.Transfers[i].ReversalNote = a.Note
			}
		}

	case KindDeposit:
		for i, c := range s.Clients {
			if c.ID != a.ClientID {
				continue
			}
			for j, d := range c.Deposits {
				if d.ID == a.TransactionID {
					s.Clients[i].Deposits[j].Reversed = true
					s.Clients[i].Deposits[j].ReversalDate = &at
					s.Clients[i].Deposits[j].ReversalNote = a.Note
				}
			}
		}

	case KindWithdrawal:
		for i, c := range s.Clients {
			if c.ID != a.ClientID {
				continue
			}
			for j, w := range c.Withdrawals {
				if w.ID == a.TransactionID {
					s.Clients[i].Withdrawals[j].Reversed = true
					s.Clients[i].Withdrawals[j].ReversalDate = &at
					s.Clients[i].Withdrawals[j].ReversalNote = a.Note
				}
			}
		}
	}

	return s
}
