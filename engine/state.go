/*
Package engine is the single mutation authority of the savings-club core.

PURPOSE:
  Owns the aggregate state (clients, plan catalog, normalized transfers,
  tontine groups, admin profile, notifications) and applies atomic state
  transitions to it. The pure reducer in reducer.go is total - it always
  returns a well-formed state - while the validating Store in store.go
  rejects invalid actions with typed errors before the reducer ever sees
  them.

KEY CONCEPTS IN THIS FILE (state.go):
  - State: The full aggregate, exactly the shape persisted per tenant
  - AdminProfile / Notification: Operator-facing state carried alongside
    the ledger
  - Clone: Deep copy, so reducer output never aliases reducer input

OWNERSHIP:
  The engine owns the collections exclusively. Entities are created by
  explicit actions, mutated only through reducer transitions, and removed
  by explicit delete actions.

SEE ALSO:
  - actions.go: The closed action union
  - reducer.go: Transition semantics
  - store.go: Dispatch, validation, persistence hook
*/
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/tkane/savings-engine/ledger"
	"github.com/tkane/savings-engine/tontine"
)

// =============================================================================
// STATE - The persisted aggregate
// =============================================================================

// State is the whole aggregate for one tenant. Its JSON form is the
// snapshot document handed to persistence and backup.
type State struct {
	Clients       []ledger.Client   `json:"clients"`
	Plans         []ledger.Plan     `json:"plans"`
	Transfers     []ledger.Transfer `json:"transfers"`
	TontineGroups []tontine.Group   `json:"tontineGroups"`
	AdminProfile  AdminProfile      `json:"adminProfile"`
	Notifications []Notification    `json:"notifications"`
}

// AdminProfile is the operator identity shown in the admin surface.
type AdminProfile struct {
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	Avatar           string     `json:"avatar,omitempty"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled,omitempty"`
}

type NotificationID string

// NewNotificationID returns a fresh unique notification ID.
func NewNotificationID() NotificationID {
	return NotificationID(uuid.NewString())
}

// Notification is an operator-facing message kept with the snapshot.
type Notification struct {
	ID       NotificationID `json:"id"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Type     string         `json:"type"` // info, success, warning, error
	Date     time.Time      `json:"date"`
	Read     bool           `json:"read"`
	Link     string         `json:"link,omitempty"`
	Category string         `json:"category,omitempty"`
	Priority string         `json:"priority,omitempty"`
}

// FindClient resolves a client by ID.
func (s State) FindClient(id ledger.ClientID) (ledger.Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return ledger.Client{}, false
}

// FindGroup resolves a tontine group by ID.
func (s State) FindGroup(id tontine.GroupID) (tontine.Group, bool) {
	for _, g := range s.TontineGroups {
		if g.ID == id {
			return g, true
		}
	}
	return tontine.Group{}, false
}

// PlanReferenced reports whether any client is enrolled in the plan.
func (s State) PlanReferenced(id ledger.PlanID) bool {
	for _, c := range s.Clients {
		if c.PlanID == id {
			return true
		}
	}
	return false
}

// =============================================================================
// CLONE - Deep copy for reducer isolation
// =============================================================================

// Clone returns a deep copy of the state. Apply always works on a clone,
// so callers can keep references to the previous state.
func (s State) Clone() State {
	out := State{
		AdminProfile:  s.AdminProfile,
		Plans:         append([]ledger.Plan(nil), s.Plans...),
		Transfers:     append([]ledger.Transfer(nil), s.Transfers...),
		Notifications: append([]Notification(nil), s.Notifications...),
	}

	out.Clients = make([]ledger.Client, len(s.Clients))
	for i, c := range s.Clients {
		out.Clients[i] = cloneClient(c)
	}

	out.TontineGroups = make([]tontine.Group, len(s.TontineGroups))
	for i, g := range s.TontineGroups {
		out.TontineGroups[i] = cloneGroup(g)
	}

	return out
}

func cloneClient(c ledger.Client) ledger.Client {
	c.Payments = append([]ledger.Payment(nil), c.Payments...)
	c.Withdrawals = append([]ledger.Withdrawal(nil), c.Withdrawals...)
	c.Deposits = append([]ledger.Deposit(nil), c.Deposits...)
	loans := make([]ledger.Loan, len(c.Loans))
	for i, l := range c.Loans {
		l.Payments = append([]ledger.LoanPayment(nil), l.Payments...)
		loans[i] = l
	}
	c.Loans = loans
	return c
}

func cloneGroup(g tontine.Group) tontine.Group {
	members := make([]tontine.Member, len(g.Members))
	for i, m := range g.Members {
		m.Contributions = append([]tontine.Contribution(nil), m.Contributions...)
		members[i] = m
	}
	g.Members = members
	return g
}
