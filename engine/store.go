/*
store.go - The validating dispatcher and state container

PURPOSE:
  Store is the composition root's handle on the engine: it owns the
  current State, serializes mutations behind a mutex (single logical
  writer per tenant), validates each action, applies the total reducer,
  and hands the new snapshot to a Persister.

DISPATCH PIPELINE:
  1. Validate(state, action) - typed error on failure, state untouched
  2. Apply(state, action)    - pure transition
  3. follow-up transitions   - e.g. approved loan flips to paid when the
     amortization summary settles after a repayment
  4. persist                 - fire-and-forget; a failure is logged, not
     surfaced. The in-memory commit is the transactional boundary; a
     crash between commit and persist can lose the latest transition.

SEE ALSO:
  - store/sqlite: The production Persister
  - validate.go / reducer.go: Steps 1 and 2
*/
package engine

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tkane/savings-engine/ledger"
)

// Persister saves tenant snapshots. Save must be safe to call from a
// goroutine; the dispatcher does not wait for it.
type Persister interface {
	Save(ctx context.Context, tenantID string, state State) error
	Load(ctx context.Context, tenantID string) (State, bool, error)
}

// Store owns the aggregate state for one tenant.
type Store struct {
	mu       sync.Mutex
	state    State
	tenantID string
	persist  Persister
	log      *logrus.Entry
}

// Option configures a Store.
type Option func(*Store)

// WithPersister attaches snapshot persistence.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) { s.log = log }
}

// NewStore creates a store seeded with the given state.
func NewStore(tenantID string, initial State, opts ...Option) *Store {
	s := &Store{
		state:    initial.Clone(),
		tenantID: tenantID,
		log:      logrus.NewEntry(logrus.StandardLogger()).WithField("tenant", tenantID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadStore creates a store from the persisted snapshot for the tenant,
// falling back to the initial state when none exists.
func LoadStore(ctx context.Context, tenantID string, initial State, p Persister, opts ...Option) (*Store, error) {
	state, found, err := p.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !found {
		state = initial
	}
	opts = append([]Option{WithPersister(p)}, opts...)
	return NewStore(tenantID, state, opts...), nil
}

// State returns a deep copy of the current aggregate.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch validates and applies one action, returning the new state.
// On validation failure the state is unchanged and the typed error is
// returned. Persistence runs after the in-memory commit.
func (s *Store) Dispatch(action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Validate(s.state, action); err != nil {
		s.log.WithError(err).WithField("action", actionName(action)).Debug("action rejected")
		return s.state.Clone(), err
	}

	next := Apply(s.state, action)
	next = s.followUp(next, action)
	s.state = next

	s.log.WithField("action", actionName(action)).Debug("action applied")
	s.persistAsync(next)
	return next.Clone(), nil
}

// followUp applies system-derived transitions that hang off an action.
// The reducer stays ignorant of them so each transition remains a single
// testable rule.
func (s *Store) followUp(state State, action Action) State {
	if a, ok := action.(AddLoanPayment); ok {
		client, found := state.FindClient(a.ClientID)
		if !found {
			return state
		}
		loan, found := client.FindLoan(a.LoanID)
		if !found || loan.Status != ledger.LoanApproved {
			return state
		}
		if ledger.Summarize(loan).Settled() {
			state = Apply(state, UpdateLoanStatus{
				ClientID: a.ClientID,
				LoanID:   a.LoanID,
				Status:   ledger.LoanPaid,
			})
		}
	}
	return state
}

// persistAsync hands the snapshot to the Persister outside the dispatch
// critical path. Not part of the transactional boundary.
func (s *Store) persistAsync(state State) {
	if s.persist == nil {
		return
	}
	go func() {
		if err := s.persist.Save(context.Background(), s.tenantID, state); err != nil {
			s.log.WithError(err).Error("snapshot persistence failed")
		}
	}()
}

func actionName(a Action) string {
	switch a.(type) {
	case AddClient:
		return "add_client"
	case UpdateClient:
		return "update_client"
	case DeleteClient:
		return "delete_client"
	case RenewClientPlan:
		return "renew_client_plan"
	case AddPlan:
		return "add_plan"
	case UpdatePlan:
		return "update_plan"
	case DeletePlan:
		return "delete_plan"
	case TogglePayment:
		return "toggle_payment"
	case AddDeposit:
		return "add_deposit"
	case AddWithdrawal:
		return "add_withdrawal"
	case AddTransfer:
		return "add_transfer"
	case ReverseTransaction:
		return "reverse_transaction"
	case AddLoan:
		return "add_loan"
	case DeleteLoan:
		return "delete_loan"
	case UpdateLoanStatus:
		return "update_loan_status"
	case AddLoanPayment:
		return "add_loan_payment"
	case AddTontineGroup:
		return "add_tontine_group"
	case UpdateTontineGroup:
		return "update_tontine_group"
	case DeleteTontineGroup:
		return "delete_tontine_group"
	case AddTontineMember:
		return "add_tontine_member"
	case UpdateTontineContribution:
		return "update_tontine_contribution"
	case UpdateAdminProfile:
		return "update_admin_profile"
	case AddNotification:
		return "add_notification"
	case MarkNotificationRead:
		return "mark_notification_read"
	case ClearNotifications:
		return "clear_notifications"
	case LoadSnapshot:
		return "load_snapshot"
	default:
		return "unknown"
	}
}
