package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkane/savings-engine/engine"
	"github.com/tkane/savings-engine/ledger"
)

// recordingPersister captures saved snapshots and signals each Save.
type recordingPersister struct {
	mu     sync.Mutex
	saved  []engine.State
	loaded *engine.State
	err    error
	ch     chan struct{}
}

func newRecordingPersister() *recordingPersister {
	return &recordingPersister{ch: make(chan struct{}, 16)}
}

func (p *recordingPersister) Save(ctx context.Context, tenantID string, state engine.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		p.ch <- struct{}{}
		return p.err
	}
	p.saved = append(p.saved, state)
	p.ch <- struct{}{}
	return nil
}

func (p *recordingPersister) Load(ctx context.Context, tenantID string) (engine.State, bool, error) {
	if p.loaded == nil {
		return engine.State{}, false, nil
	}
	return *p.loaded, true, nil
}

func (p *recordingPersister) waitForSave(t *testing.T) {
	t.Helper()
	select {
	case <-p.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for persist")
	}
}

func (p *recordingPersister) lastSaved(t *testing.T) engine.State {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.saved)
	return p.saved[len(p.saved)-1]
}

func TestDispatch_AppliesAndReturnsNewState(t *testing.T) {
	store := engine.NewStore("tenant-1", engine.State{})

	state, err := store.Dispatch(engine.AddPlan{Plan: basePlan()})

	require.NoError(t, err)
	assert.Len(t, state.Plans, 1)
	assert.Len(t, store.State().Plans, 1)
}

func TestDispatch_RejectionLeavesStateUnchanged(t *testing.T) {
	store := engine.NewStore("tenant-1", seedState())

	_, err := store.Dispatch(engine.AddWithdrawal{
		ClientID:   "client-1",
		Withdrawal: ledger.Withdrawal{ID: "w1", Amount: dec(999)},
	})

	require.ErrorIs(t, err, engine.ErrInsufficientBalance)
	client, _ := store.State().FindClient("client-1")
	assert.Empty(t, client.Withdrawals)
}

func TestDispatch_LoanAutoPaidWhenSettled(t *testing.T) {
	// GIVEN: An approved 1000 loan at 5%
	// WHEN: Principal and interest are fully repaid
	// THEN: The dispatcher flips the loan to paid on the settling payment

	store := engine.NewStore("tenant-1", loanState(ledger.LoanApproved))

	_, err := store.Dispatch(engine.AddLoanPayment{ClientID: "client-1", LoanID: "loan-1", Payment: ledger.LoanPayment{
		ID: "p1", Amount: dec(1000), Type: ledger.PaymentPrincipal,
	}})
	require.NoError(t, err)

	client, _ := store.State().FindClient("client-1")
	loan, _ := client.FindLoan("loan-1")
	assert.Equal(t, ledger.LoanApproved, loan.Status, "interest still outstanding")

	state, err := store.Dispatch(engine.AddLoanPayment{ClientID: "client-1", LoanID: "loan-1", Payment: ledger.LoanPayment{
		ID: "p2", Amount: dec(50), Type: ledger.PaymentInterest,
	}})
	require.NoError(t, err)

	client, _ = state.FindClient("client-1")
	loan, _ = client.FindLoan("loan-1")
	assert.Equal(t, ledger.LoanPaid, loan.Status)
}

func TestDispatch_RepaymentAfterAutoPaidRejected(t *testing.T) {
	store := engine.NewStore("tenant-1", loanState(ledger.LoanApproved))

	_, err := store.Dispatch(engine.AddLoanPayment{ClientID: "client-1", LoanID: "loan-1", Payment: ledger.LoanPayment{
		ID: "p1", Amount: dec(1000), Type: ledger.PaymentPrincipal,
	}})
	require.NoError(t, err)
	_, err = store.Dispatch(engine.AddLoanPayment{ClientID: "client-1", LoanID: "loan-1", Payment: ledger.LoanPayment{
		ID: "p2", Amount: dec(50), Type: ledger.PaymentInterest,
	}})
	require.NoError(t, err)

	_, err = store.Dispatch(engine.AddLoanPayment{ClientID: "client-1", LoanID: "loan-1", Payment: ledger.LoanPayment{
		ID: "p3", Amount: dec(1), Type: ledger.PaymentPrincipal,
	}})
	assert.ErrorIs(t, err, engine.ErrLoanTerminal)
}

func TestDispatch_PersistsAfterCommit(t *testing.T) {
	persister := newRecordingPersister()
	store := engine.NewStore("tenant-1", engine.State{}, engine.WithPersister(persister))

	_, err := store.Dispatch(engine.AddPlan{Plan: basePlan()})
	require.NoError(t, err)

	persister.waitForSave(t)
	assert.Len(t, persister.lastSaved(t).Plans, 1)
}

func TestDispatch_PersistFailureDoesNotSurface(t *testing.T) {
	persister := newRecordingPersister()
	persister.err = errors.New("disk full")
	store := engine.NewStore("tenant-1", engine.State{}, engine.WithPersister(persister))

	_, err := store.Dispatch(engine.AddPlan{Plan: basePlan()})

	require.NoError(t, err, "persistence is fire-and-forget")
	persister.waitForSave(t)
	assert.Len(t, store.State().Plans, 1)
}

func TestLoadStore_UsesSnapshotWhenPresent(t *testing.T) {
	seeded := seedState()
	persister := newRecordingPersister()
	persister.loaded = &seeded

	store, err := engine.LoadStore(context.Background(), "tenant-1", engine.State{}, persister)
	require.NoError(t, err)

	_, ok := store.State().FindClient("client-1")
	assert.True(t, ok)
}

func TestLoadStore_FallsBackToInitial(t *testing.T) {
	persister := newRecordingPersister()
	initial := engine.State{Plans: []ledger.Plan{basePlan()}}

	store, err := engine.LoadStore(context.Background(), "tenant-1", initial, persister)
	require.NoError(t, err)

	assert.Len(t, store.State().Plans, 1)
}

func TestState_ReturnsIsolatedCopy(t *testing.T) {
	store := engine.NewStore("tenant-1", seedState())

	snapshot := store.State()
	snapshot.Clients[0].Name = "mutated"

	client, _ := store.State().FindClient("client-1")
	assert.Equal(t, "Awa", client.Name)
}
