package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkane/savings-engine/engine"
	"github.com/tkane/savings-engine/ledger"
	"github.com/tkane/savings-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleState() engine.State {
	return engine.State{
		Plans: []ledger.Plan{{
			ID:         "plan-1",
			Name:       "Starter",
			BaseAmount: decimal.NewFromInt(5),
			Duration:   3,
		}},
		Clients: []ledger.Client{{ID: "client-1", Name: "Awa", PlanID: "plan-1"}},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tenant-1", sampleState()))

	loaded, found, err := store.Load(ctx, "tenant-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, loaded.Clients, 1)
	assert.Equal(t, "Awa", loaded.Clients[0].Name)
	require.Len(t, loaded.Plans, 1)
	assert.True(t, loaded.Plans[0].BaseAmount.Equal(decimal.NewFromInt(5)))
}

func TestLoad_MissingTenant(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSave_ReplacesSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tenant-1", sampleState()))

	updated := sampleState()
	updated.Clients[0].Name = "Awa Diallo"
	require.NoError(t, store.Save(ctx, "tenant-1", updated))

	loaded, found, err := store.Load(ctx, "tenant-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Awa Diallo", loaded.Clients[0].Name)
}

func TestSave_TenantsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tenant-a", sampleState()))
	require.NoError(t, store.Save(ctx, "tenant-b", engine.State{}))

	loaded, found, err := store.Load(ctx, "tenant-b")
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, loaded.Clients)

	tenants, err := store.Tenants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant-a", "tenant-b"}, tenants)
}

func TestHistory_TracksSaves(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleState()
	require.NoError(t, store.Save(ctx, "tenant-1", first))

	second := sampleState()
	second.Clients[0].Name = "Binta"
	require.NoError(t, store.Save(ctx, "tenant-1", second))

	entries, err := store.History(ctx, "tenant-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first
	assert.Equal(t, "Binta", entries[0].State.Clients[0].Name)
	assert.Equal(t, "Awa", entries[1].State.Clients[0].Name)
}

func TestReset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tenant-1", sampleState()))
	require.NoError(t, store.Reset(ctx))

	_, found, err := store.Load(ctx, "tenant-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEngineIntegration_DispatchPersists(t *testing.T) {
	// GIVEN: An engine store backed by SQLite
	// WHEN: Dispatching an action and reloading the tenant
	// THEN: The reloaded snapshot contains the transition

	store := newTestStore(t)
	ctx := context.Background()

	eng, err := engine.LoadStore(ctx, "tenant-1", engine.State{}, store)
	require.NoError(t, err)

	_, err = eng.Dispatch(engine.AddPlan{Plan: ledger.Plan{
		ID: "plan-1", Name: "Starter", BaseAmount: decimal.NewFromInt(5), Duration: 3,
	}})
	require.NoError(t, err)

	// Persistence is async; poll until it lands.
	require.Eventually(t, func() bool {
		loaded, found, err := store.Load(ctx, "tenant-1")
		return err == nil && found && len(loaded.Plans) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
