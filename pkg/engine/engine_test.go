package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ghostbridge/config"
	"ghostbridge/pkg/types"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.PropagationDelay = 0
	cfg.StepDelayPerSecond = 0
	return cfg
}

func testQuote(route ...types.RouteStep) *types.Quote {
	return &types.Quote{
		ID:           "quote-1",
		Protocol:     types.ProtocolNearIntents,
		SourceChain:  types.ChainZcash,
		TargetChain:  types.ChainNear,
		SourceToken:  "ZEC",
		TargetToken:  "wZEC",
		InputAmount:  "10",
		OutputAmount: "9.98500000",
		Route:        route,
		ExpiresAt:    time.Now().Add(5 * time.Minute),
	}
}

func threeStepRoute() []types.RouteStep {
	return []types.RouteStep{
		{Step: 1, Protocol: "NEAR Intents", Action: types.ActionLock, Chain: types.ChainZcash, Description: "Lock ZEC", EstimatedDuration: 60},
		{Step: 2, Protocol: "NEAR Intents", Action: types.ActionVerify, Chain: types.ChainNear, Description: "Verify transfer", EstimatedDuration: 90},
		{Step: 3, Protocol: "NEAR Intents", Action: types.ActionMint, Chain: types.ChainNear, Description: "Mint wZEC", EstimatedDuration: 54},
	}
}

func TestExecuteQuoteExpired(t *testing.T) {
	store := NewMemoryStore()
	eng := New(store, testConfig())

	q := testQuote(threeStepRoute()...)
	q.ExpiresAt = time.Now().Add(-time.Second)

	_, err := eng.ExecuteQuote(q, "alice.near")
	var expired *QuoteExpiredError
	require.ErrorAs(t, err, &expired)
	require.Equal(t, "quote-1", expired.QuoteID)

	// No record is created for a rejected quote
	list, listErr := store.ListByWallet("alice.near", 0)
	require.NoError(t, listErr)
	require.Empty(t, list)
}

func TestExecuteQuoteSignerValidation(t *testing.T) {
	store := NewMemoryStore()
	eng := New(store, testConfig())
	eng.SetOutcomeFunc(func() bool { return true })

	_, err := eng.ExecuteQuote(testQuote(threeStepRoute()...), "")
	require.Error(t, err)

	evm := testQuote(threeStepRoute()...)
	evm.SourceChain = types.ChainEthereum
	_, err = eng.ExecuteQuote(evm, "alice.near")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a valid")

	_, err = eng.ExecuteQuote(evm, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	require.NoError(t, err)
	eng.Wait()
}

func TestExecuteQuoteRunsToCompletion(t *testing.T) {
	store := NewMemoryStore()
	eng := New(store, testConfig())
	eng.SetOutcomeFunc(func() bool { return true })

	ex, err := eng.ExecuteQuote(testQuote(threeStepRoute()...), "alice.near")
	require.NoError(t, err)
	require.Equal(t, types.ExecutionPending, ex.Status)
	require.Len(t, ex.Steps, 3)
	for i, step := range ex.Steps {
		require.Equal(t, i+1, step.Step)
		require.Equal(t, types.StepPending, step.Status)
	}

	eng.Wait()

	final, err := eng.GetExecution(ex.ID)
	require.NoError(t, err)
	require.Equal(t, types.ExecutionCompleted, final.Status)
	require.True(t, final.Terminal())
	require.Empty(t, final.Error)

	for _, step := range final.Steps {
		require.Equal(t, types.StepCompleted, step.Status)
		require.NotEmpty(t, step.TransactionHash)
		require.NotNil(t, step.Timestamp)
		require.GreaterOrEqual(t, step.BlockNumber, uint64(18000000))
		require.Less(t, step.BlockNumber, uint64(19000000))
	}

	require.NotNil(t, final.SourceTransaction)
	require.NotNil(t, final.TargetTransaction)
	require.Equal(t, final.Steps[0].TransactionHash, final.SourceTransaction.Hash)
	require.Equal(t, final.Steps[2].TransactionHash, final.TargetTransaction.Hash)
	require.NotEqual(t, final.SourceTransaction.Hash, final.TargetTransaction.Hash)
	require.Contains(t, final.SourceTransaction.ExplorerURL, final.SourceTransaction.Hash)
	require.Contains(t, final.TargetTransaction.ExplorerURL, final.TargetTransaction.Hash)
}

func TestExecuteQuoteFailureMidway(t *testing.T) {
	store := NewMemoryStore()
	eng := New(store, testConfig())

	draws := 0
	eng.SetOutcomeFunc(func() bool {
		draws++
		return draws == 1 // First step succeeds, second fails
	})

	ex, err := eng.ExecuteQuote(testQuote(threeStepRoute()...), "alice.near")
	require.NoError(t, err)
	eng.Wait()

	final, err := eng.GetExecution(ex.ID)
	require.NoError(t, err)
	require.Equal(t, types.ExecutionFailed, final.Status)
	require.True(t, final.Terminal())
	require.Equal(t, "Transaction failed. Please try again.", final.Error)

	require.Equal(t, types.StepCompleted, final.Steps[0].Status)
	require.Equal(t, types.StepFailed, final.Steps[1].Status)
	require.Equal(t, types.StepPending, final.Steps[2].Status)

	// The confirmed source leg survives the failure
	require.NotNil(t, final.SourceTransaction)
	require.Nil(t, final.TargetTransaction)
}

func TestExecuteQuoteTwoStepRoute(t *testing.T) {
	store := NewMemoryStore()
	eng := New(store, testConfig())
	eng.SetOutcomeFunc(func() bool { return true })

	q := testQuote(
		types.RouteStep{Step: 1, Action: types.ActionLock, Chain: types.ChainEthereum, Description: "Lock tokens", EstimatedDuration: 60},
		types.RouteStep{Step: 2, Action: types.ActionMint, Chain: types.ChainPolygon, Description: "Mint tokens", EstimatedDuration: 180},
	)
	q.SourceChain = types.ChainEthereum
	q.TargetChain = types.ChainPolygon

	ex, err := eng.ExecuteQuote(q, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	require.NoError(t, err)
	eng.Wait()

	final, err := eng.GetExecution(ex.ID)
	require.NoError(t, err)
	require.Equal(t, types.ExecutionCompleted, final.Status)
	require.NotNil(t, final.SourceTransaction)
	require.NotNil(t, final.TargetTransaction)
	require.NotEqual(t, final.SourceTransaction.Hash, final.TargetTransaction.Hash)
}

func TestExecutionProgressMonotonic(t *testing.T) {
	cfg := config.Default()
	cfg.PropagationDelay = 2 * time.Millisecond
	cfg.StepDelayPerSecond = time.Millisecond

	store := NewMemoryStore()
	eng := New(store, cfg)
	eng.SetOutcomeFunc(func() bool { return true })

	ex, err := eng.ExecuteQuote(testQuote(threeStepRoute()...), "alice.near")
	require.NoError(t, err)

	stepRank := map[types.StepStatus]int{
		types.StepPending:    0,
		types.StepInProgress: 1,
		types.StepCompleted:  2,
		types.StepFailed:     2,
	}
	statusRank := map[types.ExecutionStatus]int{
		types.ExecutionPending:         0,
		types.ExecutionSourceConfirmed: 1,
		types.ExecutionBridging:        2,
		types.ExecutionTargetPending:   3,
		types.ExecutionCompleted:       4,
		types.ExecutionFailed:          4,
	}

	// Poll concurrently with the progression: every snapshot must be
	// monotone relative to the previous one, and a step may only start
	// once its predecessor has settled.
	prev, err := store.Get(ex.ID)
	require.NoError(t, err)
	for !prev.Terminal() {
		cur, err := store.Get(ex.ID)
		require.NoError(t, err)

		require.GreaterOrEqual(t, statusRank[cur.Status], statusRank[prev.Status],
			"status went backwards: %s -> %s", prev.Status, cur.Status)

		for i := range cur.Steps {
			require.GreaterOrEqual(t, stepRank[cur.Steps[i].Status], stepRank[prev.Steps[i].Status],
				"step %d went backwards", cur.Steps[i].Step)
			if i > 0 && cur.Steps[i].Status != types.StepPending {
				require.Equal(t, types.StepCompleted, cur.Steps[i-1].Status,
					"step %d started before step %d settled", cur.Steps[i].Step, cur.Steps[i-1].Step)
			}
		}

		prev = cur
		time.Sleep(time.Millisecond)
	}

	eng.Wait()
	require.Equal(t, types.ExecutionCompleted, prev.Status)
}

func TestPersistUsesInjectedClock(t *testing.T) {
	store := NewMemoryStore()
	eng := New(store, testConfig())
	eng.SetOutcomeFunc(func() bool { return true })

	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	eng.SetClock(func() time.Time { return fixed })

	q := testQuote(threeStepRoute()...)
	q.ExpiresAt = fixed.Add(time.Hour)
	ex, err := eng.ExecuteQuote(q, "alice.near")
	require.NoError(t, err)
	eng.Wait()

	final, err := eng.GetExecution(ex.ID)
	require.NoError(t, err)
	require.True(t, final.CreatedAt.Equal(fixed))
	// Every persisted snapshot carries the injected clock, end to end
	require.True(t, final.UpdatedAt.Equal(fixed))
	for _, step := range final.Steps {
		require.NotNil(t, step.Timestamp)
		require.True(t, step.Timestamp.Equal(fixed))
	}
}

func TestHistoryThroughEngine(t *testing.T) {
	store := NewMemoryStore()
	eng := New(store, testConfig())
	eng.SetOutcomeFunc(func() bool { return true })

	// Advance the clock on every read so the two records never share a
	// creation time
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	eng.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		base = base.Add(time.Second)
		return base
	})

	q1 := testQuote(threeStepRoute()...)
	q1.ExpiresAt = base.Add(time.Hour)
	first, err := eng.ExecuteQuote(q1, "alice.near")
	require.NoError(t, err)
	eng.Wait()

	q2 := testQuote(threeStepRoute()...)
	q2.ID = "quote-2"
	q2.ExpiresAt = base.Add(time.Hour)
	second, err := eng.ExecuteQuote(q2, "alice.near")
	require.NoError(t, err)
	eng.Wait()

	history, err := eng.History("alice.near", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, []string{second.ID, first.ID}, []string{history[0].ID, history[1].ID})

	_, err = eng.GetExecution("missing")
	require.ErrorIs(t, err, ErrNotFound)
}
