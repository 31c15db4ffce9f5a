package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ghostbridge/config"
	"ghostbridge/pkg/engine"
	"ghostbridge/pkg/types"
)

func TestCompleteExecutionWithoutWatch(t *testing.T) {
	cfg := config.Default()
	cfg.PropagationDelay = time.Millisecond
	cfg.StepDelayPerSecond = 0

	store := engine.NewMemoryStore()
	eng := engine.New(store, cfg)
	eng.SetOutcomeFunc(func() bool { return true })

	q := &types.Quote{
		ID:           "quote-1",
		Protocol:     types.ProtocolNearIntents,
		SourceChain:  types.ChainZcash,
		TargetChain:  types.ChainNear,
		InputAmount:  "1",
		OutputAmount: "0.99850000",
		Route: []types.RouteStep{
			{Step: 1, Action: types.ActionLock, Chain: types.ChainZcash, Description: "Lock ZEC", EstimatedDuration: 60},
			{Step: 2, Action: types.ActionMint, Chain: types.ChainNear, Description: "Mint wZEC", EstimatedDuration: 54},
		},
		ExpiresAt: time.Now().Add(time.Minute),
	}

	ex, err := eng.ExecuteQuote(q, "alice.near")
	require.NoError(t, err)

	// Even with progress display suppressed the command must not hand
	// control back until the persisted record has settled
	final, err := completeExecution(eng, store, ex.ID, false)
	require.NoError(t, err)
	require.True(t, final.Terminal())
	require.Equal(t, types.ExecutionCompleted, final.Status)

	stored, err := store.Get(ex.ID)
	require.NoError(t, err)
	require.True(t, stored.Terminal())
}

func TestShortHash(t *testing.T) {
	require.Equal(t, "0xabc", shortHash("0xabc"))
	long := "0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef"
	require.Equal(t, "0x12345678...cdef", shortHash(long))
}
