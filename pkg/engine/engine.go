package engine

import (
	crand "crypto/rand"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"ghostbridge/config"
	"ghostbridge/pkg/types"
)

const (
	blockNumberBase  = 18000000
	blockNumberRange = 1000000

	stepFailedMessage = "Transaction failed. Please try again."
)

// QuoteExpiredError is returned when a quote is submitted for execution
// after its expiry. No execution record is created in this case.
type QuoteExpiredError struct {
	QuoteID   string
	ExpiresAt time.Time
}

func (e *QuoteExpiredError) Error() string {
	return fmt.Sprintf("quote %s has expired; please request a new quote", e.QuoteID)
}

// Engine accepts quotes for execution and drives each accepted quote
// through its route in a dedicated goroutine. All state flows through
// the Store; the engine keeps no handle to running progressions beyond
// a WaitGroup for shutdown.
type Engine struct {
	store   Store
	cfg     *config.Config
	now     func() time.Time
	newID   func() string
	outcome func() bool // Per-step success draw
	wg      sync.WaitGroup
}

// New creates an execution engine over the given store
func New(store Store, cfg *config.Config) *Engine {
	e := &Engine{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	e.outcome = func() bool { return rand.Float64() > cfg.FailureRate }
	return e
}

// SetOutcomeFunc overrides the per-step success draw, used by tests to
// force deterministic success or failure
func (e *Engine) SetOutcomeFunc(fn func() bool) {
	e.outcome = fn
}

// SetClock overrides the time source
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// ExecuteQuote accepts a quote for execution. It creates and persists
// the execution record, schedules asynchronous progression, and returns
// the record immediately; the caller observes progress by polling the
// store.
func (e *Engine) ExecuteQuote(quote *types.Quote, signerAddress string) (*types.Execution, error) {
	if signerAddress == "" {
		return nil, fmt.Errorf("signer address is required")
	}
	if quote.SourceChain.IsEVM() && !common.IsHexAddress(signerAddress) {
		return nil, fmt.Errorf("'%s' is not a valid %s address", signerAddress, quote.SourceChain.DisplayName())
	}
	if quote.Expired(e.now()) {
		return nil, &QuoteExpiredError{QuoteID: quote.ID, ExpiresAt: quote.ExpiresAt}
	}

	now := e.now()
	execution := &types.Execution{
		ID:            e.newID(),
		QuoteID:       quote.ID,
		WalletAddress: signerAddress,
		SourceChain:   quote.SourceChain,
		TargetChain:   quote.TargetChain,
		InputAmount:   quote.InputAmount,
		OutputAmount:  quote.OutputAmount,
		Protocol:      quote.Protocol,
		Status:        types.ExecutionPending,
		Steps:         make([]types.ExecutionStep, len(quote.Route)),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i, r := range quote.Route {
		execution.Steps[i] = types.ExecutionStep{
			Step:    r.Step,
			Status:  types.StepPending,
			Message: r.Description,
		}
	}

	if err := e.store.Save(execution); err != nil {
		return nil, fmt.Errorf("failed to save execution: %w", err)
	}

	e.wg.Add(1)
	go e.progress(cloneExecution(execution), quote)

	return execution, nil
}

// GetExecution returns the current state of an execution
func (e *Engine) GetExecution(id string) (*types.Execution, error) {
	return e.store.Get(id)
}

// History lists a wallet's executions, newest first
func (e *Engine) History(walletAddress string, limit int) ([]*types.Execution, error) {
	return e.store.ListByWallet(walletAddress, limit)
}

// Wait blocks until every in-flight progression has reached a terminal
// state. Used for graceful shutdown and tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// progress advances the execution step by step, strictly in order,
// persisting after every transition. It owns the record exclusively:
// no other writer ever touches this execution id.
func (e *Engine) progress(ex *types.Execution, quote *types.Quote) {
	defer e.wg.Done()

	for i := range ex.Steps {
		// Simulated network propagation before the step starts
		time.Sleep(e.cfg.PropagationDelay)

		ex.Steps[i].Status = types.StepInProgress
		e.persist(ex)

		// Simulated confirmation time, scaled from the route estimate
		time.Sleep(time.Duration(quote.Route[i].EstimatedDuration) * e.cfg.StepDelayPerSecond)

		if !e.outcome() {
			ex.Steps[i].Status = types.StepFailed
			ex.Status = types.ExecutionFailed
			ex.Error = stepFailedMessage
			e.persist(ex)
			return
		}

		hash := newTxHash()
		block := newBlockNumber()
		ts := e.now()
		ex.Steps[i].Status = types.StepCompleted
		ex.Steps[i].TransactionHash = hash
		ex.Steps[i].BlockNumber = block
		ex.Steps[i].Timestamp = &ts

		last := len(ex.Steps) - 1
		if i == 0 {
			ex.SourceTransaction = &types.TransactionInfo{
				Hash:          hash,
				BlockNumber:   block,
				Confirmations: 1,
				ExplorerURL:   quote.SourceChain.ExplorerURL(hash),
			}
			ex.Status = types.ExecutionSourceConfirmed
		} else if i == last-1 {
			ex.Status = types.ExecutionBridging
		}
		if i == last {
			// The final step settles on the target chain, so its hash
			// is the target transaction; it always differs from the
			// source-chain hash of step one.
			ex.TargetTransaction = &types.TransactionInfo{
				Hash:          hash,
				BlockNumber:   block,
				Confirmations: 1,
				ExplorerURL:   quote.TargetChain.ExplorerURL(hash),
			}
			ex.Status = types.ExecutionCompleted
		}

		e.persist(ex)
	}
}

// persist pushes the current snapshot to the store. Store failures are
// logged and progression continues; the previous snapshot remains
// visible to readers.
func (e *Engine) persist(ex *types.Execution) {
	ex.UpdatedAt = e.now()
	if err := e.store.Update(ex); err != nil {
		fmt.Printf("[Engine] Failed to persist execution %s: %v\n", ex.ID, err)
	}
}

// newTxHash synthesizes a random 32-byte transaction hash
func newTxHash() string {
	var buf [common.HashLength]byte
	if _, err := crand.Read(buf[:]); err != nil {
		rand.Read(buf[:])
	}
	return common.BytesToHash(buf[:]).Hex()
}

// newBlockNumber synthesizes a plausible recent block height
func newBlockNumber() uint64 {
	return blockNumberBase + uint64(rand.Intn(blockNumberRange))
}
