package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"ghostbridge/pkg/types"
)

// DefaultHistoryLimit caps wallet history queries when the caller
// passes no limit
const DefaultHistoryLimit = 10

// ErrNotFound is returned when an execution id is unknown to the store
var ErrNotFound = errors.New("execution not found")

// Store persists execution records. The engine is the only writer for
// any given record; reads may happen concurrently from any caller.
// Implementations must make every write visible to subsequent reads
// before the writer proceeds.
type Store interface {
	// Save inserts a new record, failing if the id already exists
	Save(ex *types.Execution) error
	// Get returns a copy of the record, or ErrNotFound
	Get(id string) (*types.Execution, error)
	// Update replaces an existing record, or returns ErrNotFound.
	// Callers stamp UpdatedAt; the store keeps it as given so injected
	// clocks survive persistence.
	Update(ex *types.Execution) error
	// ListByWallet returns records owned by the wallet, newest first,
	// capped at limit (DefaultHistoryLimit when limit <= 0)
	ListByWallet(wallet string, limit int) ([]*types.Execution, error)
}

// MemoryStore is a mutex-guarded in-memory Store. Records live for the
// lifetime of the process.
type MemoryStore struct {
	mu         sync.RWMutex
	executions map[string]*types.Execution
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{executions: make(map[string]*types.Execution)}
}

// Save inserts a new execution record
func (s *MemoryStore) Save(ex *types.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.executions[ex.ID]; exists {
		return fmt.Errorf("execution '%s' already exists", ex.ID)
	}
	s.executions[ex.ID] = cloneExecution(ex)
	return nil
}

// Get retrieves an execution by id
func (s *MemoryStore) Get(id string) (*types.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ex, exists := s.executions[id]
	if !exists {
		return nil, fmt.Errorf("execution '%s': %w", id, ErrNotFound)
	}
	return cloneExecution(ex), nil
}

// Update replaces an existing execution record
func (s *MemoryStore) Update(ex *types.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.executions[ex.ID]; !exists {
		return fmt.Errorf("execution '%s': %w", ex.ID, ErrNotFound)
	}
	s.executions[ex.ID] = cloneExecution(ex)
	return nil
}

// ListByWallet returns the wallet's executions, newest first
func (s *MemoryStore) ListByWallet(wallet string, limit int) ([]*types.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return collectByWallet(s.executions, wallet, limit), nil
}

// collectByWallet filters, orders newest-first, and caps the result.
// Callers must hold at least a read lock over the map.
func collectByWallet(executions map[string]*types.Execution, wallet string, limit int) []*types.Execution {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	matched := make([]*types.Execution, 0)
	for _, ex := range executions {
		if ex.WalletAddress == wallet {
			matched = append(matched, cloneExecution(ex))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// cloneExecution deep-copies a record so readers and the progression
// goroutine never share mutable state
func cloneExecution(ex *types.Execution) *types.Execution {
	out := *ex

	out.Steps = make([]types.ExecutionStep, len(ex.Steps))
	copy(out.Steps, ex.Steps)
	for i := range out.Steps {
		if ts := out.Steps[i].Timestamp; ts != nil {
			t := *ts
			out.Steps[i].Timestamp = &t
		}
	}

	if ex.SourceTransaction != nil {
		tx := *ex.SourceTransaction
		out.SourceTransaction = &tx
	}
	if ex.TargetTransaction != nil {
		tx := *ex.TargetTransaction
		out.TargetTransaction = &tx
	}

	return &out
}
