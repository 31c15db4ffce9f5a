package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ghostbridge/pkg/types"
)

const (
	// DefaultStoreFileName is used when no store path is configured
	DefaultStoreFileName = ".ghostbridge-executions.json"
)

// FileStore is a Store backed by a JSON file so execution records
// survive across CLI invocations. All reads are served from memory;
// every mutation is flushed with an atomic write-then-rename.
type FileStore struct {
	filePath   string
	mu         sync.RWMutex
	executions map[string]*types.Execution
}

// fileState is the JSON structure on disk
type fileState struct {
	Executions map[string]*types.Execution `json:"executions"`
}

// NewFileStore opens (or creates) a file-backed store at filePath,
// defaulting to DefaultStoreFileName in the home directory.
func NewFileStore(filePath string) (*FileStore, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStoreFileName)
	}

	store := &FileStore{
		filePath:   filePath,
		executions: make(map[string]*types.Execution),
	}

	if err := store.load(); err != nil {
		// Missing file is fine, it gets created on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load executions: %w", err)
		}
	}

	return store, nil
}

// load reads records from the storage file
func (s *FileStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to unmarshal executions: %w", err)
	}

	s.executions = state.Executions
	if s.executions == nil {
		s.executions = make(map[string]*types.Execution)
	}
	return nil
}

// flush writes the current state to disk. Callers must hold the lock;
// the encoded snapshot is taken before unlocking, so concurrent readers
// always see the in-memory state that is at least as new as the file.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(fileState{Executions: s.executions}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal executions: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to temporary file first, then rename for atomic write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write executions: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Save inserts a new execution record
func (s *FileStore) Save(ex *types.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.executions[ex.ID]; exists {
		return fmt.Errorf("execution '%s' already exists", ex.ID)
	}
	s.executions[ex.ID] = cloneExecution(ex)
	return s.flush()
}

// Get retrieves an execution by id
func (s *FileStore) Get(id string) (*types.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ex, exists := s.executions[id]
	if !exists {
		return nil, fmt.Errorf("execution '%s': %w", id, ErrNotFound)
	}
	return cloneExecution(ex), nil
}

// Update replaces an existing execution record
func (s *FileStore) Update(ex *types.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.executions[ex.ID]; !exists {
		return fmt.Errorf("execution '%s': %w", ex.ID, ErrNotFound)
	}
	s.executions[ex.ID] = cloneExecution(ex)
	return s.flush()
}

// ListByWallet returns the wallet's executions, newest first
func (s *FileStore) ListByWallet(wallet string, limit int) ([]*types.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return collectByWallet(s.executions, wallet, limit), nil
}

// Count returns the total number of stored executions
func (s *FileStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.executions)
}

// FilePath returns the storage file path
func (s *FileStore) FilePath() string {
	return s.filePath
}
