package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ghostbridge/pkg/types"
)

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "executions.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.Equal(t, path, store.FilePath())
	require.Equal(t, 0, store.Count())

	ex := sampleExecution("ex-1", "alice.near", time.Now().UTC())
	require.NoError(t, store.Save(ex))

	stamp := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	ex.Status = types.ExecutionCompleted
	ex.UpdatedAt = stamp
	require.NoError(t, store.Update(ex))

	// A fresh store over the same file sees the updated record
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Count())

	got, err := reopened.Get("ex-1")
	require.NoError(t, err)
	require.Equal(t, types.ExecutionCompleted, got.Status)
	require.True(t, got.UpdatedAt.Equal(stamp))
	require.Equal(t, "alice.near", got.WalletAddress)
	require.Len(t, got.Steps, 2)
	require.NotNil(t, got.SourceTransaction)
	require.Equal(t, "0xaa", got.SourceTransaction.Hash)
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "executions.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.Equal(t, 0, store.Count())

	_, err = store.Get("anything")
	require.ErrorIs(t, err, ErrNotFound)

	// First save creates the directory and the file
	require.NoError(t, store.Save(sampleExecution("ex-1", "alice.near", time.Now())))
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "executions.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := NewFileStore(path)
	require.Error(t, err)
}

func TestFileStoreListByWallet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "executions.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(sampleExecution("old", "alice.near", base)))
	require.NoError(t, store.Save(sampleExecution("new", "alice.near", base.Add(time.Hour))))

	list, err := store.ListByWallet("alice.near", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "old", list[1].ID)
}
