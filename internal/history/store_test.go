package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poledger/invoice-match/constants"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestStore_RunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	runID, err := store.StartRun(ctx, "/data/invoices", "po.csv", "out.csv")
	require.NoError(t, err)

	require.NoError(t, store.FinishRun(ctx, runID, 3, 2, 1))

	n, err := store.RunCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_JobLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	runID, err := store.StartRun(ctx, "/data/invoices", "po.csv", "out.csv")
	require.NoError(t, err)

	jobA, err := store.StartJob(ctx, runID, "a.pdf")
	require.NoError(t, err)
	require.NoError(t, store.FinishJobSuccess(ctx, jobA, "pdf-text", "A100", true))

	jobB, err := store.StartJob(ctx, runID, "b.pdf")
	require.NoError(t, err)
	require.NoError(t, store.FinishJobFailure(ctx, jobB, "corrupt xref"))

	jobC, err := store.StartJob(ctx, runID, "c.pdf")
	require.NoError(t, err)
	_ = jobC // left RUNNING, as after a crash mid-file

	statuses, err := store.JobStatuses(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusDone, statuses["a.pdf"])
	assert.Equal(t, constants.JobStatusFailed, statuses["b.pdf"])
	assert.Equal(t, constants.JobStatusRunning, statuses["c.pdf"])
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path, nil)
	require.NoError(t, err)
	_, err = store.StartRun(ctx, "/data/invoices", "po.csv", "out.csv")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	n, err := reopened.RunCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
