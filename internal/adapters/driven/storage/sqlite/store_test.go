package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(action, outcome string) domain.InvocationRecord {
	return domain.InvocationRecord{
		ID:        uuid.NewString(),
		Action:    action,
		Outcome:   outcome,
		Duration:  25 * time.Millisecond,
		CreatedAt: time.Now().UTC(),
	}
}

func TestStore_RecordAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, record("mail_listar", domain.OutcomeOK)))
	require.NoError(t, store.Record(ctx, record("mail_listar", domain.OutcomeOK)))
	require.NoError(t, store.Record(ctx, record("no_existe", domain.OutcomeBadRequest)))

	counts, err := store.CountByOutcome(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.OutcomeOK])
	assert.Equal(t, 1, counts[domain.OutcomeBadRequest])
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := record("version", domain.OutcomeOK)
	require.NoError(t, store.Record(ctx, rec))

	err := store.Record(ctx, rec)
	require.Error(t, err)
}

func TestStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.db")

	store, err := New(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(context.Background(), record("version", domain.OutcomeOK)))
}

func TestStore_InMemory(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(context.Background(), record("version", domain.OutcomeOK)))
	counts, err := store.CountByOutcome(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.OutcomeOK])
}
