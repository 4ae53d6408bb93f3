package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/turnbattle/internal/history"
	"github.com/cory-johannsen/turnbattle/internal/storage/postgres"
	"github.com/cory-johannsen/turnbattle/internal/testutil"
)

func setupHistory(t *testing.T) *postgres.HistoryRepository {
	t.Helper()
	return testutil.NewPostgresContainer(t).HistoryRepository(t)
}

func TestHistoryRepository_AppendListLast(t *testing.T) {
	repo := setupHistory(t)
	ctx := context.Background()

	_, err := repo.Last(ctx)
	assert.ErrorIs(t, err, history.ErrNoRecords)

	base := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	first := history.NewRecord(false, 4, []string{"Angelo", "Jessica"}, []string{"Golem"}, base)
	second := history.NewRecord(true, 9, []string{"Angelo"}, nil, base.Add(time.Minute))
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	rs, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, second.ID, rs[0].ID)
	assert.Equal(t, []string{"Angelo", "Jessica"}, rs[1].Heroes)
	assert.Equal(t, []string{"Golem"}, rs[1].Enemies)
	assert.Empty(t, rs[0].Enemies)
	assert.True(t, rs[1].FoughtAt.Equal(base))

	last, err := repo.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, last.ID)
	assert.True(t, last.Victory)

	rs, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rs, 1)
}

func TestHistoryRepository_RejectsInvalid(t *testing.T) {
	repo := setupHistory(t)
	assert.Error(t, repo.Append(context.Background(), history.Record{}))
}
