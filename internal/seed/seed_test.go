package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datawhisperer/datawhisperer/internal/customers"
)

type memoryStore struct {
	rows      []customers.NewCustomer
	batches   []int
	truncated bool
	failAfter int
}

func (m *memoryStore) InsertBatch(_ context.Context, batch []customers.NewCustomer) (int, error) {
	if m.failAfter > 0 && len(m.batches) >= m.failAfter {
		return 0, errors.New("insert failed")
	}
	m.rows = append(m.rows, batch...)
	m.batches = append(m.batches, len(batch))
	return len(batch), nil
}

func (m *memoryStore) Count(context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func (m *memoryStore) Truncate(context.Context) error {
	m.truncated = true
	m.rows = nil
	return nil
}

func TestRunInsertsInBatchesWithCanonicalFirst(t *testing.T) {
	store := &memoryStore{rows: []customers.NewCustomer{{Name: "Existing Row"}}}
	svc, err := NewService(Config{Count: 12, BatchSize: 5, Seed: 1, IncludeCanonical: true, Truncate: true}, nil, store)
	require.NoError(t, err)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.True(t, store.truncated)
	require.Equal(t, 12, summary.Inserted)
	require.EqualValues(t, 12, summary.Total)
	require.Equal(t, []int{5, 5, 2}, store.batches)
	require.Equal(t, Canonical, store.rows[0])
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	run := func() []customers.NewCustomer {
		store := &memoryStore{}
		svc, err := NewService(Config{Count: 8, BatchSize: 3, Seed: 99}, nil, store)
		require.NoError(t, err)
		_, err = svc.Run(context.Background())
		require.NoError(t, err)
		return store.rows
	}
	require.Equal(t, run(), run())
}

func TestRunStopsOnInsertFailure(t *testing.T) {
	store := &memoryStore{failAfter: 1}
	svc, err := NewService(Config{Count: 10, BatchSize: 4, Seed: 3}, nil, store)
	require.NoError(t, err)

	summary, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, 4, summary.Inserted)
}

func TestNewServiceValidates(t *testing.T) {
	_, err := NewService(Config{Count: 1, BatchSize: 0}, nil, &memoryStore{})
	require.Error(t, err)
	_, err = NewService(Config{Count: 1, BatchSize: 1}, nil, nil)
	require.Error(t, err)
}
