package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	Name string
}

func (r row) RecordID() int64 { return r.ID }

func seed(t *testing.T) *Store[row] {
	t.Helper()
	s := NewStore[row]()
	s.Replace([]row{{1, "A"}, {2, "B"}, {3, "C"}}, 3)
	return s
}

func TestDeleteOptimisticThenRollback(t *testing.T) {
	t.Parallel()
	s := seed(t)

	var sawDuringCall []row
	err := s.Delete(context.Background(), 2,
		func(context.Context) error {
			// the UI must already reflect the removal while the call runs
			sawDuringCall, _ = s.Items()
			return errors.New("boom")
		},
		nil,
	)
	require.Error(t, err)
	assert.Equal(t, []row{{1, "A"}, {3, "C"}}, sawDuringCall)

	// failure restores exactly the original list and count
	items, total := s.Items()
	assert.Equal(t, []row{{1, "A"}, {2, "B"}, {3, "C"}}, items)
	assert.Equal(t, 3, total)
}

func TestDeleteSuccessKeepsOptimisticState(t *testing.T) {
	t.Parallel()
	s := seed(t)

	err := s.Delete(context.Background(), 2,
		func(context.Context) error { return nil },
		nil,
	)
	require.NoError(t, err)

	items, total := s.Items()
	assert.Equal(t, []row{{1, "A"}, {3, "C"}}, items)
	assert.Equal(t, 2, total)
}

func TestDeleteRejectsOverlappingDelete(t *testing.T) {
	t.Parallel()
	s := seed(t)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Delete(context.Background(), 2,
			func(context.Context) error {
				close(started)
				<-release
				return nil
			},
			nil,
		)
	}()

	<-started
	err := s.Delete(context.Background(), 2, func(context.Context) error { return nil }, nil)
	assert.Error(t, err) // second delete of the same id is rejected, not queued

	close(release)
	require.NoError(t, <-done)
}

func TestSilentReloadFiltersMidDeleteRows(t *testing.T) {
	t.Parallel()
	s := seed(t)

	// mark 2 as mid-delete the way Delete does
	s.mu.Lock()
	s.deleting[2] = struct{}{}
	s.items = []row{{1, "A"}, {3, "C"}}
	s.total = 2
	s.mu.Unlock()

	// the backend snapshot still contains the deleted row; it must not
	// reappear, and the settled id must be cleared afterwards
	s.SilentReload(context.Background(), 2, func(context.Context) ([]row, int, error) {
		return []row{{1, "A"}, {2, "B"}, {3, "C"}}, 3, nil
	})

	items, total := s.Items()
	assert.Equal(t, []row{{1, "A"}, {3, "C"}}, items)
	assert.Equal(t, 2, total)

	s.mu.Lock()
	_, still := s.deleting[2]
	s.mu.Unlock()
	assert.False(t, still)
}

func TestSilentReloadSwallowsErrors(t *testing.T) {
	t.Parallel()
	s := seed(t)

	s.SilentReload(context.Background(), 0, func(context.Context) ([]row, int, error) {
		return nil, 0, errors.New("network down")
	})

	items, total := s.Items()
	assert.Len(t, items, 3)
	assert.Equal(t, 3, total)
}

func TestCreateMergesReturnedRecord(t *testing.T) {
	t.Parallel()
	s := seed(t)

	created, err := s.CreateOrUpdate(context.Background(), 0,
		func(context.Context) (*row, error) { return &row{9, "D"}, nil },
		func(localID int64) row { return row{localID, "local-D"} },
	)
	require.NoError(t, err)
	assert.Equal(t, row{9, "D"}, created)

	items, total := s.Items()
	assert.Equal(t, row{9, "D"}, items[0]) // newest first
	assert.Equal(t, 4, total)
}

func TestCreateSynthesizesWhenResponseUnusable(t *testing.T) {
	t.Parallel()
	s := seed(t)

	created, err := s.CreateOrUpdate(context.Background(), 0,
		func(context.Context) (*row, error) { return nil, nil },
		func(localID int64) row { return row{localID, "local"} },
	)
	require.NoError(t, err)
	assert.Equal(t, "local", created.Name)
	assert.NotZero(t, created.ID) // random temporary id until the next reload

	_, total := s.Items()
	assert.Equal(t, 4, total)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	t.Parallel()
	s := seed(t)

	updated, err := s.CreateOrUpdate(context.Background(), 2,
		func(context.Context) (*row, error) { return nil, nil },
		func(localID int64) row { return row{localID, "B2"} },
	)
	require.NoError(t, err)
	assert.Equal(t, row{2, "B2"}, updated)

	items, total := s.Items()
	assert.Equal(t, []row{{1, "A"}, {2, "B2"}, {3, "C"}}, items)
	assert.Equal(t, 3, total)
}

func TestCreateOrUpdateFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()
	s := seed(t)

	_, err := s.CreateOrUpdate(context.Background(), 0,
		func(context.Context) (*row, error) { return nil, errors.New("validation failed") },
		func(localID int64) row { return row{localID, "x"} },
	)
	require.Error(t, err)

	items, total := s.Items()
	assert.Len(t, items, 3)
	assert.Equal(t, 3, total)
}

func TestMutateRollsBackOnFailure(t *testing.T) {
	t.Parallel()
	s := seed(t)

	err := s.Mutate(context.Background(), 2,
		func(r row) row { r.Name = "B-paid"; return r },
		func(context.Context) error { return errors.New("rejected") },
	)
	require.Error(t, err)

	got, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, "B", got.Name)

	err = s.Mutate(context.Background(), 2,
		func(r row) row { r.Name = "B-paid"; return r },
		func(context.Context) error { return nil },
	)
	require.NoError(t, err)
	got, _ = s.Get(2)
	assert.Equal(t, "B-paid", got.Name)
}

func TestTempIDIsPositive32Bit(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		id := TempID()
		assert.GreaterOrEqual(t, id, int64(0))
		assert.LessOrEqual(t, id, int64(1<<32-1))
	}
}
