package db

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnowflake_RejectsBadMachineID(t *testing.T) {
	t.Parallel()

	_, err := NewSnowflake(-1)
	assert.Error(t, err)

	_, err = NewSnowflake(maxMachineID + 1)
	assert.Error(t, err)
}

func TestGenerateID_Unique(t *testing.T) {
	t.Parallel()

	s, err := NewSnowflake(1)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for i := 0; i < 10000; i++ {
		id, err := s.GenerateID()
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestGenerateID_Monotonic(t *testing.T) {
	t.Parallel()

	s, err := NewSnowflake(0)
	require.NoError(t, err)

	prev, err := s.GenerateID()
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		id, err := s.GenerateID()
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestGenerateID_Concurrent(t *testing.T) {
	t.Parallel()

	s, err := NewSnowflake(2)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 1000

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := s.GenerateID()
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id %d", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}
