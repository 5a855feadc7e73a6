package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrLoad(t *testing.T) {
	ctx := context.Background()
	s := New[int](0)

	var calls int32
	load := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	}

	v, err := s.GetOrLoad(ctx, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = s.GetOrLoad(ctx, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStore_Invalidate(t *testing.T) {
	ctx := context.Background()
	s := New[string](0)

	n := 0
	load := func(ctx context.Context) (string, error) {
		n++
		if n == 1 {
			return "first", nil
		}
		return "second", nil
	}

	v, _ := s.GetOrLoad(ctx, "k", load)
	assert.Equal(t, "first", v)

	s.Invalidate("k")
	v, _ = s.GetOrLoad(ctx, "k", load)
	assert.Equal(t, "second", v)

	s.InvalidateAll()
	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestStore_TTL(t *testing.T) {
	s := New[int](time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, err := s.GetOrLoad(context.Background(), "k", func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	_, ok := s.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestStore_LoadError(t *testing.T) {
	s := New[int](0)
	_, err := s.GetOrLoad(context.Background(), "k", func(ctx context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestStore_ConcurrentMisses(t *testing.T) {
	s := New[int](0)
	release := make(chan struct{})

	var calls int32
	load := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.GetOrLoad(context.Background(), "k", load)
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStore_InvalidateDuringLoad(t *testing.T) {
	s := New[string](0)
	entered := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string, 1)
	go func() {
		v, err := s.GetOrLoad(context.Background(), "k", func(ctx context.Context) (string, error) {
			close(entered)
			<-release
			return "stale", nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-entered
	s.Invalidate("k")
	close(release)
	assert.Equal(t, "stale", <-done)

	_, ok := s.Get("k")
	assert.False(t, ok)

	v, err := s.GetOrLoad(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestStore_InvalidateAllDuringLoad(t *testing.T) {
	s := New[int](0)
	entered := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.GetOrLoad(context.Background(), "k", func(ctx context.Context) (int, error) {
			close(entered)
			<-release
			return 1, nil
		})
		assert.NoError(t, err)
	}()

	<-entered
	s.InvalidateAll()
	close(release)
	<-done

	_, ok := s.Get("k")
	assert.False(t, ok)
}
