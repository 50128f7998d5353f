package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnlyLastTriggerRuns(t *testing.T) {
	d := New(30 * time.Millisecond)

	var (
		mu    sync.Mutex
		calls []string
		done  = make(chan struct{})
	)
	for _, text := range []string{"a", "al", "ali"} {
		text := text
		d.Trigger(func() {
			mu.Lock()
			calls = append(calls, text)
			mu.Unlock()
			close(done)
		})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ali"}, calls)
}

func TestCancelDropsPending(t *testing.T) {
	d := New(20 * time.Millisecond)
	var fired int32
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	require.True(t, d.Pending())
	require.True(t, d.Cancel())
	require.False(t, d.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.False(t, d.Cancel())
}

func TestFlushRunsImmediately(t *testing.T) {
	d := New(time.Hour)
	var fired int32
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	require.True(t, d.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.False(t, d.Flush())
}
