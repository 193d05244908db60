package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Limit exceeded: usage unchanged
	err := c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())
}

func TestController_IgnoresNonPositive(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	require.NoError(t, c.AcquireMemory(0))
	require.NoError(t, c.AcquireMemory(-5))
	c.ReleaseMemory(-5)
	assert.Zero(t, c.MemoryUsage())
}

func TestController_NilChecks(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireMemory(10))
	c.ReleaseMemory(10) // Should not panic
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.PeakMemoryUsage())
	assert.Zero(t, c.MemoryLimit())
}

func TestController_ConcurrentAcquire(t *testing.T) {
	const limit = 64 * 4096
	c := NewController(Config{MemoryLimitBytes: limit})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int64
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 16 {
				if c.AcquireMemory(4096) == nil {
					mu.Lock()
					granted += 4096
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), granted)
	assert.Equal(t, int64(limit), c.MemoryUsage())
}
