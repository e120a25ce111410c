package limiter

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateAdmitsOneHolder(t *testing.T) {
	g := New(1)

	release, ok := g.TryAcquire()
	assert.True(t, ok)
	assert.True(t, g.Busy())

	_, ok = g.TryAcquire()
	assert.False(t, ok)

	release()
	assert.False(t, g.Busy())

	release2, ok := g.TryAcquire()
	assert.True(t, ok)
	release2()
}

func TestGateMinimumOneSlot(t *testing.T) {
	g := New(0)
	_, ok := g.TryAcquire()
	assert.True(t, ok)
}

func TestGateUnderContention(t *testing.T) {
	g := New(1)

	var admitted int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := g.TryAcquire(); ok {
				atomic.AddInt32(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&admitted))
}
