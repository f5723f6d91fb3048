package quota

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(perDay int) (*Limiter, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(perDay)
	l.now = c.now
	return l, c
}

func TestAllowsBurstThenBlocks(t *testing.T) {
	l, _ := newTestLimiter(2)

	assert.Equal(t, 2, l.Remaining("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.Equal(t, 0, l.Remaining("1.2.3.4"))

	assert.True(t, l.Allow("5.6.7.8"), "clients have separate buckets")
}

func TestRefillsOverWindow(t *testing.T) {
	l, c := newTestLimiter(2)
	l.Allow("ip")
	l.Allow("ip")

	c.advance(11 * time.Hour)
	assert.False(t, l.Allow("ip"))

	c.advance(2 * time.Hour)
	assert.True(t, l.Allow("ip"))
	assert.False(t, l.Allow("ip"))
}

func TestEvictsIdleClients(t *testing.T) {
	l, c := newTestLimiter(2)
	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	c.advance(Window)
	l.Allow("c")
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, l.Remaining("a"))
}

func TestZeroQuotaMeansOne(t *testing.T) {
	l, _ := newTestLimiter(0)
	assert.True(t, l.Allow("ip"))
	assert.False(t, l.Allow("ip"))
}

func TestConcurrentAllow(t *testing.T) {
	l, _ := newTestLimiter(5)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("ip") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, allowed)
}
