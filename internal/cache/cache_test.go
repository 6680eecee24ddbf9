package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache[V any](ttl time.Duration, maxSize int) (*Expiring[V], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	c := New[V](ttl, maxSize)
	c.now = clock.Now
	return c, clock
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ticker:AAPL:2024-01-01", Key("ticker", "AAPL", "2024-01-01"))
	assert.Equal(t, "ticker:MSFT:2024-12-31", Key("ticker", "MSFT", "2024-12-31"))
	assert.Equal(t, Key("returns", "2024-01-01", "2024-01-31"), Key("returns", "2024-01-01", "2024-01-31"))
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache[map[string]float64](time.Hour, 5)
	data := map[string]float64{"return": 0.05, "price": 150}
	c.Set(Key("ticker", "AAPL", "2024-01-01"), data)

	got, ok := c.Get(Key("ticker", "AAPL", "2024-01-01"))
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestGetMissing(t *testing.T) {
	c, _ := newTestCache[string](time.Hour, 5)
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	c, _ := newTestCache[int](time.Hour, 5)
	c.Set("k", 1)
	c.Set("k", 2)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, c.Len())
}

func TestMultipleKeys(t *testing.T) {
	c, _ := newTestCache[int](time.Hour, 10)
	c.Set(Key("ticker", "AAPL", "2024-01-01"), 1)
	c.Set(Key("ticker", "MSFT", "2024-01-01"), 2)
	c.Set(Key("ticker", "AAPL", "2024-01-02"), 3)

	for key, want := range map[string]int{
		Key("ticker", "AAPL", "2024-01-01"): 1,
		Key("ticker", "MSFT", "2024-01-01"): 2,
		Key("ticker", "AAPL", "2024-01-02"): 3,
	} {
		got, ok := c.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := c.Get(Key("ticker", "MSFT", "2024-01-02"))
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	c, clock := newTestCache[string](time.Second, 5)
	c.Set("k", "v")

	clock.Advance(999 * time.Millisecond)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	clock.Advance(time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry must be gone exactly at stored_at+ttl")
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestGetDoesNotExtendTTL(t *testing.T) {
	c, clock := newTestCache[string](time.Minute, 0)
	c.Set("k", "v")
	clock.Advance(40 * time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)
	clock.Advance(40 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestSetRestartsTTL(t *testing.T) {
	c, clock := newTestCache[string](time.Minute, 0)
	c.Set("k", "v1")
	clock.Advance(40 * time.Second)
	c.Set("k", "v2")
	clock.Advance(40 * time.Second)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", got)
}

func TestMaxSizeEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache[string](time.Hour, 3)
	c.Set("AAPL", "1")
	c.Set("MSFT", "2")
	c.Set("GOOGL", "3")

	c.Set("AMZN", "4")

	_, ok := c.Get("AAPL")
	assert.False(t, ok, "oldest untouched key is evicted")
	for _, k := range []string{"MSFT", "GOOGL", "AMZN"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, 3, c.Len())
}

func TestGetProtectsFromEviction(t *testing.T) {
	c, _ := newTestCache[string](time.Hour, 3)
	c.Set("AAPL", "1")
	c.Set("MSFT", "2")
	c.Set("GOOGL", "3")

	_, ok := c.Get("AAPL")
	require.True(t, ok)

	c.Set("AMZN", "4")

	_, ok = c.Get("AAPL")
	assert.True(t, ok)
	_, ok = c.Get("MSFT")
	assert.False(t, ok, "MSFT became least recently used")
	_, ok = c.Get("GOOGL")
	assert.True(t, ok)
	_, ok = c.Get("AMZN")
	assert.True(t, ok)
}

func TestOverwriteRefreshesRecency(t *testing.T) {
	c, _ := newTestCache[string](time.Hour, 2)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "1b")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1b", got)
}

func TestUnbounded(t *testing.T) {
	c, _ := newTestCache[int](time.Hour, 0)
	for i := range 5000 {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, 5000, c.Len())
	got, ok := c.Get("k0")
	require.True(t, ok)
	assert.Equal(t, 0, got)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache[int](time.Hour, 10)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	c.Set("a", 3)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestNilValueReadsAsMiss(t *testing.T) {
	type record struct{ Return float64 }
	c, _ := newTestCache[*record](time.Hour, 10)
	c.Set("empty", nil)

	got, ok := c.Get("empty")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 1, c.Len(), "the nil value is still stored")
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](time.Hour, 50)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				k := fmt.Sprintf("k%d", (g*500+i)%120)
				c.Set(k, i)
				c.Get(k)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
