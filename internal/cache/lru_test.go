package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCacheSetGet(t *testing.T) {
	c := NewLRUCache[string](4, time.Minute)

	c.Set("food", "🍽️")
	got, ok := c.Get("food")
	require.True(t, ok)
	assert.Equal(t, "🍽️", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a") // a is now more recent than b
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[string](4, 10*time.Millisecond)

	c.Set("advice", "spend less on takeout")
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("advice")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size(), "expired entry is dropped on access")
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[string](8, 10*time.Millisecond)
	c.Set("one", "1")
	c.Set("two", "2")
	time.Sleep(25 * time.Millisecond)
	c.Set("three", "3")

	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
}

func TestLRUCacheDelete(t *testing.T) {
	c := NewLRUCache[string](4, time.Minute)
	c.Set("k", "v")
	c.Delete("k")
	c.Delete("k") // deleting twice is fine

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[string](4, time.Minute))
	m.Stop() // must not block or panic
}

func TestManagerCleansRegisteredCaches(t *testing.T) {
	c := NewLRUCache[string](8, time.Millisecond)
	c.Set("stale", "x")

	m := NewManager()
	m.Register(c)
	m.StartCleanup(5 * time.Millisecond)
	defer m.Stop()

	require.Eventually(t, func() bool {
		return c.Size() == 0
	}, time.Second, 5*time.Millisecond)
}
