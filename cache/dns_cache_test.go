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

func newTestDNSCache(t *testing.T, capacity int, clock *fakeClock) *MemoryDNSCache {
	t.Helper()
	c, err := NewMemoryDNSCache(capacity, nil, WithClock(clock.Now))
	require.NoError(t, err)
	return c
}

func TestDNSCacheBasic(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	require.NoError(t, c.Put("example.com", "1.1.1.1", 10))

	ip, ok := c.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, "1.1.1.1", ip)

	ip, ttl, ok := c.Lookup("example.com")
	require.True(t, ok)
	assert.Equal(t, "1.1.1.1", ip)
	assert.Equal(t, 10, ttl)
}

func TestDNSCacheNegativeCapacity(t *testing.T) {
	_, err := NewMemoryDNSCache(-1, nil)
	assert.ErrorIs(t, err, ErrNegativeCapacity)
}

func TestDNSCacheInvalidDomain(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	err := c.Put("not-a-domain", "1.2.3.4", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDomain))
	assert.Equal(t, 0, c.Store().Used())
}

func TestDNSCacheInvalidIPv4(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	err := c.Put("example.com", "999.999.999.999", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidIPv4))
	assert.Equal(t, 0, c.Store().Used())
}

func TestDNSCacheRemainingTTL(t *testing.T) {
	clock := newFakeClock()
	c := newTestDNSCache(t, 2, clock)

	require.NoError(t, c.Put("example.com", "1.1.1.1", 10))
	clock.Advance(3500 * time.Millisecond)

	_, ttl, ok := c.Lookup("example.com")
	require.True(t, ok)
	assert.Equal(t, 6, ttl)
}

func TestDNSCacheDeleteAndClear(t *testing.T) {
	c := newTestDNSCache(t, 4, newFakeClock())

	require.NoError(t, c.Put("a.com", "1.1.1.1", 10))
	require.NoError(t, c.Put("b.com", "2.2.2.2", 10))

	require.NoError(t, c.Delete("a.com"))
	require.NoError(t, c.Delete("a.com"))
	_, ok := c.Get("a.com")
	assert.False(t, ok)

	require.NoError(t, c.Clear())
	_, ok = c.Get("b.com")
	assert.False(t, ok)
}

func TestDNSCacheZeroTTLRemoves(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	require.NoError(t, c.Put("foo.com", "2.2.2.2", 100))
	require.NoError(t, c.Put("foo.com", "2.2.2.2", 0))

	_, ok := c.Get("foo.com")
	assert.False(t, ok)
}

func TestDNSCacheGetOrFetchStoresResult(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	var calls int32
	fetch := func(ctx context.Context, domain string) (string, int, error) {
		atomic.AddInt32(&calls, 1)
		return "5.6.7.8", 60, nil
	}

	ip, err := c.GetOrFetch(context.Background(), "fetch.com", fetch)
	require.NoError(t, err)
	assert.Equal(t, "5.6.7.8", ip)

	ip, err = c.GetOrFetch(context.Background(), "fetch.com", fetch)
	require.NoError(t, err)
	assert.Equal(t, "5.6.7.8", ip)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDNSCacheGetOrFetchCollapsesConcurrentMisses(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, domain string) (string, int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "5.6.7.8", 60, nil
	}

	const n = 10
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ip, err := c.GetOrFetch(context.Background(), "busy.com", fetch)
			assert.NoError(t, err)
			results[i] = ip
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, ip := range results {
		assert.Equal(t, "5.6.7.8", ip)
	}
}

func TestDNSCacheGetOrFetchErrors(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	_, err := c.GetOrFetch(context.Background(), "bad_domain", nil)
	assert.ErrorIs(t, err, ErrInvalidDomain)

	boom := errors.New("upstream down")
	_, err = c.GetOrFetch(context.Background(), "fail.com", func(ctx context.Context, domain string) (string, int, error) {
		return "", 0, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = c.GetOrFetch(context.Background(), "badip.com", func(ctx context.Context, domain string) (string, int, error) {
		return "not-an-ip", 60, nil
	})
	assert.ErrorIs(t, err, ErrInvalidIPv4)
	_, ok := c.Get("badip.com")
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.GetOrFetch(ctx, "cancel.com", func(ctx context.Context, domain string) (string, int, error) {
		t.Fatal("fetch should not run on a canceled context")
		return "", 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDNSCacheGetOrFetchZeroTTLNotStored(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	ip, err := c.GetOrFetch(context.Background(), "nocache.com", func(ctx context.Context, domain string) (string, int, error) {
		return "7.7.7.7", 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "7.7.7.7", ip)

	_, ok := c.Get("nocache.com")
	assert.False(t, ok)
}

func TestDNSCacheGetOrFetchCountsOneMiss(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	fetch := func(ctx context.Context, domain string) (string, int, error) {
		return "5.6.7.8", 60, nil
	}

	_, err := c.GetOrFetch(context.Background(), "fetch.com", fetch)
	require.NoError(t, err)
	stats := c.Store().Stats()
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(0), stats.Hits)

	_, err = c.GetOrFetch(context.Background(), "fetch.com", fetch)
	require.NoError(t, err)
	stats = c.Store().Stats()
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.Hits)
}

func TestDNSCacheKeepsCallerEvictHook(t *testing.T) {
	clock := newFakeClock()
	got := make(map[string]EvictReason)
	c, err := NewMemoryDNSCache(1, nil, WithClock(clock.Now), WithEvictHook(func(domain string, reason EvictReason) {
		got[domain] = reason
	}))
	require.NoError(t, err)

	require.NoError(t, c.Put("a.com", "1.1.1.1", 100))
	require.NoError(t, c.Put("b.com", "2.2.2.2", 100))
	require.NoError(t, c.Delete("b.com"))

	assert.Equal(t, map[string]EvictReason{
		"a.com": EvictCapacity,
		"b.com": EvictDeleted,
	}, got)
}

func TestDNSCacheHugeTTL(t *testing.T) {
	c := newTestDNSCache(t, 2, newFakeClock())

	require.NoError(t, c.Put("forever.com", "1.1.1.1", 1<<62))
	ip, ttl, ok := c.Lookup("forever.com")
	require.True(t, ok)
	assert.Equal(t, "1.1.1.1", ip)
	assert.Positive(t, ttl)
	assert.Equal(t, 1, c.Store().Used())
}
