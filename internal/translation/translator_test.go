package translation

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

type fakeBackend struct {
	mu      sync.Mutex
	calls   map[string]int
	respond func(ctx context.Context, text string, call int) (string, error)
}

func newFakeBackend(respond func(ctx context.Context, text string, call int) (string, error)) *fakeBackend {
	return &fakeBackend{calls: make(map[string]int), respond: respond}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Translate(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls[text]++
	call := f.calls[text]
	f.mu.Unlock()
	return f.respond(ctx, text, call)
}

func (f *fakeBackend) callsFor(text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[text]
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

var dictionary = map[string]string{
	"me encanta":    "I love it",
	"c'est nul":     "it's rubbish",
	"sehr schlecht": "very bad",
}

func TestToEnglishTranslatesInOrder(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		return dictionary[text], nil
	})
	svc := NewService(backend, time.Second)

	out := svc.ToEnglish(context.Background(), []string{"me encanta", "c'est nul", "sehr schlecht"})
	assert.Equal(t, []string{"I love it", "it's rubbish", "very bad"}, out)
	assert.Equal(t, "fake", svc.BackendName())
}

func TestToEnglishFallsBackAfterOneRetry(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		if text == "broken" {
			return "", errors.New("network down")
		}
		return dictionary[text], nil
	})
	var fallbacks atomic.Int32
	svc := NewService(backend, time.Second, WithFallbackHook(func() { fallbacks.Add(1) }))

	out := svc.ToEnglish(context.Background(), []string{"me encanta", "broken"})
	assert.Equal(t, []string{"I love it", "broken"}, out)
	assert.Equal(t, TRANSLATE_ATTEMPTS, backend.callsFor("broken"))
	assert.Equal(t, int32(1), fallbacks.Load())
}

func TestToEnglishRetrySucceeds(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		if call == 1 {
			return "", errors.New("flaky")
		}
		return "I love it", nil
	})
	svc := NewService(backend, time.Second)

	out := svc.ToEnglish(context.Background(), []string{"me encanta"})
	assert.Equal(t, []string{"I love it"}, out)
	assert.Equal(t, 2, backend.callsFor("me encanta"))
}

func TestToEnglishEmptyResultFallsBack(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		return "  ", nil
	})
	svc := NewService(backend, time.Second)

	out := svc.ToEnglish(context.Background(), []string{"me encanta"})
	assert.Equal(t, []string{"me encanta"}, out)
}

func TestToEnglishTimeoutIsBounded(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	svc := NewService(backend, 20*time.Millisecond)

	start := time.Now()
	out := svc.ToEnglish(context.Background(), []string{"me encanta"})
	assert.Equal(t, []string{"me encanta"}, out)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, TRANSLATE_ATTEMPTS, backend.callsFor("me encanta"))
}

func TestToEnglishSkipsUnhealthyBackend(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		return dictionary[text], nil
	})
	healthy := &atomic.Bool{}
	svc := NewService(backend, time.Second, WithHealthFlag(healthy))

	out := svc.ToEnglish(context.Background(), []string{"me encanta"})
	assert.Equal(t, []string{"me encanta"}, out)
	assert.Zero(t, backend.callsFor("me encanta"))

	healthy.Store(true)
	out = svc.ToEnglish(context.Background(), []string{"me encanta"})
	assert.Equal(t, []string{"I love it"}, out)
}

func TestToEnglishUsesCache(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		return dictionary[text], nil
	})
	cache := newMemoryCache()
	svc := NewService(backend, time.Second, WithCache(cache, time.Hour))

	first := svc.ToEnglish(context.Background(), []string{"me encanta"})
	second := svc.ToEnglish(context.Background(), []string{"me encanta"})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.callsFor("me encanta"))
	assert.Equal(t, "I love it", cache.data[cacheKey("fake", "me encanta")])
}

func TestToEnglishIgnoresCacheErrors(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		return dictionary[text], nil
	})
	cache := newMemoryCache()
	cache.err = errors.New("valkey unavailable")
	svc := NewService(backend, time.Second, WithCache(cache, time.Hour))

	out := svc.ToEnglish(context.Background(), []string{"me encanta"})
	assert.Equal(t, []string{"I love it"}, out)
}

func TestToEnglishCancelledContextKeepsOriginals(t *testing.T) {
	backend := newFakeBackend(func(ctx context.Context, text string, call int) (string, error) {
		return dictionary[text], nil
	})
	svc := NewService(backend, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := svc.ToEnglish(ctx, []string{"me encanta", "c'est nul"})
	assert.Equal(t, []string{"me encanta", "c'est nul"}, out)
	assert.Zero(t, backend.callsFor("me encanta"))
}

func TestCacheKeyIsStable(t *testing.T) {
	k1 := cacheKey("google", "hola")
	k2 := cacheKey("google", "hola")
	require.Equal(t, k1, k2)
	assert.NotEqual(t, k1, cacheKey("openai", "hola"))
	assert.Contains(t, k1, CACHE_KEY_PREFIX+":google:")
}
