package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// one try plus one retry
	TRANSLATE_ATTEMPTS  = 2
	DEFAULT_CONCURRENCY = 4
	CACHE_KEY_PREFIX    = "sentilens:translation"
)

// Backend is a remote translation capability.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// Cache stores finished translations. Errors are logged and otherwise ignored.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Service struct {
	backend     Backend
	timeout     time.Duration
	cache       Cache
	cacheTTL    time.Duration
	healthy     *atomic.Bool
	concurrency int
	onFallback  func()
}

type Option func(*Service)

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithHealthFlag makes the service skip the backend while the flag is false.
func WithHealthFlag(healthy *atomic.Bool) Option {
	return func(s *Service) {
		s.healthy = healthy
	}
}

// WithFallbackHook registers a callback run each time a unit keeps its
// original text.
func WithFallbackHook(fn func()) Option {
	return func(s *Service) {
		s.onFallback = fn
	}
}

func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewService(backend Backend, timeout time.Duration, opts ...Option) *Service {
	s := &Service{
		backend:     backend,
		timeout:     timeout,
		concurrency: DEFAULT_CONCURRENCY,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) BackendName() string {
	return s.backend.Name()
}

// ToEnglish returns one entry per input unit, in order. A unit that cannot be
// translated is returned unchanged; this never fails the batch.
func (s *Service) ToEnglish(ctx context.Context, units []string) []string {
	out := make([]string, len(units))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			out[i] = s.translateOne(ctx, unit)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (s *Service) translateOne(ctx context.Context, text string) string {
	key := cacheKey(s.backend.Name(), text)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached
	}

	if s.healthy != nil && !s.healthy.Load() {
		slog.Debug("[TranslatorService] Backend unhealthy, keeping original text",
			slog.String("backend", s.backend.Name()))
		return s.fallback(text)
	}

	var lastErr error
	for attempt := 1; attempt <= TRANSLATE_ATTEMPTS; attempt++ {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		translated, err := s.attempt(ctx, text)
		if err == nil {
			s.store(ctx, key, translated)
			return translated
		}

		lastErr = err
		slog.Warn("[TranslatorService] Translation attempt failed",
			slog.String("backend", s.backend.Name()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}

	slog.Warn("[TranslatorService] Keeping original text",
		slog.String("backend", s.backend.Name()),
		slog.String("error", errString(lastErr)))
	return s.fallback(text)
}

func (s *Service) attempt(ctx context.Context, text string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	translated, err := s.backend.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(translated) == "" {
		return "", fmt.Errorf("%s returned an empty translation", s.backend.Name())
	}
	return translated, nil
}

func (s *Service) fallback(text string) string {
	if s.onFallback != nil {
		s.onFallback()
	}
	return text
}

func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	value, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("[TranslatorService] Cache lookup failed",
			slog.String("error", err.Error()))
		return "", false
	}
	return value, ok
}

func (s *Service) store(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		slog.Warn("[TranslatorService] Cache store failed",
			slog.String("error", err.Error()))
	}
}

func cacheKey(backend, text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:%s:%s", CACHE_KEY_PREFIX, backend, hex.EncodeToString(hash[:]))
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
