package practitioner

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformredis "caseflow/internal/platform/redis"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/upstream"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fastPolicy() upstream.Policy {
	return upstream.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func TestClientFlags(t *testing.T) {
	t.Run("returns flags from the registry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/practitioners/dr-1/flags", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"suspended":true,"unauthorizedStudent":false}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, srv.Client(), fastPolicy(), testLogger())
		flags, err := client.Flags(context.Background(), "dr-1")
		require.NoError(t, err)
		assert.True(t, flags.Suspended)
		assert.False(t, flags.UnauthorizedStudent)
		assert.True(t, flags.Blocking())
	})

	t.Run("unknown practitioner is unflagged", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, srv.Client(), fastPolicy(), testLogger())
		flags, err := client.Flags(context.Background(), "dr-unknown")
		require.NoError(t, err)
		assert.False(t, flags.Blocking())
	})

	t.Run("empty practitioner id skips the lookup", func(t *testing.T) {
		client := NewClient("http://unused", nil, fastPolicy(), testLogger())
		flags, err := client.Flags(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, flags.Blocking())
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"suspended":false,"unauthorizedStudent":true}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, srv.Client(), fastPolicy(), testLogger())
		flags, err := client.Flags(context.Background(), "dr-2")
		require.NoError(t, err)
		assert.True(t, flags.UnauthorizedStudent)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("surfaces a retryable error when the registry stays down", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, srv.Client(), fastPolicy(), testLogger())
		_, err := client.Flags(context.Background(), "dr-3")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		assert.Equal(t, int32(3), calls.Load())
	})
}

type stubSource struct {
	flags Flags
	err   error
	calls int
}

func (s *stubSource) Flags(context.Context, string) (Flags, error) {
	s.calls++
	return s.flags, s.err
}

func TestCacheWithoutRedis(t *testing.T) {
	src := &stubSource{flags: Flags{Suspended: true}}
	cache := NewCache(src, nil, time.Minute, testLogger())

	flags, err := cache.Flags(context.Background(), "dr-1")
	require.NoError(t, err)
	assert.True(t, flags.Suspended)

	_, err = cache.Flags(context.Background(), "dr-1")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "nil redis client must pass every lookup through")
}

func TestCacheToleratesUnreachableRedis(t *testing.T) {
	// Same wiring as the server entrypoint: the platform wrapper, not the
	// raw go-redis client, goes into the cache.
	wrapper := &platformredis.Client{Client: goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	})}
	defer wrapper.Close()

	src := &stubSource{flags: Flags{UnauthorizedStudent: true}}
	cache := NewCache(src, wrapper, time.Minute, testLogger())

	flags, err := cache.Flags(context.Background(), "dr-1")
	require.NoError(t, err)
	assert.True(t, flags.UnauthorizedStudent)
	assert.Equal(t, 1, src.calls, "cache errors fall through to the source")
}

func TestFlagsBlocking(t *testing.T) {
	assert.False(t, Flags{}.Blocking())
	assert.True(t, Flags{Suspended: true}.Blocking())
	assert.True(t, Flags{UnauthorizedStudent: true}.Blocking())
}
