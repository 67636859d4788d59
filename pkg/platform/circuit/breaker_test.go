package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_InitialState(t *testing.T) {
	b := New("authz")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "authz", b.Name())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("authz", WithFailureThreshold(3))

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	b := New("authz", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("authz", WithFailureThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordSuccess()

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_OpenOnlyReportedOnce(t *testing.T) {
	b := New("authz", WithFailureThreshold(1))

	_, change := b.RecordFailure()
	assert.True(t, change.Opened)

	_, change = b.RecordFailure()
	assert.False(t, change.Opened, "already-open breaker must not report opening again")
}

func TestBreaker_ConcurrentRecords(t *testing.T) {
	b := New("authz", WithFailureThreshold(10))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.RecordFailure()
		}()
	}
	wg.Wait()

	assert.True(t, b.IsOpen())
}
