package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"movies-api/internal/app/service"
)

type fakeWarmer struct {
	mu      sync.Mutex
	runs    int
	results []service.WarmResult
}

func (w *fakeWarmer) WarmAll(context.Context) []service.WarmResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.runs++

	return w.results
}

func (w *fakeWarmer) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.runs
}

type fakeLocker struct {
	mu       sync.Mutex
	held     bool
	err      error
	released int
}

func (l *fakeLocker) Acquire(context.Context, string, time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return false, l.err
	}
	if l.held {
		return false, nil
	}
	l.held = true

	return true, nil
}

func (l *fakeLocker) Release(context.Context, string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.held = false
	l.released++

	return nil
}

func newScheduler(w Warmer, l *fakeLocker) *WarmupScheduler {
	return NewWarmupScheduler(w, WarmupConfig{Interval: time.Hour, Timeout: time.Second}, zap.NewNop(), l)
}

func TestWarmupScheduler_RunsOnStart(t *testing.T) {
	warmer := &fakeWarmer{results: []service.WarmResult{{Target: "films", Count: 50}}}
	locker := &fakeLocker{}
	s := newScheduler(warmer, locker)

	s.Start()
	require.Eventually(t, func() bool { return warmer.count() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()

	assert.True(t, locker.held, "lock is kept as cooldown after a clean run")
	assert.Zero(t, locker.released)
}

func TestWarmupScheduler_ReleasesLockOnFailure(t *testing.T) {
	warmer := &fakeWarmer{results: []service.WarmResult{
		{Target: "films", Count: 50},
		{Target: "genres", Error: errors.New("backend unavailable")},
	}}
	locker := &fakeLocker{}
	s := newScheduler(warmer, locker)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	defer s.cancel()

	s.execute()

	assert.Equal(t, 1, warmer.count())
	assert.False(t, locker.held)
	assert.Equal(t, 1, locker.released)
}

func TestWarmupScheduler_SkipsWhenLockHeld(t *testing.T) {
	warmer := &fakeWarmer{}
	locker := &fakeLocker{held: true}
	s := newScheduler(warmer, locker)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	defer s.cancel()

	s.execute()

	assert.Zero(t, warmer.count())
}

func TestWarmupScheduler_SkipsOnLockError(t *testing.T) {
	warmer := &fakeWarmer{}
	locker := &fakeLocker{err: errors.New("redis down")}
	s := newScheduler(warmer, locker)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	defer s.cancel()

	s.execute()

	assert.Zero(t, warmer.count())
}

func TestWarmupScheduler_StopWithoutStart(t *testing.T) {
	s := newScheduler(&fakeWarmer{}, &fakeLocker{})

	assert.NotPanics(t, s.Stop)
}
