package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"apod/server/internal/metrics"
)

type refresherFunc func(ctx context.Context) (bool, error)

func (f refresherFunc) RefreshToday(ctx context.Context) (bool, error) { return f(ctx) }

func TestPoller_FirstTickRunsImmediately(t *testing.T) {
	ticked := make(chan struct{}, 1)
	p := New(refresherFunc(func(context.Context) (bool, error) {
		select {
		case ticked <- struct{}{}:
		default:
		}
		return false, nil
	}), time.Hour, nil)

	p.Start()
	defer p.Stop()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("first tick did not run")
	}
}

func TestPoller_StateTracksRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := New(refresherFunc(func(context.Context) (bool, error) {
		close(started)
		<-release
		return false, nil
	}), time.Hour, nil)
	require.Equal(t, Idle, p.State())

	p.Start()
	defer p.Stop()

	<-started
	require.Equal(t, Running, p.State())

	close(release)
	// Waiting out the hour-long interval is Idle.
	require.Eventually(t, func() bool { return p.State() == Idle }, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_PanickingTickKeepsRunning(t *testing.T) {
	var calls atomic.Int32
	m := metrics.New()
	p := New(refresherFunc(func(context.Context) (bool, error) {
		if calls.Add(1) == 1 {
			panic("painter exploded")
		}
		return true, nil
	}), 10*time.Millisecond, m)

	p.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	p.Stop()

	// Both the "failed" and "created" series exist.
	series, err := testutil.GatherAndCount(m.Registry(), "apod_poller_ticks_total")
	require.NoError(t, err)
	require.Equal(t, 2, series)
	require.Equal(t, Idle, p.State())
}

func TestPoller_FailingTicksKeepRunning(t *testing.T) {
	var calls atomic.Int32
	m := metrics.New()
	p := New(refresherFunc(func(context.Context) (bool, error) {
		calls.Add(1)
		return false, errors.New("provider down")
	}), 10*time.Millisecond, m)

	p.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	p.Stop()

	require.Equal(t, Idle, p.State())
	// Only the "failed" series exists.
	series, err := testutil.GatherAndCount(m.Registry(), "apod_poller_ticks_total")
	require.NoError(t, err)
	require.Equal(t, 1, series)
}

func TestPoller_StopWaitsForInFlightTick(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	var tickErr error

	p := New(refresherFunc(func(ctx context.Context) (bool, error) {
		close(started)
		<-release
		tickErr = ctx.Err()
		finished.Store(true)
		return true, nil
	}), time.Hour, nil)

	p.Start()
	<-started

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a tick was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	require.True(t, finished.Load())
	require.NoError(t, tickErr, "tick context must not be cancelled by Stop")
}

func TestPoller_StopDuringWait(t *testing.T) {
	var calls atomic.Int32
	p := New(refresherFunc(func(context.Context) (bool, error) {
		calls.Add(1)
		return false, nil
	}), time.Hour, nil)

	p.Start()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on the interval wait")
	}
	require.Equal(t, int32(1), calls.Load())
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := New(refresherFunc(func(context.Context) (bool, error) { return false, nil }), time.Hour, nil)

	// Stop before Start must not block.
	p.Stop()

	p.Start()
	require.Equal(t, Idle, p.State(), "a stopped poller does not restart")

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Stop()
		}()
	}
	wg.Wait()
	require.Equal(t, Idle, p.State())
}

func TestPoller_TickTimeout(t *testing.T) {
	deadline := make(chan time.Duration, 1)
	p := New(refresherFunc(func(ctx context.Context) (bool, error) {
		d, ok := ctx.Deadline()
		require.True(t, ok)
		select {
		case deadline <- time.Until(d):
		default:
		}
		return false, nil
	}), time.Hour, nil)
	p.SetTickTimeout(time.Minute)

	p.Start()
	defer p.Stop()

	select {
	case d := <-deadline:
		require.LessOrEqual(t, d, time.Minute)
		require.Greater(t, d, 50*time.Second)
	case <-time.After(2 * time.Second):
		t.Fatal("tick did not run")
	}
}

func TestNew_DefaultsInterval(t *testing.T) {
	p := New(refresherFunc(func(context.Context) (bool, error) { return false, nil }), 0, nil)
	require.Equal(t, DefaultInterval, p.interval)
	require.Equal(t, "idle", p.State().String())
}
