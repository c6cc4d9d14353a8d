package scheduler

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"apod/server/internal/logger"
	"apod/server/internal/metrics"
)

const (
	DefaultInterval    = 24 * time.Hour
	DefaultTickTimeout = 2 * time.Minute
)

// State reports whether a refresh is in flight.
type State int32

const (
	// Idle means the poller is waiting for its next tick, or is not started.
	Idle State = iota
	// Running means a refresh is in progress.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Refresher persists the current day's entry if it is missing.
type Refresher interface {
	RefreshToday(ctx context.Context) (bool, error)
}

// Poller calls Refresher on a fixed interval. The first tick runs on Start.
type Poller struct {
	refresher   Refresher
	interval    time.Duration
	tickTimeout time.Duration
	metrics     *metrics.Metrics

	state atomic.Int32

	mu      sync.Mutex // guards started, stopped and wg.Add
	started bool
	stopped bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func New(refresher Refresher, interval time.Duration, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		refresher:   refresher,
		interval:    interval,
		tickTimeout: DefaultTickTimeout,
		metrics:     m,
		stopCh:      make(chan struct{}),
	}
}

// SetTickTimeout bounds each RefreshToday call. Must be called before Start.
func (p *Poller) SetTickTimeout(d time.Duration) {
	if d > 0 {
		p.tickTimeout = d
	}
}

func (p *Poller) State() State {
	return State(p.state.Load())
}

// Start launches the loop. Calling it on a running or stopped poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	p.wg.Add(1)
	go p.run()
	logger.Info("poller started", "module", "scheduler", "action", "refresh", "resource", "apod", "result", "ok", "interval_ms", p.interval.Milliseconds())
}

// Stop signals the loop and waits for an in-flight tick to finish. The tick
// itself is not cancelled.
func (p *Poller) Stop() {
	p.mu.Lock()
	first := !p.stopped
	if first {
		p.stopped = true
		close(p.stopCh)
	}
	wasStarted := p.started
	p.mu.Unlock()

	p.wg.Wait()
	if first && wasStarted {
		logger.Info("poller stopped", "module", "scheduler", "action", "refresh", "resource", "apod", "result", "ok")
	}
}

func (p *Poller) run() {
	defer p.wg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-timer.C:
		}

		// Stop may have raced with the timer.
		select {
		case <-p.stopCh:
			return
		default:
		}

		p.tick()
		timer.Reset(p.interval)
	}
}

func (p *Poller) tick() {
	p.state.Store(int32(Running))
	defer p.state.Store(int32(Idle))

	ctx, cancel := context.WithTimeout(context.Background(), p.tickTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.metrics.ObservePollerTick("failed", time.Now())
			logger.Error("scheduled refresh panicked", "module", "scheduler", "action", "refresh", "resource", "apod", "result", "failed", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	created, err := p.refresher.RefreshToday(ctx)
	now := time.Now()
	switch {
	case err != nil:
		p.metrics.ObservePollerTick("failed", now)
		logger.Error("scheduled refresh failed", "module", "scheduler", "action", "refresh", "resource", "apod", "result", "failed", "error", err)
	case created:
		p.metrics.ObservePollerTick("created", now)
		logger.Info("scheduled refresh stored new entry", "module", "scheduler", "action", "refresh", "resource", "apod", "result", "created")
	default:
		p.metrics.ObservePollerTick("skipped", now)
		logger.Debug("scheduled refresh found entry present", "module", "scheduler", "action", "refresh", "resource", "apod", "result", "skipped")
	}
}
