package scene

import (
	"sync"
	"sync/atomic"
	"time"
)

// Loop drives a Renderer once per frame interval on its own goroutine and
// fans each frame out to subscribers. Every Renderer call goes through the
// loop's lock.
type Loop struct {
	mu       sync.Mutex
	r        Renderer
	interval time.Duration
	now      func() time.Time

	start     time.Time
	lastFrame time.Time
	last      Frame
	frames    atomic.Uint64

	subsMu sync.Mutex
	subs   map[int]chan FrameState
	nextID int
	closed bool

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	stopped  atomic.Bool
}

// NewLoop creates a loop for a mounted renderer.
func NewLoop(r Renderer, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second / 30
	}
	return &Loop{
		r:        r,
		interval: interval,
		now:      time.Now,
		subs:     make(map[int]chan FrameState),
		stopChan: make(chan struct{}),
	}
}

// SetClock replaces the time source. Call before Start.
func (l *Loop) SetClock(now func() time.Time) { l.now = now }

// Start begins the frame loop. Calling it again, or after Stop, does nothing.
func (l *Loop) Start() {
	if l.stopped.Load() {
		return
	}
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		go l.run()
	}
}

// Running reports whether the frame goroutine is active.
func (l *Loop) Running() bool { return l.running.Load() }

// Stopped reports whether Stop has run.
func (l *Loop) Stopped() bool { return l.stopped.Load() }

// Frames is the number of frames stepped so far.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// Stop halts the frame goroutine, waits for it to exit, disposes the
// renderer and closes subscriber channels. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.stopChan)
		l.wg.Wait()
		l.running.Store(false)

		l.mu.Lock()
		l.r.Dispose()
		l.mu.Unlock()

		l.subsMu.Lock()
		l.closed = true
		for id, ch := range l.subs {
			close(ch)
			delete(l.subs, id)
		}
		l.subsMu.Unlock()
	})
}

func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Tick steps a single frame now and publishes it. The loop goroutine calls
// it on every tick; headless callers may call it directly.
func (l *Loop) Tick() FrameState {
	now := l.now()

	l.mu.Lock()
	if l.stopped.Load() {
		st := l.stamp(l.r.Snapshot())
		l.mu.Unlock()
		return st
	}
	if l.start.IsZero() {
		l.start = now
		l.lastFrame = now
	}
	f := Frame{
		Index:   l.frames.Add(1),
		Elapsed: now.Sub(l.start),
		Delta:   now.Sub(l.lastFrame),
	}
	l.lastFrame = now
	l.last = f
	l.r.Step(f)
	st := l.stamp(l.r.Snapshot())
	l.mu.Unlock()

	l.publish(st)
	return st
}

func (l *Loop) publish(st FrameState) {
	l.subsMu.Lock()
	defer l.subsMu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- st:
		default:
			// Drop the stale frame so a slow reader never stalls the loop.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

// Subscribe returns a channel of frames and a cancel func. The channel is
// closed on cancel or when the loop stops.
func (l *Loop) Subscribe() (<-chan FrameState, func()) {
	ch := make(chan FrameState, 1)

	l.subsMu.Lock()
	if l.closed {
		l.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.subsMu.Lock()
			if c, ok := l.subs[id]; ok {
				delete(l.subs, id)
				close(c)
			}
			l.subsMu.Unlock()
		})
	}
}

// Subscribers is the number of open subscriptions.
func (l *Loop) Subscribers() int {
	l.subsMu.Lock()
	defer l.subsMu.Unlock()
	return len(l.subs)
}

// Do runs fn with exclusive access to the renderer, between frames.
func (l *Loop) Do(fn func(Renderer)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.r)
}

// Snapshot returns the latest frame without stepping.
func (l *Loop) Snapshot() FrameState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stamp(l.r.Snapshot())
}

// stamp fills in the clock of the last stepped frame. Callers hold mu.
func (l *Loop) stamp(st FrameState) FrameState {
	st.Frame = l.last.Index
	st.Elapsed = l.last.Elapsed.Seconds()
	return st
}
