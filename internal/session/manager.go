// Package session owns the live decorative scenes mounted by page views.
// Each session runs its own frame loop until it is unmounted, its stream
// disconnects, or it sits idle too long.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Tushar-Jain07/portfolio/internal/content"
	"github.com/Tushar-Jain07/portfolio/internal/scene"
	"github.com/Tushar-Jain07/portfolio/internal/telemetry"
)

var (
	ErrSessionNotFound = errors.New("session: not found")
	ErrTooManySessions = errors.New("session: too many live sessions")
	ErrUnknownKind     = errors.New("session: unknown scene kind")
	ErrBadRequest      = errors.New("session: bad request")
	ErrClosed          = errors.New("session: manager closed")
)

// MountRequest asks for a new scene.
type MountRequest struct {
	Kind     scene.Kind     `json:"kind"`
	Viewport scene.Viewport `json:"viewport"`
	// Text overrides the hero text for particle-text scenes.
	Text string `json:"text,omitempty"`
}

// MountResult is returned to the page after mounting.
type MountResult struct {
	ID         string           `json:"id"`
	Kind       scene.Kind       `json:"kind"`
	Primitives int              `json:"primitives"`
	Running    bool             `json:"running"`
	Geometry   scene.Geometry   `json:"geometry"`
	Frame      scene.FrameState `json:"frame"`
}

// Config tunes the manager.
type Config struct {
	FrameInterval time.Duration
	IdleTimeout   time.Duration
	ReapInterval  time.Duration
	MaxSessions   int
}

// Session is one mounted scene.
type Session struct {
	ID      string
	Kind    scene.Kind
	Created time.Time

	loop       *scene.Loop
	primitives int
	lastSeen   atomic.Int64
	streams    atomic.Int32
	lastPtr    scene.Vec2
	ptrMu      sync.Mutex
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// LastSeen is the last time the page interacted with the session.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Primitives is the number of visual primitives built at mount.
func (s *Session) Primitives() int { return s.primitives }

// Frames is the number of frames rendered so far.
func (s *Session) Frames() uint64 { return s.loop.Frames() }

// Stats summarizes the manager for the admin dashboard.
type Stats struct {
	Live      map[scene.Kind]int `json:"live"`
	Mounted   uint64             `json:"mounted"`
	Unmounted uint64             `json:"unmounted"`
	Reaped    uint64             `json:"reaped"`
	Frames    uint64             `json:"frames"`
}

// Manager tracks live sessions.
type Manager struct {
	cfg       Config
	site      *content.Holder
	factories map[scene.Kind]Factory
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool

	mounted    atomic.Uint64
	unmounted  atomic.Uint64
	reaped     atomic.Uint64
	deadFrames atomic.Uint64
}

// NewManager creates a manager using the default scene factories.
func NewManager(cfg Config, site *content.Holder, logger *zap.Logger) *Manager {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second / 30
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 2 * time.Minute
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = 15 * time.Second
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 256
	}
	return &Manager{
		cfg:       cfg,
		site:      site,
		factories: DefaultFactories(),
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// ParseKind validates a scene kind name.
func ParseKind(s string) (scene.Kind, error) {
	for _, k := range scene.Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Mount builds, mounts and starts a scene. A request with an empty viewport
// still gets a session, with no primitives and no running loop.
func (m *Manager) Mount(ctx context.Context, req MountRequest) (*MountResult, error) {
	_, span := telemetry.Tracer().Start(ctx, "scene.mount")
	defer span.End()
	span.SetAttributes(attribute.String("scene.kind", string(req.Kind)))

	factory, ok := m.factories[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}
	m.mu.Unlock()

	r, err := factory(m.site.Current(), req)
	if err != nil {
		return nil, err
	}
	if err := r.Mount(req.Viewport); err != nil {
		r.Dispose()
		return nil, fmt.Errorf("mount %s: %w", req.Kind, err)
	}

	now := m.now()
	s := &Session{
		ID:         uuid.NewString(),
		Kind:       req.Kind,
		Created:    now,
		loop:       scene.NewLoop(r, m.cfg.FrameInterval),
		primitives: r.Primitives(),
	}
	s.touch(now)

	m.mu.Lock()
	if m.closed || len(m.sessions) >= m.cfg.MaxSessions {
		closed := m.closed
		m.mu.Unlock()
		s.loop.Stop()
		if closed {
			return nil, ErrClosed
		}
		return nil, ErrTooManySessions
	}
	m.sessions[s.ID] = s
	m.mu.Unlock()

	// Capture the mount payload before the frame goroutine can step.
	var (
		geom  scene.Geometry
		frame scene.FrameState
	)
	s.loop.Do(func(r scene.Renderer) {
		geom = r.Geometry()
		frame = r.Snapshot()
	})
	if !req.Viewport.Empty() {
		s.loop.Start()
	}
	m.mounted.Add(1)
	span.SetAttributes(attribute.Int("scene.primitives", s.primitives))

	m.logger.Debug("scene mounted",
		zap.String("id", s.ID),
		zap.String("kind", string(s.Kind)),
		zap.Int("primitives", s.primitives))

	return &MountResult{
		ID:         s.ID,
		Kind:       s.Kind,
		Primitives: s.primitives,
		Running:    s.loop.Running(),
		Geometry:   geom,
		Frame:      frame,
	}, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Snapshot returns the latest frame of a session.
func (m *Manager) Snapshot(id string) (scene.FrameState, error) {
	s, err := m.Get(id)
	if err != nil {
		return scene.FrameState{}, err
	}
	s.touch(m.now())
	return s.loop.Snapshot(), nil
}

// Pointer records a pointer move in normalized device coordinates. When drag
// is set, the move since the previous pointer position orbits the camera.
func (m *Manager) Pointer(id string, ndc scene.Vec2, drag bool) error {
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 {
		return fmt.Errorf("%w: pointer outside [-1, 1]", ErrBadRequest)
	}
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.touch(m.now())

	s.ptrMu.Lock()
	delta := ndc.Sub(s.lastPtr)
	s.lastPtr = ndc
	s.ptrMu.Unlock()

	s.loop.Do(func(r scene.Renderer) {
		r.Pointer(ndc)
		if d, ok := r.(scene.Dragger); ok && drag {
			d.Drag(delta)
		}
	})
	return nil
}

// Click forwards a click.
func (m *Manager) Click(id string) (scene.FrameState, error) {
	s, err := m.Get(id)
	if err != nil {
		return scene.FrameState{}, err
	}
	s.touch(m.now())
	var st scene.FrameState
	s.loop.Do(func(r scene.Renderer) {
		r.Click()
		st = r.Snapshot()
	})
	return st, nil
}

// Deselect clears the selected item on scenes that support it.
func (m *Manager) Deselect(id string) (scene.FrameState, error) {
	s, err := m.Get(id)
	if err != nil {
		return scene.FrameState{}, err
	}
	s.touch(m.now())
	var (
		st        scene.FrameState
		supported bool
	)
	s.loop.Do(func(r scene.Renderer) {
		if d, ok := r.(scene.Deselecter); ok {
			d.Deselect()
			supported = true
		}
		st = r.Snapshot()
	})
	if !supported {
		return st, fmt.Errorf("%w: %s has nothing to deselect", ErrBadRequest, s.Kind)
	}
	return st, nil
}

// Resize updates the camera aspect for a new container size.
func (m *Manager) Resize(id string, vp scene.Viewport) error {
	if vp.Empty() {
		return fmt.Errorf("%w: empty viewport", ErrBadRequest)
	}
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.touch(m.now())
	s.loop.Do(func(r scene.Renderer) { r.Resize(vp) })
	return nil
}

// Subscribe streams frames of a session. The channel closes on cancel or
// when the session is torn down.
func (m *Manager) Subscribe(id string) (<-chan scene.FrameState, func(), error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, nil, err
	}
	s.touch(m.now())
	ch, cancel := s.loop.Subscribe()
	s.streams.Add(1)
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			cancel()
			s.streams.Add(-1)
			s.touch(m.now())
		})
	}, nil
}

// Unmount tears a session down. A second call for the same id returns
// ErrSessionNotFound.
func (m *Manager) Unmount(ctx context.Context, id string) error {
	_, span := telemetry.Tracer().Start(ctx, "scene.unmount")
	defer span.End()

	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	m.teardown(s)
	m.unmounted.Add(1)
	span.SetAttributes(attribute.String("scene.kind", string(s.Kind)))
	return nil
}

func (m *Manager) teardown(s *Session) {
	s.loop.Stop()
	m.deadFrames.Add(s.loop.Frames())
	m.logger.Debug("scene torn down",
		zap.String("id", s.ID),
		zap.String("kind", string(s.Kind)),
		zap.Uint64("frames", s.loop.Frames()))
}

// Reap tears down sessions with no open stream that have been idle longer
// than the idle timeout. It returns how many went.
func (m *Manager) Reap() int {
	cutoff := m.now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.streams.Load() == 0 && s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		m.teardown(s)
	}
	if len(stale) > 0 {
		m.reaped.Add(uint64(len(stale)))
		m.logger.Info("reaped idle scenes", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run reaps idle sessions until ctx is done, then closes the manager.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.ReapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-ticker.C:
			m.Reap()
		}
	}
}

// Close tears down every session and rejects new mounts. Safe to call twice.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		m.teardown(s)
	}
	if len(all) > 0 {
		m.unmounted.Add(uint64(len(all)))
		m.logger.Info("closed scenes", zap.Int("count", len(all)))
	}
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IDs lists live session ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// Stats reports live counts per kind and lifetime totals.
func (m *Manager) Stats() Stats {
	st := Stats{
		Live:      make(map[scene.Kind]int),
		Mounted:   m.mounted.Load(),
		Unmounted: m.unmounted.Load(),
		Reaped:    m.reaped.Load(),
		Frames:    m.deadFrames.Load(),
	}
	for _, k := range scene.Kinds() {
		st.Live[k] = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		st.Live[s.Kind]++
		st.Frames += s.loop.Frames()
	}
	return st
}
