// Package theme holds the dark/light display preference.
package theme

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Theme is the display mode.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// ErrInvalidTheme is returned for anything other than dark or light.
var ErrInvalidTheme = errors.New("theme: must be dark or light")

// Parse reads a theme name. The bool is false for unknown values.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	}
	return "", false
}

// Toggle flips dark and light.
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Color is the browser chrome colour for the theme.
func (t Theme) Color() string {
	if t == Light {
		return "#ffffff"
	}
	return "#111827"
}

func (t Theme) String() string { return string(t) }

// Source says where a resolved theme came from.
type Source string

const (
	SourceSaved   Source = "saved"
	SourceSystem  Source = "system"
	SourceDefault Source = "default"
)

// Resolve picks the saved theme when present, then the system signal,
// then fallback.
func Resolve(saved Theme, hasSaved bool, system Theme, hasSystem bool, fallback Theme) (Theme, Source) {
	if hasSaved {
		return saved, SourceSaved
	}
	if hasSystem {
		return system, SourceSystem
	}
	return fallback, SourceDefault
}

// Store persists one theme per visitor.
type Store interface {
	LoadTheme(ctx context.Context, visitorID string) (Theme, bool, error)
	SaveTheme(ctx context.Context, visitorID string, t Theme) error
}

// Preference is the process-wide default theme.
type Preference struct {
	mu    sync.RWMutex
	theme Theme
}

// NewPreference returns a Preference, falling back to dark for bad input.
func NewPreference(initial string) *Preference {
	t, ok := Parse(initial)
	if !ok {
		t = Dark
	}
	return &Preference{theme: t}
}

func (p *Preference) Get() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

func (p *Preference) Set(t Theme) error {
	if _, ok := Parse(string(t)); !ok {
		return ErrInvalidTheme
	}
	p.mu.Lock()
	p.theme = t
	p.mu.Unlock()
	return nil
}

// MemoryStore keeps preferences in a map.
type MemoryStore struct {
	mu     sync.RWMutex
	themes map[string]Theme
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{themes: make(map[string]Theme)}
}

func (m *MemoryStore) LoadTheme(_ context.Context, visitorID string) (Theme, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.themes[visitorID]
	return t, ok, nil
}

func (m *MemoryStore) SaveTheme(_ context.Context, visitorID string, t Theme) error {
	if _, ok := Parse(string(t)); !ok {
		return ErrInvalidTheme
	}
	m.mu.Lock()
	m.themes[visitorID] = t
	m.mu.Unlock()
	return nil
}

// Counts returns how many visitors saved each theme.
func (m *MemoryStore) Counts(context.Context) (map[Theme]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[Theme]int64{Dark: 0, Light: 0}
	for _, t := range m.themes {
		out[t]++
	}
	return out, nil
}
