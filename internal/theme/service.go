package theme

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Tushar-Jain07/portfolio/internal/telemetry"
)

// Service reads and mutates visitor preferences.
type Service struct {
	store    Store
	fallback *Preference
	logger   *zap.Logger
}

func NewService(store Store, fallback *Preference, logger *zap.Logger) *Service {
	return &Service{store: store, fallback: fallback, logger: logger}
}

// Current resolves the theme for a visitor. systemHint is the raw client
// hint value; it may be empty.
func (s *Service) Current(ctx context.Context, visitorID, systemHint string) (Theme, Source, error) {
	var (
		saved    Theme
		hasSaved bool
	)
	if visitorID != "" {
		var err error
		saved, hasSaved, err = s.store.LoadTheme(ctx, visitorID)
		if err != nil {
			return "", "", fmt.Errorf("load theme: %w", err)
		}
	}
	system, hasSystem := Parse(systemHint)
	t, src := Resolve(saved, hasSaved, system, hasSystem, s.fallback.Get())
	return t, src, nil
}

// Toggle flips the visitor's current theme and stores the result.
func (s *Service) Toggle(ctx context.Context, visitorID, systemHint string) (Theme, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "theme.toggle")
	defer span.End()

	cur, _, err := s.Current(ctx, visitorID, systemHint)
	if err != nil {
		return "", err
	}
	next := cur.Toggle()
	if err := s.Set(ctx, visitorID, next); err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("theme", next.String()))
	return next, nil
}

// Set stores an explicit theme.
func (s *Service) Set(ctx context.Context, visitorID string, t Theme) error {
	if _, ok := Parse(string(t)); !ok {
		return ErrInvalidTheme
	}
	if err := s.store.SaveTheme(ctx, visitorID, t); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	s.logger.Debug("theme saved", zap.String("theme", t.String()))
	return nil
}

// Fallback is the server default used when nothing else decides.
func (s *Service) Fallback() Theme { return s.fallback.Get() }
