package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// DefaultKey is the strategy used when a device has no profile or its
// profile names an unknown strategy.
const DefaultKey = KeyHysteresisCooling

// ProfileStore yields the stored control profile for a device.
type ProfileStore interface {
	Profile(ctx context.Context, deviceID string) (model.ControlProfile, bool, error)
}

// Selector resolves which strategy and parameters apply to a device. A
// missing profile or an unrecognized strategy key falls back to the default
// strategy instead of failing the tick; the unknown key is logged as a
// configuration error.
type Selector struct {
	profiles ProfileStore
	catalog  *Catalog
	fallback Strategy
	logger   *slog.Logger
}

func NewSelector(profiles ProfileStore, catalog *Catalog, logger *slog.Logger) (*Selector, error) {
	fallback, ok := catalog.Get(DefaultKey)
	if !ok {
		return nil, fmt.Errorf("catalog is missing the default strategy %q", DefaultKey)
	}
	return &Selector{
		profiles: profiles,
		catalog:  catalog,
		fallback: fallback,
		logger:   logger.With("component", "strategy-selector"),
	}, nil
}

func (s *Selector) Resolve(ctx context.Context, deviceID string) (Strategy, model.Parameters, error) {
	prof, ok, err := s.profiles.Profile(ctx, deviceID)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	if !ok {
		return s.fallback, nil, nil
	}
	st, found := s.catalog.Get(prof.StrategyKey)
	if !found {
		s.logger.Warn("unknown strategy key, falling back to default",
			"device", deviceID, "key", prof.StrategyKey, "default", DefaultKey)
		return s.fallback, prof.Parameters, nil
	}
	return st, prof.Parameters, nil
}
