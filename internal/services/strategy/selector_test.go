package strategy

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

type profileMap map[string]model.ControlProfile

func (p profileMap) Profile(_ context.Context, deviceID string) (model.ControlProfile, bool, error) {
	prof, ok := p[deviceID]
	return prof, ok, nil
}

func newSelector(t *testing.T, profiles profileMap) *Selector {
	t.Helper()
	sel, err := NewSelector(profiles, DefaultCatalog(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	return sel
}

func TestResolveReturnsConfiguredStrategy(t *testing.T) {
	sel := newSelector(t, profileMap{
		"dev-1": {DeviceID: "dev-1", StrategyKey: KeyMoistureTopUp, Parameters: model.Parameters{ParamMinLevel: 40}},
	})
	st, params, err := sel.Resolve(context.Background(), "dev-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if st.Key() != KeyMoistureTopUp {
		t.Fatalf("expected %s, got %s", KeyMoistureTopUp, st.Key())
	}
	if params.Get(ParamMinLevel, 0) != 40 {
		t.Fatalf("expected minLevel 40, got %v", params)
	}
}

func TestResolveMissingProfileFallsBackToDefault(t *testing.T) {
	sel := newSelector(t, profileMap{})
	st, params, err := sel.Resolve(context.Background(), "dev-unknown")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if st.Key() != DefaultKey {
		t.Fatalf("expected default strategy %s, got %s", DefaultKey, st.Key())
	}
	if len(params) != 0 {
		t.Fatalf("expected empty parameters, got %v", params)
	}
}

func TestResolveUnknownKeyFallsBackKeepingParameters(t *testing.T) {
	sel := newSelector(t, profileMap{
		"dev-1": {DeviceID: "dev-1", StrategyKey: "does-not-exist", Parameters: model.Parameters{ParamOnAbove: 28}},
	})
	st, params, err := sel.Resolve(context.Background(), "dev-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if st.Key() != DefaultKey {
		t.Fatalf("expected fallback to %s, got %s", DefaultKey, st.Key())
	}
	if params.Get(ParamOnAbove, 0) != 28 {
		t.Fatalf("parameters must survive the fallback, got %v", params)
	}
}
