package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// loadRegistry reads the JSON registry files into the store. A missing
// devices file means an empty registry; devices can still be registered
// through the config API. Rules and profiles are optional.
func loadRegistry(cfg Config, store coreStore, logger *slog.Logger) error {
	devices, err := readJSONFile[[]model.Device](cfg.DevicesPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("no devices file, starting with an empty registry", "path", cfg.DevicesPath)
	case err != nil:
		return fmt.Errorf("load devices: %w", err)
	default:
		for _, d := range devices {
			if d.ID == "" {
				return fmt.Errorf("load devices: device without id in %s", cfg.DevicesPath)
			}
			store.PutDevice(d)
		}
		logger.Info("devices loaded", "count", len(devices), "path", cfg.DevicesPath)
	}

	if cfg.RulesPath != "" {
		rules, err := readJSONFile[[]model.AlertRule](cfg.RulesPath)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		for _, r := range rules {
			if err := store.PutRule(r); err != nil {
				return fmt.Errorf("load rules: %w", err)
			}
		}
		logger.Info("rules loaded", "count", len(rules), "path", cfg.RulesPath)
	}

	if cfg.ProfilesPath != "" {
		profiles, err := readJSONFile[[]model.ControlProfile](cfg.ProfilesPath)
		if err != nil {
			return fmt.Errorf("load profiles: %w", err)
		}
		for _, p := range profiles {
			store.SetProfile(p)
		}
		logger.Info("profiles loaded", "count", len(profiles), "path", cfg.ProfilesPath)
	}
	return nil
}

func readJSONFile[T any](path string) (T, error) {
	var out T
	raw, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
