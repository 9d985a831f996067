package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Thresholds.DefaultMinScore != 0.5 {
		t.Errorf("Expected default min score 0.5, got %g", cfg.Thresholds.DefaultMinScore)
	}
	if cfg.Thresholds.NearDuplicateIoU != 0.7 {
		t.Errorf("Expected near duplicate IoU 0.7, got %g", cfg.Thresholds.NearDuplicateIoU)
	}
	if cfg.Thresholds.ExactSolverLimit != 18 {
		t.Errorf("Expected exact solver limit 18, got %d", cfg.Thresholds.ExactSolverLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestMinScore_Fallback(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.MinScore["step_number"] = 0.8

	if got := cfg.MinScore("step_number"); got != 0.8 {
		t.Errorf("Expected explicit threshold 0.8, got %g", got)
	}
	if got := cfg.MinScore("diagram"); got != 0.5 {
		t.Errorf("Expected fallback threshold 0.5, got %g", got)
	}
}

func TestWeight_Fallback(t *testing.T) {
	cfg := Default()
	cfg.Weights = Weights{"page_number": {"corner": 0.25}}

	if got := cfg.Weight("page_number", "corner", 0.5); got != 0.25 {
		t.Errorf("Expected override 0.25, got %g", got)
	}
	if got := cfg.Weight("page_number", "zone", 0.5); got != 0.5 {
		t.Errorf("Expected default 0.5, got %g", got)
	}
	if got := cfg.Weight("diagram", "area", 1); got != 1 {
		t.Errorf("Expected default 1, got %g", got)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  default_min_score: 0.6
  min_score:
    diagram: 0.4
weights:
  parts_list:
    contains_parts: 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if cfg.Thresholds.DefaultMinScore != 0.6 {
		t.Errorf("Expected overridden default 0.6, got %g", cfg.Thresholds.DefaultMinScore)
	}
	if cfg.MinScore("diagram") != 0.4 {
		t.Errorf("Expected diagram threshold 0.4, got %g", cfg.MinScore("diagram"))
	}
	if cfg.Weight("parts_list", "contains_parts", 2) != 3 {
		t.Errorf("Expected weight override 3, got %g", cfg.Weight("parts_list", "contains_parts", 2))
	}
	// Untouched knobs keep their defaults.
	if cfg.Thresholds.NearDuplicateIoU != 0.7 {
		t.Errorf("Expected near duplicate IoU to stay 0.7, got %g", cfg.Thresholds.NearDuplicateIoU)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  near_duplicate_iou: 1.5
`)
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected load of a missing file to fail")
	}
}

func TestValidate_NegativeWeight(t *testing.T) {
	cfg := Default()
	cfg.Weights = Weights{"diagram": {"area": -1}}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
