// Package config holds the tuning surface of the classification engine:
// one value per (label, scoring-component) pair for rule weights, plus the
// per-label minimum-score thresholds and the global consumption and solver
// knobs. Configuration is YAML-loadable; values not present in the file
// keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Thresholds holds the engine-wide numeric knobs.
type Thresholds struct {
	// MinScore maps labels to the minimum combined score a candidate
	// needs to survive the score phase. Labels absent from the map use
	// DefaultMinScore.
	MinScore map[string]float64 `yaml:"min_score"`

	// DefaultMinScore applies to labels without an explicit threshold.
	DefaultMinScore float64 `yaml:"default_min_score"`

	// NearDuplicateIoU is the intersection-over-union above which an
	// unconsumed block is removed as a near-duplicate of a winner.
	NearDuplicateIoU float64 `yaml:"near_duplicate_iou"`

	// ExactSolverLimit caps the number of constrained candidates the
	// exact assignment search will take on; above it the solver falls
	// back to greedy selection.
	ExactSolverLimit int `yaml:"exact_solver_limit"`
}

// Weights maps label -> rule name -> weight override.
type Weights map[string]map[string]float64

// Config is the full engine configuration.
type Config struct {
	Weights    Weights    `yaml:"weights"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Weights: Weights{},
		Thresholds: Thresholds{
			MinScore:         map[string]float64{},
			DefaultMinScore:  0.5,
			NearDuplicateIoU: 0.7,
			ExactSolverLimit: 18,
		},
	}
}

// Load reads a YAML configuration file and applies it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.NearDuplicateIoU <= 0 || t.NearDuplicateIoU > 1 {
		return fmt.Errorf("%w: near_duplicate_iou %g outside (0,1]", ErrInvalidConfig, t.NearDuplicateIoU)
	}
	if t.DefaultMinScore < 0 || t.DefaultMinScore > 1 {
		return fmt.Errorf("%w: default_min_score %g outside [0,1]", ErrInvalidConfig, t.DefaultMinScore)
	}
	for label, min := range t.MinScore {
		if min < 0 || min > 1 {
			return fmt.Errorf("%w: min_score for %q outside [0,1]", ErrInvalidConfig, label)
		}
	}
	if t.ExactSolverLimit < 0 {
		return fmt.Errorf("%w: exact_solver_limit must be >= 0", ErrInvalidConfig)
	}
	for label, byRule := range c.Weights {
		for rule, w := range byRule {
			if w < 0 {
				return fmt.Errorf("%w: weight for %s/%s is negative", ErrInvalidConfig, label, rule)
			}
		}
	}
	return nil
}

// MinScore returns the score threshold for a label.
func (c *Config) MinScore(label string) float64 {
	if min, ok := c.Thresholds.MinScore[label]; ok {
		return min
	}
	return c.Thresholds.DefaultMinScore
}

// Weight returns the weight override for a (label, rule) pair, or def when
// no override is configured.
func (c *Config) Weight(label, rule string, def float64) float64 {
	if byRule, ok := c.Weights[label]; ok {
		if w, ok := byRule[rule]; ok {
			return w
		}
	}
	return def
}
