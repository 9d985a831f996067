package brickplan

import (
	"log/slog"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
)

// Option configures an Engine during New.
type Option func(*Engine) error

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) error {
		if cfg != nil {
			e.cfg = cfg
		}
		return nil
	}
}

// WithConfigFile loads configuration overrides from a YAML file on top of
// the defaults.
func WithConfigFile(path string) Option {
	return func(e *Engine) error {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		e.cfg = cfg
		return nil
	}
}

// WithLogger sets the structured logger the pipeline reports through.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// WithWorkers bounds how many pages ClassifyManual processes at once.
func WithWorkers(n int) Option {
	return func(e *Engine) error {
		if n > 0 {
			e.workers = n
		}
		return nil
	}
}

// WithPages restricts ClassifyManual to the given page numbers. Document
// hints are still computed over the full input.
func WithPages(numbers ...int) Option {
	return func(e *Engine) error {
		if e.pages == nil {
			e.pages = make(map[int]bool, len(numbers))
		}
		for _, n := range numbers {
			e.pages[n] = true
		}
		return nil
	}
}

// WithClassifiers replaces the standard classifier set. The scheduler
// still validates labels, requirements, and ordering during New.
func WithClassifiers(cs ...classify.Classifier) Option {
	return func(e *Engine) error {
		e.classifiers = cs
		return nil
	}
}
