package brickplan

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/tsawler/brickplan/classifiers"
	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/export"
	"github.com/tsawler/brickplan/hierarchy"
	"github.com/tsawler/brickplan/hints"
	"github.com/tsawler/brickplan/model"
)

// Engine classifies extracted page primitives into structured
// building-instruction documents. An Engine is immutable after New and
// safe for concurrent use; per-page state lives in each Result.
type Engine struct {
	cfg         *config.Config
	logger      *slog.Logger
	workers     int
	pages       map[int]bool
	classifiers []classify.Classifier
	scheduler   *classify.Scheduler
}

// New creates an Engine with the standard classifier set, applying any
// options. It fails when an option fails or when the classifier wiring is
// invalid.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     config.Default(),
		logger:  slog.Default(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.classifiers == nil {
		e.classifiers = classifiers.Standard(e.cfg)
	}

	scheduler, err := classify.NewScheduler(e.cfg, e.logger, e.classifiers...)
	if err != nil {
		return nil, fmt.Errorf("brickplan: %w", err)
	}
	e.scheduler = scheduler
	return e, nil
}

// Order returns the classifier labels in execution order.
func (e *Engine) Order() []string { return e.scheduler.Order() }

// ClassifyPage classifies one page. Pass nil hints to classify the page
// in isolation; pass the hints from Precompute to share document-wide
// context.
func (e *Engine) ClassifyPage(page model.PageData, h *hints.Hints) *classify.Result {
	return e.scheduler.ClassifyPage(page, h)
}

// Precompute scans the pages and returns the document-wide hints used to
// sharpen per-page classification.
func (e *Engine) Precompute(pages []model.PageData) *hints.Hints {
	return hints.Precompute(pages)
}

// Manual is the classified document: assembled pages in reading order
// plus the per-page results they came from.
type Manual struct {
	// Pages holds the assembled pages sorted by page number.
	Pages []*model.Page

	// Results holds every page's result in page order, including pages
	// that did not assemble.
	Results []*classify.Result
}

// Warnings collects the warnings of all pages in page order.
func (m *Manual) Warnings() []classify.Warning {
	var out []classify.Warning
	for _, r := range m.Results {
		out = append(out, r.Warnings...)
	}
	return out
}

// RenderJSON renders the assembled pages as deterministic JSON.
func (m *Manual) RenderJSON() ([]byte, error) {
	return export.RenderPages(m.Pages)
}

// ClassifyManual precomputes document hints, classifies every selected
// page, and aggregates the results into a Manual. Hints always cover the
// full input, even when WithPages restricts classification to a subset.
// Pages are classified concurrently on a bounded worker pool; the hints
// snapshot is shared read-only. The context cancels pages not yet started.
func (e *Engine) ClassifyManual(ctx context.Context, pages []model.PageData) (*Manual, error) {
	h := hints.Precompute(pages)

	work := make([]int, 0, len(pages))
	for i := range pages {
		if len(e.pages) > 0 && !e.pages[pages[i].Number] {
			continue
		}
		work = append(work, i)
	}
	results := make([]*classify.Result, len(work))

	workers := e.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(work) {
		workers = len(work)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range jobs {
				results[w] = e.scheduler.ClassifyPage(pages[work[w]], h)
			}
		}()
	}

	var ctxErr error
feed:
	for w := range work {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case jobs <- w:
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, fmt.Errorf("brickplan: classify manual: %w", ctxErr)
	}

	m := &Manual{}
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pages[work[order[a]]].Number < pages[work[order[b]]].Number
	})
	for _, i := range order {
		r := results[i]
		m.Results = append(m.Results, r)
		if r.Assembled != nil {
			m.Pages = append(m.Pages, r.Assembled)
		}
	}
	return m, nil
}

// DumpHierarchy renders the raw containment tree of a page's blocks, an
// indented outline useful when a classifier's containment assumptions need
// checking against real data.
func (e *Engine) DumpHierarchy(page model.PageData) string {
	tree := hierarchy.Build(page.Blocks)
	return tree.Dump(func(b model.Block) string {
		return fmt.Sprintf("%s#%d", b.Kind(), b.ID())
	})
}

// Must panics on error. Convenience for examples and tests.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
