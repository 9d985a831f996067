package classify

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/hints"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// Classifier is the contract for one per-label classifier.
type Classifier interface {
	// Label is the element label this classifier produces.
	Label() string

	// Requires lists the labels whose winners this classifier reads.
	// The scheduler guarantees they are resolved before Score runs.
	Requires() []string

	// Score emits zero or more candidates for this classifier's label,
	// given the page's blocks and the winners resolved so far.
	Score(page *model.PageData, res *Result, ctx *rules.Context) []*Candidate

	// Build deterministically constructs the element for a candidate.
	// It is a pure function of the candidate; returning an error marks
	// the candidate failed, an expected per-candidate outcome.
	Build(c *Candidate) (model.Element, error)
}

// Grouper is implemented by classifiers that opt in to globally consistent
// winner assignment. GroupKey derives the at-most-one constraint group for
// a candidate (for step numbers, the parsed value); returning false puts
// the candidate in a group of its own.
type Grouper interface {
	GroupKey(c *Candidate) (string, bool)
}

// MultiWinner is implemented by classifiers whose label may have several
// winners on one page, one per disjoint source-block set.
type MultiWinner interface {
	MultiWinner() bool
}

// Pipeline-configuration errors, raised at scheduler construction, before
// any page is processed. They are programmer errors in wiring, not data
// errors.
var (
	ErrDuplicateLabel     = errors.New("duplicate classifier label")
	ErrUnknownRequirement = errors.New("requirement names a label no classifier produces")
	ErrDependencyCycle    = errors.New("dependency cycle among classifiers")
)

// Scheduler runs registered classifiers over pages in dependency order.
type Scheduler struct {
	cfg        *config.Config
	logger     *slog.Logger
	registered []Classifier
	order      []Classifier
}

// NewScheduler validates the classifier wiring and computes the execution
// order. It fails when two classifiers produce the same label, when a
// requirement names an unproduced label, or when requirements form a
// cycle.
func NewScheduler(cfg *config.Config, logger *slog.Logger, classifiers ...Classifier) (*Scheduler, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	byLabel := make(map[string]Classifier, len(classifiers))
	for _, cl := range classifiers {
		if _, ok := byLabel[cl.Label()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, cl.Label())
		}
		byLabel[cl.Label()] = cl
	}
	for _, cl := range classifiers {
		for _, req := range cl.Requires() {
			if _, ok := byLabel[req]; !ok {
				return nil, fmt.Errorf("%w: %q requires %q", ErrUnknownRequirement, cl.Label(), req)
			}
		}
	}

	order, err := topoSort(classifiers)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cfg:        cfg,
		logger:     logger,
		registered: classifiers,
		order:      order,
	}, nil
}

// topoSort orders classifiers so requirements come before dependents,
// using Kahn's algorithm. Among ready classifiers, registration order is
// preserved, which keeps winner tie-breaking deterministic.
func topoSort(classifiers []Classifier) ([]Classifier, error) {
	index := make(map[string]int, len(classifiers))
	for i, cl := range classifiers {
		index[cl.Label()] = i
	}

	indegree := make([]int, len(classifiers))
	dependents := make([][]int, len(classifiers))
	for i, cl := range classifiers {
		for _, req := range cl.Requires() {
			j := index[req]
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i := range classifiers {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	var order []Classifier
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]
		order = append(order, classifiers[i])
		for _, dep := range dependents[i] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(classifiers) {
		var cyclic []string
		for i, deg := range indegree {
			if deg > 0 {
				cyclic = append(cyclic, classifiers[i].Label())
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(cyclic, ", "))
	}
	return order, nil
}

// Order returns the labels in execution order.
func (s *Scheduler) Order() []string {
	out := make([]string, len(s.order))
	for i, cl := range s.order {
		out[i] = cl.Label()
	}
	return out
}

// ClassifyPage runs the full three-phase pipeline over one page and
// returns its result. The pipeline is single-threaded and synchronous;
// pages are independent, so callers may run ClassifyPage concurrently for
// different pages as long as the hints snapshot is shared read-only.
func (s *Scheduler) ClassifyPage(page model.PageData, h *hints.Hints) *Result {
	res := newResult(page)
	ctx := &rules.Context{
		Page:       page.Bounds,
		PageNumber: page.Number,
		Hints:      h,
	}
	solver := newConstraintModel(s.cfg.Thresholds.ExactSolverLimit)

	for _, cl := range s.order {
		// The constraint model defers winner selection for opted-in
		// labels until the complete candidate set is visible. Flush it
		// once a dependent needs those winners.
		if solver.pending(cl.Requires()) {
			s.flushSolver(solver, res)
		}

		label := cl.Label()
		minScore := s.cfg.MinScore(label)

		var kept []*Candidate
		for _, c := range cl.Score(&res.Page, res, ctx) {
			if c.ScoreValue() < minScore {
				continue
			}
			res.add(c)
			kept = append(kept, c)
		}

		for _, c := range kept {
			el, err := cl.Build(c)
			if err != nil {
				c.markFailed(err)
				continue
			}
			c.markBuilt(el)
		}

		if g, ok := cl.(Grouper); ok {
			for _, c := range kept {
				if c.State() != StateBuilt {
					continue
				}
				key, ok := g.GroupKey(c)
				if !ok {
					key = c.ID
				}
				solver.add(label, key, c)
			}
			continue
		}

		s.selectGreedy(cl, res, kept)
	}

	if !solver.empty() {
		s.flushSolver(solver, res)
	}

	if w := res.Winner("page"); w != nil {
		if page, ok := w.Element().(*model.Page); ok {
			res.Assembled = page
		}
	}
	return res
}

// selectGreedy applies the default winner policy: highest score wins, ties
// broken by candidate creation order (and therefore registration order),
// candidates with consumed blocks ineligible. Classifiers implementing
// MultiWinner keep accepting disjoint candidates instead of stopping at
// the first.
func (s *Scheduler) selectGreedy(cl Classifier, res *Result, kept []*Candidate) {
	ordered := append([]*Candidate(nil), kept...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ScoreValue() > ordered[j].ScoreValue()
	})

	multi := false
	if mw, ok := cl.(MultiWinner); ok {
		multi = mw.MultiWinner()
	}

	for _, c := range ordered {
		if c.State() != StateBuilt {
			continue
		}
		if !res.blocksFree(c) {
			continue
		}
		s.acceptWinner(res, c)
		if !multi {
			return
		}
	}
}

// flushSolver solves the pending constraint model and accepts its
// assignment.
func (s *Scheduler) flushSolver(m *constraintModel, res *Result) {
	for _, c := range m.solve(res) {
		s.acceptWinner(res, c)
	}
	m.reset()
}
