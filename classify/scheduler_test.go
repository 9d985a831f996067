package classify

import (
	"errors"
	"testing"

	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// fakeClassifier is a scriptable classifier for scheduler tests.
type fakeClassifier struct {
	label    string
	requires []string
	multi    bool
	score    func(page *model.PageData, res *Result, ctx *rules.Context) []*Candidate
	build    func(c *Candidate) (model.Element, error)
}

func (f *fakeClassifier) Label() string      { return f.label }
func (f *fakeClassifier) Requires() []string { return f.requires }
func (f *fakeClassifier) MultiWinner() bool  { return f.multi }

func (f *fakeClassifier) Score(page *model.PageData, res *Result, ctx *rules.Context) []*Candidate {
	if f.score == nil {
		return nil
	}
	return f.score(page, res, ctx)
}

func (f *fakeClassifier) Build(c *Candidate) (model.Element, error) {
	if f.build == nil {
		return &model.Diagram{Box: c.Box}, nil
	}
	return f.build(c)
}

// groupedClassifier adds a group key, opting in to solver assignment.
type groupedClassifier struct {
	fakeClassifier
	key func(c *Candidate) (string, bool)
}

func (g *groupedClassifier) GroupKey(c *Candidate) (string, bool) { return g.key(c) }

func testPage(blocks ...model.Block) model.PageData {
	return model.PageData{
		Number: 1,
		Bounds: model.MustBBox(0, 0, 200, 300),
		Blocks: blocks,
	}
}

func text(id int, box model.BBox) *model.TextBlock {
	return &model.TextBlock{BlockID: id, Box: box, Text: "t", FontSize: 10}
}

func TestNewScheduler_DuplicateLabel(t *testing.T) {
	_, err := NewScheduler(nil, nil,
		&fakeClassifier{label: "a"},
		&fakeClassifier{label: "a"},
	)
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("Expected ErrDuplicateLabel, got %v", err)
	}
}

func TestNewScheduler_UnknownRequirement(t *testing.T) {
	_, err := NewScheduler(nil, nil,
		&fakeClassifier{label: "a", requires: []string{"ghost"}},
	)
	if !errors.Is(err, ErrUnknownRequirement) {
		t.Errorf("Expected ErrUnknownRequirement, got %v", err)
	}
}

func TestNewScheduler_CycleDetected(t *testing.T) {
	_, err := NewScheduler(nil, nil,
		&fakeClassifier{label: "a", requires: []string{"b"}},
		&fakeClassifier{label: "b", requires: []string{"a"}},
	)
	if !errors.Is(err, ErrDependencyCycle) {
		t.Errorf("Expected ErrDependencyCycle, got %v", err)
	}
}

func TestScheduler_Order(t *testing.T) {
	s, err := NewScheduler(nil, nil,
		&fakeClassifier{label: "c", requires: []string{"b"}},
		&fakeClassifier{label: "a"},
		&fakeClassifier{label: "b", requires: []string{"a"}},
	)
	if err != nil {
		t.Fatalf("Expected scheduler to build, got %v", err)
	}

	order := s.Order()
	pos := make(map[string]int, len(order))
	for i, label := range order {
		pos[label] = i
	}
	if !(pos["a"] < pos["b"] && pos["b"] < pos["c"]) {
		t.Errorf("Expected a before b before c, got %v", order)
	}
}

func TestScheduler_OrderPreservesRegistrationAmongIndependents(t *testing.T) {
	s, err := NewScheduler(nil, nil,
		&fakeClassifier{label: "x"},
		&fakeClassifier{label: "y"},
		&fakeClassifier{label: "z"},
	)
	if err != nil {
		t.Fatalf("Expected scheduler to build, got %v", err)
	}
	order := s.Order()
	want := []string{"x", "y", "z"}
	for i, label := range want {
		if order[i] != label {
			t.Fatalf("Expected registration order %v, got %v", want, order)
		}
	}
}

func TestClassifyPage_HighestScoreWins(t *testing.T) {
	b1 := text(1, model.MustBBox(10, 10, 20, 20))
	b2 := text(2, model.MustBBox(30, 10, 40, 20))
	page := testPage(b1, b2)

	cl := &fakeClassifier{
		label: "numeral",
		score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
			return []*Candidate{
				NewCandidate("numeral", []model.Block{b1}, rules.FixedScore(0.6)),
				NewCandidate("numeral", []model.Block{b2}, rules.FixedScore(0.9)),
			}
		},
	}
	s := mustScheduler(t, cl)
	res := s.ClassifyPage(page, nil)

	w := res.Winner("numeral")
	if w == nil {
		t.Fatal("Expected a winner")
	}
	if w.Blocks[0].ID() != 2 {
		t.Errorf("Expected block 2's candidate to win, got block %d", w.Blocks[0].ID())
	}
	if len(res.Winners("numeral")) != 1 {
		t.Errorf("Expected a single winner, got %d", len(res.Winners("numeral")))
	}
}

func TestClassifyPage_TieBreaksByCreationOrder(t *testing.T) {
	b1 := text(1, model.MustBBox(10, 10, 20, 20))
	b2 := text(2, model.MustBBox(30, 10, 40, 20))
	page := testPage(b1, b2)

	cl := &fakeClassifier{
		label: "numeral",
		score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
			return []*Candidate{
				NewCandidate("numeral", []model.Block{b1}, rules.FixedScore(0.8)),
				NewCandidate("numeral", []model.Block{b2}, rules.FixedScore(0.8)),
			}
		},
	}
	s := mustScheduler(t, cl)
	res := s.ClassifyPage(page, nil)

	w := res.Winner("numeral")
	if w == nil || w.Blocks[0].ID() != 1 {
		t.Error("Expected the first-created candidate to win the tie")
	}
}

func TestClassifyPage_MinScoreFilters(t *testing.T) {
	b1 := text(1, model.MustBBox(10, 10, 20, 20))
	page := testPage(b1)

	cl := &fakeClassifier{
		label: "numeral",
		score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
			return []*Candidate{
				NewCandidate("numeral", []model.Block{b1}, rules.FixedScore(0.3)),
			}
		},
	}
	s := mustScheduler(t, cl)
	res := s.ClassifyPage(page, nil)

	if len(res.CandidatesFor("numeral")) != 0 {
		t.Error("Expected sub-threshold candidate to be dropped")
	}
	if res.Winner("numeral") != nil {
		t.Error("Expected no winner")
	}
}

func TestClassifyPage_FailedBuildIneligible(t *testing.T) {
	b1 := text(1, model.MustBBox(10, 10, 20, 20))
	b2 := text(2, model.MustBBox(30, 10, 40, 20))
	page := testPage(b1, b2)

	cl := &fakeClassifier{
		label: "numeral",
		score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
			return []*Candidate{
				NewCandidate("numeral", []model.Block{b1}, rules.FixedScore(0.9)),
				NewCandidate("numeral", []model.Block{b2}, rules.FixedScore(0.6)),
			}
		},
		build: func(c *Candidate) (model.Element, error) {
			if c.Blocks[0].ID() == 1 {
				return nil, Buildf("numeral", "unparseable")
			}
			return &model.Diagram{Box: c.Box}, nil
		},
	}
	s := mustScheduler(t, cl)
	res := s.ClassifyPage(page, nil)

	w := res.Winner("numeral")
	if w == nil || w.Blocks[0].ID() != 2 {
		t.Fatal("Expected the lower-scored but buildable candidate to win")
	}

	var failed *Candidate
	for _, c := range res.CandidatesFor("numeral") {
		if c.State() == StateFailed {
			failed = c
		}
	}
	if failed == nil {
		t.Fatal("Expected the unbuildable candidate to be marked failed")
	}
	var be *BuildError
	if !errors.As(failed.Err(), &be) {
		t.Errorf("Expected a BuildError, got %v", failed.Err())
	}
}

func TestClassifyPage_ConsumedBlocksIneligibleDownstream(t *testing.T) {
	shared := text(1, model.MustBBox(10, 10, 20, 20))
	page := testPage(shared)

	first := &fakeClassifier{
		label: "first",
		score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
			return []*Candidate{NewCandidate("first", []model.Block{shared}, rules.FixedScore(0.9))}
		},
	}
	second := &fakeClassifier{
		label:    "second",
		requires: []string{"first"},
		score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
			return []*Candidate{NewCandidate("second", []model.Block{shared}, rules.FixedScore(0.9))}
		},
	}
	s := mustScheduler(t, first, second)
	res := s.ClassifyPage(page, nil)

	if res.Winner("first") == nil {
		t.Fatal("Expected first classifier to win its block")
	}
	if res.Winner("second") != nil {
		t.Error("Expected second classifier to be blocked by the consumed block")
	}
	if label, ok := res.WonBy(1); !ok || label != "first" {
		t.Errorf("Expected block 1 won by 'first', got %q (ok=%v)", label, ok)
	}
}

func TestClassifyPage_MultiWinnerAcceptsDisjointCandidates(t *testing.T) {
	b1 := text(1, model.MustBBox(10, 10, 20, 20))
	b2 := text(2, model.MustBBox(120, 10, 130, 20))
	page := testPage(b1, b2)

	cl := &fakeClassifier{
		label: "token",
		multi: true,
		score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
			return []*Candidate{
				NewCandidate("token", []model.Block{b1}, rules.FixedScore(0.9)),
				NewCandidate("token", []model.Block{b2}, rules.FixedScore(0.8)),
			}
		},
	}
	s := mustScheduler(t, cl)
	res := s.ClassifyPage(page, nil)

	if got := len(res.Winners("token")); got != 2 {
		t.Errorf("Expected 2 winners, got %d", got)
	}
}

func TestClassifyPage_GroupedLabelOneWinnerPerGroup(t *testing.T) {
	// Two candidates claim value "10", a third claims "11". At most one
	// per value may win, and the assignment maximizes total score.
	b1 := text(1, model.MustBBox(10, 10, 20, 20))
	b2 := text(2, model.MustBBox(60, 10, 70, 20))
	b3 := text(3, model.MustBBox(120, 10, 130, 20))
	page := testPage(b1, b2, b3)

	values := map[int]string{1: "10", 2: "10", 3: "11"}
	cl := &groupedClassifier{
		fakeClassifier: fakeClassifier{
			label: "numeral",
			score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
				return []*Candidate{
					NewCandidate("numeral", []model.Block{b1}, rules.FixedScore(0.7)),
					NewCandidate("numeral", []model.Block{b2}, rules.FixedScore(0.9)),
					NewCandidate("numeral", []model.Block{b3}, rules.FixedScore(0.8)),
				}
			},
		},
		key: func(c *Candidate) (string, bool) {
			return values[c.Blocks[0].ID()], true
		},
	}
	s := mustScheduler(t, cl)
	res := s.ClassifyPage(page, nil)

	winners := res.Winners("numeral")
	if len(winners) != 2 {
		t.Fatalf("Expected one winner per group, got %d", len(winners))
	}
	ids := map[int]bool{}
	for _, w := range winners {
		ids[w.Blocks[0].ID()] = true
	}
	if !ids[2] || !ids[3] {
		t.Errorf("Expected blocks 2 and 3 to win, got %v", ids)
	}
}

func TestClassifyPage_SolverFlushedBeforeDependent(t *testing.T) {
	b1 := text(1, model.MustBBox(10, 10, 20, 20))
	page := testPage(b1)

	grouped := &groupedClassifier{
		fakeClassifier: fakeClassifier{
			label: "numeral",
			score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
				return []*Candidate{NewCandidate("numeral", []model.Block{b1}, rules.FixedScore(0.9))}
			},
		},
		key: func(c *Candidate) (string, bool) { return "10", true },
	}

	var sawWinner bool
	dependent := &fakeClassifier{
		label:    "region",
		requires: []string{"numeral"},
		score: func(p *model.PageData, res *Result, _ *rules.Context) []*Candidate {
			sawWinner = res.Winner("numeral") != nil
			return nil
		},
	}
	s := mustScheduler(t, grouped, dependent)
	s.ClassifyPage(page, nil)

	if !sawWinner {
		t.Error("Expected solver winners resolved before the dependent classifier ran")
	}
}

func TestClassifyPage_AtMostOneWinnerPerBlock(t *testing.T) {
	b1 := text(1, model.MustBBox(10, 10, 20, 20))
	page := testPage(b1)

	a := &fakeClassifier{
		label: "a",
		score: func(p *model.PageData, _ *Result, _ *rules.Context) []*Candidate {
			return []*Candidate{NewCandidate("a", []model.Block{b1}, rules.FixedScore(0.9))}
		},
	}
	b := &fakeClassifier{
		label: "b",
		score: func(p *model.PageData, res *Result, _ *rules.Context) []*Candidate {
			// Deliberately ignores the consumption ledger.
			return []*Candidate{NewCandidate("b", []model.Block{b1}, rules.FixedScore(0.9))}
		},
	}
	s := mustScheduler(t, a, b)
	res := s.ClassifyPage(page, nil)

	wins := 0
	for _, label := range []string{"a", "b"} {
		for range res.Winners(label) {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("Expected exactly one winner for the shared block, got %d", wins)
	}
}

func mustScheduler(t *testing.T, classifiers ...Classifier) *Scheduler {
	t.Helper()
	s, err := NewScheduler(config.Default(), nil, classifiers...)
	if err != nil {
		t.Fatalf("Failed to build scheduler: %v", err)
	}
	return s
}
