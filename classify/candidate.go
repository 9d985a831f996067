package classify

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// State tracks a candidate through its lifecycle.
type State int

const (
	// StatePending means the candidate is scored but not yet built.
	StatePending State = iota

	// StateBuilt means the candidate's element was constructed.
	StateBuilt

	// StateFailed means the build step failed; the candidate is
	// ineligible to win.
	StateFailed

	// StateWinner means the candidate was accepted into the document.
	StateWinner
)

func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateFailed:
		return "failed"
	case StateWinner:
		return "winner"
	default:
		return "pending"
	}
}

// Candidate is a scored, possibly-built proposal that some set of blocks
// constitutes an instance of a label. Candidates for composite labels
// ("step", "page") are synthesized from already-won child elements and
// carry no source blocks; all other labels carry at least one.
type Candidate struct {
	// ID is the candidate's unique identity.
	ID string

	// Label is the element kind this candidate proposes.
	Label string

	// Box is the union of the source blocks' boxes, or the externally
	// supplied box for composite labels.
	Box model.BBox

	// Blocks are the source blocks the candidate draws on.
	Blocks []model.Block

	// Score is the candidate's score detail; Score.Value() is in [0,1].
	Score rules.Score

	// Prebuilt carries an element constructed during the score phase.
	// Composite classifiers synthesize their element up front and return
	// it from Build.
	Prebuilt model.Element

	state   State
	element model.Element
	failure error
}

// NewCandidate creates a candidate from its source blocks. The bounding
// box is the union of the blocks' boxes.
func NewCandidate(label string, blocks []model.Block, score rules.Score) *Candidate {
	return &Candidate{
		ID:     ulid.Make().String(),
		Label:  label,
		Box:    model.UnionBox(blocks),
		Blocks: blocks,
		Score:  score,
	}
}

// NewCompositeCandidate creates a block-less candidate for a composite
// label with the fixed score 1.0.
func NewCompositeCandidate(label string, box model.BBox) *Candidate {
	return &Candidate{
		ID:    ulid.Make().String(),
		Label: label,
		Box:   box,
		Score: rules.FixedScore(1),
	}
}

// WithElement attaches a pre-constructed element and returns the candidate.
func (c *Candidate) WithElement(el model.Element) *Candidate {
	c.Prebuilt = el
	return c
}

// ScoreValue returns the candidate's combined score.
func (c *Candidate) ScoreValue() float64 {
	if c.Score == nil {
		return 0
	}
	return c.Score.Value()
}

// State returns the candidate's lifecycle state.
func (c *Candidate) State() State { return c.state }

// Won reports whether the candidate was accepted as a winner.
func (c *Candidate) Won() bool { return c.state == StateWinner }

// Element returns the built element, or nil before a successful build.
func (c *Candidate) Element() model.Element { return c.element }

// Err returns the build failure, or nil.
func (c *Candidate) Err() error { return c.failure }

func (c *Candidate) markBuilt(el model.Element) {
	c.element = el
	c.state = StateBuilt
}

func (c *Candidate) markFailed(err error) {
	c.failure = err
	c.state = StateFailed
}

func (c *Candidate) markWinner() {
	c.state = StateWinner
}

// BuildError is the typed failure a build step reports when it cannot
// construct an element from a candidate's source blocks. It is an
// expected, per-candidate outcome, never an escalating error.
type BuildError struct {
	Label  string
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %s", e.Label, e.Reason)
}

// Buildf creates a BuildError with a formatted reason.
func Buildf(label, format string, args ...any) *BuildError {
	return &BuildError{Label: label, Reason: fmt.Sprintf(format, args...)}
}
