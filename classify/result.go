package classify

import (
	"fmt"

	"github.com/tsawler/brickplan/model"
)

// ConsumeReason records why a block was marked consumed.
type ConsumeReason int

const (
	// ConsumedWon: the block is a source of a winning candidate.
	ConsumedWon ConsumeReason = iota

	// ConsumedChildOfWinner: the block lies fully inside a winner's box
	// and is not part of a separately winning element.
	ConsumedChildOfWinner

	// ConsumedNearDuplicate: the block's box nearly coincides with a
	// winner's box (doubled text for outline or shadow effects).
	ConsumedNearDuplicate

	// ConsumedExplicit: a classifier claimed the block directly.
	ConsumedExplicit
)

func (r ConsumeReason) String() string {
	switch r {
	case ConsumedWon:
		return "won"
	case ConsumedChildOfWinner:
		return "child-of-winner"
	case ConsumedNearDuplicate:
		return "near-duplicate"
	case ConsumedExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Consumption is one entry in the consumption ledger.
type Consumption struct {
	BlockID int
	Reason  ConsumeReason

	// Label is the winning label on whose behalf the block was consumed.
	Label string
}

// Warning is a non-fatal, per-page classification warning.
type Warning struct {
	Page    int
	Message string
}

// Result is the per-page classification state and outcome: the input page,
// the candidate set keyed by label, the consumption ledger, warnings, and
// the assembled page once assembly succeeds.
type Result struct {
	Page model.PageData

	// Candidates holds the surviving candidates per label, in creation
	// order.
	Candidates map[string][]*Candidate

	// Assembled is the final page element, nil when assembly found
	// nothing to assemble.
	Assembled *model.Page

	// Warnings are the page's non-fatal warnings.
	Warnings []Warning

	consumed     map[int]Consumption
	winnerBlocks map[int]string // block ID -> winning label
}

func newResult(page model.PageData) *Result {
	return &Result{
		Page:         page,
		Candidates:   make(map[string][]*Candidate),
		consumed:     make(map[int]Consumption),
		winnerBlocks: make(map[int]string),
	}
}

func (r *Result) add(c *Candidate) {
	r.Candidates[c.Label] = append(r.Candidates[c.Label], c)
}

// CandidatesFor returns the surviving candidates for a label in creation
// order.
func (r *Result) CandidatesFor(label string) []*Candidate {
	return r.Candidates[label]
}

// Winner returns the first winning candidate for a label, or nil.
func (r *Result) Winner(label string) *Candidate {
	for _, c := range r.Candidates[label] {
		if c.Won() {
			return c
		}
	}
	return nil
}

// Winners returns all winning candidates for a label in creation order.
// Labels resolved by the constraint solver can have several winners, one
// per constraint group.
func (r *Result) Winners(label string) []*Candidate {
	var out []*Candidate
	for _, c := range r.Candidates[label] {
		if c.Won() {
			out = append(out, c)
		}
	}
	return out
}

// WinnerElements returns the built elements of all winners for a label.
func (r *Result) WinnerElements(label string) []model.Element {
	var out []model.Element
	for _, c := range r.Winners(label) {
		if el := c.Element(); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// IsConsumed reports whether the block identity is marked consumed.
func (r *Result) IsConsumed(blockID int) bool {
	_, ok := r.consumed[blockID]
	return ok
}

// ConsumptionOf returns the ledger entry for a block identity.
func (r *Result) ConsumptionOf(blockID int) (Consumption, bool) {
	c, ok := r.consumed[blockID]
	return c, ok
}

// Consumed returns the number of consumed blocks.
func (r *Result) Consumed() int {
	return len(r.consumed)
}

// WonBy returns the label whose winner claimed the block as a source, or
// false.
func (r *Result) WonBy(blockID int) (string, bool) {
	label, ok := r.winnerBlocks[blockID]
	return label, ok
}

// consume records a consumption. Consumption marks are monotonic: once a
// block is consumed the first entry sticks and consume returns false.
func (r *Result) consume(blockID int, reason ConsumeReason, label string) bool {
	if _, ok := r.consumed[blockID]; ok {
		return false
	}
	r.consumed[blockID] = Consumption{BlockID: blockID, Reason: reason, Label: label}
	return true
}

// blocksFree reports whether none of the candidate's source blocks are
// consumed. Block-less composite candidates are always free.
func (r *Result) blocksFree(c *Candidate) bool {
	for _, b := range c.Blocks {
		if r.IsConsumed(b.ID()) {
			return false
		}
	}
	return true
}

// Warnf appends a formatted warning for this page.
func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Page:    r.Page.Number,
		Message: fmt.Sprintf(format, args...),
	})
}
