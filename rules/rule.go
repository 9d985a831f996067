// Package rules provides the composable scoring primitives the classifiers
// are built from. A Rule evaluates one primitive block against shared page
// context and yields a score in [0,1] or "not applicable". Required rules
// hard-gate: a required rule evaluating to 0 disqualifies the block outright.
// Non-required rules contribute weight x score to a normalized weighted sum
// over the rules that applied, so missing hints degrade the score gracefully
// instead of zeroing it.
package rules

import (
	"github.com/tsawler/brickplan/hints"
	"github.com/tsawler/brickplan/model"
)

// Context is the shared, read-only page context rules evaluate against.
type Context struct {
	// Page is the page bounding box.
	Page model.BBox

	// PageNumber is the 1-indexed page number.
	PageNumber int

	// Hints is the precomputed whole-document hint snapshot. May be nil.
	Hints *hints.Hints
}

// FontSizeIdeal returns the document-dominant font size for a semantic
// role, or false when no hint is available.
func (c *Context) FontSizeIdeal(role string) (float64, bool) {
	if c == nil || c.Hints == nil || c.Hints.FontSizes == nil {
		return 0, false
	}
	return c.Hints.FontSizes.Dominant(role)
}

// PageKind returns the kind hint for the current page, or false when no
// hint is available.
func (c *Context) PageKind() (hints.PageKindHint, bool) {
	if c == nil || c.Hints == nil {
		return hints.PageKindHint{}, false
	}
	return c.Hints.PageKindFor(c.PageNumber)
}

// Rule evaluates one block against the page context. Evaluate returns the
// score in [0,1] and whether the rule applied; inapplicable rules are
// excluded from aggregation rather than treated as 0.
type Rule interface {
	// Name identifies the rule in score breakdowns.
	Name() string

	// Weight is the rule's weight in the normalized weighted sum.
	Weight() float64

	// Required reports whether a 0 score disqualifies the block.
	Required() bool

	// Evaluate scores the block. The second return value is false when
	// the rule does not apply to this block.
	Evaluate(b model.Block, ctx *Context) (float64, bool)
}

// Options carries the aggregation weight and gating flag shared by all
// concrete rules. The zero value means weight 1, not required.
type Options struct {
	// W is the aggregation weight; 0 means 1.
	W float64

	// Req marks the rule as required: evaluating to 0 disqualifies the
	// block for the label regardless of other rules.
	Req bool
}

// Weight returns the aggregation weight, defaulting to 1.
func (o Options) Weight() float64 {
	if o.W == 0 {
		return 1
	}
	return o.W
}

// Required reports whether the rule hard-gates.
func (o Options) Required() bool {
	return o.Req
}

// RulePart records one rule's contribution to a combined score, for
// debugging and score breakdowns.
type RulePart struct {
	Name       string
	Weight     float64
	Score      float64
	Applicable bool
	Required   bool
}

// EvaluateAll evaluates a rule set against one block and returns the
// combined weighted score with its full breakdown.
func EvaluateAll(ruleSet []Rule, b model.Block, ctx *Context) WeightedScore {
	result := WeightedScore{
		Parts: make([]RulePart, 0, len(ruleSet)),
	}

	var sum, weightTotal float64
	for _, r := range ruleSet {
		score, applicable := r.Evaluate(b, ctx)
		result.Parts = append(result.Parts, RulePart{
			Name:       r.Name(),
			Weight:     r.Weight(),
			Score:      score,
			Applicable: applicable,
			Required:   r.Required(),
		})

		if !applicable {
			continue
		}
		if r.Required() && score == 0 {
			result.Gated = true
			result.GatedBy = r.Name()
		}
		sum += r.Weight() * score
		weightTotal += r.Weight()
	}

	if !result.Gated && weightTotal > 0 {
		result.Combined = sum / weightTotal
	}
	return result
}
