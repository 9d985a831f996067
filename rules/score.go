package rules

// Score is the contract a candidate's score detail must satisfy: a single
// derived value in [0,1]. Concrete score types carry whichever intermediate
// components a classifier wants for debugging.
type Score interface {
	Value() float64
}

// FixedScore is a constant score, used by composite labels whose candidates
// are synthesized from already-won children.
type FixedScore float64

// Value returns the fixed score.
func (s FixedScore) Value() float64 { return float64(s) }

// WeightedScore is the combined result of evaluating a rule set, with the
// per-rule breakdown retained for debugging.
type WeightedScore struct {
	// Combined is the normalized weighted sum over applicable rules.
	Combined float64

	// Parts is the per-rule breakdown.
	Parts []RulePart

	// Gated is true when a required rule evaluated to 0.
	Gated bool

	// GatedBy names the gating rule when Gated.
	GatedBy string
}

// Value returns the combined score, or 0 when a required rule gated the
// block.
func (s WeightedScore) Value() float64 {
	if s.Gated {
		return 0
	}
	return s.Combined
}
