package classifiers

import (
	"regexp"
	"strconv"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/hints"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

var stepNumberPattern = regexp.MustCompile(`^\d{1,3}$`)

// StepNumberClassifier finds step-opening numerals: short numbers, clearly
// larger than body text, outside the page-number band. Step numbers opt in
// to constraint solving: two spatially separated blocks can both parse to
// the same step value, and at most one of them may win, so candidates are
// grouped by parsed value and the solver picks the globally best
// assignment.
type StepNumberClassifier struct {
	base
	rules []rules.Rule
}

// NewStepNumberClassifier creates the classifier with weights from cfg.
func NewStepNumberClassifier(cfg *config.Config) *StepNumberClassifier {
	return &StepNumberClassifier{
		base: base{label: LabelStepNumber},
		rules: []rules.Rule{
			rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindText},
			rules.TextPatternRule{Options: rules.Options{Req: true}, Pattern: stepNumberPattern},
			// Keep out of the page-number band.
			rules.NotZoneRule{Options: rules.Options{Req: true}, Zone: rules.FracBox{X0: 0, Y0: 0.88, X1: 1, Y1: 1}},
			// Step numerals are tall relative to the page.
			rules.RelativeHeightRule{Options: rules.Options{Req: true}, Min: 0.04},
			rules.FontSizeHintRule{
				Options: rules.Options{W: cfg.Weight(LabelStepNumber, "font_size", 1)},
				Role:    hints.RoleStepNumber,
				Falloff: 12,
			},
			rules.PageKindRule{
				Options: rules.Options{W: cfg.Weight(LabelStepNumber, "page_kind", 0.5)},
				Kind:    hints.PageKindSteps,
			},
		},
	}
}

// Score emits one candidate per qualifying text block.
func (c *StepNumberClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var out []*classify.Candidate
	for _, b := range page.Blocks {
		if res.IsConsumed(b.ID()) {
			continue
		}
		score := rules.EvaluateAll(c.rules, b, ctx)
		if score.Value() == 0 {
			continue
		}
		out = append(out, classify.NewCandidate(LabelStepNumber, []model.Block{b}, score))
	}
	return out
}

// Build parses the step value from the candidate's text block.
func (c *StepNumberClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	t := cand.Blocks[0].(*model.TextBlock)
	value, ok := rules.ParseNumber(t.Text)
	if !ok {
		return nil, classify.Buildf(LabelStepNumber, "unparseable numeral %q", t.Text)
	}
	return &model.StepNumber{Box: cand.Box, Value: value, FontSize: t.FontSize}, nil
}

// GroupKey groups candidates by parsed step value: at most one winner per
// value page-wide.
func (c *StepNumberClassifier) GroupKey(cand *classify.Candidate) (string, bool) {
	t, ok := cand.Blocks[0].(*model.TextBlock)
	if !ok {
		return "", false
	}
	value, ok := rules.ParseNumber(t.Text)
	if !ok {
		return "", false
	}
	return strconv.Itoa(value), true
}
