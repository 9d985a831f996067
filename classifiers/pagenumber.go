package classifiers

import (
	"regexp"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/hints"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

var pageNumberPattern = regexp.MustCompile(`^\d{1,3}$`)

// PageNumberClassifier finds the printed page number: a short numeral in
// the bottom band of the page, preferring the outer corners and the
// document-dominant page-number font size.
type PageNumberClassifier struct {
	base
	rules []rules.Rule
}

// NewPageNumberClassifier creates the classifier with weights from cfg.
func NewPageNumberClassifier(cfg *config.Config) *PageNumberClassifier {
	return &PageNumberClassifier{
		base: base{label: LabelPageNumber},
		rules: []rules.Rule{
			rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindText},
			rules.TextPatternRule{Options: rules.Options{Req: true}, Pattern: pageNumberPattern},
			// Page numbers live in the bottom 12% of the page.
			rules.ZoneRule{Options: rules.Options{Req: true}, Zone: rules.FracBox{X0: 0, Y0: 0.88, X1: 1, Y1: 1}},
			rules.MaxScoreRule{
				Options: rules.Options{W: cfg.Weight(LabelPageNumber, "corner", 0.5)},
				Rules: []rules.Rule{
					rules.ZoneRule{Zone: rules.FracBox{X0: 0, Y0: 0.88, X1: 0.2, Y1: 1}},
					rules.ZoneRule{Zone: rules.FracBox{X0: 0.8, Y0: 0.88, X1: 1, Y1: 1}},
				},
			},
			rules.FontSizeHintRule{
				Options: rules.Options{W: cfg.Weight(LabelPageNumber, "font_size", 1)},
				Role:    hints.RolePageNumber,
				Falloff: 6,
			},
		},
	}
}

// Score emits one candidate per qualifying text block.
func (c *PageNumberClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var out []*classify.Candidate
	for _, b := range page.Blocks {
		if res.IsConsumed(b.ID()) {
			continue
		}
		score := rules.EvaluateAll(c.rules, b, ctx)
		if score.Value() == 0 {
			continue
		}
		out = append(out, classify.NewCandidate(LabelPageNumber, []model.Block{b}, score))
	}
	return out
}

// Build parses the numeral from the candidate's text block.
func (c *PageNumberClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	t := cand.Blocks[0].(*model.TextBlock)
	value, ok := rules.ParseNumber(t.Text)
	if !ok {
		return nil, classify.Buildf(LabelPageNumber, "unparseable numeral %q", t.Text)
	}
	return &model.PageNumber{Box: cand.Box, Value: value}, nil
}
