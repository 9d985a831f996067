package classifiers

import (
	"regexp"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/hints"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// Catalog numbers are 5 to 7 digit codes.
var partNumberPattern = regexp.MustCompile(`^\d{5,7}$`)

// PartNumberClassifier finds printed catalog numbers, which appear under
// part pictures on inventory pages.
type PartNumberClassifier struct {
	base
	rules []rules.Rule
}

// NewPartNumberClassifier creates the classifier with weights from cfg.
func NewPartNumberClassifier(cfg *config.Config) *PartNumberClassifier {
	return &PartNumberClassifier{
		base: base{label: LabelPartNumber},
		rules: []rules.Rule{
			rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindText},
			rules.TextPatternRule{Options: rules.Options{Req: true}, Pattern: partNumberPattern},
			rules.PageKindRule{
				Options: rules.Options{W: cfg.Weight(LabelPartNumber, "page_kind", 0.5)},
				Kind:    hints.PageKindInventory,
			},
		},
	}
}

// MultiWinner: one winner per printed catalog number.
func (c *PartNumberClassifier) MultiWinner() bool { return true }

// Score emits one candidate per qualifying text block.
func (c *PartNumberClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var out []*classify.Candidate
	for _, b := range page.Blocks {
		if res.IsConsumed(b.ID()) {
			continue
		}
		score := rules.EvaluateAll(c.rules, b, ctx)
		if score.Value() == 0 {
			continue
		}
		out = append(out, classify.NewCandidate(LabelPartNumber, []model.Block{b}, score))
	}
	return out
}

// Build copies the normalized digits into the element.
func (c *PartNumberClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	t := cand.Blocks[0].(*model.TextBlock)
	value := rules.NormalizeToken(t.Text)
	if !partNumberPattern.MatchString(value) {
		return nil, classify.Buildf(LabelPartNumber, "unparseable catalog number %q", t.Text)
	}
	return &model.PartNumber{Box: cand.Box, Value: value}, nil
}
