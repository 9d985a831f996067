package classifiers

import (
	"regexp"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/hints"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// Matches the normalized token form; NormalizeToken folds "×" to "x".
var partCountPattern = regexp.MustCompile(`^\d{1,3}\s?x$`)

// PartCountClassifier finds count tokens ("2x", "5×") labelling entries in
// a parts list. Every disjoint qualifying block can win: a page carries
// one count per listed part.
type PartCountClassifier struct {
	base
	rules []rules.Rule
}

// NewPartCountClassifier creates the classifier with weights from cfg.
func NewPartCountClassifier(cfg *config.Config) *PartCountClassifier {
	return &PartCountClassifier{
		base: base{label: LabelPartCount},
		rules: []rules.Rule{
			rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindText},
			rules.TextPatternRule{Options: rules.Options{Req: true}, Pattern: partCountPattern},
			rules.FontSizeHintRule{
				Options: rules.Options{W: cfg.Weight(LabelPartCount, "font_size", 1)},
				Role:    hints.RolePartCount,
				Falloff: 4,
			},
		},
	}
}

// MultiWinner: one winner per count token.
func (c *PartCountClassifier) MultiWinner() bool { return true }

// Score emits one candidate per qualifying text block.
func (c *PartCountClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var out []*classify.Candidate
	for _, b := range page.Blocks {
		if res.IsConsumed(b.ID()) {
			continue
		}
		score := rules.EvaluateAll(c.rules, b, ctx)
		if score.Value() == 0 {
			continue
		}
		out = append(out, classify.NewCandidate(LabelPartCount, []model.Block{b}, score))
	}
	return out
}

// Build parses the count from the candidate's token.
func (c *PartCountClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	t := cand.Blocks[0].(*model.TextBlock)
	count, ok := rules.ParseCount(t.Text)
	if !ok {
		return nil, classify.Buildf(LabelPartCount, "unparseable count token %q", t.Text)
	}
	return &model.PartCount{Box: cand.Box, Count: count, Raw: t.Text}, nil
}
