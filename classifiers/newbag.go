package classifiers

import (
	"regexp"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

var bagNumberPattern = regexp.MustCompile(`^\d{1,2}$`)

// NewBagClassifier finds "open a new bag" callouts: a large bag picture
// with a small digit printed inside it. The pair of blocks forms one
// candidate so both are consumed together when it wins.
type NewBagClassifier struct {
	base
	textRules []rules.Rule
	picRules  []rules.Rule
}

// NewNewBagClassifier creates the classifier with weights from cfg.
func NewNewBagClassifier(cfg *config.Config) *NewBagClassifier {
	return &NewBagClassifier{
		base: base{label: LabelNewBag},
		textRules: []rules.Rule{
			rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindText},
			rules.TextPatternRule{Options: rules.Options{Req: true}, Pattern: bagNumberPattern},
		},
		picRules: []rules.Rule{
			rules.MaxScoreRule{
				Options: rules.Options{Req: true},
				Rules: []rules.Rule{
					rules.KindRule{Kind: model.BlockKindImage},
					rules.KindRule{Kind: model.BlockKindDrawing},
				},
			},
			rules.AreaRatioRule{Options: rules.Options{Req: true}, Min: 0.01, Max: 0.4},
			rules.ZoneRule{
				Options: rules.Options{W: cfg.Weight(LabelNewBag, "top_zone", 1)},
				Zone:    rules.FracBox{X0: 0, Y0: 0, X1: 1, Y1: 0.5},
			},
		},
	}
}

// Score pairs each qualifying digit text with the picture block that
// contains it. Without a containing picture there is no bag callout.
func (c *NewBagClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var out []*classify.Candidate
	for _, t := range page.TextBlocks() {
		if res.IsConsumed(t.ID()) {
			continue
		}
		if score := rules.EvaluateAll(c.textRules, t, ctx); score.Value() == 0 {
			continue
		}

		for _, b := range page.Blocks {
			if b.Kind() == model.BlockKindText || res.IsConsumed(b.ID()) {
				continue
			}
			if !b.BoundingBox().ContainsBox(t.Box) {
				continue
			}
			score := rules.EvaluateAll(c.picRules, b, ctx)
			if score.Value() == 0 {
				continue
			}
			out = append(out, classify.NewCandidate(LabelNewBag, []model.Block{t, b}, score))
			break
		}
	}
	return out
}

// Build parses the bag number from the digit block.
func (c *NewBagClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	t := cand.Blocks[0].(*model.TextBlock)
	n, ok := rules.ParseNumber(t.Text)
	if !ok {
		return nil, classify.Buildf(LabelNewBag, "unparseable bag number %q", t.Text)
	}
	return &model.NewBag{Box: cand.Box, BagNumber: n}, nil
}
