package classifiers

import (
	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// DividerClassifier finds the thin rule lines that separate step regions:
// drawings elongated far beyond any content block, in either orientation.
// Progress bars are claimed earlier in the pipeline, so a surviving
// elongated drawing here is a separator.
type DividerClassifier struct {
	base
	rules []rules.Rule
}

// NewDividerClassifier creates the classifier with weights from cfg.
func NewDividerClassifier(cfg *config.Config) *DividerClassifier {
	return &DividerClassifier{
		base: base{label: LabelDivider},
		rules: []rules.Rule{
			rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindDrawing},
			rules.MaxScoreRule{
				Options: rules.Options{Req: true},
				Rules: []rules.Rule{
					rules.AspectRatioRule{Min: 15},
					rules.AspectRatioRule{Max: 1.0 / 15},
				},
			},
			rules.RelativeHeightRule{
				Options: rules.Options{W: cfg.Weight(LabelDivider, "extent", 1)},
				Min:     0,
				Max:     0.02,
			},
		},
	}
}

// MultiWinner: a page can carry several separators.
func (c *DividerClassifier) MultiWinner() bool { return true }

// Score emits one candidate per qualifying unconsumed drawing.
func (c *DividerClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var out []*classify.Candidate
	for _, d := range page.DrawingBlocks() {
		if res.IsConsumed(d.ID()) {
			continue
		}
		score := rules.EvaluateAll(c.rules, d, ctx)
		if score.Value() == 0 {
			continue
		}
		out = append(out, classify.NewCandidate(LabelDivider, []model.Block{d}, score))
	}
	return out
}

// Build records the separator's orientation from its longer axis.
func (c *DividerClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	return &model.Divider{
		Box:        cand.Box,
		Horizontal: cand.Box.Width() >= cand.Box.Height(),
	}, nil
}
