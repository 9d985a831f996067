package classifiers

import (
	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// BackgroundClassifier finds the page-covering backdrop drawing. It runs
// near the end of the standard order: by then every content element has
// claimed its blocks, so accepting the backdrop cannot sweep live content
// away as children.
type BackgroundClassifier struct {
	base
	rules []rules.Rule
}

// NewBackgroundClassifier creates the classifier with weights from cfg.
func NewBackgroundClassifier(cfg *config.Config) *BackgroundClassifier {
	return &BackgroundClassifier{
		base: base{label: LabelBackground},
		rules: []rules.Rule{
			rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindDrawing},
			rules.AreaRatioRule{Options: rules.Options{Req: true}, Min: 0.85},
			rules.AreaRatioRule{
				Options: rules.Options{W: cfg.Weight(LabelBackground, "coverage", 1)},
				Min:     0.95,
			},
		},
	}
}

// Score emits one candidate per qualifying unconsumed drawing.
func (c *BackgroundClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var out []*classify.Candidate
	for _, d := range page.DrawingBlocks() {
		if res.IsConsumed(d.ID()) {
			continue
		}
		score := rules.EvaluateAll(c.rules, d, ctx)
		if score.Value() == 0 {
			continue
		}
		out = append(out, classify.NewCandidate(LabelBackground, []model.Block{d}, score))
	}
	return out
}

// Build wraps the backdrop's box.
func (c *BackgroundClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	return &model.Background{Box: cand.Box}, nil
}
