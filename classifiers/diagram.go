package classifiers

import (
	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// DiagramClassifier finds assembly illustrations: the large drawings and
// images left over once step numbers and parts lists have claimed their
// blocks.
type DiagramClassifier struct {
	base
	rules []rules.Rule
}

// NewDiagramClassifier creates the classifier with weights from cfg.
func NewDiagramClassifier(cfg *config.Config) *DiagramClassifier {
	return &DiagramClassifier{
		base: base{
			label:    LabelDiagram,
			requires: []string{LabelStepNumber, LabelPartsList},
		},
		rules: []rules.Rule{
			rules.MaxScoreRule{
				Options: rules.Options{Req: true},
				Rules: []rules.Rule{
					rules.KindRule{Kind: model.BlockKindDrawing},
					rules.KindRule{Kind: model.BlockKindImage},
				},
			},
			rules.AreaRatioRule{Options: rules.Options{Req: true}, Min: 0.02, Max: 0.85},
			rules.NotZoneRule{Options: rules.Options{Req: true}, Zone: rules.FracBox{X0: 0, Y0: 0.92, X1: 1, Y1: 1}},
			rules.AreaRatioRule{
				Options: rules.Options{W: cfg.Weight(LabelDiagram, "area", 1)},
				Min:     0.08,
			},
		},
	}
}

// MultiWinner: one diagram per step region.
func (c *DiagramClassifier) MultiWinner() bool { return true }

// Score emits one candidate per qualifying unconsumed block.
func (c *DiagramClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var out []*classify.Candidate
	for _, b := range page.Blocks {
		if res.IsConsumed(b.ID()) {
			continue
		}
		score := rules.EvaluateAll(c.rules, b, ctx)
		if score.Value() == 0 {
			continue
		}
		out = append(out, classify.NewCandidate(LabelDiagram, []model.Block{b}, score))
	}
	return out
}

// Build wraps the block's box.
func (c *DiagramClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	return &model.Diagram{Box: cand.Box}, nil
}
