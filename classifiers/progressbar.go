package classifiers

import (
	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// ProgressBarClassifier finds the build-progress bar: a wide, thin
// drawing along the bottom of the page. When a second drawing nests
// inside the track, the pair forms one candidate and the filled fraction
// is derived from the inner drawing's width.
type ProgressBarClassifier struct {
	base
	rules []rules.Rule
}

// NewProgressBarClassifier creates the classifier with weights from cfg.
func NewProgressBarClassifier(cfg *config.Config) *ProgressBarClassifier {
	return &ProgressBarClassifier{
		base: base{label: LabelProgressBar},
		rules: []rules.Rule{
			rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindDrawing},
			rules.ZoneRule{Options: rules.Options{Req: true}, Zone: rules.FracBox{X0: 0, Y0: 0.86, X1: 1, Y1: 1}},
			rules.AspectRatioRule{Options: rules.Options{Req: true}, Min: 6},
			rules.AreaRatioRule{
				Options: rules.Options{W: cfg.Weight(LabelProgressBar, "area", 1)},
				Min:     0.0005,
				Max:     0.05,
			},
		},
	}
}

// Score emits one candidate per qualifying track drawing, folding a
// nested fill drawing into the candidate when present.
func (c *ProgressBarClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var tracks []*model.DrawingBlock
	for _, d := range page.DrawingBlocks() {
		if res.IsConsumed(d.ID()) {
			continue
		}
		if score := rules.EvaluateAll(c.rules, d, ctx); score.Value() > 0 {
			tracks = append(tracks, d)
		}
	}

	var out []*classify.Candidate
	claimed := make(map[int]bool)
	for _, track := range tracks {
		if claimed[track.ID()] {
			continue
		}
		blocks := []model.Block{track}
		for _, other := range tracks {
			if other.ID() == track.ID() || claimed[other.ID()] {
				continue
			}
			if track.Box.ContainsBox(other.Box) {
				blocks = append(blocks, other)
				claimed[other.ID()] = true
				break
			}
		}
		claimed[track.ID()] = true
		score := rules.EvaluateAll(c.rules, track, ctx)
		out = append(out, classify.NewCandidate(LabelProgressBar, blocks, score))
	}
	return out
}

// Build derives the filled fraction from the paired fill drawing when one
// was claimed.
func (c *ProgressBarClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	track := cand.Blocks[0].BoundingBox()
	bar := &model.ProgressBar{Box: track}
	if len(cand.Blocks) > 1 && track.Width() > 0 {
		bar.Fraction = cand.Blocks[1].BoundingBox().Width() / track.Width()
		if bar.Fraction > 1 {
			bar.Fraction = 1
		}
	}
	return bar, nil
}
