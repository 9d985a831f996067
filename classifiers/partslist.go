package classifiers

import (
	"sort"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/hierarchy"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// PartsListClassifier finds the boxed lists of parts needed for a step:
// drawings whose box contains at least one won part. Containment is
// resolved through the hierarchy builder so that nested callout drawings
// attribute each part to its innermost container.
type PartsListClassifier struct {
	base
	cfg *config.Config
}

// NewPartsListClassifier creates the classifier.
func NewPartsListClassifier(cfg *config.Config) *PartsListClassifier {
	return &PartsListClassifier{
		base: base{
			label:    LabelPartsList,
			requires: []string{LabelPart},
		},
		cfg: cfg,
	}
}

// MultiWinner: a page can carry one parts list per step.
func (c *PartsListClassifier) MultiWinner() bool { return true }

// containsPartsRule scores a drawing by how many won parts its box
// contains, saturating at three. Required: a drawing with no qualifying
// parts is not a parts list.
type containsPartsRule struct {
	rules.Options
	counts map[int]int
}

func (r containsPartsRule) Name() string { return "contains-parts" }

func (r containsPartsRule) Evaluate(b model.Block, _ *rules.Context) (float64, bool) {
	n := r.counts[b.ID()]
	if n >= 3 {
		return 1, true
	}
	return float64(n) / 3, true
}

// Score emits one candidate per unconsumed drawing containing won parts.
func (c *PartsListClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var drawings []model.Block
	for _, b := range page.Blocks {
		if b.Kind() == model.BlockKindDrawing && !res.IsConsumed(b.ID()) {
			drawings = append(drawings, b)
		}
	}
	parts := res.WinnerElements(LabelPart)
	if len(drawings) == 0 {
		return nil
	}

	// Containment tree over drawings and part elements together: each
	// part's parent chain names the drawings that contain it, innermost
	// first.
	items := make([]hierarchy.Boxed, 0, len(drawings)+len(parts))
	for _, d := range drawings {
		items = append(items, d)
	}
	for _, p := range parts {
		items = append(items, p)
	}
	tree := hierarchy.Build(items)

	counts := make(map[int]int)
	contained := make(map[int][]*model.Part)
	for i, d := range drawings {
		for _, desc := range tree.Node(i).Descendants() {
			if part, ok := desc.Item.(*model.Part); ok {
				counts[d.ID()]++
				contained[d.ID()] = append(contained[d.ID()], part)
			}
		}
	}

	ruleSet := []rules.Rule{
		rules.KindRule{Options: rules.Options{Req: true}, Kind: model.BlockKindDrawing},
		rules.AreaRatioRule{Options: rules.Options{Req: true}, Min: 0.005, Max: 0.5},
		containsPartsRule{
			Options: rules.Options{W: c.cfg.Weight(LabelPartsList, "contains_parts", 2), Req: true},
			counts:  counts,
		},
	}

	var out []*classify.Candidate
	for _, d := range drawings {
		if counts[d.ID()] == 0 {
			continue
		}
		score := rules.EvaluateAll(ruleSet, d, ctx)
		if score.Value() == 0 {
			continue
		}

		list := &model.PartsList{Box: d.BoundingBox()}
		members := append([]*model.Part(nil), contained[d.ID()]...)
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Box.Y0 != members[j].Box.Y0 {
				return members[i].Box.Y0 < members[j].Box.Y0
			}
			return members[i].Box.X0 < members[j].Box.X0
		})
		for _, p := range members {
			list.Parts = append(list.Parts, *p)
		}

		cand := classify.NewCandidate(LabelPartsList, []model.Block{d}, score)
		out = append(out, cand.WithElement(list))
	}
	return out
}

// Build returns the element synthesized during scoring.
func (c *PartsListClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	if cand.Prebuilt == nil {
		return nil, classify.Buildf(LabelPartsList, "candidate carries no synthesized element")
	}
	return cand.Prebuilt, nil
}
