package classifiers

import (
	"sort"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// PageClassifier is the root assembler: it always emits exactly one
// candidate wrapping the whole page, adopting the winners of its
// requirements. Missing pieces degrade to warnings, never to a failed
// page.
type PageClassifier struct {
	base
}

// NewPageClassifier creates the classifier.
func NewPageClassifier(_ *config.Config) *PageClassifier {
	return &PageClassifier{
		base: base{
			label:    LabelPage,
			requires: []string{LabelPageNumber, LabelProgressBar, LabelStep},
		},
	}
}

// Score synthesizes the single page candidate.
func (c *PageClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	out := &model.Page{Box: page.Bounds, PageNo: page.Number}

	if w := res.Winner(LabelPageNumber); w != nil {
		if n, ok := w.Element().(*model.PageNumber); ok {
			out.Number = n
		}
	} else {
		res.Warnf("page %d: no page number detected", page.Number)
	}

	if w := res.Winner(LabelProgressBar); w != nil {
		if p, ok := w.Element().(*model.ProgressBar); ok {
			out.Progress = p
		}
	}

	steps := elementsOf[*model.Step](res, LabelStep)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Number.Value < steps[j].Number.Value
	})
	for _, s := range steps {
		out.Steps = append(out.Steps, *s)
	}
	if len(out.Steps) == 0 {
		res.Warnf("page %d: no steps detected", page.Number)
	}

	cand := classify.NewCompositeCandidate(LabelPage, page.Bounds)
	return []*classify.Candidate{cand.WithElement(out)}
}

// Build returns the element synthesized during scoring.
func (c *PageClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	if cand.Prebuilt == nil {
		return nil, classify.Buildf(LabelPage, "candidate carries no synthesized element")
	}
	return cand.Prebuilt, nil
}
