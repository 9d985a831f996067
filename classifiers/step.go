package classifiers

import (
	"sort"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// StepClassifier assembles step regions from the winners below it: each
// won step number anchors one step, which then adopts the nearest
// unassigned parts list and diagram. Steps are synthesized composites,
// they claim no blocks of their own.
type StepClassifier struct {
	base
}

// NewStepClassifier creates the classifier.
func NewStepClassifier(_ *config.Config) *StepClassifier {
	return &StepClassifier{
		base: base{
			label:    LabelStep,
			requires: []string{LabelStepNumber, LabelPartsList, LabelDiagram},
		},
	}
}

// MultiWinner: one step per step number.
func (c *StepClassifier) MultiWinner() bool { return true }

// Score synthesizes one candidate per won step number, in ascending
// number order so that lower-numbered steps pick their companions first.
func (c *StepClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	var numbers []*model.StepNumber
	for _, el := range res.WinnerElements(LabelStepNumber) {
		if n, ok := el.(*model.StepNumber); ok {
			numbers = append(numbers, n)
		}
	}
	sort.SliceStable(numbers, func(i, j int) bool {
		return numbers[i].Value < numbers[j].Value
	})

	lists := elementsOf[*model.PartsList](res, LabelPartsList)
	diagrams := elementsOf[*model.Diagram](res, LabelDiagram)
	usedLists := make(map[int]bool)
	usedDiagrams := make(map[int]bool)

	var out []*classify.Candidate
	for _, n := range numbers {
		step := &model.Step{Box: n.Box, Number: *n}
		if i := nearestUnused(lists, usedLists, n.Box); i >= 0 {
			usedLists[i] = true
			step.Parts = lists[i]
			step.Box = step.Box.Union(lists[i].Box)
		}
		if i := nearestUnused(diagrams, usedDiagrams, n.Box); i >= 0 {
			usedDiagrams[i] = true
			step.Diagram = diagrams[i]
			step.Box = step.Box.Union(diagrams[i].Box)
		}
		cand := classify.NewCompositeCandidate(LabelStep, step.Box)
		out = append(out, cand.WithElement(step))
	}
	return out
}

// Build returns the element synthesized during scoring.
func (c *StepClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	if cand.Prebuilt == nil {
		return nil, classify.Buildf(LabelStep, "candidate carries no synthesized element")
	}
	return cand.Prebuilt, nil
}

// elementsOf collects the winners of a label as their concrete type.
func elementsOf[T model.Element](res *classify.Result, label string) []T {
	var out []T
	for _, el := range res.WinnerElements(label) {
		if v, ok := el.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// nearestUnused returns the index of the closest unclaimed element to the
// anchor box, or -1 when all are claimed.
func nearestUnused[T model.Element](items []T, used map[int]bool, from model.BBox) int {
	best := -1
	bestDist := 0.0
	for i, it := range items {
		if used[i] {
			continue
		}
		d := from.Center().Distance(it.BoundingBox().Center())
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
