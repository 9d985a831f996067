package classifiers

import (
	"math"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
	"github.com/tsawler/brickplan/rules"
)

// pairDistanceFrac caps how far (as a fraction of the page diagonal) a
// part picture or catalog number may sit from its count token.
const pairDistanceFrac = 0.2

// PartClassifier pairs each won part count with the nearest unconsumed
// part picture and, when one sits close enough, a won catalog number. A
// part with no picture is still a part: some manuals print bare counts,
// so the candidate is then synthesized from the count element alone.
type PartClassifier struct {
	base
}

// NewPartClassifier creates the classifier.
func NewPartClassifier(_ *config.Config) *PartClassifier {
	return &PartClassifier{
		base: base{
			label:    LabelPart,
			requires: []string{LabelPartCount, LabelPartNumber},
		},
	}
}

// MultiWinner: one winner per part count.
func (c *PartClassifier) MultiWinner() bool { return true }

// Score synthesizes one candidate per won part count, claiming the
// nearest unconsumed picture block. Pictures are claimed at most once;
// counts are matched in creation order, nearest picture first.
func (c *PartClassifier) Score(page *model.PageData, res *classify.Result, ctx *rules.Context) []*classify.Candidate {
	maxDist := pageDiagonal(ctx.Page) * pairDistanceFrac
	numbers := res.WinnerElements(LabelPartNumber)

	usedImages := make(map[int]bool)
	usedNumbers := make(map[int]bool)

	var out []*classify.Candidate
	for _, w := range res.Winners(LabelPartCount) {
		count, ok := w.Element().(*model.PartCount)
		if !ok {
			continue
		}

		img := nearestPicture(page, res, usedImages, count.Box, maxDist)

		part := &model.Part{Box: count.Box, Count: *count}
		var blocks []model.Block
		if img != nil {
			usedImages[img.ID()] = true
			box := img.BoundingBox()
			part.ImageBox = &box
			part.Box = part.Box.Union(box)
			blocks = append(blocks, img)
		}
		if num := nearestNumber(numbers, usedNumbers, part.Box, maxDist); num != nil {
			part.Number = num
			part.Box = part.Box.Union(num.Box)
		}

		var cand *classify.Candidate
		if len(blocks) > 0 {
			cand = classify.NewCandidate(LabelPart, blocks, rules.FixedScore(1))
			cand.Box = part.Box
		} else {
			cand = classify.NewCompositeCandidate(LabelPart, part.Box)
			cand.Score = rules.FixedScore(0.75)
		}
		out = append(out, cand.WithElement(part))
	}
	return out
}

// Build returns the element synthesized during scoring.
func (c *PartClassifier) Build(cand *classify.Candidate) (model.Element, error) {
	if cand.Prebuilt == nil {
		return nil, classify.Buildf(LabelPart, "candidate carries no synthesized element")
	}
	return cand.Prebuilt, nil
}

// nearestPicture returns the closest unconsumed, unclaimed image or
// drawing block within maxDist of the count box, or nil. Blocks whose box
// encloses the count are containers (the parts list frame), not pictures,
// and are skipped.
func nearestPicture(page *model.PageData, res *classify.Result, used map[int]bool, from model.BBox, maxDist float64) model.Block {
	var best model.Block
	bestDist := maxDist
	for _, b := range page.Blocks {
		if b.Kind() == model.BlockKindText {
			continue
		}
		if used[b.ID()] || res.IsConsumed(b.ID()) {
			continue
		}
		if b.BoundingBox().ContainsBox(from) {
			continue
		}
		d := from.Center().Distance(b.BoundingBox().Center())
		if d <= bestDist {
			best = b
			bestDist = d
		}
	}
	return best
}

// nearestNumber returns the closest unclaimed catalog number element
// within maxDist of the part box, or nil.
func nearestNumber(numbers []model.Element, used map[int]bool, from model.BBox, maxDist float64) *model.PartNumber {
	var best *model.PartNumber
	bestIdx := -1
	bestDist := maxDist
	for i, el := range numbers {
		num, ok := el.(*model.PartNumber)
		if !ok || used[i] {
			continue
		}
		d := from.Center().Distance(num.Box.Center())
		if d <= bestDist {
			best = num
			bestIdx = i
			bestDist = d
		}
	}
	if bestIdx >= 0 {
		used[bestIdx] = true
	}
	return best
}

func pageDiagonal(page model.BBox) float64 {
	return math.Sqrt(page.Width()*page.Width() + page.Height()*page.Height())
}
