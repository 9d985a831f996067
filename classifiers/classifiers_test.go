package classifiers

import (
	"testing"

	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
	"github.com/tsawler/brickplan/model"
)

func runPage(t *testing.T, page model.PageData, cs ...classify.Classifier) *classify.Result {
	t.Helper()
	s, err := classify.NewScheduler(config.Default(), nil, cs...)
	if err != nil {
		t.Fatalf("Failed to build scheduler: %v", err)
	}
	return s.ClassifyPage(page, nil)
}

func pageWith(blocks ...model.Block) model.PageData {
	return model.PageData{
		Number: 6,
		Bounds: model.MustBBox(0, 0, 200, 300),
		Blocks: blocks,
	}
}

func TestPageNumberClassifier(t *testing.T) {
	bottom := &model.TextBlock{BlockID: 1, Box: model.MustBBox(185, 288, 193, 297), Text: "6", FontSize: 7}
	middle := &model.TextBlock{BlockID: 2, Box: model.MustBBox(20, 140, 53, 170), Text: "10", FontSize: 24}
	res := runPage(t, pageWith(bottom, middle), NewPageNumberClassifier(config.Default()))

	w := res.Winner(LabelPageNumber)
	if w == nil {
		t.Fatal("Expected a page number winner")
	}
	num, ok := w.Element().(*model.PageNumber)
	if !ok || num.Value != 6 {
		t.Errorf("Expected page number 6, got %v", w.Element())
	}
	if len(res.CandidatesFor(LabelPageNumber)) != 1 {
		t.Error("Expected the mid-page numeral to be gated out of the band")
	}
}

func TestStepNumberClassifier(t *testing.T) {
	big := &model.TextBlock{BlockID: 1, Box: model.MustBBox(20, 140, 53, 170), Text: "10", FontSize: 24}
	pageNum := &model.TextBlock{BlockID: 2, Box: model.MustBBox(185, 288, 193, 297), Text: "6", FontSize: 7}
	small := &model.TextBlock{BlockID: 3, Box: model.MustBBox(100, 100, 108, 109), Text: "3", FontSize: 8}
	res := runPage(t, pageWith(big, pageNum, small), NewStepNumberClassifier(config.Default()))

	winners := res.Winners(LabelStepNumber)
	if len(winners) != 1 {
		t.Fatalf("Expected one step number winner, got %d", len(winners))
	}
	num := winners[0].Element().(*model.StepNumber)
	if num.Value != 10 || num.FontSize != 24 {
		t.Errorf("Expected step 10 at size 24, got %+v", num)
	}
}

func TestStepNumberClassifier_DuplicateValueSingleWinner(t *testing.T) {
	a := &model.TextBlock{BlockID: 1, Box: model.MustBBox(20, 40, 50, 68), Text: "10", FontSize: 24}
	b := &model.TextBlock{BlockID: 2, Box: model.MustBBox(20, 140, 50, 168), Text: "10", FontSize: 24}
	res := runPage(t, pageWith(a, b), NewStepNumberClassifier(config.Default()))

	if got := len(res.Winners(LabelStepNumber)); got != 1 {
		t.Errorf("Expected at most one winner for the duplicated value, got %d", got)
	}
}

func TestPartCountClassifier(t *testing.T) {
	c1 := &model.TextBlock{BlockID: 1, Box: model.MustBBox(30, 50, 48, 62), Text: "2x", FontSize: 8}
	c2 := &model.TextBlock{BlockID: 2, Box: model.MustBBox(30, 90, 48, 102), Text: "5×", FontSize: 8}
	junk := &model.TextBlock{BlockID: 3, Box: model.MustBBox(30, 120, 48, 132), Text: "abc", FontSize: 8}
	res := runPage(t, pageWith(c1, c2, junk), NewPartCountClassifier(config.Default()))

	winners := res.Winners(LabelPartCount)
	if len(winners) != 2 {
		t.Fatalf("Expected both count tokens to win, got %d", len(winners))
	}
	counts := map[int]bool{}
	for _, w := range winners {
		counts[w.Element().(*model.PartCount).Count] = true
	}
	if !counts[2] || !counts[5] {
		t.Errorf("Expected counts 2 and 5, got %v", counts)
	}
}

func TestProgressBarClassifier_PairsTrackAndFill(t *testing.T) {
	track := &model.DrawingBlock{BlockID: 1, Box: model.MustBBox(10, 280, 190, 288)}
	fill := &model.DrawingBlock{BlockID: 2, Box: model.MustBBox(10, 280, 100, 288)}
	res := runPage(t, pageWith(track, fill), NewProgressBarClassifier(config.Default()))

	w := res.Winner(LabelProgressBar)
	if w == nil {
		t.Fatal("Expected a progress bar winner")
	}
	bar := w.Element().(*model.ProgressBar)
	if bar.Fraction != 0.5 {
		t.Errorf("Expected fraction 0.5, got %g", bar.Fraction)
	}
	if bar.Box != track.Box {
		t.Errorf("Expected the bar box to be the track, got %+v", bar.Box)
	}
}

func TestProgressBarClassifier_BareTrack(t *testing.T) {
	track := &model.DrawingBlock{BlockID: 1, Box: model.MustBBox(10, 280, 190, 288)}
	res := runPage(t, pageWith(track), NewProgressBarClassifier(config.Default()))

	w := res.Winner(LabelProgressBar)
	if w == nil {
		t.Fatal("Expected a progress bar winner")
	}
	if got := w.Element().(*model.ProgressBar).Fraction; got != 0 {
		t.Errorf("Expected unknown fraction 0, got %g", got)
	}
}

func TestDividerClassifier_Orientation(t *testing.T) {
	wide := &model.DrawingBlock{BlockID: 1, Box: model.MustBBox(10, 100, 190, 102)}
	tall := &model.DrawingBlock{BlockID: 2, Box: model.MustBBox(100, 20, 102, 200)}
	square := &model.DrawingBlock{BlockID: 3, Box: model.MustBBox(20, 20, 80, 80)}
	res := runPage(t, pageWith(wide, tall, square), NewDividerClassifier(config.Default()))

	winners := res.Winners(LabelDivider)
	if len(winners) != 2 {
		t.Fatalf("Expected 2 dividers, got %d", len(winners))
	}
	horizontals := map[bool]int{}
	for _, w := range winners {
		horizontals[w.Element().(*model.Divider).Horizontal]++
	}
	if horizontals[true] != 1 || horizontals[false] != 1 {
		t.Errorf("Expected one horizontal and one vertical divider, got %v", horizontals)
	}
}

func TestNewBagClassifier(t *testing.T) {
	digit := &model.TextBlock{BlockID: 1, Box: model.MustBBox(40, 40, 50, 55), Text: "3", FontSize: 12}
	bag := &model.ImageBlock{BlockID: 2, Box: model.MustBBox(20, 20, 80, 90)}
	loose := &model.TextBlock{BlockID: 3, Box: model.MustBBox(120, 40, 130, 55), Text: "4", FontSize: 12}
	res := runPage(t, pageWith(digit, bag, loose), NewNewBagClassifier(config.Default()))

	winners := res.Winners(LabelNewBag)
	if len(winners) != 1 {
		t.Fatalf("Expected one new-bag winner, got %d", len(winners))
	}
	el := winners[0].Element().(*model.NewBag)
	if el.BagNumber != 3 {
		t.Errorf("Expected bag 3, got %d", el.BagNumber)
	}
	if label, ok := res.WonBy(2); !ok || label != LabelNewBag {
		t.Error("Expected the bag picture claimed by the winner")
	}
}

func TestBackgroundClassifier(t *testing.T) {
	backdrop := &model.DrawingBlock{BlockID: 1, Box: model.MustBBox(0, 0, 200, 300)}
	panel := &model.DrawingBlock{BlockID: 2, Box: model.MustBBox(20, 40, 120, 130)}
	res := runPage(t, pageWith(backdrop, panel), NewBackgroundClassifier(config.Default()))

	w := res.Winner(LabelBackground)
	if w == nil {
		t.Fatal("Expected a background winner")
	}
	if w.Blocks[0].ID() != 1 {
		t.Errorf("Expected the page-covering drawing to win, got block %d", w.Blocks[0].ID())
	}
}

func TestStandard_SchedulesCleanly(t *testing.T) {
	s, err := classify.NewScheduler(config.Default(), nil, Standard(nil)...)
	if err != nil {
		t.Fatalf("Expected the standard set to schedule, got %v", err)
	}
	order := s.Order()
	if len(order) != 13 {
		t.Errorf("Expected 13 classifiers, got %d", len(order))
	}
	pos := map[string]int{}
	for i, label := range order {
		pos[label] = i
	}
	if !(pos[LabelPartCount] < pos[LabelPart] && pos[LabelPart] < pos[LabelPartsList]) {
		t.Errorf("Expected count before part before parts list, got %v", order)
	}
	if pos[LabelPage] != len(order)-1 {
		t.Errorf("Expected page assembled last, got %v", order)
	}
}
