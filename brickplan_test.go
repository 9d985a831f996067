package brickplan

import (
	"context"
	"strings"
	"testing"

	"github.com/tsawler/brickplan/classifiers"
	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/model"
)

// stepsPage lays out a typical instruction page: a page number in the
// bottom corner, a large step numeral, a parts-list box holding two count
// tokens with their part pictures, and a separate assembly diagram.
func stepsPage() model.PageData {
	return model.PageData{
		Number: 6,
		Bounds: model.MustBBox(0, 0, 200, 300),
		Blocks: []model.Block{
			&model.TextBlock{BlockID: 1, Box: model.MustBBox(185, 288, 193, 297), Text: "6", FontSize: 7},
			&model.TextBlock{BlockID: 2, Box: model.MustBBox(20, 140, 53, 170), Text: "10", FontSize: 24},
			&model.DrawingBlock{BlockID: 3, Box: model.MustBBox(20, 40, 120, 130)},
			&model.TextBlock{BlockID: 4, Box: model.MustBBox(30, 50, 48, 62), Text: "2x", FontSize: 8},
			&model.TextBlock{BlockID: 5, Box: model.MustBBox(30, 90, 48, 102), Text: "5×", FontSize: 8},
			&model.ImageBlock{BlockID: 6, Box: model.MustBBox(60, 45, 110, 80), ImageRef: "img-1"},
			&model.ImageBlock{BlockID: 7, Box: model.MustBBox(60, 85, 110, 120), ImageRef: "img-2"},
			&model.DrawingBlock{BlockID: 8, Box: model.MustBBox(130, 40, 190, 130)},
		},
	}
}

func TestEngine_ClassifyPage_FullAssembly(t *testing.T) {
	engine := Must(New())
	res := engine.ClassifyPage(stepsPage(), nil)

	if res.Assembled == nil {
		t.Fatal("Expected the page to assemble")
	}
	page := res.Assembled

	if page.Number == nil || page.Number.Value != 6 {
		t.Errorf("Expected page number 6, got %+v", page.Number)
	}
	if len(page.Steps) != 1 {
		t.Fatalf("Expected 1 step, got %d", len(page.Steps))
	}

	step := page.Steps[0]
	if step.Number.Value != 10 {
		t.Errorf("Expected step 10, got %d", step.Number.Value)
	}
	if step.Diagram == nil {
		t.Fatal("Expected the step to carry a diagram")
	}
	if step.Diagram.Box != model.MustBBox(130, 40, 190, 130) {
		t.Errorf("Expected the empty drawing as diagram, got %+v", step.Diagram.Box)
	}
	if step.Parts == nil {
		t.Fatal("Expected the step to carry a parts list")
	}
	if step.Parts.Box != model.MustBBox(20, 40, 120, 130) {
		t.Errorf("Expected the count-holding drawing as parts list, got %+v", step.Parts.Box)
	}

	if len(step.Parts.Parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(step.Parts.Parts))
	}
	counts := map[int]model.Part{}
	for _, p := range step.Parts.Parts {
		counts[p.Count.Count] = p
	}
	if _, ok := counts[2]; !ok {
		t.Error("Expected a part with count 2")
	}
	if _, ok := counts[5]; !ok {
		t.Error("Expected a part with count 5")
	}
	if p := counts[2]; p.ImageBox == nil || *p.ImageBox != model.MustBBox(60, 45, 110, 80) {
		t.Errorf("Expected count 2 paired with the upper picture, got %+v", p.ImageBox)
	}
	if p := counts[5]; p.ImageBox == nil || *p.ImageBox != model.MustBBox(60, 85, 110, 120) {
		t.Errorf("Expected count 5 paired with the lower picture, got %+v", p.ImageBox)
	}
}

func TestEngine_ClassifyPage_EveryBlockAtMostOneWinner(t *testing.T) {
	engine := Must(New())
	res := engine.ClassifyPage(stepsPage(), nil)

	claimed := map[int]string{}
	for label, cands := range res.Candidates {
		for _, c := range cands {
			if !c.Won() {
				continue
			}
			for _, b := range c.Blocks {
				if prev, ok := claimed[b.ID()]; ok {
					t.Errorf("Block %d claimed by both %q and %q", b.ID(), prev, label)
				}
				claimed[b.ID()] = label
			}
		}
	}
}

func TestEngine_ClassifyPage_NearDuplicateSuppressed(t *testing.T) {
	// The parts-list drawing is doubled with a one-unit offset, a common
	// artifact of outline plus fill emission. Only one may win.
	page := stepsPage()
	page.Blocks = append(page.Blocks,
		&model.DrawingBlock{BlockID: 9, Box: model.MustBBox(21, 41, 121, 131)})

	engine := Must(New())
	res := engine.ClassifyPage(page, nil)

	winners := res.Winners("parts_list")
	if len(winners) != 1 {
		t.Fatalf("Expected one parts list winner, got %d", len(winners))
	}
	if winners[0].Blocks[0].ID() != 3 {
		t.Errorf("Expected the first drawing to win, got block %d", winners[0].Blocks[0].ID())
	}
	entry, ok := res.ConsumptionOf(9)
	if !ok || entry.Reason != classify.ConsumedNearDuplicate {
		t.Errorf("Expected the double consumed as near-duplicate, got %+v (ok=%v)", entry, ok)
	}
	if res.Assembled == nil || len(res.Assembled.Steps) != 1 {
		t.Fatal("Expected the page still assembles with one step")
	}
}

func TestEngine_ClassifyManual(t *testing.T) {
	p6 := stepsPage()
	p7 := stepsPage()
	p7.Number = 7
	for _, b := range p7.Blocks {
		if tb, ok := b.(*model.TextBlock); ok && tb.Text == "6" {
			tb.Text = "7"
		}
	}

	engine := Must(New(WithWorkers(2)))
	// Feed out of order; the manual sorts by page number.
	manual, err := engine.ClassifyManual(context.Background(), []model.PageData{p7, p6})
	if err != nil {
		t.Fatalf("Expected classification to succeed, got %v", err)
	}

	if len(manual.Pages) != 2 {
		t.Fatalf("Expected 2 assembled pages, got %d", len(manual.Pages))
	}
	if manual.Pages[0].PageNo != 6 || manual.Pages[1].PageNo != 7 {
		t.Errorf("Expected pages sorted by number, got %d then %d",
			manual.Pages[0].PageNo, manual.Pages[1].PageNo)
	}
	if manual.Pages[1].Number == nil || manual.Pages[1].Number.Value != 7 {
		t.Errorf("Expected page 7's printed number, got %+v", manual.Pages[1].Number)
	}

	out, err := manual.RenderJSON()
	if err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}
	if len(out) == 0 {
		t.Error("Expected rendered output")
	}
}

func TestEngine_ClassifyManual_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := Must(New())
	pages := make([]model.PageData, 64)
	for i := range pages {
		pages[i] = stepsPage()
		pages[i].Number = i + 1
	}
	if _, err := engine.ClassifyManual(ctx, pages); err == nil {
		t.Error("Expected a cancelled context to surface an error")
	}
}

func TestEngine_WarnsWithoutPageNumber(t *testing.T) {
	page := stepsPage()
	page.Blocks = page.Blocks[1:] // drop the printed page number

	engine := Must(New())
	res := engine.ClassifyPage(page, nil)

	if res.Assembled == nil {
		t.Fatal("Expected the page to assemble without a printed number")
	}
	if res.Assembled.Number != nil {
		t.Error("Expected no page number element")
	}
	if len(res.Warnings) == 0 {
		t.Error("Expected a warning about the missing page number")
	}
}

func TestNew_RejectsBadWiring(t *testing.T) {
	_, err := New(WithClassifiers(
		classifiers.NewPartClassifier(nil), // requires labels nobody produces
	))
	if err == nil {
		t.Error("Expected unknown requirements to fail construction")
	}
}

func TestEngine_ClassifyManual_PageSubset(t *testing.T) {
	p6 := stepsPage()
	p7 := stepsPage()
	p7.Number = 7

	engine := Must(New(WithPages(7)))
	manual, err := engine.ClassifyManual(context.Background(), []model.PageData{p6, p7})
	if err != nil {
		t.Fatalf("Expected classification to succeed, got %v", err)
	}
	if len(manual.Results) != 1 || manual.Results[0].Page.Number != 7 {
		t.Fatalf("Expected only page 7 classified, got %d results", len(manual.Results))
	}
}

func TestEngine_DumpHierarchy(t *testing.T) {
	engine := Must(New())
	out := engine.DumpHierarchy(stepsPage())
	if out == "" {
		t.Fatal("Expected a non-empty dump")
	}
	// The count tokens nest under the parts-list drawing.
	if !strings.Contains(out, "drawing#3") || !strings.Contains(out, "  text#4") {
		t.Errorf("Expected count token indented under its drawing, got:\n%s", out)
	}
}

func TestEngine_Order(t *testing.T) {
	engine := Must(New())
	order := engine.Order()
	if len(order) == 0 || order[len(order)-1] != "page" {
		t.Errorf("Expected page last in execution order, got %v", order)
	}
}
