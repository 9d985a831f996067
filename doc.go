// Package brickplan turns the flat geometric primitives extracted from a
// building-instruction manual (text, drawing, and image blocks with
// bounding boxes) into a typed document model: pages containing numbered
// assembly steps, each with its parts list, part counts, and diagram.
//
// Classification is deterministic. A fixed set of per-label classifiers
// runs in dependency order over each page; every classifier scores
// candidate block sets with weighted rules, builds elements from the
// survivors, and winners claim their blocks so later classifiers never
// see them again. Page-independent work is parallelized across pages,
// never within one.
//
// Basic use:
//
//	engine := brickplan.Must(brickplan.New())
//	manual, err := engine.ClassifyManual(ctx, pages)
//	if err != nil {
//		return err
//	}
//	out, err := manual.RenderJSON()
//
// Coordinates follow the extraction convention: origin at the top-left
// of the page with Y increasing downward.
package brickplan
