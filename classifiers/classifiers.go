// Package classifiers provides the concrete per-label classifiers and
// their standard registration order. Each classifier is one application of
// the same pattern: declare the label produced and the labels required,
// score page blocks with a rule set, build elements from winning
// candidates. The scheduler in package classify orders and runs them.
package classifiers

import (
	"github.com/tsawler/brickplan/classify"
	"github.com/tsawler/brickplan/config"
)

// Labels produced by the standard classifiers.
const (
	LabelPageNumber  = "page_number"
	LabelProgressBar = "progress_bar"
	LabelNewBag      = "new_bag"
	LabelStepNumber  = "step_number"
	LabelPartCount   = "part_count"
	LabelPartNumber  = "part_number"
	LabelPart        = "part"
	LabelPartsList   = "parts_list"
	LabelDiagram     = "diagram"
	LabelDivider     = "divider"
	LabelBackground  = "background"
	LabelStep        = "step"
	LabelPage        = "page"
)

// Standard returns the full classifier set in its standard registration
// order. Registration order matters twice: it breaks score ties during
// winner selection, and it sequences classifiers with no dependency
// relationship (background runs late so page content claims its blocks
// first).
func Standard(cfg *config.Config) []classify.Classifier {
	if cfg == nil {
		cfg = config.Default()
	}
	return []classify.Classifier{
		NewPageNumberClassifier(cfg),
		NewProgressBarClassifier(cfg),
		NewNewBagClassifier(cfg),
		NewStepNumberClassifier(cfg),
		NewPartCountClassifier(cfg),
		NewPartNumberClassifier(cfg),
		NewPartClassifier(cfg),
		NewPartsListClassifier(cfg),
		NewDiagramClassifier(cfg),
		NewDividerClassifier(cfg),
		NewBackgroundClassifier(cfg),
		NewStepClassifier(cfg),
		NewPageClassifier(cfg),
	}
}

// base carries the label and requirement declarations shared by all
// classifiers in this package.
type base struct {
	label    string
	requires []string
}

func (b base) Label() string      { return b.label }
func (b base) Requires() []string { return b.requires }
