package model

// ElementType represents the type of structured element. Its string form
// doubles as the classifier label for that element kind.
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypePageNumber
	ElementTypeStepNumber
	ElementTypePartCount
	ElementTypePartNumber
	ElementTypePart
	ElementTypePartsList
	ElementTypeDiagram
	ElementTypeProgressBar
	ElementTypeBackground
	ElementTypeDivider
	ElementTypeNewBag
	ElementTypeStep
	ElementTypePage
)

func (et ElementType) String() string {
	switch et {
	case ElementTypePageNumber:
		return "page_number"
	case ElementTypeStepNumber:
		return "step_number"
	case ElementTypePartCount:
		return "part_count"
	case ElementTypePartNumber:
		return "part_number"
	case ElementTypePart:
		return "part"
	case ElementTypePartsList:
		return "parts_list"
	case ElementTypeDiagram:
		return "diagram"
	case ElementTypeProgressBar:
		return "progress_bar"
	case ElementTypeBackground:
		return "background"
	case ElementTypeDivider:
		return "divider"
	case ElementTypeNewBag:
		return "new_bag"
	case ElementTypeStep:
		return "step"
	case ElementTypePage:
		return "page"
	default:
		return "unknown"
	}
}

// Element is the interface for all structured elements. Each element owns
// exactly one bounding box; composite elements own their children by value.
type Element interface {
	Type() ElementType
	BoundingBox() BBox
}

// PageNumber is the printed page number of a page.
type PageNumber struct {
	Box   BBox
	Value int
}

func (e *PageNumber) Type() ElementType { return ElementTypePageNumber }
func (e *PageNumber) BoundingBox() BBox { return e.Box }

// StepNumber is the large numeral that opens an assembly step.
type StepNumber struct {
	Box      BBox
	Value    int
	FontSize float64
}

func (e *StepNumber) Type() ElementType { return ElementTypeStepNumber }
func (e *StepNumber) BoundingBox() BBox { return e.Box }

// PartCount is a count token ("2x") inside a parts list.
type PartCount struct {
	Box   BBox
	Count int

	// Raw is the original token text before normalization.
	Raw string
}

func (e *PartCount) Type() ElementType { return ElementTypePartCount }
func (e *PartCount) BoundingBox() BBox { return e.Box }

// PartNumber is a printed catalog number identifying a part.
type PartNumber struct {
	Box   BBox
	Value string
}

func (e *PartNumber) Type() ElementType { return ElementTypePartNumber }
func (e *PartNumber) BoundingBox() BBox { return e.Box }

// Part pairs a count with the depicted part, and optionally its catalog
// number.
type Part struct {
	Box    BBox
	Count  PartCount
	Number *PartNumber

	// ImageBox is the bounding box of the part's picture, when one was
	// paired with the count.
	ImageBox *BBox
}

func (e *Part) Type() ElementType { return ElementTypePart }
func (e *Part) BoundingBox() BBox { return e.Box }

// PartsList is the boxed list of parts needed for one step.
type PartsList struct {
	Box   BBox
	Parts []Part
}

func (e *PartsList) Type() ElementType { return ElementTypePartsList }
func (e *PartsList) BoundingBox() BBox { return e.Box }

// Diagram is the assembly illustration of a step.
type Diagram struct {
	Box BBox
}

func (e *Diagram) Type() ElementType { return ElementTypeDiagram }
func (e *Diagram) BoundingBox() BBox { return e.Box }

// ProgressBar is the page-bottom bar indicating build progress.
type ProgressBar struct {
	Box BBox

	// Fraction is the filled portion of the bar in [0,1], 0 when unknown.
	Fraction float64
}

func (e *ProgressBar) Type() ElementType { return ElementTypeProgressBar }
func (e *ProgressBar) BoundingBox() BBox { return e.Box }

// Background is a page-covering decorative drawing.
type Background struct {
	Box BBox
}

func (e *Background) Type() ElementType { return ElementTypeBackground }
func (e *Background) BoundingBox() BBox { return e.Box }

// Divider is a thin rule separating regions of a page.
type Divider struct {
	Box BBox

	// Horizontal reports the divider's orientation.
	Horizontal bool
}

func (e *Divider) Type() ElementType { return ElementTypeDivider }
func (e *Divider) BoundingBox() BBox { return e.Box }

// NewBag marks the point where a new bag of parts is opened.
type NewBag struct {
	Box       BBox
	BagNumber int
}

func (e *NewBag) Type() ElementType { return ElementTypeNewBag }
func (e *NewBag) BoundingBox() BBox { return e.Box }

// Step is one assembly step: its number plus the optional parts list and
// diagram that belong to it.
type Step struct {
	Box     BBox
	Number  StepNumber
	Parts   *PartsList
	Diagram *Diagram
}

func (e *Step) Type() ElementType { return ElementTypeStep }
func (e *Step) BoundingBox() BBox { return e.Box }

// Page is the fully assembled page: its number, progress bar, and ordered
// steps.
type Page struct {
	Box      BBox
	PageNo   int
	Number   *PageNumber
	Progress *ProgressBar
	Steps    []Step
}

func (e *Page) Type() ElementType { return ElementTypePage }
func (e *Page) BoundingBox() BBox { return e.Box }
