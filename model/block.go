package model

// BlockKind represents the kind of primitive page block.
type BlockKind int

const (
	BlockKindUnknown BlockKind = iota
	BlockKindText
	BlockKindDrawing
	BlockKindImage
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindText:
		return "text"
	case BlockKindDrawing:
		return "drawing"
	case BlockKindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Block is the interface for primitive page elements supplied by the
// external document parser. Blocks are immutable after construction and
// carry a document-unique integer identity assigned once at parse time.
// Blocks are compared by identity, never by value: two blocks can have
// identical geometry and text yet be distinct entities (duplicated for a
// drop-shadow effect, for example).
type Block interface {
	// ID returns the document-unique block identity.
	ID() int

	// Kind returns the block kind.
	Kind() BlockKind

	// BoundingBox returns the block's bounding box.
	BoundingBox() BBox
}

// Color represents an RGB color.
type Color struct {
	R, G, B uint8
}

// PathItem represents one drawing operation inside a vector drawing.
type PathItem struct {
	// Op is the path operator ("l" line, "re" rectangle, "c" curve, ...).
	Op string

	// Points are the operator's control points.
	Points []Point
}

// TextBlock is a primitive text run.
type TextBlock struct {
	BlockID  int
	Box      BBox
	Text     string
	FontName string
	FontSize float64
}

func (t *TextBlock) ID() int           { return t.BlockID }
func (t *TextBlock) Kind() BlockKind   { return BlockKindText }
func (t *TextBlock) BoundingBox() BBox { return t.Box }

// DrawingBlock is a primitive vector drawing.
type DrawingBlock struct {
	BlockID int
	Box     BBox

	// ImageRef optionally names a rendered form of the drawing.
	ImageRef string

	Items       []PathItem
	FillColor   *Color
	StrokeColor *Color
}

func (d *DrawingBlock) ID() int           { return d.BlockID }
func (d *DrawingBlock) Kind() BlockKind   { return BlockKindDrawing }
func (d *DrawingBlock) BoundingBox() BBox { return d.Box }

// ImageBlock is a primitive raster image placement. The engine never reads
// pixel data; ImageRef is an opaque reference owned by the parser.
type ImageBlock struct {
	BlockID  int
	Box      BBox
	ImageRef string
}

func (i *ImageBlock) ID() int           { return i.BlockID }
func (i *ImageBlock) Kind() BlockKind   { return BlockKindImage }
func (i *ImageBlock) BoundingBox() BBox { return i.Box }

// UnionBox returns the union of the bounding boxes of all blocks.
// It returns the zero box for an empty slice.
func UnionBox(blocks []Block) BBox {
	if len(blocks) == 0 {
		return BBox{}
	}
	box := blocks[0].BoundingBox()
	for _, b := range blocks[1:] {
		box = box.Union(b.BoundingBox())
	}
	return box
}
