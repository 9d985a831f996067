package model

// PageData is the per-page record consumed from the document parser:
// the page number, page bounds, and the ordered primitive blocks. The
// engine makes no assumption about how blocks were produced beyond their
// identity, geometry, and kind contract.
type PageData struct {
	Number int  // 1-indexed page number
	Bounds BBox // Page bounding box

	// Blocks are the primitive blocks in parse order.
	Blocks []Block
}

// TextBlocks returns the page's text blocks in parse order.
func (p *PageData) TextBlocks() []*TextBlock {
	var out []*TextBlock
	for _, b := range p.Blocks {
		if t, ok := b.(*TextBlock); ok {
			out = append(out, t)
		}
	}
	return out
}

// DrawingBlocks returns the page's vector drawings in parse order.
func (p *PageData) DrawingBlocks() []*DrawingBlock {
	var out []*DrawingBlock
	for _, b := range p.Blocks {
		if d, ok := b.(*DrawingBlock); ok {
			out = append(out, d)
		}
	}
	return out
}

// ImageBlocks returns the page's raster images in parse order.
func (p *PageData) ImageBlocks() []*ImageBlock {
	var out []*ImageBlock
	for _, b := range p.Blocks {
		if i, ok := b.(*ImageBlock); ok {
			out = append(out, i)
		}
	}
	return out
}

// BlocksInRegion returns blocks whose bounding boxes lie fully inside the
// given region, in parse order.
func (p *PageData) BlocksInRegion(region BBox) []Block {
	var out []Block
	for _, b := range p.Blocks {
		if region.ContainsBox(b.BoundingBox()) {
			out = append(out, b)
		}
	}
	return out
}

// Block returns the block with the given identity, or nil.
func (p *PageData) Block(id int) Block {
	for _, b := range p.Blocks {
		if b.ID() == id {
			return b
		}
	}
	return nil
}
