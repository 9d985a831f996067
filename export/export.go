// Package export renders assembled elements as deterministic JSON:
// struct fields marshal in declaration order with the type discriminator
// first, and all coordinates round to two decimals, so renders of equal
// models are byte-identical and diff cleanly in golden files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/tsawler/brickplan/model"
)

// Box is a bounding box rendered as [x0, y0, x1, y1].
type Box [4]float64

func boxOf(b model.BBox) Box {
	return Box{round2(b.X0), round2(b.Y0), round2(b.X1), round2(b.Y1)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Node is the rendered form of one element. Optional fields are omitted
// when the element kind does not carry them.
type Node struct {
	Type       string   `json:"type"`
	Box        Box      `json:"box"`
	PageNo     int      `json:"page_no,omitempty"`
	Value      *int     `json:"value,omitempty"`
	Text       string   `json:"text,omitempty"`
	Count      int      `json:"count,omitempty"`
	Fraction   *float64 `json:"fraction,omitempty"`
	Horizontal *bool    `json:"horizontal,omitempty"`

	Number   *Node  `json:"number,omitempty"`
	Progress *Node  `json:"progress,omitempty"`
	CountEl  *Node  `json:"count_token,omitempty"`
	ImageBox *Box   `json:"image_box,omitempty"`
	Parts    *Node  `json:"parts,omitempty"`
	Diagram  *Node  `json:"diagram,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Convert maps an element to its rendered node.
func Convert(el model.Element) (Node, error) {
	switch e := el.(type) {
	case *model.PageNumber:
		v := e.Value
		return Node{Type: e.Type().String(), Box: boxOf(e.Box), Value: &v}, nil
	case *model.StepNumber:
		v := e.Value
		return Node{Type: e.Type().String(), Box: boxOf(e.Box), Value: &v}, nil
	case *model.PartCount:
		return Node{Type: e.Type().String(), Box: boxOf(e.Box), Count: e.Count, Text: e.Raw}, nil
	case *model.PartNumber:
		return Node{Type: e.Type().String(), Box: boxOf(e.Box), Text: e.Value}, nil
	case *model.Part:
		return convertPart(e)
	case *model.PartsList:
		return convertPartsList(e)
	case *model.Diagram:
		return Node{Type: e.Type().String(), Box: boxOf(e.Box)}, nil
	case *model.ProgressBar:
		f := round2(e.Fraction)
		return Node{Type: e.Type().String(), Box: boxOf(e.Box), Fraction: &f}, nil
	case *model.Background:
		return Node{Type: e.Type().String(), Box: boxOf(e.Box)}, nil
	case *model.Divider:
		h := e.Horizontal
		return Node{Type: e.Type().String(), Box: boxOf(e.Box), Horizontal: &h}, nil
	case *model.NewBag:
		v := e.BagNumber
		return Node{Type: e.Type().String(), Box: boxOf(e.Box), Value: &v}, nil
	case *model.Step:
		return convertStep(e)
	case *model.Page:
		return convertPage(e)
	default:
		return Node{}, fmt.Errorf("export: unsupported element type %T", el)
	}
}

func convertPart(e *model.Part) (Node, error) {
	count, err := Convert(&e.Count)
	if err != nil {
		return Node{}, err
	}
	n := Node{Type: e.Type().String(), Box: boxOf(e.Box), CountEl: &count}
	if e.Number != nil {
		num, err := Convert(e.Number)
		if err != nil {
			return Node{}, err
		}
		n.Number = &num
	}
	if e.ImageBox != nil {
		box := boxOf(*e.ImageBox)
		n.ImageBox = &box
	}
	return n, nil
}

func convertPartsList(e *model.PartsList) (Node, error) {
	n := Node{Type: e.Type().String(), Box: boxOf(e.Box)}
	for i := range e.Parts {
		child, err := Convert(&e.Parts[i])
		if err != nil {
			return Node{}, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func convertStep(e *model.Step) (Node, error) {
	number, err := Convert(&e.Number)
	if err != nil {
		return Node{}, err
	}
	n := Node{Type: e.Type().String(), Box: boxOf(e.Box), Number: &number}
	if e.Parts != nil {
		parts, err := Convert(e.Parts)
		if err != nil {
			return Node{}, err
		}
		n.Parts = &parts
	}
	if e.Diagram != nil {
		diagram, err := Convert(e.Diagram)
		if err != nil {
			return Node{}, err
		}
		n.Diagram = &diagram
	}
	return n, nil
}

func convertPage(e *model.Page) (Node, error) {
	n := Node{Type: e.Type().String(), Box: boxOf(e.Box), PageNo: e.PageNo}
	if e.Number != nil {
		number, err := Convert(e.Number)
		if err != nil {
			return Node{}, err
		}
		n.Number = &number
	}
	if e.Progress != nil {
		progress, err := Convert(e.Progress)
		if err != nil {
			return Node{}, err
		}
		n.Progress = &progress
	}
	for i := range e.Steps {
		child, err := Convert(&e.Steps[i])
		if err != nil {
			return Node{}, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// Render returns the element's indented JSON with a trailing newline.
func Render(el model.Element) ([]byte, error) {
	node, err := Convert(el)
	if err != nil {
		return nil, err
	}
	return marshal(node)
}

// RenderPages renders a slice of assembled pages as one JSON array.
// Pages should already be in reading order; RenderPages preserves the
// order given.
func RenderPages(pages []*model.Page) ([]byte, error) {
	nodes := make([]Node, 0, len(pages))
	for _, p := range pages {
		node, err := convertPage(p)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return marshal(nodes)
}

// Write renders the element to w.
func Write(w io.Writer, el model.Element) error {
	data, err := Render(el)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
