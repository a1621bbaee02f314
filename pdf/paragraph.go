package pdf

import kinet "github.com/gymkirchenfeld/ch.kinet.pdflib"

type paragraph struct {
	text     string
	align    Alignment
	fontSize float64
	bold     bool
	fixed    *fixedPosition
}

// fixedPosition is an absolute placement in points, measured from the
// bottom left corner of the page.
type fixedPosition struct {
	left   float64
	bottom float64
	width  float64
}

// Paragraph configures a paragraph that was added to a [Document]. The
// document owns the paragraph; the handle stays usable until the document
// is finalized.
type Paragraph struct {
	doc  *Document
	node *paragraph
}

func (p *Paragraph) check(op string) error {
	if p.doc.state == StateClosed {
		return &StateError{Op: "Paragraph." + op, State: p.doc.state}
	}
	return nil
}

// Text returns the paragraph text.
func (p *Paragraph) Text() string {
	return p.node.text
}

// SetBold renders this paragraph bold.
func (p *Paragraph) SetBold() error {
	if err := p.check("SetBold"); err != nil {
		return err
	}
	p.node.bold = true
	return nil
}

// SetNormal renders this paragraph in regular weight.
func (p *Paragraph) SetNormal() error {
	if err := p.check("SetNormal"); err != nil {
		return err
	}
	p.node.bold = false
	return nil
}

// SetFontSize overrides the font size in points.
func (p *Paragraph) SetFontSize(size float64) error {
	if err := p.check("SetFontSize"); err != nil {
		return err
	}
	if !positive(size) {
		return invalidArg("font size %v", size)
	}
	p.node.fontSize = size
	return nil
}

// SetTextAlignment changes the alignment. Unknown values align left.
func (p *Paragraph) SetTextAlignment(a Alignment) error {
	if err := p.check("SetTextAlignment"); err != nil {
		return err
	}
	switch a {
	case Left, Center, Right:
	default:
		a = Left
	}
	p.node.align = a
	return nil
}

// SetFixedPosition pins the paragraph at an absolute position and takes it
// out of the page flow. left and bottom are measured in centimeters from
// the bottom left corner of the page; width is the line width in
// centimeters.
func (p *Paragraph) SetFixedPosition(left, bottom, width float64) error {
	if err := p.check("SetFixedPosition"); err != nil {
		return err
	}
	if !finite(left) || !finite(bottom) {
		return invalidArg("fixed position %v/%v cm", left, bottom)
	}
	if !positive(width) {
		return invalidArg("fixed width %v cm", width)
	}
	p.node.fixed = &fixedPosition{
		left:   kinet.CmToPoint(left),
		bottom: kinet.CmToPoint(bottom),
		width:  kinet.CmToPoint(width),
	}
	return nil
}
