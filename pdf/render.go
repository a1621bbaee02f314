package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	kinet "github.com/gymkirchenfeld/ch.kinet.pdflib"
)

// newEngine returns a gofpdf instance working in points with manual page
// breaks and no cell margin.
func (d *Document) newEngine() *gofpdf.Fpdf {
	orientation := "P"
	if d.orientation == kinet.Landscape {
		orientation = "L"
	}
	f := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		SizeStr:        "A4",
	})
	f.SetAutoPageBreak(false, 0)
	f.SetCellMargin(0)
	f.SetCompression(d.cfg.compress)

	title := d.cfg.title
	if title == "" {
		title = d.fileName
	}
	f.SetTitle(title, true)
	f.SetCreator(d.cfg.creator, true)
	if d.cfg.author != "" {
		f.SetAuthor(d.cfg.author, true)
	}
	if d.cfg.subject != "" {
		f.SetSubject(d.cfg.subject, true)
	}

	f.SetFont(d.cfg.fontFamily, "B", DefaultFontSize)
	f.SetFont(d.cfg.fontFamily, "", DefaultFontSize)
	return f
}

// layout walks the node tree top down and draws it. y is the flow cursor
// measured from the top edge of the page.
type layout struct {
	f      *gofpdf.Fpdf
	family string
	width  float64
	height float64

	page  *page
	y     float64
	fresh bool // nothing drawn in the flow of the current sheet yet
}

func (d *Document) render() ([]byte, error) {
	f := d.newEngine()
	l := &layout{f: f, family: d.cfg.fontFamily}
	l.width, l.height = f.GetPageSize()

	for _, pg := range d.pages {
		l.page = pg
		l.sheet()
		for _, b := range pg.blocks {
			switch b := b.(type) {
			case *paragraph:
				l.paragraph(b)
			case *imageNode:
				l.image(b)
			case *table:
				l.table(b)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	return buf.Bytes(), nil
}

// sheet starts a physical page with the margins of the current page.
func (l *layout) sheet() {
	m := l.page
	l.f.SetMargins(m.marginLR, m.marginTB, m.marginLR)
	l.f.AddPage()
	l.y = m.marginTB
	l.fresh = true
}

func (l *layout) left() float64         { return l.page.marginLR }
func (l *layout) contentWidth() float64 { return l.width - 2*l.page.marginLR }
func (l *layout) bottom() float64       { return l.height - l.page.marginTB }

// reserve claims h points of flow, breaking to a new sheet when they do not
// fit. Content taller than a whole sheet is placed and allowed to overflow.
func (l *layout) reserve(h float64) {
	if l.y+h > l.bottom() && !l.fresh {
		l.sheet()
	}
	l.fresh = false
}

func (l *layout) setFont(p *paragraph) {
	style := ""
	if p.bold {
		style = "B"
	}
	l.f.SetFont(l.family, style, p.fontSize)
}

// lines breaks the paragraph text for the given width. Empty text still
// takes one line.
func (l *layout) lines(p *paragraph, width float64) []string {
	l.setFont(p)
	split := l.f.SplitLines([]byte(winAnsi(p.text)), width)
	if len(split) == 0 {
		return []string{""}
	}
	out := make([]string, len(split))
	for i, s := range split {
		out[i] = string(s)
	}
	return out
}

func (l *layout) text(p *paragraph, lines []string, x, y, width float64) {
	l.setFont(p)
	lh := lineHeight(p.fontSize)
	for i, line := range lines {
		l.f.SetXY(x, y+float64(i)*lh)
		l.f.CellFormat(width, lh, line, "", 0, p.align.engine(), false, 0, "")
	}
}

func (l *layout) paragraph(p *paragraph) {
	if p.fixed != nil {
		l.fixed(p)
		return
	}
	lh := lineHeight(p.fontSize)
	for _, line := range l.lines(p, l.contentWidth()) {
		l.reserve(lh)
		l.text(p, []string{line}, l.left(), l.y, l.contentWidth())
		l.y += lh
	}
}

// fixed draws p so that its last line ends at the requested bottom edge.
// The flow cursor does not move.
func (l *layout) fixed(p *paragraph) {
	fp := p.fixed
	lines := l.lines(p, fp.width)
	h := float64(len(lines)) * lineHeight(p.fontSize)
	l.text(p, lines, fp.left, l.height-fp.bottom-h, fp.width)
}

func (l *layout) image(n *imageNode) {
	l.reserve(n.height)
	l.place(n, l.left(), l.y)
	l.y += n.height
}

func (l *layout) place(n *imageNode, x, y float64) {
	opts := gofpdf.ImageOptions{ImageType: n.typ}
	l.f.RegisterImageOptionsReader(n.name, opts, bytes.NewReader(n.data))
	l.f.ImageOptions(n.name, x, y, n.width, n.height, false, opts, 0, "")
}

// widths spreads total over the columns in proportion to their weights.
func (t *table) widths(total float64) []float64 {
	var sum float64
	for _, c := range t.columns {
		sum += c
	}
	out := make([]float64, len(t.columns))
	for i, c := range t.columns {
		out[i] = total * c / sum
	}
	return out
}

func (l *layout) table(t *table) {
	widths := t.widths(l.contentWidth())
	n := len(widths)
	for start := 0; start < len(t.cells); start += n {
		row := t.cells[start:min(start+n, len(t.cells))]

		var h float64
		for i, c := range row {
			h = max(h, l.contentHeight(c, widths[i]-2*CellPadding))
		}
		h += 2 * CellPadding

		l.reserve(h)
		x := l.left()
		for i, c := range row {
			l.cell(c, x, l.y, widths[i], h)
			x += widths[i]
		}
		l.y += h
	}
}

func (l *layout) contentHeight(c *cell, width float64) float64 {
	switch n := c.content.(type) {
	case *paragraph:
		if n.fixed != nil {
			return 0
		}
		return float64(len(l.lines(n, width))) * lineHeight(n.fontSize)
	case *imageNode:
		return n.height
	}
	return 0
}

func (l *layout) cell(c *cell, x, y, w, h float64) {
	inner := w - 2*CellPadding
	top := y + CellPadding + c.valign.offset(h-2*CellPadding-l.contentHeight(c, inner))
	switch n := c.content.(type) {
	case *paragraph:
		if n.fixed != nil {
			l.fixed(n)
		} else {
			l.text(n, l.lines(n, inner), x+CellPadding, top, inner)
		}
	case *imageNode:
		l.place(n, x+CellPadding, top)
	}
	l.borders(c, x, y, w, h)
}

func (l *layout) borders(c *cell, x, y, w, h float64) {
	if c.borders == BorderNone || c.borderWidth <= 0 {
		return
	}
	l.f.SetLineWidth(c.borderWidth)
	l.f.SetDashPattern(c.borderStyle.dashes(c.borderWidth), 0)
	if c.borders.Has(BorderTop) {
		l.f.Line(x, y, x+w, y)
	}
	if c.borders.Has(BorderBottom) {
		l.f.Line(x, y+h, x+w, y+h)
	}
	if c.borders.Has(BorderLeft) {
		l.f.Line(x, y, x, y+h)
	}
	if c.borders.Has(BorderRight) {
		l.f.Line(x+w, y, x+w, y+h)
	}
	l.f.SetDashPattern([]float64{}, 0)
}
