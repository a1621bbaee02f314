package pdf

import (
	"fmt"
	"strings"

	kinet "github.com/gymkirchenfeld/ch.kinet.pdflib"
)

// CellPadding is the inner padding of every table cell, in points.
const CellPadding = 0.5

// block is a node in the flow of a page: *paragraph, *imageNode or *table.
type block any

type page struct {
	marginLR float64 // points
	marginTB float64 // points
	blocks   []block
}

type table struct {
	columns []float64
	cells   []*cell
}

type cell struct {
	content     block // *paragraph, *imageNode or nil
	valign      VerticalAlignment
	borders     Border
	borderWidth float64
	borderStyle BorderStyle
}

// Document is an A4 PDF report under construction.
type Document struct {
	cfg         config
	orientation kinet.Orientation
	fileName    string
	width       float64 // page size in points
	height      float64

	pages  []*page
	table  *table
	style  Style
	state  State
	images int
}

// New returns an empty document. The engine is built once so that an
// unusable configuration (such as an unknown font family) fails here
// rather than at [Document.ToData].
func New(orientation kinet.Orientation, fileName string, opts ...Option) (*Document, error) {
	if orientation != kinet.Portrait && orientation != kinet.Landscape {
		return nil, invalidArg("orientation %d", int(orientation))
	}
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	cfg.fontFamily = strings.ToLower(cfg.fontFamily)

	d := &Document{
		cfg:         cfg,
		orientation: orientation,
		fileName:    fileName,
		style:       DefaultStyle(),
	}
	d.width, d.height = kinet.A4.Points(orientation)

	if err := d.newEngine().Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	return d, nil
}

// MustNew is like [New] but panics on error.
func MustNew(orientation kinet.Orientation, fileName string, opts ...Option) *Document {
	d, err := New(orientation, fileName, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// State returns the current build state.
func (d *Document) State() State {
	return d.state
}

// PageCount returns the number of pages opened with [Document.AddPage].
// Pages added by the layout for overflowing content are not counted.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// FileName returns the file name the payload will carry.
func (d *Document) FileName() string {
	return d.fileName
}

func (d *Document) require(op string, allowed ...State) error {
	for _, s := range allowed {
		if d.state == s {
			return nil
		}
	}
	return &StateError{Op: op, State: d.state}
}

func (d *Document) currentPage() *page {
	return d.pages[len(d.pages)-1]
}

// AddPage starts a new page with the given margins in centimeters. The
// first call opens the first page; later calls insert a page break.
func (d *Document) AddPage(marginLeftRight, marginTopBottom float64) error {
	if err := d.require("AddPage", StateEmpty, StatePageOpen); err != nil {
		return err
	}
	lr, tb := kinet.CmToPoint(marginLeftRight), kinet.CmToPoint(marginTopBottom)
	if !nonNegative(lr) || !nonNegative(tb) {
		return invalidArg("invalid margin %v/%v cm", marginLeftRight, marginTopBottom)
	}
	if 2*lr >= d.width || 2*tb >= d.height {
		return invalidArg("margins %v/%v cm leave no room on the page", marginLeftRight, marginTopBottom)
	}
	d.pages = append(d.pages, &page{marginLR: lr, marginTB: tb})
	d.state = StatePageOpen
	return nil
}

// BeginTable opens a table spanning the content width. Column widths are
// relative and are normalized to 100 %.
func (d *Document) BeginTable(columnWidths ...float64) error {
	if err := d.require("BeginTable", StatePageOpen); err != nil {
		return err
	}
	if len(columnWidths) == 0 {
		return invalidArg("table without columns")
	}
	for _, w := range columnWidths {
		if !positive(w) {
			return invalidArg("column width %v", w)
		}
	}
	d.table = &table{columns: append([]float64(nil), columnWidths...)}
	d.state = StateTableOpen
	return nil
}

// AddCell appends a text cell to the open table. The requested border
// sides are drawn with the current border width and style. The returned
// handle configures the cell's paragraph.
func (d *Document) AddCell(text string, align Alignment, borders Border) (*Paragraph, error) {
	if err := d.require("AddCell", StateTableOpen); err != nil {
		return nil, err
	}
	p := d.newParagraph(text, align)
	d.table.cells = append(d.table.cells, &cell{
		content:     p,
		valign:      d.style.VerticalAlignment,
		borders:     borders,
		borderWidth: d.style.BorderWidth,
		borderStyle: d.style.BorderStyle,
	})
	return &Paragraph{doc: d, node: p}, nil
}

// AddImageCell appends a borderless image cell to the open table. A nil or
// empty image yields an empty cell.
func (d *Document) AddImageCell(img []byte, maxWidth, maxHeight float64) error {
	if err := d.require("AddImageCell", StateTableOpen); err != nil {
		return err
	}
	c := &cell{valign: d.style.VerticalAlignment}
	if len(img) > 0 {
		n, err := d.newImage(img, maxWidth, maxHeight)
		if err != nil {
			return err
		}
		c.content = n
	}
	d.table.cells = append(d.table.cells, c)
	return nil
}

// EndTable adds the open table to the current page.
func (d *Document) EndTable() error {
	if err := d.require("EndTable", StateTableOpen); err != nil {
		return err
	}
	d.closeTable()
	return nil
}

func (d *Document) closeTable() {
	pg := d.currentPage()
	pg.blocks = append(pg.blocks, d.table)
	d.table = nil
	d.state = StatePageOpen
}

// AddImage adds an image to the page flow, scaled to fit maxWidth x
// maxHeight points. A nil or empty image is ignored.
func (d *Document) AddImage(img []byte, maxWidth, maxHeight float64) error {
	if err := d.require("AddImage", StatePageOpen); err != nil {
		return err
	}
	if len(img) == 0 {
		return nil
	}
	n, err := d.newImage(img, maxWidth, maxHeight)
	if err != nil {
		return err
	}
	pg := d.currentPage()
	pg.blocks = append(pg.blocks, n)
	return nil
}

// AddParagraph adds a paragraph in the current style to the page flow.
func (d *Document) AddParagraph(text string, align Alignment) (*Paragraph, error) {
	if err := d.require("AddParagraph", StatePageOpen); err != nil {
		return nil, err
	}
	p := d.newParagraph(text, align)
	pg := d.currentPage()
	pg.blocks = append(pg.blocks, p)
	return &Paragraph{doc: d, node: p}, nil
}

func (d *Document) newParagraph(text string, align Alignment) *paragraph {
	return &paragraph{
		text:     text,
		align:    align,
		fontSize: d.style.FontSize,
		bold:     d.style.Bold,
	}
}

// SetBold makes content created afterwards bold.
func (d *Document) SetBold() {
	d.style.Bold = true
}

// SetNormal makes content created afterwards regular weight.
func (d *Document) SetNormal() {
	d.style.Bold = false
}

// SetFontSize sets the font size in points for content created afterwards.
func (d *Document) SetFontSize(size float64) error {
	if d.state == StateClosed {
		return &StateError{Op: "SetFontSize", State: d.state}
	}
	if !positive(size) {
		return invalidArg("font size %v", size)
	}
	d.style.FontSize = size
	return nil
}

// SetVerticalAlignment sets the alignment of cells created afterwards.
func (d *Document) SetVerticalAlignment(v VerticalAlignment) {
	d.style.VerticalAlignment = v
}

// SetBorderWidth sets the border width in points for cells created
// afterwards. Zero hides borders.
func (d *Document) SetBorderWidth(width float64) error {
	if d.state == StateClosed {
		return &StateError{Op: "SetBorderWidth", State: d.state}
	}
	if !nonNegative(width) {
		return invalidArg("border width %v", width)
	}
	d.style.BorderWidth = width
	return nil
}

// SetBorderStyle sets the stroke pattern for cells created afterwards.
func (d *Document) SetBorderStyle(s BorderStyle) {
	d.style.BorderStyle = s
}

// Style returns a copy of the current style.
func (d *Document) Style() Style {
	return d.style
}

// SetStyle replaces the current style.
func (d *Document) SetStyle(s Style) error {
	if d.state == StateClosed {
		return &StateError{Op: "SetStyle", State: d.state}
	}
	if err := s.validate(); err != nil {
		return err
	}
	d.style = s
	return nil
}

// ToData lays the document out and returns it as a PDF payload. An open
// table is closed first. ToData is terminal: afterwards every builder and
// paragraph call that reports errors fails with a [*StateError], and the
// remaining style setters have no effect.
func (d *Document) ToData() (*kinet.Payload, error) {
	if err := d.require("ToData", StatePageOpen, StateTableOpen); err != nil {
		if d.state == StateEmpty {
			return nil, ErrNoPages
		}
		return nil, err
	}
	if d.state == StateTableOpen {
		d.closeTable()
	}
	d.state = StateClosed

	data, err := d.render()
	if err != nil {
		return nil, err
	}
	return kinet.NewPayload(kinet.PDF, data, d.fileName), nil
}
