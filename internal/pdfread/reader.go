package pdfread

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrNotPDF is returned by [Load] for data without a %PDF- header.
var ErrNotPDF = errors.New("pdfread: not a PDF file")

// Document is a parsed PDF file. Objects are parsed lazily on first use.
// A Document is not safe for concurrent use.
type Document struct {
	data    []byte
	offsets map[int]int
	trailer Dict
	cache   map[int]*Object
}

// Open reads and parses the PDF file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfread: %w", err)
	}
	return Load(data)
}

// Load parses a PDF held in memory.
func Load(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}
	d := &Document{
		data:    data,
		offsets: map[int]int{},
		cache:   map[int]*Object{},
	}
	start, err := d.startXRef()
	if err != nil {
		return nil, err
	}
	if err := d.readXRef(start); err != nil {
		return nil, err
	}
	if _, ok := d.trailer["Root"]; !ok {
		return nil, errors.New("pdfread: trailer has no /Root")
	}
	return d, nil
}

// Version returns the version from the file header, e.g. "1.3".
func (d *Document) Version() string {
	line := d.data[len("%PDF-"):]
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(string(line))
}

// Trailer returns the trailer dictionary.
func (d *Document) Trailer() Dict {
	return d.trailer
}

func (d *Document) startXRef() (int, error) {
	from := max(len(d.data)-1024, 0)
	i := bytes.LastIndex(d.data[from:], []byte("startxref"))
	if i < 0 {
		return 0, errors.New("pdfread: startxref not found")
	}
	s := newScanner(d.data, from+i+len("startxref"))
	off, err := strconv.Atoi(s.token())
	if err != nil {
		return 0, fmt.Errorf("pdfread: bad startxref: %w", err)
	}
	return off, nil
}

// readXRef reads a classic cross-reference section and follows /Prev.
// Entries from newer sections win over older ones.
func (d *Document) readXRef(off int) error {
	for seen := map[int]bool{}; !seen[off]; {
		seen[off] = true
		if off < 0 || off >= len(d.data) {
			return fmt.Errorf("pdfread: xref offset %d out of range", off)
		}
		s := newScanner(d.data, off)
		if !s.keyword("xref") {
			return fmt.Errorf("pdfread: no xref table at offset %d (cross-reference streams are not supported)", off)
		}
		for !s.keyword("trailer") {
			first, err1 := strconv.Atoi(s.token())
			count, err2 := strconv.Atoi(s.token())
			if err1 != nil || err2 != nil {
				return fmt.Errorf("pdfread: malformed xref subsection at offset %d", s.off)
			}
			for i := 0; i < count; i++ {
				pos, _ := strconv.Atoi(s.token())
				s.token() // generation
				inUse := s.token() == "n"
				if _, ok := d.offsets[first+i]; !ok && inUse {
					d.offsets[first+i] = pos
				}
			}
		}
		t, err := s.object()
		if err != nil {
			return fmt.Errorf("pdfread: trailer: %w", err)
		}
		if t.Kind != KindDict {
			return errors.New("pdfread: trailer is not a dictionary")
		}
		if d.trailer == nil {
			d.trailer = t.Dict
		}
		prev, ok := t.Dict.Number("Prev")
		if !ok {
			return nil
		}
		off = int(prev)
	}
	return nil
}

// Resolve follows indirect references. Missing objects resolve to null.
func (d *Document) Resolve(o *Object) *Object {
	for i := 0; o != nil && o.Kind == KindRef && i < maxDepth; i++ {
		o = d.object(o.Ref.Number)
	}
	if o == nil {
		return null
	}
	return o
}

func (d *Document) object(num int) *Object {
	if o, ok := d.cache[num]; ok {
		return o
	}
	d.cache[num] = null // breaks reference cycles through /Length

	off, ok := d.offsets[num]
	if !ok || off >= len(d.data) {
		return null
	}
	s := newScanner(d.data, off)
	s.resolve = d.Resolve
	s.token()
	s.token()
	if !s.keyword("obj") {
		return null
	}
	o, err := s.object()
	if err != nil {
		return null
	}
	d.cache[num] = o
	return o
}

// Catalog returns the document catalog.
func (d *Document) Catalog() (Dict, error) {
	root := d.Resolve(d.trailer["Root"])
	if root.Kind != KindDict {
		return nil, errors.New("pdfread: catalog is not a dictionary")
	}
	return root.Dict, nil
}

// Page is a leaf of the page tree. Inheritable attributes (MediaBox,
// Resources, Rotate) are already merged in from its ancestors.
type Page struct {
	Dict Dict
}

var inheritable = []string{"MediaBox", "CropBox", "Resources", "Rotate"}

// Pages returns the pages in document order.
func (d *Document) Pages() ([]*Page, error) {
	cat, err := d.Catalog()
	if err != nil {
		return nil, err
	}
	root := d.Resolve(cat["Pages"])
	if root.Kind != KindDict {
		return nil, errors.New("pdfread: catalog has no page tree")
	}
	var pages []*Page
	d.walk(root.Dict, Dict{}, &pages, 0)
	return pages, nil
}

func (d *Document) walk(node, inherited Dict, out *[]*Page, depth int) {
	if depth > maxDepth {
		return
	}
	attrs := Dict{}
	for k, v := range inherited {
		attrs[k] = v
	}
	for _, k := range inheritable {
		if v, ok := node[k]; ok {
			attrs[k] = v
		}
	}

	if t, _ := node.Name("Type"); t == "Page" {
		p := Dict{}
		for k, v := range node {
			p[k] = v
		}
		for k, v := range attrs {
			p[k] = v
		}
		*out = append(*out, &Page{Dict: p})
		return
	}
	kids := d.Resolve(node["Kids"])
	for _, k := range kids.Array {
		if kid := d.Resolve(k); kid.Kind == KindDict {
			d.walk(kid.Dict, attrs, out, depth+1)
		}
	}
}

// PageInfo describes the geometry of a page in points.
type PageInfo struct {
	Width    float64
	Height   float64
	Rotation int
}

// PageInfo reads the media box and rotation of p.
func (d *Document) PageInfo(p *Page) PageInfo {
	var info PageInfo
	box := d.Resolve(p.Dict["MediaBox"])
	if len(box.Array) == 4 {
		var v [4]float64
		for i, o := range box.Array {
			v[i] = d.Resolve(o).Num
		}
		info.Width = v[2] - v[0]
		info.Height = v[3] - v[1]
	}
	info.Rotation = d.Resolve(p.Dict["Rotate"]).Int()
	return info
}

// Content returns the decoded content stream of p. Multiple streams are
// joined with a newline.
func (d *Document) Content(p *Page) ([]byte, error) {
	c := d.Resolve(p.Dict["Contents"])
	parts := []*Object{c}
	if c.Kind == KindArray {
		parts = c.Array
	}
	var out []byte
	for _, part := range parts {
		s := d.Resolve(part)
		if s.Kind != KindStream {
			continue
		}
		data, err := d.decode(s)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
		out = append(out, '\n')
	}
	return out, nil
}
