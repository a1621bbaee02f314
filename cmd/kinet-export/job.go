package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	kinet "github.com/gymkirchenfeld/ch.kinet.pdflib"
	"github.com/gymkirchenfeld/ch.kinet.pdflib/csv"
	"github.com/gymkirchenfeld/ch.kinet.pdflib/pdf"
)

// reportJob describes a PDF report. Image paths are relative to the job
// file.
type reportJob struct {
	Orientation string    `toml:"orientation"`
	FileName    string    `toml:"file_name"`
	Title       string    `toml:"title"`
	Author      string    `toml:"author"`
	Font        string    `toml:"font"`
	Pages       []jobPage `toml:"pages"`
}

type jobPage struct {
	MarginLR float64    `toml:"margin_lr"`
	MarginTB float64    `toml:"margin_tb"`
	Blocks   []jobBlock `toml:"blocks"`
}

// jobBlock is one entry of a page. Kind selects which fields apply:
// "paragraph", "table", "image" or "style".
type jobBlock struct {
	Kind string `toml:"kind"`

	// paragraph
	Text  string    `toml:"text"`
	Align string    `toml:"align"`
	Fixed []float64 `toml:"fixed"` // left, bottom, width in cm

	// style, also allowed on paragraphs
	Bold        *bool    `toml:"bold"`
	FontSize    float64  `toml:"font_size"`
	BorderWidth *float64 `toml:"border_width"`
	BorderStyle string   `toml:"border_style"`
	VAlign      string   `toml:"valign"`

	// table
	Columns []float64 `toml:"columns"`
	Cells   []jobCell `toml:"cells"`

	// image
	Path      string  `toml:"path"`
	MaxWidth  float64 `toml:"max_width"`
	MaxHeight float64 `toml:"max_height"`
}

type jobCell struct {
	Text      string   `toml:"text"`
	Align     string   `toml:"align"`
	Borders   []string `toml:"borders"`
	Bold      bool     `toml:"bold"`
	Image     string   `toml:"image"`
	MaxWidth  float64  `toml:"max_width"`
	MaxHeight float64  `toml:"max_height"`
}

// decodeTOML decodes path into v and rejects keys v has no field for.
func decodeTOML(path string, v any) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys %s", path, strings.Join(names, ", "))
	}
	return nil
}

func loadReportJob(path string) (*reportJob, error) {
	var job reportJob
	if err := decodeTOML(path, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// build drives a pdf.Document through the job.
func (j *reportJob) build(baseDir string) (*kinet.Payload, error) {
	orientation, ok := kinet.ParseOrientation(j.Orientation)
	if !ok {
		return nil, fmt.Errorf("unknown orientation %q", j.Orientation)
	}
	var opts []pdf.Option
	if j.Title != "" {
		opts = append(opts, pdf.WithTitle(j.Title))
	}
	if j.Author != "" {
		opts = append(opts, pdf.WithAuthor(j.Author))
	}
	if j.Font != "" {
		opts = append(opts, pdf.WithFontFamily(j.Font))
	}
	doc, err := pdf.New(orientation, j.FileName, opts...)
	if err != nil {
		return nil, err
	}

	for i, pg := range j.Pages {
		if err := doc.AddPage(pg.MarginLR, pg.MarginTB); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		for k, b := range pg.Blocks {
			if err := b.apply(doc, baseDir); err != nil {
				return nil, fmt.Errorf("page %d block %d (%s): %w", i+1, k+1, b.Kind, err)
			}
		}
	}
	return doc.ToData()
}

func (b *jobBlock) apply(doc *pdf.Document, baseDir string) error {
	switch b.Kind {
	case "style":
		return b.applyStyle(doc)
	case "paragraph":
		return b.paragraph(doc)
	case "image":
		img, err := readImage(baseDir, b.Path)
		if err != nil {
			return err
		}
		return doc.AddImage(img, b.MaxWidth, b.MaxHeight)
	case "table":
		return b.table(doc, baseDir)
	default:
		return fmt.Errorf("unknown block kind %q", b.Kind)
	}
}

func (b *jobBlock) applyStyle(doc *pdf.Document) error {
	if b.Bold != nil {
		if *b.Bold {
			doc.SetBold()
		} else {
			doc.SetNormal()
		}
	}
	if b.FontSize != 0 {
		if err := doc.SetFontSize(b.FontSize); err != nil {
			return err
		}
	}
	if b.BorderWidth != nil {
		if err := doc.SetBorderWidth(*b.BorderWidth); err != nil {
			return err
		}
	}
	if b.BorderStyle != "" {
		s, err := parseBorderStyle(b.BorderStyle)
		if err != nil {
			return err
		}
		doc.SetBorderStyle(s)
	}
	if b.VAlign != "" {
		v, err := parseVerticalAlignment(b.VAlign)
		if err != nil {
			return err
		}
		doc.SetVerticalAlignment(v)
	}
	return nil
}

func (b *jobBlock) paragraph(doc *pdf.Document) error {
	align, err := parseAlignment(b.Align)
	if err != nil {
		return err
	}
	p, err := doc.AddParagraph(b.Text, align)
	if err != nil {
		return err
	}
	if b.Bold != nil && *b.Bold {
		if err := p.SetBold(); err != nil {
			return err
		}
	}
	if b.FontSize != 0 {
		if err := p.SetFontSize(b.FontSize); err != nil {
			return err
		}
	}
	switch len(b.Fixed) {
	case 0:
	case 3:
		return p.SetFixedPosition(b.Fixed[0], b.Fixed[1], b.Fixed[2])
	default:
		return fmt.Errorf("fixed needs [left, bottom, width], got %d values", len(b.Fixed))
	}
	return nil
}

func (b *jobBlock) table(doc *pdf.Document, baseDir string) error {
	if err := doc.BeginTable(b.Columns...); err != nil {
		return err
	}
	for i, c := range b.Cells {
		if err := c.add(doc, baseDir); err != nil {
			return fmt.Errorf("cell %d: %w", i+1, err)
		}
	}
	return doc.EndTable()
}

func (c *jobCell) add(doc *pdf.Document, baseDir string) error {
	if c.Image != "" {
		img, err := readImage(baseDir, c.Image)
		if err != nil {
			return err
		}
		return doc.AddImageCell(img, c.MaxWidth, c.MaxHeight)
	}
	align, err := parseAlignment(c.Align)
	if err != nil {
		return err
	}
	borders, err := parseBorders(c.Borders)
	if err != nil {
		return err
	}
	p, err := doc.AddCell(c.Text, align, borders)
	if err != nil {
		return err
	}
	if c.Bold {
		return p.SetBold()
	}
	return nil
}

func readImage(baseDir, path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return os.ReadFile(path)
}

func parseAlignment(s string) (pdf.Alignment, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return pdf.Left, nil
	case "center":
		return pdf.Center, nil
	case "right":
		return pdf.Right, nil
	}
	return pdf.Left, fmt.Errorf("unknown alignment %q", s)
}

func parseVerticalAlignment(s string) (pdf.VerticalAlignment, error) {
	switch strings.ToLower(s) {
	case "top":
		return pdf.Top, nil
	case "middle":
		return pdf.Middle, nil
	case "bottom":
		return pdf.Bottom, nil
	}
	return pdf.Top, fmt.Errorf("unknown vertical alignment %q", s)
}

func parseBorderStyle(s string) (pdf.BorderStyle, error) {
	switch strings.ToLower(s) {
	case "solid":
		return pdf.Solid, nil
	case "dashed":
		return pdf.Dashed, nil
	case "dotted":
		return pdf.Dotted, nil
	}
	return pdf.Solid, fmt.Errorf("unknown border style %q", s)
}

func parseBorders(sides []string) (pdf.Border, error) {
	var b pdf.Border
	for _, s := range sides {
		switch strings.ToLower(s) {
		case "top":
			b |= pdf.BorderTop
		case "bottom":
			b |= pdf.BorderBottom
		case "left":
			b |= pdf.BorderLeft
		case "right":
			b |= pdf.BorderRight
		case "all":
			b |= pdf.BorderAll
		case "none":
		default:
			return b, fmt.Errorf("unknown border side %q", s)
		}
	}
	return b, nil
}

// csvTable is a table to export. Row values may be strings, integers,
// floats, booleans or local dates.
type csvTable struct {
	FileName string   `toml:"file_name"`
	Headers  []string `toml:"headers"`
	Rows     [][]any  `toml:"rows"`
}

func loadCSVTable(path string) (*csvTable, error) {
	var t csvTable
	if err := decodeTOML(path, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// write appends every row to w. Rows shorter than the header are padded
// with empty fields.
func (t *csvTable) write(w *csv.Writer) error {
	for i, row := range t.Rows {
		if len(row) > len(t.Headers) {
			return fmt.Errorf("row %d has %d values for %d columns", i+1, len(row), len(t.Headers))
		}
		for _, v := range row {
			switch v := v.(type) {
			case string:
				w.AppendString(v)
			case int64:
				w.AppendInt(int(v))
			case float64:
				w.AppendFloat(v)
			case bool:
				w.AppendString(strconv.FormatBool(v))
			case time.Time:
				w.AppendDate(v)
			default:
				return fmt.Errorf("row %d: unsupported value %v (%T)", i+1, v, v)
			}
		}
		for n := len(t.Headers) - len(row); n > 0; n-- {
			w.Append()
		}
	}
	return nil
}
