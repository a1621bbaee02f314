package pdf

import "strings"

// Alignment is the horizontal alignment of text.
type Alignment int

const (
	Left Alignment = iota
	Center
	Right
)

func (a Alignment) String() string {
	switch a {
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// engine returns the gofpdf alignment string. Unknown values map to left.
func (a Alignment) engine() string {
	switch a {
	case Center:
		return "C"
	case Right:
		return "R"
	default:
		return "L"
	}
}

// Border is a set of cell sides.
type Border uint8

const (
	BorderTop Border = 1 << iota
	BorderBottom
	BorderLeft
	BorderRight

	BorderNone Border = 0
	BorderAll         = BorderTop | BorderBottom | BorderLeft | BorderRight
)

// Has reports whether all sides in side are part of b.
func (b Border) Has(side Border) bool {
	return b&side == side
}

func (b Border) String() string {
	if b == BorderNone {
		return "none"
	}
	var sides []string
	for _, s := range []struct {
		side Border
		name string
	}{
		{BorderTop, "top"},
		{BorderBottom, "bottom"},
		{BorderLeft, "left"},
		{BorderRight, "right"},
	} {
		if b.Has(s.side) {
			sides = append(sides, s.name)
		}
	}
	return strings.Join(sides, "|")
}

// VerticalAlignment places cell content inside a row that is taller than
// the content.
type VerticalAlignment int

const (
	Top VerticalAlignment = iota
	Middle
	Bottom
)

func (v VerticalAlignment) String() string {
	switch v {
	case Top:
		return "top"
	case Middle:
		return "middle"
	case Bottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// offset returns how far content moves down given the free space below it.
// Unknown values behave like Top.
func (v VerticalAlignment) offset(free float64) float64 {
	if free <= 0 {
		return 0
	}
	switch v {
	case Middle:
		return free / 2
	case Bottom:
		return free
	default:
		return 0
	}
}

// BorderStyle is the stroke pattern of cell borders.
type BorderStyle int

const (
	Solid BorderStyle = iota
	Dashed
	Dotted
)

func (s BorderStyle) String() string {
	switch s {
	case Solid:
		return "solid"
	case Dashed:
		return "dashed"
	case Dotted:
		return "dotted"
	default:
		return "unknown"
	}
}

// dashes returns the gofpdf dash array for a stroke of the given width.
// An empty array draws a solid line.
func (s BorderStyle) dashes(width float64) []float64 {
	unit := max(width, 0.5)
	switch s {
	case Dashed:
		return []float64{3 * unit, 3 * unit}
	case Dotted:
		return []float64{unit, unit}
	default:
		return []float64{}
	}
}

// Default style values.
const (
	DefaultBorderWidth = 1.0
	DefaultFontSize    = 10.0
)

// Style holds the defaults applied to content created after it is set.
// Changing the style never restyles content that already exists.
type Style struct {
	BorderWidth       float64 // points
	BorderStyle       BorderStyle
	FontSize          float64 // points
	Bold              bool
	VerticalAlignment VerticalAlignment
}

// DefaultStyle returns the style of a new [Document].
func DefaultStyle() Style {
	return Style{
		BorderWidth:       DefaultBorderWidth,
		BorderStyle:       Solid,
		FontSize:          DefaultFontSize,
		VerticalAlignment: Top,
	}
}

func (s Style) validate() error {
	if !positive(s.FontSize) {
		return invalidArg("font size %v", s.FontSize)
	}
	if !nonNegative(s.BorderWidth) {
		return invalidArg("border width %v", s.BorderWidth)
	}
	return nil
}
