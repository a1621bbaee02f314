package kinet

// PointsPerCm is the number of PDF points (1/72 inch) in one centimeter.
const PointsPerCm = 28.3464566929

// CmToPoint converts centimeters to PDF points.
func CmToPoint(cm float64) float64 {
	return cm * PointsPerCm
}

// PageSize represents paper dimensions in centimeters.
type PageSize struct {
	Width  float64 // Width in centimeters.
	Height float64 // Height in centimeters.
}

// Standard paper sizes.
var (
	A3      = PageSize{Width: 29.7, Height: 42.0}
	A4      = PageSize{Width: 21.0, Height: 29.7}
	A5      = PageSize{Width: 14.8, Height: 21.0}
	Letter  = PageSize{Width: 21.59, Height: 27.94}
	Legal   = PageSize{Width: 21.59, Height: 35.56}
	Tabloid = PageSize{Width: 27.94, Height: 43.18}
)

// Points returns the page width and height in points for the given
// orientation. Landscape swaps the two sides.
func (s PageSize) Points(o Orientation) (width, height float64) {
	w, h := CmToPoint(s.Width), CmToPoint(s.Height)
	if o == Landscape {
		return h, w
	}
	return w, h
}

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	default:
		return "unknown"
	}
}

// ParseOrientation maps "portrait"/"landscape" (and the short forms "p"/"l")
// to an Orientation. Anything else is reported as not ok.
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "", "portrait", "Portrait", "p", "P":
		return Portrait, true
	case "landscape", "Landscape", "l", "L":
		return Landscape, true
	}
	return Portrait, false
}

// Margin represents page margins in centimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(cm float64) Margin {
	return Margin{Top: cm, Right: cm, Bottom: cm, Left: cm}
}

// SymmetricMargin returns a Margin with leftRight applied to the left and
// right sides and topBottom applied to the top and bottom sides.
func SymmetricMargin(leftRight, topBottom float64) Margin {
	return Margin{Top: topBottom, Right: leftRight, Bottom: topBottom, Left: leftRight}
}

// PageConfig controls the PDF output parameters of a [Converter].
//
// A nil PageConfig or zero-value fields will use sensible defaults:
// A4 paper, portrait orientation, 1 cm margins, scale 1.0, with
// background graphics enabled.
type PageConfig struct {
	// Size specifies the paper size. Defaults to A4.
	Size PageSize

	// Orientation specifies portrait or landscape. Defaults to Portrait.
	Orientation Orientation

	// Margin specifies page margins in centimeters. Defaults to 1 cm on all sides.
	Margin Margin

	// Scale of the webpage rendering. Must be between 0.1 and 2.0. Defaults to 1.0.
	Scale float64

	// PrintBackground enables printing of background colors and images.
	PrintBackground bool

	// DisplayHeaderFooter enables the header and footer templates.
	DisplayHeaderFooter bool

	// HeaderTemplate is an HTML template for the print header. It supports
	// the classes date, title, url, pageNumber and totalPages.
	HeaderTemplate string

	// FooterTemplate is an HTML template for the print footer.
	FooterTemplate string
}

// DefaultPageConfig returns a PageConfig with sensible defaults.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:            A4,
		Orientation:     Portrait,
		Margin:          UniformMargin(1.0),
		Scale:           1.0,
		PrintBackground: true,
	}
}

// resolved returns a PageConfig with all zero values replaced by defaults.
func (p *PageConfig) resolved() PageConfig {
	d := DefaultPageConfig()
	if p == nil {
		return d
	}
	r := *p
	if r.Size == (PageSize{}) {
		r.Size = d.Size
	}
	if r.Scale <= 0 {
		r.Scale = d.Scale
	}
	if r.Scale > 2 {
		r.Scale = 2
	}
	if r.Margin == (Margin{}) {
		r.Margin = d.Margin
	}
	return r
}

// cmToInches converts centimeters to inches.
func cmToInches(cm float64) float64 {
	return cm / 2.54
}

// paperDimensions returns the paper width and height in inches,
// accounting for orientation.
func (p *PageConfig) paperDimensions() (width, height float64) {
	r := p.resolved()
	w := cmToInches(r.Size.Width)
	h := cmToInches(r.Size.Height)
	if r.Orientation == Landscape {
		return h, w
	}
	return w, h
}

// marginInches returns margins converted to inches.
func (p *PageConfig) marginInches() (top, right, bottom, left float64) {
	r := p.resolved()
	return cmToInches(r.Margin.Top),
		cmToInches(r.Margin.Right),
		cmToInches(r.Margin.Bottom),
		cmToInches(r.Margin.Left)
}
