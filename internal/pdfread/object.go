// Package pdfread reads back the PDF files produced by this module.
//
// It understands classic cross-reference tables, the page tree with
// inherited attributes, Flate compressed content streams and text shown
// with simple (WinAnsi) or ToUnicode mapped fonts. That covers the output
// of the report builder and of headless Chrome; it is not a general
// purpose PDF parser.
package pdfread

// Kind identifies the type of an [Object].
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindName
	KindArray
	KindDict
	KindStream
	KindRef
)

// Object is a parsed PDF value.
type Object struct {
	Kind   Kind
	Bool   bool
	Num    float64
	Str    []byte
	Name   string
	Array  []*Object
	Dict   Dict
	Stream []byte // raw, still filtered
	Ref    Reference
}

// Reference identifies an indirect object.
type Reference struct {
	Number int
	Gen    int
}

var null = &Object{Kind: KindNull}

// Int returns the numeric value truncated to an int.
func (o *Object) Int() int {
	if o == nil || o.Kind != KindNumber {
		return 0
	}
	return int(o.Num)
}

// Dict maps names (without the leading slash) to values.
type Dict map[string]*Object

// Number returns a numeric entry.
func (d Dict) Number(key string) (float64, bool) {
	o, ok := d[key]
	if !ok || o.Kind != KindNumber {
		return 0, false
	}
	return o.Num, true
}

// Name returns a name entry.
func (d Dict) Name(key string) (string, bool) {
	o, ok := d[key]
	if !ok || o.Kind != KindName {
		return "", false
	}
	return o.Name, true
}
