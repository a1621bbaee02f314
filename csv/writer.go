// Package csv writes semicolon separated tables field by field.
//
// A [Writer] has a fixed column count. Every Append call writes one field
// and then a separator: ";" after the first N-1 fields of a row, a newline
// after the N-th. Strings are quoted when non-empty, numbers and dates are
// written bare.
//
//	w, _ := csv.NewWithHeaders([]string{"Name", "Grade"})
//	w.AppendString("Muster")
//	w.AppendFloat(5.5)
//	p, err := w.ToData("grades")
//
// This is not an RFC 4180 writer: embedded quotes and separators are not
// escaped unless [WithQuoteEscaping] is given.
package csv

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	kinet "github.com/gymkirchenfeld/ch.kinet.pdflib"
)

// DateLayout is the day.month.year layout used for date fields.
const DateLayout = "02.01.2006"

// Writer accumulates CSV text. It is not safe for concurrent use.
type Writer struct {
	cfg      config
	buf      strings.Builder
	last     int
	column   int
	hideZero bool
}

// New returns a Writer for rows of columnCount fields.
func New(columnCount int, opts ...Option) (*Writer, error) {
	if columnCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidColumnCount, columnCount)
	}
	w := &Writer{last: columnCount - 1}
	for _, o := range opts {
		o(&w.cfg)
	}
	return w, nil
}

// NewWithHeaders returns a Writer with one column per header and the header
// row already written.
func NewWithHeaders(headers []string, opts ...Option) (*Writer, error) {
	w, err := New(len(headers), opts...)
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		w.AppendString(h)
	}
	return w, nil
}

// SetHideZero controls whether numeric zeros are written as empty fields.
func (w *Writer) SetHideZero(hide bool) {
	w.hideZero = hide
}

// Append writes an empty field.
func (w *Writer) Append() {
	w.next()
}

// AppendString writes s in double quotes. An empty string yields an empty
// field without quotes.
func (w *Writer) AppendString(s string) {
	if s != "" {
		if w.cfg.escapeQuotes {
			s = strings.ReplaceAll(s, `"`, `""`)
		}
		w.buf.WriteByte('"')
		w.buf.WriteString(s)
		w.buf.WriteByte('"')
	}
	w.next()
}

// AppendInt writes i in decimal.
func (w *Writer) AppendInt(i int) {
	if !w.hideZero || i != 0 {
		w.buf.WriteString(strconv.Itoa(i))
	}
	w.next()
}

// AppendFloat writes f in the shortest decimal form without exponent.
func (w *Writer) AppendFloat(f float64) {
	if !w.hideZero || f != 0 {
		w.buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	}
	w.next()
}

// AppendDate writes t as day.month.year. The zero time stands for a missing
// date and yields an empty field.
func (w *Writer) AppendDate(t time.Time) {
	if !t.IsZero() {
		w.buf.WriteString(t.Format(DateLayout))
	}
	w.next()
}

func (w *Writer) next() {
	if w.column < w.last {
		w.buf.WriteByte(';')
		w.column++
		return
	}
	w.buf.WriteByte('\n')
	w.column = 0
}

// String returns the text accumulated so far.
func (w *Writer) String() string {
	return w.buf.String()
}

// Len returns the length of the accumulated text in bytes.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// ToData returns the accumulated text as a CSV payload. The Writer stays
// usable; later appends do not change the returned payload.
func (w *Writer) ToData(fileName string) (*kinet.Payload, error) {
	text := w.buf.String()
	if w.cfg.enc == nil {
		return kinet.NewPayload(kinet.CSV, []byte(text), fileName), nil
	}
	data, err := encoding.ReplaceUnsupported(w.cfg.enc.NewEncoder()).Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("csv: encoding payload: %w", err)
	}
	// An encoding without a registered name is announced without a charset
	// rather than with a wrong one.
	name, _ := htmlindex.Name(w.cfg.enc)
	return kinet.NewPayload(kinet.CSV, data, fileName).WithCharset(name), nil
}
