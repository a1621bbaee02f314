package kinet

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// MediaKind is the declared format of a [Payload].
type MediaKind int

const (
	// PDF marks a paginated document.
	PDF MediaKind = iota
	// CSV marks semicolon separated text.
	CSV
	// HTML marks rendered hypertext.
	HTML
)

func (k MediaKind) String() string {
	switch k {
	case PDF:
		return "pdf"
	case CSV:
		return "csv"
	case HTML:
		return "html"
	default:
		return "unknown"
	}
}

// MimeType returns the MIME type a delivery layer should announce for
// UTF-8 content.
func (k MediaKind) MimeType() string {
	if k.text() {
		return k.baseType() + "; charset=utf-8"
	}
	return k.baseType()
}

func (k MediaKind) baseType() string {
	switch k {
	case PDF:
		return "application/pdf"
	case CSV:
		return "text/csv"
	case HTML:
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

func (k MediaKind) text() bool {
	return k == CSV || k == HTML
}

// Extension returns the file extension including the leading dot.
func (k MediaKind) Extension() string {
	switch k {
	case PDF:
		return ".pdf"
	case CSV:
		return ".csv"
	case HTML:
		return ".html"
	default:
		return ".bin"
	}
}

// Payload holds an exported document together with its suggested file
// name and declared media kind.
//
// A Payload is returned by every exporter in this module. Its methods
// never modify the underlying data and may be called repeatedly.
type Payload struct {
	data     []byte
	fileName string
	kind     MediaKind
	charset  string // text kinds only; "" omits the parameter
}

// NewPayload wraps data as a payload of the given kind. An empty fileName
// is replaced by a generated "export-<uuid>" name; a missing extension is
// appended.
func NewPayload(kind MediaKind, data []byte, fileName string) *Payload {
	if fileName == "" {
		fileName = "export-" + uuid.NewString()
	}
	if !strings.HasSuffix(strings.ToLower(fileName), kind.Extension()) {
		fileName += kind.Extension()
	}
	p := &Payload{data: data, fileName: fileName, kind: kind}
	if kind.text() {
		p.charset = "utf-8"
	}
	return p
}

// WithCharset returns a copy of p that declares charset instead of UTF-8.
// An empty charset drops the parameter from the MIME type. Binary kinds
// ignore it.
func (p *Payload) WithCharset(charset string) *Payload {
	c := *p
	if c.kind.text() {
		c.charset = strings.ToLower(charset)
	}
	return &c
}

// Charset returns the declared character set, or "" if none is declared.
func (p *Payload) Charset() string {
	return p.charset
}

// Bytes returns the raw content.
func (p *Payload) Bytes() []byte {
	return p.data
}

// FileName returns the suggested file name.
func (p *Payload) FileName() string {
	return p.fileName
}

// Kind returns the declared media kind.
func (p *Payload) Kind() MediaKind {
	return p.kind
}

// MimeType returns the MIME type including the declared charset.
func (p *Payload) MimeType() string {
	if p.charset == "" {
		return p.kind.baseType()
	}
	return p.kind.baseType() + "; charset=" + p.charset
}

// Base64 returns the content encoded as a standard base64 string (RFC 4648).
func (p *Payload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.data)
}

// Reader returns an [*bytes.Reader] over the content.
func (p *Payload) Reader() *bytes.Reader {
	return bytes.NewReader(p.data)
}

// WriteTo writes the full content to w. It implements [io.WriterTo].
func (p *Payload) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.data)
	return int64(n), err
}

// WriteToFile writes the content to the file at path, creating it if needed.
func (p *Payload) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, p.data, perm)
}

// Len returns the size of the content in bytes.
func (p *Payload) Len() int {
	return len(p.data)
}
