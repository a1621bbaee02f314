package kinet

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var samplePDF = []byte("%PDF-1.3 fake content for testing")

func newPayload() *Payload {
	return NewPayload(PDF, samplePDF, "report.pdf")
}

func TestPayload_Bytes(t *testing.T) {
	p := newPayload()
	if !bytes.Equal(p.Bytes(), samplePDF) {
		t.Error("Bytes() did not return original data")
	}
}

func TestPayload_Metadata(t *testing.T) {
	p := newPayload()
	if p.FileName() != "report.pdf" {
		t.Errorf("FileName() = %q, want report.pdf", p.FileName())
	}
	if p.Kind() != PDF {
		t.Errorf("Kind() = %v, want pdf", p.Kind())
	}
	if p.MimeType() != "application/pdf" {
		t.Errorf("MimeType() = %q", p.MimeType())
	}
}

func TestNewPayload_AppendsExtension(t *testing.T) {
	p := NewPayload(CSV, nil, "grades")
	if p.FileName() != "grades.csv" {
		t.Errorf("FileName() = %q, want grades.csv", p.FileName())
	}
	p = NewPayload(CSV, nil, "GRADES.CSV")
	if p.FileName() != "GRADES.CSV" {
		t.Errorf("FileName() = %q, want GRADES.CSV unchanged", p.FileName())
	}
}

func TestNewPayload_GeneratedName(t *testing.T) {
	a := NewPayload(HTML, nil, "")
	b := NewPayload(HTML, nil, "")
	if !strings.HasPrefix(a.FileName(), "export-") || !strings.HasSuffix(a.FileName(), ".html") {
		t.Errorf("generated name %q has wrong shape", a.FileName())
	}
	if a.FileName() == b.FileName() {
		t.Errorf("generated names collide: %q", a.FileName())
	}
}

func TestMediaKind_Tables(t *testing.T) {
	tests := []struct {
		kind MediaKind
		name string
		ext  string
	}{
		{PDF, "pdf", ".pdf"},
		{CSV, "csv", ".csv"},
		{HTML, "html", ".html"},
		{MediaKind(42), "unknown", ".bin"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.name)
		}
		if got := tt.kind.Extension(); got != tt.ext {
			t.Errorf("%d.Extension() = %q, want %q", tt.kind, got, tt.ext)
		}
	}
}

func TestPayload_Base64(t *testing.T) {
	p := newPayload()
	got := p.Base64()
	want := base64.StdEncoding.EncodeToString(samplePDF)
	if got != want {
		t.Errorf("Base64() = %q, want %q", got, want)
	}
}

func TestPayload_Reader(t *testing.T) {
	p := newPayload()
	reader := p.Reader()
	if reader.Len() != len(samplePDF) {
		t.Errorf("Reader().Len() = %d, want %d", reader.Len(), len(samplePDF))
	}
	buf := make([]byte, len(samplePDF))
	n, err := reader.Read(buf)
	if err != nil {
		t.Fatalf("Reader().Read: %v", err)
	}
	if !bytes.Equal(buf[:n], samplePDF) {
		t.Error("Reader() produced different content")
	}
}

func TestPayload_WriteTo(t *testing.T) {
	p := newPayload()
	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(samplePDF)) {
		t.Errorf("WriteTo wrote %d bytes, want %d", n, len(samplePDF))
	}
	if !bytes.Equal(buf.Bytes(), samplePDF) {
		t.Error("WriteTo produced different content")
	}
}

func TestPayload_WriteToFile(t *testing.T) {
	p := newPayload()
	path := filepath.Join(t.TempDir(), p.FileName())
	if err := p.WriteToFile(path, 0o644); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if !bytes.Equal(data, samplePDF) {
		t.Error("WriteToFile produced different content")
	}
}

func TestPayload_Len(t *testing.T) {
	p := newPayload()
	if p.Len() != len(samplePDF) {
		t.Errorf("Len() = %d, want %d", p.Len(), len(samplePDF))
	}
}

func TestPayload_Charset(t *testing.T) {
	tests := []struct {
		name    string
		p       *Payload
		charset string
		mime    string
	}{
		{"csv default", NewPayload(CSV, nil, "a"), "utf-8", "text/csv; charset=utf-8"},
		{"csv cp1252", NewPayload(CSV, nil, "a").WithCharset("Windows-1252"), "windows-1252", "text/csv; charset=windows-1252"},
		{"csv unnamed", NewPayload(CSV, nil, "a").WithCharset(""), "", "text/csv"},
		{"html default", NewPayload(HTML, nil, "a"), "utf-8", "text/html; charset=utf-8"},
		{"pdf ignores charset", NewPayload(PDF, nil, "a").WithCharset("utf-8"), "", "application/pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Charset(); got != tt.charset {
				t.Errorf("Charset() = %q, want %q", got, tt.charset)
			}
			if got := tt.p.MimeType(); got != tt.mime {
				t.Errorf("MimeType() = %q, want %q", got, tt.mime)
			}
		})
	}
}

func TestPayload_WithCharsetCopies(t *testing.T) {
	p := NewPayload(CSV, []byte("x"), "a")
	q := p.WithCharset("windows-1252")
	if p.Charset() != "utf-8" {
		t.Errorf("original charset changed to %q", p.Charset())
	}
	if q.FileName() != p.FileName() || string(q.Bytes()) != "x" {
		t.Errorf("copy lost data: %q %q", q.FileName(), q.Bytes())
	}
}
