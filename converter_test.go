package kinet_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	kinet "github.com/gymkirchenfeld/ch.kinet.pdflib"
	"github.com/gymkirchenfeld/ch.kinet.pdflib/internal/pdfread"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestConverter(t *testing.T) *kinet.Converter {
	t.Helper()
	skipIfNoChrome(t)
	c, err := kinet.NewConverter(kinet.WithNoSandbox())
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// isPDF checks whether data starts with the PDF magic number.
func isPDF(data []byte) bool {
	return len(data) > 4 && string(data[:5]) == "%PDF-"
}

func TestConvertHTML_Basic(t *testing.T) {
	c := newTestConverter(t)

	p, err := c.ConvertHTML(context.Background(), "<h1>Hello World</h1>", "hello", nil)
	if err != nil {
		t.Fatalf("ConvertHTML: %v", err)
	}
	if !isPDF(p.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
	if p.FileName() != "hello.pdf" {
		t.Errorf("FileName() = %q, want hello.pdf", p.FileName())
	}
	if p.Kind() != kinet.PDF {
		t.Errorf("Kind() = %v, want pdf", p.Kind())
	}
}

func TestConvertHTML_Landscape(t *testing.T) {
	c := newTestConverter(t)

	pg := &kinet.PageConfig{
		Size:            kinet.A4,
		Orientation:     kinet.Landscape,
		Margin:          kinet.UniformMargin(2.0),
		PrintBackground: true,
	}
	p, err := c.ConvertHTML(context.Background(), "<p>wide</p>", "wide", pg)
	if err != nil {
		t.Fatalf("ConvertHTML: %v", err)
	}

	doc, err := pdfread.Load(p.Bytes())
	if err != nil {
		t.Fatalf("pdfread.Load: %v", err)
	}
	pages, err := doc.Pages()
	if err != nil || len(pages) == 0 {
		t.Fatalf("Pages() = %d, %v", len(pages), err)
	}
	info := doc.PageInfo(pages[0])
	if info.Width <= info.Height {
		t.Errorf("landscape page is %.1f x %.1f", info.Width, info.Height)
	}
}

func TestConvertMarkdown(t *testing.T) {
	c := newTestConverter(t)

	p, err := c.ConvertMarkdown(context.Background(), "# Notes\n\n- [x] graded\n", "notes.md", nil)
	if err != nil {
		t.Fatalf("ConvertMarkdown: %v", err)
	}
	if !isPDF(p.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
	if p.FileName() != "notes.md.pdf" {
		t.Errorf("FileName() = %q", p.FileName())
	}
}

func TestConvertFile(t *testing.T) {
	c := newTestConverter(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.html")
	if err := os.WriteFile(path, []byte("<h1>From File</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := c.ConvertFile(context.Background(), path, "", nil)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if !isPDF(p.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
	if p.FileName() != "test.pdf" {
		t.Errorf("FileName() = %q, want test.pdf", p.FileName())
	}
}

func TestConvertFile_NotFound(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ConvertFile(context.Background(), "/nonexistent/file.html", "", nil)
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestConvertURL_InvalidURL(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ConvertURL(context.Background(), "not a url", "", nil)
	if err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestConvertHTML_Cancelled(t *testing.T) {
	c := newTestConverter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ConvertHTML(ctx, "<p>never</p>", "", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConverter_CloseIdempotent(t *testing.T) {
	skipIfNoChrome(t)

	c, err := kinet.NewConverter(kinet.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestConverter_UsedAfterClose(t *testing.T) {
	skipIfNoChrome(t)

	c, err := kinet.NewConverter(kinet.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}
	c.Close()

	_, err = c.ConvertHTML(context.Background(), "<p>test</p>", "", nil)
	if err != kinet.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	_, err = c.ConvertMarkdown(context.Background(), "test", "", nil)
	if err != kinet.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestConvertHTML_PackageLevel(t *testing.T) {
	skipIfNoChrome(t)

	p, err := kinet.ConvertHTML(
		context.Background(),
		"<p>Package-level function</p>",
		"",
		nil,
		kinet.WithNoSandbox(),
	)
	if err != nil {
		t.Fatalf("ConvertHTML: %v", err)
	}
	if !isPDF(p.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
	if !strings.HasPrefix(p.FileName(), "export-") {
		t.Errorf("FileName() = %q, want generated export- name", p.FileName())
	}
}

func TestAllPageSizes(t *testing.T) {
	c := newTestConverter(t)

	sizes := []struct {
		name string
		size kinet.PageSize
	}{
		{"A3", kinet.A3},
		{"A4", kinet.A4},
		{"A5", kinet.A5},
		{"Letter", kinet.Letter},
		{"Legal", kinet.Legal},
		{"Tabloid", kinet.Tabloid},
	}

	for _, s := range sizes {
		t.Run(s.name, func(t *testing.T) {
			p, err := c.ConvertHTML(context.Background(), "<p>"+s.name+"</p>", s.name, &kinet.PageConfig{
				Size:            s.size,
				Scale:           1.0,
				PrintBackground: true,
			})
			if err != nil {
				t.Fatalf("ConvertHTML(%s): %v", s.name, err)
			}
			if !isPDF(p.Bytes()) {
				t.Fatalf("%s: output is not a valid PDF", s.name)
			}
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	p := kinet.RenderMarkdown("- [ ] open\n", "todo.md")
	if p.Kind() != kinet.HTML {
		t.Fatalf("Kind() = %v, want html", p.Kind())
	}
	if p.FileName() != "todo.md.html" {
		t.Errorf("FileName() = %q", p.FileName())
	}
	body := string(p.Bytes())
	if !strings.Contains(body, "<title>todo</title>") {
		t.Errorf("missing title in %q", body)
	}
	if !strings.Contains(body, "fa-square") {
		t.Errorf("missing task marker in %q", body)
	}
}
