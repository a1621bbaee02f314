// Package kinet holds the shared pieces of the kinet export toolkit: the
// [Payload] every exporter returns, page geometry in centimeters and a
// Chrome-backed HTML to PDF [Converter].
//
// The format specific exporters live in sub-packages:
//
//   - [github.com/gymkirchenfeld/ch.kinet.pdflib/pdf] builds paginated reports
//   - [github.com/gymkirchenfeld/ch.kinet.pdflib/csv] writes semicolon separated tables
//   - [github.com/gymkirchenfeld/ch.kinet.pdflib/markdown] renders Markdown to HTML
//
// # Payloads
//
// A [Payload] carries the produced bytes, a suggested file name and a media
// kind:
//
//	p.Bytes()                         // []byte
//	p.FileName()                      // "grades.csv"
//	p.MimeType()                      // "text/csv; charset=utf-8"
//	p.Base64()                        // base64 string (RFC 4648)
//	p.WriteToFile("out.pdf", 0o644)   // write to disk
//
// # HTML to PDF
//
// For one-off conversions use the package-level helpers:
//
//	p, err := kinet.ConvertHTML(ctx, "<h1>Hello</h1>", "hello", nil)
//
// For repeated conversions create a [Converter], which reuses the browser process:
//
//	c, err := kinet.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	p, err := c.ConvertMarkdown(ctx, "# Notes\n\n- [x] graded", "notes", nil)
//	p, err  = c.ConvertURL(ctx, "https://example.com", "page", nil)
//	p, err  = c.ConvertFile(ctx, "report.html", "", nil)
//
// Use [PageConfig] to control paper size, orientation, margins, and scale:
//
//	pg := &kinet.PageConfig{
//	    Size:        kinet.A4,
//	    Orientation: kinet.Landscape,
//	    Margin:      kinet.UniformMargin(2.0),
//	}
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload].
package kinet
