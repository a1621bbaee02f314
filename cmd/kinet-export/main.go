// kinet-export builds PDF reports, CSV tables and Markdown pages from the
// command line and reads back the text of PDF files.
//
// Usage:
//
//	kinet-export report [-o out.pdf] job.toml
//	kinet-export markdown [options] file.md
//	kinet-export csv [options] table.toml
//	kinet-export text [-p range] [-f format] file.pdf
//	kinet-export info file.pdf
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	kinet "github.com/gymkirchenfeld/ch.kinet.pdflib"
	"github.com/gymkirchenfeld/ch.kinet.pdflib/csv"
	"github.com/gymkirchenfeld/ch.kinet.pdflib/internal/pdfread"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("kinet-export: ")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "report":
		err = runReport(os.Args[2:])
	case "markdown":
		err = runMarkdown(os.Args[2:])
	case "csv":
		err = runCSV(os.Args[2:])
	case "text":
		err = runText(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`kinet-export - export reports, tables and Markdown

Usage:
  kinet-export report [-o out.pdf] job.toml
  kinet-export markdown [-o out] [-pdf] [-no-sandbox] [-download] file.md
  kinet-export csv [-o out.csv] [-hide-zero] [-cp1252] [-escape] table.toml
  kinet-export text [-p range] [-f format] file.pdf
  kinet-export info file.pdf

Commands:
  report    Build a PDF report from a TOML job file
  markdown  Render Markdown to HTML, or to PDF through headless Chrome
  csv       Export a TOML table as semicolon separated values
  text      Extract plain text from a PDF file
  info      Display document version and page dimensions

Options:
  -o <file>       Output file; "-" writes to stdout (default: payload name)
  -p <range>      Page range, e.g. "1", "1-5", "1,3,5" (default: all)
  -f <format>     Text output format: text, json, markdown (default: text)

Examples:
  kinet-export report -o grades.pdf grades.toml
  kinet-export markdown -pdf notes.md
  kinet-export csv -cp1252 -hide-zero marks.toml
  kinet-export text -p 1-2 grades.pdf
`)
}

// args is the result of scanning a subcommand's arguments.
type args struct {
	values map[string]string
	flags  map[string]bool
	input  string
}

// parseArgs scans raw for the options in withValue, which take an argument,
// and the boolean flags in switches. Exactly one positional argument is
// expected.
func parseArgs(raw []string, withValue, switches []string) (*args, error) {
	a := &args{values: map[string]string{}, flags: map[string]bool{}}
	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		switch {
		case contains(withValue, arg):
			i++
			if i >= len(raw) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			a.values[arg] = raw[i]
		case contains(switches, arg):
			a.flags[arg] = true
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, fmt.Errorf("unknown option: %s", arg)
		default:
			if a.input != "" {
				return nil, fmt.Errorf("unexpected argument: %s", arg)
			}
			a.input = arg
		}
	}
	if a.input == "" {
		return nil, fmt.Errorf("no input file specified")
	}
	return a, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// writePayload stores p at out, on stdout for "-", or under the payload's
// own name when out is empty.
func writePayload(p *kinet.Payload, out string) error {
	if out == "-" {
		_, err := p.WriteTo(os.Stdout)
		return err
	}
	if out == "" {
		out = p.FileName()
	}
	if err := p.WriteToFile(out, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s (%s, %d bytes)", out, p.MimeType(), p.Len())
	return nil
}

// runReport implements the "report" command.
func runReport(raw []string) error {
	a, err := parseArgs(raw, []string{"-o"}, nil)
	if err != nil {
		return err
	}
	job, err := loadReportJob(a.input)
	if err != nil {
		return err
	}
	p, err := job.build(filepath.Dir(a.input))
	if err != nil {
		return fmt.Errorf("building %s: %w", a.input, err)
	}
	return writePayload(p, a.values["-o"])
}

// runMarkdown implements the "markdown" command.
func runMarkdown(raw []string) error {
	a, err := parseArgs(raw, []string{"-o"}, []string{"-pdf", "-no-sandbox", "-download"})
	if err != nil {
		return err
	}
	src, err := os.ReadFile(a.input)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(a.input), filepath.Ext(a.input))

	if !a.flags["-pdf"] {
		return writePayload(kinet.RenderMarkdown(string(src), name), a.values["-o"])
	}

	var opts []kinet.Option
	if a.flags["-no-sandbox"] {
		opts = append(opts, kinet.WithNoSandbox())
	}
	if a.flags["-download"] {
		opts = append(opts, kinet.WithAutoDownload())
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("printing %s through Chrome", a.input)
	p, err := kinet.ConvertMarkdown(ctx, string(src), name, nil, opts...)
	if err != nil {
		return err
	}
	return writePayload(p, a.values["-o"])
}

// runCSV implements the "csv" command.
func runCSV(raw []string) error {
	a, err := parseArgs(raw, []string{"-o"}, []string{"-hide-zero", "-cp1252", "-escape"})
	if err != nil {
		return err
	}
	table, err := loadCSVTable(a.input)
	if err != nil {
		return err
	}

	var opts []csv.Option
	if a.flags["-cp1252"] {
		opts = append(opts, csv.WithEncoding(charmap.Windows1252))
	}
	if a.flags["-escape"] {
		opts = append(opts, csv.WithQuoteEscaping())
	}
	w, err := csv.NewWithHeaders(table.Headers, opts...)
	if err != nil {
		return err
	}
	w.SetHideZero(a.flags["-hide-zero"])
	if err := table.write(w); err != nil {
		return fmt.Errorf("%s: %w", a.input, err)
	}

	name := table.FileName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(a.input), filepath.Ext(a.input))
	}
	p, err := w.ToData(name)
	if err != nil {
		return err
	}
	return writePayload(p, a.values["-o"])
}

// runText implements the "text" command.
func runText(raw []string) error {
	a, err := parseArgs(raw, []string{"-o", "-p", "-f"}, nil)
	if err != nil {
		return err
	}
	format := a.values["-f"]
	if format == "" {
		format = "text"
	}

	doc, err := pdfread.Open(a.input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", a.input, err)
	}
	pages, err := doc.Pages()
	if err != nil {
		return fmt.Errorf("reading pages: %w", err)
	}
	indices, err := parsePageRange(a.values["-p"], len(pages))
	if err != nil {
		return fmt.Errorf("invalid page range %q: %w", a.values["-p"], err)
	}

	var results []pageResult
	for _, idx := range indices {
		text, err := doc.Text(pages[idx])
		if err != nil {
			log.Printf("page %d: %v", idx+1, err)
			continue
		}
		results = append(results, pageResult{Page: idx + 1, Text: text})
	}

	emit := func(w io.Writer) error { return writeResults(w, format, results) }
	path := a.values["-o"]
	if path == "" || path == "-" {
		return emit(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	return writeAndClose(f, emit)
}

type pageResult struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// writeResults formats the extracted page texts as text, markdown or json.
func writeResults(w io.Writer, format string, results []pageResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	case "markdown":
		for _, r := range results {
			if _, err := fmt.Fprintf(w, "## Page %d\n\n%s\n\n", r.Page, r.Text); err != nil {
				return err
			}
		}
	case "text":
		for i, r := range results {
			if i > 0 {
				if _, err := fmt.Fprintln(w, "\f"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, r.Text); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// writeAndClose runs emit against wc and closes it. A failed close is
// reported unless emit already failed.
func writeAndClose(wc io.WriteCloser, emit func(io.Writer) error) error {
	err := emit(wc)
	if cerr := wc.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing output file: %w", cerr)
	}
	return err
}

// runInfo implements the "info" command.
func runInfo(raw []string) error {
	a, err := parseArgs(raw, nil, nil)
	if err != nil {
		return err
	}
	doc, err := pdfread.Open(a.input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", a.input, err)
	}
	pages, err := doc.Pages()
	if err != nil {
		return fmt.Errorf("reading pages: %w", err)
	}

	fmt.Printf("File:    %s\n", a.input)
	fmt.Printf("Version: PDF-%s\n", doc.Version())
	fmt.Printf("Pages:   %d\n", len(pages))
	if len(pages) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println("Page dimensions:")
	for i, pg := range pages {
		info := doc.PageInfo(pg)
		fmt.Printf("  Page %d: %.2f x %.2f cm", i+1, info.Width/kinet.PointsPerCm, info.Height/kinet.PointsPerCm)
		if info.Rotation != 0 {
			fmt.Printf(" (rotated %d°)", info.Rotation)
		}
		fmt.Println()
	}
	return nil
}

// parsePageRange converts a page range to 0-based page indices.
// Supported forms: "" (all), "3", "1-5" and lists such as "1,3-4".
func parsePageRange(spec string, total int) ([]int, error) {
	if spec == "" {
		indices := make([]int, total)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	var indices []int
	seen := make(map[int]bool)
	add := func(p int) {
		if !seen[p] {
			indices = append(indices, p-1)
			seen[p] = true
		}
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid page number: %s", lo)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page number: %s", hi)
			}
			if start < 1 || end > total || start > end {
				return nil, fmt.Errorf("page range %d-%d out of bounds (1-%d)", start, end, total)
			}
			for p := start; p <= end; p++ {
				add(p)
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %s", part)
		}
		if p < 1 || p > total {
			return nil, fmt.Errorf("page %d out of bounds (1-%d)", p, total)
		}
		add(p)
	}
	return indices, nil
}
