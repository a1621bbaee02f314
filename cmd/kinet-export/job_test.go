package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymkirchenfeld/ch.kinet.pdflib/csv"
	"github.com/gymkirchenfeld/ch.kinet.pdflib/internal/pdfread"
	"github.com/gymkirchenfeld/ch.kinet.pdflib/pdf"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const gradesJob = `
orientation = "landscape"
file_name = "grades"
title = "Grades 3a"

[[pages]]
margin_lr = 2
margin_tb = 1.5

  [[pages.blocks]]
  kind = "style"
  bold = true
  font_size = 14

  [[pages.blocks]]
  kind = "paragraph"
  text = "Grades 3a"
  align = "center"

  [[pages.blocks]]
  kind = "style"
  bold = false
  font_size = 10
  border_style = "dotted"
  valign = "middle"

  [[pages.blocks]]
  kind = "table"
  columns = [3, 1]

    [[pages.blocks.cells]]
    text = "Muster Anna"
    borders = ["bottom"]

    [[pages.blocks.cells]]
    text = "5.5"
    align = "right"
    borders = ["bottom", "left"]

    [[pages.blocks.cells]]
    image = "logo.png"
    max_width = 20
    max_height = 20

  [[pages.blocks]]
  kind = "image"
  path = "logo.png"
  max_width = 50
  max_height = 50

  [[pages.blocks]]
  kind = "paragraph"
  text = "Bern"
  fixed = [2, 1, 10]

[[pages]]
margin_lr = 1
margin_tb = 1

  [[pages.blocks]]
  kind = "paragraph"
  text = "Second page"
`

func TestReportJob(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	writeFile(t, dir, "logo.png", buf.String())
	path := writeFile(t, dir, "grades.toml", gradesJob)

	job, err := loadReportJob(path)
	require.NoError(t, err)
	assert.Equal(t, "grades", job.FileName)
	require.Len(t, job.Pages, 2)
	require.Len(t, job.Pages[0].Blocks, 6)
	assert.Len(t, job.Pages[0].Blocks[3].Cells, 3)

	p, err := job.build(dir)
	require.NoError(t, err)
	assert.Equal(t, "grades.pdf", p.FileName())

	doc, err := pdfread.Load(p.Bytes())
	require.NoError(t, err)
	pages, err := doc.Pages()
	require.NoError(t, err)
	require.Len(t, pages, 2)

	info := doc.PageInfo(pages[0])
	assert.Greater(t, info.Width, info.Height)

	first, err := doc.Text(pages[0])
	require.NoError(t, err)
	assert.Equal(t, "Grades 3a\nMuster Anna\n5.5\nBern", first)
	second, err := doc.Text(pages[1])
	require.NoError(t, err)
	assert.Equal(t, "Second page", second)
}

func TestReportJob_Errors(t *testing.T) {
	tests := []struct {
		name string
		job  string
		want string
	}{
		{"orientation", `orientation = "diagonal"`, "unknown orientation"},
		{"no pages", `file_name = "x"`, pdf.ErrNoPages.Error()},
		{"block kind", "[[pages]]\n[[pages.blocks]]\nkind = \"chart\"", `unknown block kind "chart"`},
		{"alignment", "[[pages]]\n[[pages.blocks]]\nkind = \"paragraph\"\nalign = \"justify\"", `unknown alignment "justify"`},
		{"fixed", "[[pages]]\n[[pages.blocks]]\nkind = \"paragraph\"\nfixed = [1, 2]", "fixed needs"},
		{"margin", "[[pages]]\nmargin_lr = -1", "page 1"},
		{"border", "[[pages]]\n[[pages.blocks]]\nkind = \"table\"\ncolumns = [1]\n[[pages.blocks.cells]]\nborders = [\"diagonal\"]", "cell 1"},
		{"missing image", "[[pages]]\n[[pages.blocks]]\nkind = \"image\"\npath = \"nope.png\"\nmax_width = 1\nmax_height = 1", "nope.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			job, err := loadReportJob(writeFile(t, dir, "job.toml", tt.job))
			require.NoError(t, err)
			_, err = job.build(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeTOML_UnknownKeys(t *testing.T) {
	dir := t.TempDir()
	_, err := loadReportJob(writeFile(t, dir, "job.toml", "orientation = \"portrait\"\npaper = \"A3\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys paper")
}

func TestParseBorders(t *testing.T) {
	b, err := parseBorders([]string{"TOP", "left"})
	require.NoError(t, err)
	assert.Equal(t, pdf.BorderTop|pdf.BorderLeft, b)

	b, err = parseBorders([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, pdf.BorderAll, b)

	b, err = parseBorders(nil)
	require.NoError(t, err)
	assert.Equal(t, pdf.BorderNone, b)
}

func TestParseStyleValues(t *testing.T) {
	v, err := parseVerticalAlignment("Bottom")
	require.NoError(t, err)
	assert.Equal(t, pdf.Bottom, v)
	_, err = parseVerticalAlignment("")
	assert.Error(t, err)

	s, err := parseBorderStyle("dashed")
	require.NoError(t, err)
	assert.Equal(t, pdf.Dashed, s)
	_, err = parseBorderStyle("wavy")
	assert.Error(t, err)
}

func TestCSVTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "marks.toml", `
file_name = "marks"
headers = ["Name", "Points", "Grade", "Date"]
rows = [
  ["Muster", 0, 5.5, 2024-06-30],
  ["Beispiel", 12],
]
`)
	table, err := loadCSVTable(path)
	require.NoError(t, err)

	w, err := csv.NewWithHeaders(table.Headers)
	require.NoError(t, err)
	w.SetHideZero(true)
	require.NoError(t, table.write(w))

	want := `"Name";"Points";"Grade";"Date"` + "\n" +
		`"Muster";;5.5;30.06.2024` + "\n" +
		`"Beispiel";12;;` + "\n"
	assert.Equal(t, want, w.String())
}

func TestCSVTable_TooManyValues(t *testing.T) {
	table := &csvTable{Headers: []string{"a"}, Rows: [][]any{{"x", "y"}}}
	w, err := csv.NewWithHeaders(table.Headers)
	require.NoError(t, err)
	err = table.write(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		spec    string
		total   int
		want    []int
		wantErr bool
	}{
		{"", 3, []int{0, 1, 2}, false},
		{"2", 3, []int{1}, false},
		{"1-3", 5, []int{0, 1, 2}, false},
		{"3,1-2,3", 3, []int{2, 0, 1}, false},
		{"0", 3, nil, true},
		{"2-1", 3, nil, true},
		{"x", 3, nil, true},
		{"1-9", 3, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parsePageRange(tt.spec, tt.total)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs(t *testing.T) {
	a, err := parseArgs([]string{"-o", "out.pdf", "-pdf", "in.md"}, []string{"-o"}, []string{"-pdf"})
	require.NoError(t, err)
	assert.Equal(t, "out.pdf", a.values["-o"])
	assert.True(t, a.flags["-pdf"])
	assert.Equal(t, "in.md", a.input)

	for _, raw := range [][]string{
		{"-o"},
		{"-x", "in.md"},
		{"a.md", "b.md"},
		{},
	} {
		_, err := parseArgs(raw, []string{"-o"}, []string{"-pdf"})
		assert.Error(t, err, strings.Join(raw, " "))
	}
}
