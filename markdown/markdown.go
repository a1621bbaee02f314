// Package markdown renders Markdown source to HTML with the fixed
// extension set used by the export toolkit: task lists with icon markers,
// autolinked URLs, strikethrough and definition lists. Soft line breaks are
// rendered as explicit <br /> tags.
//
//	html := markdown.ToHTML("- [ ] review\n- [x] grade")
//
// A [Renderer] is immutable after construction and safe for concurrent use.
package markdown

import (
	"bytes"
	"html"
	"io"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Default task list markers. They reference Font Awesome icons so that the
// surrounding web application can make them clickable.
const (
	DoneMarker    = `<i class="far fa-fw fa-check-square clickable"></i> `
	NotDoneMarker = `<i class="far fa-fw fa-square clickable"></i> `
)

type config struct {
	done    string
	notDone string
	unsafe  bool
}

// Option configures a [Renderer].
type Option func(*config)

// WithDoneMarker replaces the HTML emitted for a checked task list item.
func WithDoneMarker(s string) Option {
	return func(c *config) {
		c.done = s
	}
}

// WithNotDoneMarker replaces the HTML emitted for an unchecked task list item.
func WithNotDoneMarker(s string) Option {
	return func(c *config) {
		c.notDone = s
	}
}

// WithUnsafe passes raw HTML embedded in the source through unchanged.
// By default it is replaced with an HTML comment.
func WithUnsafe() Option {
	return func(c *config) {
		c.unsafe = true
	}
}

// Renderer converts Markdown to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a Renderer with the toolkit's extension set.
func NewRenderer(opts ...Option) *Renderer {
	cfg := config{done: DoneMarker, notDone: NotDoneMarker}
	for _, o := range opts {
		o(&cfg)
	}

	rendererOpts := []renderer.Option{
		ghtml.WithHardWraps(),
		ghtml.WithXHTML(),
		renderer.WithNodeRenderers(
			util.Prioritized(&taskMarkerRenderer{done: cfg.done, notDone: cfg.notDone}, 100),
		),
	}
	if cfg.unsafe {
		rendererOpts = append(rendererOpts, ghtml.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Strikethrough,
			extension.DefinitionList,
		),
		goldmark.WithParserOptions(
			parser.WithInlineParsers(
				util.Prioritized(extension.NewTaskCheckBoxParser(), 0),
			),
			parser.WithASTTransformers(
				util.Prioritized(taskItemClass{}, 100),
			),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Renderer{md: md}
}

// Convert renders src as HTML into w.
func (r *Renderer) Convert(w io.Writer, src []byte) error {
	return r.md.Convert(src, w)
}

// ToHTML renders src and returns the HTML. Empty input yields "".
func (r *Renderer) ToHTML(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.Convert(&buf, []byte(src)); err != nil {
		// Rendering into a bytes.Buffer only fails on a broken node renderer.
		return ""
	}
	return buf.String()
}

var defaultRenderer = NewRenderer()

// ToHTML renders src with the default renderer. Empty input yields "".
func ToHTML(src string) string {
	return defaultRenderer.ToHTML(src)
}

// ToHTMLPtr is ToHTML for optional values: nil maps to "".
func ToHTMLPtr(src *string) string {
	if src == nil {
		return ""
	}
	return ToHTML(*src)
}

// Document wraps an HTML fragment in a minimal standalone page suitable for
// printing. The title is escaped.
func Document(title, body string) string {
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\" />\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString("body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// TaskItemClass is the class attribute set on list items that start with a
// task marker.
const TaskItemClass = "task-list-item"

// taskItemClass marks the list items that carry a task checkbox so that
// stylesheets can drop their bullets.
type taskItemClass struct{}

func (taskItemClass) Transform(doc *gast.Document, _ text.Reader, _ parser.Context) {
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering || n.Kind() != east.KindTaskCheckBox {
			return gast.WalkContinue, nil
		}
		if block := n.Parent(); block != nil {
			if item, ok := block.Parent().(*gast.ListItem); ok {
				item.SetAttributeString("class", []byte(TaskItemClass))
			}
		}
		return gast.WalkSkipChildren, nil
	})
}

// taskMarkerRenderer replaces goldmark's checkbox inputs with fixed markers.
type taskMarkerRenderer struct {
	done    string
	notDone string
}

func (r *taskMarkerRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(east.KindTaskCheckBox, r.renderTaskCheckBox)
}

func (r *taskMarkerRenderer) renderTaskCheckBox(w util.BufWriter, _ []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*east.TaskCheckBox)
	if n.IsChecked {
		_, _ = w.WriteString(r.done)
	} else {
		_, _ = w.WriteString(r.notDone)
	}
	return gast.WalkContinue, nil
}
