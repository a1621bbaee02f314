package kinet

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/gymkirchenfeld/ch.kinet.pdflib/markdown"
)

// Converter prints HTML documents to PDF payloads through headless Chrome.
//
// A Converter manages one browser instance that is reused across
// conversions. It is safe for concurrent use. Call [Converter.Close] when
// the Converter is no longer needed to release browser resources.
type Converter struct {
	cfg           converterConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Converter.Close] when finished.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.chromePath == "" && cfg.autoDownload {
		if cfg.chromePath = lookBrowser(); cfg.chromePath == "" {
			path, err := resolveBrowser()
			if err != nil {
				return nil, err
			}
			cfg.chromePath = path
		}
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("kinet: starting browser: %w", err)
	}

	return &Converter{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Converter, including the
// browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

// ConvertHTML prints an HTML string to a PDF payload named fileName.
// If pg is nil, [DefaultPageConfig] values are used.
func (c *Converter) ConvertHTML(ctx context.Context, html, fileName string, pg *PageConfig) (*Payload, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "kinet-*.html")
	if err != nil {
		return nil, fmt.Errorf("kinet: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("kinet: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("kinet: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("kinet: resolving path: %w", err)
	}
	return c.convert(ctx, "file://"+abs, fileName, pg)
}

// ConvertMarkdown renders src with [markdown.ToHTML], wraps it in a
// standalone page and prints it to a PDF payload.
func (c *Converter) ConvertMarkdown(ctx context.Context, src, fileName string, pg *PageConfig) (*Payload, error) {
	title := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	return c.ConvertHTML(ctx, markdown.Document(title, markdown.ToHTML(src)), fileName, pg)
}

// ConvertURL prints the web page at rawURL to a PDF payload.
func (c *Converter) ConvertURL(ctx context.Context, rawURL, fileName string, pg *PageConfig) (*Payload, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("kinet: invalid URL %q: %w", rawURL, err)
	}
	return c.convert(ctx, rawURL, fileName, pg)
}

// ConvertFile prints a local HTML file to a PDF payload. An empty fileName
// is derived from path.
func (c *Converter) ConvertFile(ctx context.Context, path, fileName string, pg *PageConfig) (*Payload, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("kinet: resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("kinet: %w", err)
	}
	if fileName == "" {
		fileName = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return c.convert(ctx, "file://"+abs, fileName, pg)
}

// convert performs the actual navigation and PDF generation.
func (c *Converter) convert(ctx context.Context, targetURL, fileName string, pg *PageConfig) (*Payload, error) {
	resolved := pg.resolved()

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()

	// Tie the tab to the caller's deadline and cancellation.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	width, height := resolved.paperDimensions()
	marginTop, marginRight, marginBottom, marginLeft := resolved.marginInches()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			params := page.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(marginTop).
				WithMarginRight(marginRight).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithScale(resolved.Scale).
				WithPrintBackground(resolved.PrintBackground).
				WithDisplayHeaderFooter(resolved.DisplayHeaderFooter)

			if resolved.HeaderTemplate != "" {
				params = params.WithHeaderTemplate(resolved.HeaderTemplate)
			}
			if resolved.FooterTemplate != "" {
				params = params.WithFooterTemplate(resolved.FooterTemplate)
			}

			var err error
			buf, _, err = params.Do(ctx)
			return err
		}),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("kinet: conversion aborted: %w", ctxErr)
		}
		return nil, fmt.Errorf("kinet: conversion failed: %w", err)
	}

	return NewPayload(PDF, buf, fileName), nil
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// --- Package-level convenience functions ---

// ConvertHTML prints an HTML string using a temporary [Converter].
// For repeated use, create a [Converter] with [NewConverter] to reuse the
// browser instance.
func ConvertHTML(ctx context.Context, html, fileName string, pg *PageConfig, opts ...Option) (*Payload, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertHTML(ctx, html, fileName, pg)
}

// ConvertMarkdown prints Markdown source using a temporary [Converter].
func ConvertMarkdown(ctx context.Context, src, fileName string, pg *PageConfig, opts ...Option) (*Payload, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertMarkdown(ctx, src, fileName, pg)
}

// RenderMarkdown renders Markdown source to an HTML payload without a
// browser. The body is wrapped in a standalone page.
func RenderMarkdown(src, fileName string) *Payload {
	title := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	return NewPayload(HTML, []byte(markdown.Document(title, markdown.ToHTML(src))), fileName)
}
