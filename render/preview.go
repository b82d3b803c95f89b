package render

//go:generate go tool stringer --linecomment --type ImageFormat --output imageformat_string.go

import (
	"bytes"
	"context"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/rptkit/report"
)

// ImageFormat is the encoding of a rendered page image.
type ImageFormat int

const (
	PNG  ImageFormat = iota // png
	JPEG                    // jpeg
)

// Ext returns the file name extension of f, including the dot.
func (f ImageFormat) Ext() string {
	if f == JPEG {
		return ".jpg"
	}

	return ".png"
}

// ParseImageFormat parses "png", "jpeg", or "jpg", ignoring case.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}

	return 0, ErrFormat.With(slog.String("format", s))
}

// Renderer turns a template and its data into output pages.
type Renderer interface {
	// RenderToImages returns one encoded image per page.
	RenderToImages(ctx context.Context, t *report.Template, data any, format ImageFormat) ([][]byte, error)
	// RenderToPages returns one document per page for print preview.
	RenderToPages(ctx context.Context, t *report.Template, data any) ([][]byte, error)
}

var _ Renderer = (*Preview)(nil)

// Preview renders pages as YAML documents or raster images. It is safe for
// concurrent use.
type Preview struct {
	opts options
}

// NewPreview returns a Preview configured with opts.
func NewPreview(opts ...Option) *Preview {
	return &Preview{opts: makeOptions(opts...)}
}

// Pages lays out t with data. See [Rows] for the accepted data shapes.
func (p *Preview) Pages(ctx context.Context, t *report.Template, data any) ([]Page, error) {
	rows, err := Rows(data)
	if err != nil {
		return nil, err
	}

	return layoutPages(ctx, t, rows, p.opts)
}

// RenderToPages returns each page as a YAML document.
func (p *Preview) RenderToPages(ctx context.Context, t *report.Template, data any) ([][]byte, error) {
	start := time.Now()

	pages, err := p.Pages(ctx, t, data)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(pages))

	for i := range pages {
		b, err := yaml.MarshalContext(ctx, &pages[i])
		if err != nil {
			return nil, ErrEncode.Wrap(err).With(slog.Int("page", pages[i].Number))
		}

		out[i] = b
	}

	p.opts.metrics.observe("yaml", start, len(out))

	return out, nil
}

// RenderToImages rasterizes each page at the configured resolution.
func (p *Preview) RenderToImages(ctx context.Context, t *report.Template, data any, format ImageFormat) ([][]byte, error) {
	if format != PNG && format != JPEG {
		return nil, ErrFormat.With(slog.Int("format", int(format)))
	}

	start := time.Now()

	pages, err := p.Pages(ctx, t, data)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(pages))

	for i := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img := rasterize(&pages[i], p.opts.dpi)

		var buf bytes.Buffer
		if format == JPEG {
			err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.opts.quality})
		} else {
			err = png.Encode(&buf, img)
		}

		if err != nil {
			return nil, ErrEncode.Wrap(err).With(slog.Int("page", pages[i].Number))
		}

		out[i] = buf.Bytes()
	}

	p.opts.metrics.observe(format.String(), start, len(out))

	return out, nil
}
