package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ardnew/rptkit/report"
)

func TestPreview_RenderToPages(t *testing.T) {
	p := NewPreview()

	docs, err := p.RenderToPages(t.Context(), salesTemplate(t), salesRows(4))
	if err != nil {
		t.Fatalf("RenderToPages: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("RenderToPages returned %d pages, want 2", len(docs))
	}

	var page Page
	if err := yaml.Unmarshal(docs[1], &page); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, docs[1])
	}

	if page.Number != 2 || len(page.Bands) != 3 {
		t.Errorf("page 2 = number %d with %d bands, want 2 with 3", page.Number, len(page.Bands))
	}

	if page.Bands[1].Kind != report.Detail || page.Bands[1].Row != 4 {
		t.Errorf("page 2 detail = %v row %d", page.Bands[1].Kind, page.Bands[1].Row)
	}

	if !strings.Contains(string(docs[0]), "kind: PageHeader") {
		t.Errorf("page 1 does not name its band kinds:\n%s", docs[0])
	}
}

func TestPreview_RenderToImages(t *testing.T) {
	tpl := salesTemplate(t)
	title := tpl.Sections[0].Elements[0]
	title.BackColor = "#FF0000"
	title.Border.Enabled = true

	tests := []struct {
		format ImageFormat
		opts   []Option
		w, h   int
		decode func([]byte) (image.Image, error)
	}{
		{PNG, nil, 794, 1123, func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }},
		{JPEG, []Option{WithDPI(48), WithQuality(80)}, 397, 561, func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) }},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			imgs, err := NewPreview(tt.opts...).RenderToImages(t.Context(), tpl, salesRows(2), tt.format)
			if err != nil {
				t.Fatalf("RenderToImages: %v", err)
			}

			if len(imgs) != 1 {
				t.Fatalf("RenderToImages returned %d images, want 1", len(imgs))
			}

			img, err := tt.decode(imgs[0])
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("image size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
			}

			if tt.format != PNG {
				return
			}

			// The title spans 35.4 to 115.4 mm across and 35.4 to 55.4 mm
			// down; its right half is background only.
			r, g, b, _ := img.At(380, 190).RGBA()
			if r>>8 != 0xFF || g>>8 != 0 || b>>8 != 0 {
				t.Errorf("title background = %v, want red", img.At(380, 190))
			}

			if c := color.GrayModel.Convert(img.At(5, 5)).(color.Gray); c.Y != 0xFF {
				t.Errorf("page corner = %v, want white", c)
			}
		})
	}
}

func TestPreview_BadFormat(t *testing.T) {
	_, err := NewPreview().RenderToImages(t.Context(), salesTemplate(t), nil, ImageFormat(9))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("RenderToImages error = %v, want ErrFormat", err)
	}
}

func TestPreview_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPreview(WithMetrics(reg))

	tpl := salesTemplate(t)
	tpl.Sections[1].Elements[1].Expression = "=1/0"

	if _, err := p.RenderToImages(t.Context(), tpl, salesRows(7), PNG); err != nil {
		t.Fatalf("RenderToImages: %v", err)
	}

	if got := testutil.ToFloat64(p.opts.metrics.pages.WithLabelValues("png")); got != 3 {
		t.Errorf("pages counter = %v, want 3", got)
	}

	if got := testutil.ToFloat64(p.opts.metrics.errors); got != 7 {
		t.Errorf("formula error counter = %v, want 7", got)
	}
}

func TestParseImageFormat(t *testing.T) {
	for in, want := range map[string]ImageFormat{"png": PNG, "PNG": PNG, "jpeg": JPEG, "jpg": JPEG} {
		if got, err := ParseImageFormat(in); err != nil || got != want {
			t.Errorf("ParseImageFormat(%q) = %v, %v", in, got, err)
		}
	}

	if _, err := ParseImageFormat("gif"); !errors.Is(err, ErrFormat) {
		t.Errorf("ParseImageFormat(gif) error = %v, want ErrFormat", err)
	}
}
