package render

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ardnew/rptkit/report"
)

const mmPerInch = 25.4

var face = basicfont.Face7x13

// rasterize paints pg on a white canvas at dpi dots per inch.
func rasterize(pg *Page, dpi float64) *image.RGBA {
	scale := dpi / mmPerInch
	bounds := image.Rect(0, 0, px(pg.Size.Width, scale), px(pg.Size.Height, scale))
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.White, image.Point{}, draw.Src)

	for _, b := range pg.Bands {
		for i := range b.Items {
			paint(img, &b.Items[i], scale)
		}
	}

	return img
}

func px(mm, scale float64) int { return int(math.Round(mm * scale)) }

// paint draws it clipped to its own rectangle.
func paint(img *image.RGBA, it *Item, scale float64) {
	r := image.Rect(
		px(it.X, scale), px(it.Y, scale),
		px(it.X+it.Width, scale), px(it.Y+it.Height, scale),
	).Intersect(img.Bounds())
	if r.Empty() {
		return
	}

	dst, ok := img.SubImage(r).(*image.RGBA)
	if !ok {
		return
	}

	fore := parseColor(it.ForeColor, color.Black)

	switch it.Type {
	case report.Line:
		stroke := max(1, px(it.Border.Width*0.25, scale))
		line(dst, lineDirection(it), stroke, fore)

	case report.Rectangle, report.RoundedRectangle, report.Ellipse:
		shape(dst, it, scale, fore)

	case report.Barcode:
		fill(dst, parseColor(it.BackColor, color.White))
		bars(dst, it.Text, fore, it.Properties.Barcode == nil || it.Properties.Barcode.ShowText)

	case report.QRCode:
		fill(dst, parseColor(it.BackColor, color.White))
		modules(dst, it.Text, fore)

	case report.Image, report.SubReport:
		fill(dst, color.RGBA{0xEE, 0xEE, 0xEE, 0xFF})
		outline(dst, r, 1, color.Gray{0x99})

		label := it.Text
		if it.Type == report.SubReport || label == "" {
			label = it.Type.String()
		}

		text(dst, label, report.AlignCenter, report.AlignMiddle, false, color.Gray{0x55})

	default:
		if back := parseColor(it.BackColor, color.White); back != color.White {
			fill(dst, back)
		}

		wrap := it.Properties.Text != nil && it.Properties.Text.WordWrap
		text(dst, it.Text, it.TextAlign, it.VerticalAlign, wrap, fore)
	}

	if it.Border.Enabled && it.Type != report.Line && it.Type != report.Ellipse && it.Type != report.RoundedRectangle {
		outline(dst, r, max(1, px(it.Border.Width*0.25, scale)), parseColor(it.Border.Color, color.Black))
	}
}

func fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Over)
}

func outline(dst *image.RGBA, r image.Rectangle, w int, c color.Color) {
	src := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		{r.Min, image.Pt(r.Max.X, r.Min.Y+w)},
		{image.Pt(r.Min.X, r.Max.Y-w), r.Max},
		{r.Min, image.Pt(r.Min.X+w, r.Max.Y)},
		{image.Pt(r.Max.X-w, r.Min.Y), r.Max},
	} {
		draw.Draw(dst, edge, src, image.Point{}, draw.Src)
	}
}

func lineDirection(it *Item) string {
	if it.Properties.Line != nil && it.Properties.Line.Direction != "" {
		return strings.ToLower(it.Properties.Line.Direction)
	}

	if it.Height > it.Width {
		return "vertical"
	}

	return "horizontal"
}

func line(dst *image.RGBA, dir string, w int, c color.Color) {
	r := dst.Bounds()

	switch dir {
	case "vertical":
		x := (r.Min.X + r.Max.X - w) / 2
		draw.Draw(dst, image.Rect(x, r.Min.Y, x+w, r.Max.Y), image.NewUniform(c), image.Point{}, draw.Src)
	case "diagonal":
		dx, dy := r.Dx(), r.Dy()
		n := max(dx, dy)

		for i := range n {
			x := r.Min.X + i*dx/n
			y := r.Min.Y + i*dy/n

			for k := range w {
				dst.Set(x+k, y, c)
			}
		}
	default:
		y := (r.Min.Y + r.Max.Y - w) / 2
		draw.Draw(dst, image.Rect(r.Min.X, y, r.Max.X, y+w), image.NewUniform(c), image.Point{}, draw.Src)
	}
}

// shape fills and outlines a rectangle, rounded rectangle, or ellipse
// inscribed in dst.
func shape(dst *image.RGBA, it *Item, scale float64, fore color.Color) {
	r := dst.Bounds()
	fillColor := parseColor(it.BackColor, color.White)

	radius := 0.0
	if p := it.Properties.Shape; p != nil {
		if p.FillColor != "" {
			fillColor = parseColor(p.FillColor, fillColor)
		}

		radius = p.CornerRadius * scale
	}

	stroke := fore
	if it.Border.Enabled {
		stroke = parseColor(it.Border.Color, fore)
	}

	inside := func(x, y int) bool {
		fx := float64(x-r.Min.X) + 0.5
		fy := float64(y-r.Min.Y) + 0.5
		w, h := float64(r.Dx()), float64(r.Dy())

		switch it.Type {
		case report.Ellipse:
			ex, ey := (fx-w/2)/(w/2), (fy-h/2)/(h/2)

			return ex*ex+ey*ey <= 1
		case report.RoundedRectangle:
			rad := min(radius, w/2, h/2)
			cx := min(max(fx, rad), w-rad)
			cy := min(max(fy, rad), h-rad)

			return (fx-cx)*(fx-cx)+(fy-cy)*(fy-cy) <= rad*rad
		}

		return true
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !inside(x, y) {
				continue
			}

			edge := x == r.Min.X || y == r.Min.Y || x == r.Max.X-1 || y == r.Max.Y-1 ||
				!inside(x-1, y) || !inside(x+1, y) || !inside(x, y-1) || !inside(x, y+1)
			if edge {
				dst.Set(x, y, stroke)
			} else {
				dst.Set(x, y, fillColor)
			}
		}
	}
}

// bars draws a barcode-like stripe pattern of s, with s printed beneath
// when caption is set.
func bars(dst *image.RGBA, s string, c color.Color, caption bool) {
	r := dst.Bounds()
	bottom := r.Max.Y

	if caption && r.Dy() > 2*face.Height {
		bottom -= face.Height + 2
		below, _ := dst.SubImage(image.Rect(r.Min.X, bottom, r.Max.X, r.Max.Y)).(*image.RGBA)
		text(below, s, report.AlignCenter, report.AlignMiddle, false, c)
	}

	x := r.Min.X + 2
	for _, b := range []byte("*" + s + "*") {
		for bit := 7; bit >= 0 && x < r.Max.X-2; bit-- {
			w := 1 + int(b>>bit&1)
			if bit%2 == 0 {
				draw.Draw(dst, image.Rect(x, r.Min.Y+2, x+w, bottom), image.NewUniform(c), image.Point{}, draw.Src)
			}

			x += w + 1
		}
	}
}

// modules draws a deterministic square matrix derived from s with finder
// squares in three corners.
func modules(dst *image.RGBA, s string, c color.Color) {
	const n = 21

	r := dst.Bounds()
	side := min(r.Dx(), r.Dy())
	cell := max(side/n, 1)
	ox := r.Min.X + (r.Dx()-cell*n)/2
	oy := r.Min.Y + (r.Dy()-cell*n)/2

	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	seed := h.Sum64()

	finder := func(i, j int) (bool, bool) {
		for _, o := range [][2]int{{0, 0}, {n - 7, 0}, {0, n - 7}} {
			di, dj := i-o[0], j-o[1]
			if di >= 0 && di < 7 && dj >= 0 && dj < 7 {
				ring := di == 0 || di == 6 || dj == 0 || dj == 6
				core := di >= 2 && di <= 4 && dj >= 2 && dj <= 4

				return true, ring || core
			}
		}

		return false, false
	}

	for j := range n {
		for i := range n {
			in, on := finder(i, j)
			if !in {
				seed ^= seed << 13
				seed ^= seed >> 7
				seed ^= seed << 17
				on = seed&1 == 1
			}

			if on {
				x, y := ox+i*cell, oy+j*cell
				draw.Draw(dst, image.Rect(x, y, x+cell, y+cell), image.NewUniform(c), image.Point{}, draw.Src)
			}
		}
	}
}

// text draws s in dst with the fixed basic font, wrapping at word
// boundaries when wrap is set. Lines that do not fit are clipped.
func text(dst *image.RGBA, s string, align report.TextAlign, valign report.VerticalAlign, wrap bool, c color.Color) {
	if dst == nil || s == "" {
		return
	}

	r := dst.Bounds().Inset(1)
	if r.Empty() {
		return
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}

	var lines []string

	for para := range strings.SplitSeq(s, "\n") {
		if wrap {
			lines = append(lines, wrapLine(d, para, r.Dx())...)
		} else {
			lines = append(lines, para)
		}
	}

	height := len(lines) * face.Height

	top := r.Min.Y
	switch valign {
	case report.AlignMiddle:
		top += (r.Dy() - height) / 2
	case report.AlignBottom:
		top = r.Max.Y - height
	}

	for i, ln := range lines {
		w := d.MeasureString(ln).Round()

		x := r.Min.X
		switch align {
		case report.AlignCenter:
			x += (r.Dx() - w) / 2
		case report.AlignRight:
			x = r.Max.X - w
		}

		d.Dot = fixed.P(x, top+i*face.Height+face.Ascent)
		d.DrawString(ln)
	}
}

func wrapLine(d *font.Drawer, s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   = words[0]
	)

	for _, w := range words[1:] {
		if d.MeasureString(cur+" "+w).Round() > width {
			lines = append(lines, cur)
			cur = w

			continue
		}

		cur += " " + w
	}

	return append(lines, cur)
}

var namedColors = map[string]color.Color{
	"black":       color.Black,
	"white":       color.White,
	"transparent": color.Transparent,
	"red":         color.RGBA{0xFF, 0, 0, 0xFF},
	"green":       color.RGBA{0, 0x80, 0, 0xFF},
	"blue":        color.RGBA{0, 0, 0xFF, 0xFF},
	"gray":        color.RGBA{0x80, 0x80, 0x80, 0xFF},
	"grey":        color.RGBA{0x80, 0x80, 0x80, 0xFF},
	"lightgray":   color.RGBA{0xD3, 0xD3, 0xD3, 0xFF},
	"yellow":      color.RGBA{0xFF, 0xFF, 0, 0xFF},
}

// parseColor reads "#RGB", "#RRGGBB", "#AARRGGBB", or a basic color name.
// Anything else yields def.
func parseColor(s string, def color.Color) color.Color {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return def
	}

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) == 6 {
		hex = "FF" + hex
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 8 {
		return def
	}

	c := color.NRGBA{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
	if c == (color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		return color.White
	}

	if c == (color.NRGBA{0, 0, 0, 0xFF}) {
		return color.Black
	}

	return c
}
