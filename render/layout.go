package render

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/report"
)

// ErrorText replaces the content of an element whose formula fails.
const ErrorText = "#ERROR"

// Variables bound for every formula in addition to the row fields.
const (
	VarPageNumber = "PageNumber"
	VarRowNumber  = "RowNumber"
	VarRowCount   = "RowCount"
)

// Page is a laid out report page. Coordinates are millimeters from the
// page's top-left corner.
type Page struct {
	Size   report.Size `json:"size"   yaml:"size"`
	Bands  []Band      `json:"bands"  yaml:"bands"`
	Number int         `json:"number" yaml:"number"`
}

// Band is a section placed on a page.
type Band struct {
	Section string             `json:"section" yaml:"section"`
	Items   []Item             `json:"items"   yaml:"items"`
	Top     float64            `json:"top"     yaml:"top"`
	Height  float64            `json:"height"  yaml:"height"`
	Row     int                `json:"row"     yaml:"row"` // 1-based detail row, 0 for other bands
	Kind    report.SectionKind `json:"kind"    yaml:"kind"`
}

// Item is an element resolved against a row and clipped to its band.
type Item struct {
	Properties    report.Properties    `json:"properties,omitempty" yaml:"properties,omitempty"`
	Name          string               `json:"name"                 yaml:"name"`
	Text          string               `json:"text,omitempty"       yaml:"text,omitempty"`
	ForeColor     string               `json:"foreColor"            yaml:"foreColor"`
	BackColor     string               `json:"backColor"            yaml:"backColor"`
	Font          report.Font          `json:"font"                 yaml:"font"`
	Border        report.Border        `json:"border"               yaml:"border"`
	X             float64              `json:"x"                    yaml:"x"`
	Y             float64              `json:"y"                    yaml:"y"`
	Width         float64              `json:"width"                yaml:"width"`
	Height        float64              `json:"height"               yaml:"height"`
	Type          report.ElementType   `json:"type"                 yaml:"type"`
	TextAlign     report.TextAlign     `json:"textAlign"            yaml:"textAlign"`
	VerticalAlign report.VerticalAlign `json:"verticalAlign"        yaml:"verticalAlign"`
	ID            uuid.UUID            `json:"id"                   yaml:"id"`
	Failed        bool                 `json:"failed,omitempty"     yaml:"failed,omitempty"`
}

// Layout resolves t against rows and splits the result into pages.
//
// The report header is placed once at the top of the first page, followed
// by the page header, which repeats on every page. Group headers come
// next, then one detail band per row, then group footers and the report
// footer. Page footers are pinned to the bottom of every page. A band that
// does not fit above the page footers starts a new page, unless the page
// holds nothing but its headers.
//
// Section and element visibility expressions are evaluated per row. A
// formula that fails is logged and its element shows [ErrorText]; a
// section whose visibility fails is shown.
func Layout(ctx context.Context, t *report.Template, rows []map[string]any, opts ...Option) ([]Page, error) {
	return layoutPages(ctx, t, rows, makeOptions(opts...))
}

func layoutPages(ctx context.Context, t *report.Template, rows []map[string]any, o options) ([]Page, error) {
	l := &layout{
		ctx:     ctx,
		t:       t,
		o:       o,
		rows:    rows,
		content: t.ContentSize(),
		groups:  make(map[report.SectionKind][]*report.Section),
	}

	for _, s := range t.OrderedSections() {
		l.groups[s.Kind] = append(l.groups[s.Kind], s)
	}

	for _, s := range l.groups[report.PageFooter] {
		if s.Visible {
			l.footer += s.Height
		}
	}

	if err := l.run(); err != nil {
		return nil, err
	}

	return l.pages, nil
}

type layout struct {
	ctx     context.Context
	t       *report.Template
	o       options
	rows    []map[string]any
	groups  map[report.SectionKind][]*report.Section
	pages   []Page
	content report.Size
	footer  float64 // height reserved for page footers
	cursor  float64 // next free offset below the top margin
	body    bool    // whether the current page holds more than headers
	done    bool    // whether every detail band is placed
	row     int     // 1-based row of the current detail band
	last    int     // index of the last placed detail row
}

func (l *layout) run() error {
	l.open()
	l.place(report.ReportHeader)
	l.place(report.PageHeader)

	if err := l.ctx.Err(); err != nil {
		return err
	}

	l.place(report.GroupHeader)

	for i := range l.rows {
		if err := l.ctx.Err(); err != nil {
			return err
		}

		l.row = i + 1
		l.place(report.Detail)
		l.last = i
	}

	l.row, l.done = 0, true
	l.place(report.GroupFooter)
	l.place(report.ReportFooter)
	l.close()

	return nil
}

func (l *layout) page() *Page { return &l.pages[len(l.pages)-1] }

func (l *layout) open() {
	l.pages = append(l.pages, Page{Number: len(l.pages) + 1, Size: l.t.PageSize()})
	l.cursor = 0
	l.body = false
}

// close pins the page footers to the bottom of the current page.
func (l *layout) close() {
	l.cursor = l.content.Height - l.footer
	l.place(report.PageFooter)
}

// place adds the visible sections of kind at the cursor, breaking the page
// first when a band does not fit.
func (l *layout) place(kind report.SectionKind) {
	vars := l.vars(kind)

	for _, s := range l.groups[kind] {
		if !l.sectionVisible(s, vars) {
			continue
		}

		if kind != report.PageFooter && l.body && l.cursor+s.Height > l.content.Height-l.footer {
			l.close()
			l.open()
			l.place(report.PageHeader)
			l.body = false

			if kind == report.PageHeader {
				return
			}

			vars = l.vars(kind)
		}

		l.page().Bands = append(l.page().Bands, l.band(s, vars))
		l.cursor += s.Height

		if kind != report.PageHeader {
			l.body = true
		}
	}
}

// vars returns the formula variables of a band of kind. Detail bands see
// their own row and page footers the last row placed. Other bands see the
// current row, the first row before any detail, or the last row after.
func (l *layout) vars(kind report.SectionKind) map[string]any {
	idx := 0

	switch {
	case kind == report.PageFooter, l.done:
		idx = l.last
	case l.row > 0:
		idx = l.row - 1
	}

	vars := map[string]any{
		VarPageNumber: len(l.pages),
		VarRowNumber:  l.row,
		VarRowCount:   len(l.rows),
	}

	if idx < len(l.rows) {
		for k, v := range l.rows[idx] {
			vars[k] = v
		}
	}

	return vars
}

func (l *layout) sectionVisible(s *report.Section, vars map[string]any) bool {
	if !s.Visible {
		return false
	}

	ok, err := l.visible(s.VisibilityExpression, vars)
	if err != nil {
		l.warn("section visibility", err,
			slog.String("section", s.Name),
			slog.String("formula", s.VisibilityExpression))

		return true
	}

	return ok
}

func (l *layout) band(s *report.Section, vars map[string]any) Band {
	b := Band{
		Section: s.Name,
		Kind:    s.Kind,
		Top:     l.t.Margins.Top + l.cursor,
		Height:  s.Height,
		Row:     l.row,
	}

	if s.Kind != report.Detail {
		b.Row = 0
	}

	for _, e := range s.OrderedElements() {
		if item, ok := l.item(e, b, vars); ok {
			b.Items = append(b.Items, item)
		}
	}

	return b
}

// item resolves e within band b. Elements entirely outside the band are
// dropped and the rest are clipped to it.
func (l *layout) item(e *report.Element, b Band, vars map[string]any) (Item, bool) {
	w := min(e.X+e.Width, l.content.Width) - max(e.X, 0)
	h := min(e.Y+e.Height, b.Height) - max(e.Y, 0)

	if !e.Visible || w <= 0 || h <= 0 {
		return Item{}, false
	}

	it := Item{
		Properties:    e.Properties.Clone(),
		Name:          e.Name,
		ForeColor:     e.ForeColor,
		BackColor:     e.BackColor,
		Font:          e.Font,
		Border:        e.Border,
		X:             l.t.Margins.Left + max(e.X, 0),
		Y:             b.Top + max(e.Y, 0),
		Width:         w,
		Height:        h,
		Type:          e.Type,
		TextAlign:     e.TextAlign,
		VerticalAlign: e.VerticalAlign,
		ID:            e.ID,
	}

	attrs := []slog.Attr{slog.String("element", e.Name)}

	ok, err := l.visible(e.VisibilityExpression, vars)
	if err != nil {
		l.warn("element visibility", err, append(attrs, slog.String("formula", e.VisibilityExpression))...)
		it.Text, it.Failed = ErrorText, true

		return it, true
	}

	if !ok {
		return Item{}, false
	}

	text, err := l.text(e, vars)
	if err != nil {
		l.warn("element content", err, attrs...)
		it.Text, it.Failed = ErrorText, true

		return it, true
	}

	it.Text = text

	return it, true
}

// text returns the content shown by e.
func (l *layout) text(e *report.Element, vars map[string]any) (string, error) {
	switch e.Type {
	case report.Label:
		return e.StaticText, nil

	case report.TextField, report.Barcode, report.QRCode:
		if e.DataField == "" {
			return e.StaticText, nil
		}

		return lang.FormatValue(e.FormatString, vars[FieldName(e.DataField)])

	case report.CalculatedField:
		v, err := l.o.eval.Evaluate(l.ctx, e.Expression, vars)
		if err != nil {
			return "", err
		}

		return lang.FormatValue(e.FormatString, v)

	case report.Image:
		if e.Properties.Image != nil {
			return e.Properties.Image.Source, nil
		}
	}

	return "", nil
}

// FieldName strips the brackets from a data field reference, so "[Total]"
// names the row field Total.
func FieldName(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "[") && strings.HasSuffix(ref, "]") {
		ref = ref[1 : len(ref)-1]
	}

	return strings.TrimSpace(ref)
}

// visible evaluates a visibility formula. An empty formula is true.
func (l *layout) visible(formula string, vars map[string]any) (bool, error) {
	if strings.TrimSpace(formula) == "" {
		return true, nil
	}

	v, err := l.o.eval.Evaluate(l.ctx, formula, vars)
	if err != nil {
		return false, err
	}

	b, err := lang.Cast(v, "boolean")
	if err != nil {
		return false, err
	}

	return b.(bool), nil
}

func (l *layout) warn(msg string, err error, attrs ...slog.Attr) {
	l.o.metrics.formulaError()
	l.o.logger.WarnContext(l.ctx, msg, append(attrs, slog.Any("error", err))...)
}
