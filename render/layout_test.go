package render

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/report"
)

// salesTemplate returns an A4 template with a 30 mm page header holding a
// title, a 50 mm detail band showing Name and Qty * Price, and a 30 mm page
// footer showing the page number.
func salesTemplate(t *testing.T) *report.Template {
	t.Helper()

	tpl := report.NewTemplate("Sales", "", "")
	header, detail, footer := tpl.Sections[0], tpl.Sections[1], tpl.Sections[2]

	add := func(s *report.Section, typ report.ElementType) *report.Element {
		e, err := tpl.AddElement(s.ID, typ)
		if err != nil {
			t.Fatalf("AddElement: %v", err)
		}

		return e
	}

	add(header, report.Label).StaticText = "Sales"

	add(detail, report.TextField).DataField = "[Name]"

	amount := add(detail, report.CalculatedField)
	amount.Expression = "=[Qty] * [Price]"
	amount.FormatString = "N2"
	amount.X = 120

	page := add(footer, report.CalculatedField)
	page.Expression = "=CONCAT('Page ', [PageNumber], ' of rows ', [RowCount])"

	return tpl
}

func salesRows(n int) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{
			"Name":  "item" + string(rune('1'+i)),
			"Qty":   i + 1,
			"Price": 2.5,
		}
	}

	return rows
}

func kinds(p Page) []report.SectionKind {
	out := make([]report.SectionKind, len(p.Bands))
	for i, b := range p.Bands {
		out[i] = b.Kind
	}

	return out
}

func itemText(b Band, name string) (string, bool) {
	for _, it := range b.Items {
		if it.Name == name {
			return it.Text, true
		}
	}

	return "", false
}

func TestLayout_Pagination(t *testing.T) {
	pages, err := Layout(t.Context(), salesTemplate(t), salesRows(7))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	// 246.2 mm of content less 30 mm of footer and 30 mm of header leaves
	// room for three 50 mm detail bands per page.
	if len(pages) != 3 {
		t.Fatalf("Layout returned %d pages, want 3", len(pages))
	}

	details := []int{3, 3, 1}
	row := 0

	for i, p := range pages {
		if p.Number != i+1 {
			t.Errorf("page %d Number = %d", i, p.Number)
		}

		ks := kinds(p)
		if ks[0] != report.PageHeader || ks[len(ks)-1] != report.PageFooter {
			t.Errorf("page %d bands = %v, want page header first and page footer last", p.Number, ks)
		}

		if got := len(ks) - 2; got != details[i] {
			t.Errorf("page %d has %d detail bands, want %d", p.Number, got, details[i])
		}

		for _, b := range p.Bands[1 : len(p.Bands)-1] {
			row++
			if b.Row != row {
				t.Errorf("page %d detail Row = %d, want %d", p.Number, b.Row, row)
			}
		}

		footer := p.Bands[len(p.Bands)-1]
		if want := 25.4 + (297 - 2*25.4) - 30; math.Abs(footer.Top-want) > 1e-9 {
			t.Errorf("page %d footer Top = %v, want %v", p.Number, footer.Top, want)
		}

		want := "Page " + string(rune('1'+i)) + " of rows 7"
		if got, _ := itemText(footer, "CalculatedField_1"); got != want {
			t.Errorf("page %d footer text = %q, want %q", p.Number, got, want)
		}
	}

	first := pages[0].Bands[1]
	if got, _ := itemText(first, "TextField_1"); got != "item1" {
		t.Errorf("first detail name = %q, want item1", got)
	}

	if got, _ := itemText(pages[1].Bands[2], "CalculatedField_2"); got != "12.50" {
		t.Errorf("fifth detail amount = %q, want 12.50", got)
	}
}

func TestLayout_BandOrder(t *testing.T) {
	tpl := salesTemplate(t)

	for _, kind := range []report.SectionKind{
		report.ReportFooter, report.GroupFooter, report.GroupHeader, report.ReportHeader,
	} {
		s, err := tpl.AddSection(kind)
		if err != nil {
			t.Fatalf("AddSection: %v", err)
		}

		s.Height = 10
	}

	pages, err := Layout(t.Context(), tpl, salesRows(2))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if len(pages) != 1 {
		t.Fatalf("Layout returned %d pages, want 1", len(pages))
	}

	want := []report.SectionKind{
		report.ReportHeader, report.PageHeader, report.GroupHeader,
		report.Detail, report.Detail,
		report.GroupFooter, report.ReportFooter, report.PageFooter,
	}

	got := kinds(pages[0])
	if len(got) != len(want) {
		t.Fatalf("bands = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bands = %v, want %v", got, want)
		}
	}

	if top := pages[0].Bands[0].Top; top != 25.4 {
		t.Errorf("report header Top = %v, want the top margin", top)
	}
}

func TestLayout_TallReportHeader(t *testing.T) {
	tpl := salesTemplate(t)

	s, err := tpl.AddSection(report.ReportHeader)
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}

	s.Height = 200

	pages, err := Layout(t.Context(), tpl, salesRows(1))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	want := [][]report.SectionKind{
		{report.ReportHeader, report.PageFooter},
		{report.PageHeader, report.Detail, report.PageFooter},
	}

	if len(pages) != len(want) {
		t.Fatalf("Layout returned %d pages, want %d", len(pages), len(want))
	}

	for i, p := range pages {
		got := kinds(p)
		if len(got) != len(want[i]) {
			t.Fatalf("page %d bands = %v, want %v", p.Number, got, want[i])
		}

		for j := range got {
			if got[j] != want[i][j] {
				t.Fatalf("page %d bands = %v, want %v", p.Number, got, want[i])
			}
		}
	}

	if top := pages[1].Bands[0].Top; top != 25.4 {
		t.Errorf("page 2 header Top = %v, want the top margin", top)
	}
}

func TestLayout_Visibility(t *testing.T) {
	tpl := salesTemplate(t)
	detail := tpl.Sections[1]
	detail.VisibilityExpression = "[Qty] > 2"
	detail.Elements[0].VisibilityExpression = "[Name] <> 'item4'"

	pages, err := Layout(t.Context(), tpl, salesRows(5))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	var rows []int

	for _, p := range pages {
		for _, b := range p.Bands {
			if b.Kind != report.Detail {
				continue
			}

			rows = append(rows, b.Row)

			_, shown := itemText(b, "TextField_1")
			if shown == (b.Row == 4) {
				t.Errorf("row %d name shown = %v", b.Row, shown)
			}
		}
	}

	if len(rows) != 3 || rows[0] != 3 || rows[2] != 5 {
		t.Errorf("detail rows = %v, want [3 4 5]", rows)
	}
}

func TestLayout_FormulaErrors(t *testing.T) {
	tpl := salesTemplate(t)
	detail := tpl.Sections[1]
	detail.Elements[1].Expression = "=[Qty] / 0"
	detail.Elements[0].VisibilityExpression = "=NOPE()"

	var buf bytes.Buffer

	pages, err := Layout(t.Context(), tpl, salesRows(1),
		WithLogger(log.Make(&buf, log.WithLevel(log.LevelWarn))))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	band := pages[0].Bands[1]
	for _, name := range []string{"TextField_1", "CalculatedField_2"} {
		got, _ := itemText(band, name)
		if got != ErrorText {
			t.Errorf("%s text = %q, want %q", name, got, ErrorText)
		}
	}

	for _, it := range band.Items {
		if !it.Failed {
			t.Errorf("%s Failed = false", it.Name)
		}
	}

	logged := buf.String()
	if !strings.Contains(logged, "element content") || !strings.Contains(logged, "element visibility") {
		t.Errorf("warnings not logged:\n%s", logged)
	}
}

func TestLayout_Clipping(t *testing.T) {
	tpl := salesTemplate(t)
	detail := tpl.Sections[1]

	tall := detail.Elements[0]
	tall.Y, tall.Height = 40, 20

	wide := detail.Elements[1]
	wide.X = 200

	pages, err := Layout(t.Context(), tpl, salesRows(1))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	band := pages[0].Bands[1]
	if len(band.Items) != 1 {
		t.Fatalf("band has %d items, want 1", len(band.Items))
	}

	it := band.Items[0]
	if it.Height != 10 {
		t.Errorf("clipped Height = %v, want 10", it.Height)
	}

	if want := band.Top + 40; it.Y != want {
		t.Errorf("Y = %v, want %v", it.Y, want)
	}

	if want := tpl.Margins.Left + 10; it.X != want {
		t.Errorf("X = %v, want %v", it.X, want)
	}
}

func TestLayout_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := Layout(ctx, salesTemplate(t), salesRows(3)); !errors.Is(err, context.Canceled) {
		t.Errorf("Layout error = %v, want context.Canceled", err)
	}
}

func TestFieldName(t *testing.T) {
	for in, want := range map[string]string{
		"[Total]":   "Total",
		" [ Net ] ": "Net",
		"Qty":       "Qty",
		"[":         "[",
	} {
		if got := FieldName(in); got != want {
			t.Errorf("FieldName(%q) = %q, want %q", in, got, want)
		}
	}
}
