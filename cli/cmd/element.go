package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ardnew/rptkit/designer"
	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/report"
)

// Element groups the element editing commands.
type Element struct {
	List      ElementList      `cmd:"" help:"List the elements of a template by section."`
	Add       ElementAdd       `cmd:"" help:"Add an element to a section."`
	Remove    ElementRemove    `cmd:"" help:"Remove an element."`
	Duplicate ElementDuplicate `cmd:"" help:"Copy an element, offset from the original."`
	Move      ElementMove      `cmd:"" help:"Move an element by an offset in millimeters."`
	Resize    ElementResize    `cmd:"" help:"Resize an element by a delta in millimeters."`
	Set       ElementSet       `cmd:"" help:"Set element content and appearance."`
}

// gridFlags are the layout grid settings of move and resize.
type gridFlags struct {
	Grid float64 `default:"5"    help:"Grid size in millimeters."`
	Snap bool    `default:"true" help:"Snap to the grid."          negatable:""`
}

func (g gridFlags) grid() *designer.Grid {
	grid := designer.DefaultGrid()
	grid.Size, grid.Snap = g.Grid, g.Snap

	return &grid
}

// ElementList prints the elements of a template.
type ElementList struct {
	Template string `arg:"" help:"Template id or name."`
}

// Run executes the element list command.
func (c *ElementList) Run(ctx context.Context) error {
	db, err := runtimeFrom(ctx).openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := findTemplate(ctx, db, c.Template)
	if err != nil {
		return err
	}

	num := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

	tbl := newTable("SECTION", "ID", "NAME", "TYPE", "X", "Y", "W", "H", "CONTENT")

	for _, s := range t.OrderedSections() {
		for _, e := range s.OrderedElements() {
			tbl.Row(s.Name, e.ID.String(), e.Name, e.Type.String(),
				num(e.X), num(e.Y), num(e.Width), num(e.Height), content(e))
		}
	}

	_, err = fmt.Fprintln(stdout(ctx), tbl.Render())

	return err
}

// content summarizes what an element displays.
func content(e *report.Element) string {
	switch e.Type {
	case report.Label:
		return e.StaticText
	case report.CalculatedField:
		return e.Expression
	case report.TextField, report.Barcode, report.QRCode:
		return e.DataField
	default:
		return ""
	}
}

// ElementAdd adds an element.
type ElementAdd struct {
	Template string `arg:"" help:"Template id or name."`
	Section  string `arg:"" help:"Section id, name, or kind."`
	Type     string `arg:"" help:"Element type, e.g. Label or calculated-field."`
}

// Run executes the element add command.
func (c *ElementAdd) Run(ctx context.Context) error {
	typ, err := report.ParseElementType(c.Type)
	if err != nil {
		return err
	}

	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		sec, err := findSection(s.Template(), c.Section)
		if err != nil {
			return "", err
		}

		e, err := s.AddElement(sec.ID, typ)
		if err != nil {
			return "", err
		}

		return e.ID.String() + " " + e.Name, nil
	})
}

// ElementRemove removes an element.
type ElementRemove struct {
	Template string `arg:"" help:"Template id or name."`
	Element  string `arg:"" help:"Element id or name."`
}

// Run executes the element remove command.
func (c *ElementRemove) Run(ctx context.Context) error {
	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		e, err := findElement(s.Template(), c.Element)
		if err != nil {
			return "", err
		}

		return "", s.RemoveElement(e.ID)
	})
}

// ElementDuplicate duplicates an element.
type ElementDuplicate struct {
	Template string `arg:"" help:"Template id or name."`
	Element  string `arg:"" help:"Element id or name."`
}

// Run executes the element duplicate command.
func (c *ElementDuplicate) Run(ctx context.Context) error {
	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		e, err := findElement(s.Template(), c.Element)
		if err != nil {
			return "", err
		}

		dup, err := s.DuplicateElement(e.ID)
		if err != nil {
			return "", err
		}

		return dup.ID.String() + " " + dup.Name, nil
	})
}

// ElementMove moves an element.
type ElementMove struct {
	gridFlags

	Template string  `arg:"" help:"Template id or name."`
	Element  string  `arg:"" help:"Element id or name."`
	DX       float64 `arg:"" help:"Horizontal offset in millimeters." name:"dx"`
	DY       float64 `arg:"" help:"Vertical offset in millimeters."   name:"dy"`
}

// Run executes the element move command.
func (c *ElementMove) Run(ctx context.Context) error {
	return design(ctx, c.Template, c.grid(), func(s *designer.Session) (string, error) {
		e, err := findElement(s.Template(), c.Element)
		if err != nil {
			return "", err
		}

		e, err = s.MoveElement(e.ID, c.DX, c.DY)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%g %g", e.X, e.Y), nil
	})
}

// ElementResize resizes an element.
type ElementResize struct {
	gridFlags

	Template string  `arg:"" help:"Template id or name."`
	Element  string  `arg:"" help:"Element id or name."`
	DW       float64 `arg:"" help:"Width change in millimeters."  name:"dw"`
	DH       float64 `arg:"" help:"Height change in millimeters." name:"dh"`
}

// Run executes the element resize command.
func (c *ElementResize) Run(ctx context.Context) error {
	return design(ctx, c.Template, c.grid(), func(s *designer.Session) (string, error) {
		e, err := findElement(s.Template(), c.Element)
		if err != nil {
			return "", err
		}

		e, err = s.ResizeElement(e.ID, c.DW, c.DH)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%g %g", e.Width, e.Height), nil
	})
}

// ElementSet changes element properties. Only the flags given are applied.
type ElementSet struct {
	Template string `arg:"" help:"Template id or name."`
	Element  string `arg:"" help:"Element id or name."`

	Name       *string  `help:"Element name."`
	Text       *string  `help:"Static text of a Label."`
	Field      *string  `help:"Data field of a TextField, Barcode, or QRCode."`
	Expression *string  `help:"Formula of a CalculatedField."`
	Format     *string  `help:"Format string applied to the value."`
	Visibility *string  `help:"Visibility formula; empty means always visible."`
	Fore       *string  `help:"Foreground color."`
	Back       *string  `help:"Background color."`
	Font       *string  `help:"Font family."`
	FontSize   *float64 `help:"Font size in points."`
	Bold       *bool    `help:"Bold text."`
	Italic     *bool    `help:"Italic text."`
	Align      *string  `help:"Horizontal text alignment."`
	Valign     *string  `help:"Vertical text alignment."`
	Border     *bool    `help:"Draw the element border."`
	Visible    *bool    `help:"Element visibility."`
}

// Run executes the element set command.
func (c *ElementSet) Run(ctx context.Context) error {
	var (
		align  report.TextAlign
		valign report.VerticalAlign
		err    error
	)

	if c.Align != nil {
		if align, err = report.ParseTextAlign(*c.Align); err != nil {
			return err
		}
	}

	if c.Valign != nil {
		if valign, err = report.ParseVerticalAlign(*c.Valign); err != nil {
			return err
		}
	}

	if err := checkFormula(c.Expression, false); err != nil {
		return err
	}

	if err := checkFormula(c.Visibility, true); err != nil {
		return err
	}

	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		e, err := findElement(s.Template(), c.Element)
		if err != nil {
			return "", err
		}

		_, err = s.UpdateElement(e.ID, func(e *report.Element) {
			assign(&e.Name, c.Name)
			assign(&e.StaticText, c.Text)
			assign(&e.DataField, c.Field)
			assign(&e.Expression, c.Expression)
			assign(&e.FormatString, c.Format)
			assign(&e.VisibilityExpression, c.Visibility)
			assign(&e.ForeColor, c.Fore)
			assign(&e.BackColor, c.Back)
			assign(&e.Font.Family, c.Font)
			assign(&e.Font.Size, c.FontSize)
			assign(&e.Font.Bold, c.Bold)
			assign(&e.Font.Italic, c.Italic)
			assign(&e.Border.Enabled, c.Border)
			assign(&e.Visible, c.Visible)

			if c.Align != nil {
				e.TextAlign = align
			}

			if c.Valign != nil {
				e.VerticalAlign = valign
			}
		})

		return "", err
	})
}

// checkFormula validates the formula text of a flag, if given. A blank
// formula passes when blank is true.
func checkFormula(text *string, blank bool) error {
	if text == nil || (blank && strings.TrimSpace(*text) == "") {
		return nil
	}

	if ok, msg := lang.Validate(*text); !ok {
		return ErrInvalid.Wrap(errors.New(msg))
	}

	return nil
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
