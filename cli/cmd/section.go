package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/rptkit/designer"
	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/report"
)

// Section groups the section editing commands.
type Section struct {
	Add    SectionAdd    `cmd:"" help:"Append a section to a template."`
	Remove SectionRemove `cmd:"" help:"Remove a section and its elements."`
	Set    SectionSet    `cmd:"" help:"Set section name, height, and visibility."`
}

// SectionAdd appends a section.
type SectionAdd struct {
	Template string `arg:"" help:"Template id or name."`
	Kind     string `arg:"" help:"Section kind, e.g. GroupHeader or detail."`
}

// Run executes the section add command.
func (c *SectionAdd) Run(ctx context.Context) error {
	kind, err := report.ParseSectionKind(c.Kind)
	if err != nil {
		return err
	}

	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		sec, err := s.AddSection(kind)
		if err != nil {
			return "", err
		}

		return sec.ID.String(), nil
	})
}

// SectionRemove removes a section.
type SectionRemove struct {
	Template string `arg:"" help:"Template id or name."`
	Section  string `arg:"" help:"Section id, name, or kind."`
}

// Run executes the section remove command.
func (c *SectionRemove) Run(ctx context.Context) error {
	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		sec, err := findSection(s.Template(), c.Section)
		if err != nil {
			return "", err
		}

		return "", s.RemoveSection(sec.ID)
	})
}

// SectionSet changes section properties. Only the flags given are applied.
type SectionSet struct {
	Template string `arg:"" help:"Template id or name."`
	Section  string `arg:"" help:"Section id, name, or kind."`

	Name       *string  `help:"Section name."`
	Height     *float64 `help:"Section height in millimeters."`
	Visible    *bool    `help:"Section visibility."`
	Visibility *string  `help:"Visibility formula; empty means always visible."`
}

// Run executes the section set command.
func (c *SectionSet) Run(ctx context.Context) error {
	if err := checkFormula(c.Visibility, true); err != nil {
		return err
	}

	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		sec, err := findSection(s.Template(), c.Section)
		if err != nil {
			return "", err
		}

		sec, err = s.SetSection(sec.ID, func(sec *report.Section) {
			assign(&sec.Name, c.Name)
			assign(&sec.Height, c.Height)
			assign(&sec.Visible, c.Visible)
			assign(&sec.VisibilityExpression, c.Visibility)
		})
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s %g", sec.Name, sec.Height), nil
	})
}

// design loads the template ref into a designer session, applies edit,
// and saves the result when edit succeeds. The text edit returns is printed
// only once the save succeeds; empty text prints nothing. A non-nil grid
// replaces the session's layout grid.
func design(
	ctx context.Context,
	ref string,
	grid *designer.Grid,
	edit func(*designer.Session) (string, error),
) error {
	db, err := runtimeFrom(ctx).openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := findTemplate(ctx, db, ref)
	if err != nil {
		return err
	}

	s := designer.NewSession(
		designer.WithRepository(db),
		designer.WithLogger(log.Default()),
	)

	if grid != nil {
		s.SetGrid(*grid)
	}

	if err := s.Load(ctx, t.ID); err != nil {
		return err
	}

	text, err := edit(s)
	if err != nil {
		return err
	}

	if err := s.Save(ctx); err != nil {
		return err
	}

	if text == "" {
		return nil
	}

	_, err = fmt.Fprintln(stdout(ctx), text)

	return err
}
