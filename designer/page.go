package designer

import (
	"errors"
	"log/slog"

	"github.com/ardnew/rptkit/report"
)

// PageSetup is the page layout of a template.
type PageSetup struct {
	CustomPage  *report.Size // used only with report.Custom
	Margins     report.Margins
	Orientation report.Orientation
	Paper       report.PaperSize
}

// PageSetup returns the page layout of the loaded template.
func (s *Session) PageSetup() (PageSetup, error) {
	t, err := s.template()
	if err != nil {
		return PageSetup{}, err
	}

	p := PageSetup{
		Margins:     t.Margins,
		Orientation: t.Orientation,
		Paper:       t.Paper,
	}

	if t.CustomPage != nil {
		c := *t.CustomPage
		p.CustomPage = &c
	}

	return p, nil
}

// SetPageSetup replaces the page layout of the template. The template is
// left unchanged if p is invalid or its margins leave no printable area.
func (s *Session) SetPageSetup(p PageSetup) error {
	t, err := s.template()
	if err != nil {
		return err
	}

	next := report.Template{
		Margins:     p.Margins,
		Orientation: p.Orientation,
		Paper:       p.Paper,
	}

	if p.Paper == report.Custom {
		if p.CustomPage == nil {
			return invalid("custom paper needs a page size")
		}

		c := *p.CustomPage
		next.CustomPage = &c
	}

	if err := next.Check(); err != nil {
		return err
	}

	if c := next.ContentSize(); c.Width <= 0 || c.Height <= 0 {
		return invalid("margins leave no printable area",
			slog.Float64("width", c.Width), slog.Float64("height", c.Height))
	}

	t.Margins, t.Orientation, t.Paper, t.CustomPage =
		next.Margins, next.Orientation, next.Paper, next.CustomPage

	size := t.PageSize()
	s.changed("page setup changed",
		slog.String("orientation", t.Orientation.String()),
		slog.String("paper", t.Paper.String()),
		slog.Float64("width", size.Width), slog.Float64("height", size.Height))

	return nil
}

func invalid(msg string, attrs ...slog.Attr) error {
	return report.ErrInvalid.Wrap(errors.New(msg)).With(attrs...)
}
