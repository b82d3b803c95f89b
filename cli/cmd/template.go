package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/ardnew/rptkit/designer"
	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/report"
	"github.com/ardnew/rptkit/store"
)

// Template groups the template management commands.
type Template struct {
	New    TemplateNew    `cmd:"" help:"Create a template with the default sections."`
	List   TemplateList   `cmd:"" help:"List templates, most recently modified first."`
	Search TemplateSearch `cmd:"" help:"Search templates by name or description."`
	Show   TemplateShow   `cmd:"" help:"Print a template."`
	Set    TemplateSet    `cmd:"" help:"Set template details and page setup."`
	Delete TemplateDelete `cmd:"" help:"Delete a template and everything it contains."`
}

// TemplateNew creates a template.
type TemplateNew struct {
	Name        string `arg:"" help:"Template name."`
	Description string `       help:"Template description." short:"d"`
	Author      string `       help:"Template author."      short:"a"`
}

// Run executes the template new command.
func (c *TemplateNew) Run(ctx context.Context) error {
	db, err := runtimeFrom(ctx).openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	s := designer.NewSession(designer.WithRepository(db), designer.WithLogger(log.Default()))
	s.New(c.Name, c.Description, c.Author)

	if err := s.Save(ctx); err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(ctx), s.Template().ID)

	return err
}

// TemplateList lists every template.
type TemplateList struct{}

// Run executes the template list command.
func (c *TemplateList) Run(ctx context.Context) error {
	db, err := runtimeFrom(ctx).openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	ts, err := db.GetAll(ctx)
	if err != nil {
		return err
	}

	return printTemplates(ctx, ts)
}

// TemplateSearch lists the templates whose name or description contains a
// term.
type TemplateSearch struct {
	Term string `arg:"" help:"Case-insensitive search term."`
}

// Run executes the template search command.
func (c *TemplateSearch) Run(ctx context.Context) error {
	db, err := runtimeFrom(ctx).openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	ts, err := db.SearchByName(ctx, c.Term)
	if err != nil {
		return err
	}

	return printTemplates(ctx, ts)
}

// TemplateShow prints one template.
type TemplateShow struct {
	Template string `arg:"" help:"Template id or name."`
	Format   string `       help:"Output format." default:"yaml" enum:"yaml,json" short:"f"`
}

// Run executes the template show command.
func (c *TemplateShow) Run(ctx context.Context) error {
	db, err := runtimeFrom(ctx).openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := findTemplate(ctx, db, c.Template)
	if err != nil {
		return err
	}

	var out []byte

	switch c.Format {
	case "json":
		out, err = json.MarshalIndent(t, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		out = append(out, '\n')
	default:
		out, err = yaml.MarshalContext(ctx, t)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	_, err = stdout(ctx).Write(out)

	return err
}

// TemplateSet changes template details and page setup. Only the flags given
// are applied. A page width or height selects the Custom paper size.
type TemplateSet struct {
	Template string `arg:"" help:"Template id or name."`

	Name         *string  `help:"Template name."`
	Description  *string  `help:"Template description."`
	Author       *string  `help:"Template author."`
	Orientation  *string  `help:"Page orientation (portrait or landscape)."`
	Paper        *string  `help:"Paper size (A4, A5, Letter, Legal, or Custom)."`
	Width        *float64 `help:"Custom page width in millimeters."`
	Height       *float64 `help:"Custom page height in millimeters."`
	MarginTop    *float64 `help:"Top margin in millimeters."`
	MarginBottom *float64 `help:"Bottom margin in millimeters."`
	MarginLeft   *float64 `help:"Left margin in millimeters."`
	MarginRight  *float64 `help:"Right margin in millimeters."`
}

// Run executes the template set command.
func (c *TemplateSet) Run(ctx context.Context) error {
	var (
		orientation report.Orientation
		paper       report.PaperSize
		err         error
	)

	if c.Orientation != nil {
		if orientation, err = report.ParseOrientation(*c.Orientation); err != nil {
			return err
		}
	}

	if c.Paper != nil {
		if paper, err = report.ParsePaperSize(*c.Paper); err != nil {
			return err
		}
	}

	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		t := s.Template()
		assign(&t.Name, c.Name)
		assign(&t.Description, c.Description)
		assign(&t.Author, c.Author)

		setup, err := s.PageSetup()
		if err != nil {
			return "", err
		}

		if c.Orientation != nil {
			setup.Orientation = orientation
		}

		if c.Paper != nil {
			setup.Paper = paper
		}

		if c.Width != nil || c.Height != nil {
			if c.Paper == nil {
				setup.Paper = report.Custom
			}

			if setup.CustomPage == nil {
				size := t.PageSize()
				if t.Orientation == report.Landscape {
					size.Width, size.Height = size.Height, size.Width
				}

				setup.CustomPage = &size
			}

			assign(&setup.CustomPage.Width, c.Width)
			assign(&setup.CustomPage.Height, c.Height)
		}

		assign(&setup.Margins.Top, c.MarginTop)
		assign(&setup.Margins.Bottom, c.MarginBottom)
		assign(&setup.Margins.Left, c.MarginLeft)
		assign(&setup.Margins.Right, c.MarginRight)

		if err := s.SetPageSetup(setup); err != nil {
			return "", err
		}

		size := t.PageSize()

		return fmt.Sprintf("%s %s %gx%g", t.Paper, t.Orientation, size.Width, size.Height), nil
	})
}

// TemplateDelete deletes a template.
type TemplateDelete struct {
	Template string `arg:"" help:"Template id or name."`
}

// Run executes the template delete command.
func (c *TemplateDelete) Run(ctx context.Context) error {
	db, err := runtimeFrom(ctx).openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := findTemplate(ctx, db, c.Template)
	if err != nil {
		return err
	}

	if err := db.Delete(ctx, t.ID); err != nil {
		return err
	}

	log.InfoContext(ctx, "template deleted",
		slog.String("id", t.ID.String()),
		slog.String("name", t.Name))

	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func printTemplates(ctx context.Context, ts []*report.Template) error {
	if len(ts) == 0 {
		return nil
	}

	tbl := newTable("ID", "NAME", "VERSION", "MODIFIED", "DESCRIPTION")

	for _, t := range ts {
		tbl.Row(
			t.ID.String(),
			t.Name,
			strconv.Itoa(t.Version),
			t.ModifiedAt.Local().Format("2006-01-02 15:04"),
			t.Description,
		)
	}

	_, err := fmt.Fprintln(stdout(ctx), tbl.Render())

	return err
}

// findTemplate resolves ref as a template id, or else as a unique template
// name ignoring case.
func findTemplate(ctx context.Context, repo store.Repository, ref string) (*report.Template, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return repo.GetByID(ctx, id)
	}

	ts, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return named(ts, ref, "template", func(t *report.Template) string { return t.Name })
}

// findSection resolves ref within t as a section id, a section name, or a
// section kind that occurs once.
func findSection(t *report.Template, ref string) (*report.Section, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return t.Section(id)
	}

	var byName, byKind []*report.Section

	kind, kerr := report.ParseSectionKind(ref)

	for _, s := range t.OrderedSections() {
		if strings.EqualFold(s.Name, ref) {
			byName = append(byName, s)
		}

		if kerr == nil && s.Kind == kind {
			byKind = append(byKind, s)
		}
	}

	for _, match := range [][]*report.Section{byName, byKind} {
		switch len(match) {
		case 0:
			continue
		case 1:
			return match[0], nil
		default:
			return nil, ErrAmbiguous.With(slog.String("section", ref))
		}
	}

	return nil, ErrNotFound.With(slog.String("section", ref))
}

// findElement resolves ref within t as an element id or a unique element
// name ignoring case.
func findElement(t *report.Template, ref string) (*report.Element, error) {
	if id, err := uuid.Parse(ref); err == nil {
		e, _, err := t.Element(id)

		return e, err
	}

	var found *report.Element

	for _, s := range t.OrderedSections() {
		for _, e := range s.OrderedElements() {
			if !strings.EqualFold(e.Name, ref) {
				continue
			}

			if found != nil {
				return nil, ErrAmbiguous.With(slog.String("element", ref))
			}

			found = e
		}
	}

	if found == nil {
		return nil, ErrNotFound.With(slog.String("element", ref))
	}

	return found, nil
}
