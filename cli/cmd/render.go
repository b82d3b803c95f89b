package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/render"
	"github.com/ardnew/rptkit/report"
	"github.com/ardnew/rptkit/store"
)

// Render lays out a template over data and writes the preview pages.
type Render struct {
	Template string   `arg:"" help:"Template id or name."`
	Data     string   `       help:"YAML rows (a list of mappings or one mapping), or '-' for stdin." placeholder:"FILE" short:"d"`
	Param    []string `       help:"Data source parameter (name=value)."                               placeholder:"NAME=VALUE"`
	Password string   `       help:"Password of the data source connection."                           env:"RPTKIT_DB_PASSWORD"`
	Format   string   `       help:"Page output format."           default:"yaml" enum:"yaml,png,jpeg"  short:"f"`
	Out      string   `       help:"Output directory, or '-' to write YAML pages to stdout." default:"." short:"o"`
	DPI      float64  `       help:"Image resolution."             default:"96"`
	Quality  int      `       help:"JPEG quality (1-100)."          default:"90"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	rt := runtimeFrom(ctx)

	db, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := findTemplate(ctx, db, r.Template)
	if err != nil {
		return err
	}

	data, err := r.rows(ctx, db, t)
	if err != nil {
		return err
	}

	opts := []render.Option{
		render.WithLogger(log.Default()),
		render.WithDPI(r.DPI),
		render.WithQuality(r.Quality),
	}

	if rt.Registry != nil {
		opts = append(opts, render.WithMetrics(rt.Registry))
	}

	p := render.NewPreview(opts...)

	var (
		pages [][]byte
		ext   = ".yaml"
	)

	switch r.Format {
	case "yaml":
		pages, err = p.RenderToPages(ctx, t, data)
	default:
		f, perr := render.ParseImageFormat(r.Format)
		if perr != nil {
			return perr
		}

		if r.Out == stdinSource {
			return ErrFormat.With(slog.String("format", r.Format), slog.String("out", r.Out))
		}

		ext = f.Ext()
		pages, err = p.RenderToImages(ctx, t, data, f)
	}

	if err != nil {
		return err
	}

	return r.write(ctx, t, pages, ext)
}

// rows returns the data to render: the --data file when given, else the
// result of the template's data source, else no rows.
func (r *Render) rows(ctx context.Context, db *store.DB, t *report.Template) (any, error) {
	if r.Data != "" {
		var data any
		if err := readYAML(r.Data, &data); err != nil {
			return nil, err
		}

		return data, nil
	}

	if t.DataSourceID == nil {
		return nil, nil
	}

	params, err := assignments(r.Param)
	if err != nil {
		return nil, err
	}

	src := db.Sources()

	ds, err := src.GetDataSource(ctx, *t.DataSourceID)
	if err != nil {
		return nil, err
	}

	return query(ctx, src, ds, params, r.Password)
}

func (r *Render) write(ctx context.Context, t *report.Template, pages [][]byte, ext string) error {
	if r.Out == stdinSource {
		w := stdout(ctx)

		for i, pg := range pages {
			if i > 0 {
				if _, err := fmt.Fprintln(w, "---"); err != nil {
					return ErrWriteOutput.Wrap(err)
				}
			}

			if _, err := w.Write(pg); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		return nil
	}

	if err := os.MkdirAll(r.Out, 0o755); err != nil {
		return ErrWriteOutput.With(slog.String("dir", r.Out)).Wrap(err)
	}

	base := slug(t.Name)

	for i, pg := range pages {
		path := filepath.Join(r.Out, fmt.Sprintf("%s-%d%s", base, i+1, ext))

		if err := os.WriteFile(path, pg, 0o644); err != nil {
			return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
		}

		fmt.Fprintln(stdout(ctx), path)
	}

	log.InfoContext(ctx, "report rendered",
		slog.String("template", t.Name),
		slog.Int("pages", len(pages)),
		slog.String("format", r.Format))

	return nil
}

// slug turns a template name into a file name stem.
func slug(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		default:
			return '-'
		}
	}, strings.TrimSpace(name))

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	if s = strings.Trim(s, "-"); s == "" {
		return "report"
	}

	return s
}
