package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ardnew/rptkit/datasource"
	"github.com/ardnew/rptkit/report"
)

// DefaultDriver is the database driver used when none is named.
const DefaultDriver = "sqlite"

// DB is a [Repository] backed by a relational database through gorm. It is
// safe for concurrent use.
type DB struct {
	db   *gorm.DB
	opts options
}

// Open connects to the database named by driver (sqlite, postgres, mysql,
// or sqlserver) at dsn and migrates its schema. A SQLite DSN that is a bare
// file path has foreign keys enabled.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*DB, error) {
	if driver == "" {
		driver = DefaultDriver
	}

	p, err := datasource.ParseProvider(driver)
	if err != nil {
		return nil, ErrDriver.Wrap(err).With(slog.String("driver", driver))
	}

	if p == datasource.Sqlite {
		dsn = datasource.SqliteDSN(dsn)
	}

	o := makeOptions(opts...)

	gdb, err := datasource.OpenDSN(ctx, p, dsn, datasource.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	d, err := New(ctx, gdb, opts...)
	if err != nil {
		_ = datasource.Close(gdb)

		return nil, err
	}

	return d, nil
}

// New wraps an open gorm connection and migrates its schema.
func New(ctx context.Context, gdb *gorm.DB, opts ...Option) (*DB, error) {
	d := &DB{db: gdb, opts: makeOptions(opts...)}

	if err := gdb.WithContext(ctx).AutoMigrate(models()...); err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	return d, nil
}

// Close releases the connection pool.
func (d *DB) Close() error { return datasource.Close(d.db) }

// Gorm returns the underlying connection.
func (d *DB) Gorm() *gorm.DB { return d.db }

// Sources returns the data source and connection string store sharing the
// connection of d.
func (d *DB) Sources() *Sources { return &Sources{db: d.db, opts: d.opts} }

func (d *DB) graph(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Preload("Sections", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index").Order("id") }).
		Preload("Sections.Elements", func(tx *gorm.DB) *gorm.DB { return tx.Order("z_index").Order("id") })
}

func (d *DB) GetByID(ctx context.Context, id uuid.UUID) (*report.Template, error) {
	var row templateRow

	err := d.graph(ctx).First(&row, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound.With(slog.String("id", id.String()))
	}

	if err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	return row.template()
}

func (d *DB) GetAll(ctx context.Context) ([]*report.Template, error) {
	return d.find(d.graph(ctx))
}

// SearchByName matches term as a literal substring. The LIKE wildcards in
// term are escaped.
func (d *DB) SearchByName(ctx context.Context, term string) ([]*report.Template, error) {
	esc := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	pattern := "%" + esc.Replace(strings.ToLower(term)) + "%"

	return d.find(d.graph(ctx).Where(
		"LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'",
		pattern, pattern))
}

func (d *DB) find(tx *gorm.DB) ([]*report.Template, error) {
	var rows []templateRow
	if err := tx.Order("modified_at DESC").Order("name").Find(&rows).Error; err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	out := make([]*report.Template, len(rows))

	for i := range rows {
		t, err := rows[i].template()
		if err != nil {
			return nil, err
		}

		out[i] = t
	}

	return out, nil
}

func (d *DB) Create(ctx context.Context, t *report.Template) (*report.Template, error) {
	c := t.Clone()
	prepare(c, stamp(d.opts.now))

	row, err := toTemplateRow(c)
	if err != nil {
		return nil, err
	}

	if err := d.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	d.opts.logger.DebugContext(ctx, "template created", slog.String("id", c.ID.String()))

	return arrange(c), nil
}

func (d *DB) Update(ctx context.Context, t *report.Template) (*report.Template, error) {
	c := t.Clone()
	link(c)

	id := c.ID.String()

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur templateRow

		err := tx.Select("id", "version", "created_at").First(&cur, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound.With(slog.String("id", id))
		}

		if err != nil {
			return err
		}

		c.CreatedAt = cur.CreatedAt.UTC()
		c.ModifiedAt = stamp(d.opts.now)
		c.Version = cur.Version + 1

		row, err := toTemplateRow(c)
		if err != nil {
			return err
		}

		if err := deleteSections(tx, id); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&row).Error; err != nil {
			return err
		}

		if len(row.Sections) == 0 {
			return nil
		}

		return tx.Create(&row.Sections).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, report.ErrProperties) {
			return nil, err
		}

		return nil, ErrDatabase.Wrap(err)
	}

	d.opts.logger.DebugContext(ctx, "template updated",
		slog.String("id", id),
		slog.Int("version", c.Version))

	return arrange(c), nil
}

func (d *DB) Delete(ctx context.Context, id uuid.UUID) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteSections(tx, id.String()); err != nil {
			return err
		}

		return tx.Delete(&templateRow{}, "id = ?", id.String()).Error
	})
	if err != nil {
		return ErrDatabase.Wrap(err)
	}

	return nil
}

// deleteSections removes the sections of a template and their elements.
// Foreign keys cascade as well, but not every driver enforces them.
func deleteSections(tx *gorm.DB, templateID string) error {
	owned := tx.Model(&sectionRow{}).Select("id").Where("template_id = ?", templateID)

	if err := tx.Where("section_id IN (?)", owned).Delete(&elementRow{}).Error; err != nil {
		return err
	}

	return tx.Where("template_id = ?", templateID).Delete(&sectionRow{}).Error
}
