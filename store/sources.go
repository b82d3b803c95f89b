package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ardnew/rptkit/datasource"
)

// Sources persists data sources and connection strings. Obtain one from
// [DB.Sources].
type Sources struct {
	db   *gorm.DB
	opts options
}

func notFound(kind, id string) error {
	return ErrNotFound.With(slog.String("kind", kind), slog.String("id", id))
}

// GetDataSource returns the data source with id and its parameters.
func (s *Sources) GetDataSource(ctx context.Context, id uuid.UUID) (*datasource.DataSource, error) {
	var row dataSourceRow

	err := s.db.WithContext(ctx).
		Preload("Parameters", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		First(&row, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("data source", id.String())
	}

	if err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	return row.dataSource()
}

// ListDataSources returns every data source ordered by name.
func (s *Sources) ListDataSources(ctx context.Context) ([]*datasource.DataSource, error) {
	var rows []dataSourceRow

	err := s.db.WithContext(ctx).
		Preload("Parameters", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Order("name").Find(&rows).Error
	if err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	out := make([]*datasource.DataSource, len(rows))

	for i := range rows {
		if out[i], err = rows[i].dataSource(); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// CreateDataSource stores ds under a new id and returns the stored copy.
func (s *Sources) CreateDataSource(ctx context.Context, ds *datasource.DataSource) (*datasource.DataSource, error) {
	c := ds.Clone()
	c.ID = uuid.New()
	c.CreatedAt = stamp(s.opts.now)
	c.ModifiedAt = c.CreatedAt
	linkParameters(c)

	row := toDataSourceRow(c)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	return c, nil
}

// UpdateDataSource replaces the stored data source with the same id,
// including its parameters.
func (s *Sources) UpdateDataSource(ctx context.Context, ds *datasource.DataSource) (*datasource.DataSource, error) {
	c := ds.Clone()
	linkParameters(c)

	id := c.ID.String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur dataSourceRow

		err := tx.Select("id", "created_at").First(&cur, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("data source", id)
		}

		if err != nil {
			return err
		}

		c.CreatedAt = cur.CreatedAt.UTC()
		c.ModifiedAt = stamp(s.opts.now)
		row := toDataSourceRow(c)

		if err := tx.Where("data_source_id = ?", id).Delete(&parameterRow{}).Error; err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&row).Error; err != nil {
			return err
		}

		if len(row.Parameters) == 0 {
			return nil
		}

		return tx.Create(&row.Parameters).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, ErrDatabase.Wrap(err)
	}

	return c, nil
}

// DeleteDataSource removes the data source with id and its parameters.
// Templates bound to it are unbound.
func (s *Sources) DeleteDataSource(ctx context.Context, id uuid.UUID) error {
	key := id.String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("data_source_id = ?", key).Delete(&parameterRow{}).Error; err != nil {
			return err
		}

		err := tx.Model(&templateRow{}).Where("data_source_id = ?", key).
			Update("data_source_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&dataSourceRow{}, "id = ?", key).Error
	})
	if err != nil {
		return ErrDatabase.Wrap(err)
	}

	return nil
}

func linkParameters(ds *datasource.DataSource) {
	for i := range ds.Parameters {
		p := &ds.Parameters[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}

		if p.DataType == "" {
			p.DataType = datasource.DefaultDataType
		}

		p.DataSourceID = ds.ID
	}
}

// GetConnectionString returns the connection string with id.
func (s *Sources) GetConnectionString(ctx context.Context, id uuid.UUID) (*datasource.ConnectionString, error) {
	var row connectionStringRow

	err := s.db.WithContext(ctx).First(&row, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("connection string", id.String())
	}

	if err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	return row.connectionString()
}

// ListConnectionStrings returns every connection string ordered by name.
func (s *Sources) ListConnectionStrings(ctx context.Context) ([]*datasource.ConnectionString, error) {
	var rows []connectionStringRow
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	out := make([]*datasource.ConnectionString, len(rows))

	for i := range rows {
		cs, err := rows[i].connectionString()
		if err != nil {
			return nil, err
		}

		out[i] = cs
	}

	return out, nil
}

// CreateConnectionString stores cs under a new id and returns the stored
// copy.
func (s *Sources) CreateConnectionString(ctx context.Context, cs *datasource.ConnectionString) (*datasource.ConnectionString, error) {
	c := *cs
	c.ID = uuid.New()
	c.CreatedAt = stamp(s.opts.now)
	c.ModifiedAt = c.CreatedAt

	row := toConnectionStringRow(&c)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, ErrDatabase.Wrap(err)
	}

	return &c, nil
}

// UpdateConnectionString replaces the stored connection string with the
// same id.
func (s *Sources) UpdateConnectionString(ctx context.Context, cs *datasource.ConnectionString) (*datasource.ConnectionString, error) {
	c := *cs
	id := c.ID.String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur connectionStringRow

		err := tx.Select("id", "created_at").First(&cur, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("connection string", id)
		}

		if err != nil {
			return err
		}

		c.CreatedAt = cur.CreatedAt.UTC()
		c.ModifiedAt = stamp(s.opts.now)
		row := toConnectionStringRow(&c)

		return tx.Save(&row).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, ErrDatabase.Wrap(err)
	}

	return &c, nil
}

// DeleteConnectionString removes the connection string with id. Data
// sources using it are detached.
func (s *Sources) DeleteConnectionString(ctx context.Context, id uuid.UUID) error {
	key := id.String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&dataSourceRow{}).Where("connection_string_id = ?", key).
			Update("connection_string_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&connectionStringRow{}, "id = ?", key).Error
	})
	if err != nil {
		return ErrDatabase.Wrap(err)
	}

	return nil
}
