package store

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ardnew/rptkit/datasource"
	"github.com/ardnew/rptkit/report"
)

type templateRow struct {
	CreatedAt    time.Time
	ModifiedAt   time.Time `gorm:"index"`
	CustomWidth  *float64
	CustomHeight *float64
	DataSourceID *string `gorm:"size:36;index"`

	ID          string         `gorm:"primaryKey;size:36"`
	Name        string         `gorm:"size:200;not null;index"`
	Description string         `gorm:"size:1000"`
	Author      string         `gorm:"size:100"`
	Orientation string         `gorm:"size:20;not null"`
	Paper       string         `gorm:"size:20;not null"`
	Sections    []sectionRow   `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	Margins     report.Margins `gorm:"embedded;embeddedPrefix:margin_"`
	Version     int            `gorm:"not null"`
}

type sectionRow struct {
	ID                   string       `gorm:"primaryKey;size:36"`
	TemplateID           string       `gorm:"size:36;not null;index"`
	Name                 string       `gorm:"size:100"`
	Kind                 string       `gorm:"size:20;not null"`
	VisibilityExpression string       `gorm:"size:500"`
	Elements             []elementRow `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
	Height               float64
	OrderIndex           int
	Visible              bool
}

type elementRow struct {
	ID                   string         `gorm:"primaryKey;size:36"`
	SectionID            string         `gorm:"size:36;not null;index"`
	Name                 string         `gorm:"size:100"`
	Type                 string         `gorm:"size:30;not null"`
	StaticText           string         `gorm:"size:1000"`
	DataField            string         `gorm:"size:200"`
	Expression           string         `gorm:"size:2000"`
	FormatString         string         `gorm:"size:100"`
	VisibilityExpression string         `gorm:"size:500"`
	ForeColor            string         `gorm:"size:20"`
	BackColor            string         `gorm:"size:20"`
	TextAlign            string         `gorm:"size:20"`
	VerticalAlign        string         `gorm:"size:20"`
	Properties           datatypes.JSON
	Font                 report.Font   `gorm:"embedded;embeddedPrefix:font_"`
	Border               report.Border `gorm:"embedded;embeddedPrefix:border_"`
	X                    float64
	Y                    float64
	Width                float64
	Height               float64
	ZIndex               int
	Visible              bool
}

type dataSourceRow struct {
	CreatedAt          time.Time
	ModifiedAt         time.Time
	ConnectionStringID *string `gorm:"size:36;index"`

	ID                  string         `gorm:"primaryKey;size:36"`
	Name                string         `gorm:"size:200;not null"`
	Description         string         `gorm:"size:1000"`
	Type                string         `gorm:"size:20;not null"`
	SQLQuery            string         `gorm:"column:sql_query"`
	StoredProcedureName string         `gorm:"size:200"`
	Table               string         `gorm:"column:table_name;size:200"`
	Parameters          []parameterRow `gorm:"foreignKey:DataSourceID;constraint:OnDelete:CASCADE"`
}

type parameterRow struct {
	DefaultValue *string `gorm:"size:500"`

	ID           string `gorm:"primaryKey;size:36"`
	DataSourceID string `gorm:"size:36;not null;index"`
	Name         string `gorm:"size:100;not null"`
	DataType     string `gorm:"size:20;not null"`
	Position     int
	Required     bool
}

type connectionStringRow struct {
	CreatedAt  time.Time
	ModifiedAt time.Time

	ID                   string `gorm:"primaryKey;size:36"`
	Name                 string `gorm:"size:200;not null;index"`
	Description          string `gorm:"size:1000"`
	Provider             string `gorm:"size:20;not null"`
	Server               string `gorm:"size:200"`
	Database             string `gorm:"size:200"`
	Username             string `gorm:"size:100"`
	EncryptedPassword    string `gorm:"size:500"`
	AdditionalParameters string `gorm:"size:1000"`
	Port                 int
	UseWindowsAuth       bool
}

func (templateRow) TableName() string         { return "report_templates" }
func (sectionRow) TableName() string          { return "report_sections" }
func (elementRow) TableName() string          { return "report_elements" }
func (dataSourceRow) TableName() string       { return "data_sources" }
func (parameterRow) TableName() string        { return "data_source_parameters" }
func (connectionStringRow) TableName() string { return "connection_strings" }

func models() []any {
	return []any{
		&templateRow{}, &sectionRow{}, &elementRow{},
		&connectionStringRow{}, &dataSourceRow{}, &parameterRow{},
	}
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}

	s := id.String()

	return &s
}

func parseOptionalID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, ErrDatabase.Wrap(err).With(slog.String("id", *s))
	}

	return &id, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrDatabase.Wrap(err).With(slog.String("id", s))
	}

	return id, nil
}

func toTemplateRow(t *report.Template) (templateRow, error) {
	row := templateRow{
		CreatedAt:    t.CreatedAt,
		ModifiedAt:   t.ModifiedAt,
		DataSourceID: optionalID(t.DataSourceID),
		ID:           t.ID.String(),
		Name:         t.Name,
		Description:  t.Description,
		Author:       t.Author,
		Orientation:  t.Orientation.String(),
		Paper:        t.Paper.String(),
		Margins:      t.Margins,
		Version:      t.Version,
		Sections:     make([]sectionRow, len(t.Sections)),
	}

	if p := t.CustomPage; p != nil {
		row.CustomWidth, row.CustomHeight = &p.Width, &p.Height
	}

	for i, s := range t.Sections {
		sr := sectionRow{
			ID:                   s.ID.String(),
			TemplateID:           row.ID,
			Name:                 s.Name,
			Kind:                 s.Kind.String(),
			VisibilityExpression: s.VisibilityExpression,
			Height:               s.Height,
			OrderIndex:           s.OrderIndex,
			Visible:              s.Visible,
			Elements:             make([]elementRow, len(s.Elements)),
		}

		for j, e := range s.Elements {
			props, err := report.MarshalProperties(e.Type, e.Properties)
			if err != nil {
				return templateRow{}, ErrDatabase.Wrap(err).With(slog.String("element", e.ID.String()))
			}

			sr.Elements[j] = elementRow{
				ID:                   e.ID.String(),
				SectionID:            sr.ID,
				Name:                 e.Name,
				Type:                 e.Type.String(),
				StaticText:           e.StaticText,
				DataField:            e.DataField,
				Expression:           e.Expression,
				FormatString:         e.FormatString,
				VisibilityExpression: e.VisibilityExpression,
				ForeColor:            e.ForeColor,
				BackColor:            e.BackColor,
				TextAlign:            e.TextAlign.String(),
				VerticalAlign:        e.VerticalAlign.String(),
				Properties:           datatypes.JSON(props),
				Font:                 e.Font,
				Border:               e.Border,
				X:                    e.X,
				Y:                    e.Y,
				Width:                e.Width,
				Height:               e.Height,
				ZIndex:               e.ZIndex,
				Visible:              e.Visible,
			}
		}

		row.Sections[i] = sr
	}

	return row, nil
}

func (row *templateRow) template() (*report.Template, error) {
	var (
		t   report.Template
		err error
	)

	if t.ID, err = parseID(row.ID); err != nil {
		return nil, err
	}

	if t.DataSourceID, err = parseOptionalID(row.DataSourceID); err != nil {
		return nil, err
	}

	if t.Orientation, err = report.ParseOrientation(row.Orientation); err != nil {
		return nil, err
	}

	if t.Paper, err = report.ParsePaperSize(row.Paper); err != nil {
		return nil, err
	}

	if row.CustomWidth != nil && row.CustomHeight != nil {
		t.CustomPage = &report.Size{Width: *row.CustomWidth, Height: *row.CustomHeight}
	}

	t.CreatedAt = row.CreatedAt.UTC()
	t.ModifiedAt = row.ModifiedAt.UTC()
	t.Name = row.Name
	t.Description = row.Description
	t.Author = row.Author
	t.Margins = row.Margins
	t.Version = row.Version
	t.Sections = make([]*report.Section, len(row.Sections))

	for i := range row.Sections {
		if t.Sections[i], err = row.Sections[i].section(t.ID); err != nil {
			return nil, err
		}
	}

	return arrange(&t), nil
}

func (row *sectionRow) section(owner uuid.UUID) (*report.Section, error) {
	s := report.Section{
		Name:                 row.Name,
		VisibilityExpression: row.VisibilityExpression,
		Height:               row.Height,
		OrderIndex:           row.OrderIndex,
		TemplateID:           owner,
		Visible:              row.Visible,
		Elements:             make([]*report.Element, len(row.Elements)),
	}

	var err error

	if s.ID, err = parseID(row.ID); err != nil {
		return nil, err
	}

	if s.Kind, err = report.ParseSectionKind(row.Kind); err != nil {
		return nil, err
	}

	for i := range row.Elements {
		if s.Elements[i], err = row.Elements[i].element(s.ID); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

func (row *elementRow) element(owner uuid.UUID) (*report.Element, error) {
	e := report.Element{
		Name:                 row.Name,
		ForeColor:            row.ForeColor,
		BackColor:            row.BackColor,
		StaticText:           row.StaticText,
		DataField:            row.DataField,
		Expression:           row.Expression,
		FormatString:         row.FormatString,
		VisibilityExpression: row.VisibilityExpression,
		Font:                 row.Font,
		Border:               row.Border,
		X:                    row.X,
		Y:                    row.Y,
		Width:                row.Width,
		Height:               row.Height,
		ZIndex:               row.ZIndex,
		SectionID:            owner,
		Visible:              row.Visible,
	}

	var err error

	if e.ID, err = parseID(row.ID); err != nil {
		return nil, err
	}

	if e.Type, err = report.ParseElementType(row.Type); err != nil {
		return nil, err
	}

	if e.TextAlign, err = report.ParseTextAlign(row.TextAlign); err != nil {
		return nil, err
	}

	if e.VerticalAlign, err = report.ParseVerticalAlign(row.VerticalAlign); err != nil {
		return nil, err
	}

	if _, e.Properties, err = report.UnmarshalProperties(row.Properties); err != nil {
		return nil, err
	}

	return &e, nil
}

func toDataSourceRow(ds *datasource.DataSource) dataSourceRow {
	row := dataSourceRow{
		CreatedAt:           ds.CreatedAt,
		ModifiedAt:          ds.ModifiedAt,
		ConnectionStringID:  optionalID(ds.ConnectionStringID),
		ID:                  ds.ID.String(),
		Name:                ds.Name,
		Description:         ds.Description,
		Type:                ds.Type.String(),
		SQLQuery:            ds.SQLQuery,
		StoredProcedureName: ds.StoredProcedureName,
		Table:               ds.TableName,
		Parameters:          make([]parameterRow, len(ds.Parameters)),
	}

	for i, p := range ds.Parameters {
		row.Parameters[i] = parameterRow{
			DefaultValue: p.DefaultValue,
			ID:           p.ID.String(),
			DataSourceID: row.ID,
			Name:         p.Name,
			DataType:     p.DataType,
			Position:     i,
			Required:     p.Required,
		}
	}

	return row
}

func (row *dataSourceRow) dataSource() (*datasource.DataSource, error) {
	ds := datasource.DataSource{
		CreatedAt:           row.CreatedAt.UTC(),
		ModifiedAt:          row.ModifiedAt.UTC(),
		Name:                row.Name,
		Description:         row.Description,
		SQLQuery:            row.SQLQuery,
		StoredProcedureName: row.StoredProcedureName,
		TableName:           row.Table,
		Parameters:          make([]datasource.Parameter, len(row.Parameters)),
	}

	var err error

	if ds.ID, err = parseID(row.ID); err != nil {
		return nil, err
	}

	if ds.ConnectionStringID, err = parseOptionalID(row.ConnectionStringID); err != nil {
		return nil, err
	}

	if ds.Type, err = datasource.ParseType(row.Type); err != nil {
		return nil, err
	}

	for i, p := range row.Parameters {
		id, err := parseID(p.ID)
		if err != nil {
			return nil, err
		}

		ds.Parameters[i] = datasource.Parameter{
			DefaultValue: p.DefaultValue,
			Name:         p.Name,
			DataType:     p.DataType,
			ID:           id,
			DataSourceID: ds.ID,
			Required:     p.Required,
		}
	}

	return &ds, nil
}

func toConnectionStringRow(cs *datasource.ConnectionString) connectionStringRow {
	return connectionStringRow{
		CreatedAt:            cs.CreatedAt,
		ModifiedAt:           cs.ModifiedAt,
		ID:                   cs.ID.String(),
		Name:                 cs.Name,
		Description:          cs.Description,
		Provider:             cs.Provider.String(),
		Server:               cs.Server,
		Database:             cs.Database,
		Username:             cs.Username,
		EncryptedPassword:    cs.EncryptedPassword,
		AdditionalParameters: cs.AdditionalParameters,
		Port:                 cs.Port,
		UseWindowsAuth:       cs.UseWindowsAuth,
	}
}

func (row *connectionStringRow) connectionString() (*datasource.ConnectionString, error) {
	cs := datasource.ConnectionString{
		CreatedAt:            row.CreatedAt.UTC(),
		ModifiedAt:           row.ModifiedAt.UTC(),
		Name:                 row.Name,
		Description:          row.Description,
		Server:               row.Server,
		Database:             row.Database,
		Username:             row.Username,
		EncryptedPassword:    row.EncryptedPassword,
		AdditionalParameters: row.AdditionalParameters,
		Port:                 row.Port,
		UseWindowsAuth:       row.UseWindowsAuth,
	}

	var err error

	if cs.ID, err = parseID(row.ID); err != nil {
		return nil, err
	}

	if cs.Provider, err = datasource.ParseProvider(row.Provider); err != nil {
		return nil, err
	}

	return &cs, nil
}
