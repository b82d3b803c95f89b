package designer

import (
	"context"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/report"
)

// Repository is the template persistence a [Session] needs. It is
// satisfied by the implementations in package store.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*report.Template, error)
	Create(ctx context.Context, t *report.Template) (*report.Template, error)
	Update(ctx context.Context, t *report.Template) (*report.Template, error)
}

// Option configures a [Session].
type Option func(*options)

type options struct {
	repo   Repository
	logger log.Logger
	grid   Grid
}

// WithLogger sets the session logger. The default is silent.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithGrid sets the layout grid. The default is [DefaultGrid].
func WithGrid(g Grid) Option {
	return func(o *options) { o.grid = g }
}

// WithRepository sets the store used by Load and Save.
func WithRepository(r Repository) Option {
	return func(o *options) { o.repo = r }
}
