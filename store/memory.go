package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/report"
)

// Memory is a [Repository] held in process memory. It is safe for
// concurrent use.
type Memory struct {
	mu   sync.RWMutex
	tpls map[uuid.UUID]*report.Template
	opts options
}

// NewMemory returns an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		tpls: make(map[uuid.UUID]*report.Template),
		opts: makeOptions(opts...),
	}
}

func (m *Memory) GetByID(ctx context.Context, id uuid.UUID) (*report.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tpls[id]
	if !ok {
		return nil, ErrNotFound.With(slog.String("id", id.String()))
	}

	return arrange(t.Clone()), nil
}

func (m *Memory) GetAll(ctx context.Context) ([]*report.Template, error) {
	return m.collect(ctx, func(*report.Template) bool { return true })
}

func (m *Memory) SearchByName(ctx context.Context, term string) ([]*report.Template, error) {
	return m.collect(ctx, func(t *report.Template) bool { return matches(t, term) })
}

func (m *Memory) collect(ctx context.Context, keep func(*report.Template) bool) ([]*report.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*report.Template, 0, len(m.tpls))

	for _, t := range m.tpls {
		if keep(t) {
			out = append(out, arrange(t.Clone()))
		}
	}

	slices.SortFunc(out, newest)

	return out, nil
}

func (m *Memory) Create(ctx context.Context, t *report.Template) (*report.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := t.Clone()
	prepare(c, stamp(m.opts.now))

	m.mu.Lock()
	m.tpls[c.ID] = c
	m.mu.Unlock()

	m.opts.logger.DebugContext(ctx, "template created", slog.String("id", c.ID.String()))

	return arrange(c.Clone()), nil
}

func (m *Memory) Update(ctx context.Context, t *report.Template) (*report.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.tpls[t.ID]
	if !ok {
		return nil, ErrNotFound.With(slog.String("id", t.ID.String()))
	}

	c := t.Clone()
	c.CreatedAt = cur.CreatedAt
	c.ModifiedAt = stamp(m.opts.now)
	c.Version = cur.Version + 1
	link(c)
	m.tpls[c.ID] = c

	m.opts.logger.DebugContext(ctx, "template updated",
		slog.String("id", c.ID.String()),
		slog.Int("version", c.Version))

	return arrange(c.Clone()), nil
}

func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.tpls, id)
	m.mu.Unlock()

	return nil
}
